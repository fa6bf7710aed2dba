package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
	"go.uber.org/zap"
)

var logoTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// LogoUpload is an optional company logo sent with an employer update.
type LogoUpload struct {
	Filename string
	Data     []byte
}

type EmployerService struct {
	Employers    repository.EmployerRepository
	Storage      ResumeStorage
	MaxLogoBytes int64
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewEmployerService(employers repository.EmployerRepository, storage ResumeStorage, maxLogoBytes int64, log *zap.Logger) *EmployerService {
	return &EmployerService{Employers: employers, Storage: storage, MaxLogoBytes: maxLogoBytes, Logger: log, Now: time.Now}
}

func (s *EmployerService) Get(ctx context.Context, email string) (*models.EmployerProfile, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, common.NewValidationError("email is required", map[string]string{"email": "is required"})
	}
	return s.Employers.FindByEmail(ctx, email)
}

func (s *EmployerService) List(ctx context.Context) ([]models.EmployerProfile, error) {
	return s.Employers.List(ctx)
}

// Upsert creates the employer profile stored under email or updates the
// fields present in req. A new profile without a name takes it from the email
// local part: "jane.doe@acme.io" gives "jane" and "doe", and a local part
// without a dot gets the last name "User".
func (s *EmployerService) Upsert(ctx context.Context, email string, req *dtos.EmployerRequest, logo *LogoUpload) (*models.EmployerProfile, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, common.NewValidationError("email is required", map[string]string{"email": "is required"})
	}

	var logoRef string
	if logo != nil {
		ref, err := s.saveLogo(ctx, logo)
		if err != nil {
			return nil, err
		}
		logoRef = ref
	}

	existing, err := s.Employers.FindByEmail(ctx, email)
	switch {
	case common.Is(err, common.CodeNotFound):
		employer := &models.EmployerProfile{ID: uuid.New(), Email: email}
		applyEmployerRequest(employer, req, logoRef)
		if employer.FirstName == "" || employer.LastName == "" {
			first, last := namesFromEmail(email)
			if employer.FirstName == "" {
				employer.FirstName = first
			}
			if employer.LastName == "" {
				employer.LastName = last
			}
		}
		err := s.Employers.Create(ctx, employer)
		if err == nil {
			s.Logger.Info("employer profile created", zap.String("email", email))
			return employer, nil
		}
		if !common.Is(err, common.CodeConflict) {
			return nil, err
		}
		// Created concurrently; apply the request as an update instead.
		if existing, err = s.Employers.FindByEmail(ctx, email); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	applyEmployerRequest(existing, req, logoRef)
	if err := s.Employers.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.Logger.Info("employer profile updated", zap.String("email", email))
	return s.Employers.FindByEmail(ctx, email)
}

func (s *EmployerService) saveLogo(ctx context.Context, logo *LogoUpload) (string, error) {
	if len(logo.Data) == 0 {
		return "", common.NewValidationError("Logo file is empty", map[string]string{"logo": "is empty"})
	}
	if s.MaxLogoBytes > 0 && int64(len(logo.Data)) > s.MaxLogoBytes {
		return "", common.NewValidationError("Logo too large",
			map[string]string{"logo": fmt.Sprintf("must be at most %d bytes", s.MaxLogoBytes)})
	}
	mtype := mimetype.Detect(logo.Data)
	if !mimetype.EqualsAny(mtype.String(), logoTypes...) {
		return "", common.NewValidationError("Only PNG, JPEG, GIF and WebP logos are allowed",
			map[string]string{"logo": "must be an image"})
	}

	name := fmt.Sprintf("logo-%d-%s%s", s.Now().UnixMilli(), uuid.NewString()[:8], mtype.Extension())
	ref, err := s.Storage.Save(ctx, name, mtype.String(), logo.Data)
	if err != nil {
		return "", common.NewError(common.CodeInternal, "Error uploading logo", err)
	}
	s.Logger.Info("employer logo stored", zap.String("file", ref), zap.String("source", logo.Filename))
	return ref, nil
}

func applyEmployerRequest(e *models.EmployerProfile, req *dtos.EmployerRequest, logoRef string) {
	if req != nil {
		setIfPresent(&e.FirstName, req.FirstName)
		setIfPresent(&e.LastName, req.LastName)
		setIfPresent(&e.CompanyName, req.CompanyName)
		setIfPresent(&e.Phone, req.Phone)
		setIfPresent(&e.Location, req.Location)
		setIfPresent(&e.Website, req.Website)
		setIfPresent(&e.Description, req.Description)
		setIfPresent(&e.Industry, req.Industry)
		setIfPresent(&e.CompanySize, req.CompanySize)
		if req.FoundedYear > 0 {
			e.FoundedYear = req.FoundedYear
		}
	}
	if logoRef != "" {
		e.Logo = logoRef
	}
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func namesFromEmail(email string) (first, last string) {
	local, _, _ := strings.Cut(email, "@")
	first, last, _ = strings.Cut(local, ".")
	if first == "" {
		first = local
	}
	if last == "" {
		last = "User"
	}
	return first, last
}
