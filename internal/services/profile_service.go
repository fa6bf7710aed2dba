package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
	"go.uber.org/zap"
)

const notSpecified = "Not specified"

type ProfileService struct {
	Profiles repository.ProfileRepository
	Logger   *zap.Logger
}

func NewProfileService(profiles repository.ProfileRepository, log *zap.Logger) *ProfileService {
	return &ProfileService{Profiles: profiles, Logger: log}
}

func (s *ProfileService) Submit(ctx context.Context, req *dtos.ProfileRequest) (*models.Profile, error) {
	profile := profileFromRequest(req)
	if _, err := s.Profiles.FindByEmail(ctx, profile.Email); err == nil {
		return nil, common.NewError(common.CodeConflict, "Profile already exists", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	profile.ID = uuid.New()
	if err := s.Profiles.Create(ctx, profile); err != nil {
		if common.Is(err, common.CodeConflict) {
			return nil, common.NewError(common.CodeConflict, "Profile already exists", err)
		}
		return nil, err
	}
	s.Logger.Info("profile created", zap.String("email", profile.Email))
	return profile, nil
}

func (s *ProfileService) Get(ctx context.Context, email string) (*models.Profile, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, common.NewValidationError("email is required", map[string]string{"email": "is required"})
	}
	return s.Profiles.FindByEmail(ctx, email)
}

// Update replaces the profile stored under email. The email itself is the
// key and cannot be changed through the body.
func (s *ProfileService) Update(ctx context.Context, email string, req *dtos.ProfileRequest) (*models.Profile, error) {
	existing, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	profile := profileFromRequest(req)
	profile.ID = existing.ID
	profile.Email = existing.Email
	profile.CreatedAt = existing.CreatedAt
	if profile.Resume == "" {
		profile.Resume = existing.Resume
	}
	if profile.ExtractedResumeText == "" {
		profile.ExtractedResumeText = existing.ExtractedResumeText
	}
	if err := s.Profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return s.Profiles.FindByEmail(ctx, existing.Email)
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	return s.Profiles.List(ctx)
}

func profileFromRequest(req *dtos.ProfileRequest) *models.Profile {
	education := make([]models.Education, 0, len(req.Education))
	for _, e := range req.Education {
		edu := models.Education{
			Institution:         strings.TrimSpace(e.Institution),
			Degree:              strings.TrimSpace(e.Degree),
			Field:               strings.TrimSpace(e.Field),
			StartDate:           e.StartDate,
			EndDate:             e.EndDate,
			Marks:               strings.TrimSpace(e.Marks),
			Grade:               strings.TrimSpace(e.Grade),
			IsCurrentlyStudying: e.IsCurrentlyStudying,
		}
		if edu.IsCurrentlyStudying {
			edu.EndDate = nil
		}
		education = append(education, edu)
	}

	work := []models.WorkExperience{}
	if !req.IsFresher {
		for _, w := range req.WorkExperience {
			exp := models.WorkExperience{
				Company:            orNotSpecified(w.Company),
				Position:           orNotSpecified(w.Position),
				StartDate:          w.StartDate,
				EndDate:            w.EndDate,
				IsCurrentlyWorking: w.IsCurrentlyWorking,
				Description:        orNotSpecified(w.Description),
				Responsibilities:   cleanList(w.Responsibilities),
				Achievements:       cleanList(w.Achievements),
				Skills:             cleanList(w.Skills),
			}
			if exp.IsCurrentlyWorking {
				exp.EndDate = nil
			}
			work = append(work, exp)
		}
	}

	return &models.Profile{
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		Email:               normalizeEmail(req.Email),
		PhoneNumber:         strings.TrimSpace(req.PhoneNumber),
		Location:            strings.TrimSpace(req.Location),
		Skills:              cleanList(req.Skills),
		Education:           education,
		WorkExperience:      work,
		IsFresher:           req.IsFresher,
		Resume:              strings.TrimSpace(req.Resume),
		ExtractedResumeText: req.ExtractedResumeText,
	}
}

func orNotSpecified(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return notSpecified
	}
	return s
}
