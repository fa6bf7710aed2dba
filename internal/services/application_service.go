package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/events"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
	"go.uber.org/zap"
)

const msgAlreadyApplied = "You have already applied for this job"

type ApplicationService struct {
	Applications repository.ApplicationRepository
	Jobs         repository.JobRepository
	Profiles     repository.ProfileRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewApplicationService(
	applications repository.ApplicationRepository,
	jobs repository.JobRepository,
	profiles repository.ProfileRepository,
	dispatcher events.Dispatcher,
	log *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		Applications: applications,
		Jobs:         jobs,
		Profiles:     profiles,
		Dispatcher:   dispatcher,
		Logger:       log,
		Now:          time.Now,
	}
}

type SubmitInput struct {
	JobID          string
	CandidateEmail string
	CoverLetter    string
	Resume         string
}

func (s *ApplicationService) Submit(ctx context.Context, in SubmitInput) (*models.Application, error) {
	fields := map[string]string{}
	jobID, err := parseJobID(in.JobID)
	if err != nil {
		fields["jobId"] = "must be a UUID"
	}
	email := normalizeEmail(in.CandidateEmail)
	if email == "" {
		fields["candidateEmail"] = "is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("Job ID and candidate email are required", fields)
	}

	job, err := s.Jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	profile, err := s.Profiles.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	existing, err := s.Applications.FindByCandidateAndJob(ctx, email, jobID)
	switch {
	case err == nil && existing != nil:
		return nil, common.NewError(common.CodeConflict, msgAlreadyApplied, nil)
	case err != nil && !common.Is(err, common.CodeNotFound):
		return nil, err
	}

	resume := strings.TrimSpace(in.Resume)
	if resume == "" {
		resume = profile.Resume
	}
	now := s.Now().UTC()
	app := &models.Application{
		ID:             uuid.New(),
		JobID:          jobID,
		CandidateEmail: email,
		Status:         models.ApplicationPending,
		CoverLetter:    strings.TrimSpace(in.CoverLetter),
		Resume:         resume,
		AppliedAt:      now,
	}
	if err := s.Applications.Create(ctx, app); err != nil {
		// A concurrent submit can pass the lookup above; the unique index decides.
		if common.Is(err, common.CodeConflict) {
			s.Logger.Warn("duplicate application rejected by store",
				zap.String("job_id", jobID.String()),
				zap.String("candidate", email),
			)
			return nil, common.NewError(common.CodeConflict, msgAlreadyApplied, err)
		}
		return nil, err
	}
	app.Job = job

	s.Logger.Info("application submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("job_id", jobID.String()),
		zap.String("candidate", email),
	)
	return app, nil
}

func (s *ApplicationService) Get(ctx context.Context, id string) (*models.Application, error) {
	appID, err := parseApplicationID(id)
	if err != nil {
		return nil, err
	}
	return s.Applications.FindByID(ctx, appID)
}

// SetStatus moves an application to accepted or rejected. When employerEmail
// is non-empty it must own the application's job.
//
// On acceptance the status is persisted before the notification is
// dispatched. If resolving the job or candidate fails, or dispatch fails, the
// updated application is returned together with the error.
func (s *ApplicationService) SetStatus(ctx context.Context, id string, status models.ApplicationStatus, employerEmail string) (*models.Application, error) {
	appID, err := parseApplicationID(id)
	if err != nil {
		return nil, err
	}
	status = models.ApplicationStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if status != models.ApplicationAccepted && status != models.ApplicationRejected {
		return nil, common.NewValidationError("Invalid status",
			map[string]string{"status": "must be one of accepted, rejected"})
	}

	current, err := s.Applications.FindByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if employer := normalizeEmail(employerEmail); employer != "" {
		if current.Job == nil || normalizeEmail(current.Job.EmployerEmail) != employer {
			return nil, common.NewError(common.CodeForbidden, "Only the job's employer can update this application", nil)
		}
	}

	updated, err := s.Applications.UpdateStatus(ctx, appID, status, s.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.Logger.Info("application status updated",
		zap.String("application_id", appID.String()),
		zap.String("status", string(status)),
	)
	if status != models.ApplicationAccepted {
		return updated, nil
	}

	event, err := s.acceptanceEvent(ctx, updated)
	if err != nil {
		s.Logger.Warn("application accepted but not notified",
			zap.String("application_id", appID.String()),
			zap.String("job_id", updated.JobID.String()),
			zap.String("candidate", updated.CandidateEmail),
			zap.Error(err),
		)
		return updated, err
	}
	if err := s.Dispatcher.Dispatch(ctx, event); err != nil {
		s.Logger.Error("acceptance notification failed",
			zap.String("application_id", appID.String()),
			zap.String("candidate", updated.CandidateEmail),
			zap.Error(err),
		)
		return updated, common.NewError(common.CodeDependencyFailure,
			"Application accepted but failed to send acceptance email", err)
	}
	return updated, nil
}

func (s *ApplicationService) acceptanceEvent(ctx context.Context, app *models.Application) (events.ApplicationAccepted, error) {
	job, err := s.Jobs.FindByID(ctx, app.JobID)
	if err != nil {
		return events.ApplicationAccepted{}, err
	}
	candidate, err := s.Profiles.FindByEmail(ctx, app.CandidateEmail)
	if err != nil {
		return events.ApplicationAccepted{}, err
	}
	return events.ApplicationAccepted{
		ApplicationID: app.ID,
		To:            candidate.Email,
		JobTitle:      job.Title,
		CompanyName:   job.Company,
		CandidateName: candidate.FullName(),
		JobLocation:   job.Location,
		Salary:        FormatSalary(job.Salary),
		StartDate:     s.Now().UTC().Format("2006-01-02"),
	}, nil
}

// FormatSalary renders a salary range as "min - max period".
func FormatSalary(salary models.Salary) string {
	return fmt.Sprintf("%s - %s %s",
		strconv.FormatFloat(salary.Min, 'f', -1, 64),
		strconv.FormatFloat(salary.Max, 'f', -1, 64),
		salary.Type,
	)
}

func (s *ApplicationService) ListByJob(ctx context.Context, jobID string, acceptedOnly bool) ([]models.Application, error) {
	id, err := parseJobID(jobID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Jobs.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.Applications.List(ctx, repository.ApplicationFilter{
		JobIDs: []uuid.UUID{id},
		Status: statusFilter(acceptedOnly),
	})
}

func (s *ApplicationService) ListByCandidate(ctx context.Context, email string, acceptedOnly bool) ([]models.Application, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, common.NewValidationError("email is required", map[string]string{"email": "is required"})
	}
	return s.Applications.List(ctx, repository.ApplicationFilter{
		CandidateEmail: email,
		Status:         statusFilter(acceptedOnly),
	})
}

// ListByEmployer returns applications to every job the employer owns.
func (s *ApplicationService) ListByEmployer(ctx context.Context, email string, acceptedOnly bool) ([]models.Application, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, common.NewValidationError("email is required", map[string]string{"email": "is required"})
	}
	jobs, err := s.Jobs.ListByEmployer(ctx, email)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}
	return s.Applications.List(ctx, repository.ApplicationFilter{
		JobIDs: ids,
		Status: statusFilter(acceptedOnly),
	})
}

func statusFilter(acceptedOnly bool) models.ApplicationStatus {
	if acceptedOnly {
		return models.ApplicationAccepted
	}
	return ""
}

func parseApplicationID(id string) (uuid.UUID, error) {
	appID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, common.NewValidationError("invalid application ID format",
			map[string]string{"id": "must be a UUID"})
	}
	return appID, nil
}
