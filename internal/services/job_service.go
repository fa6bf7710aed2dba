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

type JobService struct {
	Jobs   repository.JobRepository
	LLM    *LLMService
	Logger *zap.Logger
}

func NewJobService(jobs repository.JobRepository, llm *LLMService, log *zap.Logger) *JobService {
	return &JobService{Jobs: jobs, LLM: llm, Logger: log}
}

func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobRequest) (*models.Job, error) {
	job, err := jobFromRequest(req)
	if err != nil {
		return nil, err
	}
	job.ID = uuid.New()
	if err := s.Jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	s.Logger.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("employer", job.EmployerEmail),
	)
	return job, nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	jobID, err := parseJobID(id)
	if err != nil {
		return nil, err
	}
	return s.Jobs.FindByID(ctx, jobID)
}

// UpdateJob replaces every editable field of the job.
func (s *JobService) UpdateJob(ctx context.Context, id string, req *dtos.JobRequest) (*models.Job, error) {
	jobID, err := parseJobID(id)
	if err != nil {
		return nil, err
	}
	existing, err := s.Jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job, err := jobFromRequest(req)
	if err != nil {
		return nil, err
	}
	job.ID = existing.ID
	job.CreatedAt = existing.CreatedAt
	if err := s.Jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return s.Jobs.FindByID(ctx, jobID)
}

func (s *JobService) DeleteJob(ctx context.Context, id string) error {
	jobID, err := parseJobID(id)
	if err != nil {
		return err
	}
	if err := s.Jobs.Delete(ctx, jobID); err != nil {
		return err
	}
	s.Logger.Info("job deleted", zap.String("job_id", jobID.String()))
	return nil
}

// ListJobs returns jobs matching the query. Without an explicit status only
// active jobs are listed.
func (s *JobService) ListJobs(ctx context.Context, q dtos.JobListQuery) ([]models.Job, error) {
	filter := repository.JobFilter{
		Search:         strings.TrimSpace(q.Search),
		Location:       strings.TrimSpace(q.Location),
		EmploymentType: models.EmploymentType(q.EmploymentType),
		MinSalary:      q.MinSalary,
		MaxSalary:      q.MaxSalary,
		MinExperience:  q.MinExperience,
		MaxExperience:  q.MaxExperience,
		Education:      models.EducationLevel(q.Education),
		Status:         models.JobStatus(q.Status),
	}
	if filter.Status == "" {
		filter.Status = models.JobActive
	}
	return s.Jobs.List(ctx, filter)
}

func (s *JobService) ListByEmployer(ctx context.Context, email string) ([]models.Job, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, common.NewValidationError("email is required", map[string]string{"email": "is required"})
	}
	return s.Jobs.ListByEmployer(ctx, email)
}

// ExtractJob drafts a posting from raw page content with the LLM.
func (s *JobService) ExtractJob(ctx context.Context, rawHTML string) (*dtos.ExtractedJob, error) {
	draft, err := s.LLM.ExtractJobDetails(ctx, rawHTML)
	if err != nil {
		return nil, err
	}
	draft.Skills = cleanList(draft.Skills)
	draft.Responsibilities = cleanList(draft.Responsibilities)
	draft.Requirements = cleanList(draft.Requirements)
	draft.Benefits = cleanList(draft.Benefits)
	return draft, nil
}

func jobFromRequest(req *dtos.JobRequest) (*models.Job, error) {
	fields := map[string]string{}
	switch {
	case req.Salary.Min == nil || req.Salary.Max == nil:
		fields["salary"] = "min and max are required"
	case *req.Salary.Min > *req.Salary.Max:
		fields["salary.min"] = "must not exceed salary.max"
	}
	switch {
	case req.Experience.Min == nil || req.Experience.Max == nil:
		fields["experience"] = "min and max are required"
	case *req.Experience.Min > *req.Experience.Max:
		fields["experience.min"] = "must not exceed experience.max"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("Invalid job", fields)
	}

	period := models.SalaryPeriod(req.Salary.Type)
	if period == "" {
		period = models.SalaryPerYear
	}
	status := models.JobStatus(req.Status)
	if status == "" {
		status = models.JobActive
	}
	return &models.Job{
		Title:    strings.TrimSpace(req.Title),
		Company:  strings.TrimSpace(req.Company),
		Location: strings.TrimSpace(req.Location),
		Salary: models.Salary{
			Min:  *req.Salary.Min,
			Max:  *req.Salary.Max,
			Type: period,
		},
		EmploymentType: models.EmploymentType(req.EmploymentType),
		Experience: models.ExperienceRange{
			Min: *req.Experience.Min,
			Max: *req.Experience.Max,
		},
		Education:           models.EducationLevel(req.Education),
		Skills:              cleanList(req.Skills),
		Description:         strings.TrimSpace(req.Description),
		Responsibilities:    cleanList(req.Responsibilities),
		Requirements:        cleanList(req.Requirements),
		Benefits:            cleanList(req.Benefits),
		ApplicationDeadline: req.ApplicationDeadline,
		ContactEmail:        normalizeEmail(req.ContactEmail),
		ContactPhone:        strings.TrimSpace(req.ContactPhone),
		Website:             strings.TrimSpace(req.Website),
		EmployerEmail:       normalizeEmail(req.EmployerEmail),
		Status:              status,
	}, nil
}

func parseJobID(id string) (uuid.UUID, error) {
	jobID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, common.NewValidationError("invalid job ID format", map[string]string{"jobId": "must be a UUID"})
	}
	return jobID, nil
}
