package database

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
	"gorm.io/gorm"
)

type JobRepository struct {
	DB *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{DB: db}
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	return translate(r.DB.WithContext(ctx).Create(job).Error, "job")
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, translate(err, "job")
	}
	return &job, nil
}

func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	res := r.DB.WithContext(ctx).Model(job).Select("*").Omit("id", "created_at").Updates(job)
	if res.Error != nil {
		return translate(res.Error, "job")
	}
	if res.RowsAffected == 0 {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Job{})
	if res.Error != nil {
		return translate(res.Error, "job")
	}
	if res.RowsAffected == 0 {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return nil
}

func (r *JobRepository) List(ctx context.Context, filter repository.JobFilter) ([]models.Job, error) {
	q := r.DB.WithContext(ctx).Model(&models.Job{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("(title ILIKE ? OR description ILIKE ? OR array_to_string(skills, ' ') ILIKE ?)", like, like, like)
	}
	if filter.Location != "" {
		q = q.Where("location ~* ?", regexp.QuoteMeta(filter.Location))
	}
	if filter.EmploymentType != "" {
		q = q.Where("employment_type = ?", filter.EmploymentType)
	}
	if filter.MinSalary != nil {
		q = q.Where("salary_min >= ?", *filter.MinSalary)
	}
	if filter.MaxSalary != nil {
		q = q.Where("salary_max <= ?", *filter.MaxSalary)
	}
	if filter.MinExperience != nil {
		q = q.Where("experience_min >= ?", *filter.MinExperience)
	}
	if filter.MaxExperience != nil {
		q = q.Where("experience_max <= ?", *filter.MaxExperience)
	}
	if filter.Education != "" {
		q = q.Where("education = ?", filter.Education)
	}

	var jobs []models.Job
	if err := q.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, translate(err, "job")
	}
	return jobs, nil
}

func (r *JobRepository) ListByEmployer(ctx context.Context, email string) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.DB.WithContext(ctx).Where("employer_email = ?", email).Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, translate(err, "job")
	}
	return jobs, nil
}

func (r *JobRepository) ListAll(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&jobs).Error; err != nil {
		return nil, translate(err, "job")
	}
	return jobs, nil
}

func (r *JobRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Job{}).Count(&count).Error; err != nil {
		return 0, translate(err, "job")
	}
	return count, nil
}

func (r *JobRepository) MonthlyCounts(ctx context.Context, limit int) ([]repository.MonthlyCount, error) {
	var out []repository.MonthlyCount
	err := r.DB.WithContext(ctx).Model(&models.Job{}).
		Select("EXTRACT(YEAR FROM created_at)::int AS year, EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*) AS count").
		Group("year, month").
		Order("year DESC, month DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, "job")
	}
	return out, nil
}

func (r *JobRepository) TopEmploymentTypes(ctx context.Context, limit int) ([]repository.TypeCount, error) {
	var out []repository.TypeCount
	err := r.DB.WithContext(ctx).Model(&models.Job{}).
		Select("employment_type, COUNT(*) AS count").
		Group("employment_type").
		Order("count DESC, employment_type ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, "job")
	}
	return out, nil
}
