package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
	"gorm.io/gorm"
)

type ApplicationRepository struct {
	DB *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{DB: db}
}

// Create relies on the unique (job_id, candidate_email) index; a concurrent
// duplicate surfaces as a conflict.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if err := r.DB.WithContext(ctx).Omit("Job").Create(app).Error; err != nil {
		return translate(err, "application")
	}
	return nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.DB.WithContext(ctx).Preload("Job").Where("id = ?", id).First(&app).Error; err != nil {
		return nil, translate(err, "application")
	}
	return &app, nil
}

func (r *ApplicationRepository) FindByCandidateAndJob(ctx context.Context, email string, jobID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.DB.WithContext(ctx).Where("candidate_email = ? AND job_id = ?", email, jobID).First(&app).Error
	if err != nil {
		return nil, translate(err, "application")
	}
	return &app, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus, at time.Time) (*models.Application, error) {
	res := r.DB.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": at})
	if res.Error != nil {
		return nil, translate(res.Error, "application")
	}
	if res.RowsAffected == 0 {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return r.FindByID(ctx, id)
}

func (r *ApplicationRepository) List(ctx context.Context, filter repository.ApplicationFilter) ([]models.Application, error) {
	if filter.JobIDs != nil && len(filter.JobIDs) == 0 {
		return []models.Application{}, nil
	}
	q := r.DB.WithContext(ctx).Preload("Job")
	if filter.JobIDs != nil {
		q = q.Where("job_id IN ?", filter.JobIDs)
	}
	if filter.CandidateEmail != "" {
		q = q.Where("candidate_email = ?", filter.CandidateEmail)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var apps []models.Application
	if err := q.Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, translate(err, "application")
	}
	return apps, nil
}

func (r *ApplicationRepository) Recent(ctx context.Context, limit int) ([]models.Application, error) {
	var apps []models.Application
	if err := r.DB.WithContext(ctx).Preload("Job").Order("created_at DESC").Limit(limit).Find(&apps).Error; err != nil {
		return nil, translate(err, "application")
	}
	return apps, nil
}

func (r *ApplicationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Application{}).Count(&count).Error; err != nil {
		return 0, translate(err, "application")
	}
	return count, nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	var out []repository.StatusCount
	err := r.DB.WithContext(ctx).Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, "application")
	}
	return out, nil
}
