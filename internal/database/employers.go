package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/models"
	"gorm.io/gorm"
)

type EmployerRepository struct {
	DB *gorm.DB
}

func NewEmployerRepository(db *gorm.DB) *EmployerRepository {
	return &EmployerRepository{DB: db}
}

func (r *EmployerRepository) Create(ctx context.Context, employer *models.EmployerProfile) error {
	if employer.ID == uuid.Nil {
		employer.ID = uuid.New()
	}
	return translate(r.DB.WithContext(ctx).Create(employer).Error, "employer")
}

func (r *EmployerRepository) FindByEmail(ctx context.Context, email string) (*models.EmployerProfile, error) {
	var employer models.EmployerProfile
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&employer).Error; err != nil {
		return nil, translate(err, "employer")
	}
	return &employer, nil
}

func (r *EmployerRepository) Update(ctx context.Context, employer *models.EmployerProfile) error {
	res := r.DB.WithContext(ctx).Model(employer).Select("*").Omit("id", "created_at").Updates(employer)
	if res.Error != nil {
		return translate(res.Error, "employer")
	}
	if res.RowsAffected == 0 {
		return common.NewError(common.CodeNotFound, "employer not found", nil)
	}
	return nil
}

func (r *EmployerRepository) List(ctx context.Context) ([]models.EmployerProfile, error) {
	var employers []models.EmployerProfile
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&employers).Error; err != nil {
		return nil, translate(err, "employer")
	}
	return employers, nil
}

func (r *EmployerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.EmployerProfile{}).Count(&count).Error; err != nil {
		return 0, translate(err, "employer")
	}
	return count, nil
}
