package database

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	return translate(r.DB.WithContext(ctx).Create(profile).Error, "profile")
}

func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, translate(err, "profile")
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	res := r.DB.WithContext(ctx).Model(profile).Select("*").Omit("id", "created_at").Updates(profile)
	if res.Error != nil {
		return translate(res.Error, "profile")
	}
	if res.RowsAffected == 0 {
		return common.NewError(common.CodeNotFound, "profile not found", nil)
	}
	return nil
}

func (r *ProfileRepository) FindBySkills(ctx context.Context, skills []string) ([]models.Profile, error) {
	patterns := make([]string, 0, len(skills))
	for _, skill := range skills {
		patterns = append(patterns, regexp.QuoteMeta(skill))
	}
	if len(patterns) == 0 {
		return []models.Profile{}, nil
	}
	var profiles []models.Profile
	err := r.DB.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM unnest(skills) AS s WHERE s ~* ANY(?::text[]))", pq.StringArray(patterns)).
		Order("created_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, translate(err, "profile")
	}
	return profiles, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, translate(err, "profile")
	}
	return profiles, nil
}

func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Profile{}).Count(&count).Error; err != nil {
		return 0, translate(err, "profile")
	}
	return count, nil
}
