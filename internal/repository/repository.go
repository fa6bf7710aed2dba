// Package repository declares the persistence contracts used by the services.
// internal/database implements them on Postgres and internal/database/memstore
// implements them in memory.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/models"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	// FindBySkills returns profiles having at least one skill matched by one of
	// the given skills used as a case-insensitive pattern.
	FindBySkills(ctx context.Context, skills []string) ([]models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Count(ctx context.Context) (int64, error)
}

type EmployerRepository interface {
	Create(ctx context.Context, employer *models.EmployerProfile) error
	FindByEmail(ctx context.Context, email string) (*models.EmployerProfile, error)
	Update(ctx context.Context, employer *models.EmployerProfile) error
	List(ctx context.Context) ([]models.EmployerProfile, error)
	Count(ctx context.Context) (int64, error)
}

// JobFilter narrows List. Zero values mean "no constraint" except Status,
// which the service defaults.
type JobFilter struct {
	Search         string
	Location       string
	EmploymentType models.EmploymentType
	MinSalary      *float64
	MaxSalary      *float64
	MinExperience  *int
	MaxExperience  *int
	Education      models.EducationLevel
	Status         models.JobStatus
}

type MonthlyCount struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

type TypeCount struct {
	EmploymentType models.EmploymentType `json:"employmentType"`
	Count          int64                 `json:"count"`
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns matching jobs, newest first.
	List(ctx context.Context, filter JobFilter) ([]models.Job, error)
	ListByEmployer(ctx context.Context, email string) ([]models.Job, error)
	// ListAll returns every job in creation order.
	ListAll(ctx context.Context) ([]models.Job, error)
	Count(ctx context.Context) (int64, error)
	MonthlyCounts(ctx context.Context, limit int) ([]MonthlyCount, error)
	TopEmploymentTypes(ctx context.Context, limit int) ([]TypeCount, error)
}

// ApplicationFilter narrows List. A nil JobIDs slice means any job; an empty
// non-nil slice matches nothing.
type ApplicationFilter struct {
	JobIDs         []uuid.UUID
	CandidateEmail string
	Status         models.ApplicationStatus
}

type StatusCount struct {
	Status models.ApplicationStatus `json:"status"`
	Count  int64                    `json:"count"`
}

type ApplicationRepository interface {
	// Create fails with a conflict error when the (candidate, job) pair exists.
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindByCandidateAndJob(ctx context.Context, email string, jobID uuid.UUID) (*models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus, at time.Time) (*models.Application, error)
	// List returns matching applications with Job populated, newest first.
	List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error)
	Recent(ctx context.Context, limit int) ([]models.Application, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}
