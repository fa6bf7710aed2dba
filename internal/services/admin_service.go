package services

import (
	"context"

	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
)

const (
	recentApplicationsLimit = 5
	monthlyTrendLimit       = 6
	topEmploymentTypesLimit = 5
)

type DashboardCounts struct {
	Employers         int64 `json:"employers"`
	JobSeekers        int64 `json:"jobSeekers"`
	TotalJobs         int64 `json:"totalJobs"`
	TotalApplications int64 `json:"totalApplications"`
}

type DashboardStats struct {
	Counts                  DashboardCounts           `json:"counts"`
	RecentApplications      []models.Application      `json:"recentApplications"`
	ApplicationStatusCounts []repository.StatusCount  `json:"applicationStatusCounts"`
	MonthlyJobTrends        []repository.MonthlyCount `json:"monthlyJobTrends"`
	TopEmploymentTypes      []repository.TypeCount    `json:"topEmploymentTypes"`
}

type AdminService struct {
	Profiles     repository.ProfileRepository
	Employers    repository.EmployerRepository
	Jobs         repository.JobRepository
	Applications repository.ApplicationRepository
}

func NewAdminService(profiles repository.ProfileRepository, employers repository.EmployerRepository, jobs repository.JobRepository, applications repository.ApplicationRepository) *AdminService {
	return &AdminService{Profiles: profiles, Employers: employers, Jobs: jobs, Applications: applications}
}

func (s *AdminService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)
	if stats.Counts.Employers, err = s.Employers.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Counts.JobSeekers, err = s.Profiles.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Counts.TotalJobs, err = s.Jobs.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Counts.TotalApplications, err = s.Applications.Count(ctx); err != nil {
		return nil, err
	}
	if stats.RecentApplications, err = s.Applications.Recent(ctx, recentApplicationsLimit); err != nil {
		return nil, err
	}
	if stats.ApplicationStatusCounts, err = s.Applications.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if stats.MonthlyJobTrends, err = s.Jobs.MonthlyCounts(ctx, monthlyTrendLimit); err != nil {
		return nil, err
	}
	if stats.TopEmploymentTypes, err = s.Jobs.TopEmploymentTypes(ctx, topEmploymentTypesLimit); err != nil {
		return nil, err
	}
	return &stats, nil
}
