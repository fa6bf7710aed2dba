// Package memstore keeps profiles, jobs and applications in process memory.
// It backs the API when no DATABASE_URL is configured and serves as the fake
// store in tests. Uniqueness rules mirror the Postgres indexes.
package memstore

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
)

type Store struct {
	mu           sync.RWMutex
	profiles     []*models.Profile
	employers    []*models.EmployerProfile
	jobs         []*models.Job
	applications []*models.Application
	now          func() time.Time
}

func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{s: s}
}

func (s *Store) Employers() *EmployerRepository {
	return &EmployerRepository{s: s}
}

func (s *Store) Jobs() *JobRepository {
	return &JobRepository{s: s}
}

func (s *Store) Applications() *ApplicationRepository {
	return &ApplicationRepository{s: s}
}

type ProfileRepository struct {
	s *Store
}

func (r *ProfileRepository) Create(_ context.Context, profile *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if p.Email == profile.Email {
			return common.NewError(common.CodeConflict, "profile already exists", nil)
		}
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := r.s.now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	r.s.profiles = append(r.s.profiles, cloneProfile(profile))
	return nil
}

func (r *ProfileRepository) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.profiles {
		if p.Email == email {
			return cloneProfile(p), nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "profile not found", nil)
}

func (r *ProfileRepository) Update(_ context.Context, profile *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, p := range r.s.profiles {
		if p.ID != profile.ID {
			continue
		}
		for _, other := range r.s.profiles {
			if other.ID != profile.ID && other.Email == profile.Email {
				return common.NewError(common.CodeConflict, "profile already exists", nil)
			}
		}
		profile.CreatedAt = p.CreatedAt
		profile.UpdatedAt = r.s.now()
		r.s.profiles[i] = cloneProfile(profile)
		return nil
	}
	return common.NewError(common.CodeNotFound, "profile not found", nil)
}

func (r *ProfileRepository) FindBySkills(_ context.Context, skills []string) ([]models.Profile, error) {
	patterns := make([]*regexp.Regexp, 0, len(skills))
	for _, skill := range skills {
		patterns = append(patterns, regexp.MustCompile("(?i)"+regexp.QuoteMeta(skill)))
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Profile{}
	for _, p := range r.s.profiles {
		if anySkillMatches(p.Skills, patterns) {
			out = append(out, *cloneProfile(p))
		}
	}
	return out, nil
}

func anySkillMatches(skills []string, patterns []*regexp.Regexp) bool {
	for _, skill := range skills {
		for _, re := range patterns {
			if re.MatchString(skill) {
				return true
			}
		}
	}
	return false
}

func (r *ProfileRepository) List(_ context.Context) ([]models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, *cloneProfile(p))
	}
	return out, nil
}

func (r *ProfileRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.profiles)), nil
}

type EmployerRepository struct {
	s *Store
}

func (r *EmployerRepository) Create(_ context.Context, employer *models.EmployerProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employers {
		if e.Email == employer.Email {
			return common.NewError(common.CodeConflict, "employer already exists", nil)
		}
	}
	if employer.ID == uuid.Nil {
		employer.ID = uuid.New()
	}
	now := r.s.now()
	employer.CreatedAt = now
	employer.UpdatedAt = now
	copied := *employer
	r.s.employers = append(r.s.employers, &copied)
	return nil
}

func (r *EmployerRepository) FindByEmail(_ context.Context, email string) (*models.EmployerProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.employers {
		if e.Email == email {
			copied := *e
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "employer not found", nil)
}

func (r *EmployerRepository) Update(_ context.Context, employer *models.EmployerProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, e := range r.s.employers {
		if e.ID != employer.ID {
			continue
		}
		employer.CreatedAt = e.CreatedAt
		employer.UpdatedAt = r.s.now()
		copied := *employer
		r.s.employers[i] = &copied
		return nil
	}
	return common.NewError(common.CodeNotFound, "employer not found", nil)
}

func (r *EmployerRepository) List(_ context.Context) ([]models.EmployerProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.EmployerProfile, 0, len(r.s.employers))
	for _, e := range r.s.employers {
		out = append(out, *e)
	}
	return out, nil
}

func (r *EmployerRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.employers)), nil
}

type JobRepository struct {
	s *Store
}

func (r *JobRepository) Create(_ context.Context, job *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	now := r.s.now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = models.JobActive
	}
	r.s.jobs = append(r.s.jobs, cloneJob(job))
	return nil
}

func (r *JobRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if job := r.s.findJob(id); job != nil {
		return cloneJob(job), nil
	}
	return nil, common.NewError(common.CodeNotFound, "job not found", nil)
}

func (r *JobRepository) Update(_ context.Context, job *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, j := range r.s.jobs {
		if j.ID == job.ID {
			job.CreatedAt = j.CreatedAt
			job.UpdatedAt = r.s.now()
			r.s.jobs[i] = cloneJob(job)
			return nil
		}
	}
	return common.NewError(common.CodeNotFound, "job not found", nil)
}

// Delete removes the job and, like the ON DELETE CASCADE constraint, its
// applications.
func (r *JobRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, j := range r.s.jobs {
		if j.ID != id {
			continue
		}
		r.s.jobs = append(r.s.jobs[:i], r.s.jobs[i+1:]...)
		kept := r.s.applications[:0]
		for _, app := range r.s.applications {
			if app.JobID != id {
				kept = append(kept, app)
			}
		}
		r.s.applications = kept
		return nil
	}
	return common.NewError(common.CodeNotFound, "job not found", nil)
}

func (r *JobRepository) List(_ context.Context, filter repository.JobFilter) ([]models.Job, error) {
	var location *regexp.Regexp
	if filter.Location != "" {
		location = regexp.MustCompile("(?i)" + regexp.QuoteMeta(filter.Location))
	}
	search := strings.ToLower(filter.Search)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Job{}
	for i := len(r.s.jobs) - 1; i >= 0; i-- {
		j := r.s.jobs[i]
		switch {
		case filter.Status != "" && j.Status != filter.Status:
			continue
		case search != "" && !jobContains(j, search):
			continue
		case location != nil && !location.MatchString(j.Location):
			continue
		case filter.EmploymentType != "" && j.EmploymentType != filter.EmploymentType:
			continue
		case filter.MinSalary != nil && j.Salary.Min < *filter.MinSalary:
			continue
		case filter.MaxSalary != nil && j.Salary.Max > *filter.MaxSalary:
			continue
		case filter.MinExperience != nil && j.Experience.Min < *filter.MinExperience:
			continue
		case filter.MaxExperience != nil && j.Experience.Max > *filter.MaxExperience:
			continue
		case filter.Education != "" && j.Education != filter.Education:
			continue
		}
		out = append(out, *cloneJob(j))
	}
	sortNewestFirst(out, func(j models.Job) time.Time { return j.CreatedAt })
	return out, nil
}

func jobContains(j *models.Job, term string) bool {
	if strings.Contains(strings.ToLower(j.Title), term) || strings.Contains(strings.ToLower(j.Description), term) {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(j.Skills, " ")), term)
}

func (r *JobRepository) ListByEmployer(_ context.Context, email string) ([]models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Job{}
	for i := len(r.s.jobs) - 1; i >= 0; i-- {
		if r.s.jobs[i].EmployerEmail == email {
			out = append(out, *cloneJob(r.s.jobs[i]))
		}
	}
	sortNewestFirst(out, func(j models.Job) time.Time { return j.CreatedAt })
	return out, nil
}

func (r *JobRepository) ListAll(_ context.Context) ([]models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Job, 0, len(r.s.jobs))
	for _, j := range r.s.jobs {
		out = append(out, *cloneJob(j))
	}
	return out, nil
}

func (r *JobRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.jobs)), nil
}

func (r *JobRepository) MonthlyCounts(_ context.Context, limit int) ([]repository.MonthlyCount, error) {
	r.s.mu.RLock()
	counts := map[[2]int]int64{}
	for _, j := range r.s.jobs {
		counts[[2]int{j.CreatedAt.Year(), int(j.CreatedAt.Month())}]++
	}
	r.s.mu.RUnlock()

	out := make([]repository.MonthlyCount, 0, len(counts))
	for key, count := range counts {
		out = append(out, repository.MonthlyCount{Year: key[0], Month: key[1], Count: count})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Year != out[b].Year {
			return out[a].Year > out[b].Year
		}
		return out[a].Month > out[b].Month
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *JobRepository) TopEmploymentTypes(_ context.Context, limit int) ([]repository.TypeCount, error) {
	r.s.mu.RLock()
	counts := map[models.EmploymentType]int64{}
	for _, j := range r.s.jobs {
		counts[j.EmploymentType]++
	}
	r.s.mu.RUnlock()

	out := make([]repository.TypeCount, 0, len(counts))
	for t, count := range counts {
		out = append(out, repository.TypeCount{EmploymentType: t, Count: count})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].EmploymentType < out[b].EmploymentType
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type ApplicationRepository struct {
	s *Store
}

func (r *ApplicationRepository) Create(_ context.Context, app *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.findJob(app.JobID) == nil {
		return common.NewError(common.CodeNotFound, "referenced record not found", nil)
	}
	for _, existing := range r.s.applications {
		if existing.JobID == app.JobID && existing.CandidateEmail == app.CandidateEmail {
			return common.NewError(common.CodeConflict, "application already exists", nil)
		}
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	now := r.s.now()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = models.ApplicationPending
	}
	stored := *app
	stored.Job = nil
	r.s.applications = append(r.s.applications, &stored)
	return nil
}

func (r *ApplicationRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, app := range r.s.applications {
		if app.ID == id {
			return r.s.populate(app), nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *ApplicationRepository) FindByCandidateAndJob(_ context.Context, email string, jobID uuid.UUID) (*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, app := range r.s.applications {
		if app.JobID == jobID && app.CandidateEmail == email {
			copied := *app
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *ApplicationRepository) UpdateStatus(_ context.Context, id uuid.UUID, status models.ApplicationStatus, at time.Time) (*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, app := range r.s.applications {
		if app.ID == id {
			app.Status = status
			app.UpdatedAt = at
			return r.s.populate(app), nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *ApplicationRepository) List(_ context.Context, filter repository.ApplicationFilter) ([]models.Application, error) {
	var jobIDs map[uuid.UUID]struct{}
	if filter.JobIDs != nil {
		jobIDs = make(map[uuid.UUID]struct{}, len(filter.JobIDs))
		for _, id := range filter.JobIDs {
			jobIDs[id] = struct{}{}
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Application{}
	for i := len(r.s.applications) - 1; i >= 0; i-- {
		app := r.s.applications[i]
		if jobIDs != nil {
			if _, ok := jobIDs[app.JobID]; !ok {
				continue
			}
		}
		if filter.CandidateEmail != "" && app.CandidateEmail != filter.CandidateEmail {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		out = append(out, *r.s.populate(app))
	}
	sortNewestFirst(out, func(a models.Application) time.Time { return a.CreatedAt })
	return out, nil
}

func (r *ApplicationRepository) Recent(ctx context.Context, limit int) ([]models.Application, error) {
	out, err := r.List(ctx, repository.ApplicationFilter{})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ApplicationRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.applications)), nil
}

func (r *ApplicationRepository) CountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	r.s.mu.RLock()
	counts := map[models.ApplicationStatus]int64{}
	for _, app := range r.s.applications {
		counts[app.Status]++
	}
	r.s.mu.RUnlock()

	out := make([]repository.StatusCount, 0, len(counts))
	for status, count := range counts {
		out = append(out, repository.StatusCount{Status: status, Count: count})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Status < out[b].Status })
	return out, nil
}

func (s *Store) findJob(id uuid.UUID) *models.Job {
	for _, j := range s.jobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}

// populate copies app and attaches its job, as Preload("Job") does.
func (s *Store) populate(app *models.Application) *models.Application {
	copied := *app
	if job := s.findJob(app.JobID); job != nil {
		copied.Job = cloneJob(job)
	}
	return &copied
}

// sortNewestFirst keeps reverse-insertion order for equal timestamps.
func sortNewestFirst[T any](items []T, at func(T) time.Time) {
	sort.SliceStable(items, func(a, b int) bool { return at(items[a]).After(at(items[b])) })
}

func cloneProfile(p *models.Profile) *models.Profile {
	copied := *p
	copied.Skills = append([]string(nil), p.Skills...)
	copied.Education = append(copied.Education[:0:0], p.Education...)
	copied.WorkExperience = append(copied.WorkExperience[:0:0], p.WorkExperience...)
	return &copied
}

func cloneJob(j *models.Job) *models.Job {
	copied := *j
	copied.Skills = append([]string(nil), j.Skills...)
	copied.Responsibilities = append([]string(nil), j.Responsibilities...)
	copied.Requirements = append([]string(nil), j.Requirements...)
	copied.Benefits = append([]string(nil), j.Benefits...)
	return &copied
}
