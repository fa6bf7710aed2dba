package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
)

func newClockedStore() (*Store, func(time.Duration)) {
	s := New()
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, func(d time.Duration) { now = now.Add(d) }
}

func TestProfileUniqueEmail(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.Profiles().Create(ctx, &models.Profile{Email: "jane@example.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Profiles().Create(ctx, &models.Profile{Email: "jane@example.com"}); !common.Is(err, common.CodeConflict) {
		t.Fatalf("duplicate: got %v, want conflict", err)
	}
}

func TestFindBySkillsQuotesPatterns(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	for email, skills := range map[string][]string{
		"cpp@example.com":  {"C++"},
		"c@example.com":    {"C"},
		"node@example.com": {"Node.js", "React"},
	} {
		if err := s.Profiles().Create(ctx, &models.Profile{Email: email, Skills: skills}); err != nil {
			t.Fatalf("Create %s: %v", email, err)
		}
	}

	got, err := s.Profiles().FindBySkills(ctx, []string{"c++"})
	if err != nil {
		t.Fatalf("FindBySkills: %v", err)
	}
	if len(got) != 1 || got[0].Email != "cpp@example.com" {
		t.Fatalf("c++ matched %+v", got)
	}

	got, err = s.Profiles().FindBySkills(ctx, []string{"react"})
	if err != nil {
		t.Fatalf("FindBySkills: %v", err)
	}
	if len(got) != 1 || got[0].Email != "node@example.com" {
		t.Fatalf("react matched %+v", got)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	job := &models.Job{Title: "Go Developer", Skills: []string{"Go"}}
	if err := s.Jobs().Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	job.Skills[0] = "Rust"

	found, err := s.Jobs().FindByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	found.Title = "changed"
	again, _ := s.Jobs().FindByID(ctx, job.ID)
	if again.Title != "Go Developer" || again.Skills[0] != "Go" {
		t.Fatalf("stored job was mutated: %+v", again)
	}
}

func TestApplicationConstraints(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	job := &models.Job{Title: "Go Developer", EmployerEmail: "hr@acme.io"}
	if err := s.Jobs().Create(ctx, job); err != nil {
		t.Fatalf("Create job: %v", err)
	}

	if err := s.Applications().Create(ctx, &models.Application{JobID: uuid.New(), CandidateEmail: "a@example.com"}); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("unknown job: got %v, want not found", err)
	}
	app := &models.Application{JobID: job.ID, CandidateEmail: "a@example.com"}
	if err := s.Applications().Create(ctx, app); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if app.Status != models.ApplicationPending {
		t.Fatalf("status = %q, want pending", app.Status)
	}
	if err := s.Applications().Create(ctx, &models.Application{JobID: job.ID, CandidateEmail: "a@example.com"}); !common.Is(err, common.CodeConflict) {
		t.Fatalf("duplicate: got %v, want conflict", err)
	}

	found, err := s.Applications().FindByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Job == nil || found.Job.Title != "Go Developer" {
		t.Fatalf("job not populated: %+v", found.Job)
	}

	if err := s.Jobs().Delete(ctx, job.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n, _ := s.Applications().Count(ctx); n != 0 {
		t.Fatalf("applications after job delete = %d, want 0", n)
	}
}

func TestApplicationListFilters(t *testing.T) {
	t.Parallel()

	s, advance := newClockedStore()
	ctx := context.Background()
	job := &models.Job{Title: "Go Developer"}
	other := &models.Job{Title: "Rust Developer"}
	for _, j := range []*models.Job{job, other} {
		if err := s.Jobs().Create(ctx, j); err != nil {
			t.Fatalf("Create job: %v", err)
		}
	}
	var first *models.Application
	for _, email := range []string{"a@example.com", "b@example.com"} {
		app := &models.Application{JobID: job.ID, CandidateEmail: email}
		if err := s.Applications().Create(ctx, app); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if first == nil {
			first = app
		}
		advance(time.Minute)
	}
	if _, err := s.Applications().UpdateStatus(ctx, first.ID, models.ApplicationAccepted, s.now()); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	tests := []struct {
		name   string
		filter repository.ApplicationFilter
		want   []string
	}{
		{name: "all newest first", filter: repository.ApplicationFilter{}, want: []string{"b@example.com", "a@example.com"}},
		{name: "by job", filter: repository.ApplicationFilter{JobIDs: []uuid.UUID{job.ID}}, want: []string{"b@example.com", "a@example.com"}},
		{name: "empty job set", filter: repository.ApplicationFilter{JobIDs: []uuid.UUID{}}, want: []string{}},
		{name: "other job", filter: repository.ApplicationFilter{JobIDs: []uuid.UUID{other.ID}}, want: []string{}},
		{name: "accepted", filter: repository.ApplicationFilter{Status: models.ApplicationAccepted}, want: []string{"a@example.com"}},
		{name: "candidate", filter: repository.ApplicationFilter{CandidateEmail: "b@example.com"}, want: []string{"b@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Applications().List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d applications, want %d", len(got), len(tt.want))
			}
			for i, app := range got {
				if app.CandidateEmail != tt.want[i] {
					t.Fatalf("position %d = %s, want %s", i, app.CandidateEmail, tt.want[i])
				}
			}
		})
	}
}

func TestJobStats(t *testing.T) {
	t.Parallel()

	s, advance := newClockedStore()
	ctx := context.Background()
	for _, j := range []*models.Job{
		{EmploymentType: models.EmploymentFullTime},
		{EmploymentType: models.EmploymentFullTime},
		{EmploymentType: models.EmploymentContract},
	} {
		if err := s.Jobs().Create(ctx, j); err != nil {
			t.Fatalf("Create: %v", err)
		}
		advance(45 * 24 * time.Hour)
	}

	types, _ := s.Jobs().TopEmploymentTypes(ctx, 1)
	if len(types) != 1 || types[0].EmploymentType != models.EmploymentFullTime || types[0].Count != 2 {
		t.Fatalf("top types = %+v", types)
	}
	months, _ := s.Jobs().MonthlyCounts(ctx, 6)
	if len(months) != 3 || months[0].Year != 2026 || months[0].Month != 4 {
		t.Fatalf("monthly = %+v", months)
	}
}

func TestEmployerRepository(t *testing.T) {
	t.Parallel()

	s, advance := newClockedStore()
	ctx := context.Background()
	employer := &models.EmployerProfile{Email: "hr@acme.io", CompanyName: "Acme"}
	if err := s.Employers().Create(ctx, employer); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Employers().Create(ctx, &models.EmployerProfile{Email: "hr@acme.io"}); !common.Is(err, common.CodeConflict) {
		t.Fatalf("duplicate: got %v, want conflict", err)
	}

	advance(time.Hour)
	employer.CompanyName = "Acme GmbH"
	if err := s.Employers().Update(ctx, employer); err != nil {
		t.Fatalf("Update: %v", err)
	}
	found, err := s.Employers().FindByEmail(ctx, "hr@acme.io")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if found.CompanyName != "Acme GmbH" || !found.UpdatedAt.After(found.CreatedAt) {
		t.Fatalf("unexpected employer %+v", found)
	}
	if err := s.Employers().Update(ctx, &models.EmployerProfile{ID: uuid.New()}); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("unknown employer: got %v, want not found", err)
	}
	if n, _ := s.Employers().Count(ctx); n != 1 {
		t.Fatalf("employers = %d, want 1", n)
	}
}
