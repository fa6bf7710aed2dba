package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/database/memstore"
	"github.com/justsurfingit/job-board/internal/events"
	"github.com/justsurfingit/job-board/internal/models"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.ApplicationAccepted
	err    error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event events.ApplicationAccepted) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return d.err
}

func (d *recordingDispatcher) sent() []events.ApplicationAccepted {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.ApplicationAccepted(nil), d.events...)
}

func seedJob(t *testing.T, store *memstore.Store, title string, skills ...string) *models.Job {
	t.Helper()
	job := &models.Job{
		ID:                  uuid.New(),
		Title:               title,
		Company:             "Acme",
		Location:            "Berlin",
		Salary:              models.Salary{Min: 50000, Max: 70000, Type: models.SalaryPerYear},
		EmploymentType:      models.EmploymentFullTime,
		Skills:              skills,
		Description:         title + " role",
		EmployerEmail:       "hr@acme.io",
		Status:              models.JobActive,
		ApplicationDeadline: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.Jobs().Create(context.Background(), job); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}

func seedProfile(t *testing.T, store *memstore.Store, email string, skills ...string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		ID:        uuid.New(),
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Skills:    skills,
		Resume:    "/uploads/jane.pdf",
	}
	if err := store.Profiles().Create(context.Background(), profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profile
}
