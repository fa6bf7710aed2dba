package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/database/memstore"
	"github.com/justsurfingit/job-board/internal/models"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newApplicationService(store *memstore.Store, d *recordingDispatcher) *ApplicationService {
	svc := NewApplicationService(store.Applications(), store.Jobs(), store.Profiles(), d, zap.NewNop())
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	job := seedJob(t, store, "Go Developer", "Go")
	seedProfile(t, store, "jane@example.com", "Go")
	svc := newApplicationService(store, &recordingDispatcher{})
	ctx := context.Background()

	app, err := svc.Submit(ctx, SubmitInput{JobID: job.ID.String(), CandidateEmail: "Jane@Example.com", CoverLetter: " hi "})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if app.Status != models.ApplicationPending {
		t.Fatalf("status = %q, want pending", app.Status)
	}
	if app.CandidateEmail != "jane@example.com" || app.CoverLetter != "hi" {
		t.Fatalf("unexpected application %+v", app)
	}
	if app.Resume != "/uploads/jane.pdf" {
		t.Fatalf("resume = %q, want the profile resume", app.Resume)
	}
	if app.Job == nil || app.Job.ID != job.ID {
		t.Fatalf("job not attached: %+v", app.Job)
	}

	_, err = svc.Submit(ctx, SubmitInput{JobID: job.ID.String(), CandidateEmail: "jane@example.com"})
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("second submit: got %v, want conflict", err)
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) || appErr.Message != "You have already applied for this job" {
		t.Fatalf("conflict message = %v", err)
	}
	if n, _ := store.Applications().Count(ctx); n != 1 {
		t.Fatalf("stored %d applications, want 1", n)
	}
}

func TestSubmitExplicitResume(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	job := seedJob(t, store, "Go Developer", "Go")
	seedProfile(t, store, "jane@example.com", "Go")
	svc := newApplicationService(store, &recordingDispatcher{})

	app, err := svc.Submit(context.Background(), SubmitInput{
		JobID:          job.ID.String(),
		CandidateEmail: "jane@example.com",
		Resume:         "/uploads/tailored.pdf",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if app.Resume != "/uploads/tailored.pdf" {
		t.Fatalf("resume = %q, want the supplied one", app.Resume)
	}
}

func TestSubmitErrors(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	job := seedJob(t, store, "Go Developer", "Go")
	seedProfile(t, store, "jane@example.com", "Go")
	svc := newApplicationService(store, &recordingDispatcher{})

	tests := []struct {
		name string
		in   SubmitInput
		code common.Code
	}{
		{name: "malformed job id", in: SubmitInput{JobID: "42", CandidateEmail: "jane@example.com"}, code: common.CodeValidation},
		{name: "missing email", in: SubmitInput{JobID: job.ID.String()}, code: common.CodeValidation},
		{name: "unknown job", in: SubmitInput{JobID: uuid.NewString(), CandidateEmail: "jane@example.com"}, code: common.CodeNotFound},
		{name: "unknown candidate", in: SubmitInput{JobID: job.ID.String(), CandidateEmail: "ghost@example.com"}, code: common.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.in)
			if got := common.CodeOf(err); got != tt.code {
				t.Fatalf("code = %q (%v), want %q", got, err, tt.code)
			}
		})
	}
}

func TestSetStatusAcceptNotifiesOnce(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	job := seedJob(t, store, "Go Developer", "Go")
	seedProfile(t, store, "jane@example.com", "Go")
	d := &recordingDispatcher{}
	svc := newApplicationService(store, d)
	ctx := context.Background()

	app, err := svc.Submit(ctx, SubmitInput{JobID: job.ID.String(), CandidateEmail: "jane@example.com"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	updated, err := svc.SetStatus(ctx, app.ID.String(), models.ApplicationAccepted, "")
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated.Status != models.ApplicationAccepted {
		t.Fatalf("status = %q, want accepted", updated.Status)
	}

	sent := d.sent()
	if len(sent) != 1 {
		t.Fatalf("dispatched %d events, want 1", len(sent))
	}
	got := sent[0]
	if got.ApplicationID != app.ID ||
		got.To != "jane@example.com" ||
		got.JobTitle != "Go Developer" ||
		got.CompanyName != "Acme" ||
		got.CandidateName != "Jane Doe" ||
		got.JobLocation != "Berlin" ||
		got.Salary != "50000 - 70000 per_year" ||
		got.StartDate != "2026-03-14" {
		t.Fatalf("unexpected event %+v", got)
	}

	// Accepting again resends.
	if _, err := svc.SetStatus(ctx, app.ID.String(), models.ApplicationAccepted, ""); err != nil {
		t.Fatalf("SetStatus again: %v", err)
	}
	if n := len(d.sent()); n != 2 {
		t.Fatalf("dispatched %d events after re-accept, want 2", n)
	}
}

func TestSetStatusReject(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	job := seedJob(t, store, "Go Developer", "Go")
	seedProfile(t, store, "jane@example.com", "Go")
	d := &recordingDispatcher{}
	svc := newApplicationService(store, d)
	ctx := context.Background()

	app, err := svc.Submit(ctx, SubmitInput{JobID: job.ID.String(), CandidateEmail: "jane@example.com"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	updated, err := svc.SetStatus(ctx, app.ID.String(), "Rejected", "")
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated.Status != models.ApplicationRejected {
		t.Fatalf("status = %q, want rejected", updated.Status)
	}
	if n := len(d.sent()); n != 0 {
		t.Fatalf("dispatched %d events on reject, want 0", n)
	}
}

func TestSetStatusInvalidLeavesStatus(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	job := seedJob(t, store, "Go Developer", "Go")
	seedProfile(t, store, "jane@example.com", "Go")
	d := &recordingDispatcher{}
	svc := newApplicationService(store, d)
	ctx := context.Background()

	app, err := svc.Submit(ctx, SubmitInput{JobID: job.ID.String(), CandidateEmail: "jane@example.com"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	for _, status := range []models.ApplicationStatus{"archived", models.ApplicationPending, ""} {
		if _, err := svc.SetStatus(ctx, app.ID.String(), status, ""); !common.Is(err, common.CodeValidation) {
			t.Fatalf("status %q: got %v, want validation error", status, err)
		}
	}
	stored, err := svc.Get(ctx, app.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Status != models.ApplicationPending {
		t.Fatalf("status = %q, want pending", stored.Status)
	}
	if n := len(d.sent()); n != 0 {
		t.Fatalf("dispatched %d events, want 0", n)
	}
}

func TestSetStatusNotFound(t *testing.T) {
	t.Parallel()

	svc := newApplicationService(memstore.New(), &recordingDispatcher{})
	if _, err := svc.SetStatus(context.Background(), uuid.NewString(), models.ApplicationAccepted, ""); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
	if _, err := svc.SetStatus(context.Background(), "nope", models.ApplicationAccepted, ""); !common.Is(err, common.CodeValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestSetStatusForbiddenForOtherEmployer(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	job := seedJob(t, store, "Go Developer", "Go")
	seedProfile(t, store, "jane@example.com", "Go")
	svc := newApplicationService(store, &recordingDispatcher{})
	ctx := context.Background()

	app, err := svc.Submit(ctx, SubmitInput{JobID: job.ID.String(), CandidateEmail: "jane@example.com"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.SetStatus(ctx, app.ID.String(), models.ApplicationRejected, "other@corp.io"); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("got %v, want forbidden", err)
	}
	if _, err := svc.SetStatus(ctx, app.ID.String(), models.ApplicationRejected, "HR@acme.io"); err != nil {
		t.Fatalf("owner update: %v", err)
	}
}

func TestSetStatusDispatchFailureKeepsAccepted(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	job := seedJob(t, store, "Go Developer", "Go")
	seedProfile(t, store, "jane@example.com", "Go")
	d := &recordingDispatcher{err: errors.New("smtp down")}
	svc := newApplicationService(store, d)
	ctx := context.Background()

	app, err := svc.Submit(ctx, SubmitInput{JobID: job.ID.String(), CandidateEmail: "jane@example.com"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	updated, err := svc.SetStatus(ctx, app.ID.String(), models.ApplicationAccepted, "")
	if !common.Is(err, common.CodeDependencyFailure) {
		t.Fatalf("got %v, want dependency failure", err)
	}
	if updated == nil || updated.Status != models.ApplicationAccepted {
		t.Fatalf("updated = %+v, want accepted application", updated)
	}
	stored, err := svc.Get(ctx, app.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Status != models.ApplicationAccepted {
		t.Fatalf("stored status = %q, want accepted", stored.Status)
	}
}

func TestSetStatusMissingCandidateIsPartialFailure(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	job := seedJob(t, store, "Go Developer", "Go")
	d := &recordingDispatcher{}
	svc := newApplicationService(store, d)
	ctx := context.Background()

	// Store the application directly so it references a profile that does
	// not exist.
	app := &models.Application{ID: uuid.New(), JobID: job.ID, CandidateEmail: "gone@example.com"}
	if err := store.Applications().Create(ctx, app); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.SetStatus(ctx, app.ID.String(), models.ApplicationAccepted, "")
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
	if updated == nil || updated.Status != models.ApplicationAccepted {
		t.Fatalf("updated = %+v, want accepted application", updated)
	}
	if n := len(d.sent()); n != 0 {
		t.Fatalf("dispatched %d events, want 0", n)
	}
}

func TestListQueries(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	goJob := seedJob(t, store, "Go Developer", "Go")
	rustJob := seedJob(t, store, "Rust Developer", "Rust")
	other := &models.Job{Title: "Elsewhere", Company: "Other", EmployerEmail: "boss@other.io"}
	if err := store.Jobs().Create(context.Background(), other); err != nil {
		t.Fatalf("seed other job: %v", err)
	}
	seedProfile(t, store, "jane@example.com", "Go")
	seedProfile(t, store, "joe@example.com", "Rust")
	svc := newApplicationService(store, &recordingDispatcher{})
	ctx := context.Background()

	submit := func(job *models.Job, email string) *models.Application {
		t.Helper()
		app, err := svc.Submit(ctx, SubmitInput{JobID: job.ID.String(), CandidateEmail: email})
		if err != nil {
			t.Fatalf("Submit(%s, %s): %v", job.Title, email, err)
		}
		return app
	}
	a1 := submit(goJob, "jane@example.com")
	submit(rustJob, "jane@example.com")
	submit(rustJob, "joe@example.com")
	submit(other, "joe@example.com")
	if _, err := svc.SetStatus(ctx, a1.ID.String(), models.ApplicationAccepted, ""); err != nil {
		t.Fatalf("accept: %v", err)
	}

	tests := []struct {
		name string
		list func() ([]models.Application, error)
		want int
	}{
		{"by job", func() ([]models.Application, error) { return svc.ListByJob(ctx, rustJob.ID.String(), false) }, 2},
		{"accepted by job", func() ([]models.Application, error) { return svc.ListByJob(ctx, goJob.ID.String(), true) }, 1},
		{"by candidate", func() ([]models.Application, error) { return svc.ListByCandidate(ctx, "JANE@example.com", false) }, 2},
		{"accepted by candidate", func() ([]models.Application, error) { return svc.ListByCandidate(ctx, "joe@example.com", true) }, 0},
		{"by employer", func() ([]models.Application, error) { return svc.ListByEmployer(ctx, "hr@acme.io", false) }, 3},
		{"accepted by employer", func() ([]models.Application, error) { return svc.ListByEmployer(ctx, "hr@acme.io", true) }, 1},
		{"employer without jobs", func() ([]models.Application, error) { return svc.ListByEmployer(ctx, "nobody@acme.io", false) }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps, err := tt.list()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(apps) != tt.want {
				t.Fatalf("got %d applications, want %d", len(apps), tt.want)
			}
			for _, app := range apps {
				if app.Job == nil {
					t.Fatalf("application %s has no job attached", app.ID)
				}
			}
		})
	}

	if _, err := svc.ListByJob(ctx, uuid.NewString(), false); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("unknown job: got %v, want not found", err)
	}
}

func TestFormatSalary(t *testing.T) {
	t.Parallel()

	got := FormatSalary(models.Salary{Min: 12.5, Max: 20, Type: models.SalaryPerHour})
	if got != "12.5 - 20 per_hour" {
		t.Fatalf("FormatSalary = %q", got)
	}
}

// staleLookup hides existing applications from the duplicate check, as when
// two submits race past it.
type staleLookup struct {
	*memstore.ApplicationRepository
}

func (staleLookup) FindByCandidateAndJob(context.Context, string, uuid.UUID) (*models.Application, error) {
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func TestSubmitStoreConflictIsAlreadyApplied(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	job := seedJob(t, store, "Go Developer", "Go")
	seedProfile(t, store, "jane@example.com", "Go")
	svc := newApplicationService(store, &recordingDispatcher{})
	svc.Applications = staleLookup{store.Applications()}
	ctx := context.Background()

	in := SubmitInput{JobID: job.ID.String(), CandidateEmail: "jane@example.com"}
	if _, err := svc.Submit(ctx, in); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit(ctx, in)
	var appErr *common.Error
	if !errors.As(err, &appErr) || appErr.Code != common.CodeConflict || appErr.Message != "You have already applied for this job" {
		t.Fatalf("second submit: got %v, want already applied conflict", err)
	}
	if n, _ := store.Applications().Count(ctx); n != 1 {
		t.Fatalf("stored %d applications, want 1", n)
	}
}

func TestConcurrentSubmitStoresOneApplication(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	job := seedJob(t, store, "Go Developer", "Go")
	seedProfile(t, store, "jane@example.com", "Go")
	svc := newApplicationService(store, &recordingDispatcher{})
	ctx := context.Background()

	const submits = 50
	errs := make(chan error, submits)
	var wg sync.WaitGroup
	wg.Add(submits)
	for range submits {
		go func() {
			defer wg.Done()
			_, err := svc.Submit(ctx, SubmitInput{JobID: job.ID.String(), CandidateEmail: "jane@example.com"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case common.Is(err, common.CodeConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != submits-1 {
		t.Fatalf("ok=%d conflicts=%d, want 1 and %d", ok, conflicts, submits-1)
	}
	if n, _ := store.Applications().Count(ctx); n != 1 {
		t.Fatalf("stored %d applications, want 1", n)
	}
}
