package services

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/database/memstore"
	"github.com/justsurfingit/job-board/internal/dtos"
	"go.uber.org/zap"
)

func profileRequest() *dtos.ProfileRequest {
	start := time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC)
	return &dtos.ProfileRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       " Jane@Example.com ",
		PhoneNumber: "+49 30 1234",
		Location:    "Berlin",
		Skills:      []string{" Go ", "", "Docker"},
		Education: []dtos.EducationRequest{
			{Institution: "TU Berlin", Degree: "BSc", Field: "CS", StartDate: start, EndDate: &end, IsCurrentlyStudying: true},
		},
		WorkExperience: []dtos.WorkExperienceRequest{
			{StartDate: start, EndDate: &end, IsCurrentlyWorking: true, Responsibilities: []string{"", "APIs"}},
		},
	}
}

func TestProfileSubmit(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	svc := NewProfileService(store.Profiles(), zap.NewNop())
	ctx := context.Background()

	profile, err := svc.Submit(ctx, profileRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if profile.Email != "jane@example.com" {
		t.Fatalf("email = %q", profile.Email)
	}
	if len(profile.Skills) != 2 || profile.Skills[0] != "Go" {
		t.Fatalf("skills = %v", profile.Skills)
	}
	if profile.Education[0].EndDate != nil {
		t.Fatal("education end date kept while currently studying")
	}
	exp := profile.WorkExperience[0]
	if exp.Company != notSpecified || exp.Position != notSpecified || exp.EndDate != nil {
		t.Fatalf("unexpected work experience %+v", exp)
	}
	if len(exp.Responsibilities) != 1 {
		t.Fatalf("responsibilities = %v", exp.Responsibilities)
	}

	if _, err := svc.Submit(ctx, profileRequest()); !common.Is(err, common.CodeConflict) {
		t.Fatalf("duplicate: got %v, want conflict", err)
	}
}

func TestProfileFresherDropsWorkExperience(t *testing.T) {
	t.Parallel()

	req := profileRequest()
	req.IsFresher = true
	profile := profileFromRequest(req)
	if len(profile.WorkExperience) != 0 {
		t.Fatalf("work experience = %+v, want none", profile.WorkExperience)
	}
}

func TestProfileUpdate(t *testing.T) {
	t.Parallel()

	store := memstore.New()
	svc := NewProfileService(store.Profiles(), zap.NewNop())
	ctx := context.Background()

	created, err := svc.Submit(ctx, profileRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	created.Resume = "/uploads/cv.pdf"
	if err := store.Profiles().Update(ctx, created); err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	req := profileRequest()
	req.Email = "changed@example.com"
	req.Location = "Hamburg"
	updated, err := svc.Update(ctx, "jane@example.com", req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Email != "jane@example.com" || updated.Location != "Hamburg" {
		t.Fatalf("unexpected profile %+v", updated)
	}
	if updated.Resume != "/uploads/cv.pdf" {
		t.Fatalf("resume = %q, want it kept", updated.Resume)
	}

	if _, err := svc.Update(ctx, "ghost@example.com", req); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("unknown profile: got %v, want not found", err)
	}
}
