package events

import (
	"context"

	"github.com/google/uuid"
)

// ApplicationAccepted is emitted after an application's accepted status has
// been persisted. It carries everything the acceptance email needs.
type ApplicationAccepted struct {
	ApplicationID uuid.UUID `json:"applicationId"`
	To            string    `json:"to"`
	JobTitle      string    `json:"jobTitle"`
	CompanyName   string    `json:"companyName"`
	CandidateName string    `json:"candidateName"`
	JobLocation   string    `json:"jobLocation"`
	Salary        string    `json:"salary"`
	StartDate     string    `json:"startDate"`
}

// Dispatcher hands an ApplicationAccepted event to whatever delivers it.
type Dispatcher interface {
	Dispatch(ctx context.Context, event ApplicationAccepted) error
}

// Sender delivers the acceptance email for an event.
type Sender interface {
	SendAcceptance(ctx context.Context, event ApplicationAccepted) error
}
