package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"strings"

	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/events"
	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
)

var errGmailNotConfigured = errors.New("gmail client not configured")

var acceptanceTemplate = template.Must(template.New("acceptance").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2c3e50;">Congratulations {{.CandidateName}}!</h2>
  <p>We are pleased to inform you that your application for the position of <strong>{{.JobTitle}}</strong> at <strong>{{.CompanyName}}</strong> has been accepted!</p>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 5px; margin: 20px 0;">
    <h3 style="color: #2c3e50;">Job Details:</h3>
    <p><strong>Position:</strong> {{.JobTitle}}</p>
    <p><strong>Company:</strong> {{.CompanyName}}</p>
    <p><strong>Location:</strong> {{.JobLocation}}</p>
    <p><strong>Salary:</strong> {{.Salary}}</p>
    <p><strong>Start Date:</strong> {{.StartDate}}</p>
  </div>
  <p>Next Steps:</p>
  <ol>
    <li>Please review the job details above</li>
    <li>We will contact you shortly with further instructions</li>
    <li>If you have any questions, please don't hesitate to reach out</li>
  </ol>
  <p>Best regards,<br>{{.CompanyName}} HR Team</p>
</div>
`))

// EmailService sends acceptance emails through the Gmail API.
type EmailService struct {
	GmailClient *gmail.Service
	From        string
	Logger      *zap.Logger
}

func NewEmailService(gmailClient *gmail.Service, from string, log *zap.Logger) *EmailService {
	return &EmailService{GmailClient: gmailClient, From: from, Logger: log}
}

func (s *EmailService) SendAcceptance(ctx context.Context, event events.ApplicationAccepted) error {
	if s.GmailClient == nil {
		return errGmailNotConfigured
	}
	raw, err := BuildAcceptanceMessage(s.From, event)
	if err != nil {
		return err
	}

	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	sent, err := s.GmailClient.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	s.Logger.Info("acceptance email sent",
		zap.String("message_id", sent.Id),
		zap.String("to", event.To),
		zap.String("application_id", event.ApplicationID.String()),
	)
	return nil
}

// ValidateAcceptance checks that every field the email renders is present.
func ValidateAcceptance(event events.ApplicationAccepted) error {
	fields := map[string]string{}
	required := map[string]string{
		"to":            event.To,
		"jobTitle":      event.JobTitle,
		"companyName":   event.CompanyName,
		"candidateName": event.CandidateName,
		"jobLocation":   event.JobLocation,
		"salary":        event.Salary,
		"startDate":     event.StartDate,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			fields[name] = "is required"
		}
	}
	if len(fields) > 0 {
		return common.NewValidationError("All fields are required", fields)
	}
	return nil
}

func AcceptanceSubject(jobTitle string) string {
	return fmt.Sprintf("Congratulations! Your Application for %s has been Accepted", jobTitle)
}

// BuildAcceptanceMessage renders the RFC 2822 message Gmail expects in Raw.
func BuildAcceptanceMessage(from string, event events.ApplicationAccepted) ([]byte, error) {
	var body bytes.Buffer
	if err := acceptanceTemplate.Execute(&body, event); err != nil {
		return nil, fmt.Errorf("render acceptance email: %w", err)
	}

	var msg bytes.Buffer
	if from != "" {
		fmt.Fprintf(&msg, "From: %s\r\n", from)
	}
	fmt.Fprintf(&msg, "To: %s\r\n", event.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", AcceptanceSubject(event.JobTitle)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
