package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/events"
	"github.com/justsurfingit/job-board/internal/services"
)

type EmailHandler struct {
	Dispatcher events.Dispatcher
}

func NewEmailHandler(d events.Dispatcher) *EmailHandler {
	return &EmailHandler{Dispatcher: d}
}

// SendAcceptance is POST /email/send-acceptance. It sends an acceptance email
// that is not tied to a stored application.
func (h *EmailHandler) SendAcceptance(c *gin.Context) {
	var req dtos.AcceptanceEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	event := events.ApplicationAccepted{
		ApplicationID: uuid.Nil,
		To:            req.To,
		JobTitle:      req.JobTitle,
		CompanyName:   req.CompanyName,
		CandidateName: req.CandidateName,
		JobLocation:   req.JobLocation,
		Salary:        req.Salary,
		StartDate:     req.StartDate,
	}
	if err := services.ValidateAcceptance(event); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Dispatcher.Dispatch(c.Request.Context(), event); err != nil {
		respondError(c, common.NewError(common.CodeDependencyFailure, "Failed to send email", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully"})
}
