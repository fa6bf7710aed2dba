package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/services"
)

type ApplicationHandler struct {
	Applications *services.ApplicationService
}

func NewApplicationHandler(applications *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Applications: applications}
}

func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req dtos.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	app, err := h.Applications.Submit(c.Request.Context(), services.SubmitInput{
		JobID:          req.JobID,
		CandidateEmail: req.CandidateEmail,
		CoverLetter:    req.CoverLetter,
		Resume:         req.Resume,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.Applications.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// UpdateStatus is PATCH /applications/:id. When the status was saved but the
// acceptance email could not be sent, the error response also carries the
// updated application.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	app, err := h.Applications.SetStatus(c.Request.Context(), c.Param("id"),
		models.ApplicationStatus(req.Status), req.EmployerEmail)
	if err != nil {
		status, body := errorBody(err)
		if app != nil {
			body["application"] = app
		}
		_ = c.Error(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ListByEmployer(c *gin.Context) {
	h.list(c, func(c *gin.Context) ([]models.Application, error) {
		return h.Applications.ListByEmployer(c.Request.Context(), c.Param("email"), false)
	})
}

func (h *ApplicationHandler) ListByCandidate(c *gin.Context) {
	h.list(c, func(c *gin.Context) ([]models.Application, error) {
		return h.Applications.ListByCandidate(c.Request.Context(), c.Param("email"), false)
	})
}

func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	h.list(c, func(c *gin.Context) ([]models.Application, error) {
		return h.Applications.ListByJob(c.Request.Context(), c.Param("jobId"), false)
	})
}

func (h *ApplicationHandler) ListAcceptedByEmployer(c *gin.Context) {
	h.list(c, func(c *gin.Context) ([]models.Application, error) {
		return h.Applications.ListByEmployer(c.Request.Context(), c.Param("email"), true)
	})
}

func (h *ApplicationHandler) ListAcceptedByCandidate(c *gin.Context) {
	h.list(c, func(c *gin.Context) ([]models.Application, error) {
		return h.Applications.ListByCandidate(c.Request.Context(), c.Param("email"), true)
	})
}

func (h *ApplicationHandler) ListAcceptedByJob(c *gin.Context) {
	h.list(c, func(c *gin.Context) ([]models.Application, error) {
		return h.Applications.ListByJob(c.Request.Context(), c.Param("jobId"), true)
	})
}

func (h *ApplicationHandler) list(c *gin.Context, fetch func(*gin.Context) ([]models.Application, error)) {
	apps, err := fetch(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}
