package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/services"
)

type EmployerHandler struct {
	Employers *services.EmployerService
}

func NewEmployerHandler(employers *services.EmployerService) *EmployerHandler {
	return &EmployerHandler{Employers: employers}
}

func (h *EmployerHandler) Get(c *gin.Context) {
	employer, err := h.Employers.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employer)
}

func (h *EmployerHandler) List(c *gin.Context) {
	employers, err := h.Employers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employers)
}

// Upsert is PUT /employers/:email. The body is JSON or a multipart form whose
// optional "logo" field carries the company logo.
func (h *EmployerHandler) Upsert(c *gin.Context) {
	var req dtos.EmployerRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	var logo *services.LogoUpload
	fh, err := c.FormFile("logo")
	switch {
	case err == nil:
		if h.Employers.MaxLogoBytes > 0 && fh.Size > h.Employers.MaxLogoBytes {
			respondError(c, common.NewValidationError("Logo too large", map[string]string{"logo": "exceeds the upload limit"}))
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, common.NewError(common.CodeInternal, "Error uploading logo", err))
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			respondError(c, common.NewError(common.CodeInternal, "Error uploading logo", err))
			return
		}
		logo = &services.LogoUpload{Filename: fh.Filename, Data: data}
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		respondError(c, common.NewValidationError("Invalid logo upload", map[string]string{"logo": "could not be read"}))
		return
	}

	employer, err := h.Employers.Upsert(c.Request.Context(), c.Param("email"), &req, logo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employer)
}
