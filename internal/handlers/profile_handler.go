package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/services"
)

type ProfileHandler struct {
	Profiles *services.ProfileService
	Resumes  *services.ResumeService
}

func NewProfileHandler(profiles *services.ProfileService, resumes *services.ResumeService) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Resumes: resumes}
}

func (h *ProfileHandler) Submit(c *gin.Context) {
	var req dtos.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	profile, err := h.Profiles.Submit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Profile created successfully", "user": profile})
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.Profiles.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req dtos.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	profile, err := h.Profiles.Update(c.Request.Context(), c.Param("email"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.Profiles.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// UploadResume is POST /resumes with the file in the "resume" form field.
func (h *ProfileHandler) UploadResume(c *gin.Context) {
	fh, err := c.FormFile("resume")
	if err != nil {
		respondError(c, common.NewValidationError("No file uploaded", map[string]string{"resume": "is required"}))
		return
	}
	if h.Resumes.MaxBytes > 0 && fh.Size > h.Resumes.MaxBytes {
		respondError(c, common.NewValidationError("File too large", map[string]string{"resume": "exceeds the upload limit"}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, common.NewError(common.CodeInternal, "Error uploading resume", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, common.NewError(common.CodeInternal, "Error uploading resume", err))
		return
	}

	resp, err := h.Resumes.Upload(c.Request.Context(), fh.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadUpload serves a stored upload from dir as an attachment. Range
// requests are handled by http.ServeContent underneath.
func DownloadUpload(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("filename")
		if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
			respondError(c, common.NewValidationError("Invalid file name", map[string]string{"filename": "is invalid"}))
			return
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			respondError(c, common.NewError(common.CodeNotFound, "File not found", nil))
			return
		}
		c.FileAttachment(path, name)
	}
}
