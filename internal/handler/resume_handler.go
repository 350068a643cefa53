package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/resumechat/internal/pkg/errcode"
	"github.com/xxxsen/resumechat/internal/pkg/response"
	"github.com/xxxsen/resumechat/internal/service"
)

const maxUploadBytes = 20 * 1024 * 1024

type ResumeHandler struct {
	extracts *service.ExtractService
	datasets *service.DatasetService
	profile  *service.ProfileHolder
}

func NewResumeHandler(extracts *service.ExtractService, datasets *service.DatasetService, profile *service.ProfileHolder) *ResumeHandler {
	return &ResumeHandler{extracts: extracts, datasets: datasets, profile: profile}
}

func (h *ResumeHandler) List(c *gin.Context) {
	keys, err := h.extracts.ListResumes(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"resumes": keys})
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "file field is required")
		return
	}
	if header.Size > maxUploadBytes {
		response.Error(c, errcode.ErrInvalidFile, "file too large")
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, errcode.ErrUploadFailed, "failed to read upload")
		return
	}
	defer file.Close()
	key, err := h.extracts.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"key": key})
}

// Extract runs the extraction stage for one stored resume, persists the
// resulting profile and makes it the one chat and similarity serve.
func (h *ResumeHandler) Extract(c *gin.Context) {
	key := c.Param("key")
	profile, err := h.extracts.Extract(c.Request.Context(), key)
	if err != nil {
		handleError(c, err)
		return
	}
	if err := h.datasets.SaveProfile(c.Request.Context(), profile); err != nil {
		handleError(c, err)
		return
	}
	if h.profile != nil {
		h.profile.Update(profile)
	}
	response.Success(c, profile)
}

func (h *ResumeHandler) Profile(c *gin.Context) {
	profile, err := h.datasets.LoadProfile(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, profile)
}
