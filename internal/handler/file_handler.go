package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inquizitor/inquizitor-backend/internal/model"
	"github.com/inquizitor/inquizitor-backend/internal/response"
	"github.com/inquizitor/inquizitor-backend/internal/service"
	"github.com/inquizitor/inquizitor-backend/internal/storage"
)

// FileHandler streams stored export artifacts to their owner.
type FileHandler struct {
	jobService *service.JobService
	store      storage.FileStorage
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(jobService *service.JobService, store storage.FileStorage) *FileHandler {
	return &FileHandler{jobService: jobService, store: store}
}

// exportResult mirrors the pdf export job result document.
type exportResult struct {
	StoredPath  string `json:"stored_path"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
}

// DownloadExport godoc
// GET /api/v1/jobs/:id/download
// Serves the artifact produced by a finished export job.
func (h *FileHandler) DownloadExport(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.Get(c.Request.Context(), owner, id)
	if err != nil {
		failFromError(c, err)
		return
	}

	if job.Type != model.JobPdfExport || job.Status != model.JobDone {
		response.Fail(c, http.StatusConflict, response.ErrExportNotAvailable)
		return
	}

	var result exportResult
	if err := json.Unmarshal(job.Result, &result); err != nil || result.StoredPath == "" {
		response.Fail(c, http.StatusConflict, response.ErrExportNotAvailable)
		return
	}

	data, err := h.store.Load(c.Request.Context(), result.StoredPath)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, contentType, data)
}
