package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inquizitor/inquizitor-backend/internal/response"
	"github.com/inquizitor/inquizitor-backend/internal/service"
)

// MaterialHandler handles source material endpoints.
type MaterialHandler struct {
	materialService *service.MaterialService
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(materialService *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// Upload godoc
// POST /api/v1/materials
// Accepts a multipart upload and queues extraction. Returns 202 with the
// material and its processing job.
func (h *MaterialHandler) Upload(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	material, job, err := h.materialService.Upload(c.Request.Context(), owner, fileHeader.Filename, data)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{
		"material": material,
		"job":      job,
	})
}

// List godoc
// GET /api/v1/materials
func (h *MaterialHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	materials, err := h.materialService.List(c.Request.Context(), owner)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"materials": materials})
}

// Get godoc
// GET /api/v1/materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	material, err := h.materialService.Get(c.Request.Context(), owner, id)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"material": material})
}

// Analyze godoc
// POST /api/v1/materials/:id/analyze
// Queues a fresh analysis run for an uploaded material.
func (h *MaterialHandler) Analyze(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	job, err := h.materialService.Analyze(c.Request.Context(), owner, id)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"job": job})
}

// Delete godoc
// DELETE /api/v1/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.materialService.Delete(c.Request.Context(), owner, id); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
