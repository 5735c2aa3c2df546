package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inquizitor/inquizitor-backend/internal/model"
	"github.com/inquizitor/inquizitor-backend/internal/response"
	"github.com/inquizitor/inquizitor-backend/internal/service"
	"github.com/inquizitor/inquizitor-backend/internal/validator"
)

// TestHandler handles test endpoints including generation and exports.
type TestHandler struct {
	testService *service.TestService
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// Generate godoc
// POST /api/v1/tests/generate
// Validates the request and queues a generation job. Returns 202.
func (h *TestHandler) Generate(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req model.GenerateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	job, err := h.testService.Generate(c.Request.Context(), owner, &req)
	if err != nil {
		// Parameter errors carry user-facing Polish messages.
		var ire *service.InvalidRequestError
		if errors.As(err, &ire) {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidPayload, ire.Error())
			return
		}
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"job": job})
}

// Create godoc
// POST /api/v1/tests
func (h *TestHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req model.TestCreateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test, err := h.testService.Create(c.Request.Context(), owner, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"test": test})
}

// List godoc
// GET /api/v1/tests
func (h *TestHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	tests, err := h.testService.List(c.Request.Context(), owner)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tests": tests})
}

// Get godoc
// GET /api/v1/tests/:id
func (h *TestHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	test, err := h.testService.Get(c.Request.Context(), owner, id)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"test": test})
}

// Rename godoc
// PATCH /api/v1/tests/:id
func (h *TestHandler) Rename(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.TestTitleUpdateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.testService.Rename(c.Request.Context(), owner, id, req.Title); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Delete godoc
// DELETE /api/v1/tests/:id
func (h *TestHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.testService.Delete(c.Request.Context(), owner, id); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Shuffle godoc
// POST /api/v1/tests/:id/shuffle
// Reorders questions within each difficulty bucket.
func (h *TestHandler) Shuffle(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.ShuffleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.testService.Shuffle(c.Request.Context(), owner, id, req.Seed)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// ExportPdf godoc
// POST /api/v1/tests/:id/export/pdf
// Queues PDF compilation. Returns 202 with the job.
func (h *TestHandler) ExportPdf(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var cfg model.PdfExportConfig
	if fields := validator.Bind(c, &cfg); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	job, err := h.testService.ExportPdf(c.Request.Context(), owner, id, cfg)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"job": job})
}

// ExportMoodleXML godoc
// GET /api/v1/tests/:id/export/moodle
// Streams the Moodle XML document synchronously.
func (h *TestHandler) ExportMoodleXML(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	xmlData, filename, err := h.testService.ExportMoodleXML(c.Request.Context(), owner, id)
	if err != nil {
		failFromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/xml; charset=utf-8", xmlData)
}
