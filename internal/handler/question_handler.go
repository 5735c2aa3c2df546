package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inquizitor/inquizitor-backend/internal/model"
	"github.com/inquizitor/inquizitor-backend/internal/response"
	"github.com/inquizitor/inquizitor-backend/internal/service"
	"github.com/inquizitor/inquizitor-backend/internal/validator"
)

// QuestionHandler handles question endpoints nested under a test.
type QuestionHandler struct {
	testService *service.TestService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(testService *service.TestService) *QuestionHandler {
	return &QuestionHandler{testService: testService}
}

// Create godoc
// POST /api/v1/tests/:id/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	testID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.QuestionCreateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.testService.AddQuestion(c.Request.Context(), owner, testID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// Update godoc
// PATCH /api/v1/tests/:id/questions/:questionId
func (h *QuestionHandler) Update(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	testID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := uuidParam(c, "questionId")
	if !ok {
		return
	}

	var req model.QuestionUpdateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.testService.UpdateQuestion(c.Request.Context(), owner, testID, questionID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// BulkUpdate godoc
// PATCH /api/v1/tests/:id/questions
func (h *QuestionHandler) BulkUpdate(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	testID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.QuestionBulkUpdateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	updated, err := h.testService.BulkUpdateQuestions(c.Request.Context(), owner, testID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

// BulkDelete godoc
// DELETE /api/v1/tests/:id/questions
func (h *QuestionHandler) BulkDelete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	testID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.QuestionBulkDeleteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.testService.BulkDeleteQuestions(c.Request.Context(), owner, testID, &req); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Delete godoc
// DELETE /api/v1/tests/:id/questions/:questionId
func (h *QuestionHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	testID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := uuidParam(c, "questionId")
	if !ok {
		return
	}

	if err := h.testService.DeleteQuestion(c.Request.Context(), owner, testID, questionID); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Regenerate godoc
// POST /api/v1/tests/:id/questions/regenerate
// Queues twin-variant regeneration. Returns 202 with the job.
func (h *QuestionHandler) Regenerate(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	testID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.QuestionRegenerateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	job, err := h.testService.Regenerate(c.Request.Context(), owner, testID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"job": job})
}

// Convert godoc
// POST /api/v1/tests/:id/questions/convert
// Queues open↔closed conversion. Returns 202 with the job.
func (h *QuestionHandler) Convert(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	testID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.QuestionConvertRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	job, err := h.testService.Convert(c.Request.Context(), owner, testID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"job": job})
}
