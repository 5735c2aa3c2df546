package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inquizitor/inquizitor-backend/internal/middleware"
	"github.com/inquizitor/inquizitor-backend/internal/model"
	"github.com/inquizitor/inquizitor-backend/internal/response"
	"github.com/inquizitor/inquizitor-backend/internal/service"
	"github.com/inquizitor/inquizitor-backend/internal/validator"
)

// SupportHandler handles the public contact form.
type SupportHandler struct {
	supportService *service.SupportService
}

// NewSupportHandler creates a new SupportHandler.
func NewSupportHandler(supportService *service.SupportService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

// Contact godoc
// POST /api/v1/support/contact
// Accepts a support message. Works for anonymous and logged-in users.
func (h *SupportHandler) Contact(c *gin.Context) {
	var req model.SupportContactRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var userID *uuid.UUID
	if claims := middleware.GetClaims(c); claims != nil {
		userID = &claims.UserID
	}

	ticket, err := h.supportService.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"ticket": ticket})
}
