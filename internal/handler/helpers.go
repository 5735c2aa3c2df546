package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inquizitor/inquizitor-backend/internal/middleware"
	"github.com/inquizitor/inquizitor-backend/internal/repository"
	"github.com/inquizitor/inquizitor-backend/internal/response"
	"github.com/inquizitor/inquizitor-backend/internal/service"
)

// uuidParam parses a path parameter as UUID, responding 400 on failure.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// ownerID extracts the authenticated user id, responding 401 on failure.
func ownerID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// failFromError maps common service errors onto HTTP responses.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
	case errors.Is(err, service.ErrSourceRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrSourceRequired)
	case errors.Is(err, service.ErrDifficultyMismatch):
		response.Fail(c, http.StatusBadRequest, response.ErrDifficultyMismatch)
	case errors.Is(err, service.ErrUnsupportedFile):
		response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	case errors.Is(err, service.ErrMaterialNotReady):
		response.Fail(c, http.StatusConflict, response.ErrMaterialNotReady)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
