package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inquizitor/inquizitor-backend/internal/response"
	"github.com/inquizitor/inquizitor-backend/internal/service"
)

// JobHandler exposes async job status to the owner.
type JobHandler struct {
	jobService *service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// List godoc
// GET /api/v1/jobs
func (h *JobHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	jobs, err := h.jobService.List(c.Request.Context(), owner)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jobs": jobs})
}

// Get godoc
// GET /api/v1/jobs/:id
// Clients poll this endpoint until the job is done or failed.
func (h *JobHandler) Get(c *gin.Context) {
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
	response.Success(c, http.StatusOK, gin.H{"job": job})
}
