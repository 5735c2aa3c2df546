package router

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inquizitor/inquizitor-backend/internal/config"
	"github.com/inquizitor/inquizitor-backend/internal/handler"
)

func newTestRouter() []string {
	cfg := &config.Config{GinMode: "test"}
	handlers := &Handlers{
		Auth:         &handler.AuthHandler{},
		Material:     &handler.MaterialHandler{},
		Test:         &handler.TestHandler{},
		Question:     &handler.QuestionHandler{},
		Job:          &handler.JobHandler{},
		File:         &handler.FileHandler{},
		Notification: &handler.NotificationHandler{},
		Support:      &handler.SupportHandler{},
		System:       &handler.SystemHandler{},
	}
	r := SetupRouter(nil, nil, handlers, cfg)

	routes := make([]string, 0, len(r.Routes()))
	for _, ri := range r.Routes() {
		routes = append(routes, ri.Method+" "+ri.Path)
	}
	return routes
}

func TestRouterRegistersQuestionRoutes(t *testing.T) {
	routes := newTestRouter()

	assert.Contains(t, routes, http.MethodPost+" /api/v1/tests/:id/questions")
	assert.Contains(t, routes, http.MethodPatch+" /api/v1/tests/:id/questions/:questionId")
	assert.Contains(t, routes, http.MethodDelete+" /api/v1/tests/:id/questions/:questionId")
	assert.Contains(t, routes, http.MethodDelete+" /api/v1/tests/:id/questions")
}

func TestRouterRegistersCoreSurface(t *testing.T) {
	routes := newTestRouter()

	for _, want := range []string{
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/materials",
		"POST /api/v1/materials/:id/analyze",
		"POST /api/v1/tests/generate",
		"GET /api/v1/tests/:id/export/moodle",
		"POST /api/v1/tests/:id/export/pdf",
		"GET /api/v1/jobs/:id/download",
		"POST /api/v1/support/contact",
		"GET /health",
	} {
		assert.Contains(t, routes, want)
	}
}
