package handlers

import (
	"net/http"
	"time"

	"github.com/upb/support-orchestrator/app"
	"github.com/upb/support-orchestrator/utils"
)

// DiagnosticsResponse summarizes startup state for the QA surface.
type DiagnosticsResponse struct {
	Healthy    bool              `json:"healthy"`
	Backend    string            `json:"backend"`
	IndexName  string            `json:"index_name"`
	Embedding  string            `json:"embedding_provider"`
	Model      string            `json:"model"`
	CorpusSize int               `json:"corpus_size"`
	AuditCount int               `json:"audit_count"`
	Components map[string]string `json:"components"`
}

// DiagnosticsHandler reports startup diagnostics and runtime counters.
func DiagnosticsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := DiagnosticsResponse{
			Healthy:    deps.Healthy(),
			Backend:    deps.Config.Retrieval.Backend,
			IndexName:  deps.Config.Retrieval.IndexName,
			Embedding:  deps.Config.Embedding.Provider,
			Model:      deps.Config.Orchestrator.ModelName,
			Components: deps.Diagnostics,
		}
		if deps.Retriever != nil {
			resp.CorpusSize = deps.Retriever.Size()
		}
		if deps.AuditLog != nil {
			resp.AuditCount = deps.AuditLog.Len()
		}
		_ = utils.WriteOK(w, resp)
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck always returns 200 while the process is running.
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ReadinessCheck reports 503 while the pipeline is degraded.
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ready"
		httpStatus := http.StatusOK
		if !deps.Healthy() {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		_ = utils.WriteJSON(w, httpStatus, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    deps.Diagnostics,
		})
	}
}
