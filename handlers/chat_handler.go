package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/upb/support-orchestrator/app"
	"github.com/upb/support-orchestrator/utils"
)

// ChatRequest is the payload for one support turn.
type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=4000"`
}

// ChatHandler runs one orchestration step for a user message.
func ChatHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Healthy() {
			writeDegraded(w, deps)
			return
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = utils.WriteBadRequest(w, "invalid JSON body", nil)
			return
		}

		if err := utils.ValidateStruct(req); err != nil {
			var vErr *utils.ValidationError
			if errors.As(err, &vErr) {
				_ = utils.WriteBadRequest(w, vErr.Message, vErr.Details())
				return
			}
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		result := deps.Orchestrator.Step(r.Context(), req.Message)
		_ = utils.WriteOK(w, result)
	}
}

// writeDegraded answers a request with the startup diagnostics instead
// of failing opaquely.
func writeDegraded(w http.ResponseWriter, deps *app.Dependencies) {
	details := make(map[string]interface{}, len(deps.Diagnostics))
	for k, v := range deps.Diagnostics {
		details[k] = v
	}
	_ = utils.WriteServiceUnavailable(w,
		"the support pipeline failed to start; see diagnostics", details)
}
