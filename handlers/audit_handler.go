package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/upb/support-orchestrator/app"
	"github.com/upb/support-orchestrator/utils"
)

// AuditExportHandler returns the full ordered audit log as a JSON
// document. In degraded mode it returns the startup diagnostics instead
// of an empty log, so QA always gets an explanation.
func AuditExportHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Healthy() {
			doc, err := json.MarshalIndent(deps.Diagnostics, "", "  ")
			if err != nil {
				_ = utils.WriteInternalError(w, "failed to serialize diagnostics")
				return
			}
			writeRawJSON(w, doc)
			return
		}

		doc, err := deps.Orchestrator.ExportAudit()
		if err != nil {
			_ = utils.WriteInternalError(w, "failed to export audit log")
			return
		}
		writeRawJSON(w, doc)
	}
}

// writeRawJSON writes an already-serialized JSON document.
func writeRawJSON(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
