package handlers

import (
	"net/http"
)

// Health is a liveness check. It does not touch the issue store or routing provider.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok", "service": "road-issue-service"})
}
