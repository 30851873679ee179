package handlers

import (
	"log"
	"net/http"
	"road-issue-service/internal/api/dto"
	"road-issue-service/internal/ports"
	"road-issue-service/internal/services"
	"strings"
	"time"
)

// RouteWatchHandler checks a saved route against active issues.
type RouteWatchHandler struct {
	Issues   ports.IssueRepository
	Notifier ports.Notifier
	Now      func() time.Time
}

func (h *RouteWatchHandler) Check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.CheckRouteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Route) < 2 {
		writeError(w, r, http.StatusBadRequest, "route must contain at least 2 points")
		return
	}
	route, ok := toDomainPoints(req.Route)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "coordinates out of range")
		return
	}

	token := strings.TrimSpace(req.DeviceToken)
	affected, err := services.CheckRoute(r.Context(), route, nowOr(h.Now), h.Issues, h.Notifier, token)
	if err != nil && affected == nil {
		log.Printf("check route failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if err != nil {
		// Matches are still useful to the client when the push fails.
		log.Printf("route alert failed: %v", err)
	}

	notified := err == nil && token != "" && h.Notifier != nil && len(affected) > 0
	writeJSON(w, r, http.StatusOK, dto.CheckRouteResponse{
		Issues:   toIssueResponses(affected),
		Notified: notified,
	})
}
