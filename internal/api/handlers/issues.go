package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"road-issue-service/internal/api/dto"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/ports"
	"road-issue-service/internal/services"
	"strconv"
	"strings"
	"time"
)

// Radius used when /issues is filtered by position without radius_km.
const defaultNearbyRadiusKm = 5.0

// IssueHandler exposes road-issue reporting and moderation endpoints.
type IssueHandler struct {
	Repo   ports.IssueRepository
	Points ports.PointsRepository
	Now    func() time.Time
}

// Collection serves GET and POST on /issues.
func (h *IssueHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		methodNotAllowed(w, r, "GET, POST")
	}
}

// Item serves PATCH and DELETE on /issues/{id}. Both require an admin caller.
func (h *IssueHandler) Item(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch && r.Method != http.MethodDelete {
		methodNotAllowed(w, r, "PATCH, DELETE")
		return
	}

	caller, ok := CallerFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	if !caller.Admin {
		writeError(w, r, http.StatusForbidden, "admin role required")
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "issue id is required")
		return
	}

	if r.Method == http.MethodDelete {
		h.delete(w, r, id)
		return
	}
	h.updateStatus(w, r, id)
}

// list returns active issues. With all=true an admin gets every issue,
// expired included, newest first.
func (h *IssueHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		issues []domain.Issue
		err    error
	)
	if q.Get("all") == "true" {
		caller, ok := CallerFrom(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		if !caller.Admin {
			writeError(w, r, http.StatusForbidden, "admin role required")
			return
		}
		issues, err = h.Repo.ListAll(r.Context())
	} else {
		issues, err = h.Repo.ListActive(r.Context(), nowOr(h.Now))
	}
	if err != nil {
		log.Printf("list issues failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if q.Has("lat") || q.Has("lng") {
		center, radius, msg := parseNearby(q.Get("lat"), q.Get("lng"), q.Get("radius_km"))
		if msg != "" {
			writeError(w, r, http.StatusBadRequest, msg)
			return
		}
		issues = services.IssuesWithin(issues, center, radius)
	}

	writeJSON(w, r, http.StatusOK, dto.ListIssuesResponse{Issues: toIssueResponses(issues)})
}

func parseNearby(latRaw, lngRaw, radiusRaw string) (domain.Point, float64, string) {
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return domain.Point{}, 0, "lat must be a number"
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return domain.Point{}, 0, "lng must be a number"
	}
	if !validPoint(dto.Point{Lat: lat, Lng: lng}) {
		return domain.Point{}, 0, "coordinates out of range"
	}

	radius := defaultNearbyRadiusKm
	if radiusRaw != "" {
		radius, err = strconv.ParseFloat(radiusRaw, 64)
		if err != nil || radius <= 0 {
			return domain.Point{}, 0, "radius_km must be a positive number"
		}
	}

	return domain.Point{Lat: lat, Lng: lng}, radius, ""
}

func (h *IssueHandler) submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var req dto.SubmitIssueRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Type) == "" {
		writeError(w, r, http.StatusBadRequest, "type is required")
		return
	}
	if len(req.RoutePoints) != 2 {
		writeError(w, r, http.StatusBadRequest, "route_points must contain exactly 2 points")
		return
	}
	points, ok := toDomainPoints(req.RoutePoints)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "coordinates out of range")
		return
	}
	if req.DurationHours < 0 || req.DurationHours > services.MaxIssueDuration.Hours() {
		writeError(w, r, http.StatusBadRequest,
			fmt.Sprintf("duration_hours must be between 0 and %g", services.MaxIssueDuration.Hours()))
		return
	}

	issue, err := services.SubmitIssue(r.Context(), services.SubmitIssueRequest{
		Type:        domain.IssueType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		RoutePoints: points,
		UserID:      caller.UID,
		DisplayName: req.DisplayName,
		Duration:    time.Duration(req.DurationHours * float64(time.Hour)),
	}, nowOr(h.Now), h.Repo, h.Points)
	if errors.Is(err, services.ErrInvalidDuration) {
		writeError(w, r, http.StatusBadRequest, "duration_hours is too long")
		return
	}
	if err != nil {
		log.Printf("submit issue failed: user=%s err=%v", caller.UID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, toIssueResponse(issue))
}

func (h *IssueHandler) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req dto.UpdateIssueStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	status := domain.IssueStatus(strings.TrimSpace(req.Status))
	err := services.UpdateIssueStatus(r.Context(), id, status, nowOr(h.Now), h.Repo)
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		writeError(w, r, http.StatusBadRequest, "status must be one of pending, verified, resolved")
		return
	case errors.Is(err, ports.ErrIssueNotFound):
		writeError(w, r, http.StatusNotFound, "issue not found")
		return
	case err != nil:
		log.Printf("update issue status failed: id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"id": id, "status": string(status)})
}

func (h *IssueHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.Repo.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ports.ErrIssueNotFound):
		writeError(w, r, http.StatusNotFound, "issue not found")
		return
	case err != nil:
		log.Printf("delete issue failed: id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
