package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"road-issue-service/internal/api/dto"
	"road-issue-service/internal/domain"
	"time"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

// decodeBody reads exactly one JSON object and rejects unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

func validPoint(p dto.Point) bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func toDomainPoints(points []dto.Point) ([]domain.Point, bool) {
	out := make([]domain.Point, 0, len(points))
	for _, p := range points {
		if !validPoint(p) {
			return nil, false
		}
		out = append(out, domain.Point{Lat: p.Lat, Lng: p.Lng})
	}
	return out, true
}

func toIssueResponse(i domain.Issue) dto.IssueResponse {
	points := make([]dto.Point, 0, len(i.RoutePoints))
	for _, p := range i.RoutePoints {
		points = append(points, dto.Point{Lat: p.Lat, Lng: p.Lng})
	}
	return dto.IssueResponse{
		ID:          i.ID,
		Type:        string(i.Type),
		Title:       i.Title,
		Description: i.Description,
		RoutePoints: points,
		UserID:      i.UserID,
		DisplayName: i.DisplayName,
		Status:      string(i.Status),
		CreatedAt:   i.CreatedAt,
		ExpiresAt:   i.ExpiresAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func toIssueResponses(issues []domain.Issue) []dto.IssueResponse {
	out := make([]dto.IssueResponse, 0, len(issues))
	for _, i := range issues {
		out = append(out, toIssueResponse(i))
	}
	return out
}

func nowOr(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now()
	}
	return clock()
}
