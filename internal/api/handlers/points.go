package handlers

import (
	"log"
	"net/http"
	"road-issue-service/internal/api/dto"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/ports"
	"road-issue-service/internal/services"
	"strconv"
)

// LeaderboardHandler ranks reporters by points.
type LeaderboardHandler struct {
	Points ports.PointsRepository
}

func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	top, err := services.Leaderboard(r.Context(), limit, h.Points)
	if err != nil {
		log.Printf("leaderboard failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.LeaderboardResponse{Entries: make([]dto.LeaderboardEntry, 0, len(top))}
	for i, p := range top {
		res.Entries = append(res.Entries, dto.LeaderboardEntry{
			Rank:               i + 1,
			UserPointsResponse: toPointsResponse(p),
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

// MeHandler serves the signed-in caller's own points and reports.
type MeHandler struct {
	Issues ports.IssueRepository
	Points ports.PointsRepository
}

func (h *MeHandler) MyPoints(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	p, err := h.Points.Get(r.Context(), caller.UID)
	if err != nil {
		log.Printf("get points failed: user=%s err=%v", caller.UID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, r, http.StatusOK, toPointsResponse(p))
}

func (h *MeHandler) MyIssues(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	issues, err := h.Issues.ListByUser(r.Context(), caller.UID)
	if err != nil {
		log.Printf("list user issues failed: user=%s err=%v", caller.UID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ListIssuesResponse{Issues: toIssueResponses(issues)})
}

// requireCaller rejects non-GET methods and anonymous requests.
func requireCaller(w http.ResponseWriter, r *http.Request) (ports.Caller, bool) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return ports.Caller{}, false
	}
	caller, ok := CallerFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return ports.Caller{}, false
	}
	return caller, true
}

func toPointsResponse(p domain.UserPoints) dto.UserPointsResponse {
	return dto.UserPointsResponse{
		UserID:         p.UserID,
		DisplayName:    p.DisplayName,
		Points:         p.Points,
		IssuesReported: p.IssuesReported,
	}
}
