package handlers

import (
	"errors"
	"log"
	"net/http"
	"road-issue-service/internal/api/dto"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/ports"
	"road-issue-service/internal/services"
	"time"
)

type DirectionsHandler struct {
	Provider ports.RoutingProvider
	Issues   ports.IssueRepository
	Now      func() time.Time
}

// Directions ranks candidate routes between two points against active road issues.
func (h *DirectionsHandler) Directions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.DirectionsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.From == nil || req.To == nil {
		writeError(w, r, http.StatusBadRequest, "from and to are required")
		return
	}
	if !validPoint(*req.From) || !validPoint(*req.To) {
		writeError(w, r, http.StatusBadRequest, "coordinates out of range")
		return
	}

	from := domain.Point{Lat: req.From.Lat, Lng: req.From.Lng}
	to := domain.Point{Lat: req.To.Lat, Lng: req.To.Lng}

	plan, err := services.PlanDirections(r.Context(), from, to, nowOr(h.Now), h.Provider, h.Issues)
	switch {
	case errors.Is(err, services.ErrNoRouteFound):
		writeError(w, r, http.StatusNotFound, "no route found")
		return
	case errors.Is(err, services.ErrAllRoutesBlocked):
		writeJSON(w, r, http.StatusConflict, toDirectionsResponse(plan))
		return
	case err != nil:
		log.Printf("plan directions failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toDirectionsResponse(plan))
}

func toDirectionsResponse(plan *services.DirectionsPlan) dto.DirectionsResponse {
	res := dto.DirectionsResponse{
		Routes:        make([]dto.RouteResponse, 0, len(plan.Ranking.Valid)),
		BlockedRoutes: make([]dto.RouteResponse, 0, len(plan.Ranking.Blocked)),
	}
	for _, rr := range plan.Ranking.Valid {
		res.Routes = append(res.Routes, toRouteResponse(rr))
	}
	for _, rr := range plan.Ranking.Blocked {
		res.BlockedRoutes = append(res.BlockedRoutes, toRouteResponse(rr))
	}
	if plan.Recommended != nil {
		rec := toRouteResponse(*plan.Recommended)
		res.Recommended = &rec
	}
	return res
}

func toRouteResponse(rr domain.RankedRoute) dto.RouteResponse {
	coords := make([][]float64, 0, len(rr.Route.Coordinates))
	for _, p := range rr.Route.Coordinates {
		coords = append(coords, p.CoordsToList())
	}

	affected := make([]dto.AffectedIssueResponse, 0, len(rr.AffectedIssues))
	for _, a := range rr.AffectedIssues {
		affected = append(affected, dto.AffectedIssueResponse{
			Issue:   toIssueResponse(a.Issue),
			Minutes: a.Minutes,
		})
	}

	res := dto.RouteResponse{
		OriginalIndex:   rr.Route.OriginalIndex,
		Coordinates:     coords,
		DistanceMeters:  rr.Route.Summary.TotalDistanceMeters,
		BaseTimeMinutes: rr.BaseTimeMinutes,
		Blocked:         rr.IsBlocked(),
		BlockingIssues:  toIssueResponses(rr.BlockingIssues),
		AffectedIssues:  affected,
	}

	if penalty, ok := rr.PenaltyMinutes(); ok {
		adjusted, _ := rr.AdjustedTimeMinutes()
		res.PenaltyMinutes = &penalty
		res.AdjustedTimeMinutes = &adjusted
		res.FormattedTime = services.FormatTimeWithPenalty(rr.BaseTimeMinutes, penalty)
	}

	return res
}
