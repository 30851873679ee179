package api

import (
	"net/http"
	"road-issue-service/internal/api/handlers"
	"road-issue-service/internal/ports"
	"time"
)

// Deps are the adapters the HTTP layer depends on. Verifier and Notifier may be nil.
type Deps struct {
	Provider ports.RoutingProvider
	Issues   ports.IssueRepository
	Points   ports.PointsRepository
	Verifier ports.TokenVerifier
	Notifier ports.Notifier
	Now      func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	directions := &handlers.DirectionsHandler{Provider: d.Provider, Issues: d.Issues, Now: d.Now}
	issues := &handlers.IssueHandler{Repo: d.Issues, Points: d.Points, Now: d.Now}
	leaderboard := &handlers.LeaderboardHandler{Points: d.Points}
	me := &handlers.MeHandler{Issues: d.Issues, Points: d.Points}
	watch := &handlers.RouteWatchHandler{Issues: d.Issues, Notifier: d.Notifier, Now: d.Now}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/directions", directions.Directions)
	mux.HandleFunc("/issues", issues.Collection)
	mux.HandleFunc("/issues/{id}", issues.Item)
	mux.HandleFunc("/routes/check", watch.Check)
	mux.HandleFunc("/leaderboard", leaderboard.List)
	mux.HandleFunc("/me/points", me.MyPoints)
	mux.HandleFunc("/me/issues", me.MyIssues)

	return loggingMiddleware(authMiddleware(d.Verifier, mux))
}
