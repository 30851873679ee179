package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"road-issue-service/internal/adapters/cache"
	fbadapter "road-issue-service/internal/adapters/firebase"
	"road-issue-service/internal/adapters/repositories"
	"road-issue-service/internal/adapters/routing"
	"road-issue-service/internal/api"
	"road-issue-service/internal/config"
	"road-issue-service/internal/platform/db"
	"road-issue-service/internal/ports"
	"road-issue-service/internal/services"
	"strings"
	"syscall"
	"time"

	fb "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := config.Get("PORT", "8080")

	var app *fb.App
	if projectID := config.Get("FIREBASE_PROJECT_ID", ""); projectID != "" {
		a, err := fbadapter.NewApp(ctx, projectID, config.Get("FIREBASE_CREDENTIALS_FILE", ""))
		if err != nil {
			log.Fatal(err)
		}
		app = a
	}

	st, err := openStores(ctx, app)
	if err != nil {
		log.Fatal(err)
	}
	defer st.closer.Close()
	issues := st.issues

	provider, err := newRoutingProvider()
	if err != nil {
		log.Fatal(err)
	}
	if addr := config.Get("REDIS_ADDR", ""); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()
		ttl := config.GetDuration("ROUTE_CACHE_TTL", 10*time.Minute)
		provider = routing.NewCachedProvider(provider, cache.NewRedisRouteCache(rdb, ttl))
		log.Printf("route cache enabled addr=%s ttl=%s", addr, ttl)
	}

	deps := api.Deps{Provider: provider, Issues: issues, Points: st.points, Now: time.Now}
	if app != nil {
		verifier, err := fbadapter.NewVerifier(ctx, app)
		if err != nil {
			log.Fatal(err)
		}
		notifier, err := fbadapter.NewNotifier(ctx, app)
		if err != nil {
			log.Fatal(err)
		}
		deps.Verifier = verifier
		deps.Notifier = notifier
	} else {
		log.Println("FIREBASE_PROJECT_ID not set: issue submission and moderation are disabled")
	}

	go services.RunCleanup(ctx, config.GetDuration("CLEANUP_INTERVAL", time.Hour), issues, time.Now)

	// Write timeout allows for a cold routing-provider call plus retries.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown failed: %v", err)
	}
}

type stores struct {
	issues ports.IssueRepository
	points ports.PointsRepository
	closer io.Closer
}

func openStores(ctx context.Context, app *fb.App) (*stores, error) {
	switch store := strings.ToLower(config.Get("ISSUE_STORE", "sqlite")); store {
	case "sqlite":
		conn, err := db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
		if err != nil {
			return nil, err
		}
		if err := repositories.InitSchema(conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
		repo := repositories.NewSqliteIssueRepository(conn)
		if err := seedIfEmpty(ctx, repo); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return &stores{issues: repo, points: repositories.NewSqlitePointsRepository(conn), closer: conn}, nil

	case "postgres":
		url := config.Get("DATABASE_URL", "")
		if url == "" {
			return nil, errors.New("DATABASE_URL is required for ISSUE_STORE=postgres")
		}
		conn, err := db.Open(url)
		if err != nil {
			return nil, err
		}
		return &stores{
			issues: repositories.NewSQLIssueRepository(conn),
			points: repositories.NewPostgresPointsRepository(conn),
			closer: conn,
		}, nil

	case "firestore":
		if app == nil {
			return nil, errors.New("FIREBASE_PROJECT_ID is required for ISSUE_STORE=firestore")
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		return &stores{
			issues: repositories.NewFirestoreIssueRepository(client),
			points: repositories.NewFirestorePointsRepository(client),
			closer: client,
		}, nil

	default:
		return nil, fmt.Errorf("unknown ISSUE_STORE %q", store)
	}
}

// Seed demo issues on an empty local store.
func seedIfEmpty(ctx context.Context, repo ports.IssueRepository) error {
	seedPath := config.Get("SEED_PATH", "")
	if seedPath == "" {
		return nil
	}

	active, err := repo.ListActive(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(active) > 0 {
		return nil
	}

	n, err := repositories.SeedFromJSON(ctx, repo, seedPath, time.Now())
	if err != nil {
		return err
	}
	log.Printf("seeded issues count=%d path=%s", n, seedPath)
	return nil
}

func newRoutingProvider() (ports.RoutingProvider, error) {
	switch name := strings.ToLower(config.Get("ROUTING_PROVIDER", "ors")); name {
	case "ors":
		key := config.Get("ORS_API_KEY", "")
		if key == "" {
			return nil, errors.New("ORS_API_KEY is required")
		}
		return routing.NewORSDirectionsProvider(key, routing.ORSOptions{
			Alternatives: config.GetInt("ORS_ALTERNATIVES", 3),
			ShareFactor:  config.GetFloat("ORS_SHARE_FACTOR", 0.6),
			WeightFactor: config.GetFloat("ORS_WEIGHT_FACTOR", 1.4),
		})

	case "google":
		key := config.Get("GOOGLE_MAPS_API_KEY", "")
		if key == "" {
			return nil, errors.New("GOOGLE_MAPS_API_KEY is required")
		}
		return routing.NewGoogleDirectionsProvider(key)

	default:
		return nil, fmt.Errorf("unknown ROUTING_PROVIDER %q", name)
	}
}
