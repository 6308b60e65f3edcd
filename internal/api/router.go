// Package api exposes the ops surface: health probes, Prometheus metrics
// and a small status endpoint.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/banterlabs/banter/internal/database"
	inats "github.com/banterlabs/banter/internal/nats"
)

// Stats exposes live counters from the bot core for the status endpoint.
type Stats struct {
	ActiveLanes func() int
}

func NewRouter(pool *pgxpool.Pool, redisClient *redis.Client, natsClient *inats.Client, stats Stats) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(Logging)
	r.Use(Metrics)

	// Liveness probe, always 200, no dependency checks.
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe, checks DB, Redis and NATS.
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"redis":    "healthy",
			"nats":     "healthy",
		}

		status := http.StatusOK

		if err := database.HealthCheck(r.Context(), pool); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if err := redisClient.Ping(r.Context()).Err(); err != nil {
			health["redis"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if !natsClient.Healthy() {
			health["nats"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{}
		if stats.ActiveLanes != nil {
			body["active_lanes"] = stats.ActiveLanes()
		}
		JSON(w, http.StatusOK, body)
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	return r
}
