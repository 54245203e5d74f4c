package handlers

import (
	"context"
	"net/http"
	"time"

	"erp-service/internal/repository"
	"github.com/gin-gonic/gin"
)

const serviceName = "erp-service"

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ConnectionStatus reports whether an optional dependency is connected
type ConnectionStatus interface {
	IsConnected() bool
}

type HealthHandler struct {
	db     Pinger
	cache  *repository.Cache
	events ConnectionStatus
}

func NewHealthHandler(db Pinger, cache *repository.Cache, events ConnectionStatus) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, events: events}
}

// HealthCheck returns service health status (basic)
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

// Ready fails while the database is unreachable
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"service": serviceName,
				"error":   err.Error(),
			})
			return
		}
	}
	HealthCheck(c)
}

// ExtendedHealthCheck returns detailed health status including database, Redis and NATS
func (h *HealthHandler) ExtendedHealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	health := gin.H{
		"status":  "healthy",
		"service": serviceName,
		"checks":  gin.H{},
	}

	checks := health["checks"].(gin.H)

	if h.db != nil {
		checks["database"] = statusOf(h.db.PingContext(ctx))
	}

	// Redis is optional, a disabled cache is reported but does not degrade
	if h.cache.Enabled() {
		checks["redis"] = statusOf(h.cache.Health(ctx))
	} else {
		checks["redis"] = gin.H{"status": "disabled"}
	}

	switch {
	case h.events == nil:
		checks["nats"] = gin.H{"status": "disabled"}
	case h.events.IsConnected():
		checks["nats"] = gin.H{"status": "healthy"}
	default:
		checks["nats"] = gin.H{"status": "unhealthy"}
	}

	// Add cache stats if available
	if stats := h.cache.Stats(); stats != nil {
		checks["cache_stats"] = gin.H{
			"l1_hits":   stats.L1Hits,
			"l1_misses": stats.L1Misses,
			"l2_hits":   stats.L2Hits,
			"l2_misses": stats.L2Misses,
		}
	}

	// Determine overall health
	for _, check := range checks {
		if checkMap, ok := check.(gin.H); ok {
			if status, ok := checkMap["status"]; ok && status == "unhealthy" {
				health["status"] = "degraded"
				break
			}
		}
	}

	c.JSON(http.StatusOK, health)
}

func statusOf(err error) gin.H {
	if err != nil {
		return gin.H{"status": "unhealthy", "error": err.Error()}
	}
	return gin.H{"status": "healthy"}
}
