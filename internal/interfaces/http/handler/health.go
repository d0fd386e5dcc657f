package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/babel-30/sugarplum-backend/internal/infrastructure/cache"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/persistence"
)

// HealthHandler reports service liveness and snapshot freshness
type HealthHandler struct {
	BaseHandler
	snapshots *cache.SnapshotCache
	db        *persistence.Database
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(snapshots *cache.SnapshotCache, db *persistence.Database) *HealthHandler {
	return &HealthHandler{snapshots: snapshots, db: db}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	catalogAge, inventoryAge := h.snapshots.CatalogAge()

	status := gin.H{
		"status":  "ok",
		"message": "Sugar Plum backend is running!",
		"snapshots": gin.H{
			"catalogAgeSeconds":   ageSeconds(catalogAge),
			"inventoryAgeSeconds": ageSeconds(inventoryAge),
		},
	}
	if err := h.db.Ping(); err != nil {
		status["database"] = "unreachable"
	} else {
		status["database"] = "ok"
	}
	h.Success(c, status)
}

// ageSeconds renders a snapshot age; nil means the tier was never built
func ageSeconds(age time.Duration) interface{} {
	if age < 0 {
		return nil
	}
	return int64(age.Seconds())
}
