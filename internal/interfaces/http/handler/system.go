package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/driveshop/backend/internal/interfaces/http/dto"
)

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	startTime   time.Time
	db          *gorm.DB
	redisClient *redis.Client
}

// NewSystemHandler creates a new system handler. db and redisClient may
// be nil, the health check then skips them.
func NewSystemHandler(db *gorm.DB, redisClient *redis.Client) *SystemHandler {
	return &SystemHandler{
		startTime:   time.Now(),
		db:          db,
		redisClient: redisClient,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns basic system information
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "DriveShop API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	h.Success(c, info)
}

// HealthResponse reports the status of the service and its backends
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Timestamp  string            `json:"timestamp"`
}

// Health reports liveness of the API and its datastores. Returns 503
// when a backend is unreachable so load balancers can rotate the
// instance out.
func (h *SystemHandler) Health(c *gin.Context) {
	components := make(map[string]string)
	healthy := true

	if h.db != nil {
		status := "up"
		sqlDB, err := h.db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "down"
			healthy = false
		}
		components["database"] = status
	}

	if h.redisClient != nil {
		status := "up"
		if err := h.redisClient.Ping(c.Request.Context()).Err(); err != nil {
			status = "down"
			healthy = false
		}
		components["redis"] = status
	}

	resp := HealthResponse{
		Status:     "ok",
		Components: components,
		Timestamp:  time.Now().Format(time.RFC3339),
	}

	if !healthy {
		resp.Status = "degraded"
		c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(resp))
		return
	}

	h.Success(c, resp)
}
