package system

import (
	"context"
	"net/http"
	"time"

	"gaitserver/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// SessionCounter reports how many sessions the record store currently holds.
type SessionCounter interface {
	Count(ctx context.Context) (int64, error)
}

type Handler struct {
	sessions   SessionCounter
	uploadsDir string
}

func NewHandler(sessions SessionCounter, uploadsDir string) *Handler {
	return &Handler{sessions: sessions, uploadsDir: uploadsDir}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/health", h.Health)
	api.GET("/status", h.Status)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Status is the operational snapshot used to confirm that multiple capture
// devices are talking to the same server.
func (h *Handler) Status(c *gin.Context) {
	count, err := h.sessions.Count(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to read session count")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"serverTime":    time.Now().UTC().Format(time.RFC3339),
		"totalSessions": count,
		"uploadsDir":    h.uploadsDir,
		"message":       "All devices connected to this server share the same session store",
	})
}
