package session

import (
	"errors"
	"net/http"
	"strconv"

	"gaitserver/internal/pkg/response"
	"gaitserver/internal/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/upload", h.Upload)
	api.GET("/sessions", h.List)
	api.GET("/video/:sessionId", h.FetchVideo)
	api.DELETE("/sessions/:sessionId", h.Delete)
}

// Upload accepts a multipart form with the encoded clip in the "video" part
// and the session metadata in the remaining fields.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "No video file uploaded")
		return
	}

	durationMs, _ := strconv.ParseInt(c.PostForm("durationMs"), 10, 64)
	meta := UploadMetadata{
		SessionID:  c.PostForm("sessionId"),
		PatientID:  c.PostForm("patientId"),
		Assessment: c.PostForm("assessment"),
		StartTime:  c.PostForm("startTime"),
		EndTime:    c.PostForm("endTime"),
		DurationMs: durationMs,
	}

	src, err := file.Open()
	if err != nil {
		response.ErrorWithDetails(c, http.StatusInternalServerError, "Failed to upload video", err.Error())
		return
	}
	defer src.Close()

	rec, err := h.svc.Upload(c.Request.Context(), meta, src, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "patientId is required")
		case errors.Is(err, storage.ErrTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "Video exceeds the 500 MiB limit")
		default:
			response.ErrorWithDetails(c, http.StatusInternalServerError, "Failed to upload video", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sessionId": rec.ID,
		"message":   "Video uploaded successfully",
	})
}

// List returns the public projections as a bare array, newest first.
func (h *Handler) List(c *gin.Context) {
	sessions, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch sessions")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// FetchVideo streams the stored blob with its stored content type.
func (h *Handler) FetchVideo(c *gin.Context) {
	rc, size, contentType, err := h.svc.FetchVideo(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Video not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch video")
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, size, contentType, rc, nil)
}

// Delete removes the session record and its blob.
func (h *Handler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Session not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session deleted successfully",
	})
}
