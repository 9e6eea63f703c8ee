package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errGetDisplay = "failed to load display"
	errListEvents = "failed to load events"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Current display
// @Description  Device code, poller phase, screen to draw and cached hospital help details.
// @Tags         display
// @Produce      json
// @Success      200  {object}  models.DisplayView
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/display [get]
// @Security     ApiKeyAuth
func (h *Handler) getDisplay(c *gin.Context) {
	view, err := h.services.Display.GetDisplay(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetDisplay, "display_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
