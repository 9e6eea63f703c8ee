package handlers

import (
	_ "doctor_signage/docs"
	"doctor_signage/internal/logger"
	"doctor_signage/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	apiKey   string
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// WithAPIKey requires X-Api-Key on /api/v1 and /ws. Empty disables the check.
func (h *Handler) WithAPIKey(key string) *Handler {
	h.apiKey = key
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// display stream for the renderer, same port
	router.GET("/ws", h.apiKeyMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.apiKeyMiddleware)
	{
		api.GET("/display", h.getDisplay)
		api.GET("/events", h.getEvents)
	}
}
