package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	JWTSecret   string
	Environment string
}

// NewRouter собирает маршруты API. Аутентификацию сессий выполняет внешний
// сервис; здесь токен только сверяется и превращается в Principal.
func NewRouter(
	cfg RouterConfig,
	bookings *BookingHandler,
	slots *SlotHandler,
	reviews *ReviewHandler,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/bookings",
			Auth(cfg.JWTSecret, model.RoleStudent), bookings.Create)
		api.PATCH("/bookings/:id/complete",
			Auth(cfg.JWTSecret, model.RoleTutor), bookings.Complete)
		api.PATCH("/bookings/:id/cancel",
			Auth(cfg.JWTSecret, model.RoleStudent), bookings.Cancel)
		api.GET("/bookings",
			Auth(cfg.JWTSecret), bookings.List)
		api.GET("/bookings/:id",
			Auth(cfg.JWTSecret), bookings.Get)

		api.PUT("/tutors/me/availability",
			Auth(cfg.JWTSecret, model.RoleTutor), slots.ReplaceAvailability)

		api.POST("/reviews",
			Auth(cfg.JWTSecret, model.RoleStudent), reviews.Create)
	}

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
