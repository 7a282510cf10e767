package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"user-crud-service/cmd/api/di"
	ginrouter "user-crud-service/internal/adapter/gin/router"
	"user-crud-service/internal/config"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(c *di.Container, cfg *config.Config, l *zap.Logger) *http.Server {
	router := ginrouter.SetupRouter(c.GinHandler, ginrouter.Options{
		Health:         c.HealthHandler,
		RateLimiter:    c.RateLimiter,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		Mode:           cfg.App.GinMode,
		Log:            l,
	})

	addr := ":" + cfg.App.HTTPPort
	l.Info("Gin REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
