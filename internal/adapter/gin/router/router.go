package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-crud-service/api"
	"user-crud-service/internal/adapter/gin/handler"
	"user-crud-service/internal/adapter/gin/middleware"
	grpcmiddleware "user-crud-service/internal/adapter/grpc/middleware"
)

const swaggerDocPath = "/doc.json"

// Options groups everything the router needs beyond the user handler.
type Options struct {
	Health         *handler.HealthHandler
	RateLimiter    *grpcmiddleware.RateLimiter
	AllowedOrigins []string
	Mode           string
	Log            *zap.Logger
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(userHandler *handler.UserHandler, opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(opts.Log))
	router.Use(middleware.Recovery(opts.Log))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.Metrics())
	router.Use(middleware.RateLimiter(opts.RateLimiter, opts.Log))

	if opts.Health != nil {
		router.GET("/health", opts.Health.Health)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", swagger())

	router.GET("/users", userHandler.ListUsers)
	router.POST("/create_user", userHandler.CreateUser)
	router.PATCH("/update_user/:id", userHandler.UpdateUser)
	router.DELETE("/delete_user/:id", userHandler.DeleteUser)

	return router
}

// swagger serves the embedded API document and the Swagger UI that reads it.
func swagger() gin.HandlerFunc {
	ui := gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger" + swaggerDocPath)))
	return func(c *gin.Context) {
		if c.Param("any") == swaggerDocPath {
			c.Data(http.StatusOK, "application/json; charset=utf-8", api.SwaggerJSON)
			return
		}
		ui(c)
	}
}
