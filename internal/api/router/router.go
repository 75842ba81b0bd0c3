package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/handler"
	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	r.GET("/health", healthHandler(deps))

	jobHandler := handler.NewJobHandler(deps)

	api := r.Group("/api")
	{
		jobs := api.Group("/jobs")
		if deps.AuthEnabled {
			jobs.Use(AuthMiddleware(deps.Users, deps.Logger))
		}
		{
			jobs.GET("", jobHandler.ListJobs)
			jobs.POST("", jobHandler.CreateJob)
			jobs.GET("/:id", jobHandler.GetJob)
			jobs.PUT("/:id", jobHandler.UpdateJob)
			jobs.DELETE("/:id", jobHandler.DeleteJob)
		}

		// Signup and login only exist where tokens are checked
		if deps.AuthEnabled {
			userHandler := handler.NewUserHandler(deps)
			users := api.Group("/users")
			{
				users.POST("/signup", userHandler.Signup)
				users.POST("/login", userHandler.Login)
			}
		}
	}

	return r
}

func healthHandler(deps *handler.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := deps.Store.Ping(ctx); err != nil {
			deps.Logger.Error("Health check failed", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": deps.ServiceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": deps.ServiceName,
		})
	}
}
