package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/dto"
	"github.com/cuongbtq/jobboard-be/internal/api/handler"
	"github.com/cuongbtq/jobboard-be/internal/api/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// LoggerMiddleware logs HTTP requests with slog
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		logger.Info("HTTP Request",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.String("ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Duration("latency", time.Since(start)),
			slog.Int("body_size", c.Writer.Size()),
		)

		for _, e := range c.Errors {
			logger.Error("Request error",
				slog.String("request_id", c.GetString(requestIDKey)),
				slog.String("error", e.Error()),
				slog.Uint64("type", uint64(e.Type)),
			)
		}
	}
}

// RequestIDMiddleware keeps an incoming X-Request-ID or generates one
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Next-Cursor, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// AuthMiddleware admits requests carrying a bearer token that resolves to an
// existing user. Missing and invalid tokens get the same 401 response.
func AuthMiddleware(users *service.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Warn("Missing bearer token",
				slog.String("request_id", c.GetString(requestIDKey)),
				slog.String("path", c.Request.URL.Path),
			)
			abortUnauthorized(c)
			return
		}

		user, err := users.Authenticate(c.Request.Context(), token)
		if err != nil && !errors.Is(err, domain.ErrUnauthorized) {
			logger.Error("Failed to resolve bearer token",
				slog.String("request_id", c.GetString(requestIDKey)),
				slog.String("path", c.Request.URL.Path),
				slog.String("error", err.Error()),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
			return
		}
		if err != nil {
			logger.Warn("Rejected bearer token",
				slog.String("request_id", c.GetString(requestIDKey)),
				slog.String("path", c.Request.URL.Path),
				slog.String("error", err.Error()),
			)
			abortUnauthorized(c)
			return
		}

		c.Set(handler.UserIDKey, user.ID)
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>". The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
}
