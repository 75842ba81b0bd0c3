package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/dto"
	"github.com/gin-gonic/gin"
)

// mapError converts a service error into a status code and response body
func mapError(err error) (int, dto.ErrorResponse) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed", Fields: verr.Fields}
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, dto.ErrorResponse{Error: "invalid id"}
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Error: "job not found"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"}
	default:
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"}
	}
}

// respondError logs err and writes the mapped response
func respondError(c *gin.Context, logger *slog.Logger, msg string, err error) {
	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()))
	} else {
		logger.Warn(msg,
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}
