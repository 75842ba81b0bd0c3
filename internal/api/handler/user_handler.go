package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/jobboard-be/internal/api/dto"
	"github.com/gin-gonic/gin"
)

// Signup handles POST /api/users/signup
func (h *UserHandler) Signup(c *gin.Context) {
	h.logger.Info("Signup called", slog.String("path", c.Request.URL.Path))

	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, "invalid request body")
		return
	}

	session, err := h.users.Signup(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondError(c, h.logger, "Failed to sign up", err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{Email: session.Email, Token: session.Token})
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	h.logger.Info("Login called", slog.String("path", c.Request.URL.Path))

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, "email and password are required")
		return
	}

	session, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "Failed to log in", err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Email: session.Email, Token: session.Token})
}
