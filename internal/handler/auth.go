package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ozaiithejava/portfolio-api/internal/middleware"
	"github.com/ozaiithejava/portfolio-api/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth   *service.AuthService
	Logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login: POST /api/auth/login.  Unknown user and wrong password share one
// 401 response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Logger.Info("login rejected", zap.String("ip", c.RealIP()))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		return storageFailure(c, h.Logger, err)
	}

	h.Logger.Info("login succeeded", zap.String("username", res.Username))
	return c.JSON(http.StatusOK, loginResp{Token: res.Token, Username: res.Username, ExpiresAt: res.ExpiresAt})
}

// Me: GET /api/auth/me echoes the identity carried by the bearer token.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.AdminFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         claims.AdminID,
		"username":   claims.Username,
		"expires_at": claims.ExpiresAt.Time,
	})
}
