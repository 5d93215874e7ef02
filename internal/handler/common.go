// Package handler contains the HTTP handlers of the portfolio API.  Handlers
// bind and validate input, call a repository or service, and map errors onto
// status codes.  Every error body has the shape {"error": "..."}.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ozaiithejava/portfolio-api/internal/middleware"
	"github.com/ozaiithejava/portfolio-api/internal/queue"
	"github.com/ozaiithejava/portfolio-api/internal/repository"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

var successBody = echo.Map{"success": true}

// storageFailure replies 500 with the driver message.  This API is a
// single-admin tool where that detail is acceptable.
func storageFailure(c echo.Context, logger *zap.Logger, err error) error {
	op := "unknown"
	var se *repository.StorageError
	if errors.As(err, &se) {
		op = se.Op
	}
	logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil
}

// adminName returns the username from the verified token, if any.
func adminName(c echo.Context) string {
	if claims, ok := middleware.AdminFromContext(c); ok {
		return claims.Username
	}
	return ""
}

// publish emits ev and logs a failure; it never fails the request.
func publish(ctx context.Context, p queue.Publisher, logger *zap.Logger, ev queue.ContentChangedEvent) {
	if p == nil {
		return
	}
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.Publish(ctx, ev); err != nil {
		logger.Warn("publish change event failed", zap.String("kind", ev.Kind), zap.Error(err))
	}
}
