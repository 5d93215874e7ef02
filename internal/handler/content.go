package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ozaiithejava/portfolio-api/internal/queue"
	"github.com/ozaiithejava/portfolio-api/internal/repository"
)

// ContentHandler serves the page text blocks.
type ContentHandler struct {
	Content *repository.ContentRepo
	Events  queue.Publisher
	Logger  *zap.Logger
}

func NewContentHandler(content *repository.ContentRepo, events queue.Publisher, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{Content: content, Events: events, Logger: logger}
}

type contentReq struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Get handles GET /api/content and returns {key: value, ...}.
func (h *ContentHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	all, err := h.Content.All(ctx)
	if err != nil {
		return storageFailure(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, all)
}

// Upsert handles POST /api/content.
func (h *ContentHandler) Upsert(c echo.Context) error {
	var req contentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Key) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "key is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Content.Upsert(ctx, req.Key, req.Value); err != nil {
		return storageFailure(c, h.Logger, err)
	}

	publish(ctx, h.Events, h.Logger, queue.ContentChangedEvent{
		Kind: queue.ContentUpserted, ContentKey: req.Key, Admin: adminName(c), Matched: true,
	})
	return c.JSON(http.StatusOK, successBody)
}
