package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ozaiithejava/portfolio-api/internal/model"
	"github.com/ozaiithejava/portfolio-api/internal/queue"
	"github.com/ozaiithejava/portfolio-api/internal/repository"
)

// ProjectHandler serves the public listing and the admin CRUD for projects.
type ProjectHandler struct {
	Projects *repository.ProjectRepo
	Events   queue.Publisher
	Logger   *zap.Logger
}

func NewProjectHandler(projects *repository.ProjectRepo, events queue.Publisher, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Events: events, Logger: logger}
}

// List handles GET /api/projects: active projects only.
func (h *ProjectHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Projects.ListActive(ctx)
	if err != nil {
		return storageFailure(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, items)
}

// ListAll handles GET /api/projects/all for the admin panel, hidden projects
// included.
func (h *ProjectHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Projects.ListAll(ctx)
	if err != nil {
		return storageFailure(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/projects and returns the stored record.
func (h *ProjectHandler) Create(c echo.Context) error {
	var in model.ProjectInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p := in.ToProject(0)
	if err := h.Projects.Create(ctx, &p); err != nil {
		return storageFailure(c, h.Logger, err)
	}

	publish(ctx, h.Events, h.Logger, queue.ContentChangedEvent{
		Kind: queue.ProjectCreated, ProjectID: p.ID, Title: p.Title, Admin: adminName(c), Matched: true,
	})
	return c.JSON(http.StatusOK, p)
}

// Update handles PUT /api/projects/:id.  demo_url and order are kept when
// the body omits them.  An id that matches no row still answers
// {success: true}.
func (h *ProjectHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var in model.ProjectInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	n, err := h.Projects.Update(ctx, id, in)
	if err != nil {
		return storageFailure(c, h.Logger, err)
	}

	publish(ctx, h.Events, h.Logger, queue.ContentChangedEvent{
		Kind: queue.ProjectUpdated, ProjectID: id, Title: in.Title, Admin: adminName(c), Matched: n > 0,
	})
	return c.JSON(http.StatusOK, successBody)
}

// Delete handles DELETE /api/projects/:id with the same zero-match tolerance
// as Update.
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	n, err := h.Projects.Delete(ctx, id)
	if err != nil {
		return storageFailure(c, h.Logger, err)
	}

	publish(ctx, h.Events, h.Logger, queue.ContentChangedEvent{
		Kind: queue.ProjectDeleted, ProjectID: id, Admin: adminName(c), Matched: n > 0,
	})
	return c.JSON(http.StatusOK, successBody)
}
