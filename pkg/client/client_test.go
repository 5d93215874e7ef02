package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ozaiithejava/portfolio-api/internal/config"
	"github.com/ozaiithejava/portfolio-api/internal/database"
	"github.com/ozaiithejava/portfolio-api/internal/repository"
	"github.com/ozaiithejava/portfolio-api/internal/router"
	"github.com/ozaiithejava/portfolio-api/internal/seed"
	"github.com/ozaiithejava/portfolio-api/pkg/client"
)

func startServer(t *testing.T) *client.Client {
	t.Helper()
	db := database.OpenTest(t)
	require.NoError(t, seed.Run(context.Background(),
		repository.NewAdminRepo(db), repository.NewProjectRepo(db),
		seed.Options{AdminUsername: "admin", AdminPassword: "admin123", BcryptCost: 4},
		zap.NewNop()))

	e := router.New(router.Deps{
		Config:  config.Config{JWTSecret: "e2e-secret", AccessTTL: time.Hour, CORSOrigins: []string{"*"}},
		DB:      db,
		Dialect: database.SQLite,
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return client.New(srv.URL + "/")
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	c := startServer(t)

	before, err := c.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, before, 2)

	login, err := c.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "admin", login.Username)
	assert.True(t, login.ExpiresAt.After(time.Now()))

	first := -1
	created, err := c.CreateProject(ctx, login.Token, client.ProjectInput{
		Title: "Portfolio API", Description: "This service", Tags: []string{"Go", "Echo"}, Order: &first,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	after, err := c.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, after, 3)
	assert.Equal(t, created.ID, after[0].ID)
	assert.Equal(t, []string{"Go", "Echo"}, after[0].Tags)

	hidden := client.Flag(false)
	require.NoError(t, c.UpdateProject(ctx, login.Token, created.ID, client.ProjectInput{Title: "Portfolio API", Active: &hidden}))
	after, err = c.Projects(ctx)
	require.NoError(t, err)
	assert.Len(t, after, 2)

	listed, err := c.AllProjects(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, -1, listed[0].Order, "update without order keeps it")

	all, err := c.AllProjects(ctx, login.Token)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, c.DeleteProject(ctx, login.Token, created.ID))
	all, err = c.AllProjects(ctx, login.Token)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, c.UpdateContent(ctx, login.Token, "hero_title", "Backend engineer"))
	content, err := c.Content(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"hero_title": "Backend engineer"}, content)
}

func TestAPIErrors(t *testing.T) {
	ctx := context.Background()
	c := startServer(t)

	_, err := c.Login(ctx, "admin", "wrong")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	err = c.UpdateContent(ctx, "", "k", "v")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	err = c.DeleteProject(ctx, "forged", 1)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestRateLimitedClientHonoursContext(t *testing.T) {
	c := client.New("http://127.0.0.1:1", client.WithRateLimit(0.001, 1))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// First call consumes the burst and fails to connect; the second must
	// wait far longer than the deadline.
	_, _ = c.Projects(ctx)
	_, err := c.Projects(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}
