package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ozaiithejava/portfolio-api/internal/database"
	"github.com/ozaiithejava/portfolio-api/internal/model"
	"github.com/ozaiithejava/portfolio-api/internal/repository"
	"github.com/ozaiithejava/portfolio-api/internal/utils"
)

var testOpts = Options{AdminUsername: "admin", AdminPassword: "admin123", BcryptCost: 4}

func TestRunSeedsEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	db := database.OpenTest(t)
	admins := repository.NewAdminRepo(db)
	projects := repository.NewProjectRepo(db)

	require.NoError(t, Run(ctx, admins, projects, testOpts, zap.NewNop()))

	a, err := admins.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(a.PasswordHash, "admin123"))
	assert.NotEqual(t, "admin123", a.PasswordHash)

	list, err := projects.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Equal display order, so the later insert comes first.
	assert.Equal(t, "Game Engine Core", list[0].Title)
	assert.Equal(t, []string{"Java", "Netty", "TCP"}, list[1].Tags)
	assert.Equal(t, map[string]any{"CCU": "10k+", "Latency": "2ms"}, list[1].Stats)
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := database.OpenTest(t)
	admins := repository.NewAdminRepo(db)
	projects := repository.NewProjectRepo(db)

	require.NoError(t, Run(ctx, admins, projects, testOpts, zap.NewNop()))
	require.NoError(t, Run(ctx, admins, projects, testOpts, zap.NewNop()))

	n, err := admins.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = projects.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunKeepsExistingProjects(t *testing.T) {
	ctx := context.Background()
	db := database.OpenTest(t)
	projects := repository.NewProjectRepo(db)
	require.NoError(t, projects.Create(ctx, &model.Project{Title: "mine", Active: true}))

	require.NoError(t, Run(ctx, repository.NewAdminRepo(db), projects, testOpts, zap.NewNop()))

	n, err := projects.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunPropagatesStorageErrors(t *testing.T) {
	db := database.OpenTest(t)
	admins := repository.NewAdminRepo(db)
	projects := repository.NewProjectRepo(db)
	require.NoError(t, db.Close())

	err := Run(context.Background(), admins, projects, testOpts, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed admin")
}
