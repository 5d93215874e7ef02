// Package seed makes a fresh database usable: one admin account and a couple
// of sample projects.  Run is idempotent and is called on every startup
// before the HTTP server listens.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ozaiithejava/portfolio-api/internal/model"
	"github.com/ozaiithejava/portfolio-api/internal/repository"
	"github.com/ozaiithejava/portfolio-api/internal/utils"
)

// Admins is the part of the admin repository seeding uses.
type Admins interface {
	GetByUsername(ctx context.Context, username string) (model.Admin, error)
	Create(ctx context.Context, username, passwordHash string) (uint64, error)
}

// Projects is the part of the project repository seeding uses.
type Projects interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p *model.Project) error
}

// Options names the admin account to ensure.
type Options struct {
	AdminUsername string
	AdminPassword string
	BcryptCost    int
}

// SampleProjects are inserted when the projects table is empty.
func SampleProjects() []model.Project {
	return []model.Project{
		{
			Title:       "High-Performance Proxy",
			Description: "A custom Netty-based reverse proxy handling 10k+ concurrent connections with <5ms latency.",
			RepoURL:     "https://github.com/ozaiithejava/proxy",
			Tags:        []string{"Java", "Netty", "TCP"},
			Stats:       map[string]any{"CCU": "10k+", "Latency": "2ms"},
			Active:      true,
		},
		{
			Title:       "Game Engine Core",
			Description: "Multi-threaded ECS physics engine for Minecraft functionality implementation.",
			RepoURL:     "https://github.com/ozaiithejava/core",
			Tags:        []string{"Kotlin", "ECS", "Physics"},
			Stats:       map[string]any{"TPS": "20.0", "Entities": "5k+"},
			Active:      true,
		},
	}
}

// Run ensures the admin account exists and seeds sample projects into an
// empty table.
func Run(ctx context.Context, admins Admins, projects Projects, opts Options, logger *zap.Logger) error {
	if err := ensureAdmin(ctx, admins, opts, logger); err != nil {
		return err
	}
	return ensureProjects(ctx, projects, logger)
}

func ensureAdmin(ctx context.Context, admins Admins, opts Options, logger *zap.Logger) error {
	_, err := admins.GetByUsername(ctx, opts.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}
	hash, err := utils.HashPassword(opts.AdminPassword, opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("seed admin: hash password: %w", err)
	}
	id, err := admins.Create(ctx, opts.AdminUsername, hash)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Info("admin account created", zap.String("username", opts.AdminUsername), zap.Uint64("id", id))
	return nil
}

func ensureProjects(ctx context.Context, projects Projects, logger *zap.Logger) error {
	n, err := projects.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed projects: %w", err)
	}
	if n > 0 {
		return nil
	}
	samples := SampleProjects()
	for i := range samples {
		if err := projects.Create(ctx, &samples[i]); err != nil {
			return fmt.Errorf("seed projects: %w", err)
		}
	}
	logger.Info("seeded initial projects", zap.Int("count", len(samples)))
	return nil
}
