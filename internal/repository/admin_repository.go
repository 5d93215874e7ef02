package repository

import (
	"context"
	"database/sql"

	"github.com/ozaiithejava/portfolio-api/internal/model"
)

// AdminRepo reads and seeds the `admin` table.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// GetByUsername fetches an admin by exact username.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password FROM admin WHERE username = ? LIMIT 1",
		username).Scan(&a.ID, &a.Username, &a.PasswordHash)
	if err != nil {
		return model.Admin{}, lookupErr("admin.get", err)
	}
	return a, nil
}

// Create inserts an admin with an already hashed password and returns its ID.
func (r *AdminRepo) Create(ctx context.Context, username, passwordHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admin (username, password) VALUES (?, ?)",
		username, passwordHash)
	if err != nil {
		return 0, storageErr("admin.create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("admin.create", err)
	}
	return uint64(id), nil
}

// Count returns the number of admin rows.
func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, "SELECT count(*) FROM admin").Scan(&n); err != nil {
		return 0, storageErr("admin.count", err)
	}
	return n, nil
}
