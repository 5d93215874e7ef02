package repository

import (
	"context"
	"database/sql"

	"github.com/ozaiithejava/portfolio-api/internal/database"
)

// ContentRepo stores named text blocks.  The upsert statement differs per
// dialect, so the repo carries one.
type ContentRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewContentRepo(db *sql.DB, dialect database.Dialect) *ContentRepo {
	return &ContentRepo{db: db, dialect: dialect}
}

const (
	upsertContentSQLite = "INSERT INTO content (`key`, value) VALUES (?, ?) " +
		"ON CONFLICT(`key`) DO UPDATE SET value = excluded.value"
	upsertContentMySQL = "INSERT INTO content (`key`, value) VALUES (?, ?) " +
		"ON DUPLICATE KEY UPDATE value = VALUES(value)"
)

// All returns every content row collapsed into a key→value map.  An empty
// table yields an empty, non-nil map.
func (r *ContentRepo) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT `key`, value FROM content")
	if err != nil {
		return nil, storageErr("content.all", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var (
			key   string
			value sql.NullString
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, storageErr("content.all", err)
		}
		out[key] = value.String
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("content.all", err)
	}
	return out, nil
}

// Get returns a single value or ErrNotFound.
func (r *ContentRepo) Get(ctx context.Context, key string) (string, error) {
	var value sql.NullString
	err := r.db.QueryRowContext(ctx, "SELECT value FROM content WHERE `key` = ?", key).Scan(&value)
	if err != nil {
		return "", lookupErr("content.get", err)
	}
	return value.String, nil
}

// Upsert inserts the key or replaces its value if it already exists.
func (r *ContentRepo) Upsert(ctx context.Context, key, value string) error {
	q := upsertContentSQLite
	if r.dialect == database.MySQL {
		q = upsertContentMySQL
	}
	_, err := r.db.ExecContext(ctx, q, key, value)
	return storageErr("content.upsert", err)
}
