package repository

import (
	"context"
	"database/sql"

	"github.com/ozaiithejava/portfolio-api/internal/model"
)

// ProjectRepo encapsulates all queries against the `projects` table.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

const projectColumns = "id, title, description, repo_url, demo_url, tags, stats, `order`, active"

// Public listing order: display order first, newest first within a tie.
const projectOrdering = " ORDER BY `order` ASC, id DESC"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (model.Project, error) {
	var (
		p                             model.Project
		title, desc, repoURL, demoURL sql.NullString
		tags, stats                   sql.NullString
		order                         sql.NullInt64
		active                        sql.NullBool
	)
	if err := s.Scan(&p.ID, &title, &desc, &repoURL, &demoURL, &tags, &stats, &order, &active); err != nil {
		return model.Project{}, err
	}
	p.Title = title.String
	p.Description = desc.String
	p.RepoURL = repoURL.String
	p.DemoURL = demoURL.String
	p.Tags = decodeTags(tags)
	p.Stats = decodeStats(stats)
	p.Order = int(order.Int64)
	p.Active = active.Valid && active.Bool
	return p, nil
}

func (r *ProjectRepo) list(ctx context.Context, op, q string, args ...any) ([]model.Project, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	out := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// ListActive returns the publicly visible projects.  The result is never nil.
func (r *ProjectRepo) ListActive(ctx context.Context) ([]model.Project, error) {
	return r.list(ctx, "project.list_active",
		"SELECT "+projectColumns+" FROM projects WHERE active = 1"+projectOrdering)
}

// ListAll returns every project, hidden ones included, in the public order.
func (r *ProjectRepo) ListAll(ctx context.Context) ([]model.Project, error) {
	return r.list(ctx, "project.list_all",
		"SELECT "+projectColumns+" FROM projects"+projectOrdering)
}

// GetByID fetches one project regardless of its active flag.
func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (model.Project, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if err != nil {
		return model.Project{}, lookupErr("project.get", err)
	}
	return p, nil
}

// Count returns the number of project rows.
func (r *ProjectRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM projects").Scan(&n); err != nil {
		return 0, storageErr("project.count", err)
	}
	return n, nil
}

// Create inserts p and sets p.ID to the generated identifier.  Tags and stats
// are serialised here; nil collections are stored as [] and {}.
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return storageErr("project.create", err)
	}
	stats, err := encodeStats(p.Stats)
	if err != nil {
		return storageErr("project.create", err)
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO projects (title, description, repo_url, demo_url, tags, stats, `order`, active) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		p.Title, p.Description, p.RepoURL, p.DemoURL, tags, stats, p.Order, p.Active)
	if err != nil {
		return storageErr("project.create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("project.create", err)
	}
	p.ID = uint64(id)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Stats == nil {
		p.Stats = map[string]any{}
	}
	return nil
}

// Update replaces title, description, repo_url, tags, stats and active of
// project id.  demo_url and order change only when the input carries them.
// It returns the number of rows matched; zero is not an error.
func (r *ProjectRepo) Update(ctx context.Context, id uint64, in model.ProjectInput) (int64, error) {
	tags, err := encodeTags(in.Tags)
	if err != nil {
		return 0, storageErr("project.update", err)
	}
	stats, err := encodeStats(in.Stats)
	if err != nil {
		return 0, storageErr("project.update", err)
	}
	// nil pointers bind as NULL, so COALESCE keeps the stored value.
	res, err := r.db.ExecContext(ctx,
		"UPDATE projects SET title = ?, description = ?, repo_url = ?, demo_url = COALESCE(?, demo_url), tags = ?, stats = ?, `order` = COALESCE(?, `order`), active = ? WHERE id = ?",
		in.Title, in.Description, in.RepoURL, in.DemoURL, tags, stats, in.Order, in.ActiveOrDefault(), id)
	if err != nil {
		return 0, storageErr("project.update", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Delete hard-deletes the project and returns the rows affected (0 or 1).
func (r *ProjectRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return 0, storageErr("project.delete", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
