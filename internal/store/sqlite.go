package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS projects (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	parameters        TEXT NOT NULL,
	route             TEXT,
	use_grid_estimate INTEGER NOT NULL DEFAULT 0,
	summary           TEXT,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name);
CREATE INDEX IF NOT EXISTS idx_projects_updated_at ON projects(updated_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// projectColumns are the encoded forms of a project's JSON fields.
type projectColumns struct {
	parameters string
	route      sql.NullString
	summary    sql.NullString
}

func encodeProject(p *domain.SavedProject) (projectColumns, error) {
	var cols projectColumns

	params, err := json.Marshal(p.Parameters)
	if err != nil {
		return cols, eris.Wrap(err, "sqlite: marshal parameters")
	}
	cols.parameters = string(params)

	if p.Route != nil {
		route, err := json.Marshal(p.Route)
		if err != nil {
			return cols, eris.Wrap(err, "sqlite: marshal route")
		}
		cols.route = sql.NullString{String: string(route), Valid: true}
	}
	if p.Summary != nil {
		summary, err := json.Marshal(p.Summary)
		if err != nil {
			return cols, eris.Wrap(err, "sqlite: marshal summary")
		}
		cols.summary = sql.NullString{String: string(summary), Valid: true}
	}
	return cols, nil
}

func (s *SQLiteStore) CreateProject(ctx context.Context, p *domain.SavedProject) (*domain.SavedProject, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, eris.New("sqlite: project name is required")
	}
	cols, err := encodeProject(p)
	if err != nil {
		return nil, err
	}

	created := *p
	created.ID = uuid.New().String()
	created.CreatedAt = s.now()
	created.UpdatedAt = created.CreatedAt

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, parameters, route, use_grid_estimate, summary, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.Name, created.Description, cols.parameters, cols.route,
		created.UseGridEstimate, cols.summary, created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert project")
	}
	return &created, nil
}

func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*domain.SavedProject, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, parameters, route, use_grid_estimate, summary, created_at, updated_at
		 FROM projects WHERE id = ?`,
		id,
	)
	return scanProject(row, id)
}

func (s *SQLiteStore) ListProjects(ctx context.Context, filter ProjectFilter) ([]domain.ProjectSummary, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM projects WHERE 1=1`
	var args []any

	if filter.Search != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+filter.Search+"%")
	}
	query += ` ORDER BY updated_at DESC, name`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list projects")
	}
	defer rows.Close()

	projects := []domain.ProjectSummary{}
	for rows.Next() {
		var p domain.ProjectSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan project summary")
		}
		projects = append(projects, p)
	}
	return projects, eris.Wrap(rows.Err(), "sqlite: list projects iterate")
}

func (s *SQLiteStore) UpdateProject(ctx context.Context, p *domain.SavedProject) (*domain.SavedProject, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, eris.New("sqlite: project name is required")
	}
	cols, err := encodeProject(p)
	if err != nil {
		return nil, err
	}

	updatedAt := s.now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, parameters = ?, route = ?, use_grid_estimate = ?, summary = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Description, cols.parameters, cols.route, p.UseGridEstimate, cols.summary, updatedAt, p.ID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: update project %s", p.ID)
	}
	if err := checkRowsAffected(res, "project", p.ID); err != nil {
		return nil, err
	}
	return s.GetProject(ctx, p.ID)
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete project %s", id)
	}
	return checkRowsAffected(res, "project", id)
}

// DuplicateProject copies a project's inputs and summary under newName.
func (s *SQLiteStore) DuplicateProject(ctx context.Context, id, newName string) (*domain.SavedProject, error) {
	if strings.TrimSpace(newName) == "" {
		return nil, eris.New("sqlite: new project name is required")
	}
	original, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	original.Name = newName
	return s.CreateProject(ctx, original)
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProject(row scannable, id string) (*domain.SavedProject, error) {
	var p domain.SavedProject
	var paramsJSON string
	var routeJSON, summaryJSON sql.NullString

	err := row.Scan(&p.ID, &p.Name, &p.Description, &paramsJSON, &routeJSON, &p.UseGridEstimate, &summaryJSON, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "project %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan project")
	}

	if err := json.Unmarshal([]byte(paramsJSON), &p.Parameters); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal parameters")
	}
	if routeJSON.Valid {
		p.Route = &domain.RouteParameters{}
		if err := json.Unmarshal([]byte(routeJSON.String), p.Route); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal route")
		}
	}
	if summaryJSON.Valid {
		p.Summary = &domain.SummaryMetrics{}
		if err := json.Unmarshal([]byte(summaryJSON.String), p.Summary); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal summary")
		}
	}
	return &p, nil
}
