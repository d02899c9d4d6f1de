// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/stitchcalc/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a named row does not exist.
var ErrNotFound = errors.New("store: not found")

// Store wraps SQLite access for projects, custom actions and saved steps.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS custom_actions (
			project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			pattern_type TEXT NOT NULL,
			name TEXT NOT NULL COLLATE NOCASE,
			consumes INTEGER NOT NULL,
			produces INTEGER NOT NULL,
			PRIMARY KEY (project_id, pattern_type, name)
		);`,
		`CREATE TABLE IF NOT EXISTS steps (
			id INTEGER PRIMARY KEY,
			project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			description TEXT NOT NULL,
			instruction TEXT NOT NULL,
			construction TEXT NOT NULL,
			starting_stitches INTEGER NOT NULL,
			ending_stitches INTEGER NOT NULL,
			total_rows INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_steps_project ON steps(project_id, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// EnsureProject returns the id of the named project, creating it if needed.
func (s *Store) EnsureProject(ctx context.Context, name string) (int64, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		name, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return 0, err
	}
	return s.projectID(ctx, name)
}

func (s *Store) projectID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM projects WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// UpsertCustomAction stores an action for a project, replacing any action of
// the same pattern type whose name matches case-insensitively.
func (s *Store) UpsertCustomAction(ctx context.Context, project string, action model.CustomAction) error {
	if err := action.Validate(); err != nil {
		return err
	}
	id, err := s.EnsureProject(ctx, project)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO custom_actions (project_id, pattern_type, name, consumes, produces)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(project_id, pattern_type, name) DO UPDATE SET name = excluded.name, consumes = excluded.consumes, produces = excluded.produces`,
		id, string(action.PatternType), action.Name, action.Consumes, action.Produces)
	return err
}

// DeleteCustomAction removes an action, matching its name case-insensitively.
// It returns ErrNotFound when nothing matched.
func (s *Store) DeleteCustomAction(ctx context.Context, project string, pt model.PatternType, name string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM custom_actions
		 WHERE project_id = (SELECT id FROM projects WHERE name = ?) AND pattern_type = ? AND name = ?`,
		project, string(pt), name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCustomActions returns a project's actions for one pattern type, sorted by name.
func (s *Store) ListCustomActions(ctx context.Context, project string, pt model.PatternType) ([]model.CustomAction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ca.name, ca.consumes, ca.produces
		 FROM custom_actions ca
		 JOIN projects p ON p.id = ca.project_id
		 WHERE p.name = ? AND ca.pattern_type = ?
		 ORDER BY ca.name`,
		project, string(pt))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CustomAction
	for rows.Next() {
		action := model.CustomAction{PatternType: pt}
		if err := rows.Scan(&action.Name, &action.Consumes, &action.Produces); err != nil {
			return nil, err
		}
		result = append(result, action)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CustomActionTable returns a project's actions as a lookup table.
func (s *Store) CustomActionTable(ctx context.Context, project string, pt model.PatternType) (model.CustomActionTable, error) {
	actions, err := s.ListCustomActions(ctx, project, pt)
	if err != nil {
		return nil, err
	}
	return model.TableOf(actions), nil
}

// InsertStep saves a finalized instruction under its project.
func (s *Store) InsertStep(ctx context.Context, step model.Step) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO projects (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		step.Project, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return 0, err
	}
	createdAt := step.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO steps (project_id, description, instruction, construction, starting_stitches, ending_stitches, total_rows, created_at)
		 VALUES ((SELECT id FROM projects WHERE name = ?), ?, ?, ?, ?, ?, ?, ?)`,
		step.Project,
		step.Description,
		step.Instruction,
		step.Construction.String(),
		step.StartingStitches,
		step.EndingStitches,
		step.TotalRows,
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSteps returns a project's steps in the order they were saved.
func (s *Store) ListSteps(ctx context.Context, project string) ([]model.Step, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT st.id, st.description, st.instruction, st.construction, st.starting_stitches,
			st.ending_stitches, st.total_rows, st.created_at
		 FROM steps st
		 JOIN projects p ON p.id = st.project_id
		 WHERE p.name = ?
		 ORDER BY st.created_at ASC, st.id ASC`,
		project)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var steps []model.Step
	for rows.Next() {
		step := model.Step{Project: project}
		var construction, createdAt string
		if err := rows.Scan(&step.ID, &step.Description, &step.Instruction, &construction,
			&step.StartingStitches, &step.EndingStitches, &step.TotalRows, &createdAt); err != nil {
			return nil, err
		}
		if step.Construction, err = model.ParseConstruction(construction); err != nil {
			return nil, err
		}
		if step.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}
