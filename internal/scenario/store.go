package scenario

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
)

// Record is a stored scenario with its timestamps.
type Record struct {
	Scenario
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps scenarios in a SQLite database.
type Store struct {
	Path string
	db   *sql.DB
}

// OpenStore opens or creates the scenario database at path.
func OpenStore(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve scenario store path: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(absPath), 0o750); err != nil {
		return nil, fmt.Errorf("ensure scenario store dir: %w", err)
	}

	dsn := "file:" + absPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open scenario store: %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open scenario store: %w", err)
	}

	s := &Store{Path: absPath, db: db}
	if err = s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS scenarios (
  id            TEXT PRIMARY KEY,
  name          TEXT NOT NULL,
  description   TEXT,
  activity_json TEXT NOT NULL,
  created_at    TEXT NOT NULL,
  updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scenarios_name ON scenarios(name);
`)
	if err != nil {
		return fmt.Errorf("create scenario schema: %w", err)
	}
	return nil
}

// Save inserts sc or replaces the stored scenario with the same ID. An
// empty ID is replaced with a generated one; the saved ID is returned.
func (s *Store) Save(ctx context.Context, sc Scenario) (string, error) {
	if sc.ID == "" {
		sc.ID = NewID()
	}
	if strings.TrimSpace(sc.Name) == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	activityJSON, err := json.Marshal(sc.Activity)
	if err != nil {
		return "", fmt.Errorf("marshal activity: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scenarios (id, name, description, activity_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  name = excluded.name,
		  description = excluded.description,
		  activity_json = excluded.activity_json,
		  updated_at = excluded.updated_at
	`, sc.ID, sc.Name, sc.Description, string(activityJSON), now, now)
	if err != nil {
		return "", fmt.Errorf("save scenario %s: %w", sc.ID, err)
	}
	return sc.ID, nil
}

// Get looks a scenario up by ID, then by exact name.
func (s *Store) Get(ctx context.Context, ref string) (Record, error) {
	const selectRecord = `SELECT id, name, description, activity_json, created_at, updated_at FROM scenarios`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectRecord+` WHERE id = ?`, ref))
	if errors.Is(err, sql.ErrNoRows) {
		rec, err = scanRecord(s.db.QueryRowContext(ctx, selectRecord+` WHERE name = ? ORDER BY created_at LIMIT 1`, ref))
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get scenario %s: %w", ref, err)
	}
	return rec, nil
}

// List returns every stored scenario ordered by name.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, activity_json, created_at, updated_at
		FROM scenarios ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, serr := scanRecord(rows)
		if serr != nil {
			return nil, fmt.Errorf("list scenarios: %w", serr)
		}
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	return out, nil
}

// Delete removes the scenario with the given ID or name.
func (s *Store) Delete(ctx context.Context, ref string) error {
	rec, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if _, err = s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, rec.ID); err != nil {
		return fmt.Errorf("delete scenario %s: %w", rec.ID, err)
	}
	return nil
}

// Set builds a comparable set from the given stored scenarios, with
// baseline as the baseline reference. An empty refs list takes every
// stored scenario.
func (s *Store) Set(ctx context.Context, baseline string, refs []string) (Set, error) {
	var records []Record
	if len(refs) == 0 {
		all, err := s.List(ctx)
		if err != nil {
			return Set{}, err
		}
		records = all
	} else {
		for _, ref := range refs {
			rec, err := s.Get(ctx, ref)
			if err != nil {
				return Set{}, err
			}
			records = append(records, rec)
		}
	}

	base, err := s.Get(ctx, baseline)
	if err != nil {
		return Set{}, fmt.Errorf("%w: %q", ErrNoBaseline, baseline)
	}

	set := Set{Baseline: base.ID, Scenarios: []Scenario{base.Scenario}}
	for _, rec := range records {
		if rec.ID != base.ID {
			set.Scenarios = append(set.Scenarios, rec.Scenario)
		}
	}
	return set, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec                  Record
		desc                 sql.NullString
		activityJSON         string
		createdAt, updatedAt string
	)
	if err := sc.Scan(&rec.ID, &rec.Name, &desc, &activityJSON, &createdAt, &updatedAt); err != nil {
		return Record{}, err
	}
	rec.Description = desc.String

	var a emissions.Activity
	if err := json.Unmarshal([]byte(activityJSON), &a); err != nil {
		return Record{}, fmt.Errorf("decode activity of %s: %w", rec.ID, err)
	}
	rec.Activity = a

	var err error
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Record{}, fmt.Errorf("parse created_at of %s: %w", rec.ID, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Record{}, fmt.Errorf("parse updated_at of %s: %w", rec.ID, err)
	}
	return rec, nil
}
