// Package sqlite stores scenarios in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lox/rangelab/internal/ranges"
	"github.com/lox/rangelab/internal/scenario"
	"github.com/lox/rangelab/internal/scenario/sqlite/migrations"
)

// Store persists scenarios in SQLite.
type Store struct {
	db    *sql.DB
	clock quartz.Clock
}

var _ scenario.Store = (*Store)(nil)

// Open opens the database at path and applies embedded migrations. A nil
// clock uses real time.
func Open(ctx context.Context, path string, clock quartz.Clock) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if clock == nil {
		clock = quartz.NewReal()
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, clock: clock}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores a new scenario. A blank name becomes "Untitled Scenario <time>".
func (s *Store) Save(ctx context.Context, name string, hero, villain ranges.Range) (scenario.Scenario, error) {
	now := s.clock.Now().UTC()
	sc := scenario.Scenario{
		ID:           uuid.NewString(),
		Name:         scenario.DisplayName(name, now),
		HeroRange:    hero,
		VillainRange: villain,
		CreatedAt:    now.Truncate(time.Millisecond),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scenarios (id, name, hero_range, villain_range, created_at) VALUES (?, ?, ?, ?, ?)`,
		sc.ID, sc.Name, hero.String(), villain.String(), sc.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("save scenario: %w", err)
	}
	return sc, nil
}

// List returns every scenario, newest first.
func (s *Store) List(ctx context.Context) ([]scenario.Scenario, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, hero_range, villain_range, created_at
		   FROM scenarios
		  ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var out []scenario.Scenario
	for rows.Next() {
		var (
			sc             scenario.Scenario
			hero, villain  string
			createdAtMilli int64
		)
		if err := rows.Scan(&sc.ID, &sc.Name, &hero, &villain, &createdAtMilli); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		if sc.HeroRange, err = ranges.ParseRange(hero); err != nil {
			return nil, fmt.Errorf("scenario %s hero range: %w", sc.ID, err)
		}
		if sc.VillainRange, err = ranges.ParseRange(villain); err != nil {
			return nil, fmt.Errorf("scenario %s villain range: %w", sc.ID, err)
		}
		sc.CreatedAt = time.UnixMilli(createdAtMilli).UTC()
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	return out, nil
}

// Delete removes one scenario, returning scenario.ErrNotFound when it does
// not exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if n == 0 {
		return scenario.ErrNotFound
	}
	return nil
}
