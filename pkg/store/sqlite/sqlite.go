// Package sqlite is a store.Repository backed by an SQLite database.
//
// Plates and socket groups live in their own tables, ordered by a position
// column; the active plate index is a row in settings. Every save deletes and
// re-inserts a whole table inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
	"github.com/matzehuels/platecut/pkg/store"
)

const (
	appName    = "platecut"
	dbFileName = "platecut.db"
	// Memory opens a private in-memory database.
	Memory = ":memory:"
)

// Store is the SQLite backend.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the database location under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Open opens (creating if needed) the database at path. An empty path uses
// DefaultPath; Memory opens an in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
		path = p
	}
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection: an in-memory database is per connection, and SQLite
	// serializes writers anyway
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS plates (
			position INTEGER PRIMARY KEY,
			width TEXT NOT NULL,
			height TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS socket_groups (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			plate_index INTEGER NOT NULL,
			count INTEGER NOT NULL,
			orientation TEXT NOT NULL,
			anchor_x_cm REAL NOT NULL,
			anchor_y_cm REAL NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_socket_groups_plate ON socket_groups(plate_index);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// WithTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) LoadDimensions(ctx context.Context) ([]plate.Dimension, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT width, height FROM plates ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query plates: %w", err)
	}
	defer rows.Close()

	var raws []plate.Raw
	for rows.Next() {
		var r plate.Raw
		if err := rows.Scan(&r.Width, &r.Height); err != nil {
			return nil, fmt.Errorf("scan plate: %w", err)
		}
		raws = append(raws, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plates: %w", err)
	}
	return store.DecodeDimensions(raws), nil
}

func (s *Store) SaveDimensions(ctx context.Context, dims []plate.Dimension) error {
	return s.SaveRaw(ctx, store.EncodeDimensions(dims))
}

// SaveRaw stores dimension strings verbatim.
func (s *Store) SaveRaw(ctx context.Context, raws []plate.Raw) error {
	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM plates`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO plates (position, width, height) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, r := range raws {
			if _, err := stmt.ExecContext(ctx, i, r.Width, r.Height); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save plates: %w", err)
	}
	return nil
}

func (s *Store) LoadGroups(ctx context.Context) ([]socket.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, plate_index, count, orientation, anchor_x_cm, anchor_y_cm
		FROM socket_groups ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query socket groups: %w", err)
	}
	defer rows.Close()

	var groups []socket.Group
	for rows.Next() {
		var g socket.Group
		var orientation string
		if err := rows.Scan(&g.ID, &g.PlateIndex, &g.Count, &orientation, &g.AnchorXCm, &g.AnchorYCm); err != nil {
			return nil, fmt.Errorf("scan socket group: %w", err)
		}
		g.Orientation = socket.Orientation(orientation)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate socket groups: %w", err)
	}
	return groups, nil
}

func (s *Store) SaveGroups(ctx context.Context, groups []socket.Group) error {
	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM socket_groups`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO socket_groups (position, id, plate_index, count, orientation, anchor_x_cm, anchor_y_cm)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, g := range groups {
			if _, err := stmt.ExecContext(ctx, i, g.ID, g.PlateIndex, g.Count, string(g.Orientation), g.AnchorXCm, g.AnchorYCm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save socket groups: %w", err)
	}
	return nil
}

func (s *Store) LoadActiveIndex(ctx context.Context) (int, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, store.KindActiveIndex).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query active index: %w", err)
	}
	idx, err := strconv.Atoi(v)
	if err != nil {
		return 0, nil
	}
	return idx, nil
}

func (s *Store) SaveActiveIndex(ctx context.Context, index int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		store.KindActiveIndex, strconv.Itoa(index))
	if err != nil {
		return fmt.Errorf("save active index: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

var _ store.Repository = (*Store)(nil)
