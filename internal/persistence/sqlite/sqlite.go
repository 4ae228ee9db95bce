// Package sqlite stores the record set in a single SQLite table. Every save
// replaces the table inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

const schema = `CREATE TABLE IF NOT EXISTS skills (
	position       INTEGER NOT NULL,
	id             INTEGER PRIMARY KEY,
	category       TEXT NOT NULL,
	item           TEXT NOT NULL,
	sub_category   TEXT NOT NULL,
	small_category TEXT NOT NULL,
	name           TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	phase          INTEGER NOT NULL,
	display_order  INTEGER
)`

// Store is a SQLite-backed record store.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// Open opens or creates the database at path. ":memory:" keeps it in
// memory for the life of the store.
func Open(path string) (*Store, error) {
	if path == "" {
		path = constants.DefaultDatabasePath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapResource("open", "store", path, err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("create", "skills table", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Load returns the stored records in saved order.
func (s *Store) Load(ctx context.Context) ([]skills.Leaf, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, category, item, sub_category, small_category,
		name, description, phase, display_order FROM skills ORDER BY position`)
	if err != nil {
		return nil, errors.WrapResource("load", "records", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	out := []skills.Leaf{}
	for rows.Next() {
		var (
			l     skills.Leaf
			phase int
			order sql.NullInt64
		)
		if err := rows.Scan(&l.ID, &l.Category, &l.Item, &l.SubCategory, &l.SmallCategory,
			&l.Name, &l.Description, &phase, &order); err != nil {
			return nil, errors.WrapResource("scan", "records", s.path, err)
		}
		l.Phase = skills.Phase(phase)
		if order.Valid {
			l.DisplayOrder = skills.IntPtr(int(order.Int64))
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("load", "records", s.path, err)
	}
	return out, nil
}

// Save replaces every stored record. Records must carry canonical ids.
func (s *Store) Save(ctx context.Context, records []skills.Leaf) (retErr error) {
	for _, r := range records {
		if r.IsPending() {
			return errors.NewContractError("sqlite.Save", "id", r.ID, "record is not resolved")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("begin", "transaction", s.path, err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM skills`); err != nil {
		return errors.WrapResource("clear", "records", s.path, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO skills (position, id, category, item, sub_category,
		small_category, name, description, phase, display_order) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return errors.WrapResource("prepare", "insert", s.path, err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		var order sql.NullInt64
		if v, ok := r.Order(); ok {
			order = sql.NullInt64{Int64: int64(v), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, i, r.ID, r.Category, r.Item, r.SubCategory,
			r.SmallCategory, r.Name, r.Description, int(r.Phase), order); err != nil {
			return errors.WrapResource("insert", "record", r.String(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapResource("commit", "transaction", s.path, err)
	}
	logging.FromContext(ctx).Debug().
		Str("path", s.path).
		Int("records", len(records)).
		Msg("Replaced skills table")
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
