// Package persistence defines the record store the engine loads a baseline
// from and commits flattened record sets to, and opens the configured
// adapter.
package persistence

import (
	"context"
	"strings"

	"github.com/agentstation/skillmatrix/internal/persistence/files"
	"github.com/agentstation/skillmatrix/internal/persistence/memory"
	"github.com/agentstation/skillmatrix/internal/persistence/sqlite"
	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Store loads and replaces the full record set. Save is all-or-nothing:
// on error the previously stored set is left intact.
type Store interface {
	Load(ctx context.Context) ([]skills.Leaf, error)
	Save(ctx context.Context, records []skills.Leaf) error
	Close() error
}

// Kind names a store adapter.
type Kind string

// Store kinds.
const (
	KindMemory Kind = "memory"
	KindFiles  Kind = "files"
	KindSQLite Kind = "sqlite"
)

// ParseKind resolves a configured store name.
func ParseKind(name string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case KindMemory:
		return KindMemory, nil
	case KindFiles, "", "file", "yaml":
		return KindFiles, nil
	case KindSQLite, "sqlite3", "db":
		return KindSQLite, nil
	default:
		return "", &errors.ConfigError{
			Component: "store",
			Message:   "unknown store kind " + name + " (want files, sqlite or memory)",
		}
	}
}

// Open opens a store of the given kind at path. An empty path uses the
// kind's default location.
func Open(kind Kind, path string) (Store, error) {
	switch kind {
	case KindMemory:
		return memory.New(), nil
	case KindFiles:
		if path == "" {
			path = constants.DefaultRecordsPath
		}
		return files.New(path), nil
	case KindSQLite:
		if path == "" {
			path = constants.DefaultDatabasePath
		}
		return sqlite.Open(path)
	default:
		return nil, &errors.ConfigError{Component: "store", Message: "unknown store kind " + string(kind)}
	}
}
