// Package files stores the record set as a single YAML document on disk.
package files

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// documentVersion is bumped when the on-disk layout changes.
const documentVersion = 1

type document struct {
	Version int           `yaml:"version"`
	SavedAt string        `yaml:"saved_at,omitempty"`
	Records []skills.Leaf `yaml:"records"`
}

// Store reads and writes one YAML document.
type Store struct {
	path string
}

// New returns a store backed by the document at path. The file need not
// exist yet.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the document path.
func (s *Store) Path() string { return s.path }

// Load parses the document. A missing file is an empty record set.
func (s *Store) Load(ctx context.Context) ([]skills.Leaf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []skills.Leaf{}, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", s.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("yaml", s.path, err)
	}
	if doc.Version > documentVersion {
		return nil, errors.NewParseError("yaml", s.path,
			fmt.Sprintf("document version %d is newer than supported version %d", doc.Version, documentVersion), nil)
	}
	if doc.Records == nil {
		doc.Records = []skills.Leaf{}
	}
	return doc.Records, nil
}

// Save writes the document through a temp file in the same directory and
// renames it over the old one, so readers never see a partial write.
func (s *Store) Save(ctx context.Context, records []skills.Leaf) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := document{
		Version: documentVersion,
		SavedAt: utc.Now().Format(time.RFC3339),
		Records: records,
	}
	if doc.Records == nil {
		doc.Records = []skills.Leaf{}
	}

	body, err := yaml.Marshal(doc)
	if err != nil {
		return errors.WrapParse("yaml", s.path, err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Skill matrix records\n")
	fmt.Fprintf(&buf, "# %d records, display_order is the 1-based group position\n\n", len(doc.Records))
	buf.Write(body)

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("sync", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return errors.WrapIO("rename", s.path, err)
	}
	logging.FromContext(ctx).Debug().
		Str("path", s.path).
		Int("records", len(doc.Records)).
		Msg("Wrote records document")
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
