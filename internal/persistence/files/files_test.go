package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

func records() []skills.Leaf {
	return []skills.Leaf{
		{ID: 1, Category: "RedTeam", Item: "Recon", SubCategory: "OSINT", SmallCategory: "Search", Name: "Google dorks", Phase: 1, DisplayOrder: skills.IntPtr(1)},
		{ID: 2, Category: "共通", Item: "基礎", SubCategory: "ネットワーク", SmallCategory: "TCP/IP", Name: "三者間ハンドシェイク", Description: "SYN, SYN-ACK, ACK", Phase: 2, DisplayOrder: skills.IntPtr(2)},
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.yaml"))
	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "skills.yaml")
	s := New(path)

	require.NoError(t, s.Save(ctx, records()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Skill matrix records")
	assert.Contains(t, string(data), "version: 1")

	loaded, err := New(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records(), loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "skills.yaml"))

	require.NoError(t, s.Save(ctx, records()))
	require.NoError(t, s.Save(ctx, records()[:1]))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	dir := t.TempDir()

	garbled := filepath.Join(dir, "garbled.yaml")
	require.NoError(t, os.WriteFile(garbled, []byte("records: [\n"), 0o644))
	_, err := New(garbled).Load(context.Background())
	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)

	future := filepath.Join(dir, "future.yaml")
	require.NoError(t, os.WriteFile(future, []byte("version: 99\nrecords: []\n"), 0o644))
	_, err = New(future).Load(context.Background())
	assert.ErrorAs(t, err, &perr)
}

func TestSaveLogsThroughContext(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithSession(logging.WithLogger(context.Background(), tl.Logger), "s-1")
	s := New(filepath.Join(t.TempDir(), "skills.yaml"))

	require.NoError(t, s.Save(ctx, records()))

	entry, ok := tl.Entry("Wrote records document")
	require.True(t, ok, tl.Output())
	assert.Equal(t, "s-1", entry[logging.SessionField])
	assert.EqualValues(t, len(records()), entry["records"])
}
