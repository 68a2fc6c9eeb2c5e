package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/playtracker/internal/storage/gormstore"
)

// NewStore opens a migrated SQLite store in a per-test temp directory.
// The store is closed when the test finishes.
func NewStore(t *testing.T) *gormstore.Store {
	t.Helper()

	cfg := gormstore.DefaultConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "usuarios.db")

	store, err := gormstore.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(t.Context()))
	return store
}
