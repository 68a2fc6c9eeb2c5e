package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/playtracker/internal/dependencies/mocks"
	"github.com/mcoot/playtracker/internal/services/auth"
	"github.com/mcoot/playtracker/internal/services/bootstrap"
	"github.com/mcoot/playtracker/internal/storage/memory"
	"github.com/mcoot/playtracker/internal/testutil"
)

// Secrets every TestApp is configured with
const (
	TestSecretKey     = "test-secret-key"
	TestAdminPassword = "test-admin-password"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock      *mocks.MockClock
	MemorySessions *memory.Storage
}

// NewTestApp creates an App backed by a temporary SQLite database, an
// in-memory session store and a mock clock
func NewTestApp(t *testing.T) *TestApp {
	t.Helper()

	store := testutil.NewStore(t)
	sessions := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	app, err := newWithDependencies(store, sessions, mockClock, Config{
		AuthConfig: auth.Config{
			SecretKey:     TestSecretKey,
			AdminPassword: TestAdminPassword,
		},
		BootstrapConfig: bootstrap.Config{
			AdminPassword: TestAdminPassword,
		},
	}, testutil.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Sweeper.Stop() })

	return &TestApp{
		App:            app,
		MockClock:      mockClock,
		MemorySessions: sessions,
	}
}
