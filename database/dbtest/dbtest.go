// Package dbtest opens migrated in-memory SQLite stores for tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"pos-api/config"
	"pos-api/database"
)

var seq atomic.Int64

// New returns a fresh, migrated store that is closed when the test ends.
func New(t testing.TB) *database.Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	store, err := database.Open(config.Database{
		Driver:   "sqlite",
		DSN:      dsn,
		LogLevel: "silent",
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(); err != nil {
		t.Fatalf("migrating test store: %v", err)
	}
	return store
}
