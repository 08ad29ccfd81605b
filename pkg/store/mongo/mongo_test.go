//go:build integration

package mongo

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/matzehuels/platecut/pkg/socket"
	"github.com/matzehuels/platecut/pkg/store"
	"github.com/matzehuels/platecut/pkg/store/storetest"
)

// Run with: PLATECUT_MONGO_URI=mongodb://localhost:27017 go test -tags integration ./pkg/store/mongo
func openTest(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("PLATECUT_MONGO_URI")
	if uri == "" {
		t.Skip("PLATECUT_MONGO_URI not set")
	}
	ctx := context.Background()
	db := "platecut_test_" + strings.ReplaceAll(socket.NewID(), "-", "")[:12]
	s, err := New(ctx, Config{URI: uri, Database: db})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Drop(ctx)
		s.Close()
	})
	return s
}

func TestRepository(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository { return openTest(t) })
}
