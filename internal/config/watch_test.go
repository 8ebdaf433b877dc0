package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/catsort/internal/config"
	"github.com/aretw0/catsort/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "page.html")
	other := filepath.Join(dir, "other.html")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- config.Watch(ctx, logging.NewNop(), []string{target}, func(p string) { changed <- p })
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("v2"), 0o644))

	select {
	case p := <-changed:
		assert.Equal(t, "page.html", filepath.Base(p))
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := config.Watch(context.Background(), logging.NewNop(), []string{"/does/not/exist/file"}, func(string) {})
	assert.Error(t, err)
}
