package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestShouldIgnoreEvent(t *testing.T) {
	cases := map[string]bool{
		"Sources/Core/Core.swift":  false,
		"README.md":                false,
		"Sources/Core/.Core.swift": true,
		"Sources/Core/Core.swift~": true,
		"Sources/.Core.swift.swp":  true,
		"Sources/x.swx":            true,
		"Sources/#Core.swift#":     true,
		"Sources/.DS_Store":        true,
		"Thumbs.db":                true,
	}
	for path, want := range cases {
		require.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.stop()

	for range 5 {
		d.trigger()
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-d.C():
	case <-time.After(time.Second):
		t.Fatal("debounced signal not delivered")
	}
	select {
	case <-d.C():
		t.Fatal("burst produced more than one signal")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDebouncer_FireNeverBlocks(t *testing.T) {
	d := newDebouncer(time.Hour)
	d.fire()
	d.fire()
	require.Len(t, d.C(), 1)
}

func TestRelevant(t *testing.T) {
	w := New(nil)
	w.roots = []string{"/pkg/Sources"}
	w.files["/pkg/README.md"] = struct{}{}

	require.True(t, w.relevant("/pkg/Sources"))
	require.True(t, w.relevant("/pkg/Sources/Core/Core.swift"))
	require.True(t, w.relevant("/pkg/README.md"))
	require.False(t, w.relevant("/pkg/SourcesExtra/x.swift"))
	require.False(t, w.relevant("/pkg/Package.resolved"))
}

func TestRun_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	sources := filepath.Join(dir, "Sources", "Core")
	require.NoError(t, os.MkdirAll(sources, 0o750))
	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# Demo"), 0o600))

	var rebuilds atomic.Int32
	rebuild := func(context.Context) error {
		if rebuilds.Add(1) == 1 {
			return errors.New("first rebuild fails and is only logged")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := New(rebuild, filepath.Join(dir, "Sources"), readme, filepath.Join(dir, "missing")).WithDebounce(20 * time.Millisecond)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return rebuilds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sources, "Core.swift"), []byte("struct Core {}"), 0o600))
	require.Eventually(t, func() bool { return rebuilds.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	before := rebuilds.Load()
	require.NoError(t, os.WriteFile(readme, []byte("# Demo\n\nUpdated."), 0o600))
	require.Eventually(t, func() bool { return rebuilds.Load() > before }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_NoExistingPaths(t *testing.T) {
	w := New(func(context.Context) error { return nil }, filepath.Join(t.TempDir(), "nope"))
	err := w.Run(context.Background())
	require.ErrorContains(t, err, "none of the watch paths exist")
}
