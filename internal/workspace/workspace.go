package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dn-m/documentarian/internal/logfields"
)

// Manager handles the scratch directory (ephemeral or persistent).
type Manager struct {
	mu         sync.Mutex
	baseDir    string
	dir        string
	persistent bool
}

// NewManager creates a manager with an ephemeral per-run directory under baseDir.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager uses dir as-is and never removes it.
func NewPersistentManager(dir string) *Manager {
	return &Manager{baseDir: dir, dir: dir, persistent: true}
}

// Create makes the scratch directory. Calling it again is a no-op.
func (m *Manager) Create() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("failed to create persistent scratch directory: %w", err)
		}
		slog.Debug("Using persistent scratch directory", logfields.Path(m.dir))
		return nil
	}
	if m.dir != "" {
		return nil
	}

	name := fmt.Sprintf("documentarian-%s-%s", time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	dir := filepath.Join(m.baseDir, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	m.dir = dir
	slog.Debug("Created scratch directory", logfields.Path(dir))
	return nil
}

// Path returns the scratch directory, or "" before Create.
func (m *Manager) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dir
}

// DumpFile returns where the symbol dump of a module is written.
func (m *Manager) DumpFile(module string) (string, error) {
	dir := m.Path()
	if dir == "" {
		return "", errors.New("scratch directory not created")
	}
	return filepath.Join(dir, module+".json"), nil
}

// Remove deletes an intermediate file. A file that is already gone is not an error.
func (m *Manager) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// Cleanup removes an ephemeral scratch directory. Persistent directories are kept.
func (m *Manager) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dir == "" {
		return nil
	}
	if m.persistent {
		slog.Debug("Keeping persistent scratch directory", logfields.Path(m.dir))
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to cleanup scratch directory: %w", err)
	}
	slog.Debug("Cleaned up scratch directory", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
