package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"golang.org/x/text/unicode/norm"

	"comicwebp/internal/logging"
	"comicwebp/internal/services"
)

// ErrBusy reports that another run holds the workspace for the same archive.
var ErrBusy = errors.New("workspace in use by another run")

const dirMode = 0o775

// Manager creates and destroys run workspaces beneath a root directory.
type Manager struct {
	root   string
	logger *slog.Logger

	mu   sync.Mutex
	held map[string]*flock.Flock
}

// Workspace is a run-owned directory. Its lock lives beside it as
// <name>.lock. The lock file outlives the workspace; unlinking it would let
// two later runs lock different inodes for the same path.
type Workspace struct {
	Path string
}

// NewManager constructs a Manager rooted at dir.
func NewManager(dir string, logger *slog.Logger) *Manager {
	return &Manager{
		root:   dir,
		logger: logging.NewComponentLogger(logger, "workspace"),
		held:   make(map[string]*flock.Flock),
	}
}

// Root returns the directory holding workspaces.
func (m *Manager) Root() string {
	return m.root
}

// Name derives the workspace directory name from an archive path: the base
// name without its final extension, apostrophes removed.
func Name(archivePath string) string {
	base := filepath.Base(archivePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	stem = norm.NFC.String(stem)
	return strings.ReplaceAll(stem, "'", "")
}

// PathFor returns the workspace directory used for archivePath.
func (m *Manager) PathFor(archivePath string) string {
	return filepath.Join(m.root, Name(archivePath))
}

// Create prepares an empty workspace for archivePath. A directory left over
// from an earlier run is deleted and recreated, never merged.
func (m *Manager) Create(ctx context.Context, archivePath string) (*Workspace, error) {
	logger := logging.WithContext(ctx, m.logger)
	switch name := Name(archivePath); name {
	case "", ".", "..", string(filepath.Separator):
		return nil, services.Wrap(services.ErrValidation, "workspace", "derive name", fmt.Sprintf("no usable name in %q", archivePath), nil)
	}
	path := m.PathFor(archivePath)

	if err := os.MkdirAll(m.root, dirMode); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workspace", "create root", m.root, err)
	}

	if err := m.acquire(path); err != nil {
		return nil, err
	}

	logger.Info("working directory", logging.String("path", path))
	if err := os.Mkdir(path, dirMode); err != nil {
		if !errors.Is(err, os.ErrExist) {
			_ = m.release(path)
			return nil, services.Wrap(services.ErrConfiguration, "workspace", "create", path, err)
		}
		logger.Info("working directory already exists, cleaning up", logging.String("path", path))
		if err := os.RemoveAll(path); err != nil {
			_ = m.release(path)
			return nil, services.Wrap(services.ErrConfiguration, "workspace", "remove stale", path, err)
		}
		if err := os.MkdirAll(path, dirMode); err != nil {
			_ = m.release(path)
			return nil, services.Wrap(services.ErrConfiguration, "workspace", "recreate", path, err)
		}
	}

	return &Workspace{Path: path}, nil
}

// Destroy removes the workspace directory and releases its lock. A missing
// directory is not an error.
func (m *Manager) Destroy(ws *Workspace) error {
	if ws == nil {
		return nil
	}
	err := Remove(ws.Path)
	if unlockErr := m.release(ws.Path); unlockErr != nil && err == nil {
		err = unlockErr
	}
	if err != nil {
		m.logger.Warn("workspace cleanup failed", logging.String("path", ws.Path), logging.Error(err))
	}
	return err
}

// acquire takes the workspace lock. A lock this manager already holds is
// reused, so creating the same workspace twice in one process just resets it.
func (m *Manager) acquire(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[path]; ok {
		return nil
	}
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "workspace", "lock", path, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrBusy, path)
	}
	m.held[path] = lock
	return nil
}

func (m *Manager) release(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.held[path]
	if !ok {
		return nil
	}
	delete(m.held, path)
	return lock.Unlock()
}

// Remove deletes path recursively, tolerating absence.
func Remove(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove workspace %s: %w", path, err)
	}
	return nil
}
