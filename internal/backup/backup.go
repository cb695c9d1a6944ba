// Package backup implements the backup manager (C8): it snapshots files
// before mutation and restores them on failure.
package backup

import (
	"os"
	"sync"

	rperrors "github.com/nagare-go/nagare/internal/errors"
	"github.com/nagare-go/nagare/internal/fileutil"
)

// MaxCapturedFileSize bounds how large a file's original contents the
// manager will hold in memory for restoration.
const MaxCapturedFileSize = 32 << 20 // 32 MiB

// entry records one file's pre-mutation state.
type entry struct {
	// existed is false if the file did not exist before the release; such
	// files are deleted, not restored, on rollback.
	existed bool
	content []byte
	perm    os.FileMode
}

// Manager acquires a scoped lease on every file about to be mutated,
// capturing its original bytes before the first write, and can restore all
// captured files in reverse order of capture. It is owned exclusively by
// the orchestrator for the duration of one release and is not safe to share
// across concurrent releases.
type Manager struct {
	mu    sync.Mutex
	order []string
	files map[string]entry
}

// NewManager creates an empty backup manager.
func NewManager() *Manager {
	return &Manager{files: make(map[string]entry)}
}

// Capture records path's current contents if it has not already been
// captured this release. It is idempotent: calling it twice for the same
// path only captures the first (pre-mutation) state. Call this before the
// first write to path.
func (m *Manager) Capture(path string) error {
	const op = "backup.Capture"

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; ok {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			m.files[path] = entry{existed: false}
			m.order = append(m.order, path)
			return nil
		}
		return rperrors.IOWrap(err, op, "failed to stat file before backup")
	}

	content, err := fileutil.ReadFileLimited(path, MaxCapturedFileSize)
	if err != nil {
		return rperrors.IOWrap(err, op, "failed to read file before backup")
	}

	m.files[path] = entry{existed: true, content: content, perm: info.Mode().Perm()}
	m.order = append(m.order, path)
	return nil
}

// Tracked reports whether path has a captured pre-mutation state.
func (m *Manager) Tracked(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

// Release drops all captured state without restoring anything, called on
// successful completion of a release.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = make(map[string]entry)
	m.order = nil
}

// RestoreAll writes every captured file's original bytes back, in reverse
// order of capture, and deletes files that did not exist before the
// release. It is best-effort: it attempts every entry and returns the
// first error encountered only after attempting the rest, so a failure
// restoring one file does not prevent restoring the others.
func (m *Manager) RestoreAll() error {
	const op = "backup.RestoreAll"

	m.mu.Lock()
	order := make([]string, len(m.order))
	copy(order, m.order)
	files := make(map[string]entry, len(m.files))
	for k, v := range m.files {
		files[k] = v
	}
	m.mu.Unlock()

	var firstErr error
	for i := len(order) - 1; i >= 0; i-- {
		path := order[i]
		e := files[path]

		var err error
		if e.existed {
			err = fileutil.AtomicWriteFile(path, e.content, e.perm)
		} else {
			err = os.Remove(path)
			if os.IsNotExist(err) {
				err = nil
			}
		}

		if err != nil && firstErr == nil {
			firstErr = rperrors.IOWrap(err, op, "failed to restore "+path)
		}
	}

	m.Release()
	return firstErr
}

// CapturedPaths returns the paths currently tracked, in capture order.
func (m *Manager) CapturedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
