// Package state implements the release-state tracker (C9): an append-only
// log of side-effects keyed by a per-release run identifier, sufficient to
// reverse a release during rollback.
package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	rperrors "github.com/nagare-go/nagare/internal/errors"
)

const (
	stateDir        = ".nagare/state"
	stateFileSuffix = ".jsonl"
)

// RunID identifies a single release attempt.
type RunID string

// NewRunID generates a fresh run identifier.
func NewRunID() RunID {
	return RunID(uuid.NewString())
}

// SideEffectKind enumerates the recordable side-effects of a release.
type SideEffectKind string

const (
	KindFileWritten          SideEffectKind = "file_written"
	KindFileCreated          SideEffectKind = "file_created"
	KindCommitMade           SideEffectKind = "commit_made"
	KindTagCreated           SideEffectKind = "tag_created"
	KindPushPerformed        SideEffectKind = "push_performed"
	KindRemoteReleaseCreated SideEffectKind = "remote_release_created"
)

// SideEffect is a single recorded, already-performed action. Only one of
// the fields relevant to Kind is populated; the others are zero.
type SideEffect struct {
	Kind SideEffectKind `json:"kind"`

	// file_written / file_created
	Path      string `json:"path,omitempty"`
	BackupRef string `json:"backup_ref,omitempty"`

	// commit_made
	Hash string `json:"hash,omitempty"`

	// tag_created
	Name   string `json:"name,omitempty"`
	Remote string `json:"remote,omitempty"`

	// push_performed
	Ref string `json:"ref,omitempty"`

	// remote_release_created
	ID  string `json:"id,omitempty"`
	URL string `json:"url,omitempty"`

	RecordedAt time.Time `json:"recorded_at"`
}

// FileWritten records that path was overwritten, with a backup reference
// that can restore its prior contents.
func FileWritten(path, backupRef string) SideEffect {
	return SideEffect{Kind: KindFileWritten, Path: path, BackupRef: backupRef}
}

// FileCreated records that path did not exist before the release.
func FileCreated(path string) SideEffect {
	return SideEffect{Kind: KindFileCreated, Path: path}
}

// CommitMade records the commit created by the release.
func CommitMade(hash string) SideEffect {
	return SideEffect{Kind: KindCommitMade, Hash: hash}
}

// TagCreated records a tag, and the remote it was pushed to if any.
func TagCreated(name, remote string) SideEffect {
	return SideEffect{Kind: KindTagCreated, Name: name, Remote: remote}
}

// PushPerformed records a push of ref to remote.
func PushPerformed(ref, remote string) SideEffect {
	return SideEffect{Kind: KindPushPerformed, Ref: ref, Remote: remote}
}

// RemoteReleaseCreated records a remote forge release entry.
func RemoteReleaseCreated(id, url string) SideEffect {
	return SideEffect{Kind: KindRemoteReleaseCreated, ID: id, URL: url}
}

// Tracker is an append-only, on-disk side-effect log. Recording and the
// side-effect it describes together form one transactional step from the
// caller's point of view: the caller must perform the side-effect and only
// then call Record. A crash between the two leaves the log as if the
// side-effect never happened, which is safe — rollback tolerates a missing
// precondition (e.g. deleting an already-absent tag is a no-op).
type Tracker struct {
	mu       sync.Mutex
	repoRoot string
}

// NewTracker creates a state tracker rooted at repoRoot.
func NewTracker(repoRoot string) *Tracker {
	return &Tracker{repoRoot: repoRoot}
}

func (t *Tracker) dir() string {
	return filepath.Join(t.repoRoot, stateDir)
}

func (t *Tracker) path(id RunID) string {
	return filepath.Join(t.dir(), string(id)+stateFileSuffix)
}

// Record appends effect to the log for id, creating the log file and its
// containing directory if necessary, and fsyncing before returning so the
// entry survives a crash immediately after this call returns.
func (t *Tracker) Record(id RunID, effect SideEffect) error {
	const op = "state.Record"

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.MkdirAll(t.dir(), 0o755); err != nil {
		return rperrors.IOWrap(err, op, "failed to create state directory")
	}

	effect.RecordedAt = time.Now()

	f, err := os.OpenFile(t.path(id), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return rperrors.IOWrap(err, op, "failed to open release state log")
	}
	defer f.Close()

	data, err := json.Marshal(effect)
	if err != nil {
		return rperrors.IOWrap(err, op, "failed to marshal side effect")
	}
	data = append(data, '\n')

	if _, err := f.Write(data); err != nil {
		return rperrors.IOWrap(err, op, "failed to append side effect")
	}
	if err := f.Sync(); err != nil {
		return rperrors.IOWrap(err, op, "failed to sync release state log")
	}

	return nil
}

// Load reads every recorded side-effect for id, oldest first. A missing log
// (no release ever recorded for id) returns an empty, non-error result.
func (t *Tracker) Load(id RunID) ([]SideEffect, error) {
	const op = "state.Load"

	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := os.ReadFile(t.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, rperrors.IOWrap(err, op, "failed to read release state log")
	}

	var effects []SideEffect
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var e SideEffect
		if err := dec.Decode(&e); err != nil {
			return nil, rperrors.IOWrap(err, op, "corrupt release state log entry")
		}
		effects = append(effects, e)
	}

	return effects, nil
}

// LoadReversed returns the recorded side-effects for id in reverse
// (newest-first) order, the order rollback must consume them in.
func (t *Tracker) LoadReversed(id RunID) ([]SideEffect, error) {
	effects, err := t.Load(id)
	if err != nil {
		return nil, err
	}
	reversed := make([]SideEffect, len(effects))
	for i, e := range effects {
		reversed[len(effects)-1-i] = e
	}
	return reversed, nil
}

// FindByTag scans the on-disk logs for the run that created tagName,
// returning its RunID and recorded side-effects. Used by retry, which is
// invoked with only a version string and must recover the original run's
// log to validate what is still safely re-publishable. A log directory
// that doesn't exist yet (nothing has ever released) is reported as "not
// found" rather than an error.
func (t *Tracker) FindByTag(tagName string) (RunID, []SideEffect, error) {
	const op = "state.FindByTag"

	t.mu.Lock()
	entries, err := os.ReadDir(t.dir())
	t.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, rperrors.NotFound(op, "no release state recorded").WithCode(rperrors.CodeVersionNotFound)
		}
		return "", nil, rperrors.IOWrap(err, op, "failed to list release state directory")
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id := RunID(entry.Name()[:len(entry.Name())-len(stateFileSuffix)])
		effects, err := t.Load(id)
		if err != nil {
			continue
		}
		for _, e := range effects {
			if e.Kind == KindTagCreated && e.Name == tagName {
				return id, effects, nil
			}
		}
	}

	return "", nil, rperrors.NotFound(op, fmt.Sprintf("no recorded release found for tag %s", tagName)).WithCode(rperrors.CodeVersionNotFound)
}

// Clear removes the state log for id, called on successful release
// completion (§4.9: "cleared on success").
func (t *Tracker) Clear(id RunID) error {
	const op = "state.Clear"

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.Remove(t.path(id)); err != nil && !os.IsNotExist(err) {
		return rperrors.IOWrap(err, op, fmt.Sprintf("failed to clear release state for %s", id))
	}
	return nil
}
