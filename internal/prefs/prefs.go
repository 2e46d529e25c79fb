// Package prefs persists the small per-group bookkeeping the sync engine
// needs between passes: locally pending deletions and the last sync time.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Bookkeeper is the per-group state contract the sync engine consumes.
type Bookkeeper interface {
	// PendingDeletions returns the record ids deleted locally but not yet
	// propagated for the group.
	PendingDeletions(groupID string) ([]string, error)

	// AddPendingDeletion records a local deletion for propagation on the
	// next pass. Adding the same id twice is a no-op.
	AddPendingDeletion(groupID, recordID string) error

	// ClearPendingDeletions empties the group's deletion set after a pass
	// has propagated it.
	ClearPendingDeletions(groupID string) error

	// LastSync returns when the group last completed a pass; the zero
	// time means never.
	LastSync(groupID string) (time.Time, error)

	// SetLastSync records the completion time of a pass.
	SetLastSync(groupID string, at time.Time) error
}

type groupState struct {
	PendingDeletions []string  `yaml:"pendingDeletions,omitempty"`
	LastSync         time.Time `yaml:"lastSync,omitempty"`
}

type fileState struct {
	Groups map[string]*groupState `yaml:"groups"`
}

// File is a Bookkeeper backed by one YAML file. Every mutation re-reads,
// changes and rewrites the file, so state survives between CLI runs.
type File struct {
	path string
	mu   sync.Mutex
}

var _ Bookkeeper = (*File)(nil)

// NewFile creates a Bookkeeper storing its state at path.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) PendingDeletions(groupID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return nil, err
	}
	g, ok := state.Groups[groupID]
	if !ok {
		return nil, nil
	}
	return slices.Clone(g.PendingDeletions), nil
}

func (f *File) AddPendingDeletion(groupID, recordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	g := state.group(groupID)
	if slices.Contains(g.PendingDeletions, recordID) {
		return nil
	}
	g.PendingDeletions = append(g.PendingDeletions, recordID)
	return f.save(state)
}

func (f *File) ClearPendingDeletions(groupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	g, ok := state.Groups[groupID]
	if !ok || len(g.PendingDeletions) == 0 {
		return nil
	}
	g.PendingDeletions = nil
	return f.save(state)
}

func (f *File) LastSync(groupID string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return time.Time{}, err
	}
	g, ok := state.Groups[groupID]
	if !ok {
		return time.Time{}, nil
	}
	return g.LastSync, nil
}

func (f *File) SetLastSync(groupID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	state.group(groupID).LastSync = at
	return f.save(state)
}

func (s *fileState) group(groupID string) *groupState {
	if g, ok := s.Groups[groupID]; ok {
		return g
	}
	g := &groupState{}
	s.Groups[groupID] = g
	return g
}

func (f *File) load() (*fileState, error) {
	state := &fileState{Groups: map[string]*groupState{}}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading prefs: %w", err)
	}
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing prefs: %w", err)
	}
	if state.Groups == nil {
		state.Groups = map[string]*groupState{}
	}
	return state, nil
}

func (f *File) save(state *fileState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating prefs dir: %w", err)
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling prefs: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("writing prefs: %w", err)
	}
	return nil
}
