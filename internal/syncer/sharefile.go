package syncer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jotbook-dev/jotbook/internal/model"
)

// GroupEntry is one group's slice of the share file: the shared records,
// the ids deleted from the group, and the time of the last merge.
type GroupEntry struct {
	Events     []model.Record `json:"events"`
	DeletedIDs []string       `json:"deletedIds"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// ShareFile reads and writes the group store: a single JSON file mapping
// group id to GroupEntry. It stands in for a sync server, so its format
// is treated as a wire format — decode→encode round-trips exactly.
type ShareFile struct {
	path string
}

// NewShareFile creates a ShareFile stored at path.
func NewShareFile(path string) *ShareFile {
	return &ShareFile{path: path}
}

// Path returns the location of the backing file.
func (f *ShareFile) Path() string {
	return f.path
}

// Load reads the group store. The returned map is always usable: a
// missing, unreadable or corrupt file degrades to an empty store, with
// the error returned alongside so callers can log the degradation.
func (f *ShareFile) Load() (map[string]*GroupEntry, error) {
	groups := map[string]*GroupEntry{}

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return groups, nil
	}
	if err != nil {
		return groups, fmt.Errorf("reading share file: %w", err)
	}
	if err := json.Unmarshal(data, &groups); err != nil {
		return map[string]*GroupEntry{}, fmt.Errorf("decoding share file: %w", err)
	}
	return groups, nil
}

// Save writes the group store atomically via a temp file and rename, so
// an interrupted write never leaves a half-written store behind. Events
// and deletion sets are sorted to keep the encoding canonical.
func (f *ShareFile) Save(groups map[string]*GroupEntry) error {
	for _, entry := range groups {
		if entry.Events == nil {
			entry.Events = []model.Record{}
		}
		if entry.DeletedIDs == nil {
			entry.DeletedIDs = []string{}
		}
		sort.Slice(entry.Events, func(i, j int) bool {
			return entry.Events[i].ID < entry.Events[j].ID
		})
		sort.Strings(entry.DeletedIDs)
	}

	data, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding share file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating share dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing share file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing share file: %w", err)
	}
	return nil
}
