package execute

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
)

// UndoStore persists undo records as JSON files under the root's
// state directory. Writes are atomic (temp file + rename) so a reader
// never observes a partial record, and the record on disk is always
// at least as current as the last durably-logged move.
type UndoStore struct {
	dir string
}

// NewUndoStore returns the store for one scanned root.
func NewUndoStore(root string) *UndoStore {
	return &UndoStore{dir: core.StateRoot(root)}
}

func (s *UndoStore) path(id string) string {
	return filepath.Join(s.dir, "undo-"+id+".json")
}

// Save durably writes the record, creating the state directory if
// needed.
func (s *UndoStore) Save(record *core.UndoRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state dir %s: %w", s.dir, err)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal undo record %s: %w", record.ID, err)
	}
	return atomicWrite(s.path(record.ID), data)
}

// Load reads one record by ID.
func (s *UndoStore) Load(id string) (*core.UndoRecord, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read undo record %s: %w", id, err)
	}
	var record core.UndoRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse undo record %s: %w", id, err)
	}
	return &record, nil
}

// List returns the IDs of every persisted record ordered oldest to
// newest by creation time, so the last entry is always the most
// recent run. Record IDs are random UUIDs, so name order says nothing
// about age; the ordering comes from each record's CreatedAt.
func (s *UndoStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state dir %s: %w", s.dir, err)
	}
	type dated struct {
		id        string
		createdAt time.Time
	}
	var records []dated
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "undo-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, "undo-"), ".json")
		rec, err := s.Load(id)
		if err != nil {
			// Unreadable records still list, sorted first.
			records = append(records, dated{id: id})
			continue
		}
		records = append(records, dated{id: id, createdAt: rec.CreatedAt})
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].createdAt.Equal(records[j].createdAt) {
			return records[i].createdAt.Before(records[j].createdAt)
		}
		return records[i].id < records[j].id
	})
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.id)
	}
	return ids, nil
}

// Consume removes a record once a reversal has fully applied it.
func (s *UndoStore) Consume(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		return fmt.Errorf("failed to remove undo record %s: %w", id, err)
	}
	return nil
}

// atomicWrite writes data via a temp file in the target directory and
// renames it into place. Rename within one directory is atomic, so an
// interrupted write leaves the previous content intact.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	tmp = nil
	return nil
}
