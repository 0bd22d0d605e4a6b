// Package scan walks a directory tree into an inventory of file
// records. Per-file I/O problems are recorded, not fatal; only an
// unusable root aborts.
package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/fsys"
)

// excludedDirs are never descended into. The sorted tree and the
// engine's own state directory stay invisible to scans, which is what
// makes plan-after-apply come out empty.
var excludedDirs = map[string]bool{
	core.SortedDirName: true,
	core.StateDirName:  true,
}

// excludedFiles are OS metadata files that never make the inventory.
var excludedFiles = map[string]bool{
	".DS_Store":   true,
	"Thumbs.db":   true,
	"desktop.ini": true,
	".directory":  true,
}

// Inventory is the raw output of one walk.
type Inventory struct {
	Files   []core.FileRecord
	Skipped []core.SkippedEntry
}

// Scanner walks directory trees.
type Scanner struct {
	fs     fsys.ReadFS
	logger zerolog.Logger
}

// New builds a scanner over the given filesystem.
func New(fs fsys.ReadFS, logger zerolog.Logger) *Scanner {
	return &Scanner{fs: fs, logger: logger}
}

// Scan walks root and returns every regular file found. Symlinks are
// never followed, so link cycles cannot be traversed; a symlinked
// directory is recorded as skipped. Cancellation is checked once per
// directory entry and returns ctx.Err with no partial inventory.
func (s *Scanner) Scan(ctx context.Context, root string, includeSubfolders bool) (*Inventory, error) {
	root = filepath.Clean(root)
	info, err := s.fs.Stat(root)
	if err != nil {
		return nil, &core.ConfigError{Reason: "root is not accessible", Cause: err}
	}
	if !info.IsDir() {
		return nil, &core.ConfigError{Reason: "root is not a directory"}
	}

	inv := &Inventory{}
	if err := s.walk(ctx, root, includeSubfolders, inv); err != nil {
		return nil, err
	}

	// Stable record order keeps downstream planning deterministic.
	sort.Slice(inv.Files, func(i, j int) bool { return inv.Files[i].Path < inv.Files[j].Path })

	s.logger.Debug().
		Str("root", root).
		Int("files", len(inv.Files)).
		Int("skipped", len(inv.Skipped)).
		Msg("scan walk complete")
	return inv, nil
}

func (s *Scanner) walk(ctx context.Context, dir string, recurse bool, inv *Inventory) error {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		inv.Skipped = append(inv.Skipped, core.SkippedEntry{Path: dir, Cause: err.Error()})
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := entry.Name()
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			if !recurse || excludedDirs[name] {
				continue
			}
			if err := s.walk(ctx, path, recurse, inv); err != nil {
				return err
			}
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			inv.Skipped = append(inv.Skipped, core.SkippedEntry{Path: path, Cause: "symlink not followed"})
			continue
		}
		if !entry.Type().IsRegular() || excludedFiles[name] {
			continue
		}

		fi, err := entry.Info()
		if err != nil {
			// Vanished or unreadable between ReadDir and Info.
			inv.Skipped = append(inv.Skipped, core.SkippedEntry{Path: path, Cause: err.Error()})
			continue
		}
		inv.Files = append(inv.Files, core.FileRecord{
			Path:    path,
			Size:    fi.Size(),
			Ext:     extOf(name),
			ModTime: fi.ModTime(),
		})
	}
	return nil
}

func extOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
