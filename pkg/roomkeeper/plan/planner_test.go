package plan_test

import (
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/classify"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/plan"
)

func newPlanner() *plan.Planner {
	return plan.New(classify.New(classify.DefaultRuleset()), roomkeeper.NewTestLogger(io.Discard, 0))
}

func report(root string, files ...core.FileRecord) *core.ScanReport {
	return &core.ScanReport{Root: root, Files: files}
}

func rec(path string, size int64) core.FileRecord {
	ext := filepath.Ext(path)
	if ext != "" {
		ext = ext[1:]
	}
	return core.FileRecord{Path: path, Size: size, Ext: ext, ModTime: time.Now()}
}

func TestBuild(t *testing.T) {
	root := filepath.FromSlash("/dungeon")

	t.Run("classifies files into their rooms", func(t *testing.T) {
		p := newPlanner().Build(report(root,
			rec(filepath.Join(root, "invoice_2023.pdf"), 1024),
			rec(filepath.Join(root, "photo.png"), 5*1024*1024),
		))
		if len(p.Ops) != 2 {
			t.Fatalf("expected 2 ops, got %d", len(p.Ops))
		}
		// Sorted by source path: invoice before photo.
		if p.Ops[0].Dest != filepath.Join(core.RoomDir(root, core.RoomDocs), "invoice_2023.pdf") {
			t.Errorf("invoice dest = %s", p.Ops[0].Dest)
		}
		if p.Ops[0].Reason != core.ReasonClassification || p.Ops[0].Room != core.RoomDocs {
			t.Errorf("invoice op = %+v", p.Ops[0])
		}
		if p.Ops[1].Dest != filepath.Join(core.RoomDir(root, core.RoomImages), "photo.png") {
			t.Errorf("photo dest = %s", p.Ops[1].Dest)
		}
	})

	t.Run("unknown extension lands in Misc", func(t *testing.T) {
		p := newPlanner().Build(report(root, rec(filepath.Join(root, "data.xyz"), 1)))
		if len(p.Ops) != 1 || p.Ops[0].Room != core.RoomMisc {
			t.Fatalf("expected Misc move, got %+v", p.Ops)
		}
	})

	t.Run("redundant duplicates go to quarantine only", func(t *testing.T) {
		a := rec(filepath.Join(root, "a.bin"), 10)
		b := rec(filepath.Join(root, "b.bin"), 10)
		rep := report(root, a, b)
		rep.Duplicates = []core.DuplicateGroup{{
			Size: 10, Hash: "h", Keeper: a.Path, Redundant: []string{b.Path},
		}}

		p := newPlanner().Build(rep)
		var dedup, classification int
		for _, op := range p.Ops {
			switch op.Reason {
			case core.ReasonDedupCleanup:
				dedup++
				if op.Source != b.Path {
					t.Errorf("quarantined the keeper: %+v", op)
				}
				if filepath.Dir(op.Dest) != core.QuarantineRoot(root) {
					t.Errorf("dedup dest = %s", op.Dest)
				}
			case core.ReasonClassification:
				classification++
				if op.Source != a.Path {
					t.Errorf("keeper should get the classification move: %+v", op)
				}
			}
		}
		if dedup != 1 || classification != 1 {
			t.Fatalf("expected 1 dedup + 1 classification, got %d/%d", dedup, classification)
		}
	})

	t.Run("files already in their room are left alone", func(t *testing.T) {
		p := newPlanner().Build(report(root,
			rec(filepath.Join(core.RoomDir(root, core.RoomDocs), "kept.pdf"), 1),
		))
		if len(p.Ops) != 0 {
			t.Fatalf("expected empty plan, got %+v", p.Ops)
		}
	})

	t.Run("colliding destinations are disambiguated", func(t *testing.T) {
		p := newPlanner().Build(report(root,
			rec(filepath.Join(root, "one", "note.txt"), 1),
			rec(filepath.Join(root, "two", "note.txt"), 2),
			rec(filepath.Join(root, "three", "note.txt"), 3),
		))
		if len(p.Ops) != 3 {
			t.Fatalf("expected 3 ops, got %d", len(p.Ops))
		}
		seen := map[string]bool{}
		for _, op := range p.Ops {
			if seen[op.Dest] {
				t.Fatalf("destination %s used twice", op.Dest)
			}
			seen[op.Dest] = true
		}
		docs := core.RoomDir(root, core.RoomDocs)
		for _, want := range []string{
			filepath.Join(docs, "note.txt"),
			filepath.Join(docs, "note_dup1.txt"),
			filepath.Join(docs, "note_dup2.txt"),
		} {
			if !seen[want] {
				t.Errorf("missing expected destination %s (got %v)", want, seen)
			}
		}
	})

	t.Run("plans over an unchanged report are identical", func(t *testing.T) {
		rep := report(root,
			rec(filepath.Join(root, "b.png"), 2),
			rec(filepath.Join(root, "a.txt"), 1),
		)
		rep.ScannedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		p1 := newPlanner().Build(rep)
		p2 := newPlanner().Build(rep)

		// The whole plan serializes identically, timestamp included:
		// the plan inherits the report's scan time instead of sampling
		// the clock.
		raw1, _ := json.Marshal(p1)
		raw2, _ := json.Marshal(p2)
		if string(raw1) != string(raw2) {
			t.Fatalf("plans differ:\n%s\n%s", raw1, raw2)
		}
		if !p1.CreatedAt.Equal(rep.ScannedAt) {
			t.Errorf("plan CreatedAt = %v, want %v", p1.CreatedAt, rep.ScannedAt)
		}
		if p1.Ops[0].Source > p1.Ops[1].Source {
			t.Error("operations not sorted by source path")
		}
	})
}
