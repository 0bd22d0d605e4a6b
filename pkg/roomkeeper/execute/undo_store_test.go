package execute_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/execute"
)

func TestUndoStore(t *testing.T) {
	root := t.TempDir()
	store := execute.NewUndoStore(root)

	record := &core.UndoRecord{
		ID:        "test-run",
		Root:      root,
		CreatedAt: time.Now().Truncate(time.Second),
		Moves: []core.UndoMove{
			{Current: "/r/_Sorted/Docs/a.txt", Original: "/r/a.txt", Completed: true},
			{Current: "/r/_Sorted/Docs/b.txt", Original: "/r/b.txt"},
		},
	}

	t.Run("round-trips through disk", func(t *testing.T) {
		if err := store.Save(record); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		loaded, err := store.Load("test-run")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.ID != record.ID || loaded.Root != record.Root {
			t.Errorf("loaded %+v", loaded)
		}
		if len(loaded.Moves) != 2 || loaded.Moves[0] != record.Moves[0] {
			t.Errorf("moves = %+v", loaded.Moves)
		}
		// Ordered pairs, and only completed entries count for reversal.
		completed := loaded.CompletedMoves()
		if len(completed) != 1 || completed[0].Original != "/r/a.txt" {
			t.Errorf("completed = %+v", completed)
		}
	})

	t.Run("lists and consumes", func(t *testing.T) {
		ids, err := store.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != "test-run" {
			t.Fatalf("ids = %v", ids)
		}
		if err := store.Consume("test-run"); err != nil {
			t.Fatalf("Consume failed: %v", err)
		}
		if _, err := store.Load("test-run"); err == nil {
			t.Fatal("expected Load to fail after Consume")
		}
	})

	t.Run("listing orders by creation time, not by ID", func(t *testing.T) {
		store := execute.NewUndoStore(t.TempDir())
		now := time.Now().Truncate(time.Second)
		// The older run's random ID sorts lexicographically after
		// the newer one's; creation time must still win.
		older := &core.UndoRecord{
			ID:        "fffe0000-0000-4000-8000-000000000000",
			CreatedAt: now.Add(-time.Hour),
		}
		newer := &core.UndoRecord{
			ID:        "00000000-0000-4000-8000-000000000001",
			CreatedAt: now,
		}
		for _, r := range []*core.UndoRecord{older, newer} {
			if err := store.Save(r); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
		}

		ids, err := store.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(ids) != 2 {
			t.Fatalf("ids = %v", ids)
		}
		if ids[0] != older.ID || ids[1] != newer.ID {
			t.Fatalf("ids = %v, want oldest first, most recent last", ids)
		}
	})

	t.Run("empty state dir lists nothing", func(t *testing.T) {
		ids, err := execute.NewUndoStore(t.TempDir()).List()
		if err != nil || len(ids) != 0 {
			t.Fatalf("ids = %v, err = %v", ids, err)
		}
	})
}
