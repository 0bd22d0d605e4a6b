package score_test

import (
	"testing"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/score"
)

func TestSummarize(t *testing.T) {
	t.Run("empty report is rank D at full progress", func(t *testing.T) {
		s := score.Summarize(&core.ScanReport{}, &core.Plan{}, nil)
		if s.Experience != 0 || s.Rank != "D" {
			t.Errorf("summary = %+v", s)
		}
		// An empty plan is success, not a failure to report.
		if s.Progress != 100 {
			t.Errorf("progress = %d, want 100", s.Progress)
		}
	})

	t.Run("counts weigh into experience", func(t *testing.T) {
		report := &core.ScanReport{
			Treasures: []string{"/r/invoice.pdf"},
			Behemoths: []core.BehemothFlag{{Path: "/r/video.mp4", Size: 300 << 20}},
			Duplicates: []core.DuplicateGroup{{
				Size: 1000, Keeper: "/r/a.bin", Redundant: []string{"/r/b.bin", "/r/c.bin"},
			}},
		}
		plan := &core.Plan{Ops: make([]core.MoveOperation, 4)}

		s := score.Summarize(report, plan, nil)
		if s.DuplicatesFound != 2 {
			t.Errorf("duplicates = %d, want 2", s.DuplicatesFound)
		}
		if s.BytesReclaimed != 2000 {
			t.Errorf("reclaimable = %d, want 2000", s.BytesReclaimed)
		}
		// 4 moves + 2 dup copies + 1 treasure + 1 behemoth.
		want := 4*10 + 2*25 + 1*50 + 1*15
		if s.Experience != want {
			t.Errorf("experience = %d, want %d", s.Experience, want)
		}
		if s.Rank != "C" {
			t.Errorf("rank = %s, want C", s.Rank)
		}
	})

	t.Run("apply results drive organized count and reclaimed bytes", func(t *testing.T) {
		report := &core.ScanReport{
			Files: []core.FileRecord{
				{Path: "/r/a.bin", Size: 500},
				{Path: "/r/b.bin", Size: 500},
			},
			Duplicates: []core.DuplicateGroup{{
				Size: 500, Keeper: "/r/a.bin", Redundant: []string{"/r/b.bin"},
			}},
		}
		dedup := core.MoveOperation{Source: "/r/b.bin", Dest: "/q/b.bin", Reason: core.ReasonDedupCleanup}
		class := core.MoveOperation{Source: "/r/a.bin", Dest: "/s/a.bin", Reason: core.ReasonClassification}
		plan := &core.Plan{Ops: []core.MoveOperation{class, dedup}}
		result := &core.ExecutionResult{
			Mode:    core.ModeApply,
			Applied: 1,
			Failed:  1,
			Outcomes: []core.OpOutcome{
				{Op: class, Status: core.StatusFailed},
				{Op: dedup, Status: core.StatusApplied},
			},
		}

		s := score.Summarize(report, plan, result)
		if s.FilesOrganized != 1 {
			t.Errorf("organized = %d, want 1", s.FilesOrganized)
		}
		if s.BytesReclaimed != 500 {
			t.Errorf("reclaimed = %d, want 500", s.BytesReclaimed)
		}
		if s.Progress != 50 {
			t.Errorf("progress = %d, want 50", s.Progress)
		}
	})

	t.Run("rank ladder is monotonic", func(t *testing.T) {
		cases := []struct {
			treasures int
			want      string
		}{
			{0, "D"},  // 0 xp
			{2, "C"},  // 100 xp
			{5, "B"},  // 250 xp
			{10, "A"}, // 500 xp
			{20, "S"}, // 1000 xp
		}
		for _, tc := range cases {
			report := &core.ScanReport{Treasures: make([]string, tc.treasures)}
			s := score.Summarize(report, nil, nil)
			if s.Rank != tc.want {
				t.Errorf("%d treasures: rank = %s, want %s", tc.treasures, s.Rank, tc.want)
			}
		}
	})
}
