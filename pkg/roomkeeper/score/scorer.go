// Package score derives the gamified summary from a scan report and
// an optional execution result. Pure aggregation: no side effects, no
// error modes.
package score

import (
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
)

// Experience weights per counted item.
const (
	xpPerMove      = 10
	xpPerDuplicate = 25
	xpPerTreasure  = 50
	xpPerBehemoth  = 15
)

// rankThresholds is the fixed monotonic ladder over the experience
// score.
var rankThresholds = []struct {
	min  int
	rank string
}{
	{1000, "S"},
	{500, "A"},
	{250, "B"},
	{100, "C"},
	{0, "D"},
}

// Summarize computes the summary for one scan and, when non-nil, the
// execution that followed it. With no result, reclaimable bytes and
// progress describe what an apply run would achieve.
func Summarize(report *core.ScanReport, plan *core.Plan, result *core.ExecutionResult) core.ScoreSummary {
	s := core.ScoreSummary{
		TreasuresFound: len(report.Treasures),
		BehemothsFound: len(report.Behemoths),
		RelicsFound:    len(report.Relics),
	}
	for _, group := range report.Duplicates {
		s.DuplicatesFound += len(group.Redundant)
	}

	planned := 0
	if plan != nil {
		planned = len(plan.Ops)
	}
	if result != nil && result.Mode == core.ModeApply {
		// Reclaimed: bytes of redundant copies actually quarantined.
		s.FilesOrganized = result.Applied
		sizes := make(map[string]int64, len(report.Files))
		for _, rec := range report.Files {
			sizes[rec.Path] = rec.Size
		}
		for _, out := range result.Outcomes {
			if out.Op.Reason == core.ReasonDedupCleanup && out.Status == core.StatusApplied {
				s.BytesReclaimed += sizes[out.Op.Source]
			}
		}
	} else {
		// Reclaimable: what an apply run would free up.
		s.FilesOrganized = planned
		for _, group := range report.Duplicates {
			s.BytesReclaimed += group.Size * int64(len(group.Redundant))
		}
	}

	if planned == 0 {
		s.Progress = 100
	} else {
		s.Progress = s.FilesOrganized * 100 / planned
	}

	s.Experience = s.FilesOrganized*xpPerMove +
		s.DuplicatesFound*xpPerDuplicate +
		s.TreasuresFound*xpPerTreasure +
		s.BehemothsFound*xpPerBehemoth
	s.Rank = rankFor(s.Experience)
	return s
}

func rankFor(xp int) string {
	for _, t := range rankThresholds {
		if xp >= t.min {
			return t.rank
		}
	}
	return "D"
}
