// Package plan turns a scan report into an ordered, conflict-free
// reorganization plan. The planner never touches the filesystem; it is
// pure computation over the report, which is what makes dry-run real.
package plan

import (
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/classify"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
)

// Planner builds reorganization plans.
type Planner struct {
	classifier *classify.Classifier
	logger     zerolog.Logger
}

// New builds a planner over the given classifier.
func New(classifier *classify.Classifier, logger zerolog.Logger) *Planner {
	return &Planner{classifier: classifier, logger: logger}
}

// Build produces the plan for one scan report. Operations come out
// sorted by source path and the plan timestamp is taken from the
// report, so two plans over the same report are byte-identical when
// serialized.
//
// Every record that is not already inside its room gets a
// classification move; every redundant duplicate gets a dedup-cleanup
// move into quarantine instead. Nothing is ever deleted.
func (p *Planner) Build(report *core.ScanReport) *core.Plan {
	redundant := make(map[string]bool)
	for _, group := range report.Duplicates {
		for _, path := range group.Redundant {
			redundant[path] = true
		}
	}

	// Destinations must not collide with each other or with any path
	// the report knows about. Paths unknown to the report (inside the
	// excluded sorted tree) are the executor's problem; it
	// re-disambiguates on the fly.
	taken := make(map[string]bool, len(report.Files))
	for _, rec := range report.Files {
		taken[rec.Path] = true
	}

	records := make([]core.FileRecord, len(report.Files))
	copy(records, report.Files)
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })

	var ops []core.MoveOperation
	for _, rec := range records {
		name := filepath.Base(rec.Path)

		if redundant[rec.Path] {
			dest := disambiguate(filepath.Join(core.QuarantineRoot(report.Root), name), taken)
			taken[dest] = true
			ops = append(ops, core.MoveOperation{
				Source: rec.Path,
				Dest:   dest,
				Reason: core.ReasonDedupCleanup,
			})
			continue
		}

		room := p.classifier.RoomForRecord(rec)
		roomDir := core.RoomDir(report.Root, room)
		if filepath.Dir(rec.Path) == roomDir {
			continue
		}
		dest := disambiguate(filepath.Join(roomDir, name), taken)
		taken[dest] = true
		ops = append(ops, core.MoveOperation{
			Source: rec.Path,
			Dest:   dest,
			Reason: core.ReasonClassification,
			Room:   room,
		})
	}

	p.logger.Debug().
		Str("root", report.Root).
		Int("files", len(report.Files)).
		Int("moves", len(ops)).
		Msg("plan built")

	return &core.Plan{
		Root:      report.Root,
		CreatedAt: report.ScannedAt,
		Ops:       ops,
		Report:    report,
	}
}

func disambiguate(dest string, taken map[string]bool) string {
	return core.DisambiguatePath(dest, func(p string) bool { return taken[p] })
}
