// Package roomkeeper organizes a directory tree into categorized
// rooms, detects duplicate and oversized files, and applies or
// previews the reorganization with a durable undo record.
//
// The pipeline is Scan -> Plan -> Execute, with Score as a read-only
// summary over any of the intermediate artifacts. Scanning and hashing
// parallelize over a bounded pool; planning is pure and deterministic;
// applying is strictly sequential with a per-root exclusive lock.
package roomkeeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/classify"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/execute"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/fingerprint"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/fsys"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/plan"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/scan"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/score"
)

// Option configures an Organizer.
type Option func(*Organizer)

// WithLogger replaces the default logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Organizer) { o.logger = logger }
}

// WithRules replaces the built-in classification ruleset.
func WithRules(rules *classify.Ruleset) Option {
	return func(o *Organizer) { o.rules = rules }
}

// WithHashWorkers bounds the hashing pool.
func WithHashWorkers(n int) Option {
	return func(o *Organizer) { o.hashWorkers = n }
}

// WithFileSystem replaces the OS filesystem, for tests.
func WithFileSystem(fs fsys.FileSystem) Option {
	return func(o *Organizer) { o.fs = fs }
}

// Organizer is the engine facade. One instance is safe for concurrent
// scans and plans; apply runs against one root are serialized by the
// executor's lock.
type Organizer struct {
	fs          fsys.FileSystem
	rules       *classify.Ruleset
	logger      zerolog.Logger
	hashWorkers int
}

// New builds an organizer with the default OS filesystem and rules.
func New(opts ...Option) *Organizer {
	o := &Organizer{
		fs:          fsys.NewOSFileSystem(),
		rules:       classify.DefaultRuleset(),
		logger:      DefaultLogger(),
		hashWorkers: fingerprint.DefaultWorkers,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Scan walks root and returns the full report: inventory, duplicate
// groups, behemoths, treasures, relics, and per-room aggregates.
func (o *Organizer) Scan(ctx context.Context, root string, includeSubfolders bool) (*core.ScanReport, error) {
	scanner := scan.New(o.fs, o.logger)
	inv, err := scanner.Scan(ctx, root, includeSubfolders)
	if err != nil {
		return nil, err
	}

	fp := fingerprint.New(o.fs, o.hashWorkers, o.logger)
	fpRes, err := fp.Fingerprint(ctx, inv.Files, o.rules.BehemothBytes())
	if err != nil {
		return nil, err
	}

	cls := classify.New(o.rules)
	now := time.Now()
	report := &core.ScanReport{
		Root:              root,
		IncludeSubfolders: includeSubfolders,
		ScannedAt:         now,
		Skipped:           append(inv.Skipped, fpRes.Skipped...),
		Duplicates:        fpRes.Duplicates,
		Behemoths:         fpRes.Behemoths,
		RoomStats:         make(map[core.Room]core.RoomStats),
	}

	relicAge := o.rules.RelicAge()
	for _, rec := range inv.Files {
		if hash, ok := fpRes.Hashes[rec.Path]; ok {
			rec.Hash = hash
		}
		report.Files = append(report.Files, rec)
		report.TotalSize += rec.Size

		room := cls.RoomForRecord(rec)
		stats := report.RoomStats[room]
		stats.Count++
		stats.Bytes += rec.Size
		if cls.IsTreasure(rec) {
			report.Treasures = append(report.Treasures, rec.Path)
			stats.Treasures++
		}
		if now.Sub(rec.ModTime) > relicAge {
			report.Relics = append(report.Relics, rec.Path)
			stats.Relics++
		}
		report.RoomStats[room] = stats
	}

	o.logger.Info().
		Str("root", root).
		Int("files", len(report.Files)).
		Int("duplicate_groups", len(report.Duplicates)).
		Int("behemoths", len(report.Behemoths)).
		Int("treasures", len(report.Treasures)).
		Msg("scan complete")
	return report, nil
}

// Plan scans root and derives the reorganization plan.
func (o *Organizer) Plan(ctx context.Context, root string, includeSubfolders bool) (*core.Plan, error) {
	report, err := o.Scan(ctx, root, includeSubfolders)
	if err != nil {
		return nil, err
	}
	return o.PlanFromReport(report), nil
}

// PlanFromReport derives the plan for an already-computed report
// without rescanning.
func (o *Organizer) PlanFromReport(report *core.ScanReport) *core.Plan {
	planner := plan.New(classify.New(o.rules), o.logger)
	return planner.Build(report)
}

// Execute runs a plan in the given mode. Apply mode persists and
// returns the undo record; dry-run mutates nothing and returns a nil
// record.
func (o *Organizer) Execute(ctx context.Context, p *core.Plan, mode core.ExecutionMode) (*core.ExecutionResult, *core.UndoRecord, error) {
	return execute.New(o.fs, o.logger).Execute(ctx, p, mode)
}

// Undo reverses a persisted apply run.
func (o *Organizer) Undo(ctx context.Context, record *core.UndoRecord) (*core.ExecutionResult, error) {
	return execute.New(o.fs, o.logger).Undo(ctx, record)
}

// UndoStore exposes the persisted undo records for a root.
func (o *Organizer) UndoStore(root string) *execute.UndoStore {
	return execute.NewUndoStore(root)
}

// Score summarizes a report and an optional plan/result pair.
func (o *Organizer) Score(report *core.ScanReport, p *core.Plan, result *core.ExecutionResult) core.ScoreSummary {
	return score.Summarize(report, p, result)
}
