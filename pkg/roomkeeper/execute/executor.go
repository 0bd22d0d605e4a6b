// Package execute applies reorganization plans. Apply mode holds an
// exclusive per-root lock, runs strictly in plan order, and durably
// logs each reverse operation before performing the forward move, so
// a crash at any point leaves an undo record that reverses exactly
// what was moved.
package execute

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/fsys"
)

// Executor runs plans against a filesystem.
type Executor struct {
	fs     fsys.FileSystem
	logger zerolog.Logger
}

// New builds an executor over the given filesystem.
func New(fs fsys.FileSystem, logger zerolog.Logger) *Executor {
	return &Executor{fs: fs, logger: logger}
}

// Execute runs the plan in the given mode. Dry-run performs zero
// filesystem mutation and returns a nil undo record. Apply returns
// the finalized undo record, already persisted under the root's state
// directory.
func (e *Executor) Execute(ctx context.Context, plan *core.Plan, mode core.ExecutionMode) (*core.ExecutionResult, *core.UndoRecord, error) {
	switch mode {
	case core.ModeDryRun:
		return e.dryRun(plan), nil, nil
	case core.ModeApply:
		return e.apply(ctx, plan)
	default:
		return nil, nil, &core.ConfigError{Reason: "unknown execution mode " + string(mode)}
	}
}

func (e *Executor) dryRun(plan *core.Plan) *core.ExecutionResult {
	start := time.Now()
	result := &core.ExecutionResult{Mode: core.ModeDryRun}
	for _, op := range plan.Ops {
		result.Outcomes = append(result.Outcomes, core.OpOutcome{
			Op:     op,
			Status: core.StatusWouldApply,
			Dest:   op.Dest,
		})
	}
	result.Duration = time.Since(start)
	return result
}

func (e *Executor) apply(ctx context.Context, plan *core.Plan) (*core.ExecutionResult, *core.UndoRecord, error) {
	lock, err := acquireRootLock(plan.Root)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := lock.release(); err != nil {
			e.logger.Warn().Err(err).Msg("failed to release apply lock")
		}
	}()

	start := time.Now()
	store := NewUndoStore(plan.Root)
	record := &core.UndoRecord{
		ID:        uuid.NewString(),
		Root:      plan.Root,
		CreatedAt: start,
	}
	// The empty record goes to disk before any move is attempted.
	if err := store.Save(record); err != nil {
		return nil, nil, err
	}

	e.logger.Info().
		Str("undo_id", record.ID).
		Str("root", plan.Root).
		Int("operations", len(plan.Ops)).
		Msg("starting apply run")

	result := &core.ExecutionResult{Mode: core.ModeApply}
	for i, op := range plan.Ops {
		if ctxErr := ctx.Err(); ctxErr != nil {
			for _, rest := range plan.Ops[i:] {
				result.Skipped++
				result.Outcomes = append(result.Outcomes, core.OpOutcome{
					Op: rest, Status: core.StatusSkipped, Cause: "run canceled",
				})
			}
			break
		}

		outcome := e.applyOne(op, record, store)
		switch outcome.Status {
		case core.StatusApplied:
			result.Applied++
		case core.StatusSkipped:
			result.Skipped++
		case core.StatusFailed:
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)

		e.logger.Info().
			Str("source", op.Source).
			Str("dest", outcome.Dest).
			Str("reason", string(op.Reason)).
			Str("status", string(outcome.Status)).
			Int("operation_index", i+1).
			Int("total_operations", len(plan.Ops)).
			Msg("operation executed")
	}
	result.Duration = time.Since(start)

	// Final record keeps only the moves that actually happened.
	record.Moves = record.CompletedMoves()
	if err := store.Save(record); err != nil {
		return result, record, err
	}

	e.logger.Info().
		Str("undo_id", record.ID).
		Int("applied", result.Applied).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("apply run complete")
	return result, record, nil
}

// applyOne performs a single move with plan-time state re-validated
// against the live tree. The reverse entry is durable before the
// rename; on failure it is retracted.
func (e *Executor) applyOne(op core.MoveOperation, record *core.UndoRecord, store *UndoStore) core.OpOutcome {
	// Time has passed since planning; a benign external actor may
	// have won a race. Source gone means skip, not fail.
	if _, err := e.fs.Stat(op.Source); err != nil {
		if os.IsNotExist(err) {
			return core.OpOutcome{Op: op, Status: core.StatusSkipped, Cause: "source vanished"}
		}
		return core.OpOutcome{Op: op, Status: core.StatusFailed, Cause: err.Error()}
	}

	// A destination that appeared since planning is re-disambiguated
	// on the fly, never a failure.
	dest := core.DisambiguatePath(op.Dest, func(p string) bool {
		_, err := e.fs.Stat(p)
		return err == nil
	})

	record.Moves = append(record.Moves, core.UndoMove{Current: dest, Original: op.Source})
	if err := store.Save(record); err != nil {
		record.Moves = record.Moves[:len(record.Moves)-1]
		return core.OpOutcome{Op: op, Status: core.StatusFailed, Dest: dest, Cause: "undo record not durable: " + err.Error()}
	}

	if err := e.moveFile(op.Source, dest); err != nil {
		record.Moves = record.Moves[:len(record.Moves)-1]
		if saveErr := store.Save(record); saveErr != nil {
			e.logger.Warn().Err(saveErr).Msg("failed to retract undo entry")
		}
		return core.OpOutcome{Op: op, Status: core.StatusFailed, Dest: dest, Cause: err.Error()}
	}

	record.Moves[len(record.Moves)-1].Completed = true
	if err := store.Save(record); err != nil {
		e.logger.Warn().Err(err).Msg("failed to mark undo entry complete")
	}
	return core.OpOutcome{Op: op, Status: core.StatusApplied, Dest: dest}
}

func (e *Executor) moveFile(source, dest string) error {
	if err := e.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	// Rename only: a cross-device move failing here is reported as a
	// failed operation, and the batch continues.
	return e.fs.Rename(source, dest)
}
