package execute

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
)

// Undo reverses a persisted apply run: every completed move is played
// back in reverse order, returning each file to its original path.
// Files the record does not mention are never touched. A fully
// reversed record is consumed from the store.
func (e *Executor) Undo(ctx context.Context, record *core.UndoRecord) (*core.ExecutionResult, error) {
	lock, err := acquireRootLock(record.Root)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.release(); err != nil {
			e.logger.Warn().Err(err).Msg("failed to release apply lock")
		}
	}()

	start := time.Now()
	moves := record.CompletedMoves()
	result := &core.ExecutionResult{Mode: core.ModeApply}

	e.logger.Info().
		Str("undo_id", record.ID).
		Int("moves", len(moves)).
		Msg("starting undo run")

	for i := len(moves) - 1; i >= 0; i-- {
		if ctxErr := ctx.Err(); ctxErr != nil {
			for j := i; j >= 0; j-- {
				result.Skipped++
				result.Outcomes = append(result.Outcomes, core.OpOutcome{
					Op:     reverseOp(moves[j]),
					Status: core.StatusSkipped,
					Cause:  "run canceled",
				})
			}
			break
		}

		op := reverseOp(moves[i])
		outcome := e.undoOne(op)
		switch outcome.Status {
		case core.StatusApplied:
			result.Applied++
		case core.StatusSkipped:
			result.Skipped++
		case core.StatusFailed:
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	result.Duration = time.Since(start)

	if result.Failed == 0 && result.Skipped == 0 {
		store := NewUndoStore(record.Root)
		if err := store.Consume(record.ID); err != nil {
			e.logger.Warn().Err(err).Str("undo_id", record.ID).Msg("failed to consume undo record")
		}
	}

	e.logger.Info().
		Str("undo_id", record.ID).
		Int("applied", result.Applied).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("undo run complete")
	return result, nil
}

func reverseOp(m core.UndoMove) core.MoveOperation {
	return core.MoveOperation{Source: m.Current, Dest: m.Original, Reason: core.ReasonUndo}
}

func (e *Executor) undoOne(op core.MoveOperation) core.OpOutcome {
	if _, err := e.fs.Stat(op.Source); err != nil {
		if os.IsNotExist(err) {
			return core.OpOutcome{Op: op, Status: core.StatusSkipped, Cause: "moved file vanished"}
		}
		return core.OpOutcome{Op: op, Status: core.StatusFailed, Cause: err.Error()}
	}
	if _, err := e.fs.Stat(op.Dest); err == nil {
		return core.OpOutcome{Op: op, Status: core.StatusFailed, Cause: "original path occupied"}
	}
	if err := e.fs.MkdirAll(filepath.Dir(op.Dest), 0o755); err != nil {
		return core.OpOutcome{Op: op, Status: core.StatusFailed, Cause: err.Error()}
	}
	if err := e.fs.Rename(op.Source, op.Dest); err != nil {
		return core.OpOutcome{Op: op, Status: core.StatusFailed, Cause: err.Error()}
	}
	return core.OpOutcome{Op: op, Status: core.StatusApplied, Dest: op.Dest}
}
