package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
)

func newPlanCommand() *cobra.Command {
	var flat bool

	cmd := &cobra.Command{
		Use:   "plan [root]",
		Short: "Preview the moves an organize run would perform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := newOrganizer()
			if err != nil {
				return err
			}
			p, err := org.Plan(cmd.Context(), args[0], !flat)
			if err != nil {
				return err
			}
			result, _, err := org.Execute(cmd.Context(), p, core.ModeDryRun)
			if err != nil {
				return err
			}
			printOutcomes(result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "do not descend into subfolders")
	return cmd
}

func newOrganizeCommand() *cobra.Command {
	var (
		flat       bool
		apply      bool
		scriptPath string
	)

	cmd := &cobra.Command{
		Use:   "organize [root]",
		Short: "Reorganize a directory into its _Sorted rooms",
		Long: `Reorganize moves every scanned file into _Sorted/<Room>/ and every
redundant duplicate into _Sorted/_Quarantine/. Without --apply this is
a dry run. Apply mode writes an undo record under .roomkeeper/ before
touching anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := newOrganizer()
			if err != nil {
				return err
			}
			p, err := org.Plan(cmd.Context(), args[0], !flat)
			if err != nil {
				return err
			}

			mode := core.ModeDryRun
			if apply {
				mode = core.ModeApply
			}
			result, record, err := org.Execute(cmd.Context(), p, mode)
			if err != nil {
				return err
			}
			printOutcomes(result)

			if record != nil {
				fmt.Printf("undo record: %s\n", record.ID)
				if scriptPath != "" {
					if err := writeUndoScript(scriptPath, record); err != nil {
						return err
					}
					fmt.Printf("undo script: %s\n", scriptPath)
				}
			}
			summary := org.Score(p.Report, p, result)
			printSummary(summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "do not descend into subfolders")
	cmd.Flags().BoolVar(&apply, "apply", false, "perform the moves instead of previewing them")
	cmd.Flags().StringVar(&scriptPath, "undo-script", "", "also render the undo record as a shell script")
	return cmd
}

func printOutcomes(result *core.ExecutionResult) {
	for _, out := range result.Outcomes {
		switch out.Status {
		case core.StatusWouldApply:
			fmt.Printf("would move %s -> %s (%s)\n", out.Op.Source, out.Op.Dest, out.Op.Reason)
		case core.StatusApplied:
			color.Green("moved %s -> %s (%s)", out.Op.Source, out.Dest, out.Op.Reason)
		case core.StatusSkipped:
			color.Yellow("skipped %s: %s", out.Op.Source, out.Cause)
		case core.StatusFailed:
			color.Red("failed %s: %s", out.Op.Source, out.Cause)
		}
	}
	if result.Mode == core.ModeApply {
		fmt.Printf("%d applied, %d skipped, %d failed in %s\n",
			result.Applied, result.Skipped, result.Failed, result.Duration.Round(time.Millisecond))
	} else if len(result.Outcomes) == 0 {
		fmt.Println("nothing to do: every file is already in its room")
	}
}

// writeUndoScript renders an undo record as a plain shell script, a
// convenience serialization for reversing a run without roomkeeper.
func writeUndoScript(path string, record *core.UndoRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "#!/bin/sh\n# roomkeeper undo script for run %s\nset -e\n", record.ID)
	moves := record.CompletedMoves()
	for i := len(moves) - 1; i >= 0; i-- {
		m := moves[i]
		fmt.Fprintf(f, "mkdir -p %q\nmv %q %q\n", filepath.Dir(m.Original), m.Current, m.Original)
	}
	return nil
}
