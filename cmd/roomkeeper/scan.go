package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
)

func newScanCommand() *cobra.Command {
	var (
		flat   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan a directory and report rooms, duplicates, and behemoths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := newOrganizer()
			if err != nil {
				return err
			}
			report, err := org.Scan(cmd.Context(), args[0], !flat)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(report)
			summary := org.Score(report, org.PlanFromReport(report), nil)
			printSummary(summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "do not descend into subfolders")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full report as JSON")
	return cmd
}

func printReport(report *core.ScanReport) {
	bold := color.New(color.Bold)
	bold.Printf("%s — %d files, %s\n", report.Root, len(report.Files), humanize.IBytes(uint64(report.TotalSize)))

	for _, room := range core.Rooms() {
		stats, ok := report.RoomStats[room]
		if !ok {
			continue
		}
		fmt.Printf("  %-10s %4d files  %10s", room, stats.Count, humanize.IBytes(uint64(stats.Bytes)))
		if stats.Treasures > 0 {
			color.Yellow("  %d treasure(s)", stats.Treasures)
		} else {
			fmt.Println()
		}
	}

	if len(report.Duplicates) > 0 {
		color.Red("duplicate groups: %d", len(report.Duplicates))
		for _, g := range report.Duplicates {
			fmt.Printf("  keep %s  (%d redundant, %s each)\n", g.Keeper, len(g.Redundant), humanize.IBytes(uint64(g.Size)))
		}
	}
	if len(report.Behemoths) > 0 {
		color.Red("behemoths: %d", len(report.Behemoths))
		for _, b := range report.Behemoths {
			fmt.Printf("  %s (%s)\n", b.Path, humanize.IBytes(uint64(b.Size)))
		}
	}
	if len(report.Skipped) > 0 {
		fmt.Printf("skipped %d unreadable entries\n", len(report.Skipped))
	}
}

func printSummary(s core.ScoreSummary) {
	fmt.Printf("rank %s  (%d XP, %d%% organized, %s reclaimable)\n",
		s.Rank, s.Experience, s.Progress, humanize.IBytes(uint64(s.BytesReclaimed)))
}
