package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/classify"
)

// Build-time metadata, overridden via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	verbosity int
	logLevel  string
	rulesFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roomkeeper",
	Short: "A directory reorganization tool with a guaranteed undo path",
	Long: `roomkeeper scans a directory tree, classifies every file into a room
(Images, Docs, Code, Media, Archives, Misc), detects duplicate and
oversized files, and moves everything into a _Sorted tree. Every apply
run writes a durable undo record first, so any run can be reversed.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "explicit log level (trace, debug, info, warn, error), overrides -v")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "YAML rules file overriding the built-in room table")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newOrganizeCommand())
	rootCmd.AddCommand(newUndoCommand())
}

// newOrganizer wires flags into an engine instance.
func newOrganizer() (*roomkeeper.Organizer, error) {
	var level zerolog.Level
	switch verbosity {
	case 0:
		level = zerolog.WarnLevel
	case 1:
		level = zerolog.InfoLevel
	default:
		level = zerolog.DebugLevel
	}
	if logLevel != "" {
		parsed, err := roomkeeper.LogLevelFromString(logLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		level = parsed
	}
	logger := roomkeeper.NewLogger(os.Stderr, level)

	rules := classify.DefaultRuleset()
	if rulesFile != "" {
		var err error
		rules, err = classify.LoadRuleset(rulesFile)
		if err != nil {
			return nil, err
		}
	}
	return roomkeeper.New(
		roomkeeper.WithLogger(logger),
		roomkeeper.WithRules(rules),
	), nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of roomkeeper`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("roomkeeper version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
