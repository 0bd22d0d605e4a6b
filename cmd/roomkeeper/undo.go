package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUndoCommand() *cobra.Command {
	var recordID string

	cmd := &cobra.Command{
		Use:   "undo [root]",
		Short: "Reverse a previous apply run",
		Long: `Undo replays a persisted undo record in reverse, returning every
successfully moved file to its original path. Without --id the most
recent record for the root is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := newOrganizer()
			if err != nil {
				return err
			}
			store := org.UndoStore(args[0])

			id := recordID
			if id == "" {
				ids, err := store.List()
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					return fmt.Errorf("no undo records found for %s", args[0])
				}
				// List is oldest first, so the last entry is the
				// most recent apply run.
				id = ids[len(ids)-1]
			}

			record, err := store.Load(id)
			if err != nil {
				return err
			}
			result, err := org.Undo(cmd.Context(), record)
			if err != nil {
				return err
			}
			printOutcomes(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&recordID, "id", "", "undo record ID (defaults to the most recent)")
	return cmd
}
