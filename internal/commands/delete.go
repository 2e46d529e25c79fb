package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotbook-dev/jotbook/internal/prefs"
)

func newDeleteCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dir)
			if err != nil {
				return err
			}
			defer e.Close()
			return runDelete(cmd.Context(), e, args[0])
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")

	return cmd
}

func runDelete(ctx context.Context, e *env, key string) error {
	rec, err := resolveRecord(ctx, e.repo, key)
	if err != nil {
		return err
	}

	if _, err := e.repo.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	// A record known to a group must disappear from every replica: queue
	// the id so the next sync pass spreads the deletion through the group
	// store.
	if rec.GroupID != "" {
		books := prefs.NewFile(e.prefsPath())
		if err := books.AddPendingDeletion(rec.GroupID, rec.ID); err != nil {
			return fmt.Errorf("queueing deletion for group %s: %w", rec.GroupID, err)
		}
		fmt.Printf("deleted %s (queued for group %s)\n", shortID(rec.ID), rec.GroupID)
		return nil
	}

	fmt.Printf("deleted %s\n", shortID(rec.ID))
	return nil
}
