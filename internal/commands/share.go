package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotbook-dev/jotbook/internal/id"
	"github.com/jotbook-dev/jotbook/internal/model"
)

func newShareCommand() *cobra.Command {
	var (
		dir   string
		group string
		size  int
		split string
	)

	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Mark a record as shared with a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dir)
			if err != nil {
				return err
			}
			defer e.Close()
			return runShare(cmd.Context(), e, args[0], group, size, split)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&group, "group", "", "group id (required)")
	_ = cmd.MarkFlagRequired("group")
	cmd.Flags().IntVar(&size, "size", 2, "number of people sharing")
	cmd.Flags().StringVar(&split, "split", string(model.SplitEqual), "split method")

	return cmd
}

func runShare(ctx context.Context, e *env, key, group string, size int, split string) error {
	gid, err := id.ParseGroupID(group)
	if err != nil {
		return err
	}
	method := model.SplitMethod(split)
	if !method.Valid() {
		return fmt.Errorf("unknown split method %q", split)
	}
	if size < 2 {
		return fmt.Errorf("share size must be at least 2")
	}

	rec, err := resolveRecord(ctx, e.repo, key)
	if err != nil {
		return err
	}

	rec.GroupID = gid
	rec.ShareSize = size
	rec.SplitMethod = method
	rec.SyncStatus = model.StatusPendingUpload
	rec.UpdatedAt = time.Now()

	ok, err := e.repo.Update(ctx, rec)
	if err != nil {
		return fmt.Errorf("updating record: %w", err)
	}
	if !ok {
		return fmt.Errorf("record %s disappeared", rec.ID)
	}

	fmt.Printf("shared %s with %s (size %d, %s)\n", shortID(rec.ID), gid, size, method)
	return nil
}
