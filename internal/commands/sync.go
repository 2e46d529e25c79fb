package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotbook-dev/jotbook/internal/gitops"
	"github.com/jotbook-dev/jotbook/internal/id"
	"github.com/jotbook-dev/jotbook/internal/prefs"
	"github.com/jotbook-dev/jotbook/internal/syncer"
	"github.com/jotbook-dev/jotbook/internal/synclog"
)

func newSyncCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "sync <group>",
		Short: "Run one reconciliation pass against the group store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dir)
			if err != nil {
				return err
			}
			defer e.Close()
			return runSync(cmd.Context(), e, args[0])
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")

	return cmd
}

func runSync(ctx context.Context, e *env, group string) error {
	gid, err := id.ParseGroupID(group)
	if err != nil {
		return err
	}

	share := syncer.NewShareFile(e.sharePath())
	books := prefs.NewFile(e.prefsPath())
	engine := syncer.New(e.repo, share, books, syncer.WithAuthor(e.cfg.Author))

	res, err := engine.SyncGroup(ctx, gid)
	if err != nil {
		return fmt.Errorf("sync pass: %w", err)
	}
	fmt.Printf("sync %s: merged %d, pushed %d, deleted %d (%s)\n",
		gid, res.Merged, res.Pushed, res.Deleted, res.Duration.Round(time.Millisecond))

	commitHash := ""
	if e.cfg.Git.AutoCommit && gitops.IsRepo(e.shareDir()) {
		commitHash, err = commitShare(e, gid, res)
		if err != nil {
			slog.Warn("share commit failed", "group", gid, "error", err)
		}
	}

	entry := synclog.Entry{
		Timestamp:  time.Now(),
		Group:      gid,
		Merged:     res.Merged,
		Pushed:     res.Pushed,
		Deleted:    res.Deleted,
		Duration:   res.Duration,
		CommitHash: commitHash,
	}
	if err := synclog.Append(e.dir, []synclog.Entry{entry}); err != nil {
		slog.Warn("failed to write sync log", "error", err)
	}

	return nil
}

// commitShare commits the share directory after a pass that changed it.
// An idempotent pass rewrites identical bytes and is skipped.
func commitShare(e *env, gid string, res syncer.Result) (string, error) {
	dirty, err := gitops.HasChanges(e.shareDir())
	if err != nil {
		return "", err
	}
	if !dirty {
		return "", nil
	}
	msg := fmt.Sprintf("sync %s: merged %d, pushed %d, deleted %d", gid, res.Merged, res.Pushed, res.Deleted)
	return gitops.CommitAll(e.shareDir(), msg, e.cfg.Git.AuthorName, e.cfg.Git.AuthorEmail)
}
