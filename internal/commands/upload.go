package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotbook-dev/jotbook/internal/config"
	"github.com/jotbook-dev/jotbook/internal/id"
	"github.com/jotbook-dev/jotbook/internal/model"
	"github.com/jotbook-dev/jotbook/internal/uploader"
)

func newUploadCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "upload <group>",
		Short: "Send a group's shared records to the remote endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dir)
			if err != nil {
				return err
			}
			defer e.Close()
			return runUpload(cmd.Context(), e, args[0])
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")

	return cmd
}

func runUpload(ctx context.Context, e *env, group string) error {
	gid, err := id.ParseGroupID(group)
	if err != nil {
		return err
	}

	all, err := e.repo.All(ctx)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	var batch []model.Record
	for _, rec := range all {
		if rec.IsShared() && rec.GroupID == gid {
			batch = append(batch, rec)
		}
	}

	up := uploader.New(e.cfg.Upload.Endpoint)
	n, err := up.Upload(ctx, batch, time.Now())
	switch {
	case errors.Is(err, uploader.ErrNoEndpoint):
		return fmt.Errorf("no upload endpoint configured; set upload.endpoint in %s", config.Filename)
	case errors.Is(err, uploader.ErrNothingToUpload):
		fmt.Printf("nothing to upload for %s\n", gid)
		return nil
	case err != nil:
		return fmt.Errorf("uploading %s: %w", gid, err)
	}

	fmt.Printf("uploaded %d record(s) for %s\n", n, gid)
	return nil
}
