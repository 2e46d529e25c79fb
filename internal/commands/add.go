package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotbook-dev/jotbook/internal/aiclient"
	"github.com/jotbook-dev/jotbook/internal/config"
	"github.com/jotbook-dev/jotbook/internal/extract"
	"github.com/jotbook-dev/jotbook/internal/id"
	"github.com/jotbook-dev/jotbook/internal/model"
)

func newAddCommand() *cobra.Command {
	var (
		dir     string
		file    string
		image   string
		dateStr string
		useAI   bool
		group   string
		size    int
		split   string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Extract a record from messy text and store it",
		Long: `Extract a record from messy text and store it.

The text can be pasted chat fragments, OCR output or a quick note; it is
read from the arguments, --file, or stdin, in that order of preference.
With --image a screenshot is sent to the extraction service instead.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRefDate(dateStr)
			if err != nil {
				return err
			}

			e, err := openEnv(dir)
			if err != nil {
				return err
			}
			defer e.Close()

			opts := addOptions{
				useAI:  useAI,
				group:  group,
				size:   size,
				split:  split,
				dryRun: dryRun,
			}

			if image != "" {
				if len(args) > 0 || file != "" {
					return fmt.Errorf("--image cannot be combined with text input")
				}
				return runAddImage(cmd.Context(), e, image, ref, opts)
			}

			text, err := gatherText(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runAdd(cmd.Context(), e, text, ref, opts)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&file, "file", "", "read text from a file instead of arguments")
	cmd.Flags().StringVar(&image, "image", "", "extract from a screenshot via the extraction service")
	cmd.Flags().StringVar(&dateStr, "date", "", "reference date YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&useAI, "ai", false, "reconcile with the configured extraction service")
	cmd.Flags().StringVar(&group, "group", "", "mark the record shared in this group")
	cmd.Flags().IntVar(&size, "size", 2, "share size when --group is set")
	cmd.Flags().StringVar(&split, "split", string(model.SplitEqual), "split method when --group is set")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the extracted record without storing it")

	return cmd
}

type addOptions struct {
	useAI  bool
	group  string
	size   int
	split  string
	dryRun bool
}

func gatherText(args []string, file string, stdin io.Reader) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func parseRefDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --date: %w", err)
	}
	return t, nil
}

func runAdd(ctx context.Context, e *env, text string, ref time.Time, opts addOptions) error {
	engine := extract.NewEngine(extract.WithTable(e.loadTable()))
	rec, ok := engine.Extract(text, ref)
	if !ok {
		fmt.Println("no record detected")
		return nil
	}

	if opts.useAI {
		if merged, ok := aiReconcile(ctx, e.cfg, rec, ref); ok {
			rec = merged
		}
	}

	return storeExtracted(ctx, e, rec, opts)
}

// runAddImage sends a screenshot to the extraction service, then re-runs
// the rule pipeline over the recognized text so the local detectors can
// fill whatever the service left blank. Unlike --ai there is no local
// result to fall back on, so a service failure is an error here.
func runAddImage(ctx context.Context, e *env, path string, ref time.Time, opts addOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	client := newAIClient(e.cfg)
	if !client.Configured() {
		return fmt.Errorf("no extraction service configured; set ai.endpoint and ai.model in %s", config.Filename)
	}
	cand, err := client.ExtractImage(ctx, data, ref)
	if err != nil {
		return fmt.Errorf("extracting from %s: %w", path, err)
	}

	rec := cand.Record
	if cand.RecognizedText != "" {
		engine := extract.NewEngine(extract.WithTable(e.loadTable()))
		if local, ok := engine.Extract(cand.RecognizedText, ref); ok {
			rec = extract.Reconcile(rec, local)
		}
		rec.Notes = cand.RecognizedText
	} else if rec.Title == "" && rec.Amount == nil {
		fmt.Println("no record detected")
		return nil
	}
	return storeExtracted(ctx, e, &rec, opts)
}

// storeExtracted applies the group flags, stamps ownership, and stores
// (or just prints) the finished record.
func storeExtracted(ctx context.Context, e *env, rec *model.Record, opts addOptions) error {
	if opts.group != "" {
		gid, err := id.ParseGroupID(opts.group)
		if err != nil {
			return err
		}
		method := model.SplitMethod(opts.split)
		if !method.Valid() {
			return fmt.Errorf("unknown split method %q", opts.split)
		}
		rec.GroupID = gid
		rec.ShareSize = opts.size
		rec.SplitMethod = method
		rec.SyncStatus = model.StatusPendingUpload
	}

	rec.Author = e.cfg.Author
	rec.UpdatedAt = time.Now()
	rec.Normalize()

	if opts.dryRun {
		fmt.Println(formatRecord(rec))
		return nil
	}

	if err := e.repo.Insert(ctx, rec); err != nil {
		return fmt.Errorf("storing record: %w", err)
	}
	fmt.Printf("added %s\n", formatRecord(rec))
	return nil
}

func newAIClient(cfg *config.Config) *aiclient.Client {
	clientOpts := []aiclient.Option{
		aiclient.WithFallbackModel(cfg.AI.FallbackModel),
	}
	if cfg.AI.TimeoutSeconds > 0 {
		clientOpts = append(clientOpts, aiclient.WithTimeout(time.Duration(cfg.AI.TimeoutSeconds)*time.Second))
	}
	return aiclient.New(cfg.AI.Endpoint, cfg.AI.APIKey(), cfg.AI.Model, clientOpts...)
}

// aiReconcile asks the configured extraction service for a candidate and
// merges it with the local extraction. Failure is never fatal: the local
// result stands on its own.
func aiReconcile(ctx context.Context, cfg *config.Config, local *model.Record, ref time.Time) (*model.Record, bool) {
	client := newAIClient(cfg)

	// The service reads the cleaned text, which Extract left in Notes.
	cand, err := client.ExtractText(ctx, local.Notes, ref)
	if err != nil {
		slog.Warn("extraction service failed, keeping local result", "error", err)
		return nil, false
	}
	merged := extract.Reconcile(cand.Record, local)
	if merged.Notes == "" {
		merged.Notes = local.Notes
	}
	return &merged, true
}
