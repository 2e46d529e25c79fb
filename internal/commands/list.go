package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotbook-dev/jotbook/internal/model"
)

func newListCommand() *cobra.Command {
	var dir, dateStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(dir)
			if err != nil {
				return err
			}
			defer e.Close()
			return runList(cmd.Context(), e, dateStr)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&dateStr, "date", "", "only records on this day (YYYY-MM-DD)")

	return cmd
}

func runList(ctx context.Context, e *env, dateStr string) error {
	var (
		records []model.Record
		err     error
	)
	if dateStr == "" {
		records, err = e.repo.All(ctx)
	} else {
		var day time.Time
		day, err = time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			return fmt.Errorf("parsing --date: %w", err)
		}
		records, err = e.repo.ForDate(ctx, day)
	}
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("no records")
		return nil
	}
	for i := range records {
		fmt.Println(formatRecord(&records[i]))
	}
	fmt.Printf("%d record(s)\n", len(records))
	return nil
}

// formatRecord renders one line per record: when, category, amount,
// title, plus group and short id tags.
func formatRecord(rec *model.Record) string {
	when := rec.OccursAt.Format("2006-01-02 15:04")
	amount := "-"
	if rec.Amount != nil {
		amount = rec.Amount.String()
	}
	line := fmt.Sprintf("%s  %-13s %8s  %s", when, rec.Category, amount, rec.Title)
	if rec.GroupID != "" {
		line += fmt.Sprintf("  [%s x%d]", rec.GroupID, rec.ShareSize)
	}
	return line + "  (" + shortID(rec.ID) + ")"
}

func shortID(recordID string) string {
	if len(recordID) > 8 {
		return recordID[:8]
	}
	return recordID
}
