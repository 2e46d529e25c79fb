package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jotbook-dev/jotbook/internal/config"
	"github.com/jotbook-dev/jotbook/internal/gitops"
	"github.com/jotbook-dev/jotbook/internal/keywords"
	"github.com/jotbook-dev/jotbook/internal/model"
	"github.com/jotbook-dev/jotbook/internal/store/sqlite"
)

func newInitCommand() *cobra.Command {
	var author string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new jotbook project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, author, noGit)
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "author name stamped on shared records (default: $USER)")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git setup for the share directory")

	return cmd
}

func runInit(dir, author string, noGit bool) error {
	if author == "" {
		author = os.Getenv("USER")
	}
	if author == "" {
		author = model.DefaultAuthor
	}

	cfg := config.Default(author)
	if noGit {
		cfg.Git.AutoCommit = false
	}

	// Create directory structure.
	for _, d := range []string{cfg.Data.Dir, cfg.Share.Dir, "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write jotbook.yaml.
	if err := config.Save(filepath.Join(dir, config.Filename), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the default keyword catalog.
	if err := keywords.Default().Save(filepath.Join(dir, cfg.KeywordsPath())); err != nil {
		return fmt.Errorf("writing keyword catalog: %w", err)
	}

	// Create the record database up front so the first add doesn't pay
	// the migration cost.
	repo, err := sqlite.New(filepath.Join(dir, cfg.DBPath()))
	if err != nil {
		return fmt.Errorf("creating record database: %w", err)
	}
	if err := repo.Close(); err != nil {
		return fmt.Errorf("closing record database: %w", err)
	}

	// Write .gitignore. Only the share directory is meant to be versioned.
	gitignore := cfg.Data.Dir + "/\nlogs/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Initialize git for the share directory and create the first commit.
	if cfg.Git.AutoCommit {
		shareDir := filepath.Join(dir, cfg.Share.Dir)
		if err := gitops.Init(shareDir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		if err := os.WriteFile(filepath.Join(shareDir, ".gitkeep"), []byte{}, 0o644); err != nil {
			return fmt.Errorf("writing .gitkeep: %w", err)
		}
		if _, err := gitops.CommitAll(shareDir, "init: share store", cfg.Git.AuthorName, cfg.Git.AuthorEmail); err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
	}

	fmt.Printf("Initialized jotbook project at %s\n", dir)
	return nil
}
