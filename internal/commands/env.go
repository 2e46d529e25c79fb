package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jotbook-dev/jotbook/internal/config"
	"github.com/jotbook-dev/jotbook/internal/keywords"
	"github.com/jotbook-dev/jotbook/internal/model"
	"github.com/jotbook-dev/jotbook/internal/store"
	"github.com/jotbook-dev/jotbook/internal/store/sqlite"
)

// env bundles what every project-scoped command needs: the resolved
// project directory, its config, and an open repository.
type env struct {
	dir  string
	cfg  *config.Config
	repo store.Store
}

func openEnv(dir string) (*env, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(absDir, config.Filename))
	if err != nil {
		return nil, fmt.Errorf("loading %s (run jotbook init first): %w", config.Filename, err)
	}
	repo, err := sqlite.New(filepath.Join(absDir, cfg.DBPath()))
	if err != nil {
		return nil, fmt.Errorf("opening record database: %w", err)
	}
	return &env{dir: absDir, cfg: cfg, repo: repo}, nil
}

func (e *env) Close() error { return e.repo.Close() }

func (e *env) shareDir() string {
	return filepath.Join(e.dir, e.cfg.Share.Dir)
}

func (e *env) sharePath() string {
	return filepath.Join(e.dir, e.cfg.SharePath())
}

func (e *env) prefsPath() string {
	return filepath.Join(e.dir, e.cfg.PrefsPath())
}

func (e *env) keywordsPath() string {
	return filepath.Join(e.dir, e.cfg.KeywordsPath())
}

// loadTable reads the keyword catalog, degrading to the built-in defaults
// when the file is unusable.
func (e *env) loadTable() *keywords.Table {
	table, err := keywords.Load(e.keywordsPath())
	if err != nil {
		slog.Warn("keyword catalog unusable, using defaults", "error", err)
		return keywords.Default()
	}
	return table
}

// resolveRecord finds a record by full id or by a unique id prefix, so
// the short ids printed by list are usable as arguments.
func resolveRecord(ctx context.Context, repo store.Store, key string) (*model.Record, error) {
	rec, err := repo.Get(ctx, key)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	all, err := repo.All(ctx)
	if err != nil {
		return nil, err
	}
	var match *model.Record
	for i := range all {
		if strings.HasPrefix(all[i].ID, key) {
			if match != nil {
				return nil, fmt.Errorf("record id %q is ambiguous", key)
			}
			match = &all[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no record with id %q", key)
	}
	return match, nil
}
