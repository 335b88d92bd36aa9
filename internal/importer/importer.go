// Package importer bulk-loads a directory of Alpha Progression CSV exports.
package importer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/fitstreak/internal/ingest"
)

// Ingester turns one export file into stored sessions.
type Ingester interface {
	Ingest(ctx context.Context, r io.Reader, userID string) (*ingest.Result, error)
}

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	ingest.Result
}

// Importer walks an export directory and ingests every new or changed CSV file.
type Importer struct {
	ingester Ingester
	state    *StateDB
	log      *slog.Logger
	userID   string
	dryRun   bool
	stats    Stats
}

// New creates a new Importer. state may be nil, in which case every file is imported.
func New(ingester Ingester, state *StateDB, log *slog.Logger, userID string, dryRun bool) *Importer {
	return &Importer{ingester: ingester, state: state, log: log, userID: userID, dryRun: dryRun}
}

// Import processes all .csv files under dir. A file that fails to ingest is
// counted and logged; the walk continues with the next file.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	files, err := findExports(dir)
	if err != nil {
		return &imp.stats, err
	}
	imp.log.Info("found export files", "dir", dir, "count", len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		if err := imp.importFile(ctx, dir, path); err != nil {
			imp.log.Warn("import failed", "file", path, "error", err)
			imp.stats.FilesErrored++
		}
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, root, path string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	if imp.state != nil {
		done, err := imp.state.IsImported(rel, info.Size(), hash)
		if err != nil {
			return err
		}
		if done {
			imp.log.Debug("unchanged, skipping", "file", rel)
			imp.stats.FilesSkipped++
			return nil
		}
	}

	if imp.dryRun {
		imp.log.Info("would import", "file", rel, "size", info.Size())
		imp.stats.FilesProcessed++
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := imp.ingester.Ingest(ctx, f, imp.userID)
	if err != nil {
		return err
	}
	imp.stats.FilesProcessed++
	imp.stats.Add(res)

	if imp.state != nil {
		if err := imp.state.MarkImported(rel, info.Size(), hash, res.SessionsSaved); err != nil {
			return err
		}
	}
	imp.log.Info("imported", "file", rel, "sessions", res.SessionsSaved)
	return nil
}

// findExports returns the .csv files under dir in lexical order.
func findExports(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
