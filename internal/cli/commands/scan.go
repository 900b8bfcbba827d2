package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqldeps/pkg/depgraph"
	"github.com/leapstack-labs/sqldeps/pkg/sqltree"
)

// ListSQLFiles expands the given paths into a sorted list of .sql files.
// Directories are walked recursively; explicit file arguments are accepted
// regardless of extension.
func ListSQLFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".sql") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ExtractFiles extracts dependency edges from the given files, processing up
// to jobs files in parallel. Edges are returned grouped in file order, so
// output stays deterministic regardless of scheduling.
func ExtractFiles(ctx context.Context, catalog *depgraph.Catalog, files []string, jobs int, logger *slog.Logger) ([]depgraph.DependencyEdge, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	results := make([][]depgraph.DependencyEdge, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			edges := depgraph.ExtractWithOptions(sqltree.Parse(string(data)), catalog, depgraph.ExtractOptions{
				Logger: logger,
			})
			logger.Debug("extracted file", slog.String("path", path), slog.Int("edges", len(edges)))

			results[i] = edges
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []depgraph.DependencyEdge
	for _, edges := range results {
		all = append(all, edges...)
	}
	return all, nil
}
