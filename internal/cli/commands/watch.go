package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqldeps/internal/cli/config"
	"github.com/leapstack-labs/sqldeps/internal/dag"
)

// watchDebounce batches the event bursts editors emit on save.
const watchDebounce = 200 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-extract on SQL file changes",
		Long: `Watch the configured sql_dir and re-run extraction whenever a .sql
file is written or created, printing an edge and object summary after
each pass. Runs until interrupted.`,
		Example: `  # Watch the configured sql_dir
  sqldeps watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}

	return cmd
}

func runWatch(cmd *cobra.Command) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDir(watcher, cfg.SQLDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.SQLDir, err)
	}

	out := cmd.OutOrStdout()

	extract := func(trigger string) {
		files, err := ListSQLFiles([]string{cfg.SQLDir})
		if err != nil {
			fmt.Fprintf(out, "scan error: %v\n", err)
			return
		}
		edges, err := ExtractFiles(cmd.Context(), catalog, files, cfg.Jobs, logger)
		if err != nil {
			fmt.Fprintf(out, "extract error: %v\n", err)
			return
		}
		graph := dag.FromEdges(edges)
		fmt.Fprintf(out, "[%s] %s: %d files, %d edges, %d objects\n",
			time.Now().Format("15:04:05"), trigger, len(files), len(edges), graph.NodeCount())
	}

	extract("initial scan")
	fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", cfg.SQLDir)

	var debounce *time.Timer

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// New subdirectories need to be picked up too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchDir(watcher, event.Name)
					continue
				}
			}

			if !strings.EqualFold(filepath.Ext(event.Name), ".sql") {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			name := filepath.Base(event.Name)
			debounce = time.AfterFunc(watchDebounce, func() {
				extract(name)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// watchDir recursively adds a directory tree to the watcher, skipping
// hidden directories.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
