// Package cli implements the pathscout command-line interface.
//
// This package provides commands for querying routes in node-link datasets,
// running the HTTP API, and managing the local route cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - query: Find the shortest route plus alternates between two nodes
//   - shortest: Find just the single fewest-hop path
//   - serve: Run the HTTP API
//   - cache: Manage the local route cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pathscout/pathscout/pkg/buildinfo"
	"github.com/pathscout/pathscout/pkg/cache"
	"github.com/pathscout/pathscout/pkg/engine"
	"github.com/pathscout/pathscout/pkg/graph"
)

// appName is the application name used for directories and display.
const appName = "pathscout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Pathscout discovers routes between entities in node-link datasets",
		Long:         `Pathscout is a path-discovery engine for graph exploration: given two entities in a node-link dataset it finds the shortest connecting route plus a bounded set of qualitatively distinct alternatives.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Attach the logger so commands can retrieve it from context.
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.shortestCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine loads a graph file and builds an engine for CLI use.
func (c *CLI) newEngine(path string, noCache bool) (*engine.Engine, error) {
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return nil, err
	}
	routeCache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return engine.New(graph.NewIndex(g), routeCache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pathscout/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
