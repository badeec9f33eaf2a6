// Package cli implements the dirgraph command-line interface.
//
// # Commands
//
//   - render: turn a graph document into a Mermaid flowchart (or DOT, SVG, JSON)
//   - filter: apply the transforms and write the resulting graph document
//   - tree: print or browse the directory groups of a graph
//   - cache: manage the local artifact cache
//   - serve: expose the pipeline over HTTP
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on the [CLI] struct and is also attached to the command context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dirgraph/pkg/cache"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dirgraph"

	// configFileName is looked up in the working directory when --config is
	// not given.
	configFileName = ".dirgraph.toml"

	// redisURLEnv selects the redis cache for the serve command.
	redisURLEnv = "DIRGRAPH_REDIS_URL"
)

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

	// configPath is bound to the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

// newCache returns the file cache under [cache.DefaultDir], or a null cache
// when caching is disabled or no cache directory can be determined.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
