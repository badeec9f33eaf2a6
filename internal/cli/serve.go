package cli

import (
	"context"
	stderrors "errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/internal/server"
	"github.com/matzehuels/dirgraph/pkg/cache"
	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
)

const (
	defaultAddr      = ":8080"
	defaultKeyPrefix = "dirgraph:"
)

type serveFlags struct {
	addr      string
	redisURL  string
	keyPrefix string
	maxBody   int64
	timeout   time.Duration
	noCache   bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	f := serveFlags{
		addr:      defaultAddr,
		keyPrefix: defaultKeyPrefix,
		maxBody:   server.DefaultMaxBodyBytes,
		timeout:   server.DefaultRequestTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve the render pipeline over HTTP until interrupted.

Rendered artifacts are cached in redis when a redis URL is given (--redis-url
or ` + redisURLEnv + `), otherwise in the local file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && cfg.Server.Addr != "" {
				f.addr = cfg.Server.Addr
			}
			if f.redisURL == "" {
				f.redisURL = os.Getenv(redisURLEnv)
			}
			if f.redisURL == "" {
				f.redisURL = cfg.Server.RedisURL
			}

			ctx := cmd.Context()
			runner, err := c.serverRunner(ctx, &f)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger,
				server.WithMaxBodyBytes(f.maxBody),
				server.WithRequestTimeout(f.timeout))
			printInfo("Serving dirgraph")
			printKeyValue("address", f.addr)
			return srv.ListenAndServe(ctx, f.addr)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", f.addr, "listen address")
	cmd.Flags().StringVar(&f.redisURL, "redis-url", "", "redis URL for the shared cache (default $"+redisURLEnv+")")
	cmd.Flags().StringVar(&f.keyPrefix, "key-prefix", f.keyPrefix, "prefix for redis cache keys")
	cmd.Flags().Int64Var(&f.maxBody, "max-body", f.maxBody, "maximum request body size in bytes")
	cmd.Flags().DurationVar(&f.timeout, "timeout", f.timeout, "per-request timeout")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")

	return cmd
}

// serverRunner builds the runner for the server: redis with scoped keys
// when a URL is configured, otherwise the CLI cache. An unreachable redis
// falls back to the file cache with a warning.
func (c *CLI) serverRunner(ctx context.Context, f *serveFlags) (*pipeline.Runner, error) {
	if f.noCache || f.redisURL == "" {
		return c.newRunner(f.noCache)
	}
	if err := errors.ValidateRedisURL(f.redisURL); err != nil {
		return nil, err
	}

	rc, err := cache.NewRedisCache(ctx, f.redisURL)
	if err != nil {
		if !stderrors.Is(err, cache.ErrUnavailable) {
			return nil, err
		}
		printWarning("Redis unavailable, using the file cache")
		c.Logger.Warn("redis unavailable", "err", err)
		return c.newRunner(false)
	}
	printKeyValue("cache", "redis, prefix "+f.keyPrefix)
	return pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, f.keyPrefix), c.Logger), nil
}
