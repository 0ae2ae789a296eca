package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gdcross/pkg/api"
	"github.com/matzehuels/gdcross/pkg/pipeline"
	"github.com/matzehuels/gdcross/pkg/store"
)

// shutdownTimeout bounds the graceful shutdown of the API server.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The server answers POST /v1/crossings, /v1/metrics, /v1/planarize and
/v1/render with JSON drawings, and serves saved reports under /v1/reports.
Cache and report store are taken from the [cache] and [store] sections of
the config file; the listen address from [server] unless --addr is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			timeout, err := cfg.Server.Timeout()
			if err != nil {
				return err
			}

			ch, err := newCache(ctx, cfg.Cache, false)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}
			runner := pipeline.NewRunner(ch, keyer(cfg.Cache), c.Logger)
			defer runner.Close()

			var st store.Store
			if !noStore {
				st, err = c.newStore(ctx)
				if err != nil {
					return fmt.Errorf("open report store: %w", err)
				}
				defer st.Close()
			}
			srv := api.New(runner, st, c.Logger, api.Config{
				Timeout:      timeout,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
			})

			return c.listen(ctx, srv.HTTPServer(cfg.Server.Addr))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable report storage")

	return cmd
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func (c *CLI) listen(ctx context.Context, hs *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("Listening", "addr", hs.Addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
