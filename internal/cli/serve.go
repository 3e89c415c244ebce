package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/PabloGalante/throne-companions/internal/config"
	"github.com/PabloGalante/throne-companions/internal/observability"
	"github.com/PabloGalante/throne-companions/internal/scheduler"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	port        string
	configPath  string
	watch       bool
	noScheduler bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API together with the memory prune scheduler and, optionally, the solicitation config watcher.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			opts.apply(cmd, cfg)
			return serve(cmd.Context(), cfg, !opts.noScheduler)
		},
	}

	cmd.Flags().StringVarP(&opts.port, "port", "p", "", "Listen port (overrides THRONE_PORT)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Solicitation config file (overrides THRONE_SOLICITATION_CONFIG)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload the solicitation config when it changes")
	cmd.Flags().BoolVar(&opts.noScheduler, "no-scheduler", false, "Do not run the memory prune job")
	return cmd
}

// apply lets flags that were set on the command line win over the environment.
func (o serveOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Port = o.port
	}
	if cmd.Flags().Changed("config") {
		cfg.SolicitationConfig = o.configPath
	}
	if cmd.Flags().Changed("watch") {
		cfg.WatchConfig = o.watch
	}
}

func serve(ctx context.Context, cfg *config.Config, withScheduler bool) error {
	if err := observability.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	if err := tier.Validate(); err != nil {
		return fmt.Errorf("tier catalog: %w", err)
	}

	app, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log := observability.Logger()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("throne api listening", "addr", srv.Addr, "mode", cfg.Mode)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	if withScheduler {
		sched := scheduler.New(app.PruneJob(cfg.PruneSchedule))
		g.Go(func() error { return sched.Run(gctx) })
	}

	if cfg.WatchConfig {
		g.Go(func() error { return app.Reloader.Watch(gctx) })
	}

	return g.Wait()
}
