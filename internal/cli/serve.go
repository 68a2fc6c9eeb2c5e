package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/playtracker/internal/factory"
	"github.com/mcoot/playtracker/internal/web"
)

func newServeCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Bootstrap the database and run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)

			app, err := factory.New(factoryConfig(cfg, logger))
			if err != nil {
				return fmt.Errorf("failed to create application: %w", err)
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.Warn("close failed", slog.String("error", err.Error()))
				}
			}()

			if err := app.Bootstrap.Run(cmd.Context()); err != nil {
				return err
			}
			if err := app.Sweeper.Start(); err != nil {
				return err
			}

			router := web.NewRouter(web.RouterConfig{
				Logger:         logger,
				AuthService:    app.AuthService,
				AccountService: app.AccountService,
				StaticDir:      findStaticDir(cfg.StaticDir),
			})
			server := web.NewServer(router, cfg.Server, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			logger.Info("server started",
				slog.String("addr", server.Addr()),
				slog.String("env", cfg.Env),
				slog.String("db_driver", cfg.Database.Driver),
				slog.String("session_store", cfg.SessionStore),
			)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutdown signal received")
				if err := server.Shutdown(context.Background()); err != nil {
					return err
				}
			}

			logger.Info("server stopped")
			return nil
		},
	}

	f.registerServe(cmd)
	return cmd
}
