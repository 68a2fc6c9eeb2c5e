package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mcoot/playtracker/internal/factory"
)

func newBootstrapCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the schema and seed the admin account",
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
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Database ready.")
			return nil
		},
	}
}
