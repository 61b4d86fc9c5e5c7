package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bhecquet/seleniumRobot-sub010/internal/app"
	"github.com/bhecquet/seleniumRobot-sub010/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *DB) error {
				settings := app.EffectiveAnalysisSettings()
				slog.Info("serving MCP tools on stdio", "detector_url", settings.DetectorURL, "max_retry", settings.MaxRetry)
				return server.New(db, settings, version).ServeStdio()
			})
		},
	}
	return cmd
}
