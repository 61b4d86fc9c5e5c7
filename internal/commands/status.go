package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bhecquet/seleniumRobot-sub010/internal/app"
	"github.com/bhecquet/seleniumRobot-sub010/internal/output"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database location, effective settings and result counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
	return cmd
}

func runStatus(cmd *cobra.Command) error {
	dbPath, dbSource, err := app.ResolveDBPathDetailed()
	if err != nil {
		return cmdErr(err)
	}

	type dbInfo struct {
		Path      string `json:"path"`
		Source    string `json:"source"`
		OK        bool   `json:"ok"`
		SizeBytes *int64 `json:"size_bytes,omitempty"`
		Error     string `json:"error,omitempty"`
	}

	type resp struct {
		DB       dbInfo               `json:"db"`
		Settings app.AnalysisSettings `json:"settings"`
		Counts   *store.StatusCounts  `json:"counts,omitempty"`
		Suites   []string             `json:"suites,omitempty"`
	}

	result := resp{
		DB: dbInfo{
			Path:   dbPath,
			Source: dbSource,
		},
		Settings: app.EffectiveAnalysisSettings(),
	}

	db, err := store.InitDBWithPath(dbPath)
	if err != nil {
		result.DB.Error = err.Error()
		return output.PrintSuccess(result)
	}
	result.DB.OK = true
	defer func() { _ = db.Close() }()

	if stat, err := os.Stat(dbPath); err == nil {
		size := stat.Size()
		result.DB.SizeBytes = &size
	}

	ctx := cmdContext(cmd)
	if counts, err := store.GetStatusCounts(ctx, db); err == nil {
		result.Counts = counts
	}
	if suites, err := store.ListSuites(ctx, db); err == nil {
		result.Suites = suites
	}

	return output.PrintSuccess(result)
}
