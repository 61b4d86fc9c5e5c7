package commands

import (
	"github.com/spf13/cobra"

	"github.com/bhecquet/seleniumRobot-sub010/internal/actions"
	"github.com/bhecquet/seleniumRobot-sub010/internal/app"
	"github.com/bhecquet/seleniumRobot-sub010/internal/output"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, database content and detector connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, dbSource, err := app.ResolveDBPathDetailed()
			if err != nil {
				return cmdErr(err)
			}
			settings := app.EffectiveAnalysisSettings()

			var (
				dbOK   bool
				dbErr  string
				report *actions.DoctorReport
			)

			db, err := store.InitDBWithPath(dbPath)
			if err != nil {
				dbErr = err.Error()
			} else {
				dbOK = true
				defer func() { _ = db.Close() }()
				report, err = actions.Doctor(cmdContext(cmd), db, settings)
				if err != nil {
					return cmdErr(err)
				}
			}

			type resp struct {
				DBPath   string                 `json:"db_path"`
				DBSource string                 `json:"db_source"`
				DBOK     bool                   `json:"db_ok"`
				DBErr    string                 `json:"db_error,omitempty"`
				Settings app.AnalysisSettings   `json:"settings"`
				Report   *actions.DoctorReport  `json:"report,omitempty"`
				Detector *actions.DetectorCheck `json:"detector,omitempty"`
				Hint     string                 `json:"hint,omitempty"`
			}
			out := resp{
				DBPath:   dbPath,
				DBSource: dbSource,
				DBOK:     dbOK,
				DBErr:    dbErr,
				Settings: settings,
				Report:   report,
			}
			if !dbOK {
				check := actions.ProbeDetector(cmdContext(cmd), settings)
				out.Detector = &check
				out.Hint = "If this is running in a sandboxed environment, set db_path to a writable location or use --db-path."
			}
			return output.PrintSuccess(out)
		},
	}

	return cmd
}
