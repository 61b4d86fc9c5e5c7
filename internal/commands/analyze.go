package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bhecquet/seleniumRobot-sub010/internal/actions"
	"github.com/bhecquet/seleniumRobot-sub010/internal/analysis"
	"github.com/bhecquet/seleniumRobot-sub010/internal/app"
	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
	"github.com/bhecquet/seleniumRobot-sub010/internal/output"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Search the causes of a test failure",
		Long: "Search the causes of a failed test result (--result) from its end screenshots and step references, " +
			"or look for error messages on loose screenshots (--snapshots, ** globs allowed).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resultID, _ := cmd.Flags().GetString("result")
			pattern, _ := cmd.Flags().GetString("snapshots")

			switch {
			case resultID != "" && pattern != "":
				return cmdErr(errors.New("--result and --snapshots are mutually exclusive"))
			case resultID != "":
				return runAnalyzeResult(cmd, resultID)
			case pattern != "":
				return runAnalyzeSnapshots(cmd, pattern)
			default:
				return cmdErr(errors.New("--result or --snapshots is required"))
			}
		},
	}

	cmd.Flags().String("result", "", "Failed result ID to analyze")
	cmd.Flags().String("snapshots", "", "Glob of screenshots to scan for error messages")

	return cmd
}

func runAnalyzeResult(cmd *cobra.Command, id string) error {
	ctx := cmdContext(cmd)
	var report *actions.AnalysisReport
	if err := withFinder(ctx, func(db *DB, finder *analysis.Finder) error {
		r, err := actions.AnalyzeResult(ctx, db, finder, id)
		if err != nil {
			return err
		}
		report = r
		return nil
	}); err != nil {
		return err
	}
	return output.PrintSuccess(report)
}

func runAnalyzeSnapshots(cmd *cobra.Command, pattern string) error {
	paths, err := actions.ExpandSnapshots(pattern)
	if err != nil {
		return cmdErr(err)
	}

	ctx := cmdContext(cmd)
	var report *actions.AnalysisReport
	if err := withDetector(ctx, func(detector fielddetector.Detector, settings app.AnalysisSettings) error {
		r, err := actions.AnalyzeSnapshots(ctx, actions.NewFinder(nil, detector, settings), paths)
		if err != nil {
			return err
		}
		report = r
		return nil
	}); err != nil {
		return err
	}

	type resp struct {
		Snapshots []string `json:"snapshots"`
		*actions.AnalysisReport
	}
	return output.PrintSuccess(resp{Snapshots: paths, AnalysisReport: report})
}
