package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bhecquet/seleniumRobot-sub010/internal/actions"
	"github.com/bhecquet/seleniumRobot-sub010/internal/output"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

// NewReferenceCmd creates the reference command group.
func NewReferenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Manage step reference screenshots",
	}

	cmd.AddCommand(newReferenceAddCmd())
	cmd.AddCommand(newReferenceGetCmd())

	return cmd
}

func newReferenceAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record the reference screenshot of a step result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stepResultID, _ := cmd.Flags().GetInt("step-result-id")
			path, _ := cmd.Flags().GetString("path")
			if !cmd.Flags().Changed("step-result-id") {
				return cmdErr(errors.New("--step-result-id is required"))
			}
			if path == "" {
				return cmdErr(errors.New("--path is required"))
			}

			var ref *store.Reference
			if err := withDB(func(db *DB) error {
				r, err := actions.ReferenceAdd(cmdContext(cmd), db, stepResultID, path)
				if err != nil {
					return err
				}
				ref = r
				return nil
			}); err != nil {
				return err
			}
			return output.PrintSuccess(ref)
		},
	}

	cmd.Flags().Int("step-result-id", 0, "Step result ID (required)")
	cmd.Flags().String("path", "", "Reference screenshot path (required)")

	return cmd
}

func newReferenceGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the reference screenshot of a step result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stepResultID, _ := cmd.Flags().GetInt("step-result-id")
			if !cmd.Flags().Changed("step-result-id") {
				return cmdErr(errors.New("--step-result-id is required"))
			}

			var ref *store.Reference
			if err := withDB(func(db *DB) error {
				r, err := actions.ReferenceGet(cmdContext(cmd), db, stepResultID)
				if err != nil {
					return err
				}
				ref = r
				return nil
			}); err != nil {
				return err
			}
			return output.PrintSuccess(ref)
		},
	}

	cmd.Flags().Int("step-result-id", 0, "Step result ID (required)")

	return cmd
}
