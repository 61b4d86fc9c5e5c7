package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/bhecquet/seleniumRobot-sub010/internal/actions"
	"github.com/bhecquet/seleniumRobot-sub010/internal/output"
	"github.com/bhecquet/seleniumRobot-sub010/internal/retry"
)

// NewRetryCmd creates the retry command group.
func NewRetryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Decide whether failed tests run again",
	}

	cmd.AddCommand(newRetryDecisionCmd("decide", "Decide on the attempt and store the retry state", actions.RetryDecide))
	cmd.AddCommand(newRetryDecisionCmd("peek", "Tell what decide would answer without storing anything", actions.RetryPeek))
	cmd.AddCommand(newRetryStatusCmd())

	return cmd
}

type retryAction func(ctx context.Context, db *DB, a *retry.Analyzer, id, category string) (*actions.RetryDecision, error)

func newRetryDecisionCmd(use, short string, decide retryAction) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			category, _ := cmd.Flags().GetString("category")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var decision *actions.RetryDecision
			if err := withDB(func(db *DB) error {
				d, err := decide(cmdContext(cmd), db, newAnalyzer(), id, category)
				if err != nil {
					return err
				}
				decision = d
				return nil
			}); err != nil {
				return err
			}
			return output.PrintSuccess(decision)
		},
	}

	cmd.Flags().String("id", "", "Result ID (required)")
	cmd.Flags().String("category", "", "Failure category overriding the recorded one: unknown|assertion|application|infrastructure|grid_node_unavailable")

	return cmd
}

func newRetryStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a result still has a retry slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var status *actions.RetryDecision
			if err := withDB(func(db *DB) error {
				s, err := actions.RetryStatus(cmdContext(cmd), db, newAnalyzer(), id)
				if err != nil {
					return err
				}
				status = s
				return nil
			}); err != nil {
				return err
			}
			return output.PrintSuccess(status)
		},
	}

	cmd.Flags().String("id", "", "Result ID (required)")

	return cmd
}
