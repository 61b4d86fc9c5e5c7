package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bhecquet/seleniumRobot-sub010/internal/actions"
	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
	"github.com/bhecquet/seleniumRobot-sub010/internal/output"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

// NewResultCmd creates the result command group.
func NewResultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Record and inspect test results",
	}

	cmd.AddCommand(newResultRecordCmd())
	cmd.AddCommand(newResultGetCmd())
	cmd.AddCommand(newResultListCmd())

	return cmd
}

func newResultRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a finished test execution",
		Long: "Record a finished test execution. --file reads a JSON test result (steps and snapshots included), " +
			"'-' reads it from stdin. Flags override the file values.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resultFromFlags(cmd)
			if err != nil {
				return cmdErr(err)
			}

			var created *models.TestResult
			if err := withDB(func(db *DB) error {
				c, err := actions.ResultRecord(cmdContext(cmd), db, r)
				if err != nil {
					return err
				}
				created = c
				return nil
			}); err != nil {
				return err
			}
			return output.PrintSuccess(created)
		},
	}

	cmd.Flags().String("file", "", "JSON test result file, '-' for stdin")
	cmd.Flags().String("id", "", "Result ID (default: generated)")
	cmd.Flags().String("suite", "", "Test suite name")
	cmd.Flags().String("class", "", "Test class name")
	cmd.Flags().String("method", "", "Test method name")
	cmd.Flags().String("status", "", "Result status: passed|failed|skipped")
	cmd.Flags().String("category", "", "Failure category: unknown|assertion|application|infrastructure|grid_node_unavailable")

	return cmd
}

func resultFromFlags(cmd *cobra.Command) (*models.TestResult, error) {
	r := &models.TestResult{}

	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		var (
			data []byte
			err  error
		)
		if file == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(file) //nolint:gosec // G304: path is provided by the user on purpose
		}
		if err != nil {
			return nil, fmt.Errorf("read test result: %w", err)
		}
		if err := json.Unmarshal(data, r); err != nil {
			return nil, fmt.Errorf("decode test result: %w", err)
		}
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"id", &r.ID},
		{"suite", &r.Suite},
		{"class", &r.ClassName},
		{"method", &r.Method},
		{"category", &r.FailureCategory},
	}
	for _, o := range overrides {
		if v, _ := cmd.Flags().GetString(o.flag); v != "" {
			*o.dst = v
		}
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		r.Status = models.ResultStatus(v)
	}

	if r.Method == "" {
		return nil, errors.New("--method is required (or a method in --file)")
	}
	return r, nil
}

func newResultGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a test result and its error causes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var view *actions.ResultView
			if err := withDB(func(db *DB) error {
				v, err := actions.ResultGet(cmdContext(cmd), db, id)
				if err != nil {
					return err
				}
				view = v
				return nil
			}); err != nil {
				return err
			}
			return output.PrintSuccess(view)
		},
	}

	cmd.Flags().String("id", "", "Result ID (required)")

	return cmd
}

func newResultListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List test results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, _ := cmd.Flags().GetString("suite")
			className, _ := cmd.Flags().GetString("class")
			method, _ := cmd.Flags().GetString("method")
			status, _ := cmd.Flags().GetString("status")
			limit, _ := cmd.Flags().GetInt("limit")

			filter := store.ResultFilter{
				Suite:     suite,
				ClassName: className,
				Method:    method,
				Status:    models.ResultStatus(status),
				Limit:     limit,
			}

			var results []*models.TestResult
			if err := withDB(func(db *DB) error {
				r, err := actions.ResultList(cmdContext(cmd), db, filter)
				if err != nil {
					return err
				}
				results = r
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Count   int                  `json:"count"`
				Results []*models.TestResult `json:"results"`
			}
			return output.PrintSuccess(resp{Count: len(results), Results: results})
		},
	}

	cmd.Flags().String("suite", "", "Filter by suite")
	cmd.Flags().String("class", "", "Filter by class")
	cmd.Flags().String("method", "", "Filter by method")
	cmd.Flags().String("status", "", "Filter by status: passed|failed|skipped")
	cmd.Flags().Int("limit", 50, "Max results to return")

	return cmd
}
