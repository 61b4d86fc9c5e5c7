package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bhecquet/seleniumRobot-sub010/internal/actions"
	"github.com/bhecquet/seleniumRobot-sub010/internal/app"
	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
	"github.com/bhecquet/seleniumRobot-sub010/internal/output"
)

// NewDetectCmd creates the detect command.
func NewDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run the image field detector on a screenshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			image, _ := cmd.Flags().GetString("image")
			errorsOnly, _ := cmd.Flags().GetBool("errors")
			resize, _ := cmd.Flags().GetFloat64("resize")
			if image == "" {
				return cmdErr(errors.New("--image is required"))
			}
			if resize < 0 {
				return cmdErr(errors.New("--resize must be positive"))
			}

			ctx := cmdContext(cmd)
			var detection *fielddetector.Detection
			if err := withDetector(ctx, func(detector fielddetector.Detector, settings app.AnalysisSettings) error {
				if resize == 0 {
					resize = settings.ResizeFactor
				}
				d, err := actions.DetectImage(ctx, detector, image, errorsOnly, resize)
				if err != nil {
					return err
				}
				detection = d
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Image string `json:"image"`
				Kind  string `json:"kind"`
				*fielddetector.Detection
			}
			kind := fielddetector.AllFormFields
			if errorsOnly {
				kind = fielddetector.ErrorMessagesAndFields
			}
			return output.PrintSuccess(resp{Image: image, Kind: kind.String(), Detection: detection})
		},
	}

	cmd.Flags().String("image", "", "Screenshot path (required)")
	cmd.Flags().Bool("errors", false, "Detect error messages and fields in error instead of all form fields")
	cmd.Flags().Float64("resize", 0, "Scale factor applied before upload (default: resize_factor from config)")

	return cmd
}
