package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nexsupply/report-core/internal/store"
)

var (
	resolveJSON bool
	resolveSave bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <report-id>",
	Short: "Resolve the unit weight for a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		reportID := args[0]

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		report, err := st.GetReport(ctx, reportID)
		if err != nil {
			return err
		}

		resolver, err := newResolver()
		if err != nil {
			return err
		}

		result := resolver.Resolve(ctx, report)

		if resolveSave {
			rec := &store.ResolutionRecord{ReportID: reportID, Result: result}
			if err := st.SaveResolution(ctx, rec); err != nil {
				return err
			}
			zap.L().Info("resolution saved",
				zap.String("report_id", reportID),
				zap.String("resolution_id", rec.ID),
			)
		}

		if resolveJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Printf("Unit weight: %.0f g (range %.0f–%.0f g)\n", result.Grams, result.RangeGrams.Min, result.RangeGrams.Max)
		fmt.Printf("Source:      %s (confidence %.2f)\n", result.Source, result.Confidence)
		fmt.Printf("Rationale:   %s\n", result.Rationale)
		if result.UnitScope != "" {
			fmt.Printf("Unit scope:  %s\n", result.UnitScope)
		}
		if result.PackCount != nil {
			fmt.Printf("Pack count:  %d (confidence %.2f)\n", *result.PackCount, result.PackCountConfidence)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "output JSON")
	resolveCmd.Flags().BoolVar(&resolveSave, "save", false, "persist the resolution as an audit row")
	rootCmd.AddCommand(resolveCmd)
}
