package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nexsupply/report-core/internal/quality"
)

var qualityJSON bool

var qualityCmd = &cobra.Command{
	Use:   "quality <report-id>",
	Short: "Score the data quality of a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		report, err := st.GetReport(ctx, args[0])
		if err != nil {
			return err
		}

		result := quality.Compute(report)

		if qualityJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Printf("Score: %d (%s, profile %s) — %s\n", result.Score, result.Tier, result.Profile, result.Reason)
		for _, check := range result.PresentSignals {
			fmt.Printf("  [x] %-28s %d pts\n", check.Label, check.Points)
		}
		for _, gap := range result.MissingSignals {
			fmt.Printf("  [ ] %-28s %s impact\n", gap.Label, gap.Impact)
		}
		if result.HelperText != "" {
			fmt.Printf("Next: %s\n", result.HelperText)
		}
		return nil
	},
}

func init() {
	qualityCmd.Flags().BoolVar(&qualityJSON, "json", false, "output JSON")
	rootCmd.AddCommand(qualityCmd)
}
