package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nexsupply/report-core/internal/facts"
	"github.com/nexsupply/report-core/internal/model"
)

var (
	factsJSON    bool
	factsResolve bool
)

var factsCmd = &cobra.Command{
	Use:   "facts <report-id>",
	Short: "List confirmed facts and missing info for a report",
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

		var weight *model.UnitWeightResult
		if factsResolve {
			resolver, err := newResolver()
			if err != nil {
				return err
			}
			result := resolver.Resolve(ctx, report)
			weight = &result
		}

		confirmed := facts.Confirmed(report, weight)
		missing := facts.Missing(report)

		if factsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Confirmed []model.FactItem        `json:"confirmed"`
				Missing   []model.MissingInfoItem `json:"missing"`
			}{confirmed, missing})
		}

		fmt.Println("Confirmed:")
		for _, f := range confirmed {
			fmt.Printf("  %s: %s (%s)\n", f.Label, f.Value, f.EvidenceType)
		}
		fmt.Println("Missing:")
		for _, m := range missing {
			fmt.Printf("  %s (%s impact)\n", m.Label, m.Impact)
		}
		return nil
	},
}

func init() {
	factsCmd.Flags().BoolVar(&factsJSON, "json", false, "output JSON")
	factsCmd.Flags().BoolVar(&factsResolve, "resolve", false, "run the weight resolver and include its result as a fact")
	rootCmd.AddCommand(factsCmd)
}
