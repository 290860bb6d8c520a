package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nexsupply/report-core/internal/model"
)

var importFilePath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import report records from a JSON file into the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(importFilePath)
		if err != nil {
			return eris.Wrapf(err, "read %s", importFilePath)
		}

		var reports []model.RawReportView
		if err := json.Unmarshal(data, &reports); err != nil {
			// Also accept a single object.
			var one model.RawReportView
			if err2 := json.Unmarshal(data, &one); err2 != nil {
				return eris.Wrapf(err, "parse %s", importFilePath)
			}
			reports = []model.RawReportView{one}
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		for i := range reports {
			if reports[i].ID == "" {
				return eris.Errorf("report %d has no id", i)
			}
			if err := st.PutReport(ctx, &reports[i]); err != nil {
				return err
			}
		}

		zap.L().Info("import complete",
			zap.Int("reports", len(reports)),
			zap.String("file", importFilePath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFilePath, "file", "", "path to JSON file (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
