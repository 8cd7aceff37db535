package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/directory-cli/internal/export"
)

var (
	exportDataset string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an XLSX review workbook of ranked listings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("export"); err != nil {
			return err
		}
		ranker, err := newRanker()
		if err != nil {
			return err
		}
		locations, err := loadLocations(cmd.Context(), exportDataset)
		if err != nil {
			return err
		}
		if err := export.WriteWorkbook(exportOut, locations, ranker); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d locations to %s\n", len(locations), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDataset, "dataset", "", "dataset file (default dataset.base_path, else the store)")
	exportCmd.Flags().StringVar(&exportOut, "out", "directory-review.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
