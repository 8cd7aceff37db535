package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/directory-cli/internal/dataset"
	"github.com/sells-group/directory-cli/internal/fetcher"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/rank"
)

var rankDataset string

var rankCmd = &cobra.Command{
	Use:   "rank [location-slug]",
	Short: "Print the ranked listing a location page shows",
	Long:  "Selects and orders each location's entries by trust and prints the selection as JSON. With no argument every location is printed.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("rank"); err != nil {
			return err
		}
		ranker, err := newRanker()
		if err != nil {
			return err
		}
		locations, err := loadLocations(cmd.Context(), rankDataset)
		if err != nil {
			return err
		}

		slug := ""
		if len(args) == 1 {
			slug = args[0]
		}
		out, err := selectLocations(ranker, locations, slug)
		if err != nil {
			return err
		}
		if slug != "" {
			return fetcher.WriteJSON(os.Stdout, out[0])
		}
		return fetcher.WriteJSON(os.Stdout, out)
	},
}

// selectLocations ranks one location by slug, or all when slug is empty.
func selectLocations(ranker *rank.Ranker, locations []model.Location, slug string) ([]rank.Selection, error) {
	if slug != "" {
		loc, ok := dataset.Find(locations, slug)
		if !ok {
			return nil, eris.Errorf("unknown location %q", slug)
		}
		return []rank.Selection{ranker.SelectLocation(loc)}, nil
	}
	out := make([]rank.Selection, 0, len(locations))
	for _, loc := range locations {
		out = append(out, ranker.SelectLocation(loc))
	}
	return out, nil
}

func init() {
	rankCmd.Flags().StringVar(&rankDataset, "dataset", "", "dataset file (default dataset.base_path, else the store)")
	rootCmd.AddCommand(rankCmd)
}
