package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/discovery"
	"github.com/sells-group/directory-cli/internal/fetcher"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/resolve"
)

var (
	resolveCandidates string
	resolveBase       string
	resolveOut        string
	resolveMaxPerCity int
	resolveDate       string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Assign directory slugs to discovered candidates",
	Long:  "Reads discovered candidates (JSON, CSV or XLSX), screens them, matches each against its location's existing entries and writes listed provider records with their resolved slugs.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("resolve"); err != nil {
			return err
		}

		verifiedAt := time.Now()
		if resolveDate != "" {
			t, err := time.Parse(time.DateOnly, resolveDate)
			if err != nil {
				return eris.Wrapf(err, "invalid --date %q", resolveDate)
			}
			verifiedAt = t
		}

		candidates, err := discovery.ReadCandidates(ctx, resolveCandidates)
		if err != nil {
			return err
		}
		locations, err := loadLocations(ctx, resolveBase)
		if err != nil {
			return err
		}

		kept, rejected := discovery.ScreenAll(candidates, cfg.Discovery.DirectoryBlocklist)
		batch := resolve.ResolveBatch(locations, kept, resolve.BatchOptions{MaxPerLocation: resolveMaxPerCity})
		providers := resolvedProviders(batch, verifiedAt)

		zap.L().Info("resolve: complete",
			zap.Int("candidates", len(candidates)),
			zap.Int("rejected", len(candidates)-len(kept)),
			zap.Int("resolved", len(batch.Resolved)),
			zap.Int("skipped", len(batch.Skipped)),
			zap.Any("rejected_by_reason", rejected),
			zap.Any("matched_by", batch.Counts()),
		)

		if resolveOut == "" || resolveOut == "-" {
			return fetcher.WriteJSON(os.Stdout, providers)
		}
		if err := writeProviders(resolveOut, providers); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d providers to %s\n", len(providers), resolveOut)
		return nil
	},
}

func writeProviders(path string, providers []model.Provider) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := fetcher.WriteJSON(f, providers); err != nil {
		f.Close() //nolint:errcheck,gosec
		return err
	}
	return eris.Wrapf(f.Close(), "close %s", path)
}

func resolvedProviders(batch resolve.BatchResult, verifiedAt time.Time) []model.Provider {
	out := make([]model.Provider, 0, len(batch.Resolved))
	for _, r := range batch.Resolved {
		out = append(out, r.ToProvider(verifiedAt))
	}
	return out
}

func init() {
	resolveCmd.Flags().StringVar(&resolveCandidates, "candidates", "", "candidate file (.json, .csv or .xlsx)")
	resolveCmd.Flags().StringVar(&resolveBase, "base", "", "base dataset (default dataset.base_path, else the store)")
	resolveCmd.Flags().StringVar(&resolveOut, "out", "", "output file for provider records (default stdout)")
	resolveCmd.Flags().IntVar(&resolveMaxPerCity, "max-per-city", 0, "max candidates accepted per location (0 = no cap)")
	resolveCmd.Flags().StringVar(&resolveDate, "date", "", "verifiedAt date for resolved records, YYYY-MM-DD (default today)")
	_ = resolveCmd.MarkFlagRequired("candidates")
	rootCmd.AddCommand(resolveCmd)
}
