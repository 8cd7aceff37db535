package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/dataset"
	"github.com/sells-group/directory-cli/internal/fetcher"
	"github.com/sells-group/directory-cli/internal/merge"
	"github.com/sells-group/directory-cli/internal/provider"
	"github.com/sells-group/directory-cli/internal/resilience"
	"github.com/sells-group/directory-cli/internal/store"
)

var (
	mergeSources []string
	mergeBase    string
	mergeOut     string
	mergeDryRun  bool
	mergeStrict  bool
	mergeNoStore bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge provider sources into the base dataset",
	Long:  "Loads provider sources, upserts them into each location of the base dataset by slug (verified entries are never downgraded) and writes the combined dataset. Each non-dry run is recorded in the store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if mergeBase != "" {
			cfg.Dataset.BasePath = mergeBase
		}
		if mergeOut != "" {
			cfg.Dataset.OutputPath = mergeOut
		}
		if err := cfg.Validate("merge"); err != nil {
			return err
		}

		refs := sourceRefs(mergeSources)
		if len(refs) == 0 {
			return eris.New("no sources: pass --source or configure sources")
		}

		started := time.Now()
		res, err := newLoader().LoadFiles(ctx, refs, nil)
		if err != nil {
			return err
		}
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		if mergeStrict && len(res.Errors) > 0 {
			return eris.Errorf("%d validation errors (strict)", len(res.Errors))
		}

		locations, err := dataset.Read(ctx, cfg.Dataset.BasePath)
		if err != nil {
			return err
		}
		merged := merge.Dataset(locations, res.Providers)
		for _, e := range merged.Errors {
			fmt.Fprintln(os.Stderr, e)
		}

		if mergeDryRun {
			return fetcher.WriteJSON(os.Stdout, mergeReport(merged, res, true))
		}

		outPath := cfg.Dataset.OutputPath
		if outPath == "" {
			outPath = cfg.Dataset.BasePath
		}
		if err := dataset.Write(outPath, merged.Locations); err != nil {
			return err
		}

		if !mergeNoStore {
			if err := persistMerge(cmd, merged, res, refs, outPath, started); err != nil {
				return err
			}
		}
		return fetcher.WriteJSON(os.Stdout, mergeReport(merged, res, false))
	},
}

func persistMerge(cmd *cobra.Command, merged merge.DatasetResult, res provider.Result, refs []provider.SourceRef, outPath string, started time.Time) error {
	ctx := cmd.Context()
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("save locations")
	if err := resilience.Do(ctx, retry, func(ctx context.Context) error {
		return st.SaveLocations(ctx, merged.Locations)
	}); err != nil {
		return err
	}
	run := newMergeRun(merged, res, refs, outPath, started, time.Now())
	if err := st.RecordMergeRun(ctx, run); err != nil {
		return err
	}
	zap.L().Info("merge: run recorded", zap.String("run_id", run.ID))
	return nil
}

func newMergeRun(merged merge.DatasetResult, res provider.Result, refs []provider.SourceRef, outPath string, started, finished time.Time) *store.MergeRun {
	paths := make([]string, 0, len(refs))
	for _, s := range refs {
		paths = append(paths, s.Path)
	}
	return &store.MergeRun{
		StartedAt:        started,
		FinishedAt:       finished,
		BasePath:         cfg.Dataset.BasePath,
		OutputPath:       outPath,
		Sources:          paths,
		Locations:        len(merged.ByLocation),
		UpgradedExisting: merged.Total.UpgradedExisting,
		AddedNew:         merged.Total.AddedNew,
		SkippedVerified:  merged.Total.SkippedVerified,
		ErrorCount:       len(res.Errors) + len(merged.Errors),
	}
}

type mergeSummary struct {
	DryRun     bool                   `json:"dryRun"`
	Providers  int                    `json:"providers"`
	Errors     int                    `json:"errors"`
	Total      merge.Counts           `json:"total"`
	ByLocation []merge.LocationCounts `json:"byLocation"`
}

func mergeReport(merged merge.DatasetResult, res provider.Result, dryRun bool) mergeSummary {
	by := merged.ByLocation
	if by == nil {
		by = []merge.LocationCounts{}
	}
	return mergeSummary{
		DryRun:     dryRun,
		Providers:  len(res.Providers),
		Errors:     len(res.Errors) + len(merged.Errors),
		Total:      merged.Total,
		ByLocation: by,
	}
}

func init() {
	mergeCmd.Flags().StringArrayVar(&mergeSources, "source", nil, "provider source file as path[:verified|listed] (repeatable; default from config)")
	mergeCmd.Flags().StringVar(&mergeBase, "base", "", "base dataset (default dataset.base_path)")
	mergeCmd.Flags().StringVar(&mergeOut, "out", "", "output dataset (default dataset.output_path, else overwrite the base)")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "print counters without writing anything")
	mergeCmd.Flags().BoolVar(&mergeStrict, "strict", false, "abort when any source record fails validation")
	mergeCmd.Flags().BoolVar(&mergeNoStore, "no-store", false, "skip saving locations and the run record to the store")
	rootCmd.AddCommand(mergeCmd)
}
