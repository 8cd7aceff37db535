package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/directory-cli/internal/fetcher"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/provider"
)

var validateSources []string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate provider source files",
	Long:  "Loads every provider source, prints each validation problem and exits non-zero if there are any; otherwise prints a JSON summary.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("validate"); err != nil {
			return err
		}
		refs := sourceRefs(validateSources)
		if len(refs) == 0 {
			return eris.New("no sources: pass --source or configure sources")
		}

		res, err := newLoader().LoadFiles(cmd.Context(), refs, nil)
		if err != nil {
			return err
		}
		if len(res.Errors) > 0 {
			for _, e := range res.Errors {
				fmt.Fprintln(os.Stderr, e)
			}
			return eris.Errorf("%d validation errors", len(res.Errors))
		}
		return writeValidateSummary(os.Stdout, len(refs), res)
	},
}

type validateSummary struct {
	Sources   int                       `json:"sources"`
	Providers int                       `json:"providers"`
	Verified  int                       `json:"verified"`
	Listed    int                       `json:"listed"`
	Locations map[string]map[string]int `json:"locations"`
}

func summarize(sources int, res provider.Result) validateSummary {
	s := validateSummary{Sources: sources, Providers: len(res.Providers), Locations: map[string]map[string]int{}}
	for _, p := range res.Providers {
		if s.Locations[p.LocationSlug] == nil {
			s.Locations[p.LocationSlug] = map[string]int{}
		}
		s.Locations[p.LocationSlug][string(p.Trust)]++
		if p.Trust == model.TrustVerified {
			s.Verified++
		} else {
			s.Listed++
		}
	}
	return s
}

func writeValidateSummary(w io.Writer, sources int, res provider.Result) error {
	return fetcher.WriteJSON(w, summarize(sources, res))
}

func init() {
	validateCmd.Flags().StringArrayVar(&validateSources, "source", nil, "provider source file as path[:verified|listed] (repeatable; default from config)")
	rootCmd.AddCommand(validateCmd)
}
