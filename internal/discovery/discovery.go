// Package discovery reads candidate appraisers produced by discovery runs
// (web, association and seeded lists) and screens out unusable ones before
// identity resolution.
package discovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/directory-cli/internal/fetcher"
	"github.com/sells-group/directory-cli/internal/model"
)

// ReadCandidates reads candidates from a .json (array), .csv or .xlsx file.
// Spreadsheet rows are mapped by header name.
func ReadCandidates(ctx context.Context, path string) ([]model.Candidate, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "discovery: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		out, err := fetcher.ReadJSONArray[model.Candidate](ctx, f)
		if err != nil {
			return nil, eris.Wrapf(err, "discovery: read %s", path)
		}
		return out, nil
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "discovery: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		rows, err := fetcher.ReadCSVRecords(ctx, f, fetcher.CSVOptions{})
		if err != nil {
			return nil, eris.Wrapf(err, "discovery: read %s", path)
		}
		return candidatesFromRows(rows), nil
	case ".xlsx":
		rows, err := fetcher.ReadXLSXRecords(ctx, path, fetcher.XLSXOptions{})
		if err != nil {
			return nil, eris.Wrapf(err, "discovery: read %s", path)
		}
		return candidatesFromRows(rows), nil
	default:
		return nil, eris.Errorf("discovery: unsupported candidate file %s (want .json, .csv or .xlsx)", path)
	}
}

func candidatesFromRows(rows []map[string]string) []model.Candidate {
	out := make([]model.Candidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, candidateFromRow(row))
	}
	return out
}

// candidateFromRow maps a spreadsheet row onto a Candidate. Header names are matched
// in snake_case or camelCase; list columns are split on ';' or '|'.
func candidateFromRow(row map[string]string) model.Candidate {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v := row[k]; v != "" {
				return v
			}
		}
		return ""
	}
	return model.Candidate{
		LocationSlug: get("location_slug", "locationslug", "location"),
		Name:         get("name", "business_name"),
		Website:      get("website", "url"),
		Email:        get("email"),
		Phone:        get("phone", "telephone"),
		City:         get("city"),
		Region:       get("region", "state", "province"),
		Country:      get("country"),
		Specialties:  splitList(get("specialties")),
		Services:     splitList(get("services")),
		SourceURL:    get("source_url", "sourceurl"),
		SourceType:   get("source_type", "sourcetype", "source"),
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' })
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
