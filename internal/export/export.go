// Package export writes review workbooks of ranked location listings.
package export

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/rank"
)

// SummarySheet is the name of the first sheet of every workbook.
const SummarySheet = "Summary"

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

var summaryHeader = []string{"Location", "Name", "State", "Mode", "Verified", "Listed", "Shown"}

var listingHeader = []string{
	"Rank", "Name", "Trust", "Slug", "Website", "Email", "Phone", "City", "Region",
	"Specialties", "Services", "Source URL", "Verified At",
}

// Workbook builds a workbook with a summary sheet and one sheet per location
// holding the entries its page shows, in display order.
func Workbook(locations []model.Location, ranker *rank.Ranker) (*xlsx.File, error) {
	f := xlsx.NewFile()

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return nil, eris.Wrap(err, "export: add summary sheet")
	}
	addRow(summary, summaryHeader...)

	used := map[string]bool{SummarySheet: true}
	for _, loc := range locations {
		sel := ranker.SelectLocation(loc)
		addRow(summary, loc.Slug, loc.Name, loc.State, string(sel.Mode),
			strconv.Itoa(sel.Verified), strconv.Itoa(sel.Listed), strconv.Itoa(len(sel.Appraisers)))

		name := sheetName(loc.Slug, used)
		sheet, err := f.AddSheet(name)
		if err != nil {
			return nil, eris.Wrapf(err, "export: add sheet for %s", loc.Slug)
		}
		addRow(sheet, listingHeader...)
		for i, a := range sel.Appraisers {
			addRow(sheet, listingRow(i+1, a)...)
		}
	}
	return f, nil
}

// WriteWorkbook builds the workbook and saves it to path.
func WriteWorkbook(path string, locations []model.Location, ranker *rank.Ranker) error {
	f, err := Workbook(locations, ranker)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func listingRow(pos int, a model.Appraiser) []string {
	trust := ""
	switch {
	case a.Verified:
		trust = string(model.TrustVerified)
	case a.Listed:
		trust = string(model.TrustListed)
	}
	var city, region, sourceURL, verifiedAt string
	if a.Address != nil {
		city, region = a.Address.City, a.Address.Region
	}
	if a.Verification != nil {
		sourceURL, verifiedAt = a.Verification.SourceURL, a.Verification.VerifiedAt
	}
	return []string{
		strconv.Itoa(pos), a.Name, trust, a.Key(), a.Website, a.Email, a.Phone, city, region,
		strings.Join(a.Specialties, "; "), strings.Join(a.Services, "; "), sourceURL, verifiedAt,
	}
}

// sheetName derives a unique sheet name from a location slug within Excel's
// length limit. Characters Excel rejects never appear in slugs.
func sheetName(slug string, used map[string]bool) string {
	base := slug
	if base == "" {
		base = "location"
	}
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}
	name := base
	for n := 2; used[name]; n++ {
		suffix := "-" + strconv.Itoa(n)
		cut := min(len(base), maxSheetName-len(suffix))
		name = base[:cut] + suffix
	}
	used[name] = true
	return name
}

func addRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}
