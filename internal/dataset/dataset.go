// Package dataset reads and writes the base directory dataset: a JSON array
// of locations, each carrying its ordered appraiser list.
package dataset

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/directory-cli/internal/fetcher"
	"github.com/sells-group/directory-cli/internal/model"
)

// Read loads every location from path.
func Read(ctx context.Context, path string) ([]model.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	locs, err := fetcher.ReadJSONArray[model.Location](ctx, f)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", path)
	}
	if dup := firstDuplicate(locs); dup != "" {
		return nil, eris.Errorf("dataset: %s: duplicate location slug %q", path, dup)
	}
	return locs, nil
}

// Write replaces path with locations. The file is written to a sibling temp
// file first and renamed into place so readers never see a partial dataset.
func Write(path string, locations []model.Location) error {
	if locations == nil {
		locations = []model.Location{}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "dataset: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return eris.Wrap(err, "dataset: create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := fetcher.WriteJSON(tmp, locations); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return eris.Wrapf(err, "dataset: write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "dataset: close temp file")
	}
	// CreateTemp makes 0600 files; keep the replaced file's mode instead.
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return eris.Wrap(err, "dataset: chmod temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "dataset: replace %s", path)
	}
	return nil
}

// Find returns the location with the given slug.
func Find(locations []model.Location, slug string) (model.Location, bool) {
	for _, loc := range locations {
		if loc.Slug == slug {
			return loc, true
		}
	}
	return model.Location{}, false
}

func firstDuplicate(locations []model.Location) string {
	seen := make(map[string]bool, len(locations))
	for _, loc := range locations {
		if loc.Slug == "" {
			continue
		}
		if seen[loc.Slug] {
			return loc.Slug
		}
		seen[loc.Slug] = true
	}
	return ""
}
