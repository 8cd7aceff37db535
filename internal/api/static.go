package api

import (
	"context"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/store"
)

// StaticSource serves a fixed set of locations, typically read from a
// dataset file.
type StaticSource struct {
	locations []model.Location
	bySlug    map[string]int
}

// NewStaticSource indexes locations by slug. For a repeated slug the first
// location wins.
func NewStaticSource(locations []model.Location) *StaticSource {
	s := &StaticSource{locations: locations, bySlug: make(map[string]int, len(locations))}
	for i, loc := range locations {
		if _, ok := s.bySlug[loc.Slug]; !ok {
			s.bySlug[loc.Slug] = i
		}
	}
	return s
}

func (s *StaticSource) GetLocation(_ context.Context, slug string) (*model.Location, error) {
	i, ok := s.bySlug[slug]
	if !ok {
		return nil, eris.Wrapf(store.ErrNotFound, "static: location %s", slug)
	}
	loc := s.locations[i]
	return &loc, nil
}

func (s *StaticSource) ListLocations(_ context.Context) ([]model.Location, error) {
	return slices.Clone(s.locations), nil
}
