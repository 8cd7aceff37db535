package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/dataset"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/provider"
	"github.com/sells-group/directory-cli/internal/rank"
	"github.com/sells-group/directory-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck,gosec
		return nil, err
	}
	return st, nil
}

// parseSourceFlag parses "path" or "path:trust". A suffix that is not a
// trust tier stays part of the path.
func parseSourceFlag(s string) provider.SourceRef {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, ":"); i > 0 {
		if t, ok := model.ParseTrust(s[i+1:]); ok {
			return provider.SourceRef{Path: s[:i], DefaultTrust: t}
		}
	}
	return provider.SourceRef{Path: s, DefaultTrust: model.TrustListed}
}

// sourceRefs returns the sources named by flags, or the configured ones when
// no flag was given. An unusable configured default trust falls back to
// listed.
func sourceRefs(flags []string) []provider.SourceRef {
	if len(flags) > 0 {
		refs := make([]provider.SourceRef, 0, len(flags))
		for _, f := range flags {
			refs = append(refs, parseSourceFlag(f))
		}
		return refs
	}
	refs := make([]provider.SourceRef, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		t, ok := model.ParseTrust(s.DefaultTrust)
		if !ok {
			zap.L().Warn("source default trust invalid, using listed",
				zap.String("path", s.Path),
				zap.String("default_trust", s.DefaultTrust),
			)
			t = model.TrustListed
		}
		refs = append(refs, provider.SourceRef{Path: s.Path, DefaultTrust: t})
	}
	return refs
}

func newLoader() *provider.Loader {
	return provider.NewLoader(provider.Options{
		MaxListItems:   cfg.Loader.MaxListItems,
		MaxItemLength:  cfg.Loader.MaxItemLength,
		MaxNotesLength: cfg.Loader.MaxTextLength,
	})
}

func newRanker() (*rank.Ranker, error) {
	if cfg.Ranking.PolicyFile != "" {
		p, err := rank.LoadPolicy(cfg.Ranking.PolicyFile)
		if err != nil {
			return nil, err
		}
		return rank.New(p), nil
	}
	return rank.New(rank.Policy{
		TrustFirstLocations: cfg.Ranking.TrustFirstLocations,
		MinVerified:         cfg.Ranking.MinVerified,
		MinListed:           cfg.Ranking.MinListed,
	}), nil
}

// loadLocations reads the dataset at path, or the base dataset when path is
// empty. Without either, locations come from the store.
func loadLocations(ctx context.Context, path string) ([]model.Location, error) {
	if path == "" {
		path = cfg.Dataset.BasePath
	}
	if path != "" {
		return dataset.Read(ctx, path)
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close() //nolint:errcheck

	locs, err := st.ListLocations(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load locations from store")
	}
	return locs, nil
}
