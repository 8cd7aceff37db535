// Package api serves ranked location listings over HTTP for the page
// renderer and review tooling. It is read-only.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/rank"
	"github.com/sells-group/directory-cli/internal/store"
)

// LocationSource provides the locations the API serves. store.Store
// satisfies it, as does StaticSource.
type LocationSource interface {
	GetLocation(ctx context.Context, slug string) (*model.Location, error)
	ListLocations(ctx context.Context) ([]model.Location, error)
}

// Options configures the router.
type Options struct {
	CORSOrigins []string
	RateLimit   float64 // requests per second; <= 0 disables limiting
	RateBurst   int
}

// LocationSummary is one row of GET /locations.
type LocationSummary struct {
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	State    string    `json:"state,omitempty"`
	Mode     rank.Mode `json:"mode"`
	Verified int       `json:"verified"`
	Listed   int       `json:"listed"`
	Shown    int       `json:"shown"`
}

type handler struct {
	src    LocationSource
	ranker *rank.Ranker
}

// NewRouter builds the API handler.
func NewRouter(src LocationSource, ranker *rank.Ranker, opts Options) http.Handler {
	h := &handler{src: src, ranker: ranker}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = max(1, int(math.Ceil(opts.RateLimit)))
		}
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), burst)))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/locations", func(r chi.Router) {
		r.Get("/", h.listLocations)
		r.Get("/{slug}", h.getLocation)
		r.Get("/{slug}/appraisers/{appraiser}", h.getAppraiser)
	})
	return r
}

func (h *handler) listLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.src.ListLocations(r.Context())
	if err != nil {
		zap.L().Error("api: list locations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list locations")
		return
	}
	out := make([]LocationSummary, 0, len(locs))
	for _, loc := range locs {
		sel := h.ranker.SelectLocation(loc)
		out = append(out, LocationSummary{
			Slug:     loc.Slug,
			Name:     loc.Name,
			State:    loc.State,
			Mode:     sel.Mode,
			Verified: sel.Verified,
			Listed:   sel.Listed,
			Shown:    len(sel.Appraisers),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getLocation(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.ranker.SelectLocation(*loc))
}

// getAppraiser returns one entry of a location by slug or id, shown or not.
func (h *handler) getAppraiser(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.lookup(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "appraiser")
	for _, a := range loc.Appraisers {
		if a.Key() == key {
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	writeError(w, http.StatusNotFound, "appraiser not found")
}

func (h *handler) lookup(w http.ResponseWriter, r *http.Request) (*model.Location, bool) {
	slug := chi.URLParam(r, "slug")
	loc, err := h.src.GetLocation(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "location not found")
		return nil, false
	}
	if err != nil {
		zap.L().Error("api: get location", zap.String("slug", slug), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load location")
		return nil, false
	}
	return loc, true
}

func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
