package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/directory-cli/internal/model"
)

// SourceRef names a provider file on disk and its default trust tier.
type SourceRef struct {
	Path         string      `yaml:"path" mapstructure:"path"`
	DefaultTrust model.Trust `yaml:"default_trust" mapstructure:"default_trust"`
}

// payloadSchema is the only structural requirement on a source file: the top
// level must be an array. Per-record problems are reported by Load.
var payloadSchema = gojsonschema.NewStringLoader(`{"type": "array"}`)

// SourceFromPayload wraps an already-decoded payload. It fails when the
// payload is not an array.
func SourceFromPayload(name string, payload any, trust model.Trust) (Source, error) {
	records, ok := payload.([]any)
	if !ok {
		return Source{}, eris.Errorf("provider: source %s: payload is %T, want array", name, payload)
	}
	return Source{Name: name, Records: records, DefaultTrust: trust}, nil
}

// ReadSource reads and decodes one provider file. Unreadable files, invalid
// JSON and non-array payloads are errors.
func ReadSource(ref SourceRef) (Source, error) {
	name := filepath.Base(ref.Path)
	trust, ok := model.ParseTrust(string(ref.DefaultTrust))
	if !ok {
		return Source{}, eris.Errorf("provider: source %s: invalid default trust %q", name, ref.DefaultTrust)
	}

	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return Source{}, eris.Wrapf(err, "provider: read source %s", ref.Path)
	}

	result, err := gojsonschema.Validate(payloadSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Source{}, eris.Wrapf(err, "provider: parse source %s", ref.Path)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Source{}, eris.Errorf("provider: source %s: %s", ref.Path, strings.Join(msgs, "; "))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return Source{}, eris.Wrapf(err, "provider: decode source %s", ref.Path)
	}
	return SourceFromPayload(name, payload, trust)
}

// SourceError pairs a source path with the error that aborted it.
type SourceError struct {
	Path string
	Err  error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Path, e.Err)
}

// ReadSources reads every ref concurrently. The returned sources keep ref
// order; a source that fails is left out and reported in the error slice
// without affecting the others.
func ReadSources(ctx context.Context, refs []SourceRef) ([]Source, []SourceError, error) {
	slots := make([]*Source, len(refs))
	failures := make([]error, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, ref := range refs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			src, err := ReadSource(ref)
			if err != nil {
				failures[i] = err
				return nil
			}
			slots[i] = &src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, eris.Wrap(err, "provider: read sources")
	}

	var sources []Source
	var errs []SourceError
	for i, ref := range refs {
		if failures[i] != nil {
			zap.L().Warn("provider: source skipped", zap.String("path", ref.Path), zap.Error(failures[i]))
			errs = append(errs, SourceError{Path: ref.Path, Err: failures[i]})
			continue
		}
		sources = append(sources, *slots[i])
	}
	return sources, errs, nil
}

// LoadFiles reads and validates the given files in order. Sources that could
// not be read are reported as error lines alongside record errors.
func (l *Loader) LoadFiles(ctx context.Context, refs []SourceRef, reg *SlugRegistry) (Result, error) {
	sources, failed, err := ReadSources(ctx, refs)
	if err != nil {
		return Result{}, err
	}
	res := l.Load(sources, reg)
	for _, f := range failed {
		res.Errors = append(res.Errors, f.Error())
	}

	zap.L().Info("provider: load complete",
		zap.Int("sources", len(refs)),
		zap.Int("failed_sources", len(failed)),
		zap.Int("providers", len(res.Providers)),
		zap.Int("errors", len(res.Errors)),
	)
	return res, nil
}
