package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/directory-cli/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const oneProvider = `[{
	"locationSlug": "springfield",
	"slug": "springfield-acme",
	"name": "Acme Appraisals",
	"website": "https://acme.com",
	"verification": {"sourceUrl": "https://realappraiser.biz/profile/12", "verifiedAt": "2024-05-01"}
}]`

func TestReadSource(t *testing.T) {
	path := writeFile(t, t.TempDir(), "verified.json", oneProvider)

	src, err := ReadSource(SourceRef{Path: path, DefaultTrust: "Verified"})
	require.NoError(t, err)
	assert.Equal(t, "verified.json", src.Name)
	assert.Equal(t, model.TrustVerified, src.DefaultTrust)
	require.Len(t, src.Records, 1)
}

func TestReadSource_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		ref SourceRef
	}{
		{"missing file", SourceRef{Path: filepath.Join(dir, "nope.json"), DefaultTrust: model.TrustListed}},
		{"invalid json", SourceRef{Path: writeFile(t, dir, "bad.json", `[{`), DefaultTrust: model.TrustListed}},
		{"object payload", SourceRef{Path: writeFile(t, dir, "obj.json", `{"providers": []}`), DefaultTrust: model.TrustListed}},
		{"bad trust", SourceRef{Path: writeFile(t, dir, "ok.json", `[]`), DefaultTrust: "gold"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSource(tt.ref)
			assert.Error(t, err)
		})
	}
}

func TestSourceFromPayload(t *testing.T) {
	_, err := SourceFromPayload("s", map[string]any{}, model.TrustListed)
	assert.Error(t, err)

	src, err := SourceFromPayload("s", []any{map[string]any{}}, model.TrustListed)
	require.NoError(t, err)
	assert.Len(t, src.Records, 1)
}

func TestLoadFiles_FailedSourceDoesNotAbortOthers(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "listed.json", oneProvider)
	bad := writeFile(t, dir, "broken.json", `{"not": "an array"}`)

	res, err := NewLoader(Options{}).LoadFiles(context.Background(), []SourceRef{
		{Path: bad, DefaultTrust: model.TrustVerified},
		{Path: good, DefaultTrust: model.TrustListed},
	}, nil)
	require.NoError(t, err)

	require.Len(t, res.Providers, 1)
	assert.Equal(t, model.TrustListed, res.Providers[0].Trust)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "broken.json")
}

func TestLoadFiles_KeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", oneProvider)
	b := writeFile(t, dir, "b.json", oneProvider)

	res, err := NewLoader(Options{}).LoadFiles(context.Background(), []SourceRef{
		{Path: a, DefaultTrust: model.TrustVerified},
		{Path: b, DefaultTrust: model.TrustListed},
	}, nil)
	require.NoError(t, err)

	require.Len(t, res.Providers, 1)
	assert.Equal(t, model.TrustVerified, res.Providers[0].Trust)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "b.json[0]: duplicate")
}

func TestLoadFiles_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeFile(t, t.TempDir(), "a.json", oneProvider)
	_, err := NewLoader(Options{}).LoadFiles(ctx, []SourceRef{{Path: path, DefaultTrust: model.TrustListed}}, nil)
	assert.Error(t, err)
}
