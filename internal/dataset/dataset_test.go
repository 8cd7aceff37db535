package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/directory-cli/internal/model"
)

const sample = `[
  {
    "slug": "springfield",
    "name": "Springfield",
    "state": "IL",
    "heroImage": "/img/springfield.jpg",
    "appraisers": [
      {"id": "a1", "slug": "acme", "name": "Acme Appraisals", "rating": 4.8}
    ]
  },
  {"slug": "smallville", "name": "Smallville", "appraisers": []}
]`

func TestReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte(sample), 0o644))

	locs, err := Read(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "springfield", locs[0].Slug)
	require.Len(t, locs[0].Appraisers, 1)
	assert.Equal(t, "acme", locs[0].Appraisers[0].Slug)

	out := filepath.Join(dir, "nested", "out.json")
	require.NoError(t, Write(out, locs))

	again, err := Read(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, locs, again)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"heroImage": "/img/springfield.jpg"`)
	assert.Contains(t, string(raw), `"rating": 4.8`)

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestWriteNil(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, Write(out, nil))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}

func TestWrite_FileMode(t *testing.T) {
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh.json")
	require.NoError(t, Write(fresh, nil))
	fi, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())

	existing := filepath.Join(dir, "existing.json")
	require.NoError(t, os.WriteFile(existing, []byte("[]"), 0o600))
	require.NoError(t, os.Chmod(existing, 0o640))
	require.NoError(t, Write(existing, []model.Location{{Slug: "a", Name: "A"}}))
	fi, err = os.Stat(existing)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(context.Background(), filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	obj := filepath.Join(dir, "obj.json")
	require.NoError(t, os.WriteFile(obj, []byte(`{"slug":"x"}`), 0o644))
	_, err = Read(context.Background(), obj)
	assert.Error(t, err)

	dup := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(dup, []byte(`[{"slug":"a"},{"slug":"a"}]`), 0o644))
	_, err = Read(context.Background(), dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate location slug "a"`)
}

func TestFind(t *testing.T) {
	locs := []model.Location{{Slug: "a", Name: "A"}, {Slug: "b", Name: "B"}}

	loc, ok := Find(locs, "b")
	assert.True(t, ok)
	assert.Equal(t, "B", loc.Name)

	_, ok = Find(locs, "c")
	assert.False(t, ok)
}
