package fetcher

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestReadJSONArray(t *testing.T) {
	input := `[{"id":1,"name":"alpha"},{"id":2,"name":"beta"}]`

	records, err := ReadJSONArray[testRecord](context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, testRecord{ID: 2, Name: "beta"}, records[1])
}

func TestReadJSONArray_Empty(t *testing.T) {
	records, err := ReadJSONArray[testRecord](context.Background(), strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = ReadJSONArray[testRecord](context.Background(), strings.NewReader(``))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadJSONArray_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"object", `{"id":1}`},
		{"bad element", `[{"id":"x"}]`},
		{"truncated", `[{"id":1},`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSONArray[testRecord](context.Background(), strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadJSONArray_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadJSONArray[testRecord](ctx, strings.NewReader(`[{"id":1}]`))
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]string{"url": "https://a.com/?x=1&y=2"}))
	assert.Equal(t, "{\n  \"url\": \"https://a.com/?x=1&y=2\"\n}\n", buf.String())
}

func TestReadCSVRecords(t *testing.T) {
	input := "\ufeffName , Website,Phone\nAcme, acme.com ,555-0100\nBravo,bravo.com\n"

	recs, err := ReadCSVRecords(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, map[string]string{"name": "Acme", "website": "acme.com", "phone": "555-0100"}, recs[0])
	assert.Equal(t, "", recs[1]["phone"])
}

func TestReadCSVRecords_Delimiter(t *testing.T) {
	recs, err := ReadCSVRecords(context.Background(), strings.NewReader("name;city\nAcme;Springfield\n"), CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Springfield", recs[0]["city"])
}

func TestReadCSVRecords_Empty(t *testing.T) {
	recs, err := ReadCSVRecords(context.Background(), strings.NewReader(""), CSVOptions{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}
