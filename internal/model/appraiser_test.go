package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrust(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Trust
		ok   bool
	}{
		{"verified", TrustVerified, true},
		{" Listed ", TrustListed, true},
		{"VERIFIED", TrustVerified, true},
		{"gold", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseTrust(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrustRank(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2, TrustVerified.Rank())
	assert.Equal(t, 1, TrustListed.Rank())
	assert.Equal(t, 0, Trust("other").Rank())
}

func TestAppraiser_Key(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a-slug", Appraiser{Slug: "a-slug", ID: "a-id"}.Key())
	assert.Equal(t, "a-id", Appraiser{ID: "a-id"}.Key())
	assert.Empty(t, Appraiser{}.Key())
}

func TestAppraiser_Rank(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2, Appraiser{Verified: true, Listed: true}.Rank())
	assert.Equal(t, 1, Appraiser{Listed: true}.Rank())
	assert.Equal(t, 0, Appraiser{}.Rank())
}

func TestAppraiser_PreservesLegacyFields(t *testing.T) {
	t.Parallel()

	input := `{
		"id": "springfield-acme",
		"name": "Acme Appraisals",
		"phone": "555-0100",
		"business": {"hours": "9-5"},
		"reviews": [{"rating": 5}],
		"metadata": {"featured": true}
	}`

	var a Appraiser
	require.NoError(t, json.Unmarshal([]byte(input), &a))
	assert.Equal(t, "springfield-acme", a.ID)
	assert.Equal(t, "Acme Appraisals", a.Name)
	require.Len(t, a.Extra, 3)
	assert.JSONEq(t, `{"hours":"9-5"}`, string(a.Extra["business"]))

	a.Verified = true
	out, err := json.Marshal(a)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, true, back["verified"])
	assert.Equal(t, map[string]any{"hours": "9-5"}, back["business"])
	assert.Equal(t, map[string]any{"featured": true}, back["metadata"])
	assert.Len(t, back["reviews"], 1)
}

func TestAppraiser_NoExtra(t *testing.T) {
	t.Parallel()

	var a Appraiser
	require.NoError(t, json.Unmarshal([]byte(`{"slug":"x","name":"X"}`), &a))
	assert.Nil(t, a.Extra)

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"slug":"x","name":"X"}`, string(out))
}

func TestLocation_RoundTrip(t *testing.T) {
	t.Parallel()

	input := `{"slug":"springfield","name":"Springfield","state":"IL","seo":{"title":"t"},"appraisers":[{"slug":"a","name":"A","content":"x"}]}`

	var l Location
	require.NoError(t, json.Unmarshal([]byte(input), &l))
	require.Len(t, l.Appraisers, 1)
	assert.Equal(t, "IL", l.State)
	assert.Contains(t, l.Extra, "seo")
	assert.Contains(t, l.Appraisers[0].Extra, "content")

	out, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestLocation_EmptyAppraisersMarshalAsArray(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Location{Slug: "s", Name: "S"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"slug":"s","name":"S","appraisers":[]}`, string(out))
}

func TestProvider_HasContact(t *testing.T) {
	t.Parallel()
	assert.False(t, Provider{}.HasContact())
	assert.True(t, Provider{Email: "a@b.co"}.HasContact())
	assert.True(t, Appraiser{Phone: "1"}.HasContact())
}
