package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeNilCollections(t *testing.T) {
	tags, err := encodeTags(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", tags)

	stats, err := encodeStats(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", stats)
}

func TestDecodeTagsFallback(t *testing.T) {
	cases := []sql.NullString{
		{},
		{String: "", Valid: true},
		{String: "not json", Valid: true},
		{String: `{"a":1}`, Valid: true},
		{String: "null", Valid: true},
		{String: `[1,2]`, Valid: true},
	}
	for _, c := range cases {
		got := decodeTags(c)
		assert.NotNil(t, got, c.String)
		assert.Empty(t, got, c.String)
	}

	assert.Equal(t, []string{"Go", "SQL"}, decodeTags(sql.NullString{String: `["Go","SQL"]`, Valid: true}))
}

func TestDecodeStatsFallback(t *testing.T) {
	cases := []sql.NullString{
		{},
		{String: "", Valid: true},
		{String: "{", Valid: true},
		{String: `["a"]`, Valid: true},
		{String: "null", Valid: true},
	}
	for _, c := range cases {
		got := decodeStats(c)
		assert.NotNil(t, got, c.String)
		assert.Empty(t, got, c.String)
	}

	assert.Equal(t, map[string]any{"TPS": "20.0"}, decodeStats(sql.NullString{String: `{"TPS":"20.0"}`, Valid: true}))
}
