package repository

import (
	"database/sql"
	"encoding/json"
)

// tags and stats live in TEXT columns as JSON.  These four functions are the
// only place that sees the raw text.  Decoding never fails: NULL, empty,
// malformed or wrongly shaped text yields an empty collection.

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	return string(b), err
}

func encodeStats(stats map[string]any) (string, error) {
	if stats == nil {
		stats = map[string]any{}
	}
	b, err := json.Marshal(stats)
	return string(b), err
}

func decodeTags(raw sql.NullString) []string {
	out := []string{}
	if !raw.Valid || raw.String == "" {
		return out
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw.String), &tags); err != nil || tags == nil {
		return out
	}
	return tags
}

func decodeStats(raw sql.NullString) map[string]any {
	out := map[string]any{}
	if !raw.Valid || raw.String == "" {
		return out
	}
	var stats map[string]any
	if err := json.Unmarshal([]byte(raw.String), &stats); err != nil || stats == nil {
		return out
	}
	return stats
}
