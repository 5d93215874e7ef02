package model

// ContentEntry is one named text block in the `content` table, e.g. the hero
// copy or the bio.  Key is unique.
type ContentEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
