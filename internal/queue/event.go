// Package queue defines the change events the admin API publishes and the
// consumer that turns them into an audit log.
package queue

// Event kinds published after a successful admin mutation.
const (
	ProjectCreated  = "project.created"
	ProjectUpdated  = "project.updated"
	ProjectDeleted  = "project.deleted"
	ContentUpserted = "content.upserted"
)

// ContentChangedEvent describes one admin write.  Exactly one of ProjectID or
// ContentKey is meaningful, depending on Kind.
type ContentChangedEvent struct {
	Kind       string `json:"kind"`
	ProjectID  uint64 `json:"project_id,omitempty"`
	ContentKey string `json:"content_key,omitempty"`
	Title      string `json:"title,omitempty"`
	Admin      string `json:"admin"`
	Matched    bool   `json:"matched"`
	OccurredAt string `json:"occurred_at"`
}
