package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Project is a portfolio entry as stored in the `projects` table and as
// returned by the API.  Tags and Stats are structured here; the repository
// converts them to and from their TEXT columns.
type Project struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	RepoURL     string         `json:"repo_url"`
	DemoURL     string         `json:"demo_url"`
	Tags        []string       `json:"tags"`
	Stats       map[string]any `json:"stats"`
	Order       int            `json:"order"`
	Active      bool           `json:"active"`
}

// Flag is a boolean that also decodes from the 0/1 integers stored in the
// active column, so a client can echo back what it read.  A nil *Flag means
// the field was absent from the request.
type Flag bool

// UnmarshalJSON accepts true/false, numbers (non-zero is true) and the
// strings "true"/"false"/"1"/"0".
func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = false
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = Flag(t)
	case float64:
		*f = t != 0
	case string:
		switch t {
		case "true", "1":
			*f = true
		case "false", "0", "":
			*f = false
		default:
			return fmt.Errorf("invalid flag %q", t)
		}
	default:
		return fmt.Errorf("invalid flag %s", string(b))
	}
	return nil
}

// ProjectInput is the writable part of a project as accepted by the create
// and update endpoints.  DemoURL and Order are optional: absent on create
// they take the column defaults, absent on update they keep the stored value.
type ProjectInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	RepoURL     string         `json:"repo_url"`
	DemoURL     *string        `json:"demo_url,omitempty"`
	Tags        []string       `json:"tags"`
	Stats       map[string]any `json:"stats"`
	Order       *int           `json:"order,omitempty"`
	Active      *Flag          `json:"active"`
}

// ActiveOrDefault reports the requested active flag, defaulting to true
// like the column does.
func (in ProjectInput) ActiveOrDefault() bool {
	if in.Active == nil {
		return true
	}
	return bool(*in.Active)
}

// ToProject materialises the input as a new Project with the given id.
func (in ProjectInput) ToProject(id uint64) Project {
	p := Project{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		RepoURL:     in.RepoURL,
		Tags:        in.Tags,
		Stats:       in.Stats,
		Active:      in.ActiveOrDefault(),
	}
	if in.DemoURL != nil {
		p.DemoURL = *in.DemoURL
	}
	if in.Order != nil {
		p.Order = *in.Order
	}
	return p
}
