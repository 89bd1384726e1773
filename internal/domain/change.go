package domain

import (
	"github.com/google/uuid"
)

type ChangeOp string

const (
	ChangeInsert ChangeOp = "insert"
	ChangeUpdate ChangeOp = "update"
	ChangeDelete ChangeOp = "delete"
)

// ChangeEvent describes one row change on a tenant-scoped table. Events are
// delivered at most once per change; ordering is guaranteed only per table
// within one tenant channel.
type ChangeEvent struct {
	Table    string         `json:"table"`
	Op       ChangeOp       `json:"op"`
	TenantID uuid.UUID      `json:"tenant_id"`
	Before   map[string]any `json:"before,omitempty"`
	After    map[string]any `json:"after,omitempty"`
}

// Field returns a string column value from the event payload, preferring the
// post-image. Deletes only carry a pre-image.
func (e ChangeEvent) Field(name string) string {
	if v, ok := e.After[name].(string); ok {
		return v
	}
	if v, ok := e.Before[name].(string); ok {
		return v
	}
	return ""
}
