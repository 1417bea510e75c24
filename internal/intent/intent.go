// Package intent describes proposed write operations and the policy that may veto them
// before they commit.
package intent

import "mycarts/internal/domain"

// Op is the kind of write an intent proposes.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Target is the resource an intent acts on. For creates ID is empty and Attributes holds the
// pending attributes; otherwise Attributes holds the resource's current attributes.
type Target struct {
	Type       string
	ID         string
	Attributes map[string]interface{}
}

// Get returns a single attribute of the target, or nil.
func (t Target) Get(key string) interface{} {
	if t.Attributes == nil {
		return nil
	}
	return t.Attributes[key]
}

// Intent is a proposed operation. It lives only for the duration of one dispatch.
type Intent struct {
	Subject domain.User
	Op      Op
	Target  Target
	Data    map[string]interface{}
}
