package gamedata

import "fmt"

// RefKind names the kind of content reference that could not be resolved.
type RefKind string

const (
	RefText   RefKind = "text"
	RefEntity RefKind = "entity"
	RefState  RefKind = "state"
	RefFloor  RefKind = "floor"
	RefRoom   RefKind = "room"
	RefItem   RefKind = "item"
	RefFile   RefKind = "file"
)

// ContentReferenceError reports an authoring mistake: content that points at
// text, entities, states, floors, items or files that do not exist. It aborts the
// interaction that triggered it and nothing else.
type ContentReferenceError struct {
	Kind RefKind
	Ref  string
}

// NewContentReferenceError builds a ContentReferenceError for the given reference.
func NewContentReferenceError(kind RefKind, ref string) *ContentReferenceError {
	return &ContentReferenceError{Kind: kind, Ref: ref}
}

func (e *ContentReferenceError) Error() string {
	return fmt.Sprintf("content reference: unknown %s %q", e.Kind, e.Ref)
}
