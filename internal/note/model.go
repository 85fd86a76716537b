// Package note contains the entity model for the note service: keys, tags,
// users, visibility, and the Note/Draft pair. The types are plain values
// shaped so that both relational and document-style backends can store them.
package note

import (
	"encoding/json"
	"fmt"
)

// ID is a primary and/or foreign key. Notes and tags have independent ID
// spaces; both start at 0 and are assigned sequentially by the store.
type ID uint64

// Tag is a label attached to individual notes. Tags are immutable once
// created: they are never renamed or removed, so note-tag associations stay
// valid for the lifetime of the store. Equality is by the full value.
type Tag struct {
	ID    ID     `json:"id"`
	Label string `json:"label"`
}

// User identifies a note owner. User management is not built in yet;
// DefaultUser is the only identity requests resolve to.
type User struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// DefaultUser returns the placeholder identity (id 0) every request
// currently resolves to.
func DefaultUser() User {
	return User{}
}

// Visibility controls whether a note is private or public. It doubles as the
// soft-delete marker: Deleted notes keep their storage slot but are excluded
// from every enumeration.
type Visibility int

const (
	Private Visibility = iota
	Public
	Deleted
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "Private"
	case Public:
		return "Public"
	case Deleted:
		return "Deleted"
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

// MarshalJSON encodes the visibility as its variant name.
func (v Visibility) MarshalJSON() ([]byte, error) {
	switch v {
	case Private, Public, Deleted:
		return json.Marshal(v.String())
	}
	return nil, fmt.Errorf("invalid visibility %d", int(v))
}

// UnmarshalJSON decodes one of "Private", "Public", "Deleted".
func (v *Visibility) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "Private":
		*v = Private
	case "Public":
		*v = Public
	case "Deleted":
		*v = Deleted
	default:
		return fmt.Errorf("unknown visibility %q", s)
	}
	return nil
}
