// Package store defines the persistence contract for notes and tags, and the
// engines that satisfy it. The contract decouples the business rules
// (ownership, visibility, tag deduplication) from storage technology; the
// caller must not rely on an engine for security or validity checks and has
// to filter the resulting data further in many cases.
package store

import "github.com/hpungsan/jot/internal/note"

// Persister is the set of storage operations a caller may perform,
// independent of the backing technology.
//
// Read methods return materialized snapshots that are only valid for the
// immediate response; the next write may change the backing storage.
// Engines are not safe for concurrent use. Callers hold one shared engine
// and serialize access: exclusive access for the duration of exactly one
// call, released before the next.
type Persister interface {
	// Notes returns all notes whose visibility is not Deleted, in storage
	// order.
	Notes() ([]note.Note, error)

	// Tags returns every tag ever created, in storage order.
	Tags() ([]note.Tag, error)

	// AddNote assigns the next sequential id, resolves or creates tags from
	// the draft's label list, fixes the owner, stores the note, and returns
	// the stored note.
	AddNote(d note.Draft, u note.User) (note.Note, error)

	// UpdateNote replaces the note at id wholesale from the draft while
	// preserving the original owner. Tag labels are resolved the same way
	// as in AddNote. If no note occupies the id, a NOT_FOUND error is
	// returned; the note is never created.
	UpdateNote(d note.Draft, id note.ID) (note.Note, error)

	// DeleteNote sets the note's visibility to Deleted if present and
	// reports whether a note occupied the id. The storage slot is never
	// freed or reindexed.
	DeleteNote(id note.ID) (bool, error)

	// UserNotes returns the active notes owned by the user, in storage
	// order.
	UserNotes(u note.User) ([]note.Note, error)

	// TaggedNotes returns the active notes whose tag set contains a tag
	// equal to t (full value match), in storage order.
	TaggedNotes(t note.Tag) ([]note.Note, error)

	// AddTag returns the id of an existing tag with the exact label, or
	// creates a new tag and returns its id.
	AddTag(label string) (note.ID, error)
}

// noteFinder is implemented by engines that can look up a note by id faster
// than scanning Notes.
type noteFinder interface {
	FindNote(id note.ID) (note.Note, bool, error)
}

// tagFinder is implemented by engines that can look up a tag by label faster
// than scanning Tags.
type tagFinder interface {
	FindTag(label string) (note.Tag, bool, error)
}

// FindNote returns the first active note with the given id. It is built on
// Notes, so soft-deleted notes are treated as absent. Engines with an
// indexed lookup can implement it themselves; the indexed path must keep the
// same deleted-is-absent semantics.
func FindNote(p Persister, id note.ID) (note.Note, bool, error) {
	if f, ok := p.(noteFinder); ok {
		return f.FindNote(id)
	}
	notes, err := p.Notes()
	if err != nil {
		return note.Note{}, false, err
	}
	for _, n := range notes {
		if n.ID == id {
			return n, true, nil
		}
	}
	return note.Note{}, false, nil
}

// FindTag returns the tag with the exact label, if any. Engines with an
// indexed lookup can implement it themselves.
func FindTag(p Persister, label string) (note.Tag, bool, error) {
	if f, ok := p.(tagFinder); ok {
		return f.FindTag(label)
	}
	tags, err := p.Tags()
	if err != nil {
		return note.Tag{}, false, err
	}
	for _, t := range tags {
		if t.Label == label {
			return t, true, nil
		}
	}
	return note.Tag{}, false, nil
}
