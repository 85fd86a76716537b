package store

import (
	"fmt"

	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/note"
)

// Memory is the in-memory reference engine. Notes and tags live in two
// append-only slices; ids are simply the positional indices at creation
// time. Soft-deleted notes keep their slot forever, so ids stay stable.
//
// Memory is not safe for concurrent use; callers serialize access per the
// Persister contract.
type Memory struct {
	notes []note.Note
	tags  []note.Tag
}

// NewMemory creates an empty in-memory engine.
func NewMemory() *Memory {
	return &Memory{}
}

// mapTags resolves draft labels into a tag set, creating tags for unknown
// labels. The scan is linear over existing tags per label, which is fine at
// reference scale and deliberately not optimized for large vocabularies.
// Duplicate labels within one draft collapse to a single entry.
func (m *Memory) mapTags(labels []string) note.Tags {
	tags := note.NewTags()
	for _, label := range labels {
		found := false
		for _, existing := range m.tags {
			if existing.Label == label {
				tags.Add(existing)
				found = true
				break
			}
		}
		if !found {
			t := note.Tag{ID: note.ID(len(m.tags)), Label: label}
			tags.Add(t)
			m.tags = append(m.tags, t)
		}
	}
	return tags
}

// Notes returns snapshots of all active notes in storage order.
func (m *Memory) Notes() ([]note.Note, error) {
	out := make([]note.Note, 0, len(m.notes))
	for _, n := range m.notes {
		if n.Active() {
			out = append(out, n.Clone())
		}
	}
	return out, nil
}

// Tags returns snapshots of every tag ever created, in storage order.
func (m *Memory) Tags() ([]note.Tag, error) {
	out := make([]note.Tag, len(m.tags))
	copy(out, m.tags)
	return out, nil
}

// AddNote stores a new note built from the draft and returns it.
func (m *Memory) AddNote(d note.Draft, u note.User) (note.Note, error) {
	id := note.ID(len(m.notes))
	tags := m.mapTags(d.Tags)
	n := note.New(d, id, u.ID, tags)
	m.notes = append(m.notes, n)
	return n.Clone(), nil
}

// UpdateNote replaces the note at id wholesale, keeping the original owner.
func (m *Memory) UpdateNote(d note.Draft, id note.ID) (note.Note, error) {
	// Bounds check in uint64 space; converting to int first would wrap
	// huge ids negative.
	if uint64(id) >= uint64(len(m.notes)) {
		return note.Note{}, errors.NewNotFound(fmt.Sprintf("%d", id))
	}
	idx := int(id)
	tags := m.mapTags(d.Tags)
	n := note.New(d, id, m.notes[idx].User, tags)
	m.notes[idx] = n
	return n.Clone(), nil
}

// DeleteNote marks the note at id as Deleted. The slot is never removed.
func (m *Memory) DeleteNote(id note.ID) (bool, error) {
	if uint64(id) >= uint64(len(m.notes)) {
		return false, nil
	}
	m.notes[int(id)].Visibility = note.Deleted
	return true, nil
}

// UserNotes returns snapshots of the active notes owned by the user.
func (m *Memory) UserNotes(u note.User) ([]note.Note, error) {
	var out []note.Note
	for _, n := range m.notes {
		if n.User == u.ID && n.Active() {
			out = append(out, n.Clone())
		}
	}
	return out, nil
}

// TaggedNotes returns snapshots of the active notes carrying the tag.
func (m *Memory) TaggedNotes(t note.Tag) ([]note.Note, error) {
	var out []note.Note
	for _, n := range m.notes {
		if n.TaggedWith(t) && n.Active() {
			out = append(out, n.Clone())
		}
	}
	return out, nil
}

// AddTag returns the id of the tag with the exact label, creating it first
// if needed.
func (m *Memory) AddTag(label string) (note.ID, error) {
	for _, existing := range m.tags {
		if existing.Label == label {
			return existing.ID, nil
		}
	}
	id := note.ID(len(m.tags))
	m.tags = append(m.tags, note.Tag{ID: id, Label: label})
	return id, nil
}
