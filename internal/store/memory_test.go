package store

import (
	"math"
	"testing"

	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/note"
)

// Engine-independent behavior is covered by the contract tests in
// engine_test.go. The tests here reach into Memory's backing slices to pin
// down the soft-delete and id-assignment internals.

func TestMemoryDeleteKeepsSlot(t *testing.T) {
	m := NewMemory()
	u := note.DefaultUser()

	mustAdd(t, m, draft("First", "1"), u)
	mustAdd(t, m, draft("Second", "2"), u)
	mustAdd(t, m, draft("Third", "3"), u)

	ok, err := m.DeleteNote(1)
	if err != nil || !ok {
		t.Fatalf("DeleteNote = %v, %v", ok, err)
	}

	if len(m.notes) != 3 {
		t.Errorf("underlying storage count = %d, want 3 (no physical removal)", len(m.notes))
	}
	notes, _ := m.Notes()
	if len(notes) != 2 {
		t.Errorf("len(Notes) = %d, want 2", len(notes))
	}
	if m.notes[1].Visibility != note.Deleted {
		t.Error("the deleted slot should keep the note with Deleted visibility")
	}
}

func TestMemoryDeleteMissingLeavesStorage(t *testing.T) {
	m := NewMemory()
	mustAdd(t, m, draft("Only", "1"), note.DefaultUser())

	ok, err := m.DeleteNote(666)
	if err != nil || ok {
		t.Fatalf("DeleteNote(666) = %v, %v, want false, nil", ok, err)
	}
	if len(m.notes) != 1 || len(m.tags) != 0 {
		t.Error("a failed delete must leave all storage unchanged")
	}
}

func TestMemoryMaxIDIsAbsent(t *testing.T) {
	// Ids near the top of the uint64 range wrap negative when narrowed to
	// int, so the bounds checks must compare in uint64 space.
	m := NewMemory()
	mustAdd(t, m, draft("Only", "1"), note.DefaultUser())

	ok, err := m.DeleteNote(note.ID(math.MaxUint64))
	if err != nil || ok {
		t.Fatalf("DeleteNote(MaxUint64) = %v, %v, want false, nil", ok, err)
	}

	if _, err := m.UpdateNote(draft("New", "new"), note.ID(math.MaxUint64)); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("UpdateNote(MaxUint64) should return NOT_FOUND, got %v", err)
	}

	if len(m.notes) != 1 || len(m.tags) != 0 {
		t.Error("absent-id operations must leave all storage unchanged")
	}
}

func TestMemoryIDsArePositional(t *testing.T) {
	m := NewMemory()
	u := note.DefaultUser()

	mustAdd(t, m, draft("A", "a", "x"), u)
	n := mustAdd(t, m, draft("B", "b", "y"), u)

	if n.ID != 1 {
		t.Errorf("second note id = %d, want 1", n.ID)
	}
	if m.notes[1].ID != 1 {
		t.Error("note id should equal its slice index")
	}
	if m.tags[1].Label != "y" || m.tags[1].ID != 1 {
		t.Errorf("tag ids should be positional, got %+v", m.tags[1])
	}
}

func TestMemoryUpdateDoesNotGrowStorage(t *testing.T) {
	m := NewMemory()
	u := note.DefaultUser()

	mustAdd(t, m, draft("A", "a"), u)
	mustAdd(t, m, draft("B", "b"), u)
	mustAdd(t, m, draft("C", "c"), u)

	if _, err := m.UpdateNote(draft("B2", "b2", "foo", "bar"), 1); err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}

	if len(m.notes) != 3 {
		t.Errorf("underlying storage count = %d, want 3", len(m.notes))
	}
	if len(m.tags) != 2 {
		t.Errorf("tag storage count = %d, want 2", len(m.tags))
	}
}

func TestMemorySnapshotsAreCopies(t *testing.T) {
	m := NewMemory()
	mustAdd(t, m, draft("A", "a", "foo"), note.DefaultUser())

	notes, _ := m.Notes()
	notes[0].Title = "mutated"
	notes[0].Tags.Add(note.Tag{ID: 99, Label: "smuggled"})

	again, _ := m.Notes()
	if again[0].Title != "A" {
		t.Error("mutating a returned snapshot must not affect storage")
	}
	if again[0].Tags.Len() != 1 {
		t.Error("a snapshot's tag set must be independent of storage")
	}
}
