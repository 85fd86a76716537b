package ops

import (
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/note"
	"github.com/hpungsan/jot/internal/store"
)

// AllNotes returns every active note regardless of owner. Used by the debug
// root route.
func (s *Service) AllNotes() ([]note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.store.Notes()
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// ListNotes returns the active notes owned by the user.
func (s *Service) ListNotes(u note.User) ([]note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.UserNotes(u)
}

// GetNote returns one note. The note must exist (else NOT_FOUND) and belong
// to the user (else UNAUTHORIZED).
func (s *Service) GetNote(u note.User, id note.ID) (note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getOwned(u, id)
}

// getOwned looks up an active note and checks ownership. Callers hold the
// mutex.
func (s *Service) getOwned(u note.User, id note.ID) (note.Note, error) {
	n, ok, err := store.FindNote(s.store, id)
	if err != nil {
		return note.Note{}, err
	}
	if !ok {
		return note.Note{}, errors.NewNotFound(formatID(id))
	}
	if n.User != u.ID {
		return note.Note{}, errors.NewUnauthorized()
	}
	return n, nil
}

// AddNote validates the draft and stores a new note owned by the user.
func (s *Service) AddNote(u note.User, d note.Draft) (note.Note, error) {
	if d.Title == "" {
		return note.Note{}, errors.NewInvalidRequest("title is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.AddNote(d, u)
}

// EditNote replaces the user's note at id wholesale from the draft. The
// owner recorded on the note survives the replacement.
func (s *Service) EditNote(u note.User, d note.Draft, id note.ID) (note.Note, error) {
	if d.Title == "" {
		return note.Note{}, errors.NewInvalidRequest("title is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getOwned(u, id); err != nil {
		return note.Note{}, err
	}
	return s.store.UpdateNote(d, id)
}

// RemoveNote soft-deletes the user's note at id.
func (s *Service) RemoveNote(u note.User, id note.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getOwned(u, id); err != nil {
		return err
	}
	ok, err := s.store.DeleteNote(id)
	if err != nil {
		return err
	}
	if !ok {
		// The note was just looked up under the same lock, so the slot has
		// to exist.
		return errors.NewInvariantViolation("note vanished between lookup and delete")
	}
	return nil
}
