package ops

import (
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/note"
	"github.com/hpungsan/jot/internal/store"
)

// ListTags returns every tag ever created.
func (s *Service) ListTags() ([]note.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Tags()
}

// TaggedNotes returns the user's active notes carrying the tag with the
// given label. The label must resolve to an existing tag (else UNKNOWN_TAG);
// the query never fabricates one.
func (s *Service) TaggedNotes(u note.User, label string) ([]note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tag, ok, err := store.FindTag(s.store, label)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewUnknownTag(label)
	}

	tagged, err := s.store.TaggedNotes(tag)
	if err != nil {
		return nil, err
	}

	owned := make([]note.Note, 0, len(tagged))
	for _, n := range tagged {
		if n.User == u.ID {
			owned = append(owned, n)
		}
	}
	return owned, nil
}
