package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/note"
	"github.com/hpungsan/jot/internal/store"
)

// TestFullWorkflow exercises the complete note lifecycle against the SQLite
// engine: add → get → edit → list → tagged → remove → get (not found).
func TestFullWorkflow(t *testing.T) {
	engine, err := store.OpenSQLite(t.TempDir())
	require.NoError(t, err)
	defer engine.Close()

	s := NewService(engine)
	u := note.DefaultUser()

	// 1. Add
	added, err := s.AddNote(u, publicDraft("Reading list", "books to read", "reading", "todo"))
	require.NoError(t, err)
	require.Equal(t, note.ID(0), added.ID)
	require.Equal(t, u.ID, added.User)

	// 2. Get
	got, err := s.GetNote(u, added.ID)
	require.NoError(t, err)
	require.Equal(t, "Reading list", got.Title)
	require.Equal(t, 2, got.Tags.Len())

	// 3. Edit — tags resolve against the existing vocabulary
	updated, err := s.EditNote(u, note.Draft{
		Title:      "Reading list 2026",
		Body:       "books to read this year",
		Tags:       []string{"reading"},
		Visibility: note.Private,
	}, added.ID)
	require.NoError(t, err)
	require.Equal(t, "Reading list 2026", updated.Title)
	require.Equal(t, u.ID, updated.User)

	tags, err := s.ListTags()
	require.NoError(t, err)
	require.Len(t, tags, 2, "editing must reuse existing tags")

	// 4. List
	listed, err := s.ListNotes(u)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// 5. Tagged query
	tagged, err := s.TaggedNotes(u, "reading")
	require.NoError(t, err)
	require.Len(t, tagged, 1)

	// The edit dropped the "todo" tag, but the tag itself still exists.
	tagged, err = s.TaggedNotes(u, "todo")
	require.NoError(t, err)
	require.Empty(t, tagged)

	// 6. Remove (soft)
	require.NoError(t, s.RemoveNote(u, added.ID))

	// 7. Gone from every view
	_, err = s.GetNote(u, added.ID)
	require.True(t, errors.Is(err, errors.ErrNotFound))

	listed, err = s.ListNotes(u)
	require.NoError(t, err)
	require.Empty(t, listed)
}
