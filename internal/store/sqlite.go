package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/note"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// SQLite is the database-backed engine. It keeps the same visible semantics
// as Memory: ids are assigned sequentially from 0 per collection, deletion
// only flips visibility, and slots are never reused. Because rows are never
// physically removed, the next id is always the row count.
//
// SQLite overrides the derived FindNote/FindTag lookups with indexed
// queries.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at baseDir/jot.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.jot.
func OpenSQLite(baseDir string) (*SQLite, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, "jot.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return &SQLite{db: db}, nil
}

// ConfigurePool applies connection pool limits. Only sets limits for
// non-zero values. Call after OpenSQLite if you need to tune pool behavior
// for contention.
func (s *SQLite) ConfigurePool(maxOpen, maxIdle int) {
	if maxOpen > 0 {
		s.db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		s.db.SetMaxIdleConns(maxIdle)
	}
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// verifyWALMode checks that WAL journaling is active.
func verifyWALMode(db *sql.DB) error {
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		return fmt.Errorf("failed to check journal mode: %w", err)
	}
	if mode != "wal" {
		return fmt.Errorf("expected WAL journal mode, got %q", mode)
	}
	return nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read user_version: %w", err)
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS notes (
		  id         INTEGER PRIMARY KEY,
		  title      TEXT NOT NULL,
		  body       TEXT NOT NULL,
		  user       INTEGER NOT NULL,
		  visibility TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tags (
		  id    INTEGER PRIMARY KEY,
		  label TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS note_tags (
		  note_id INTEGER NOT NULL REFERENCES notes(id),
		  tag_id  INTEGER NOT NULL REFERENCES tags(id),
		  PRIMARY KEY (note_id, tag_id)
		);

		CREATE INDEX IF NOT EXISTS idx_notes_user
		ON notes(user)
		WHERE visibility != 'Deleted';

		CREATE INDEX IF NOT EXISTS idx_note_tags_tag
		ON note_tags(tag_id);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
		if _, err := db.Exec("PRAGMA user_version = 1"); err != nil {
			return fmt.Errorf("failed to set user_version: %w", err)
		}
	}

	return nil
}

func parseVisibility(s string) (note.Visibility, error) {
	switch s {
	case "Private":
		return note.Private, nil
	case "Public":
		return note.Public, nil
	case "Deleted":
		return note.Deleted, nil
	}
	return 0, fmt.Errorf("unknown visibility %q in storage", s)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// tagSets loads the full note→tags association into memory. Reads return
// materialized snapshots anyway, so one pass over the join table is simpler
// than a per-note query.
func tagSets(q queryer) (map[note.ID]note.Tags, error) {
	rows, err := q.Query(`
		SELECT nt.note_id, t.id, t.label
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	sets := make(map[note.ID]note.Tags)
	for rows.Next() {
		var noteID, tagID uint64
		var label string
		if err := rows.Scan(&noteID, &tagID, &label); err != nil {
			return nil, errors.NewInternal(err)
		}
		id := note.ID(noteID)
		if sets[id] == nil {
			sets[id] = note.NewTags()
		}
		sets[id].Add(note.Tag{ID: note.ID(tagID), Label: label})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return sets, nil
}

func scanNotes(rows *sql.Rows, sets map[note.ID]note.Tags) ([]note.Note, error) {
	defer rows.Close()

	out := make([]note.Note, 0)
	for rows.Next() {
		var id, user uint64
		var title, body, vis string
		if err := rows.Scan(&id, &title, &body, &user, &vis); err != nil {
			return nil, errors.NewInternal(err)
		}
		v, err := parseVisibility(vis)
		if err != nil {
			return nil, errors.NewInvariantViolation(err.Error())
		}
		tags := sets[note.ID(id)]
		if tags == nil {
			tags = note.NewTags()
		}
		out = append(out, note.Note{
			ID:         note.ID(id),
			Title:      title,
			Body:       body,
			Tags:       tags,
			User:       note.ID(user),
			Visibility: v,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

const noteColumns = "id, title, body, user, visibility"

// Notes returns all active notes in storage order.
func (s *SQLite) Notes() ([]note.Note, error) {
	sets, err := tagSets(s.db)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
		SELECT ` + noteColumns + `
		FROM notes
		WHERE visibility != 'Deleted'
		ORDER BY id
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return scanNotes(rows, sets)
}

// Tags returns every tag ever created, in storage order.
func (s *SQLite) Tags() ([]note.Tag, error) {
	rows, err := s.db.Query("SELECT id, label FROM tags ORDER BY id")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	out := make([]note.Tag, 0)
	for rows.Next() {
		var id uint64
		var label string
		if err := rows.Scan(&id, &label); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, note.Tag{ID: note.ID(id), Label: label})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// resolveTags maps draft labels to tags inside a transaction, creating tags
// for unknown labels. Tag ids are row counts: tags are never removed, so
// COUNT(*) is the next sequential id.
func resolveTags(tx *sql.Tx, labels []string) (note.Tags, error) {
	tags := note.NewTags()
	for _, label := range labels {
		var id uint64
		err := tx.QueryRow("SELECT id FROM tags WHERE label = ?", label).Scan(&id)
		switch {
		case err == sql.ErrNoRows:
			if err := tx.QueryRow("SELECT COUNT(*) FROM tags").Scan(&id); err != nil {
				return nil, errors.NewInternal(err)
			}
			if _, err := tx.Exec("INSERT INTO tags (id, label) VALUES (?, ?)", id, label); err != nil {
				return nil, errors.NewInternal(err)
			}
		case err != nil:
			return nil, errors.NewInternal(err)
		}
		tags.Add(note.Tag{ID: note.ID(id), Label: label})
	}
	return tags, nil
}

func insertNoteTags(tx *sql.Tx, id note.ID, tags note.Tags) error {
	for _, t := range tags.List() {
		if _, err := tx.Exec(
			"INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?)",
			uint64(id), uint64(t.ID),
		); err != nil {
			return errors.NewInternal(err)
		}
	}
	return nil
}

// AddNote stores a new note built from the draft and returns it.
func (s *SQLite) AddNote(d note.Draft, u note.User) (note.Note, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return note.Note{}, errors.NewInternal(err)
	}
	defer tx.Rollback()

	var count uint64
	if err := tx.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count); err != nil {
		return note.Note{}, errors.NewInternal(err)
	}
	id := note.ID(count)

	tags, err := resolveTags(tx, d.Tags)
	if err != nil {
		return note.Note{}, err
	}

	n := note.New(d, id, u.ID, tags)
	if _, err := tx.Exec(
		"INSERT INTO notes (id, title, body, user, visibility) VALUES (?, ?, ?, ?, ?)",
		uint64(n.ID), n.Title, n.Body, uint64(n.User), n.Visibility.String(),
	); err != nil {
		return note.Note{}, errors.NewInternal(err)
	}
	if err := insertNoteTags(tx, n.ID, tags); err != nil {
		return note.Note{}, err
	}

	if err := tx.Commit(); err != nil {
		return note.Note{}, errors.NewInternal(err)
	}
	return n, nil
}

// UpdateNote replaces the note at id wholesale, keeping the original owner.
func (s *SQLite) UpdateNote(d note.Draft, id note.ID) (note.Note, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return note.Note{}, errors.NewInternal(err)
	}
	defer tx.Rollback()

	var owner uint64
	err = tx.QueryRow("SELECT user FROM notes WHERE id = ?", uint64(id)).Scan(&owner)
	if err == sql.ErrNoRows {
		return note.Note{}, errors.NewNotFound(strconv.FormatUint(uint64(id), 10))
	}
	if err != nil {
		return note.Note{}, errors.NewInternal(err)
	}

	tags, err := resolveTags(tx, d.Tags)
	if err != nil {
		return note.Note{}, err
	}

	n := note.New(d, id, note.ID(owner), tags)
	if _, err := tx.Exec(
		"UPDATE notes SET title = ?, body = ?, visibility = ? WHERE id = ?",
		n.Title, n.Body, n.Visibility.String(), uint64(n.ID),
	); err != nil {
		return note.Note{}, errors.NewInternal(err)
	}
	if _, err := tx.Exec("DELETE FROM note_tags WHERE note_id = ?", uint64(n.ID)); err != nil {
		return note.Note{}, errors.NewInternal(err)
	}
	if err := insertNoteTags(tx, n.ID, tags); err != nil {
		return note.Note{}, err
	}

	if err := tx.Commit(); err != nil {
		return note.Note{}, errors.NewInternal(err)
	}
	return n, nil
}

// DeleteNote marks the note at id as Deleted. The row is never removed.
func (s *SQLite) DeleteNote(id note.ID) (bool, error) {
	res, err := s.db.Exec(
		"UPDATE notes SET visibility = 'Deleted' WHERE id = ?",
		uint64(id),
	)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return affected > 0, nil
}

// UserNotes returns the active notes owned by the user, in storage order.
func (s *SQLite) UserNotes(u note.User) ([]note.Note, error) {
	sets, err := tagSets(s.db)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
		SELECT `+noteColumns+`
		FROM notes
		WHERE user = ? AND visibility != 'Deleted'
		ORDER BY id
	`, uint64(u.ID))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return scanNotes(rows, sets)
}

// TaggedNotes returns the active notes carrying the tag. Membership is by
// full tag value: if the stored tag at t.ID does not carry t.Label, no note
// matches.
func (s *SQLite) TaggedNotes(t note.Tag) ([]note.Note, error) {
	var label string
	err := s.db.QueryRow("SELECT label FROM tags WHERE id = ?", uint64(t.ID)).Scan(&label)
	if err == sql.ErrNoRows || (err == nil && label != t.Label) {
		return []note.Note{}, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	sets, err := tagSets(s.db)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
		SELECT `+noteColumns+`
		FROM notes
		WHERE visibility != 'Deleted'
		  AND id IN (SELECT note_id FROM note_tags WHERE tag_id = ?)
		ORDER BY id
	`, uint64(t.ID))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return scanNotes(rows, sets)
}

// AddTag returns the id of the tag with the exact label, creating it first
// if needed.
func (s *SQLite) AddTag(label string) (note.ID, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	defer tx.Rollback()

	tags, err := resolveTags(tx, []string{label})
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.NewInternal(err)
	}
	return tags.List()[0].ID, nil
}

// FindNote is the indexed override of the derived lookup. Soft-deleted
// notes are treated as absent, same as the Notes-based path.
func (s *SQLite) FindNote(id note.ID) (note.Note, bool, error) {
	sets, err := tagSets(s.db)
	if err != nil {
		return note.Note{}, false, err
	}
	rows, err := s.db.Query(`
		SELECT `+noteColumns+`
		FROM notes
		WHERE id = ? AND visibility != 'Deleted'
	`, uint64(id))
	if err != nil {
		return note.Note{}, false, errors.NewInternal(err)
	}
	notes, err := scanNotes(rows, sets)
	if err != nil {
		return note.Note{}, false, err
	}
	if len(notes) == 0 {
		return note.Note{}, false, nil
	}
	return notes[0], true, nil
}

// FindTag is the indexed override of the derived lookup.
func (s *SQLite) FindTag(label string) (note.Tag, bool, error) {
	var id uint64
	err := s.db.QueryRow("SELECT id FROM tags WHERE label = ?", label).Scan(&id)
	if err == sql.ErrNoRows {
		return note.Tag{}, false, nil
	}
	if err != nil {
		return note.Tag{}, false, errors.NewInternal(err)
	}
	return note.Tag{ID: note.ID(id), Label: label}, true, nil
}
