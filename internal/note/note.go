package note

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Tags is an unordered set of unique tags attached to one note. Membership
// is by full value (id + label). The JSON form is an array of tags.
type Tags map[Tag]struct{}

// NewTags builds a set from the given tags.
func NewTags(tags ...Tag) Tags {
	ts := make(Tags, len(tags))
	for _, t := range tags {
		ts[t] = struct{}{}
	}
	return ts
}

// Add inserts a tag and reports whether it was not already present.
func (ts Tags) Add(t Tag) bool {
	if _, ok := ts[t]; ok {
		return false
	}
	ts[t] = struct{}{}
	return true
}

// Contains reports whether the set holds a tag equal to t.
func (ts Tags) Contains(t Tag) bool {
	_, ok := ts[t]
	return ok
}

// Len returns the number of tags in the set.
func (ts Tags) Len() int {
	return len(ts)
}

// List returns the tags ordered by id, then label. The set itself is
// unordered; the ordering here only makes output deterministic.
func (ts Tags) List() []Tag {
	out := make([]Tag, 0, len(ts))
	for t := range ts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Clone returns an independent copy of the set.
func (ts Tags) Clone() Tags {
	out := make(Tags, len(ts))
	for t := range ts {
		out[t] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as an array of tags.
func (ts Tags) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.List())
}

// UnmarshalJSON decodes an array of tags into the set.
func (ts *Tags) UnmarshalJSON(b []byte) error {
	var tags []Tag
	if err := json.Unmarshal(b, &tags); err != nil {
		return err
	}
	*ts = NewTags(tags...)
	return nil
}

// Draft is the caller-supplied payload describing desired note content, used
// for both creation and full-replacement updates. It carries no id and no
// owner. Tag labels may repeat or be unknown; the store resolves them.
type Draft struct {
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Tags       []string   `json:"tags"`
	Visibility Visibility `json:"visibility"`
}

// DraftOf projects a note back into a draft. The projection is lossless
// except that id and owner are dropped.
func DraftOf(n Note) Draft {
	tags := n.Tags.List()
	labels := make([]string, len(tags))
	for i, t := range tags {
		labels[i] = t.Label
	}
	return Draft{
		Title:      n.Title,
		Body:       n.Body,
		Tags:       labels,
		Visibility: n.Visibility,
	}
}

// Note is a stored note. Notes are created only by a store, which assigns
// the id and fixes the owner; neither changes afterwards.
type Note struct {
	ID         ID         `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Tags       Tags       `json:"tags"`
	User       ID         `json:"user"`
	Visibility Visibility `json:"visibility"`
}

// New builds a note from a draft with resolved tags. Only stores should
// call this; the id and owner are fixed for the lifetime of the note.
func New(d Draft, id ID, user ID, tags Tags) Note {
	return Note{
		ID:         id,
		Title:      d.Title,
		Body:       d.Body,
		Tags:       tags,
		User:       user,
		Visibility: d.Visibility,
	}
}

// TaggedWith reports whether the note carries a tag equal to t.
func (n Note) TaggedWith(t Tag) bool {
	return n.Tags.Contains(t)
}

// Active reports whether the note has not been soft-deleted.
func (n Note) Active() bool {
	return n.Visibility != Deleted
}

// Clone returns a copy of the note with an independent tag set.
func (n Note) Clone() Note {
	out := n
	out.Tags = n.Tags.Clone()
	return out
}

func (n Note) String() string {
	return fmt.Sprintf("%s: %s", n.Title, n.Body)
}
