package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/note"
	"github.com/hpungsan/jot/internal/ops"
)

// Handlers contains the HTTP route handlers. They are deliberately thin:
// resolve the acting user, translate the request, call one operation, and
// serialize the result.
type Handlers struct {
	service *ops.Service
	log     zerolog.Logger
}

// actingUser resolves the identity behind a request. User management is not
// built in yet; every request maps to the default user.
func (h *Handlers) actingUser(_ *http.Request) note.User {
	return note.DefaultUser()
}

// HandleRoot handles GET / — all active notes, for debugging.
func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.AllNotes()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, notes)
}

// HandleNotes handles GET /notes — the caller's active notes.
func (h *Handlers) HandleNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.ListNotes(h.actingUser(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, notes)
}

// HandleTaggedNotes handles GET /notes/tag/{label} — the caller's notes
// carrying the tag.
func (h *Handlers) HandleTaggedNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.TaggedNotes(h.actingUser(r), r.PathValue("label"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, notes)
}

// HandleGetNote handles GET /note/{id}.
func (h *Handlers) HandleGetNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	n, err := h.service.GetNote(h.actingUser(r), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, n)
}

// HandleAddNote handles POST /note.
func (h *Handlers) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	var d note.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		h.writeError(w, errors.NewInvalidRequest(err.Error()))
		return
	}
	n, err := h.service.AddNote(h.actingUser(r), d)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, n)
}

// HandleEditNote handles PUT /note/{id}.
func (h *Handlers) HandleEditNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var d note.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		h.writeError(w, errors.NewInvalidRequest(err.Error()))
		return
	}
	n, err := h.service.EditNote(h.actingUser(r), d, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, n)
}

// HandleDeleteNote handles DELETE /note/{id}.
func (h *Handlers) HandleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.service.RemoveNote(h.actingUser(r), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

// HandleTags handles GET /tags — every tag ever created.
func (h *Handlers) HandleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tags)
}

func parseID(r *http.Request) (note.ID, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.NewInvalidRequest("id must be a non-negative integer")
	}
	return note.ID(id), nil
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps a structured error to its HTTP status. Internal error
// details are logged but not exposed.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	jErr, ok := err.(*errors.JotError)
	if !ok {
		jErr = errors.NewInternal(nil)
		h.log.Error().Err(err).Msg("unstructured error reached the handler")
	}

	body := map[string]any{
		"code":    jErr.Code,
		"message": jErr.Message,
	}
	if jErr.Status < 500 && jErr.Details != nil {
		body["details"] = jErr.Details
	}
	if jErr.Status >= 500 {
		body["message"] = "internal error"
		h.log.Error().Str("code", string(jErr.Code)).Msg(jErr.Message)
	}

	h.writeJSON(w, jErr.Status, map[string]any{"error": body})
}
