package web

import (
	"bytes"
	"fmt"
	"html"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/jot/internal/errors"
)

// HandleNoteHTML handles GET /note/{id}/html — the note body rendered as
// HTML. Note bodies are free text; treating them as markdown gives a
// readable view without a separate content type.
func (h *Handlers) HandleNoteHTML(w http.ResponseWriter, r *http.Request) {
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

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(n.Body), &body); err != nil {
		h.writeError(w, errors.NewInternal(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<h1>%s</h1>\n", html.EscapeString(n.Title))
	w.Write(body.Bytes())
}
