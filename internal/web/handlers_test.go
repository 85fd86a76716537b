package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hpungsan/jot/internal/note"
	"github.com/hpungsan/jot/internal/ops"
	"github.com/hpungsan/jot/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	service := ops.NewService(store.NewMemory())
	srv := NewServer(service, zerolog.Nop(), "127.0.0.1", 0)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postNote(t *testing.T, ts *httptest.Server, body string) note.Note {
	t.Helper()
	resp, err := http.Post(ts.URL+"/note", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /note failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /note status = %d, want 200", resp.StatusCode)
	}
	var n note.Note
	if err := json.NewDecoder(resp.Body).Decode(&n); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return n
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

func TestAddAndGetNote(t *testing.T) {
	ts := newTestServer(t)

	added := postNote(t, ts, `{"title":"Groceries","body":"milk","tags":["errand"],"visibility":"Private"}`)
	if added.ID != 0 {
		t.Errorf("id = %d, want 0", added.ID)
	}
	if added.User != note.DefaultUser().ID {
		t.Errorf("owner = %d, want the default user", added.User)
	}

	resp := do(t, http.MethodGet, ts.URL+"/note/0", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /note/0 status = %d, want 200", resp.StatusCode)
	}
	var got note.Note
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "Groceries" || got.Tags.Len() != 1 {
		t.Errorf("got %+v, want the stored note", got)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/note/42", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", code)
	}
}

func TestGetNote_BadID(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/note/banana", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestTaggedNotes_UnknownLabel(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/notes/tag/nonexistent", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "UNKNOWN_TAG" {
		t.Errorf("code = %q, want UNKNOWN_TAG", code)
	}
}

func TestTaggedNotes(t *testing.T) {
	ts := newTestServer(t)

	postNote(t, ts, `{"title":"A","body":"1","tags":["foo"]}`)
	postNote(t, ts, `{"title":"B","body":"2","tags":["bar"]}`)

	resp := do(t, http.MethodGet, ts.URL+"/notes/tag/foo", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var notes []note.Note
	if err := json.NewDecoder(resp.Body).Decode(&notes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "A" {
		t.Errorf("notes = %+v, want just A", notes)
	}
}

func TestEditNote(t *testing.T) {
	ts := newTestServer(t)

	postNote(t, ts, `{"title":"Old","body":"old"}`)

	resp := do(t, http.MethodPut, ts.URL+"/note/0", `{"title":"New","body":"new","visibility":"Public"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", resp.StatusCode)
	}
	var updated note.Note
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Title != "New" || updated.Visibility != note.Public {
		t.Errorf("updated = %+v", updated)
	}
}

func TestEditNote_NotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodPut, ts.URL+"/note/9", `{"title":"New","body":"new"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteNote(t *testing.T) {
	ts := newTestServer(t)

	postNote(t, ts, `{"title":"Doomed","body":"x"}`)

	resp := do(t, http.MethodDelete, ts.URL+"/note/0", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE status = %d, want 200", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/note/0", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want 404", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, ts.URL+"/note/99", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("DELETE missing status = %d, want 404", resp.StatusCode)
	}
}

func TestRootListsAllNotes(t *testing.T) {
	ts := newTestServer(t)

	postNote(t, ts, `{"title":"A","body":"1"}`)
	postNote(t, ts, `{"title":"B","body":"2"}`)

	resp := do(t, http.MethodGet, ts.URL+"/", "")
	defer resp.Body.Close()
	var notes []note.Note
	if err := json.NewDecoder(resp.Body).Decode(&notes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("len = %d, want 2", len(notes))
	}
}

func TestTags(t *testing.T) {
	ts := newTestServer(t)

	postNote(t, ts, `{"title":"A","body":"1","tags":["foo","bar"]}`)

	resp := do(t, http.MethodGet, ts.URL+"/tags", "")
	defer resp.Body.Close()
	var tags []note.Tag
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("len = %d, want 2", len(tags))
	}
}

func TestNoteHTML(t *testing.T) {
	ts := newTestServer(t)

	postNote(t, ts, `{"title":"Readme","body":"# Heading\n\nsome *emphasis*"}`)

	resp := do(t, http.MethodGet, ts.URL+"/note/0/html", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, "<h1>Readme</h1>") {
		t.Errorf("body should contain the title heading, got %q", body)
	}
	if !strings.Contains(body, "<em>emphasis</em>") {
		t.Errorf("body should contain rendered markdown, got %q", body)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/note", "application/json", strings.NewReader("{nope"))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
