package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/note"
	"github.com/hpungsan/jot/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	service *ops.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *ops.Service) *Handlers {
	return &Handlers{service: service}
}

// Request types for each tool

// AddRequest represents the arguments for note_add.
type AddRequest struct {
	Title      string          `json:"title"`
	Body       string          `json:"body,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	Visibility note.Visibility `json:"visibility,omitempty"`
}

// GetRequest represents the arguments for note_get.
type GetRequest struct {
	ID uint64 `json:"id"`
}

// UpdateRequest represents the arguments for note_update.
type UpdateRequest struct {
	ID         uint64          `json:"id"`
	Title      string          `json:"title"`
	Body       string          `json:"body,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	Visibility note.Visibility `json:"visibility,omitempty"`
}

// DeleteRequest represents the arguments for note_delete.
type DeleteRequest struct {
	ID uint64 `json:"id"`
}

// TaggedRequest represents the arguments for note_tagged.
type TaggedRequest struct {
	Label string `json:"label"`
}

// Handler implementations

// HandleAdd handles the note_add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	n, err := h.service.AddNote(note.DefaultUser(), note.Draft{
		Title:      input.Title,
		Body:       input.Body,
		Tags:       input.Tags,
		Visibility: input.Visibility,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(n)
}

// HandleGet handles the note_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	n, err := h.service.GetNote(note.DefaultUser(), note.ID(input.ID))
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(n)
}

// HandleList handles the note_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := h.service.ListNotes(note.DefaultUser())
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(notes)
}

// HandleUpdate handles the note_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	n, err := h.service.EditNote(note.DefaultUser(), note.Draft{
		Title:      input.Title,
		Body:       input.Body,
		Tags:       input.Tags,
		Visibility: input.Visibility,
	}, note.ID(input.ID))
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(n)
}

// HandleDelete handles the note_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := h.service.RemoveNote(note.DefaultUser(), note.ID(input.ID)); err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"deleted": true, "id": input.ID})
}

// HandleTagged handles the note_tagged tool call.
func (h *Handlers) HandleTagged(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TaggedRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	notes, err := h.service.TaggedNotes(note.DefaultUser(), input.Label)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(notes)
}

// HandleTags handles the note_tags tool call.
func (h *Handlers) HandleTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := h.service.ListTags()
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(tags)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if jErr, ok := err.(*errors.JotError); ok && jErr.Status < 500 {
		errorObj := map[string]any{
			"code":    jErr.Code,
			"message": jErr.Message,
			"status":  jErr.Status,
		}
		if jErr.Details != nil {
			errorObj["details"] = jErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
