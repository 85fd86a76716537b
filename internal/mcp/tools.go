package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var addToolDef = mcp.NewTool("note_add",
	mcp.WithDescription("Create a new note. Tags are resolved by label, reusing existing tags and creating the rest."),
	mcp.WithString("title",
		mcp.Required(),
		mcp.Description("Note title"),
	),
	mcp.WithString("body",
		mcp.Description("Note body in Markdown"),
	),
	mcp.WithArray("tags",
		mcp.Description("Tag labels to attach"),
		mcp.Items(map[string]any{"type": "string"}),
	),
	mcp.WithString("visibility",
		mcp.Description("Note visibility"),
		mcp.Enum("Private", "Public"),
	),
)

var getToolDef = mcp.NewTool("note_get",
	mcp.WithDescription("Fetch a single note by id. Only notes owned by the acting user are returned."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Note id"),
	),
)

var listToolDef = mcp.NewTool("note_list",
	mcp.WithDescription("List all notes owned by the acting user. Deleted notes are excluded."),
)

var updateToolDef = mcp.NewTool("note_update",
	mcp.WithDescription("Replace the title, body, tags, and visibility of an existing note."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Note id"),
	),
	mcp.WithString("title",
		mcp.Required(),
		mcp.Description("New note title"),
	),
	mcp.WithString("body",
		mcp.Description("New note body in Markdown"),
	),
	mcp.WithArray("tags",
		mcp.Description("New tag labels, replacing the current set"),
		mcp.Items(map[string]any{"type": "string"}),
	),
	mcp.WithString("visibility",
		mcp.Description("New note visibility"),
		mcp.Enum("Private", "Public"),
	),
)

var deleteToolDef = mcp.NewTool("note_delete",
	mcp.WithDescription("Delete a note by id. The note stops appearing in queries but its id is never reused."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Note id"),
	),
)

var taggedToolDef = mcp.NewTool("note_tagged",
	mcp.WithDescription("List the acting user's notes carrying the tag with the given label."),
	mcp.WithString("label",
		mcp.Required(),
		mcp.Description("Tag label"),
	),
)

var tagsToolDef = mcp.NewTool("note_tags",
	mcp.WithDescription("List every tag known to the store."),
)
