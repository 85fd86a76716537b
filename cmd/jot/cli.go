package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/mcp"
	"github.com/hpungsan/jot/internal/note"
	"github.com/hpungsan/jot/internal/ops"
	"github.com/hpungsan/jot/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(service *ops.Service, cfg *config.Config, log zerolog.Logger) *cli.App {
	app := &cli.App{
		Name:    "jot",
		Usage:   "Tagged note store",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(service, cfg, log),
			mcpCmd(service, cfg),
			addCmd(service),
			getCmd(service),
			listCmd(service),
			updateCmd(service),
			deleteCmd(service),
			taggedCmd(service),
			tagsCmd(service),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(service *ops.Service, cfg *config.Config, log zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Bind address (overrides config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			bind := cfg.Bind
			port := cfg.Port
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			if c.IsSet("port") {
				port = c.Int("port")
			}

			srv := web.NewServer(service, log, bind, port)
			return web.Run(srv, log)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(service *ops.Service, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(_ *cli.Context) error {
			return mcp.Run(service, cfg, Version)
		},
	}
}

// addCmd creates the add command.
func addCmd(service *ops.Service) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a new note (reads body from stdin when piped)",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "Note body"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tag labels"},
			&cli.StringFlag{Name: "visibility", Usage: "Visibility: Private|Public"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("title argument is required"))
			}

			d := note.Draft{
				Title: c.Args().First(),
				Body:  c.String("body"),
				Tags:  parseTags(c.String("tags")),
			}

			if d.Body == "" && stdinHasData() {
				body, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				d.Body = body
			}

			if v := c.String("visibility"); v != "" {
				vis, err := parseVisibility(v)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				d.Visibility = vis
			}

			n, err := service.AddNote(note.DefaultUser(), d)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(n)
		},
	}
}

// getCmd creates the get command.
func getCmd(service *ops.Service) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch a note by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := parseID(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			n, err := service.GetNote(note.DefaultUser(), id)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(n)
		},
	}
}

// listCmd creates the list command.
func listCmd(service *ops.Service) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List your notes",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "List notes of every user"},
		},
		Action: func(c *cli.Context) error {
			var (
				notes []note.Note
				err   error
			)
			if c.Bool("all") {
				notes, err = service.AllNotes()
			} else {
				notes, err = service.ListNotes(note.DefaultUser())
			}
			if err != nil {
				return outputError(err)
			}

			return outputJSON(notes)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(service *ops.Service) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Replace a note's content (reads body from stdin when piped)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "New body"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated tag labels"},
			&cli.StringFlag{Name: "visibility", Usage: "New visibility: Private|Public"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseID(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			d := note.Draft{
				Title: c.String("title"),
				Body:  c.String("body"),
				Tags:  parseTags(c.String("tags")),
			}

			if d.Body == "" && stdinHasData() {
				body, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				d.Body = body
			}

			if v := c.String("visibility"); v != "" {
				vis, err := parseVisibility(v)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				d.Visibility = vis
			}

			n, err := service.EditNote(note.DefaultUser(), d, id)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(n)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(service *ops.Service) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a note by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := parseID(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			if err := service.RemoveNote(note.DefaultUser(), id); err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{"deleted": true, "id": id})
		},
	}
}

// taggedCmd creates the tagged command.
func taggedCmd(service *ops.Service) *cli.Command {
	return &cli.Command{
		Name:      "tagged",
		Usage:     "List your notes carrying a tag",
		ArgsUsage: "<label>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("label argument is required"))
			}

			notes, err := service.TaggedNotes(note.DefaultUser(), c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(notes)
		},
	}
}

// tagsCmd creates the tags command.
func tagsCmd(service *ops.Service) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "List every known tag",
		Action: func(_ *cli.Context) error {
			tags, err := service.ListTags()
			if err != nil {
				return outputError(err)
			}

			return outputJSON(tags)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if jotErr, ok := err.(*errors.JotError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", jotErr.Code, jotErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseID parses a positional note id argument.
func parseID(s string) (note.ID, error) {
	if s == "" {
		return 0, errors.NewInvalidRequest("id argument is required")
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("invalid id %q", s))
	}
	return note.ID(id), nil
}

// parseVisibility parses a visibility name, reusing the JSON variant names.
func parseVisibility(s string) (note.Visibility, error) {
	var v note.Visibility
	if err := json.Unmarshal([]byte(strconv.Quote(s)), &v); err != nil {
		return 0, fmt.Errorf("invalid visibility %q", s)
	}
	return v, nil
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of labels.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
