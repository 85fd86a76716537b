package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode maps MCP request arguments onto a typed request struct via a JSON
// round trip, so field validation (including Visibility variant names) runs
// in one place instead of per-argument type assertions.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	args := req.GetArguments()
	b, err := json.Marshal(args)
	if err != nil {
		return result, fmt.Errorf("encode arguments: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("decode arguments: %w", err)
	}
	return result, nil
}
