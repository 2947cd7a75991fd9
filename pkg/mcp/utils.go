package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// splitTags turns "a, b,,c" into [a b c].
func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func stringArg(req mcp.CallToolRequest, name string) (string, bool) {
	v, ok := req.Params.Arguments[name].(string)
	return v, ok
}

func idArg(req mcp.CallToolRequest) (uuid.UUID, *mcp.CallToolResult) {
	raw, _ := stringArg(req, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("'id' parameter must be a valid entry UUID.")
	}
	return id, nil
}

// jsonResult serializes v as the tool's text output.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func failed(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
}
