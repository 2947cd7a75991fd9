package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

func (s *EunoiaMCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Eunoia MCP server is alive."),
	), s.handlePing)

	s.mcpServer.AddTool(mcp.NewTool("list_entries",
		mcp.WithDescription("Lists journal entries, newest first unless sort_by is given."),
		mcp.WithString("search", mcp.Description("Case-insensitive text to find in titles and content.")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags; entries with any of them match.")),
		mcp.WithString("sentiment", mcp.Description("positive, neutral or negative.")),
		mcp.WithString("from", mcp.Description("Earliest creation date, YYYY-MM-DD.")),
		mcp.WithString("to", mcp.Description("Latest creation date, YYYY-MM-DD, inclusive.")),
		mcp.WithString("sort_by", mcp.Description("date (default) or sentiment.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries to return.")),
		mcp.WithNumber("offset", mcp.Description("Number of matching entries to skip.")),
	), s.handleListEntries)

	s.mcpServer.AddTool(mcp.NewTool("get_entry",
		mcp.WithDescription("Retrieves a single entry by ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry UUID.")),
	), s.handleGetEntry)

	s.mcpServer.AddTool(mcp.NewTool("create_entry",
		mcp.WithDescription("Creates a new journal entry. Sentiment is scored automatically."),
		mcp.WithString("title", mcp.Description("Entry title.")),
		mcp.WithString("content", mcp.Description("Entry body.")),
		mcp.WithString("content_type", mcp.Description("MIME type of content; defaults to text/html.")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags.")),
	), s.handleCreateEntry)

	s.mcpServer.AddTool(mcp.NewTool("update_entry",
		mcp.WithDescription("Updates the title, content or tags of an entry."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry UUID.")),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("content", mcp.Description("New content.")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags replacing the current set.")),
	), s.handleUpdateEntry)

	s.mcpServer.AddTool(mcp.NewTool("delete_entry",
		mcp.WithDescription("Deletes an entry by ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry UUID.")),
	), s.handleDeleteEntry)

	s.mcpServer.AddTool(mcp.NewTool("entry_stats",
		mcp.WithDescription("Aggregate statistics: totals, sentiment breakdown, streaks and top tags."),
	), s.handleStats)

	s.mcpServer.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("Lists the built-in entry templates."),
	), s.handleTemplates)

	s.mcpServer.AddTool(mcp.NewTool("create_from_template",
		mcp.WithDescription("Creates an entry from a built-in template."),
		mcp.WithString("template_id", mcp.Required(), mcp.Description("Template ID, see list_templates.")),
	), s.handleCreateFromTemplate)

	s.mcpServer.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("Lists all tags with the number of entries carrying each."),
	), s.handleListTags)

	s.mcpServer.AddTool(mcp.NewTool("create_tag",
		mcp.WithDescription("Registers a new tag."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Tag name.")),
	), s.handleCreateTag)

	s.mcpServer.AddTool(mcp.NewTool("delete_tag",
		mcp.WithDescription("Deletes a tag and removes it from every entry."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Tag name.")),
	), s.handleDeleteTag)

	s.mcpServer.AddTool(mcp.NewTool("analyze_text",
		mcp.WithDescription("Scores sentiment, extracts keywords and topics, and summarizes text."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to analyze.")),
	), s.handleAnalyze)

	s.mcpServer.AddTool(mcp.NewTool("writing_prompts",
		mcp.WithDescription("Suggests journaling prompts."),
		mcp.WithNumber("count", mcp.Description("How many prompts to return (1-10, default 3).")),
	), s.handlePrompts)

	s.mcpServer.AddTool(mcp.NewTool("suggest",
		mcp.WithDescription("Suggests a follow-up reflection for a piece of writing."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to respond to.")),
	), s.handleSuggest)

	s.mcpServer.AddTool(mcp.NewTool("invoke",
		mcp.WithDescription("Calls any registered service operation by name."),
		mcp.WithString("service", mcp.Required(), mcp.Description("Service name, e.g. entries.")),
		mcp.WithString("method", mcp.Required(), mcp.Description("Method name, e.g. getEntries.")),
		mcp.WithString("args", mcp.Description("JSON array of positional arguments.")),
	), s.handleInvoke)
}

func (s *EunoiaMCPServer) handlePing(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_eunoia"), nil
}

func (s *EunoiaMCPServer) handleListEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var f journal.EntryFilter
	f.Search, _ = stringArg(req, "search")
	if tags, ok := stringArg(req, "tags"); ok {
		f.Tags = splitTags(tags)
	}
	if v, ok := stringArg(req, "sentiment"); ok {
		f.Sentiment = journal.SentimentCategory(v)
	}
	if v, ok := stringArg(req, "sort_by"); ok {
		f.SortBy = journal.SortOrder(v)
	}
	for name, dst := range map[string]*time.Time{"from": &f.DateRange.From, "to": &f.DateRange.To} {
		v, ok := stringArg(req, name)
		if !ok || v == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("'%s' must be a date in YYYY-MM-DD format.", name)), nil
		}
		if name == "to" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		*dst = t
	}
	if n, ok := req.Params.Arguments["limit"].(float64); ok {
		f.Limit = int(n)
	}
	if n, ok := req.Params.Arguments["offset"].(float64); ok {
		f.Offset = int(n)
	}

	page, err := s.svc.Entries.GetEntries(ctx, f)
	if err != nil {
		return failed("list entries", err), nil
	}
	return jsonResult(page)
}

func (s *EunoiaMCPServer) handleGetEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := idArg(req)
	if bad != nil {
		return bad, nil
	}
	e, err := s.svc.Entries.GetEntry(ctx, id)
	if err != nil {
		return failed("get entry", err), nil
	}
	return jsonResult(e)
}

func (s *EunoiaMCPServer) handleCreateEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var d journal.EntryDraft
	d.Title, _ = stringArg(req, "title")
	d.Content, _ = stringArg(req, "content")
	d.ContentType, _ = stringArg(req, "content_type")
	if tags, ok := stringArg(req, "tags"); ok {
		d.Tags = splitTags(tags)
	}

	e, err := s.svc.Entries.CreateEntry(ctx, d)
	if err != nil {
		return failed("create entry", err), nil
	}
	return jsonResult(e)
}

func (s *EunoiaMCPServer) handleUpdateEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := idArg(req)
	if bad != nil {
		return bad, nil
	}

	var patch journal.EntryPatch
	if v, ok := stringArg(req, "title"); ok {
		patch.Title = &v
	}
	if v, ok := stringArg(req, "content"); ok {
		patch.Content = &v
	}
	if v, ok := stringArg(req, "tags"); ok {
		tags := splitTags(v)
		if tags == nil {
			tags = []string{}
		}
		patch.Tags = &tags
	}
	if patch.Title == nil && patch.Content == nil && patch.Tags == nil {
		return mcp.NewToolResultError("Nothing to update: provide title, content or tags."), nil
	}

	e, err := s.svc.Entries.UpdateEntry(ctx, id, patch)
	if err != nil {
		return failed("update entry", err), nil
	}
	return jsonResult(e)
}

func (s *EunoiaMCPServer) handleDeleteEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := idArg(req)
	if bad != nil {
		return bad, nil
	}
	if err := s.svc.Entries.DeleteEntry(ctx, id); err != nil {
		return failed("delete entry", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Entry %s deleted.", id)), nil
}

func (s *EunoiaMCPServer) handleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Entries.GetStats(ctx)
	if err != nil {
		return failed("compute stats", err), nil
	}
	return jsonResult(stats)
}

func (s *EunoiaMCPServer) handleTemplates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.svc.Entries.Templates(ctx)
	if err != nil {
		return failed("list templates", err), nil
	}
	return jsonResult(list)
}

func (s *EunoiaMCPServer) handleCreateFromTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := stringArg(req, "template_id")
	if !ok || id == "" {
		return mcp.NewToolResultError("'template_id' parameter is required and must be a non-empty string."), nil
	}
	e, err := s.svc.Entries.CreateFromTemplate(ctx, id)
	if err != nil {
		return failed("create entry from template", err), nil
	}
	return jsonResult(e)
}

func (s *EunoiaMCPServer) handleListTags(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.svc.Tags.GetTags(ctx)
	if err != nil {
		return failed("list tags", err), nil
	}
	return jsonResult(tags)
}

func (s *EunoiaMCPServer) handleCreateTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := stringArg(req, "name")
	tag, err := s.svc.Tags.CreateTag(ctx, name)
	if err != nil {
		return failed("create tag", err), nil
	}
	return jsonResult(tag)
}

func (s *EunoiaMCPServer) handleDeleteTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := stringArg(req, "name")
	if err := s.svc.Tags.DeleteTag(ctx, name); err != nil {
		return failed("delete tag", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Tag '%s' deleted.", name)), nil
}

func (s *EunoiaMCPServer) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, _ := stringArg(req, "text")
	res, err := s.svc.AI.AnalyzeText(ctx, text)
	if err != nil {
		return failed("analyze text", err), nil
	}
	return jsonResult(res)
}

func (s *EunoiaMCPServer) handlePrompts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := 0
	if v, ok := req.Params.Arguments["count"].(float64); ok {
		n = int(v)
	}
	gen, err := s.svc.AI.WritingPrompts(ctx, n)
	if err != nil {
		return failed("generate prompts", err), nil
	}
	return jsonResult(gen)
}

func (s *EunoiaMCPServer) handleSuggest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, _ := stringArg(req, "text")
	gen, err := s.svc.AI.Suggest(ctx, text)
	if err != nil {
		return failed("suggest", err), nil
	}
	return jsonResult(gen)
}

func (s *EunoiaMCPServer) handleInvoke(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	service, _ := stringArg(req, "service")
	method, _ := stringArg(req, "method")

	var raw []json.RawMessage
	if v, ok := stringArg(req, "args"); ok && v != "" {
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("'args' must be a JSON array: %v", err)), nil
		}
	}
	args := make([]any, len(raw))
	for i, a := range raw {
		args[i] = a
	}

	out, err := s.reg.Call(ctx, service, method, args...)
	if err != nil {
		return failed("invoke "+service+"."+method, err), nil
	}
	return jsonResult(out)
}
