package mcp

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/eunoia/pkg/invoke"
	"github.com/unowned-ai/eunoia/pkg/journal"
	"github.com/unowned-ai/eunoia/pkg/storage/memory"
)

func newTestServer(t *testing.T) *EunoiaMCPServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := journal.NewServices(memory.New(), nil, journal.WithLogger(log))
	reg := invoke.NewRegistry()
	invoke.Bind(reg, svc)
	return NewEunoiaMCPServer(svc, reg, "test")
}

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handlePing(context.Background(), request(nil))
	require.NoError(t, err)
	assert.Equal(t, "pong_eunoia", text(t, res))
}

func TestEntryTools(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	res, err := s.handleCreateEntry(ctx, request(map[string]any{
		"title": "Walk", "content": "A calm and happy walk", "tags": "nature, health",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	var e journal.Entry
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &e))
	assert.Equal(t, []string{"nature", "health"}, e.Tags)

	res, err = s.handleUpdateEntry(ctx, request(map[string]any{"id": e.ID.String(), "tags": ""}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &e))
	assert.Empty(t, e.Tags)

	res, err = s.handleListEntries(ctx, request(map[string]any{"search": "walk", "limit": 5.0}))
	require.NoError(t, err)
	var page journal.EntryPage
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &page))
	assert.Equal(t, 1, page.Total)

	res, err = s.handleListEntries(ctx, request(map[string]any{"from": "June 1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleDeleteEntry(ctx, request(map[string]any{"id": e.ID.String()}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleGetEntry(ctx, request(map[string]any{"id": e.ID.String()}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "entry not found")

	res, err = s.handleGetEntry(ctx, request(map[string]any{"id": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestUpdateEntry_RequiresAField(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleUpdateEntry(context.Background(), request(map[string]any{
		"id": "6f1c2a8e-0d0b-4b8e-9c1e-3b7c2f0a9d11",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestTagAndAITools(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	res, err := s.handleCreateTag(ctx, request(map[string]any{"name": "gratitude"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = s.handleCreateTag(ctx, request(map[string]any{"name": "gratitude"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleListTags(ctx, request(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"gratitude","count":0}]`, text(t, res))

	res, err = s.handleAnalyze(ctx, request(map[string]any{"text": "I am grateful and happy"}))
	require.NoError(t, err)
	var analysis journal.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &analysis))
	assert.Positive(t, analysis.Sentiment)
	assert.Equal(t, journal.SourceFallback, analysis.SummarySource)

	res, err = s.handlePrompts(ctx, request(map[string]any{"count": 2.0}))
	require.NoError(t, err)
	var gen journal.Generation
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &gen))
	assert.Len(t, gen.Items, 2)
}

func TestInvokeTool(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	res, err := s.handleInvoke(ctx, request(map[string]any{
		"service": "tags", "method": "createTag", "args": `["work"]`,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.JSONEq(t, `{"name":"work","count":0}`, text(t, res))

	res, err = s.handleInvoke(ctx, request(map[string]any{"service": "tags", "method": "getTags"}))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"work","count":0}]`, text(t, res))

	res, err = s.handleInvoke(ctx, request(map[string]any{"service": "tags", "method": "getTags", "args": "{"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleInvoke(ctx, request(map[string]any{"service": "nope", "method": "x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
