package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/wunjo/internal/gallery"
	"github.com/starford/wunjo/internal/linkservice"
	"github.com/starford/wunjo/internal/probe"
	"github.com/starford/wunjo/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	_, dataDir := testutil.TestDir(t)
	_, wallDir := testutil.TestDir(t)
	db := testutil.TestDB(t)

	return New(
		linkservice.NewService(dataDir),
		probe.NewChecker(2*time.Second),
		gallery.NewService(wallDir, db),
	)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_links":
		result, err = srv.listLinks(ctx, req)
	case "create_link":
		result, err = srv.createLink(ctx, req)
	case "delete_link":
		result, err = srv.deleteLink(ctx, req)
	case "create_category":
		result, err = srv.createCategory(ctx, req)
	case "check_url":
		result, err = srv.checkURL(ctx, req)
	case "list_wallpapers":
		result, err = srv.listWallpapers(ctx, req)
	case "get_link_contract":
		result, err = srv.getLinkContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListLinksReturnsSeededCollection(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "list_links", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, `"demo"`) || !strings.Contains(text, `"work"`) {
		t.Errorf("list result = %q", text)
	}
}

func TestCreateAndDeleteLink(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "create_link", map[string]interface{}{
		"category_id": "work",
		"title":       "Wiki",
		"url":         "https://wiki.example.com",
	})
	if r.IsError {
		t.Fatalf("create failed: %q", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"Wiki"`) {
		t.Errorf("create result = %q", text)
	}

	// Extract the assigned id from the JSON payload.
	var link struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(text), &link); err != nil {
		t.Fatalf("parse create result: %v", err)
	}

	r = callTool(t, srv, "delete_link", map[string]interface{}{
		"category_id": "work",
		"link_id":     link.ID,
	})
	if r.IsError {
		t.Fatalf("delete failed: %q", resultText(r))
	}

	r = callTool(t, srv, "delete_link", map[string]interface{}{
		"category_id": "work",
		"link_id":     link.ID,
	})
	if !r.IsError {
		t.Error("deleting a deleted link should report an error")
	}
}

func TestCreateLinkRejectsBadURL(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "create_link", map[string]interface{}{
		"category_id": "work",
		"title":       "Bad",
		"url":         "not-a-url",
	})
	if !r.IsError {
		t.Error("bad url should report an error")
	}
}

func TestCreateCategory(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "create_category", map[string]interface{}{
		"id":   "tools",
		"name": "Tools",
	})
	if r.IsError {
		t.Fatalf("create failed: %q", resultText(r))
	}

	r = callTool(t, srv, "create_category", map[string]interface{}{
		"id":   "tools",
		"name": "Other",
	})
	if !r.IsError {
		t.Error("duplicate category id should report an error")
	}
}

func TestListWallpapersEmpty(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "list_wallpapers", map[string]interface{}{})
	if got := resultText(r); got != "no wallpapers stored" {
		t.Errorf("result = %q", got)
	}
}

func TestGetLinkContract(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_link_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "categories") {
		t.Error("contract should mention categories")
	}
}

func TestReadLinkFormatResource(t *testing.T) {
	srv := testServer(t)
	contents, err := srv.readLinkFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != "wunjo://link-format" {
		t.Errorf("unexpected resource contents: %+v", contents[0])
	}
}
