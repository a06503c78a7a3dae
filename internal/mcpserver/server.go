// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Wunjo dashboard tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/wunjo/internal/gallery"
	"github.com/starford/wunjo/internal/linkservice"
	"github.com/starford/wunjo/internal/probe"
)

// Server wraps the MCP server with Wunjo tools.
type Server struct {
	mcp        *server.MCPServer
	links      *linkservice.Service
	checker    *probe.Checker
	wallpapers *gallery.Service
}

// New creates a new MCP server with all Wunjo tools registered.
func New(links *linkservice.Service, checker *probe.Checker, wallpapers *gallery.Service) *Server {
	s := &Server{links: links, checker: checker, wallpapers: wallpapers}

	s.mcp = server.NewMCPServer(
		"Wunjo",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_links",
		mcp.WithDescription("Return the whole link collection (all categories with their links) as JSON."),
	), s.listLinks)

	s.mcp.AddTool(mcp.NewTool("create_link",
		mcp.WithDescription("Add a link to an existing category. The server assigns the link id. "+
			"Read the wunjo://link-format resource or call get_link_contract for the collection rules."),
		mcp.WithString("category_id", mcp.Required(), mcp.Description("Id of the category to add the link to")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Display title of the link")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Target URL (must start with http:// or https://)")),
	), s.createLink)

	s.mcp.AddTool(mcp.NewTool("delete_link",
		mcp.WithDescription("Delete a link from a category."),
		mcp.WithString("category_id", mcp.Required(), mcp.Description("Id of the category holding the link")),
		mcp.WithString("link_id", mcp.Required(), mcp.Description("Id of the link to delete")),
	), s.deleteLink)

	s.mcp.AddTool(mcp.NewTool("create_category",
		mcp.WithDescription("Create a new empty category. The id must be a unique lowercase slug "+
			"and the name must be unique across the collection."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Category id (lowercase slug)")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name")),
	), s.createCategory)

	s.mcp.AddTool(mcp.NewTool("check_url",
		mcp.WithDescription("Probe a URL and report whether it currently responds with a non-error status."),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL to probe")),
	), s.checkURL)

	s.mcp.AddTool(mcp.NewTool("list_wallpapers",
		mcp.WithDescription("List the stored wallpaper URLs."),
	), s.listWallpapers)

	s.mcp.AddTool(mcp.NewTool("get_link_contract",
		mcp.WithDescription("Returns the canonical Wunjo link collection contract. "+
			"Call this before creating categories or links to ensure correct structure."),
	), s.getLinkContract)

	// Resource: link format contract.
	s.mcp.AddResource(
		mcp.NewResource("wunjo://link-format", "Link Format Contract",
			mcp.WithResourceDescription("Canonical link collection shape that all mutations must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	col := s.links.ListAll()
	out, _ := json.MarshalIndent(col, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categoryID, err := req.RequireString("category_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	link, err := s.links.CreateLink(categoryID, title, url)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(link, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categoryID, err := req.RequireString("category_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	linkID, err := req.RequireString("link_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.links.DeleteLink(categoryID, linkID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s/%s", categoryID, linkID)), nil
}

func (s *Server) createCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cat, err := s.links.CreateCategory(id, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(cat, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) checkURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results := s.checker.CheckBatch(ctx, []string{url})
	if results[0].IsAccessible {
		return mcp.NewToolResultText(fmt.Sprintf("accessible: %s", url)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("not accessible: %s", url)), nil
}

func (s *Server) listWallpapers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	urls, err := s.wallpapers.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(urls) == 0 {
		return mcp.NewToolResultText("no wallpapers stored"), nil
	}
	return mcp.NewToolResultText(strings.Join(urls, "\n")), nil
}

func (s *Server) getLinkContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(LinkFormatContract), nil
}

func (s *Server) readLinkFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "wunjo://link-format",
			MIMEType: "text/markdown",
			Text:     LinkFormatContract,
		},
	}, nil
}
