// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes blog authoring tools for LLM integration via stdio transport.
// Tools can read published and draft posts and create new drafts;
// publishing stays behind the admin HTTP surface.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fernside/pawbase/internal/blog"
)

// Server wraps the MCP server with blog tools.
type Server struct {
	mcp  *server.MCPServer
	repo *blog.Repository
}

// New creates a new MCP server with all blog tools registered.
func New(repo *blog.Repository) *Server {
	s := &Server{repo: repo}

	s.mcp = server.NewMCPServer(
		"Pawbase",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List blog posts, newest first. Includes drafts."),
		mcp.WithString("status", mcp.Description("Filter: draft, published, or all (default all)")),
	), s.listPosts)

	s.mcp.AddTool(mcp.NewTool("search_posts",
		mcp.WithDescription("Search posts by title or excerpt (case-insensitive substring)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPosts)

	s.mcp.AddTool(mcp.NewTool("read_post",
		mcp.WithDescription("Read the full content of a post by slug."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Post slug (e.g. puppy-socialisation-tips)")),
	), s.readPost)

	s.mcp.AddTool(mcp.NewTool("draft_post",
		mcp.WithDescription("Create a new blog post in draft status. Drafts are invisible "+
			"on the public site until an admin publishes them."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("URL-safe unique slug")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Post title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Post body (Markdown or HTML)")),
		mcp.WithString("excerpt", mcp.Description("Short summary shown on listings")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags, in display order")),
	), s.draftPost)

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

func (s *Server) listPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := blog.StatusAll
	if v, err := req.RequireString("status"); err == nil && v != "" {
		status = v
	}
	result, err := s.repo.List(ctx, blog.Filter{Status: status, Page: 1, Limit: 50})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result.Posts, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := s.repo.List(ctx, blog.Filter{Search: query, Status: blog.StatusAll, Page: 1, Limit: 20})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result.Posts, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	out, _ := json.MarshalIndent(post, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) draftPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := blog.CreateInput{
		Slug:    slug,
		Title:   title,
		Content: content,
		Status:  blog.StatusDraft,
	}
	if v, err := req.RequireString("excerpt"); err == nil {
		in.Excerpt = v
	}
	if v, err := req.RequireString("tags"); err == nil && v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				in.Tags = append(in.Tags, tag)
			}
		}
	}

	post, err := s.repo.Create(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("drafted: %s", post.Slug)), nil
}
