// Package assist exposes back-office claim tooling over the Model Context
// Protocol so an administrator's assistant can search claims, review them,
// and generate the compliance PDF without going through the dashboard.
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claimdesk/claimdesk/internal/claim"
	"github.com/claimdesk/claimdesk/internal/config"
	"github.com/claimdesk/claimdesk/internal/render"
	"github.com/claimdesk/claimdesk/internal/store"
)

// Server is the assist MCP server instance.
type Server struct {
	config    *config.Config
	claims    store.ClaimRepository
	renderer  *render.Renderer
	outputDir *OutputDir
	mcpServer *server.MCPServer
}

// NewServer creates an assist server over the claim repository and renderer.
func NewServer(cfg *config.Config, claims store.ClaimRepository, renderer *render.Renderer) (*Server, error) {
	if claims == nil {
		return nil, fmt.Errorf("claims repository cannot be nil")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer cannot be nil")
	}

	outputDir, err := NewOutputDir(cfg.DocumentDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to set up document directory: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		claims:    claims,
		renderer:  renderer,
		outputDir: outputDir,
		mcpServer: mcpServer,
	}

	s.registerTools()
	return s, nil
}

// registerTools registers all available assist tools
func (s *Server) registerTools() {
	claimSearchTool := mcp.NewTool(
		"claim_search",
		mcp.WithDescription("Search filed claims by claimant name or claim number"),
		mcp.WithString("query",
			mcp.Description("Optional substring to match against claimant name and claim number"),
		),
		mcp.WithString("status",
			mcp.Description("Optional status filter (pending, reviewing, approved, rejected, in_progress, completed)"),
		),
	)
	s.mcpServer.AddTool(claimSearchTool, s.handleClaimSearch)

	claimGetTool := mcp.NewTool(
		"claim_get",
		mcp.WithDescription("Get the full detail of one claim"),
		mcp.WithString("claim_number",
			mcp.Required(),
			mcp.Description("Display claim number, e.g. CLM-2026-000123"),
		),
	)
	s.mcpServer.AddTool(claimGetTool, s.handleClaimGet)

	claimStatsTool := mcp.NewTool(
		"claim_stats",
		mcp.WithDescription("Summarize the claim backlog by status and priority"),
	)
	s.mcpServer.AddTool(claimStatsTool, s.handleClaimStats)

	claimDocumentTool := mcp.NewTool(
		"claim_document",
		mcp.WithDescription("Generate the compliance PDF for a claim and write it to the document directory"),
		mcp.WithString("claim_number",
			mcp.Required(),
			mcp.Description("Display claim number of the claim to render"),
		),
	)
	s.mcpServer.AddTool(claimDocumentTool, s.handleClaimDocument)
}

// Handler functions
func (s *Server) handleClaimSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query := ""
	if q, ok := args["query"].(string); ok {
		query = strings.ToLower(q)
	}
	status := ""
	if st, ok := args["status"].(string); ok {
		status = st
	}

	records, _, err := s.claims.List(ctx, 0, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var matches []*claim.Record
	for _, rec := range records {
		if status != "" && string(rec.Status) != status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(rec.ClaimantName), query) &&
			!strings.Contains(strings.ToLower(rec.ClaimNumber), query) {
			continue
		}
		matches = append(matches, rec)
	}

	if len(matches) == 0 {
		return mcp.NewToolResultText("No claims matched."), nil
	}

	text := fmt.Sprintf("Found %d claim(s):\n", len(matches))
	for i, rec := range matches {
		text += fmt.Sprintf("%d. %s - %s (%s, %s priority)\n",
			i+1, rec.ClaimNumber, rec.ClaimantName, rec.Status, rec.Priority)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleClaimGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number, err := request.RequireString("claim_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.claims.GetByNumber(ctx, number)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatClaim(rec)), nil
}

func (s *Server) handleClaimStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, total, err := s.claims.List(ctx, 0, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	byStatus := make(map[claim.Status]int)
	byPriority := make(map[claim.Priority]int)
	for _, rec := range records {
		byStatus[rec.Status]++
		byPriority[rec.Priority]++
	}

	text := "Claim Backlog\n"
	text += fmt.Sprintf("Total claims: %d\n", total)
	text += "\nBy status:\n"
	for _, st := range []claim.Status{
		claim.StatusPending, claim.StatusReviewing, claim.StatusApproved,
		claim.StatusRejected, claim.StatusInProgress, claim.StatusCompleted,
	} {
		if n := byStatus[st]; n > 0 {
			text += fmt.Sprintf("  %s: %d\n", st, n)
		}
	}
	text += "\nBy priority:\n"
	for _, p := range []claim.Priority{
		claim.PriorityLow, claim.PriorityMedium, claim.PriorityHigh, claim.PriorityUrgent,
	} {
		if n := byPriority[p]; n > 0 {
			text += fmt.Sprintf("  %s: %d\n", p, n)
		}
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleClaimDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number, err := request.RequireString("claim_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.claims.GetByNumber(ctx, number)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := s.renderer.Render(rec)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to generate document: %v", err)), nil
	}

	info, err := render.Inspect(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generated document is unreadable: %v", err)), nil
	}

	path, err := s.outputDir.Write(render.Filename(rec), data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Generated claim document: %s\n", path)
	text += fmt.Sprintf("Pages: %d\n", info.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", info.Size)
	return mcp.NewToolResultText(text), nil
}

// formatClaim renders one claim as readable text.
func (s *Server) formatClaim(rec *claim.Record) string {
	text := fmt.Sprintf("Claim %s\n", rec.ClaimNumber)
	text += fmt.Sprintf("Status: %s (%s priority)\n", rec.Status, rec.Priority)
	text += fmt.Sprintf("Claimant: %s <%s>\n", rec.ClaimantName, rec.ClaimantEmail)
	text += fmt.Sprintf("Home Phone: %s\n", rec.HomePhone)
	text += fmt.Sprintf("Accident: %s at %s\n", rec.AccidentDateTime, rec.AccidentPlace)
	text += fmt.Sprintf("Insurance: %s, policy %s\n", rec.InsuranceCompany, rec.PolicyNumber)
	text += fmt.Sprintf("Injured: %t\n", rec.Injured)
	if rec.Injured && rec.Injury != nil {
		text += fmt.Sprintf("Injury: %s\n", rec.Injury.Description)
	}
	if rec.EstimatedValue > 0 {
		text += fmt.Sprintf("Estimated Value: %.2f\n", rec.EstimatedValue)
	}
	if len(rec.Notes) > 0 {
		text += fmt.Sprintf("\nNotes (%d):\n", len(rec.Notes))
		for _, n := range rec.Notes {
			text += fmt.Sprintf("  [%s] %s: %s\n", n.Timestamp.Format("2006-01-02"), n.Author, n.Content)
		}
	}
	return text
}

// Run serves the assist surface over stdio. The parent process controls the
// lifecycle.
func (s *Server) Run(_ context.Context) error {
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
