package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bdc-tools/bdc-generator/internal/config"
	"github.com/bdc-tools/bdc-generator/internal/descriptions"
	"github.com/bdc-tools/bdc-generator/internal/devis"
	"github.com/bdc-tools/bdc-generator/internal/generator"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *generator.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *generator.Service) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.AppName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	devisParseTool := mcp.NewTool(
		"devis_parse",
		mcp.WithDescription(descriptions.GetToolDescription("devis_parse")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the devis PDF"),
		),
		mcp.WithBoolean("pose",
			mcp.Description("Force the installation decision (true=sold, false=not sold); omit to let the document decide"),
		),
	)
	s.mcpServer.AddTool(devisParseTool, s.handleDevisParse)

	bdcGenerateTool := mcp.NewTool(
		"bdc_generate",
		mcp.WithDescription(descriptions.GetToolDescription("bdc_generate")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the devis PDF"),
		),
		mcp.WithBoolean("pose",
			mcp.Description("Force the installation decision (true=sold, false=not sold); omit to let the document decide"),
		),
	)
	s.mcpServer.AddTool(bdcGenerateTool, s.handleBDCGenerate)

	devisSearchDirectoryTool := mcp.NewTool(
		"devis_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("devis_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
	)
	s.mcpServer.AddTool(devisSearchDirectoryTool, s.handleDevisSearchDirectory)
}

// Handler functions
func (s *Server) handleDevisParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ParseDevis(generator.ParseRequest{
		Path:         path,
		PoseOverride: poseOverride(request),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatParseResult(result)), nil
}

func (s *Server) handleBDCGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Generate(generator.GenerateRequest{
		Path:         path,
		PoseOverride: poseOverride(request),
	})
	if err != nil {
		var blocked *generator.BlockedError
		if errors.As(err, &blocked) {
			text := fmt.Sprintf("Generation refused for %s:\n", blocked.Path)
			for _, reason := range blocked.Reasons {
				text += fmt.Sprintf("  - %s\n", reason)
			}
			return mcp.NewToolResultError(text), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Purchase order generated: %s\n\n", result.OutputPath)
	responseText += s.formatRecord(result.Record, result.Report)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleDevisSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.DevisDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	files, err := s.service.FindDevisFiles(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No devis files found in directory: %s", directory)), nil
	}

	text := fmt.Sprintf("Found %d devis file(s) in directory: %s\n\nFiles:\n", len(files), directory)
	for i, file := range files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		if i < len(files)-1 {
			text += "\n"
		}
	}

	return mcp.NewToolResultText(text), nil
}

// poseOverride reads the optional tri-state pose argument.
func poseOverride(request mcp.CallToolRequest) *bool {
	args := request.GetArguments()
	if v, ok := args["pose"].(bool); ok {
		return &v
	}
	return nil
}

// Formatting methods
func (s *Server) formatParseResult(result *generator.ParseResult) string {
	text := fmt.Sprintf("Parsed devis: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n\n", result.Pages)
	text += s.formatRecord(result.Record, result.Report)

	if len(result.Blocked) > 0 {
		text += "\nGeneration would be refused:\n"
		for _, reason := range result.Blocked {
			text += fmt.Sprintf("  - %s\n", reason)
		}
	}

	return text
}

func (s *Server) formatRecord(rec devis.Record, report devis.ContaminationReport) string {
	text := fmt.Sprintf("Reference: %s (year-month %s, type %s, number %s)\n",
		rec.Reference, rec.YearMonth, rec.TypeCode, rec.Number)
	text += fmt.Sprintf("Business reference: %s\n", rec.RefAffaire)
	text += fmt.Sprintf("Client: %s\n", rec.Client.Name)
	if rec.Client.PostalCode != "" || rec.Client.City != "" {
		text += fmt.Sprintf("  %s %s\n", rec.Client.PostalCode, rec.Client.City)
	}
	text += fmt.Sprintf("Commercial: %s\n", rec.Commercial.Name)

	if rec.Fourniture.Valid {
		text += fmt.Sprintf("Fourniture HT: %s\n", devis.FormatAmountFR(rec.Fourniture))
	}
	if rec.Prestations.Valid {
		text += fmt.Sprintf("Prestations HT: %s\n", devis.FormatAmountFR(rec.Prestations))
	}
	if rec.TotalHT.Valid {
		text += fmt.Sprintf("Total HT: %s\n", devis.FormatAmountFR(rec.TotalHT))
	}

	pose := "non"
	if rec.Pose.Sold {
		pose = "oui"
		if rec.Pose.Amount.Valid {
			pose += " (" + devis.FormatAmountFR(rec.Pose.Amount) + ")"
		}
	}
	text += fmt.Sprintf("Pose: %s [%s]\n", pose, rec.Pose.Provenance)

	if report.Contaminated() {
		text += "\nSanitizer alterations:\n"
		for field, outcome := range report.Fields {
			text += fmt.Sprintf("  - %s: %s\n", field, outcome)
		}
	}

	if len(rec.Warnings) > 0 {
		text += "\nWarnings:\n"
		for _, w := range rec.Warnings {
			text += fmt.Sprintf("  - %s\n", w)
		}
	}

	return text
}

// Run starts the MCP server on stdio.
func (s *Server) Run(ctx context.Context) error {
	if s.config.Verbose {
		log.Printf("Starting BDC generator MCP server in stdio mode")
		log.Printf("Devis directory: %s", s.config.DevisDirectory)
		log.Printf("Template: %s", s.config.TemplatePath)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
