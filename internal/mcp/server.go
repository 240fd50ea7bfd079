package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/lease-form-extractor/internal/config"
	"github.com/a3tai/lease-form-extractor/internal/descriptions"
	"github.com/a3tai/lease-form-extractor/internal/ingest"
	"github.com/a3tai/lease-form-extractor/internal/lease"
)

const (
	ToolListFields    = "lease_list_fields"
	ToolExtractRecord = "lease_extract_record"
	ToolAppendRecord  = "lease_append_record"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	processor *ingest.Processor
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, processor *ingest.Processor, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if processor == nil {
		return nil, fmt.Errorf("processor cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		processor: processor,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pathArg := mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Full path to the lease PDF file"),
	)

	s.mcpServer.AddTool(mcp.NewTool(ToolListFields,
		mcp.WithDescription(descriptions.LeaseListFieldsDescription),
		pathArg,
	), s.handleListFields)

	s.mcpServer.AddTool(mcp.NewTool(ToolExtractRecord,
		mcp.WithDescription(descriptions.LeaseExtractRecordDescription),
		pathArg,
	), s.handleExtractRecord)

	s.mcpServer.AddTool(mcp.NewTool(ToolAppendRecord,
		mcp.WithDescription(descriptions.LeaseAppendRecordDescription),
		pathArg,
	), s.handleAppendRecord)
}

func (s *Server) handleListFields(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fields, _, err := s.processor.ExtractFile(path)
	if errors.Is(err, ingest.ErrNoFields) {
		return mcp.NewToolResultText(fmt.Sprintf("No form fields found in %s", path)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFields(path, fields)), nil
}

func (s *Server) handleExtractRecord(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	_, record, err := s.processor.ExtractFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode record: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleAppendRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.processor.ProcessFile(ctx, path)
	if errors.Is(err, ingest.ErrNoFields) {
		return mcp.NewToolResultText("No form fields found in the PDF."), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Info("record appended",
		slog.String("path", path),
		slog.String("destination", result.Destination))

	return mcp.NewToolResultText(fmt.Sprintf("Structured data saved to %s (%d form fields read)",
		result.Destination, result.FieldCount)), nil
}

func formatFields(path string, fields lease.FormFieldSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d form fields in %s\n", fields.Len(), path)
	for _, f := range fields {
		value := f.Text()
		if value == "" {
			value = "(empty)"
		}
		fmt.Fprintf(&b, "- %s = %s\n", f.Name, value)
	}
	return b.String()
}

// Run serves MCP over stdin/stdout until ctx is done or stdin closes.
func (s *Server) Run(ctx context.Context) error {
	return s.serve(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Debug("starting MCP server in stdio mode",
		slog.String("name", s.config.ServerName),
		slog.String("output", s.config.OutputPath))

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, in, out)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil
	default:
		return fmt.Errorf("stdio server error: %w", err)
	}
}
