// Package server exposes the retry analyzer and the error cause finder as MCP
// tools so that agents driving test campaigns can query them over stdio.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bhecquet/seleniumRobot-sub010/internal/actions"
	"github.com/bhecquet/seleniumRobot-sub010/internal/app"
	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
	"github.com/bhecquet/seleniumRobot-sub010/internal/retry"
)

// Server serves MCP tools over one database.
type Server struct {
	db       *sql.DB
	settings app.AnalysisSettings
	analyzer *retry.Analyzer
	mcp      *mcpserver.MCPServer

	// The detection service is connected on first use and shared by every
	// tool call, so its detection cache lives as long as the server.
	detectorMu sync.Mutex
	detector   fielddetector.Detector
	connect    func(ctx context.Context, s app.AnalysisSettings) (fielddetector.Detector, error)
}

// Option configures a Server.
type Option func(*Server)

// WithDetector uses d instead of connecting to the configured service.
func WithDetector(d fielddetector.Detector) Option {
	return func(s *Server) { s.detector = d }
}

// New builds the server and registers its tools.
func New(db *sql.DB, settings app.AnalysisSettings, version string, opts ...Option) *Server {
	s := &Server{
		db:       db,
		settings: settings,
		analyzer: retry.NewAnalyzer(settings.MaxRetry),
		connect:  actions.NewDetector,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcpserver.NewMCPServer("seleniumrobot", version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// ServeStdio serves requests on stdin/stdout until stdin closes.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcp)
}

func (s *Server) detectorFor(ctx context.Context) (fielddetector.Detector, error) {
	s.detectorMu.Lock()
	defer s.detectorMu.Unlock()

	if s.detector != nil {
		return s.detector, nil
	}
	d, err := s.connect(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	s.detector = d
	return d, nil
}

// toText serializes a tool result for the MCP response, with the same field
// names as the CLI output.
func toText(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

func textResult(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(v)), nil
}
