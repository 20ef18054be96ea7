package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/jsonai/internal/config"
	"github.com/Aman-CERP/jsonai/internal/index"
	"github.com/Aman-CERP/jsonai/internal/output"
	"github.com/Aman-CERP/jsonai/internal/search"
	"github.com/Aman-CERP/jsonai/pkg/searcher"
	"github.com/Aman-CERP/jsonai/pkg/version"
)

const (
	searchDescription = "Search JSON files for objects matching a query. Returns a bounded JSON envelope; " +
		"when more objects match than the threshold, returns a query plan with field facets and narrower commands instead."
	fieldsDescription = "List the dotted field paths of a JSON document, or the property paths of a JSON Schema."
)

// Server is the jsonai MCP server.
type Server struct {
	mcp      *mcp.Server
	searcher *searcher.Searcher
	config   *config.Config
	logger   *slog.Logger
}

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// NewServer creates a new MCP server. cfg supplies defaults for omitted
// search parameters.
func NewServer(s *searcher.Searcher, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if s == nil {
		return nil, errors.New("searcher is required")
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		searcher: s,
		config:   cfg,
		logger:   logger,
	}
	srv.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "jsonai",
			Version: version.Short(),
		},
		nil,
	)
	srv.registerTools()
	return srv, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return []ToolInfo{
		{Name: "search", Description: searchDescription},
		{Name: "fields", Description: fieldsDescription},
	}
}

// CallTool invokes a tool by name with the given arguments. Search returns
// the rendered response, fields returns a FieldsOutput.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case "search":
		var in SearchInput
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		return s.search(ctx, in)
	case "fields":
		var in FieldsInput
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		return s.fields(ctx, in)
	default:
		return nil, NewMethodNotFoundError(name)
	}
}

func decodeArgs(args map[string]any, dst any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return NewInvalidParamsError(err.Error())
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return NewInvalidParamsError(err.Error())
	}
	return nil
}

// search runs one search and returns the value to serialize.
func (s *Server) search(ctx context.Context, in SearchInput) (any, error) {
	start := time.Now()
	requestID := generateRequestID()

	if strings.TrimSpace(in.Query) == "" {
		return nil, NewInvalidParamsError("query cannot be empty or whitespace only")
	}
	if in.Input == "" {
		return nil, NewInvalidParamsError("input parameter is required")
	}
	if in.Input == "-" {
		return nil, NewInvalidParamsError("stdin is the protocol channel; pass a file, directory or glob")
	}

	req, err := s.request(in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("mcp_search_started",
		slog.String("request_id", requestID),
		slog.String("query", in.Query),
		slog.String("input", in.Input))

	resp, err := s.searcher.Search(ctx, req)
	if err != nil {
		s.logger.Error("mcp_search_failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	s.logger.Info("mcp_search_complete",
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)),
		slog.Int("total", resp.Result.Total),
		slog.Bool("overflow", resp.Result.Overflow))
	return resp.Value, nil
}

// request fills omitted parameters from the configuration.
func (s *Server) request(in SearchInput) (searcher.Request, error) {
	cfg := s.config.Search

	matchName := cfg.Match
	if in.Match != "" {
		matchName = in.Match
	}
	mode, err := index.ParseMatchMode(matchName)
	if err != nil {
		return searcher.Request{}, NewInvalidParamsError(err.Error())
	}

	outputName := cfg.Output
	if in.Output != "" {
		outputName = in.Output
	}
	outMode, err := output.ParseMode(outputName)
	if err != nil {
		return searcher.Request{}, NewInvalidParamsError(err.Error())
	}

	limit := orDefault(in.Limit, cfg.Limit)
	threshold := orDefault(in.Threshold, cfg.Threshold)
	maxBytes := orDefault(in.MaxBytes, cfg.MaxBytes)
	if limit < 0 || in.Offset < 0 || threshold < 0 || maxBytes < 0 {
		return searcher.Request{}, NewInvalidParamsError("limit, offset, threshold and max_bytes must not be negative")
	}

	return searcher.Request{
		Input: in.Input,
		Search: search.Options{
			Query:      in.Query,
			Fields:     in.Fields,
			Mode:       mode,
			Limit:      limit,
			Offset:     in.Offset,
			Threshold:  threshold,
			ForcePlan:  in.Plan,
			NoOverflow: in.NoOverflow,
		},
		Output: output.Options{
			Mode:      outMode,
			Select:    in.Select,
			CountOnly: in.CountOnly,
			MaxBytes:  maxBytes,
		},
		SchemaPath: in.Schema,
	}, nil
}

// orDefault returns *v when the caller set it, def otherwise.
func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func (s *Server) fields(ctx context.Context, in FieldsInput) (FieldsOutput, error) {
	if in.Input == "" || in.Input == "-" {
		return FieldsOutput{}, NewInvalidParamsError("input must name a JSON file")
	}
	paths, err := s.searcher.Fields(ctx, in.Input, in.Schema)
	if err != nil {
		return FieldsOutput{}, MapError(err)
	}
	return FieldsOutput{Fields: paths}, nil
}

// registerTools registers all tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: searchDescription,
	}, s.mcpSearchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "fields",
		Description: fieldsDescription,
	}, s.mcpFieldsHandler)

	s.logger.Debug("mcp_tools_registered", slog.Int("count", 2))
}

// mcpSearchHandler returns the rendered envelope as JSON text, since its
// shape depends on the request.
func (s *Server) mcpSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (
	*mcp.CallToolResult,
	any,
	error,
) {
	value, err := s.search(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	data, err := output.Encode(value, false)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func (s *Server) mcpFieldsHandler(ctx context.Context, _ *mcp.CallToolRequest, in FieldsInput) (
	*mcp.CallToolResult,
	FieldsOutput,
	error,
) {
	out, err := s.fields(ctx, in)
	return nil, out, err
}

// Serve runs the server on the given transport until ctx is canceled or
// the client disconnects.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("mcp_server_starting", slog.String("transport", transport))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("mcp_server_stopped", slog.String("error", err.Error()))
		} else {
			s.logger.Info("mcp_server_stopped")
		}
		return err
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

// generateRequestID creates a short unique request ID for log correlation.
func generateRequestID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
