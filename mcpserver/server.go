package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/jonwraymond/toollinker/logging"
	"github.com/jonwraymond/toollinker/registry"
)

// Tool names published by the server.
const (
	ToolListServices = "get_all_services"
	ToolListTools    = "get_all_tools_by_service"
	ToolGetToolInfo  = "get_tool_info"
	ToolExecute      = "execute_tool"
	ToolSearch       = "search_tools"
)

// Registry is the subset of *registry.Registry the server needs.
type Registry interface {
	ListServices() []registry.ServiceSummary
	ListTools(service string) ([]registry.ToolSummary, error)
	GetToolInfo(service, tool string) (registry.ToolInfo, error)
	InvokeTool(ctx context.Context, service, tool string, args map[string]any) (string, error)
	SearchTools(query string, limit int) ([]registry.SearchResult, error)
}

// Options configures the published server.
type Options struct {
	Name    string
	Version string
	Logger  *logrus.Entry
}

type serviceInput struct {
	ServiceName string `json:"service_name" jsonschema:"Required. Service name as returned by get_all_services"`
}

type toolInput struct {
	ServiceName string `json:"service_name" jsonschema:"Required. Service name as returned by get_all_services"`
	ToolName    string `json:"tool_name" jsonschema:"Required. Tool name as returned by get_all_tools_by_service"`
}

type executeInput struct {
	ServiceName string         `json:"service_name" jsonschema:"Required. Service name as returned by get_all_services"`
	ToolName    string         `json:"tool_name" jsonschema:"Required. Tool name as returned by get_all_tools_by_service"`
	InputData   map[string]any `json:"input_data" jsonschema:"Required. Tool arguments matching the inputSchema from get_tool_info"`
}

type searchInput struct {
	Query string `json:"query" jsonschema:"Words describing what the tool should do. Empty lists tools in registration order"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results. Defaults to 10"`
}

type servicesOutput struct {
	Services []registry.ServiceSummary `json:"services"`
}

type toolsOutput struct {
	Service string                 `json:"service"`
	Tools   []registry.ToolSummary `json:"tools"`
}

type searchOutput struct {
	Results []registry.SearchResult `json:"results"`
}

type handler struct {
	reg Registry
	log *logrus.Entry
}

// New builds an MCP server whose tools delegate to reg.
func New(reg Registry, opts Options) *mcp.Server {
	if opts.Name == "" {
		opts.Name = "toollinker"
	}
	if opts.Version == "" {
		opts.Version = "0.1.0"
	}
	h := &handler{reg: reg, log: opts.Logger}
	if h.log == nil {
		h.log = logging.Named("mcpserver")
	}

	server := mcp.NewServer(&mcp.Implementation{Name: opts.Name, Version: opts.Version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolListServices,
		Description: "List every registered MCP service with its name and description.",
	}, h.listServices)
	mcp.AddTool(server, &mcp.Tool{
		Name: ToolListTools,
		Description: "List the tools of one MCP service with their names and descriptions. " +
			"Call get_all_services first to learn the valid service names.",
	}, h.listTools)
	mcp.AddTool(server, &mcp.Tool{
		Name: ToolGetToolInfo,
		Description: "Describe one MCP tool, including its description and input schema. " +
			"Call get_all_tools_by_service first to learn the valid tool names.",
	}, h.getToolInfo)
	mcp.AddTool(server, &mcp.Tool{
		Name: ToolExecute,
		Description: "Execute one MCP tool and return its result. input_data must match the tool's inputSchema; " +
			"if the required arguments are unknown, call get_tool_info first.",
	}, h.execute)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolSearch,
		Description: "Search every registered service for tools matching a description of the task.",
	}, h.search)

	return server
}

// Handler serves server over streamable HTTP.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

func (h *handler) listServices(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, servicesOutput, error) {
	return nil, servicesOutput{Services: h.reg.ListServices()}, nil
}

func (h *handler) listTools(ctx context.Context, req *mcp.CallToolRequest, in serviceInput) (*mcp.CallToolResult, toolsOutput, error) {
	if err := requireName("service_name", in.ServiceName); err != nil {
		return nil, toolsOutput{}, err
	}
	tools, err := h.reg.ListTools(in.ServiceName)
	if err != nil {
		return nil, toolsOutput{}, err
	}
	return nil, toolsOutput{Service: in.ServiceName, Tools: tools}, nil
}

func (h *handler) getToolInfo(ctx context.Context, req *mcp.CallToolRequest, in toolInput) (*mcp.CallToolResult, registry.ToolInfo, error) {
	if err := requireName("service_name", in.ServiceName); err != nil {
		return nil, registry.ToolInfo{}, err
	}
	if err := requireName("tool_name", in.ToolName); err != nil {
		return nil, registry.ToolInfo{}, err
	}
	info, err := h.reg.GetToolInfo(in.ServiceName, in.ToolName)
	if err != nil {
		return nil, registry.ToolInfo{}, err
	}
	return nil, info, nil
}

func (h *handler) execute(ctx context.Context, req *mcp.CallToolRequest, in executeInput) (*mcp.CallToolResult, any, error) {
	if err := requireName("service_name", in.ServiceName); err != nil {
		return nil, nil, err
	}
	if err := requireName("tool_name", in.ToolName); err != nil {
		return nil, nil, err
	}
	out, err := h.reg.InvokeTool(ctx, in.ServiceName, in.ToolName, in.InputData)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"service": in.ServiceName,
			"tool":    in.ToolName,
		}).WithError(err).Warn("execute_tool failed")
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: out}},
	}, nil, nil
}

func (h *handler) search(ctx context.Context, req *mcp.CallToolRequest, in searchInput) (*mcp.CallToolResult, searchOutput, error) {
	results, err := h.reg.SearchTools(in.Query, in.Limit)
	if err != nil {
		return nil, searchOutput{}, err
	}
	return nil, searchOutput{Results: results}, nil
}

func requireName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	return nil
}
