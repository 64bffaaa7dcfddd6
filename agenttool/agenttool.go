// Package agenttool publishes a registry as agent-go tools.
//
// The tools mirror the MCP front end but never fail the agent's turn: every
// error, including malformed input, comes back as a readable message in the
// result output with Result.Error set.
package agenttool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/agent-go/domain/agent"
	"github.com/felixgeelhaar/agent-go/domain/pack"
	"github.com/felixgeelhaar/agent-go/domain/tool"

	"github.com/jonwraymond/toollinker/registry"
)

// PackName is the name of the pack returned by Pack.
const PackName = "toollinker"

// Registry is the subset of *registry.Registry the tools need.
type Registry interface {
	ListServices() []registry.ServiceSummary
	ListTools(service string) ([]registry.ToolSummary, error)
	GetToolInfo(service, tool string) (registry.ToolInfo, error)
	InvokeTool(ctx context.Context, service, tool string, args map[string]any) (string, error)
	SearchTools(query string, limit int) ([]registry.SearchResult, error)
}

// Tools returns the five registry tools in discovery order.
func Tools(reg Registry) []tool.Tool {
	return []tool.Tool{
		listServicesTool(reg),
		listToolsTool(reg),
		toolInfoTool(reg),
		executeTool(reg),
		searchTool(reg),
	}
}

// Pack bundles the tools. Discovery tools are allowed while exploring and
// execute_tool while acting.
func Pack(reg Registry) *pack.Pack {
	return pack.NewBuilder(PackName).
		WithDescription("Discover and call tools on registered MCP services").
		AddTools(Tools(reg)...).
		AllowInState(agent.StateExplore, "get_all_services", "get_all_tools_by_service", "get_tool_info", "search_tools").
		AllowInState(agent.StateAct, "get_tool_info", "execute_tool").
		Build()
}

// Register adds every tool to dst.
func Register(dst tool.Registry, reg Registry) error {
	for _, t := range Tools(reg) {
		if err := dst.Register(t); err != nil {
			return fmt.Errorf("register %s: %w", t.Name(), err)
		}
	}
	return nil
}

var (
	serviceNameSchema = json.RawMessage(`{"type":"string","description":"Required. Service name as returned by get_all_services"}`)
	toolNameSchema    = json.RawMessage(`{"type":"string","description":"Required. Tool name as returned by get_all_tools_by_service"}`)
)

func listServicesTool(reg Registry) tool.Tool {
	return tool.NewBuilder("get_all_services").
		WithDescription("List every registered MCP service with its name and description.").
		WithInputSchema(tool.EmptySchema()).
		ReadOnly().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			return jsonResult(reg.ListServices()), nil
		}).
		MustBuild()
}

func listToolsTool(reg Registry) tool.Tool {
	return tool.NewBuilder("get_all_tools_by_service").
		WithDescription("List the tools of one MCP service with their names and descriptions. " +
			"Call get_all_services first to learn the valid service names.").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"service_name": serviceNameSchema,
		}, []string{"service_name"})).
		ReadOnly().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var params struct {
				ServiceName string `json:"service_name"`
			}
			if err := decode(input, &params); err != nil {
				return errorResult("invalid input", err), nil
			}
			if strings.TrimSpace(params.ServiceName) == "" {
				return messageResult("service name must not be empty"), nil
			}
			if len(reg.ListServices()) == 0 {
				return messageResult("no services are registered"), nil
			}
			tools, err := reg.ListTools(params.ServiceName)
			if err != nil {
				return errorResult("failed to list tools", err), nil
			}
			return jsonResult(tools), nil
		}).
		MustBuild()
}

func toolInfoTool(reg Registry) tool.Tool {
	return tool.NewBuilder("get_tool_info").
		WithDescription("Describe one MCP tool, including its description and input schema. " +
			"Call get_all_tools_by_service first to learn the valid tool names.").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"service_name": serviceNameSchema,
			"tool_name":    toolNameSchema,
		}, []string{"service_name", "tool_name"})).
		ReadOnly().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var params struct {
				ServiceName string `json:"service_name"`
				ToolName    string `json:"tool_name"`
			}
			if err := decode(input, &params); err != nil {
				return errorResult("invalid input", err), nil
			}
			if strings.TrimSpace(params.ServiceName) == "" || strings.TrimSpace(params.ToolName) == "" {
				return messageResult("service name and tool name must not be empty"), nil
			}
			info, err := reg.GetToolInfo(params.ServiceName, params.ToolName)
			if err != nil {
				return errorResult("failed to get tool info", err), nil
			}
			return jsonResult(info), nil
		}).
		MustBuild()
}

func executeTool(reg Registry) tool.Tool {
	return tool.NewBuilder("execute_tool").
		WithDescription("Execute one MCP tool and return its result. input_data must match the tool's inputSchema; " +
			"if the required arguments are unknown, call get_tool_info first.").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"service_name": serviceNameSchema,
			"tool_name":    toolNameSchema,
			"input_data":   json.RawMessage(`{"type":"object","description":"Required. Tool arguments matching the inputSchema from get_tool_info"}`),
		}, []string{"service_name", "tool_name", "input_data"})).
		WithRiskLevel(tool.RiskMedium).
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var params struct {
				ServiceName string         `json:"service_name"`
				ToolName    string         `json:"tool_name"`
				InputData   map[string]any `json:"input_data"`
			}
			if err := decode(input, &params); err != nil {
				return errorResult("invalid input", err), nil
			}
			if strings.TrimSpace(params.ServiceName) == "" || strings.TrimSpace(params.ToolName) == "" {
				return messageResult("service name and tool name must not be empty"), nil
			}
			out, err := reg.InvokeTool(ctx, params.ServiceName, params.ToolName, params.InputData)
			if err != nil {
				return executionErrorResult(err), nil
			}
			return textResult(out), nil
		}).
		MustBuild()
}

func searchTool(reg Registry) tool.Tool {
	return tool.NewBuilder("search_tools").
		WithDescription("Search every registered service for tools matching a description of the task.").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"query": json.RawMessage(`{"type":"string","description":"Words describing what the tool should do"}`),
			"limit": json.RawMessage(`{"type":"integer","description":"Maximum number of results, default 10"}`),
		}, []string{"query"})).
		ReadOnly().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var params struct {
				Query string `json:"query"`
				Limit int    `json:"limit"`
			}
			if err := decode(input, &params); err != nil {
				return errorResult("invalid input", err), nil
			}
			results, err := reg.SearchTools(params.Query, params.Limit)
			if err != nil {
				return errorResult("failed to search tools", err), nil
			}
			return jsonResult(results), nil
		}).
		MustBuild()
}

func decode(input json.RawMessage, v any) error {
	if len(input) == 0 || string(input) == "null" {
		return nil
	}
	return json.Unmarshal(input, v)
}

func jsonResult(v any) tool.Result {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to encode result", err)
	}
	return tool.NewResult(out)
}

func textResult(s string) tool.Result {
	out, _ := json.Marshal(s)
	return tool.NewResult(out)
}

func messageResult(msg string) tool.Result {
	r := textResult(msg)
	r.Error = errors.New(msg)
	return r
}

func errorResult(prefix string, err error) tool.Result {
	r := textResult(fmt.Sprintf("%s: %v", prefix, err))
	r.Error = err
	return r
}

// executionErrorResult separates failures the registry classified from
// anything unexpected, which also gets its error chain for diagnosis.
func executionErrorResult(err error) tool.Result {
	if isKnown(err) {
		return errorResult("failed to execute tool", err)
	}
	r := textResult(fmt.Sprintf("unexpected error while executing tool: %v\n\nerror chain:\n%s", err, errorChain(err)))
	r.Error = err
	return r
}

func isKnown(err error) bool {
	for _, target := range []error{
		registry.ErrServiceNotFound,
		registry.ErrToolNotFound,
		registry.ErrInvalidArguments,
		registry.ErrExecutionFailed,
		registry.ErrInvalidRequest,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func errorChain(err error) string {
	var b strings.Builder
	depth := 0
	for e := err; e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(&b, "%d. %T: %v\n", depth, e, e)
		depth++
	}
	return strings.TrimSuffix(b.String(), "\n")
}
