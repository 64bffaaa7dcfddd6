// Package mcpserver publishes a registry as an MCP server.
//
// The server exposes five tools:
//
//   - get_all_services lists registered services
//   - get_all_tools_by_service lists the tools of one service
//   - get_tool_info returns one tool's description and input schema
//   - execute_tool invokes a tool with input_data as its arguments
//   - search_tools ranks tools across every service
//
// Tool descriptions tell callers to discover names before calling the
// deeper tools. Failures are returned as error results carrying the
// registry's message, so a bad call never ends the caller's session.
//
//	srv := mcpserver.New(reg, mcpserver.Options{})
//	http.Handle("/mcp", mcpserver.Handler(srv))
package mcpserver
