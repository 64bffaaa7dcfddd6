// Package registry aggregates remote MCP tool services behind one API.
//
// Registry combines the catalog, config and search packages with a remote
// client per service. Each service is registered once: its tool listing is
// fetched a single time and kept until CloseAll.
//
// Features:
//   - Single and bulk registration (from a JSON, YAML or TOML source)
//   - Service and tool listing in registration and catalog order
//   - Tool descriptors with pass-through input schemas
//   - Invocation with normalized text results
//   - BM25-based tool search
//   - Stateless streamable HTTP client with per-service headers and timeout
//
// Example usage:
//
//	reg := registry.New(registry.Config{})
//	defer reg.CloseAll()
//
//	results, err := reg.RegisterServicesFromConfig(ctx, "mcp.json")
//	if err != nil {
//	    return err
//	}
//
//	for _, svc := range reg.ListServices() {
//	    fmt.Println(svc.Name, svc.Description)
//	}
//
//	out, err := reg.InvokeTool(ctx, "calc", "add", map[string]any{"a": 2, "b": 3})
//
// Errors are classified with sentinels: lookups fail with ErrServiceNotFound
// or ErrToolNotFound (as a *NotFoundError listing alternatives), invocations
// fail with ErrInvalidArguments or ErrExecutionFailed, and registration fails
// with ErrNameConflict or ErrConnectionFailed.
package registry
