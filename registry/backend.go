package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Invocable performs one execution of a single remote tool.
type Invocable func(ctx context.Context, args map[string]any) (any, error)

// RemoteToolClient is a connection to one remote tool provider.
type RemoteToolClient interface {
	// ListTools returns every tool the remote provider exposes.
	ListTools(ctx context.Context) ([]*mcp.Tool, error)
	// Invocable returns a function bound to the named tool. Argument
	// rejections returned by the function wrap ErrInvalidArguments.
	Invocable(ctx context.Context, name string) (Invocable, error)
	// Close releases the connection.
	Close() error
}

// ClientFactory builds the RemoteToolClient for a service.
type ClientFactory func(cfg ServiceConfig) (RemoteToolClient, error)

// ClientInfo identifies this process to remote MCP servers.
type ClientInfo struct {
	Name    string
	Version string
}

const (
	defaultClientName    = "toollinker"
	defaultClientVersion = "0.1.0"
)

// MCPClientFactory returns a ClientFactory producing stateless streamable
// HTTP clients.
func MCPClientFactory(info ClientInfo) ClientFactory {
	return func(cfg ServiceConfig) (RemoteToolClient, error) {
		return NewMCPClient(cfg, info)
	}
}

// MCPClient talks to a streamable HTTP MCP server. Every listing and every
// call runs in its own session, so there is nothing to keep open between
// operations.
type MCPClient struct {
	endpoint   string
	httpClient *http.Client
	client     *mcp.Client

	mu         sync.Mutex
	invocables map[string]Invocable
}

// NewMCPClient validates cfg and prepares a client. No network traffic
// happens until the first operation.
func NewMCPClient(cfg ServiceConfig, info ClientInfo) (*MCPClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("service URL is required")
	}
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid service URL: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported service URL scheme %q", parsed.Scheme)
	}

	if info.Name == "" {
		info.Name = defaultClientName
	}
	if info.Version == "" {
		info.Version = defaultClientVersion
	}

	return &MCPClient{
		endpoint:   cfg.URL,
		httpClient: httpClientWithHeaders(cfg.Headers, cfg.Timeout),
		client:     mcp.NewClient(&mcp.Implementation{Name: info.Name, Version: info.Version}, nil),
		invocables: make(map[string]Invocable),
	}, nil
}

// ListTools fetches the full tool listing, following pagination cursors.
func (c *MCPClient) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	session, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var tools []*mcp.Tool
	params := &mcp.ListToolsParams{}
	for {
		res, err := session.ListTools(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		tools = append(tools, res.Tools...)
		if res.NextCursor == "" {
			return tools, nil
		}
		params = &mcp.ListToolsParams{Cursor: res.NextCursor}
	}
}

// Invocable returns the cached callable for name, creating it on first use.
func (c *MCPClient) Invocable(_ context.Context, name string) (Invocable, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: tool name is required", ErrInvalidRequest)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn, ok := c.invocables[name]; ok {
		return fn, nil
	}
	fn := func(ctx context.Context, args map[string]any) (any, error) {
		return c.callTool(ctx, name, args)
	}
	c.invocables[name] = fn
	return fn, nil
}

// Close drops cached invocables. Sessions are already closed per operation.
func (c *MCPClient) Close() error {
	c.mu.Lock()
	c.invocables = make(map[string]Invocable)
	c.mu.Unlock()
	return nil
}

func (c *MCPClient) connect(ctx context.Context) (*mcp.ClientSession, error) {
	transport := &mcp.StreamableClientTransport{
		Endpoint:   c.endpoint,
		HTTPClient: c.httpClient,
	}
	session, err := c.client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.endpoint, err)
	}
	return session, nil
}

func (c *MCPClient) callTool(ctx context.Context, name string, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}
	session, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		if isArgumentRejection(err.Error()) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
		}
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	if result.IsError {
		msg := toolResultError(result)
		if isArgumentRejection(msg) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidArguments, msg)
		}
		return nil, errors.New(msg)
	}
	return toolResultValue(result), nil
}

func httpClientWithHeaders(headers map[string]string, timeout time.Duration) *http.Client {
	clone := make(map[string]string, len(headers))
	for k, v := range headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		clone[k] = v
	}
	if len(clone) == 0 && timeout <= 0 {
		return nil
	}
	client := &http.Client{Timeout: timeout}
	if len(clone) > 0 {
		client.Transport = &headerRoundTripper{
			base:    http.DefaultTransport,
			headers: clone,
		}
	}
	return client
}

type headerRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := h.base
	if base == nil {
		base = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	for key, value := range h.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	return base.RoundTrip(req)
}

func toolResultValue(result *mcp.CallToolResult) any {
	if result == nil {
		return nil
	}
	if result.StructuredContent != nil {
		return result.StructuredContent
	}
	if len(result.Content) == 1 {
		if text, ok := result.Content[0].(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return result.Content
}

func toolResultError(result *mcp.CallToolResult) string {
	if result == nil {
		return "tool execution failed"
	}
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok && text.Text != "" {
			return text.Text
		}
	}
	if result.StructuredContent != nil {
		return fmt.Sprintf("%v", result.StructuredContent)
	}
	return "tool execution failed"
}
