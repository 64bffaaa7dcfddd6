package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Error values for consistent error handling by callers.
var (
	ErrInvalidService = errors.New("invalid service")
	ErrDuplicate      = errors.New("service already exists")
)

// DefaultDescription returns the placeholder used when a service is added
// without a description.
func DefaultDescription(name string) string {
	return "MCP service: " + name
}

// Service is one catalog entry. It is never mutated after creation.
type Service struct {
	name        string
	description string
	tools       []model.Tool
	byName      map[string]int
}

// Name returns the service name.
func (s *Service) Name() string { return s.name }

// Description returns the service description.
func (s *Service) Description() string { return s.description }

// Len returns the number of tools.
func (s *Service) Len() int { return len(s.tools) }

// Tools returns the tool descriptors in catalog order. The slice is a copy.
func (s *Service) Tools() []model.Tool {
	out := make([]model.Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// Tool returns the named descriptor.
func (s *Service) Tool(name string) (model.Tool, bool) {
	i, ok := s.byName[name]
	if !ok {
		return model.Tool{}, false
	}
	return s.tools[i], true
}

// ToolNames returns tool names in catalog order.
func (s *Service) ToolNames() []string {
	names := make([]string, len(s.tools))
	for i, t := range s.tools {
		names[i] = t.Name
	}
	return names
}

// Backend returns the toolfoundation backend descriptor pointing at this service.
func (s *Service) Backend() model.ToolBackend {
	return model.NewMCPBackend(s.name)
}

// NewService builds an immutable entry from a remote tool listing. Nil tools
// and tools without a name are dropped; for repeated names the first
// definition wins.
func NewService(name, description string, tools []*mcp.Tool) (*Service, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidService)
	}
	if description == "" {
		description = DefaultDescription(name)
	}
	svc := &Service{
		name:        name,
		description: description,
		tools:       make([]model.Tool, 0, len(tools)),
		byName:      make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if t == nil || t.Name == "" {
			continue
		}
		if _, dup := svc.byName[t.Name]; dup {
			continue
		}
		svc.byName[t.Name] = len(svc.tools)
		svc.tools = append(svc.tools, model.Tool{Tool: *t, Namespace: name})
	}
	return svc, nil
}

// Catalog is an ordered, append-only set of services.
type Catalog struct {
	mu       sync.RWMutex
	order    []string
	services map[string]*Service
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{services: make(map[string]*Service)}
}

// Add inserts a service. Adding a name that is already present fails with
// ErrDuplicate and leaves the existing entry untouched.
func (c *Catalog) Add(svc *Service) error {
	if svc == nil {
		return ErrInvalidService
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.services[svc.name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, svc.name)
	}
	c.services[svc.name] = svc
	c.order = append(c.order, svc.name)
	return nil
}

// Has reports whether a service is present.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.services[name]
	return ok
}

// Get returns a service by name.
func (c *Catalog) Get(name string) (*Service, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	svc, ok := c.services[name]
	return svc, ok
}

// Names returns service names in insertion order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Services returns all services in insertion order.
func (c *Catalog) Services() []*Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Service, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.services[name])
	}
	return out
}

// Len returns the number of services.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Clear drops every entry.
func (c *Catalog) Clear() {
	c.mu.Lock()
	c.order = nil
	c.services = make(map[string]*Service)
	c.mu.Unlock()
}
