package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/toollinker/catalog"
	"github.com/jonwraymond/toollinker/config"
	"github.com/jonwraymond/toollinker/logging"
	"github.com/jonwraymond/toollinker/search"
)

const tracerName = "github.com/jonwraymond/toollinker/registry"

// Config configures a Registry. The zero value is usable.
type Config struct {
	// ClientFactory builds remote clients. Defaults to MCPClientFactory(ClientInfo).
	ClientFactory ClientFactory
	// ClientInfo identifies this process to remote servers.
	ClientInfo ClientInfo
	// SearchConfig tunes SearchTools ranking.
	SearchConfig *search.BM25Config
	// Logger defaults to logging.Named("registry").
	Logger *logrus.Entry
	// Tracer defaults to the global otel tracer provider.
	Tracer trace.Tracer
}

// ServiceConfig describes one remote service to register.
type ServiceConfig struct {
	Name        string
	URL         string
	Headers     map[string]string
	Description string
	// Type is the transport tag. Only config.TransportStreamableHTTP is supported.
	Type    string
	Timeout time.Duration
}

// ServiceSummary is one row of ListServices.
type ServiceSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolSummary is one row of ListTools.
type ToolSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolInfo is the full descriptor returned by GetToolInfo. InputSchema is
// passed through exactly as the remote service declared it.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

// SearchResult is one ranked SearchTools match.
type SearchResult struct {
	Service     string  `json:"service"`
	Tool        string  `json:"tool"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// Registry owns the catalog of registered services and one remote client
// per service, and dispatches tool invocations to them.
type Registry struct {
	mu       sync.RWMutex
	catalog  *catalog.Catalog
	clients  map[string]RemoteToolClient
	factory  ClientFactory
	searcher *search.BM25Searcher
	log      *logrus.Entry
	tracer   trace.Tracer
}

// New creates a new Registry with the given config.
func New(cfg Config) *Registry {
	factory := cfg.ClientFactory
	if factory == nil {
		factory = MCPClientFactory(cfg.ClientInfo)
	}

	searcher := search.NewBM25Searcher(search.BM25Config{})
	if cfg.SearchConfig != nil {
		searcher = search.NewBM25Searcher(*cfg.SearchConfig)
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Named("registry")
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Registry{
		catalog:  catalog.New(),
		clients:  make(map[string]RemoteToolClient),
		factory:  factory,
		searcher: searcher,
		log:      log,
		tracer:   tracer,
	}
}

// RegisterService connects to a remote service, snapshots its tool listing
// and adds it to the registry. On failure nothing is added.
func (r *Registry) RegisterService(ctx context.Context, cfg ServiceConfig) error {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidRequest)
	}
	cfg.Name = name
	if strings.TrimSpace(cfg.URL) == "" {
		return fmt.Errorf("%w: service %s has no URL", ErrInvalidRequest, name)
	}
	if r.has(name) {
		return fmt.Errorf("%w: %s", ErrNameConflict, name)
	}

	client, err := r.factory(cfg)
	if err != nil {
		return fmt.Errorf("%w: service %s: %w", ErrConnectionFailed, name, err)
	}
	tools, err := client.ListTools(ctx)
	if err != nil {
		_ = client.Close()
		return fmt.Errorf("%w: service %s: %w", ErrConnectionFailed, name, err)
	}

	svc, err := catalog.NewService(name, cfg.Description, tools)
	if err != nil {
		_ = client.Close()
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	r.mu.Lock()
	if err := r.catalog.Add(svc); err != nil {
		r.mu.Unlock()
		_ = client.Close()
		if errors.Is(err, catalog.ErrDuplicate) {
			return fmt.Errorf("%w: %s", ErrNameConflict, name)
		}
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	r.clients[name] = client
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"service": name,
		"backend": svc.Backend().Kind,
		"tools":   svc.Len(),
	}).Info("registered service")
	return nil
}

// record stores a batch outcome. A name already registered earlier in the
// same batch stays true.
func record(results map[string]bool, name string, ok bool) {
	if results[name] {
		return
	}
	results[name] = ok
}

// RegisterServicesFromConfig loads a declarative source from a local path or
// URL and registers every server it defines. Only loading errors are
// returned; per-service outcomes are reported in the map.
func (r *Registry) RegisterServicesFromConfig(ctx context.Context, location string) (map[string]bool, error) {
	src, err := config.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	r.log.WithField("source", src.Location).Infof("loaded %d service definitions", len(src.Servers))
	return r.RegisterServices(ctx, src.Servers), nil
}

// RegisterServices registers each definition independently. A failing
// definition is logged and reported as false; it never stops the batch.
func (r *Registry) RegisterServices(ctx context.Context, defs []config.ServerDefinition) map[string]bool {
	results := make(map[string]bool, len(defs))
	succeeded := 0
	for _, def := range defs {
		name := strings.TrimSpace(def.Name)
		log := r.log.WithField("service", name)
		if def.Err != nil {
			log.WithError(def.Err).Error("invalid service definition, skipping")
			record(results, name, false)
			continue
		}
		if strings.TrimSpace(def.URL) == "" {
			log.Warn("service has no URL, skipping")
			record(results, name, false)
			continue
		}
		if t := def.TransportType(); t != config.TransportStreamableHTTP {
			log.Warnf("service type is %s, only %s is supported", t, config.TransportStreamableHTTP)
		}

		err := r.RegisterService(ctx, ServiceConfig{
			Name:        name,
			URL:         def.URL,
			Headers:     def.Headers,
			Description: def.Description,
			Type:        def.TransportType(),
			Timeout:     def.TimeoutDuration(),
		})
		if err != nil {
			log.WithError(err).Error("service registration failed")
			record(results, name, false)
			continue
		}
		results[name] = true
		succeeded++
	}
	r.log.Infof("registered %d/%d services", succeeded, len(defs))
	return results
}

// ListServices returns every registered service in registration order.
func (r *Registry) ListServices() []ServiceSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	services := r.catalog.Services()
	out := make([]ServiceSummary, 0, len(services))
	for _, svc := range services {
		out = append(out, ServiceSummary{Name: svc.Name(), Description: svc.Description()})
	}
	return out
}

// ListTools returns the tools of a service in catalog order.
func (r *Registry) ListTools(service string) ([]ToolSummary, error) {
	svc, err := r.service(service)
	if err != nil {
		return nil, err
	}
	tools := svc.Tools()
	out := make([]ToolSummary, 0, len(tools))
	for _, t := range tools {
		out = append(out, ToolSummary{Name: t.Name, Description: t.Description})
	}
	return out, nil
}

// GetToolInfo returns the descriptor of one tool.
func (r *Registry) GetToolInfo(service, tool string) (ToolInfo, error) {
	svc, err := r.service(service)
	if err != nil {
		return ToolInfo{}, err
	}
	t, ok := svc.Tool(tool)
	if !ok {
		return ToolInfo{}, newToolNotFound(service, tool, svc.ToolNames())
	}
	return ToolInfo{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}, nil
}

// InvokeTool calls a registered tool and returns its normalized text result.
// Unknown services and tools are rejected before any network traffic.
func (r *Registry) InvokeTool(ctx context.Context, service, tool string, args map[string]any) (result string, err error) {
	ctx, span := r.tracer.Start(ctx, "registry.InvokeTool", trace.WithAttributes(
		attribute.String("service", service),
		attribute.String("tool", tool),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	r.mu.RLock()
	svc, ok := r.catalog.Get(service)
	client := r.clients[service]
	names := r.catalog.Names()
	r.mu.RUnlock()
	if !ok || client == nil {
		return "", newServiceNotFound(service, names)
	}
	if _, ok := svc.Tool(tool); !ok {
		return "", newToolNotFound(service, tool, svc.ToolNames())
	}

	callID := uuid.NewString()
	span.SetAttributes(attribute.String("call_id", callID))
	log := r.log.WithFields(logrus.Fields{
		"service": service,
		"tool":    tool,
		"call_id": callID,
	})

	invoke, err := client.Invocable(ctx, tool)
	if err != nil {
		return "", fmt.Errorf("%w: %s/%s: %w", ErrExecutionFailed, service, tool, err)
	}
	if invoke == nil {
		return "", fmt.Errorf("%w: %s/%s: no callable for tool", ErrExecutionFailed, service, tool)
	}

	log.Debug("invoking tool")
	started := time.Now()
	value, err := invoke(ctx, args)
	log = log.WithField("elapsed", time.Since(started))
	if err != nil {
		log.WithError(err).Debug("tool invocation failed")
		if errors.Is(err, ErrInvalidArguments) {
			return "", fmt.Errorf("%s/%s: %w", service, tool, err)
		}
		return "", fmt.Errorf("%w: %s/%s: %w", ErrExecutionFailed, service, tool, err)
	}
	log.Debug("tool invocation finished")

	text, err := NormalizeResult(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s/%s: %w", ErrExecutionFailed, service, tool, err)
	}
	return text, nil
}

// SearchTools ranks registered tools against query. An empty query lists
// the first limit tools in catalog order.
func (r *Registry) SearchTools(query string, limit int) ([]SearchResult, error) {
	r.mu.RLock()
	services := r.catalog.Services()
	r.mu.RUnlock()

	var docs []search.Document
	for _, svc := range services {
		for _, t := range svc.Tools() {
			docs = append(docs, search.Document{
				ID:          t.ToolID(),
				Service:     svc.Name(),
				Name:        t.Name,
				Description: t.Description,
			})
		}
	}

	hits, err := r.searcher.Search(query, limit, docs)
	if err != nil {
		return nil, err
	}
	out := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		out = append(out, SearchResult{
			Service:     h.Service,
			Tool:        h.Name,
			Description: h.Description,
			Score:       h.Score,
		})
	}
	return out, nil
}

// CloseAll releases every client and clears the catalog. It is safe to call
// repeatedly. Client close errors are returned after the registry is cleared.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	clients := r.clients
	names := r.catalog.Names()
	r.clients = make(map[string]RemoteToolClient)
	r.catalog.Clear()
	r.mu.Unlock()

	var errs []error
	for _, name := range names {
		client, ok := clients[name]
		if !ok || client == nil {
			continue
		}
		if err := client.Close(); err != nil {
			r.log.WithField("service", name).WithError(err).Warn("close client failed")
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	if len(names) > 0 {
		r.log.Infof("closed %d services", len(names))
	}
	return errors.Join(errs...)
}

// Close releases the registry, including the search index.
func (r *Registry) Close() error {
	return errors.Join(r.CloseAll(), r.searcher.Close())
}

func (r *Registry) has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Has(name)
}

func (r *Registry) service(name string) (*catalog.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.catalog.Get(name)
	if !ok {
		return nil, newServiceNotFound(name, r.catalog.Names())
	}
	return svc, nil
}
