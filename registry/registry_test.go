package registry

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/toollinker/config"
	"github.com/jonwraymond/toollinker/logging"
)

type fakeClient struct {
	tools   []*mcp.Tool
	listErr error
	results map[string]any
	errs    map[string]error

	listCalls   atomic.Int32
	invokeCalls atomic.Int32
	closed      atomic.Bool

	mu       sync.Mutex
	lastArgs map[string]any
}

func (f *fakeClient) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	f.listCalls.Add(1)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tools, nil
}

func (f *fakeClient) Invocable(ctx context.Context, name string) (Invocable, error) {
	return func(ctx context.Context, args map[string]any) (any, error) {
		f.invokeCalls.Add(1)
		f.mu.Lock()
		f.lastArgs = args
		f.mu.Unlock()
		if err := f.errs[name]; err != nil {
			return nil, err
		}
		return f.results[name], nil
	}, nil
}

func (f *fakeClient) Close() error {
	f.closed.Store(true)
	return nil
}

// fakeFactory hands out clients by service name and records what was built.
type fakeFactory struct {
	mu      sync.Mutex
	clients map[string]*fakeClient
	configs []ServiceConfig
}

func (f *fakeFactory) build(cfg ServiceConfig) (RemoteToolClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs = append(f.configs, cfg)
	c, ok := f.clients[cfg.Name]
	if !ok {
		return nil, errors.New("unknown host")
	}
	return c, nil
}

func (f *fakeFactory) built() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.configs)
}

func calcClient() *fakeClient {
	return &fakeClient{
		tools: []*mcp.Tool{
			{
				Name:        "add",
				Description: "Add two integers",
				InputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"a": map[string]any{"type": "integer"},
						"b": map[string]any{"type": "integer"},
					},
					"required": []any{"a", "b"},
				},
			},
			{Name: "multiply", Description: "Multiply two integers"},
			{Name: "stats", Description: "Describe a series"},
		},
		results: map[string]any{
			"add":      5,
			"multiply": "6",
			"stats":    map[string]any{"mean": 2.5, "label": "série <a&b>", "values": []any{1.0, 2.0}},
		},
		errs: map[string]error{},
	}
}

func weatherClient() *fakeClient {
	return &fakeClient{
		tools: []*mcp.Tool{
			{Name: "get_forecast", Description: "Weather forecast for a city"},
			{Name: "get_alerts", Description: "Severe weather alerts"},
		},
		results: map[string]any{},
		errs:    map[string]error{},
	}
}

func newTestRegistry(t *testing.T, clients map[string]*fakeClient) (*Registry, *fakeFactory) {
	t.Helper()
	factory := &fakeFactory{clients: clients}
	reg := New(Config{
		ClientFactory: factory.build,
		Logger:        logging.Discard(),
	})
	t.Cleanup(func() { _ = reg.Close() })
	return reg, factory
}

func mustRegister(t *testing.T, reg *Registry, name string) {
	t.Helper()
	if err := reg.RegisterService(context.Background(), ServiceConfig{
		Name: name,
		URL:  "http://" + name + ".local/mcp",
	}); err != nil {
		t.Fatalf("RegisterService(%s) failed: %v", name, err)
	}
}

func TestRegisterService(t *testing.T) {
	calc := calcClient()
	reg, factory := newTestRegistry(t, map[string]*fakeClient{"calc": calc})

	err := reg.RegisterService(context.Background(), ServiceConfig{
		Name:        "calc",
		URL:         "http://calc.local/mcp",
		Headers:     map[string]string{"Authorization": "Bearer t"},
		Description: "Arithmetic",
	})
	if err != nil {
		t.Fatalf("RegisterService failed: %v", err)
	}

	if got := calc.listCalls.Load(); got != 1 {
		t.Errorf("ListTools called %d times, want 1", got)
	}
	if factory.configs[0].Headers["Authorization"] != "Bearer t" {
		t.Errorf("headers not passed to factory: %v", factory.configs[0].Headers)
	}

	services := reg.ListServices()
	want := []ServiceSummary{{Name: "calc", Description: "Arithmetic"}}
	if !reflect.DeepEqual(services, want) {
		t.Errorf("ListServices = %v, want %v", services, want)
	}

	tools, err := reg.ListTools("calc")
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	if strings.Join(names, ",") != "add,multiply,stats" {
		t.Errorf("tool order = %v", names)
	}
}

func TestRegisterService_DefaultDescription(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"calc": calcClient()})
	mustRegister(t, reg, "calc")

	services := reg.ListServices()
	if len(services) != 1 || services[0].Description != "MCP service: calc" {
		t.Errorf("ListServices = %v", services)
	}
}

func TestRegisterService_Duplicate(t *testing.T) {
	first := calcClient()
	reg, factory := newTestRegistry(t, map[string]*fakeClient{"calc": first})
	mustRegister(t, reg, "calc")

	before, _ := reg.ListTools("calc")

	err := reg.RegisterService(context.Background(), ServiceConfig{
		Name:        "calc",
		URL:         "http://other.local/mcp",
		Description: "replacement",
	})
	if !errors.Is(err, ErrNameConflict) {
		t.Fatalf("err = %v, want ErrNameConflict", err)
	}
	if factory.built() != 1 {
		t.Errorf("duplicate registration built a client")
	}

	after, _ := reg.ListTools("calc")
	if !reflect.DeepEqual(before, after) {
		t.Errorf("catalog changed: before %v, after %v", before, after)
	}
	if reg.ListServices()[0].Description != "MCP service: calc" {
		t.Errorf("description changed: %v", reg.ListServices())
	}
	if first.closed.Load() {
		t.Error("existing client was closed")
	}
}

func TestRegisterService_ConnectionFailure(t *testing.T) {
	broken := &fakeClient{listErr: errors.New("connection refused")}
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"broken": broken})

	err := reg.RegisterService(context.Background(), ServiceConfig{Name: "broken", URL: "http://broken.local/mcp"})
	if !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("err = %v, want ErrConnectionFailed", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("err = %v, want remote message preserved", err)
	}
	if len(reg.ListServices()) != 0 {
		t.Errorf("partial entry left behind: %v", reg.ListServices())
	}
	if !broken.closed.Load() {
		t.Error("client not closed after failed listing")
	}

	err = reg.RegisterService(context.Background(), ServiceConfig{Name: "nowhere", URL: "http://nowhere.local/mcp"})
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("factory error = %v, want ErrConnectionFailed", err)
	}
}

func TestRegisterService_InvalidRequest(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{})

	tests := []ServiceConfig{
		{Name: "", URL: "http://x.local/mcp"},
		{Name: "   ", URL: "http://x.local/mcp"},
		{Name: "x", URL: ""},
	}
	for _, cfg := range tests {
		if err := reg.RegisterService(context.Background(), cfg); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("RegisterService(%+v) err = %v, want ErrInvalidRequest", cfg, err)
		}
	}
}

func TestListServices_Order(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{
		"weather": weatherClient(),
		"calc":    calcClient(),
	})
	if got := reg.ListServices(); got == nil || len(got) != 0 {
		t.Fatalf("empty registry ListServices = %#v, want empty slice", got)
	}

	mustRegister(t, reg, "weather")
	mustRegister(t, reg, "calc")

	services := reg.ListServices()
	if len(services) != 2 || services[0].Name != "weather" || services[1].Name != "calc" {
		t.Errorf("ListServices = %v, want registration order", services)
	}
}

func TestListTools_ServiceNotFound(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"weather": weatherClient()})

	_, err := reg.ListTools("calc")
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("err = %v, want ErrServiceNotFound", err)
	}
	if !strings.Contains(err.Error(), `"calc"`) {
		t.Errorf("err = %v, want it to name calc", err)
	}

	mustRegister(t, reg, "weather")
	_, err = reg.ListTools("calc")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %T, want *NotFoundError", err)
	}
	if nf.Name != "calc" || !reflect.DeepEqual(nf.Available, []string{"weather"}) {
		t.Errorf("NotFoundError = %+v", nf)
	}
}

func TestGetToolInfo(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{
		"weather": weatherClient(),
		"calc":    calcClient(),
	})
	mustRegister(t, reg, "weather")
	mustRegister(t, reg, "calc")

	for _, svc := range reg.ListServices() {
		tools, err := reg.ListTools(svc.Name)
		if err != nil {
			t.Fatalf("ListTools(%s) failed: %v", svc.Name, err)
		}
		for _, tool := range tools {
			info, err := reg.GetToolInfo(svc.Name, tool.Name)
			if err != nil {
				t.Fatalf("GetToolInfo(%s, %s) failed: %v", svc.Name, tool.Name, err)
			}
			if info.Name != tool.Name {
				t.Errorf("GetToolInfo(%s, %s).Name = %s", svc.Name, tool.Name, info.Name)
			}
		}
	}

	info, err := reg.GetToolInfo("calc", "add")
	if err != nil {
		t.Fatalf("GetToolInfo failed: %v", err)
	}
	schema, ok := info.InputSchema.(map[string]any)
	if !ok {
		t.Fatalf("InputSchema = %T, want map passed through", info.InputSchema)
	}
	if !reflect.DeepEqual(schema["required"], []any{"a", "b"}) {
		t.Errorf("schema required = %v", schema["required"])
	}
}

func TestGetToolInfo_NotFound(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"calc": calcClient()})
	mustRegister(t, reg, "calc")

	_, err := reg.GetToolInfo("calc", "mul")
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("err = %v, want ErrToolNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %T, want *NotFoundError", err)
	}
	if nf.Service != "calc" || len(nf.Available) != 3 || nf.Available[0] != "multiply" {
		t.Errorf("NotFoundError = %+v, want multiply first", nf)
	}

	if _, err := reg.GetToolInfo("math", "add"); !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("err = %v, want ErrServiceNotFound", err)
	}
}

func TestInvokeTool(t *testing.T) {
	calc := calcClient()
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"calc": calc})
	mustRegister(t, reg, "calc")

	out, err := reg.InvokeTool(context.Background(), "calc", "add", map[string]any{"a": 2, "b": 3})
	if err != nil {
		t.Fatalf("InvokeTool failed: %v", err)
	}
	if out != "5" {
		t.Errorf("InvokeTool = %q, want 5", out)
	}
	if !reflect.DeepEqual(calc.lastArgs, map[string]any{"a": 2, "b": 3}) {
		t.Errorf("args = %v", calc.lastArgs)
	}

	out, err = reg.InvokeTool(context.Background(), "calc", "multiply", nil)
	if err != nil {
		t.Fatalf("InvokeTool failed: %v", err)
	}
	if out != "6" {
		t.Errorf("text result = %q, want 6 unchanged", out)
	}
}

func TestInvokeTool_StructuredRoundTrip(t *testing.T) {
	calc := calcClient()
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"calc": calc})
	mustRegister(t, reg, "calc")

	out, err := reg.InvokeTool(context.Background(), "calc", "stats", nil)
	if err != nil {
		t.Fatalf("InvokeTool failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, out)
	}
	if !reflect.DeepEqual(got, calc.results["stats"]) {
		t.Errorf("round trip = %v, want %v", got, calc.results["stats"])
	}
	if !strings.Contains(out, "série <a&b>") {
		t.Errorf("non-ASCII or HTML characters escaped: %s", out)
	}
}

func TestInvokeTool_NotFoundMakesNoCall(t *testing.T) {
	calc := calcClient()
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"calc": calc})
	mustRegister(t, reg, "calc")

	_, err := reg.InvokeTool(context.Background(), "math", "add", nil)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("err = %v, want ErrServiceNotFound", err)
	}
	_, err = reg.InvokeTool(context.Background(), "calc", "divide", nil)
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("err = %v, want ErrToolNotFound", err)
	}
	if got := calc.invokeCalls.Load(); got != 0 {
		t.Errorf("remote invoked %d times, want 0", got)
	}
}

func TestInvokeTool_Errors(t *testing.T) {
	calc := calcClient()
	calc.errs["add"] = errors.Join(ErrInvalidArguments, errors.New(`field "a" must be integer`))
	calc.errs["multiply"] = errors.New("overflow")
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"calc": calc})
	mustRegister(t, reg, "calc")

	_, err := reg.InvokeTool(context.Background(), "calc", "add", map[string]any{"a": "x"})
	if !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("err = %v, want ErrInvalidArguments", err)
	}
	if errors.Is(err, ErrExecutionFailed) {
		t.Errorf("argument error also classified as execution failure: %v", err)
	}

	_, err = reg.InvokeTool(context.Background(), "calc", "multiply", nil)
	if !errors.Is(err, ErrExecutionFailed) {
		t.Errorf("err = %v, want ErrExecutionFailed", err)
	}
	if !strings.Contains(err.Error(), "overflow") {
		t.Errorf("err = %v, want original message", err)
	}
}

func TestInvokeTool_Concurrent(t *testing.T) {
	calc := calcClient()
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"calc": calc})
	mustRegister(t, reg, "calc")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.InvokeTool(context.Background(), "calc", "add", map[string]any{"a": 1, "b": 1}); err != nil {
				t.Errorf("InvokeTool failed: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := calc.invokeCalls.Load(); got != 16 {
		t.Errorf("invocations = %d, want 16", got)
	}
}

func TestRegisterServices(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{
		"weather": weatherClient(),
		"calc":    calcClient(),
	})

	results := reg.RegisterServices(context.Background(), []config.ServerDefinition{
		{Name: "weather", URL: "http://weather.local/mcp"},
		{Name: "nourl"},
		{Name: "calc", URL: "http://calc.local/mcp", Type: "sse"},
	})

	want := map[string]bool{"weather": true, "nourl": false, "calc": true}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("results = %v, want %v", results, want)
	}
	services := reg.ListServices()
	if len(services) != 2 || services[0].Name != "weather" || services[1].Name != "calc" {
		t.Errorf("ListServices = %v", services)
	}
}

func TestRegisterServices_FailuresDoNotAbort(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{
		"broken": {listErr: errors.New("503")},
		"calc":   calcClient(),
	})

	results := reg.RegisterServices(context.Background(), []config.ServerDefinition{
		{Name: "broken", URL: "http://broken.local/mcp"},
		{Name: "unknown", URL: "http://unknown.local/mcp"},
		{Name: "calc", URL: "http://calc.local/mcp"},
	})
	want := map[string]bool{"broken": false, "unknown": false, "calc": true}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("results = %v, want %v", results, want)
	}
}

func TestRegisterServicesFromConfig(t *testing.T) {
	reg, factory := newTestRegistry(t, map[string]*fakeClient{
		"weather": weatherClient(),
		"calc":    calcClient(),
	})

	location := filepath.Join(t.TempDir(), "mcp.json")
	data := `{"mcpServers": {
		"weather": {"url": "http://weather.local/mcp", "timeout": 1500},
		"broken": {"type": "streamable_http"},
		"calc": {"url": "http://calc.local/mcp", "headers": {"X-Key": "k"}, "description": "Arithmetic"}
	}}`
	if err := os.WriteFile(location, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	results, err := reg.RegisterServicesFromConfig(context.Background(), location)
	if err != nil {
		t.Fatalf("RegisterServicesFromConfig failed: %v", err)
	}
	want := map[string]bool{"weather": true, "broken": false, "calc": true}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("results = %v, want %v", results, want)
	}
	if factory.configs[0].Timeout.Milliseconds() != 1500 {
		t.Errorf("timeout = %v, want 1.5s", factory.configs[0].Timeout)
	}
	if factory.configs[1].Headers["X-Key"] != "k" {
		t.Errorf("headers = %v", factory.configs[1].Headers)
	}
	services := reg.ListServices()
	if len(services) != 2 || services[1].Description != "Arithmetic" {
		t.Errorf("ListServices = %v", services)
	}
}

func TestRegisterServicesFromConfig_InvalidEntries(t *testing.T) {
	reg, factory := newTestRegistry(t, map[string]*fakeClient{
		"weather": weatherClient(),
		"calc":    calcClient(),
	})

	location := filepath.Join(t.TempDir(), "mcp.json")
	data := `{"mcpServers": {
		"weather": {"url": "http://weather.local/mcp"},
		"odd": {"url": "http://odd.local/mcp", "timeout": "30s"},
		"plain": "http://plain.local/mcp",
		"badheaders": {"url": "http://bad.local/mcp", "headers": {"n": 1}},
		"calc": {"url": "http://calc.local/mcp"}
	}}`
	if err := os.WriteFile(location, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	results, err := reg.RegisterServicesFromConfig(context.Background(), location)
	if err != nil {
		t.Fatalf("RegisterServicesFromConfig failed: %v", err)
	}
	want := map[string]bool{"weather": true, "odd": false, "plain": false, "badheaders": false, "calc": true}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("results = %v, want %v", results, want)
	}
	if got := factory.built(); got != 2 {
		t.Errorf("clients built = %d, want 2", got)
	}
	services := reg.ListServices()
	if len(services) != 2 || services[0].Name != "weather" || services[1].Name != "calc" {
		t.Errorf("ListServices = %v", services)
	}
}

func TestRegisterServices_RepeatedNameStaysTrue(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"calc": calcClient()})

	results := reg.RegisterServices(context.Background(), []config.ServerDefinition{
		{Name: "calc", URL: "http://calc.local/mcp"},
		{Name: "calc", URL: "http://calc.local/mcp"},
		{Name: "calc"},
	})
	if want := map[string]bool{"calc": true}; !reflect.DeepEqual(results, want) {
		t.Errorf("results = %v, want %v", results, want)
	}
	if len(reg.ListServices()) != 1 {
		t.Errorf("ListServices = %v", reg.ListServices())
	}
}

func TestRegisterServices_TrimsNames(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"calc": calcClient()})

	results := reg.RegisterServices(context.Background(), []config.ServerDefinition{
		{Name: " calc ", URL: "http://calc.local/mcp"},
	})
	if want := map[string]bool{"calc": true}; !reflect.DeepEqual(results, want) {
		t.Errorf("results = %v, want %v", results, want)
	}
	if _, err := reg.ListTools("calc"); err != nil {
		t.Errorf("ListTools(calc) failed: %v", err)
	}
}

func TestRegisterServicesFromConfig_SourceErrors(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{})

	_, err := reg.RegisterServicesFromConfig(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("err = %v, want ErrSourceNotFound", err)
	}

	location := filepath.Join(t.TempDir(), "mcp.json")
	if err := os.WriteFile(location, []byte(`{"servers": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = reg.RegisterServicesFromConfig(context.Background(), location)
	if !errors.Is(err, ErrMalformedSource) {
		t.Errorf("err = %v, want ErrMalformedSource", err)
	}
}

func TestCloseAll(t *testing.T) {
	calc, weather := calcClient(), weatherClient()
	reg, _ := newTestRegistry(t, map[string]*fakeClient{"calc": calc, "weather": weather})
	mustRegister(t, reg, "calc")
	mustRegister(t, reg, "weather")

	for i := 0; i < 2; i++ {
		if err := reg.CloseAll(); err != nil {
			t.Fatalf("CloseAll #%d failed: %v", i+1, err)
		}
		if got := reg.ListServices(); len(got) != 0 {
			t.Errorf("ListServices after CloseAll #%d = %v", i+1, got)
		}
	}
	if !calc.closed.Load() || !weather.closed.Load() {
		t.Error("clients not closed")
	}

	if _, err := reg.InvokeTool(context.Background(), "calc", "add", nil); !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("err = %v, want ErrServiceNotFound after CloseAll", err)
	}

	// names are free again
	if err := reg.RegisterService(context.Background(), ServiceConfig{Name: "calc", URL: "http://calc.local/mcp"}); err != nil {
		t.Errorf("re-register after CloseAll failed: %v", err)
	}
}

func TestSearchTools(t *testing.T) {
	reg, _ := newTestRegistry(t, map[string]*fakeClient{
		"weather": weatherClient(),
		"calc":    calcClient(),
	})
	mustRegister(t, reg, "weather")
	mustRegister(t, reg, "calc")

	results, err := reg.SearchTools("forecast", 5)
	if err != nil {
		t.Fatalf("SearchTools failed: %v", err)
	}
	if len(results) == 0 || results[0].Service != "weather" || results[0].Tool != "get_forecast" {
		t.Errorf("SearchTools = %+v, want weather/get_forecast first", results)
	}

	all, err := reg.SearchTools("", 0)
	if err != nil {
		t.Fatalf("SearchTools failed: %v", err)
	}
	if len(all) != 5 || all[0].Tool != "get_forecast" || all[2].Tool != "add" {
		t.Errorf("empty query = %+v, want catalog order", all)
	}
}

func TestNotFoundError_Message(t *testing.T) {
	err := newServiceNotFound("calc", nil)
	if err.Error() != `service "calc" not found; no services registered` {
		t.Errorf("Error() = %q", err.Error())
	}

	err = newToolNotFound("calc", "ad", []string{"multiply", "add"})
	if err.Error() != `tool "ad" not found in service "calc"; available: add, multiply` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIsArgumentRejection(t *testing.T) {
	tests := map[string]bool{
		`calling "tools/call": invalid params: missing a`:            true,
		`jsonrpc error -32602`:                                       true,
		`validating "arguments": a: got string, want integer`:        true,
		`tool "add" failed: division by zero`:                        false,
		`connect http://localhost:1/mcp: connection refused`:         false,
	}
	for msg, want := range tests {
		if got := isArgumentRejection(msg); got != want {
			t.Errorf("isArgumentRejection(%q) = %v, want %v", msg, got, want)
		}
	}
}
