package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// ServersKey is the top-level collection key of a service source.
const ServersKey = "mcpServers"

// TransportStreamableHTTP is the only supported transport type.
const TransportStreamableHTTP = "streamable_http"

// Error values for source loading.
var (
	ErrSourceNotFound  = errors.New("service source not found")
	ErrMalformedSource = errors.New("malformed service source")
)

// Format identifies the encoding of a service source.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from the location's extension; JSON is the default.
func FormatOf(location string) Format {
	loc := location
	if i := strings.IndexAny(loc, "?#"); i != -1 {
		loc = loc[:i]
	}
	switch strings.ToLower(path.Ext(loc)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// ServerDefinition describes one remote service.
type ServerDefinition struct {
	// Name is the service name (the key under mcpServers).
	Name string `json:"-" yaml:"-" toml:"-"`
	// URL is the service endpoint. Required.
	URL string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	// Headers are sent with every request to the service.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" toml:"headers,omitempty"`
	// Type is the transport tag; empty means streamable_http.
	Type string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	// Description overrides the generated service description.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	// Timeout is the HTTP timeout in milliseconds; zero means none.
	Timeout int `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	// Err is set when the entry could not be decoded. Such a definition
	// is reported as failed without affecting the rest of the source.
	Err error `json:"-" yaml:"-" toml:"-"`
}

// TransportType returns Type with the default applied.
func (d ServerDefinition) TransportType() string {
	if d.Type == "" {
		return TransportStreamableHTTP
	}
	return d.Type
}

// TimeoutDuration converts Timeout to a duration.
func (d ServerDefinition) TimeoutDuration() time.Duration {
	if d.Timeout <= 0 {
		return 0
	}
	return time.Duration(d.Timeout) * time.Millisecond
}

// Source is a parsed service source.
type Source struct {
	Location string
	Servers  []ServerDefinition
}

// Load resolves location, downloads it and parses it according to its extension.
func Load(ctx context.Context, location string) (*Source, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("%w: empty location", ErrSourceNotFound)
	}
	URL := normalizeLocation(location)
	fs := afs.New()
	ok, err := fs.Exists(ctx, URL)
	if err != nil || !ok {
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSourceNotFound, location, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, location)
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceNotFound, location, err)
	}
	servers, err := Parse(data, FormatOf(location))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return &Source{Location: location, Servers: servers}, nil
}

// Parse decodes a service source.
func Parse(data []byte, format Format) ([]ServerDefinition, error) {
	var (
		servers []ServerDefinition
		err     error
	)
	switch format {
	case FormatYAML:
		servers, err = parseYAML(data)
	case FormatTOML:
		servers, err = parseTOML(data)
	default:
		servers, err = parseJSON(data)
	}
	if err != nil {
		return nil, err
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("%w: no services under %q", ErrMalformedSource, ServersKey)
	}
	return servers, nil
}

func parseJSON(data []byte) ([]ServerDefinition, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedSource)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformedSource)
	}
	collection := root.Get(ServersKey)
	if !collection.Exists() {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedSource, ServersKey)
	}
	if !collection.IsObject() {
		return nil, fmt.Errorf("%w: %q is not an object", ErrMalformedSource, ServersKey)
	}
	var servers definitions
	collection.ForEach(func(key, value gjson.Result) bool {
		def := ServerDefinition{Name: key.String()}
		if !value.IsObject() {
			def.Err = fmt.Errorf("%w: service %q is not an object", ErrMalformedSource, def.Name)
		} else if err := json.Unmarshal([]byte(value.Raw), &def); err != nil {
			def = ServerDefinition{Name: def.Name, Err: fmt.Errorf("%w: service %q: %v", ErrMalformedSource, def.Name, err)}
		}
		servers.put(def)
		return true
	})
	return servers.list, nil
}

func parseYAML(data []byte) ([]ServerDefinition, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: document is not a mapping", ErrMalformedSource)
	}
	root := doc.Content[0]
	var collection *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == ServersKey {
			collection = root.Content[i+1]
			break
		}
	}
	if collection == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedSource, ServersKey)
	}
	if collection.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %q is not a mapping", ErrMalformedSource, ServersKey)
	}
	var servers definitions
	for i := 0; i+1 < len(collection.Content); i += 2 {
		def := ServerDefinition{Name: collection.Content[i].Value}
		value := collection.Content[i+1]
		if value.Kind != yaml.MappingNode {
			def.Err = fmt.Errorf("%w: service %q is not a mapping", ErrMalformedSource, def.Name)
		} else if err := value.Decode(&def); err != nil {
			def = ServerDefinition{Name: def.Name, Err: fmt.Errorf("%w: service %q: %v", ErrMalformedSource, def.Name, err)}
		}
		servers.put(def)
	}
	return servers.list, nil
}

func parseTOML(data []byte) ([]ServerDefinition, error) {
	var doc struct {
		Servers map[string]any `toml:"mcpServers"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	if doc.Servers == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedSource, ServersKey)
	}
	names := make([]string, 0, len(doc.Servers))
	for name := range doc.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	servers := make([]ServerDefinition, 0, len(names))
	for _, name := range names {
		servers = append(servers, decodeTOMLEntry(name, doc.Servers[name]))
	}
	return servers, nil
}

func decodeTOMLEntry(name string, value any) ServerDefinition {
	if _, ok := value.(map[string]any); !ok {
		return ServerDefinition{Name: name, Err: fmt.Errorf("%w: service %q is not a table", ErrMalformedSource, name)}
	}
	var def ServerDefinition
	raw, err := toml.Marshal(value)
	if err == nil {
		err = toml.Unmarshal(raw, &def)
	}
	if err != nil {
		return ServerDefinition{Name: name, Err: fmt.Errorf("%w: service %q: %v", ErrMalformedSource, name, err)}
	}
	def.Name = name
	return def
}

// definitions keeps entries in document order; a repeated name replaces the
// earlier value in place.
type definitions struct {
	list  []ServerDefinition
	index map[string]int
}

func (d *definitions) put(def ServerDefinition) {
	if i, ok := d.index[def.Name]; ok {
		d.list[i] = def
		return
	}
	if d.index == nil {
		d.index = map[string]int{}
	}
	d.index[def.Name] = len(d.list)
	d.list = append(d.list, def)
}

// normalizeLocation turns bare paths into file URLs.
func normalizeLocation(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		abs = location
	}
	return "file://" + filepath.ToSlash(abs)
}
