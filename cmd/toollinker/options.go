package main

// Options is the root for the CLI. Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config    string `short:"f" long:"config" description:"service source (JSON, YAML or TOML path or URL)" default:"mcp.json"`
	LogLevel  string `long:"log-level" description:"log level (debug, info, warn, error)" default:"info"`
	LogFormat string `long:"log-format" description:"log format (text or json)" default:"text"`

	Serve    *ServeCmd    `command:"serve"    description:"Publish the registered services as one MCP server"`
	Services *ServicesCmd `command:"services" description:"List registered services"`
	Tools    *ToolsCmd    `command:"tools"    description:"List the tools of one service"`
	Tool     *ToolCmd     `command:"tool"     description:"Show detailed info about one tool"`
	Exec     *ExecCmd     `command:"exec"     description:"Execute one tool"`
	Search   *SearchCmd   `command:"search"   description:"Search tools across every service"`
}

// Init instantiates the sub-command referenced by the first positional argument
// so that go-flags can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "serve":
		o.Serve = &ServeCmd{}
	case "services":
		o.Services = &ServicesCmd{}
	case "tools":
		o.Tools = &ToolsCmd{}
	case "tool":
		o.Tool = &ToolCmd{}
	case "exec":
		o.Exec = &ExecCmd{}
	case "search":
		o.Search = &SearchCmd{}
	}
}
