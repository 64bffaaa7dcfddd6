// Command toollinker aggregates remote MCP tool services and exposes them
// through one MCP endpoint or directly from the command line.
//
//	toollinker -f mcp.json serve --addr :8000 --path /mcp
//	toollinker -f mcp.json services
//	toollinker -f mcp.json tools -s calc
//	toollinker -f mcp.json tool -s calc -t add --json
//	toollinker -f mcp.json exec -s calc -t add -i '{"a":2,"b":3}'
//	toollinker -f mcp.json search -q "weather forecast"
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
