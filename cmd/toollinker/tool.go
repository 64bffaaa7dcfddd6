package main

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolCmd prints the description and input schema of one tool.
type ToolCmd struct {
	Service string `short:"s" long:"service" description:"service name" required:"yes"`
	Tool    string `short:"t" long:"tool" description:"tool name" required:"yes"`
	JSON    bool   `long:"json" description:"print result as JSON"`
}

func (c *ToolCmd) Execute(_ []string) error {
	reg, err := current.load(context.Background())
	if err != nil {
		return err
	}
	info, err := reg.GetToolInfo(c.Service, c.Tool)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(info)
	}
	fmt.Fprintf(stdout, "Name : %s\n", info.Name)
	fmt.Fprintf(stdout, "Desc : %s\n", info.Description)
	js, _ := json.MarshalIndent(info.InputSchema, "", "  ")
	fmt.Fprintf(stdout, "InputSchema:\n%s\n", string(js))
	return nil
}
