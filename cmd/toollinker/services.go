package main

import (
	"context"
	"fmt"
)

// ServicesCmd prints every registered service.
type ServicesCmd struct {
	JSON bool `long:"json" description:"print result as JSON"`
}

func (c *ServicesCmd) Execute(_ []string) error {
	reg, err := current.load(context.Background())
	if err != nil {
		return err
	}
	services := reg.ListServices()
	if c.JSON {
		return printJSON(services)
	}
	for _, s := range services {
		fmt.Fprintf(stdout, "%s\t%s\n", s.Name, s.Description)
	}
	return nil
}

// ToolsCmd prints the tools of one service in catalog order.
type ToolsCmd struct {
	Service string `short:"s" long:"service" description:"service name" required:"yes"`
	JSON    bool   `long:"json" description:"print result as JSON"`
}

func (c *ToolsCmd) Execute(_ []string) error {
	reg, err := current.load(context.Background())
	if err != nil {
		return err
	}
	tools, err := reg.ListTools(c.Service)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(tools)
	}
	for _, t := range tools {
		fmt.Fprintf(stdout, "%s\t%s\n", t.Name, t.Description)
	}
	return nil
}
