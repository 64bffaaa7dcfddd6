package main

import (
	"context"
	"fmt"
)

// SearchCmd ranks tools across every service.
type SearchCmd struct {
	Query string `short:"q" long:"query" description:"search text (empty lists tools in registration order)"`
	Limit int    `short:"n" long:"limit" description:"maximum number of results" default:"10"`
	JSON  bool   `long:"json" description:"print result as JSON"`
}

func (c *SearchCmd) Execute(_ []string) error {
	reg, err := current.load(context.Background())
	if err != nil {
		return err
	}
	results, err := reg.SearchTools(c.Query, c.Limit)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(results)
	}
	for _, r := range results {
		fmt.Fprintf(stdout, "%s/%s\t%.3f\t%s\n", r.Service, r.Tool, r.Score, r.Description)
	}
	return nil
}
