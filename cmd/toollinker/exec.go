package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ExecCmd invokes one tool. Arguments can be supplied either inline via
// -i/--input or loaded from a JSON file via -F/--file.
type ExecCmd struct {
	Service    string `short:"s" long:"service" description:"service name" required:"yes"`
	Tool       string `short:"t" long:"tool" description:"tool name" required:"yes"`
	Inline     string `short:"i" long:"input" description:"inline JSON arguments (object)"`
	File       string `short:"F" long:"file" description:"path to JSON file with arguments (use - for stdin)"`
	TimeoutSec int    `long:"timeout" description:"seconds to wait for completion" default:"120"`
}

func (c *ExecCmd) Execute(_ []string) error {
	if c.Inline != "" && c.File != "" {
		return fmt.Errorf("-i/--input and -F/--file are mutually exclusive")
	}
	args, err := c.arguments()
	if err != nil {
		return err
	}

	ctx := context.Background()
	reg, err := current.load(ctx)
	if err != nil {
		return err
	}

	timeout := time.Duration(c.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := reg.InvokeTool(ctx, c.Service, c.Tool, args)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, out)
	return err
}

func (c *ExecCmd) arguments() (map[string]any, error) {
	var data []byte
	switch {
	case c.Inline != "":
		data = []byte(c.Inline)
	case c.File != "":
		var rdr io.Reader
		if c.File == "-" {
			rdr = os.Stdin
		} else {
			f, err := os.Open(c.File)
			if err != nil {
				return nil, fmt.Errorf("open input file: %w", err)
			}
			defer f.Close()
			rdr = f
		}
		var err error
		if data, err = io.ReadAll(rdr); err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
	default:
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("decode JSON arguments: %w", err)
	}
	return args, nil
}
