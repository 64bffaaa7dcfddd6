package main

import (
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
)

// stdout receives command output; tests swap it.
var stdout io.Writer = os.Stdout

// Run parses args and executes the selected command.
func Run(args []string) error {
	opts := &Options{}
	opts.Init(commandName(args))
	current = &session{opts: opts}
	defer current.close()

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)
	return err
}

// commandName returns the first argument that is neither a flag nor a flag
// value, so global options may precede the command.
func commandName(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-f" || a == "--config" || a == "--log-level" || a == "--log-format":
			i++
		case strings.HasPrefix(a, "-"):
		default:
			return a
		}
	}
	return ""
}
