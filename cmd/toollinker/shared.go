package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonwraymond/toollinker/logging"
	"github.com/jonwraymond/toollinker/registry"
)

var current = &session{}

// session lazily builds one registry per CLI invocation.
type session struct {
	opts *Options

	once sync.Once
	reg  *registry.Registry
	err  error
}

// load configures logging, loads the service source and registers every
// service it defines. Services that fail to register are logged and skipped.
func (s *session) load(ctx context.Context) (*registry.Registry, error) {
	s.once.Do(func() {
		logging.Configure(s.opts.LogLevel, s.opts.LogFormat)
		reg := registry.New(registry.Config{
			ClientInfo: registry.ClientInfo{Name: "toollinker", Version: version},
		})
		if _, err := reg.RegisterServicesFromConfig(ctx, s.opts.Config); err != nil {
			_ = reg.Close()
			s.err = err
			return
		}
		s.reg = reg
	})
	return s.reg, s.err
}

func (s *session) close() {
	if s.reg != nil {
		_ = s.reg.Close()
	}
}

const version = "0.1.0"

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}
