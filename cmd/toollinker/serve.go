package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonwraymond/toollinker/logging"
	"github.com/jonwraymond/toollinker/mcpserver"
)

// ServeCmd publishes the registered services as a single MCP server over
// streamable HTTP until SIGINT or SIGTERM.
type ServeCmd struct {
	Addr string `long:"addr" description:"listen address" default:":8000"`
	Path string `long:"path" description:"MCP endpoint path" default:"/mcp"`
}

func (c *ServeCmd) Execute(_ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := current.load(ctx)
	if err != nil {
		return err
	}
	log := logging.Named("serve")

	mux := http.NewServeMux()
	mux.Handle(c.Path, mcpserver.Handler(mcpserver.New(reg, mcpserver.Options{Name: "toollinker", Version: version})))
	httpSrv := &http.Server{Addr: c.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Infof("MCP server listening on %s%s (%d services)", c.Addr, c.Path, len(reg.ListServices()))

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return reg.CloseAll()
}
