// Command taylor-server serves sample series as JSON for a charting front end
// and exposes the engine as tool calls.
//
// Usage:
//
//	taylor-server --config taylor.yaml --addr :8080
//
// Endpoints:
//
//	POST /tool       execute a tool call
//	GET  /series     ?function=&center=&order=
//	GET  /functions  built-in functions
//	GET  /schema     tool schema for agent registration
//	GET  /health     liveness check
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/pflag"

	"github.com/njchilds90/gotaylor/internal/config"
)

func main() {
	fs := pflag.NewFlagSet("taylor-server", pflag.ExitOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	addr := fs.String("addr", "", "listen address, overrides server.addr")
	trace := fs.String("trace", "", "trace level: error, info or debug")
	_ = fs.Parse(os.Args[1:])

	gtrace.CoreTracer = gologadapter.New()
	cfg, err := config.Load(*configPath)
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(1)
	}
	if *trace != "" {
		cfg.Trace = *trace
	}
	level, err := config.ParseLevel(cfg.Trace)
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(1)
	}
	gtrace.CoreTracer.SetTraceLevel(level)
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newHandler(cfg.Engine(), cfg.Defaults),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	tracer().Infof("taylor-server listening on %s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		tracer().Errorf("%v", err)
		os.Exit(1)
	}
}
