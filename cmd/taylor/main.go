// Command taylor samples functions against their Taylor approximations.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/njchilds90/gotaylor"
	"github.com/njchilds90/gotaylor/internal/config"
)

type app struct {
	configPath string
	trace      string
	stdin      io.Reader

	cfg    config.Config
	engine *gotaylor.Engine
}

func main() {
	if err := newRootCommand(os.Stdin).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader) *cobra.Command {
	a := &app{stdin: stdin}
	cmd := &cobra.Command{
		Use:          "taylor",
		Short:        "Compare functions with their Taylor polynomials",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&a.trace, "trace", "", "trace level: error, info or debug")

	cmd.AddCommand(
		newSampleCommand(a),
		newPlotCommand(a),
		newDerivsCommand(a),
		newPolyCommand(a),
		newFunctionsCommand(a),
		newWatchCommand(a),
	)
	return cmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.trace != "" {
		cfg.Trace = a.trace
	}
	level, err := config.ParseLevel(cfg.Trace)
	if err != nil {
		return err
	}
	if gtrace.CoreTracer == nil {
		gtrace.CoreTracer = gologadapter.New()
	}
	gtrace.CoreTracer.SetTraceLevel(level)
	a.cfg = cfg
	a.engine = cfg.Engine()
	return nil
}

type requestFlags struct {
	function string
	center   float64
	order    int
}

func (f *requestFlags) add(fs *pflag.FlagSet) {
	fs.StringVarP(&f.function, "function", "f", "", "function notation or catalog name")
	fs.Float64VarP(&f.center, "center", "c", 0, "expansion center")
	fs.IntVarP(&f.order, "order", "o", 0, fmt.Sprintf("polynomial order, 0 to %d", gotaylor.MaxOrderLimit))
}

// request fills unset flags from the configured defaults. A positional
// argument names the function when -f is absent.
func (f *requestFlags) request(fs *pflag.FlagSet, args []string, def gotaylor.Request) gotaylor.Request {
	r := def
	switch {
	case fs.Changed("function"):
		r.Function = f.function
	case len(args) > 0:
		r.Function = strings.Join(args, " ")
	}
	if fs.Changed("center") {
		r.Center = f.center
	}
	if fs.Changed("order") {
		r.Order = f.order
	}
	return r
}
