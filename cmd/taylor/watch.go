package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gotaylor"
	"github.com/njchilds90/gotaylor/internal/console"
	"github.com/njchilds90/gotaylor/live"
)

func newWatchCommand(a *app) *cobra.Command {
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Read 'function [center [order]]' lines and summarize each settled pass",
		Long: `Each input line replaces the previous request. A pass runs once input
has been quiet for the debounce delay; passes overtaken by newer input are
dropped. At end of input the last request is computed immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := time.Duration(a.cfg.Debounce)
			if cmd.Flags().Changed("delay") {
				d = delay
			}
			return a.watch(cmd, d)
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", live.DefaultDelay, "debounce delay")
	return cmd
}

func (a *app) watch(cmd *cobra.Command, delay time.Duration) error {
	sess := live.New(a.engine, delay)
	defer sess.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	passes := sess.Subscribe(ctx)
	p := console.NewPrinter(cmd.OutOrStdout())

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(a.stdin)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var latest, shown uint64
	eof := false
	for {
		if eof && shown == latest {
			return nil
		}
		select {
		case line, ok := <-lines:
			if !ok {
				eof, lines = true, nil
				go sess.Flush()
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			latest = sess.Update(parseWatchLine(line, a.cfg.Defaults))
		case pass, ok := <-passes:
			if !ok {
				return nil
			}
			shown = pass.Generation
			if pass.Err != nil {
				fmt.Fprintf(p.W, "%d: %v\n", pass.Generation, pass.Err)
				continue
			}
			fmt.Fprintf(p.W, "%d: ", pass.Generation)
			p.Summary(pass.Result)
		}
	}
}

// parseWatchLine reads trailing center and order fields; the rest of the
// line is the function.
func parseWatchLine(line string, def gotaylor.Request) gotaylor.Request {
	r := def
	fields := strings.Fields(line)
	if n := len(fields); n >= 3 {
		c, cerr := strconv.ParseFloat(fields[n-2], 64)
		o, oerr := strconv.Atoi(fields[n-1])
		if cerr == nil && oerr == nil {
			r.Function, r.Center, r.Order = strings.Join(fields[:n-2], " "), c, o
			return r
		}
	}
	if n := len(fields); n >= 2 {
		if c, err := strconv.ParseFloat(fields[n-1], 64); err == nil {
			r.Function, r.Center = strings.Join(fields[:n-1], " "), c
			return r
		}
	}
	r.Function = strings.Join(fields, " ")
	return r
}
