package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gotaylor/expr"
	"github.com/njchilds90/gotaylor/internal/console"
	"github.com/njchilds90/gotaylor/tool"
)

func newSampleCommand(a *app) *cobra.Command {
	var (
		rf     requestFlags
		format string
		step   int
	)
	cmd := &cobra.Command{
		Use:   "sample [function]",
		Short: "Print the sample series of a function and its approximation",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.engine.Compute(rf.request(cmd.Flags(), args, a.cfg.Defaults))
			if err != nil {
				return err
			}
			p := console.NewPrinter(cmd.OutOrStdout())
			switch format {
			case "table":
				if err := p.Table(res.Series, step); err != nil {
					return err
				}
				p.Summary(res)
				return nil
			case "csv":
				return p.CSV(res.Series, step)
			case "json":
				return p.JSON(res)
			}
			return fmt.Errorf("unknown format %q", format)
		},
	}
	rf.add(cmd.Flags())
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json or csv")
	cmd.Flags().IntVar(&step, "every", 10, "print every n-th point (table and csv)")
	return cmd
}

func newPlotCommand(a *app) *cobra.Command {
	var (
		rf            requestFlags
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "plot [function]",
		Short: "Draw a function and its approximation as an ASCII chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.engine.Compute(rf.request(cmd.Flags(), args, a.cfg.Defaults))
			if err != nil {
				return err
			}
			p := console.NewPrinter(cmd.OutOrStdout())
			if width > 0 {
				p.Width = width
			}
			if height > 0 {
				p.Height = height
			}
			if err := p.Plot(res.Series, a.engine.Options().EffectiveBound()); err != nil {
				return err
			}
			p.Summary(res)
			return nil
		},
	}
	rf.add(cmd.Flags())
	cmd.Flags().IntVar(&width, "width", 0, "chart width, default from the terminal")
	cmd.Flags().IntVar(&height, "height", 0, "chart height, default from the terminal")
	return cmd
}

func newDerivsCommand(a *app) *cobra.Command {
	var (
		rf    requestFlags
		latex bool
	)
	cmd := &cobra.Command{
		Use:   "derivs [function]",
		Short: "List derivative expressions and their values at the center",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := a.engine.Derivatives(rf.request(cmd.Flags(), args, a.cfg.Defaults))
			if err != nil {
				return err
			}
			return console.NewPrinter(cmd.OutOrStdout()).Derivatives(ds, latex)
		},
	}
	rf.add(cmd.Flags())
	cmd.Flags().BoolVar(&latex, "latex", false, "print expressions as LaTeX")
	return cmd
}

func newPolyCommand(a *app) *cobra.Command {
	var (
		rf           requestFlags
		exact, latex bool
	)
	cmd := &cobra.Command{
		Use:   "poly [function]",
		Short: "Print the Taylor polynomial",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := a.engine.Polynomial(rf.request(cmd.Flags(), args, a.cfg.Defaults), exact)
			if err != nil {
				return err
			}
			if latex {
				fmt.Fprintln(cmd.OutOrStdout(), expr.LaTeX(p))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), expr.String(p))
			}
			return nil
		},
	}
	rf.add(cmd.Flags())
	cmd.Flags().BoolVar(&exact, "exact", false, "rational coefficients from symbolic differentiation")
	cmd.Flags().BoolVar(&latex, "latex", false, "print as LaTeX")
	return cmd
}

func newFunctionsCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List the built-in functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := console.NewPrinter(cmd.OutOrStdout())
			fs := tool.Functions(a.engine)
			if format == "json" {
				return p.JSON(fs)
			}
			return p.Functions(fs)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format: table or json")
	return cmd
}
