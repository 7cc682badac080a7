package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	gosymsum "github.com/njchilds90/gosymsum"
	"github.com/njchilds90/gosymsum/exact"
	"github.com/njchilds90/gosymsum/internal/config"
	"github.com/njchilds90/gosymsum/internal/demo"
	"github.com/njchilds90/gosymsum/internal/logging"
	"github.com/spf13/cobra"
)

var errMismatch = errors.New("finite difference does not match the body")

type options struct {
	format  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "gosymsum",
		Short:        "Exact symbolic sums, products and their closed forms",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case "text", "latex", "json":
			default:
				return fmt.Errorf("unknown format %q (want text, latex or json)", opts.format)
			}
			return setupLogging(opts.verbose)
		},
	}
	root.PersistentFlags().StringVar(&opts.format, "format", "text", "output format: text, latex or json")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log engine decisions at debug level")

	root.AddCommand(
		simplifyCmd(opts),
		substCmd(opts),
		reductionCmd(opts, "rowsum", "Sum BODY for INDEX from LOWER to UPPER", gosymsum.RowSumOf),
		reductionCmd(opts, "rowproduct", "Multiply BODY for INDEX from LOWER to UPPER", gosymsum.RowProductOf),
		bernoulliCmd(opts),
		harmonicCmd(opts),
		binomialCmd(opts),
		diffCheckCmd(opts),
		demoCmd(),
	)
	return root
}

// setupLogging routes engine logs to stderr using the GOSYMSUM_LOG_* settings.
func setupLogging(verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if verbose {
		level = slog.LevelDebug.String()
	}
	logger, err := logging.New(os.Stderr, level, cfg.LogFormat)
	if err != nil {
		return err
	}
	gosymsum.SetLogger(logger)
	return nil
}

// emit writes s in the selected format.
func emit(cmd *cobra.Command, opts *options, s gosymsum.Symbolic) error {
	out := cmd.OutOrStdout()
	switch opts.format {
	case "latex":
		_, err := fmt.Fprintln(out, s.LaTeX())
		return err
	case "json":
		data, err := gosymsum.ToJSON(s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, data)
		return err
	}
	_, err := fmt.Fprintln(out, s.String())
	return err
}

// evaluate runs build with engine panics converted to errors and prints
// the result.
func evaluate(cmd *cobra.Command, opts *options, build func() (gosymsum.Symbolic, error)) error {
	var buildErr error
	s, err := gosymsum.Try(func() gosymsum.Symbolic {
		var s gosymsum.Symbolic
		s, buildErr = build()
		return s
	})
	if err != nil {
		return err
	}
	if buildErr != nil {
		return buildErr
	}
	return emit(cmd, opts, s)
}

func parseAll(sources ...string) ([]gosymsum.Symbolic, error) {
	out := make([]gosymsum.Symbolic, len(sources))
	for i, src := range sources {
		e, err := gosymsum.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", src, err)
		}
		out[i] = e
	}
	return out, nil
}

func parseInt(name, text string) (int64, error) {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", name, text)
	}
	return v, nil
}

func simplifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "simplify EXPR",
		Short: "Print the canonical form of an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluate(cmd, opts, func() (gosymsum.Symbolic, error) {
				e, err := gosymsum.Parse(args[0])
				if err != nil {
					return nil, err
				}
				return e.Simplify(), nil
			})
		},
	}
}

func substCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "subst EXPR VAR=VALUE...",
		Short: "Substitute values for free variables",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluate(cmd, opts, func() (gosymsum.Symbolic, error) {
				e, err := gosymsum.Parse(args[0])
				if err != nil {
					return nil, err
				}
				bindings := map[gosymsum.Var]gosymsum.Symbolic{}
				for _, binding := range args[1:] {
					name, src, ok := strings.Cut(binding, "=")
					if !ok || strings.TrimSpace(name) == "" {
						return nil, fmt.Errorf("binding %q must look like VAR=VALUE", binding)
					}
					value, err := gosymsum.Parse(src)
					if err != nil {
						return nil, fmt.Errorf("binding %s: %w", name, err)
					}
					bindings[gosymsum.S(strings.TrimSpace(name))] = value
				}
				return gosymsum.Subst(e, bindings), nil
			})
		},
	}
}

func reductionCmd(opts *options, use, short string, build func(gosymsum.Var, gosymsum.Symbolic, gosymsum.Symbolic, gosymsum.Symbolic) gosymsum.Symbolic) *cobra.Command {
	return &cobra.Command{
		Use:   use + " INDEX LOWER UPPER BODY",
		Short: short,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluate(cmd, opts, func() (gosymsum.Symbolic, error) {
				parsed, err := parseAll(args[1:]...)
				if err != nil {
					return nil, err
				}
				return build(gosymsum.S(args[0]), parsed[0], parsed[1], parsed[2]), nil
			})
		},
	}
}

func bernoulliCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bernoulli N [X]",
		Short: "Print the Bernoulli number B(N) or polynomial B(N, X)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("N", args[0])
			if err != nil {
				return err
			}
			return evaluate(cmd, opts, func() (gosymsum.Symbolic, error) {
				if len(args) == 1 {
					return gosymsum.Bernoulli(n, nil), nil
				}
				x, err := gosymsum.Parse(args[1])
				if err != nil {
					return nil, err
				}
				return gosymsum.Bernoulli(n, x), nil
			})
		},
	}
}

func harmonicCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "harmonic N [M]",
		Short: "Print the generalized harmonic number H(N, M); M defaults to 1",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("N", args[0])
			if err != nil {
				return err
			}
			m := int64(1)
			if len(args) == 2 {
				if m, err = parseInt("M", args[1]); err != nil {
					return err
				}
			}
			return evaluate(cmd, opts, func() (gosymsum.Symbolic, error) {
				return gosymsum.NewConst(gosymsum.HarmonicOrder(n, m)), nil
			})
		},
	}
}

func binomialCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "binomial N K",
		Short: "Print the binomial coefficient C(N, K)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("N", args[0])
			if err != nil {
				return err
			}
			k, err := parseInt("K", args[1])
			if err != nil {
				return err
			}
			if n < 0 {
				return fmt.Errorf("binomial: negative n %d: %w", n, gosymsum.ErrInvalidRange)
			}
			return evaluate(cmd, opts, func() (gosymsum.Symbolic, error) {
				return gosymsum.N(exact.Binomial(n, k)), nil
			})
		},
	}
}

func diffCheckCmd(opts *options) *cobra.Command {
	var index, lower, upper string
	cmd := &cobra.Command{
		Use:   "diff-check BODY",
		Short: "Sum BODY in closed form and verify S(n) - S(n-1) equals BODY at n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseAll(args[0], lower)
			if err != nil {
				return err
			}
			body, lo := parsed[0], parsed[1]
			i, n := gosymsum.S(index), gosymsum.S(upper)

			var closed, diff, want gosymsum.Symbolic
			_, err = gosymsum.Try(func() gosymsum.Symbolic {
				closed = gosymsum.RowSumOf(i, lo, n, body)
				diff = gosymsum.FiniteDifference(closed, n)
				want = gosymsum.SubstVar(body, i, n)
				return closed
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, "closed form: ")
			if err := emit(cmd, opts, closed); err != nil {
				return err
			}
			fmt.Fprint(out, "difference:  ")
			if err := emit(cmd, opts, diff); err != nil {
				return err
			}
			if !gosymsum.Equal(diff, want) {
				return fmt.Errorf("%w: expected %s", errMismatch, want)
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&index, "index", "i", "summation index used in BODY")
	cmd.Flags().StringVar(&lower, "lower", "1", "lower bound of the sum")
	cmd.Flags().StringVar(&upper, "upper", "n", "symbolic upper bound")
	return cmd
}

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Print a tour of the engine",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			demo.Run(cmd.OutOrStdout())
		},
	}
}
