// Package mcptools exposes the gosymsum engine as MCP tools.
//
// Every tool takes infix expressions (see gosymsum.Parse) and answers with
// the string, LaTeX and JSON renderings of the canonical result.
package mcptools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	gosymsum "github.com/njchilds90/gosymsum"
	"github.com/njchilds90/gosymsum/exact"
)

const serverName = "gosymsum"

// Options configures NewServer.
type Options struct {
	Version string
	Logger  *slog.Logger
	// Timeout bounds a single tool call. Zero means no limit.
	Timeout time.Duration
}

// Result is the structured output of every tool.
type Result struct {
	String string                 `json:"string" jsonschema:"infix rendering of the result"`
	LaTeX  string                 `json:"latex" jsonschema:"LaTeX rendering of the result"`
	JSON   map[string]interface{} `json:"json" jsonschema:"expression tree of the result"`
}

func newResult(s gosymsum.Symbolic) Result {
	return Result{String: s.String(), LaTeX: s.LaTeX(), JSON: gosymsum.ToJSONValue(s)}
}

// SimplifyInput is the input of the simplify tool.
type SimplifyInput struct {
	Expression string `json:"expression" jsonschema:"infix expression, e.g. (x + 1)^2"`
}

// SubstituteInput is the input of the substitute tool.
type SubstituteInput struct {
	Expression string            `json:"expression" jsonschema:"infix expression"`
	Bindings   map[string]string `json:"bindings" jsonschema:"variable name to infix replacement"`
}

// ReductionInput is the input of the row_sum and row_product tools.
type ReductionInput struct {
	Index string `json:"index" jsonschema:"bound index variable"`
	Lower string `json:"lower" jsonschema:"inclusive lower bound"`
	Upper string `json:"upper" jsonschema:"inclusive upper bound"`
	Body  string `json:"body" jsonschema:"summand or factor in terms of the index"`
}

// BernoulliInput is the input of the bernoulli tool.
type BernoulliInput struct {
	N int64  `json:"n" jsonschema:"non-negative index"`
	X string `json:"x,omitempty" jsonschema:"polynomial argument; omit for the Bernoulli number"`
}

// HarmonicInput is the input of the harmonic tool.
type HarmonicInput struct {
	N     int64  `json:"n" jsonschema:"non-negative upper limit"`
	Order *int64 `json:"order,omitempty" jsonschema:"exponent m of H(n,m); defaults to 1"`
}

// BinomialInput is the input of the binomial tool.
type BinomialInput struct {
	N int64 `json:"n" jsonschema:"non-negative set size"`
	K int64 `json:"k" jsonschema:"subset size"`
}

// FiniteDifferenceInput is the input of the finite_difference tool.
type FiniteDifferenceInput struct {
	Expression string `json:"expression" jsonschema:"infix expression g"`
	Variable   string `json:"variable" jsonschema:"variable x of g(x) - g(x-1)"`
}

// NewServer returns an MCP server with every gosymsum tool registered.
func NewServer(opts Options) *mcp.Server {
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	h := &handlers{logger: opts.Logger, timeout: opts.Timeout}
	if h.logger == nil {
		h.logger = slog.Default()
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "simplify",
		Description: "Parses an expression and returns its canonical simplified form",
	}, h.simplify)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "substitute",
		Description: "Replaces free variables of an expression and simplifies the result",
	}, h.substitute)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "row_sum",
		Description: "Builds the sum of body for index from lower to upper, in closed form when possible",
	}, h.rowSum)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "row_product",
		Description: "Builds the product of body for index from lower to upper, in closed form when possible",
	}, h.rowProduct)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "bernoulli",
		Description: "Returns the Bernoulli number B(n) or the Bernoulli polynomial B(n, x)",
	}, h.bernoulli)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "harmonic",
		Description: "Returns the generalized harmonic number H(n, m) as an exact rational",
	}, h.harmonic)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "binomial",
		Description: "Returns the binomial coefficient C(n, k)",
	}, h.binomial)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "finite_difference",
		Description: "Returns g(x) - g(x-1) for an expression g and variable x",
	}, h.finiteDifference)
	return server
}

type handlers struct {
	logger  *slog.Logger
	timeout time.Duration
}

// run evaluates compute under the configured timeout and converts engine
// panics into errors. Any other panic is recovered and reported as an
// internal error. The engine has no cancellation points, so on timeout
// the computation is abandoned rather than interrupted.
func (h *handlers) run(ctx context.Context, tool string, compute func() (gosymsum.Symbolic, error)) (*mcp.CallToolResult, Result, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	type outcome struct {
		value gosymsum.Symbolic
		err   error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("tool call panicked", "tool", tool, "panic", r)
				done <- outcome{err: fmt.Errorf("internal error: %v", r)}
			}
		}()
		var inputErr error
		value, err := gosymsum.Try(func() gosymsum.Symbolic {
			var s gosymsum.Symbolic
			s, inputErr = compute()
			return s
		})
		if err == nil {
			err = inputErr
		}
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		h.logger.Warn("tool call abandoned", "tool", tool, "err", ctx.Err())
		return nil, Result{}, fmt.Errorf("%s: %w", tool, ctx.Err())
	case out := <-done:
		if out.err != nil {
			h.logger.Debug("tool call failed", "tool", tool, "err", out.err)
			return nil, Result{}, fmt.Errorf("%s: %w", tool, out.err)
		}
		h.logger.Debug("tool call", "tool", tool, "result", out.value.String(), "elapsed", time.Since(start))
		return nil, newResult(out.value), nil
	}
}

func (h *handlers) simplify(ctx context.Context, _ *mcp.CallToolRequest, in SimplifyInput) (*mcp.CallToolResult, Result, error) {
	return h.run(ctx, "simplify", func() (gosymsum.Symbolic, error) {
		e, err := gosymsum.Parse(in.Expression)
		if err != nil {
			return nil, err
		}
		return e.Simplify(), nil
	})
}

func (h *handlers) substitute(ctx context.Context, _ *mcp.CallToolRequest, in SubstituteInput) (*mcp.CallToolResult, Result, error) {
	return h.run(ctx, "substitute", func() (gosymsum.Symbolic, error) {
		e, err := gosymsum.Parse(in.Expression)
		if err != nil {
			return nil, err
		}
		bindings := make(map[gosymsum.Var]gosymsum.Symbolic, len(in.Bindings))
		for name, src := range in.Bindings {
			value, err := gosymsum.Parse(src)
			if err != nil {
				return nil, fmt.Errorf("binding %s: %w", name, err)
			}
			bindings[gosymsum.S(name)] = value
		}
		return gosymsum.Subst(e, bindings), nil
	})
}

func (h *handlers) rowSum(ctx context.Context, _ *mcp.CallToolRequest, in ReductionInput) (*mcp.CallToolResult, Result, error) {
	return h.run(ctx, "row_sum", func() (gosymsum.Symbolic, error) {
		return reduction(in, gosymsum.RowSumOf)
	})
}

func (h *handlers) rowProduct(ctx context.Context, _ *mcp.CallToolRequest, in ReductionInput) (*mcp.CallToolResult, Result, error) {
	return h.run(ctx, "row_product", func() (gosymsum.Symbolic, error) {
		return reduction(in, gosymsum.RowProductOf)
	})
}

func reduction(in ReductionInput, build func(gosymsum.Var, gosymsum.Symbolic, gosymsum.Symbolic, gosymsum.Symbolic) gosymsum.Symbolic) (gosymsum.Symbolic, error) {
	if in.Index == "" {
		return nil, fmt.Errorf("index is required")
	}
	var parsed [3]gosymsum.Symbolic
	for i, src := range []string{in.Lower, in.Upper, in.Body} {
		e, err := gosymsum.Parse(src)
		if err != nil {
			return nil, err
		}
		parsed[i] = e
	}
	return build(gosymsum.S(in.Index), parsed[0], parsed[1], parsed[2]), nil
}

func (h *handlers) bernoulli(ctx context.Context, _ *mcp.CallToolRequest, in BernoulliInput) (*mcp.CallToolResult, Result, error) {
	return h.run(ctx, "bernoulli", func() (gosymsum.Symbolic, error) {
		var x gosymsum.Symbolic
		if in.X != "" {
			e, err := gosymsum.Parse(in.X)
			if err != nil {
				return nil, err
			}
			x = e
		}
		return gosymsum.Bernoulli(in.N, x), nil
	})
}

func (h *handlers) harmonic(ctx context.Context, _ *mcp.CallToolRequest, in HarmonicInput) (*mcp.CallToolResult, Result, error) {
	return h.run(ctx, "harmonic", func() (gosymsum.Symbolic, error) {
		order := int64(1)
		if in.Order != nil {
			order = *in.Order
		}
		return gosymsum.NewConst(gosymsum.HarmonicOrder(in.N, order)), nil
	})
}

func (h *handlers) binomial(ctx context.Context, _ *mcp.CallToolRequest, in BinomialInput) (*mcp.CallToolResult, Result, error) {
	return h.run(ctx, "binomial", func() (gosymsum.Symbolic, error) {
		if in.N < 0 {
			return nil, fmt.Errorf("binomial: negative n %d: %w", in.N, gosymsum.ErrInvalidRange)
		}
		return gosymsum.NewConst(exact.Int(exact.Binomial(in.N, in.K))), nil
	})
}

func (h *handlers) finiteDifference(ctx context.Context, _ *mcp.CallToolRequest, in FiniteDifferenceInput) (*mcp.CallToolResult, Result, error) {
	return h.run(ctx, "finite_difference", func() (gosymsum.Symbolic, error) {
		if in.Variable == "" {
			return nil, fmt.Errorf("variable is required")
		}
		e, err := gosymsum.Parse(in.Expression)
		if err != nil {
			return nil, err
		}
		return gosymsum.FiniteDifference(e, gosymsum.S(in.Variable)), nil
	})
}
