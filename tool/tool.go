// Package tool exposes the approximation engine as JSON tool calls, the
// shape consumed by the HTTP server and by agent backends.
package tool

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/njchilds90/gotaylor"
	"github.com/njchilds90/gotaylor/expr"
	"github.com/njchilds90/gotaylor/notation"
)

// DefaultOrder is used when a request omits "order".
const DefaultOrder = 3

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// FunctionInfo describes a registry entry.
type FunctionInfo struct {
	Name                   string   `json:"name"`
	Aliases                []string `json:"aliases,omitempty"`
	Kind                   string   `json:"kind"`
	LaTeX                  string   `json:"latex"`
	RequiresPositiveCenter bool     `json:"requires_positive_center"`
	MaxOrder               int      `json:"max_order"`
}

// Functions lists the registry of eng in registration order.
func Functions(eng *gotaylor.Engine) []FunctionInfo {
	ds := eng.Registry().Descriptors()
	out := make([]FunctionInfo, len(ds))
	for i, d := range ds {
		out[i] = FunctionInfo{
			Name:                   d.Name,
			Aliases:                d.Aliases,
			Kind:                   d.Kind().String(),
			LaTeX:                  d.Notation(),
			RequiresPositiveCenter: d.RequiresPositiveCenter,
			MaxOrder:               d.MaxOrder,
		}
	}
	return out
}

func HandleToolCall(eng *gotaylor.Engine, req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getNumber := func(key string, def float64) (float64, error) {
		v, ok := req.Params[key]
		if !ok || v == nil {
			return def, nil
		}
		f, ok := v.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return f, nil
	}
	getInt := func(key string, def int) (int, error) {
		f, err := getNumber(key, float64(def))
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("param %s must be an integer", key)
		}
		return int(f), nil
	}
	getBool := func(key string) (bool, error) {
		v, ok := req.Params[key]
		if !ok || v == nil {
			return false, nil
		}
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("param %s must be a boolean", key)
		}
		return b, nil
	}
	getRequest := func() (gotaylor.Request, error) {
		var r gotaylor.Request
		var err error
		if r.Function, err = getString("function"); err != nil {
			return r, err
		}
		if r.Center, err = getNumber("center", 0); err != nil {
			return r, err
		}
		if r.Order, err = getInt("order", DefaultOrder); err != nil {
			return r, err
		}
		return r, nil
	}
	// getExpr accepts either an expression object or notation text.
	getExpr := func(key string) (expr.Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		switch val := v.(type) {
		case map[string]interface{}:
			return expr.FromJSON(val)
		case string:
			return notation.Parse(val)
		}
		return nil, fmt.Errorf("invalid type for param %s", key)
	}
	respond := func(e expr.Expr) ToolResponse {
		return ToolResponse{Result: expr.Tree(e), LaTeX: expr.LaTeX(e), String: expr.String(e)}
	}

	switch req.Tool {
	case "sample":
		r, err := getRequest()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		res, err := eng.Compute(r)
		resp := ToolResponse{
			Result: res,
			String: fmt.Sprintf("%s at %v, order %d: %d points", res.Function, res.Center, res.Order, len(res.Series)),
		}
		if err != nil {
			resp.Error = err.Error()
		}
		return resp

	case "polynomial":
		r, err := getRequest()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		exact, err := getBool("exact")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		p, _, err := eng.Polynomial(r, exact)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(p)

	case "derivatives":
		r, err := getRequest()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		ds, res, err := eng.Derivatives(r)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{
			Result: map[string]interface{}{"function": res.Function, "center": res.Center, "derivatives": ds},
			String: fmt.Sprintf("%d derivatives of %s", len(ds), res.Function),
		}

	case "diff":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v := eng.Variable()
		if _, ok := req.Params["var"]; ok {
			if v, err = getString("var"); err != nil {
				return ToolResponse{Error: err.Error()}
			}
		}
		n, err := getInt("n", 1)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if n < 0 {
			return ToolResponse{Error: "param n must be >= 0"}
		}
		if n > gotaylor.MaxOrderLimit {
			return ToolResponse{Error: fmt.Sprintf("param n must be <= %d", gotaylor.MaxOrderLimit)}
		}
		return respond(expr.DiffN(e, v, n))

	case "substitute":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v := eng.Variable()
		if _, ok := req.Params["var"]; ok {
			if v, err = getString("var"); err != nil {
				return ToolResponse{Error: err.Error()}
			}
		}
		val, err := getExpr("value")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(expr.Sub(e, v, val))

	case "parse":
		text, err := getString("text")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		e, err := notation.Parse(text)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(e)

	case "functions":
		fs := Functions(eng)
		return ToolResponse{Result: fs, String: fmt.Sprintf("%d functions", len(fs))}

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

var requestProps = map[string]string{"function": "string", "center": "number", "order": "integer"}

func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("sample", "Sample a function and its Taylor approximation over the display domain", []string{"function"}, requestProps),
		ts("polynomial", "Taylor polynomial of a function. Optional: exact (boolean) for rational coefficients", []string{"function"},
			map[string]string{"function": "string", "center": "number", "order": "integer", "exact": "boolean"}),
		ts("derivatives", "Derivative expressions up to order and their values at center", []string{"function"}, requestProps),
		ts("diff", "nth derivative of an expression (object or notation). Optional: var, n", []string{"expr"},
			map[string]string{"expr": "object", "var": "string", "n": "integer"}),
		ts("substitute", "Replace a variable (default: the engine variable) with an expression or notation", []string{"expr", "value"},
			map[string]string{"expr": "object", "var": "string", "value": "object"}),
		ts("parse", "Parse notation into an expression object", []string{"text"}, map[string]string{"text": "string"}),
		ts("functions", "List the built-in functions", []string{}, map[string]string{}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
