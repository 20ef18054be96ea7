// Package filter evaluates jq filters against JSON documents.
package filter

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/itchyny/gojq"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
)

const (
	escapedBangHint = "`\\!` detected. Use `!=` (no backslash) or `== ... | not`."
	unaryBangHint   = "Unary `!` is unsupported. Use `not`."
)

// Filter is a compiled jq program.
type Filter struct {
	src  string
	code *gojq.Code
}

// Compile parses and compiles src.
func Compile(src string) (*Filter, error) {
	if strings.Contains(src, `\!`) {
		return nil, jerrors.New(jerrors.ErrCodeFilterFailed, "invalid filter", nil).
			WithSuggestion(escapedBangHint)
	}
	if strings.HasPrefix(strings.TrimSpace(src), "!") {
		return nil, jerrors.New(jerrors.ErrCodeFilterFailed, "invalid filter", nil).
			WithSuggestion(unaryBangHint)
	}

	q, err := gojq.Parse(src)
	if err != nil {
		e := jerrors.New(jerrors.ErrCodeFilterFailed, "failed to parse filter", err)
		if strings.Contains(src, "!") && !strings.Contains(src, "!=") {
			e.WithSuggestion(unaryBangHint)
		}
		return nil, e
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, jerrors.New(jerrors.ErrCodeFilterFailed, "failed to compile filter", err)
	}
	return &Filter{src: src, code: code}, nil
}

// Run evaluates the filter against input and collects every output.
func (f *Filter) Run(ctx context.Context, input any) ([]any, error) {
	iter := f.code.RunWithContext(ctx, Normalize(input))
	var out []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			if halt, ok := err.(*gojq.HaltError); ok && halt.Value() == nil {
				break
			}
			return nil, jerrors.New(jerrors.ErrCodeFilterFailed, "filter failed", err).
				WithDetail("filter", f.src)
		}
		out = append(out, v)
	}
	return out, nil
}

// Collapse shapes filter outputs for printing: nothing for zero outputs,
// the value itself for one and an array for several.
func Collapse(outputs []any) (any, bool) {
	switch len(outputs) {
	case 0:
		return nil, false
	case 1:
		return outputs[0], true
	default:
		return outputs, true
	}
}

// Normalize converts json.Number values, which gojq does not accept, to
// int, *big.Int or float64.
func Normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Normalize(val)
		}
		return out
	case json.Number:
		return number(x)
	default:
		return v
	}
}

func number(n json.Number) any {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil && int64(int(i)) == i {
			return int(i)
		}
		if b, ok := new(big.Int).SetString(s, 10); ok {
			return b
		}
	}
	// Out of range values become infinities and fail at output.
	f, _ := n.Float64()
	return f
}
