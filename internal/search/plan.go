package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Aman-CERP/jsonai/internal/index"
	"github.com/Aman-CERP/jsonai/internal/record"
)

const (
	// MaxFacetCardinality is the largest distinct count that gets facets.
	MaxFacetCardinality = 20
	// MaxFacetValues caps the values listed per facet.
	MaxFacetValues = 5
)

// WindowSize is the number of hits to request from the index. When a plan
// may be produced the window reaches past the first page so that facets
// describe a representative sample.
func WindowSize(opts Options) int {
	n := opts.Limit + opts.Offset
	if opts.NoOverflow && !opts.ForcePlan {
		return n
	}
	return max(n, 2*opts.Threshold)
}

// ShouldPlan decides the branch for a deduplicated match count.
func ShouldPlan(total int, opts Options) bool {
	return opts.ForcePlan || (!opts.NoOverflow && total > opts.Threshold)
}

// BuildPlan tallies key/value frequencies over every hit.
func BuildPlan(hits []index.Hit, query, input string) *Plan {
	counts := make(map[string]map[string]int)
	for _, h := range hits {
		obj, ok := h.Record.Value.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range obj {
			values, ok := counts[k]
			if !ok {
				values = make(map[string]int)
				counts[k] = values
			}
			values[record.Canonical(v)]++
		}
	}

	plan := &Plan{
		Fields:   make([]Field, 0, len(counts)),
		Facets:   make(map[string][]FacetValue),
		Commands: []string{},
	}
	for name, values := range counts {
		plan.Fields = append(plan.Fields, Field{
			Name:          name,
			PointerPath:   "/" + record.EscapeToken(name),
			DistinctCount: len(values),
		})
	}
	sort.Slice(plan.Fields, func(i, j int) bool {
		a, b := plan.Fields[i], plan.Fields[j]
		if a.DistinctCount != b.DistinctCount {
			return a.DistinctCount < b.DistinctCount
		}
		return a.Name < b.Name
	})

	for _, f := range plan.Fields {
		if f.DistinctCount > MaxFacetCardinality {
			continue
		}
		plan.Facets[f.Name] = topValues(counts[f.Name])
		plan.Commands = append(plan.Commands, Command(query, f.Name, input))
	}
	return plan
}

func topValues(values map[string]int) []FacetValue {
	out := make([]FacetValue, 0, len(values))
	for v, c := range values {
		out = append(out, FacetValue{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > MaxFacetValues {
		out = out[:MaxFacetValues]
	}
	return out
}

// Command renders the follow-up invocation that narrows a search to field.
// Every argument is quoted so that glob inputs reach jsonai unexpanded.
func Command(query, field, input string) string {
	return fmt.Sprintf("jsonai search -q %s --field %s %s", shellQuote(query), shellQuote(field), shellQuote(input))
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
