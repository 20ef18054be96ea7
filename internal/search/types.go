// Package search runs the record search pipeline: extract, index, query,
// deduplicate, then either return the hits or summarize them as a plan.
package search

import (
	"github.com/Aman-CERP/jsonai/internal/index"
)

// Options configures one search.
type Options struct {
	Query  string
	Fields []string
	Mode   index.MatchMode

	Limit     int
	Offset    int
	Threshold int

	// ForcePlan always returns a plan.
	ForcePlan bool
	// NoOverflow returns results even when the threshold is exceeded.
	NoOverflow bool

	// Input is the input argument, echoed into plan commands.
	Input string
}

// Result is the outcome of a search before materialization.
type Result struct {
	// Hits are the deduplicated matches in score order. Empty when Overflow.
	Hits []index.Hit
	// Total is the number of deduplicated matches within the search window.
	Total int
	// Capped is set when the index matched more records than the window held.
	Capped bool
	// Overflow is set when a plan replaces the hits.
	Overflow bool
	Plan     *Plan
	// FilesSearched is the number of documents loaded.
	FilesSearched int
}

// Field describes one key observed across the matched records.
type Field struct {
	Name          string `json:"name"`
	PointerPath   string `json:"pointer_path"`
	DistinctCount int    `json:"distinct_count"`
}

// FacetValue is a value and how many matched records carry it.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Plan summarizes an oversized match set so the caller can narrow it.
type Plan struct {
	Fields   []Field                 `json:"fields"`
	Facets   map[string][]FacetValue `json:"facets"`
	Commands []string                `json:"commands"`
}
