package search

import (
	"github.com/Aman-CERP/jsonai/internal/index"
	"github.com/Aman-CERP/jsonai/internal/record"
)

// Dedup drops every hit whose record is a proper ancestor of another hit
// in the same file, keeping the innermost match of each chain. Order is
// preserved and the operation is idempotent. Quadratic in len(hits),
// which is bounded by the search window.
func Dedup(hits []index.Hit) []index.Hit {
	out := make([]index.Hit, 0, len(hits))
	for i, h := range hits {
		if !hasDescendant(hits, i) {
			out = append(out, h)
		}
	}
	return out
}

func hasDescendant(hits []index.Hit, i int) bool {
	r := hits[i].Record
	for j, other := range hits {
		if j == i || other.Record.File != r.File {
			continue
		}
		if record.IsAncestor(r.Pointer, other.Record.Pointer) {
			return true
		}
	}
	return false
}
