// Package index builds an ephemeral in-memory bleve index over records
// and translates match modes into bleve queries.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/record"
)

// Hit is one scored record.
type Hit struct {
	Record record.Record
	Score  float64
}

// Query describes one search.
type Query struct {
	Text string
	// Fields restricts Text and Exact matching to these record keys.
	// Dotted paths address nested keys.
	Fields []string
	Mode   MatchMode
}

// Index is a bleve in-memory index owned by a single search call.
type Index struct {
	idx     bleve.Index
	records []record.Record
}

// Build indexes records. The returned Index must be closed.
func Build(records []record.Record) (*Index, error) {
	indexMapping, err := createIndexMapping()
	if err != nil {
		return nil, jerrors.New(jerrors.ErrCodeIndexFailed, "failed to create index mapping", err)
	}
	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, jerrors.New(jerrors.ErrCodeIndexFailed, "failed to create index", err)
	}

	batch := idx.NewBatch()
	for i, r := range records {
		doc, err := document(r)
		if err != nil {
			_ = idx.Close()
			return nil, jerrors.New(jerrors.ErrCodeIndexFailed,
				fmt.Sprintf("failed to serialize record %s in %s", r.Pointer, r.File), err)
		}
		if err := batch.Index(docID(i), doc); err != nil {
			_ = idx.Close()
			return nil, jerrors.New(jerrors.ErrCodeIndexFailed,
				fmt.Sprintf("failed to index record %s in %s", r.Pointer, r.File), err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, jerrors.New(jerrors.ErrCodeIndexFailed, "failed to execute batch", err)
	}

	slog.Debug("index_built", slog.Int("records", len(records)))
	return &Index{idx: idx, records: records}, nil
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Close releases the index.
func (ix *Index) Close() error {
	return ix.idx.Close()
}

// docID is zero padded so that sorting by _id follows extraction order.
func docID(i int) string {
	return fmt.Sprintf("%010d", i)
}

func document(r record.Record) (map[string]interface{}, error) {
	source, err := record.Marshal(r.Value)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		FieldContent: indexable(r.Value),
		FieldAllText: strings.Join(record.Leaves(r.Value, nil), " "),
		FieldPointer: r.Pointer,
		FieldFile:    r.File,
		FieldSource:  string(source),
	}, nil
}

// indexable copies v with numbers and booleans turned into strings so
// bleve's dynamic mapping indexes every scalar as text.
func indexable(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]interface{}, len(x))
		for k, e := range x {
			m[k] = indexable(e)
		}
		return m
	case []any:
		s := make([]interface{}, len(x))
		for i, e := range x {
			s[i] = indexable(e)
		}
		return s
	case nil:
		return nil
	default:
		if s, ok := record.ScalarText(x); ok {
			return s
		}
		return nil
	}
}

// Compile translates q into a single bleve query.
func (q Query) Compile() (query.Query, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, jerrors.QueryCompileError("query is empty", nil)
	}

	switch q.Mode {
	case Text, Exact:
		if len(q.Fields) == 0 {
			return matchAll(q.Text, FieldAllText), nil
		}
		clauses := make([]query.Query, 0, len(q.Fields))
		for _, f := range q.Fields {
			clauses = append(clauses, matchAll(q.Text, FieldContent+"."+f))
		}
		if len(clauses) == 1 {
			return clauses[0], nil
		}
		return bleve.NewDisjunctionQuery(clauses...), nil

	case Fuzzy:
		term := strings.ToLower(q.Text)
		fuzzy := bleve.NewFuzzyQuery(term)
		fuzzy.SetFuzziness(2)
		fuzzy.SetField(FieldAllText)
		prefix := bleve.NewPrefixQuery(term)
		prefix.SetField(FieldAllText)
		return bleve.NewDisjunctionQuery(fuzzy, prefix), nil

	case Regex:
		if _, err := regexp.Compile(q.Text); err != nil {
			return nil, jerrors.QueryCompileError(fmt.Sprintf("invalid regex %q", q.Text), err)
		}
		re := bleve.NewRegexpQuery(q.Text)
		re.SetField(FieldAllText)
		return re, nil
	}

	return nil, jerrors.QueryCompileError(fmt.Sprintf("unsupported match mode %s", q.Mode), nil)
}

func matchAll(text, field string) query.Query {
	mq := bleve.NewMatchQuery(text)
	mq.SetField(field)
	mq.SetOperator(query.MatchQueryOperatorAnd)
	return mq
}

// Search runs q and returns at most size hits ordered by score descending,
// ties in extraction order, along with the number of records that matched
// in the whole index.
func (ix *Index) Search(ctx context.Context, q Query, size int) ([]Hit, int, error) {
	compiled, err := q.Compile()
	if err != nil {
		return nil, 0, err
	}
	if len(ix.records) == 0 {
		return []Hit{}, 0, nil
	}

	if size < 0 {
		size = 0
	}
	req := bleve.NewSearchRequestOptions(compiled, size, 0, false)
	req.Fields = []string{FieldPointer, FieldFile, FieldSource}
	req.SortBy([]string{"-_score", "_id"})

	res, err := ix.idx.SearchInContext(ctx, req)
	if err != nil {
		if q.Mode == Regex {
			return nil, 0, jerrors.QueryCompileError(fmt.Sprintf("invalid regex %q", q.Text), err)
		}
		return nil, 0, jerrors.New(jerrors.ErrCodeSearchFailed, "search failed", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		r, err := ix.recordFor(h.ID, h.Fields)
		if err != nil {
			return nil, 0, err
		}
		hits = append(hits, Hit{Record: r, Score: h.Score})
	}

	slog.Debug("search_executed",
		slog.String("mode", q.Mode.String()),
		slog.Int("hits", len(hits)),
		slog.Uint64("total", res.Total))
	return hits, int(res.Total), nil
}

// recordFor rebuilds a record from stored fields, falling back to the
// in-memory record when a field was not returned.
func (ix *Index) recordFor(id string, fields map[string]interface{}) (record.Record, error) {
	var n int
	if _, err := fmt.Sscanf(id, "%d", &n); err != nil || n < 0 || n >= len(ix.records) {
		return record.Record{}, jerrors.New(jerrors.ErrCodeSearchFailed, fmt.Sprintf("unknown document %q", id), err)
	}
	r := ix.records[n]

	if p, ok := fields[FieldPointer].(string); ok {
		r.Pointer = p
	}
	if f, ok := fields[FieldFile].(string); ok {
		r.File = f
	}
	if src, ok := fields[FieldSource].(string); ok {
		dec := json.NewDecoder(strings.NewReader(src))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return record.Record{}, jerrors.New(jerrors.ErrCodeSearchFailed, "stored source is not valid JSON", err)
		}
		r.Value = v
	}
	return r, nil
}
