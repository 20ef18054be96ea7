package search

import (
	"context"
	"log/slog"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/index"
	"github.com/Aman-CERP/jsonai/internal/loader"
	"github.com/Aman-CERP/jsonai/internal/record"
)

// Engine runs searches. It holds no state between calls; every Search
// builds and discards its own index.
type Engine struct {
	logger *slog.Logger
}

// EngineOption configures the search engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for pipeline events.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a search engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search extracts records from docs, queries them and decides between
// results and a plan. It fails with an empty-corpus error when the
// documents contain no object.
func (e *Engine) Search(ctx context.Context, docs []loader.Document, opts Options) (*Result, error) {
	var records []record.Record
	for _, d := range docs {
		records = append(records, record.Extract(d.Value, d.File)...)
	}
	if len(records) == 0 {
		return nil, jerrors.EmptyCorpusError("no JSON objects found in input")
	}

	q := index.Query{Text: opts.Query, Fields: opts.Fields, Mode: opts.Mode}
	if _, err := q.Compile(); err != nil {
		return nil, err
	}

	e.logger.Debug("search_started",
		slog.String("mode", opts.Mode.String()),
		slog.Int("files", len(docs)),
		slog.Int("records", len(records)))

	ix, err := index.Build(records)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ix.Close() }()

	window := WindowSize(opts)
	hits, matched, err := ix.Search(ctx, q, window)
	if err != nil {
		return nil, err
	}
	raw := len(hits)
	hits = Dedup(hits)

	res := &Result{
		Total:         len(hits),
		Capped:        matched > raw,
		FilesSearched: len(docs),
	}
	if ShouldPlan(res.Total, opts) {
		res.Overflow = true
		res.Plan = BuildPlan(hits, opts.Query, opts.Input)
		res.Hits = []index.Hit{}
	} else {
		res.Hits = hits
	}

	e.logger.Debug("search_complete",
		slog.Int("indexed", ix.Len()),
		slog.Int("window", window),
		slog.Int("raw_hits", raw),
		slog.Int("matched", matched),
		slog.Int("total", res.Total),
		slog.Bool("overflow", res.Overflow))
	return res, nil
}
