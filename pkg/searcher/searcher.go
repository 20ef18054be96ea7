package searcher

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/Aman-CERP/jsonai/internal/fields"
	"github.com/Aman-CERP/jsonai/internal/loader"
	"github.com/Aman-CERP/jsonai/internal/output"
	"github.com/Aman-CERP/jsonai/internal/schema"
	"github.com/Aman-CERP/jsonai/internal/search"
)

// Request is one search call.
type Request struct {
	// Input is a file, directory, glob pattern or "-" for stdin.
	Input string
	// Search holds the query, match mode and windowing. Limit, Offset and
	// Threshold are copied into the output options.
	Search search.Options
	Output output.Options
	// SchemaPath, when set, checks every loaded document and logs
	// violations. It never fails the search.
	SchemaPath string
}

// Response is a rendered search.
type Response struct {
	// Value is what to print: an envelope, a bare array or a count.
	Value  any
	Result *search.Result
}

// Matched reports whether the search found anything. A plan counts as a
// match.
func (r *Response) Matched() bool {
	return r.Result.Overflow || r.Result.Total > 0
}

// Searcher runs searches and field listings.
type Searcher struct {
	stdin    io.Reader
	loadOpts loader.Options
	logger   *slog.Logger
	engine   *search.Engine
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithStdin sets the reader used for the "-" input. Defaults to os.Stdin.
func WithStdin(r io.Reader) Option {
	return func(s *Searcher) {
		s.stdin = r
	}
}

// WithLoaderOptions sets directory exclusions and gitignore handling.
func WithLoaderOptions(opts loader.Options) Option {
	return func(s *Searcher) {
		s.loadOpts = opts
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Searcher) {
		s.logger = l
	}
}

// New creates a Searcher.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		stdin:    os.Stdin,
		loadOpts: loader.Options{RespectGitignore: true},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = search.NewEngine(search.WithLogger(s.logger))
	return s
}

// Search loads req.Input, runs the query and renders the response.
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	l, err := loader.New(s.stdin, s.loadOpts, s.logger)
	if err != nil {
		return nil, err
	}
	docs, err := l.Load(ctx, req.Input)
	if err != nil {
		return nil, err
	}

	if req.SchemaPath != "" {
		if err := s.checkSchema(req.SchemaPath, docs); err != nil {
			return nil, err
		}
	}

	opts := req.Search
	opts.Input = req.Input
	res, err := s.engine.Search(ctx, docs, opts)
	if err != nil {
		return nil, err
	}

	outOpts := req.Output
	outOpts.Limit = opts.Limit
	outOpts.Offset = opts.Offset
	outOpts.Threshold = opts.Threshold
	value, err := output.Render(res, outOpts)
	if err != nil {
		return nil, err
	}
	return &Response{Value: value, Result: res}, nil
}

func (s *Searcher) checkSchema(path string, docs []loader.Document) error {
	sch, err := schema.Load(path)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		violations := sch.Validate(doc.Value)
		if len(violations) == 0 {
			continue
		}
		s.logger.Warn("schema_violation",
			slog.String("file", doc.File),
			slog.String("schema", sch.Location()),
			slog.Int("violations", len(violations)),
			slog.String("first", violations[0].String()))
	}
	return nil
}

// Fields lists the dotted field paths of input. With asSchema the input is
// read as a JSON Schema and its declared property paths are listed.
func (s *Searcher) Fields(_ context.Context, input string, asSchema bool) ([]string, error) {
	if asSchema && input != loader.StdinToken {
		sch, err := schema.Load(input)
		if err != nil {
			return nil, err
		}
		return sch.Properties(), nil
	}

	doc, err := loader.ReadInput(input, s.stdin)
	if err != nil {
		return nil, err
	}
	if asSchema {
		sch, err := schema.Compile(loader.StdinLabel, doc.Value)
		if err != nil {
			return nil, err
		}
		return sch.Properties(), nil
	}
	return fields.Paths(doc.Value), nil
}
