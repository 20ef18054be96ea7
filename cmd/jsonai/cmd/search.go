package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/index"
	"github.com/Aman-CERP/jsonai/internal/output"
	"github.com/Aman-CERP/jsonai/internal/search"
	"github.com/Aman-CERP/jsonai/pkg/searcher"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	query      string
	fields     []string
	match      string
	output     string
	limit      int
	offset     int
	countOnly  bool
	selectKeys string
	bare       bool
	maxBytes   int
	threshold  int
	plan       bool
	noOverflow bool
	schema     string
}

func newSearchCmd(a *app) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search -q QUERY [flags] INPUT",
		Short: "Find the JSON objects matching a query",
		Long: `Search every JSON object in INPUT and print the matches.

INPUT is a file, a directory (every *.json file below it), a glob pattern
such as 'data/**/*.json', or - for stdin.

When more objects match than --threshold, a query plan is printed instead
of the results: the fields seen in the matches, their most common values,
and commands that narrow the search. Use --no-overflow to get results
anyway, or --plan to always get the plan.

Examples:
  jsonai search -q alice users.json
  jsonai search -q 'error' -f level -o hit logs/
  jsonai search -q '^v[0-9]+' -m regex --bare 'releases/**/*.json'
  cat data.json | jsonai search -q paris --select name,city -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, a, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.query, "query", "q", "", "Search query")
	f.StringArrayVarP(&opts.fields, "field", "f", nil, "Restrict text matching to this top-level key (repeatable)")
	f.StringVarP(&opts.match, "match", "m", "text", "Match mode: "+strings.Join(index.MatchModeNames(), ", "))
	f.StringVarP(&opts.output, "output", "o", "match", "Output mode: match, hit, value")
	f.IntVarP(&opts.limit, "limit", "l", 20, "Maximum number of results")
	f.IntVar(&opts.offset, "offset", 0, "Skip this many results")
	f.BoolVar(&opts.countOnly, "count-only", false, "Print only the match count")
	f.StringVar(&opts.selectKeys, "select", "", "Keep only these comma-separated keys of each result")
	f.BoolVar(&opts.bare, "bare", false, "Print the results without the meta envelope")
	f.IntVar(&opts.maxBytes, "max-bytes", 0, "Bound the serialized results to this many bytes (0 = unlimited)")
	f.IntVar(&opts.threshold, "threshold", 50, "Print a query plan when more objects match than this")
	f.BoolVar(&opts.plan, "plan", false, "Always print a query plan")
	f.BoolVar(&opts.noOverflow, "no-overflow", false, "Print results even above the threshold")
	f.StringVar(&opts.schema, "schema", "", "JSON Schema to check the inputs against (violations are logged)")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func runSearch(cmd *cobra.Command, a *app, input string, opts searchOptions) error {
	req, err := buildSearchRequest(cmd, a, input, opts)
	if err != nil {
		return err
	}

	resp, err := a.searcher(cmd).Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	if err := a.writer(cmd).JSON(resp.Value); err != nil {
		return jerrors.New(jerrors.ErrCodeWriteFailed, "failed to write output", err)
	}
	if !resp.Matched() {
		return errNoMatches
	}
	return nil
}

// buildSearchRequest resolves flags against the configuration: a flag the
// user did not set takes its value from config.
func buildSearchRequest(cmd *cobra.Command, a *app, input string, opts searchOptions) (searcher.Request, error) {
	cfg := a.cfg.Search
	changed := cmd.Flags().Changed

	if !changed("match") {
		opts.match = cfg.Match
	}
	if !changed("output") {
		opts.output = cfg.Output
	}
	if !changed("limit") {
		opts.limit = cfg.Limit
	}
	if !changed("threshold") {
		opts.threshold = cfg.Threshold
	}
	if !changed("max-bytes") {
		opts.maxBytes = cfg.MaxBytes
	}

	mode, err := index.ParseMatchMode(opts.match)
	if err != nil {
		return searcher.Request{}, jerrors.New(jerrors.ErrCodeInvalidInput, err.Error(), err)
	}
	outMode, err := output.ParseMode(opts.output)
	if err != nil {
		return searcher.Request{}, jerrors.New(jerrors.ErrCodeInvalidInput, err.Error(), err)
	}
	if opts.limit < 0 || opts.offset < 0 || opts.threshold < 0 || opts.maxBytes < 0 {
		return searcher.Request{}, jerrors.New(jerrors.ErrCodeInvalidInput,
			"--limit, --offset, --threshold and --max-bytes must not be negative", nil)
	}

	return searcher.Request{
		Input: input,
		Search: search.Options{
			Query:      opts.query,
			Fields:     opts.fields,
			Mode:       mode,
			Limit:      opts.limit,
			Offset:     opts.offset,
			Threshold:  opts.threshold,
			ForcePlan:  opts.plan,
			NoOverflow: opts.noOverflow,
		},
		Output: output.Options{
			Mode:      outMode,
			Select:    output.ParseSelect(opts.selectKeys),
			Bare:      opts.bare,
			CountOnly: opts.countOnly,
			MaxBytes:  opts.maxBytes,
			Pretty:    a.pretty(),
		},
		SchemaPath: opts.schema,
	}, nil
}
