// Package searcher is the embeddable entry point to jsonai: it loads
// inputs, searches them and renders the bounded JSON response.
//
// # Usage
//
//	s := searcher.New(searcher.WithLogger(logger))
//	resp, err := s.Search(ctx, searcher.Request{
//	    Input:  "data/",
//	    Search: search.Options{Query: "alice", Limit: 20, Threshold: 50},
//	})
//	if err != nil {
//	    return err
//	}
//	// resp.Value is ready to print; resp.Matched() drives the exit code.
//
// A Searcher holds no index between calls. Each Search builds a fresh
// in-memory index and discards it, so one Searcher may serve concurrent
// calls.
package searcher
