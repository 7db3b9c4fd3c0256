package main

import (
	"fmt"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/crawl"
)

const snippetLen = 200

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	if err := deps.Store.Load(deps.Ctx, deps.SaveDir); err != nil {
		if sitevec.ErrorCode(err) == sitevec.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: no store in %s. Run 'sitevec crawl' first.\n", deps.SaveDir)
		} else {
			fmt.Fprintf(deps.Stderr, "error: cannot load store in %s: %s\n", deps.SaveDir, sitevec.ErrorMessage(err))
		}
		return err
	}

	results, err := deps.Store.Search(deps.Ctx, c.Query, c.K)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitevec.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results.")
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "%d. %s #%d (distance %.4f)\n", i+1, r.URL, r.ChunkID, r.Distance)
		fmt.Fprintf(deps.Stdout, "   %s\n", crawl.Snippet(r.Content, snippetLen))
	}
	return nil
}
