package main

import (
	"fmt"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if err := deps.Store.Load(deps.Ctx, deps.SaveDir); err != nil {
		if sitevec.ErrorCode(err) != sitevec.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: cannot load store in %s: %s\n", deps.SaveDir, sitevec.ErrorMessage(err))
			return err
		}
		deps.Logger.Warn("no existing store, starting empty", "dir", deps.SaveDir)
	} else {
		deps.Logger.Info("loaded store", "dir", deps.SaveDir, "chunks", deps.Store.Len())
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			deps.Logger.Info("crawl started", "run", event.RunID, "url", event.URL)
		case crawl.ProgressCompleted:
			deps.Logger.Info("page done", "run", event.RunID, "url", event.URL, "depth", event.Depth, "pages", event.Pages)
		case crawl.ProgressFailed:
			deps.Logger.Warn("page skipped", "run", event.RunID, "url", event.URL, "depth", event.Depth, "err", event.Error)
		case crawl.ProgressFinished:
			deps.Logger.Info("crawl finished", "run", event.RunID, "pages", event.Pages)
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, c.URL, c.Depth, c.MaxPages, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", sitevec.ErrorMessage(err))
		return err
	}

	added, err := deps.Store.AddDocuments(deps.Ctx, result.Chunks)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error adding documents: %s\n", sitevec.ErrorMessage(err))
		return err
	}

	if err := deps.Store.Save(deps.Ctx, deps.SaveDir); err != nil {
		fmt.Fprintf(deps.Stderr, "error saving store: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawled %s: %s\n", crawl.TruncateURL(c.URL, 60), crawl.FormatSummary(result))
	fmt.Fprintf(deps.Stdout, "Added %d chunks (%d skipped), store has %d chunks in %s\n",
		added.Added, added.Skipped, deps.Store.Len(), deps.SaveDir)
	return nil
}
