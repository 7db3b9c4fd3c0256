package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/sitevec/crawl"
	"github.com/fwojciec/sitevec/vector"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	SaveDir string
	Store   *vector.Store
	Crawler *crawl.Crawler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	SaveDir    string `name:"save-dir" short:"d" env:"SITEVEC_DIR" default:"vector_store" help:"Directory holding the vector store"`
	Model      string `env:"SITEVEC_MODEL" default:"gemini-embedding-001" help:"Embedding model"`
	Dimensions int    `default:"3072" help:"Embedding dimensions"`
	CacheSize  int    `name:"cache-size" default:"1000" help:"Embeddings kept in memory"`
	Verbose    bool   `short:"v" help:"Log every fetch and embedding call"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl a site and add its pages to the store"`
	Search SearchCmd `cmd:"" help:"Search the store"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL         string        `arg:"" help:"Start URL"`
	Depth       int           `default:"2" help:"Maximum link depth from the start URL"`
	MaxPages    int           `name:"max-pages" default:"2" help:"Maximum number of pages to fetch"`
	Concurrency int           `short:"c" default:"5" help:"Concurrent fetch workers"`
	Rate        int           `default:"10" help:"Requests allowed per rate window"`
	RateWindow  time.Duration `name:"rate-window" default:"1s" help:"Rate limit window"`
	Retries     int           `default:"3" help:"Fetch retries per page"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	UserAgent   string        `name:"user-agent" default:"Custom Web Scraper 1.0" help:"User-Agent header"`
	Extractor   string        `enum:"goquery,content,trafilatura" default:"goquery" help:"Text extractor: goquery (whole page), content (main region), trafilatura"`
	Tokenizer   string        `enum:"words,gemini" default:"words" help:"Token counter for chunking"`
	MaxTokens   int           `name:"max-tokens" default:"1000" help:"Maximum tokens per chunk"`
	Overlap     int           `default:"2" help:"Sentences repeated between consecutive chunks"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search query"`
	K     int    `short:"k" default:"5" help:"Number of results"`
}
