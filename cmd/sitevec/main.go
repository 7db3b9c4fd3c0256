package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/chunk"
	"github.com/fwojciec/sitevec/crawl"
	"github.com/fwojciec/sitevec/fs"
	"github.com/fwojciec/sitevec/gemini"
	"github.com/fwojciec/sitevec/goquery"
	svhttp "github.com/fwojciec/sitevec/http"
	"github.com/fwojciec/sitevec/lru"
	svslog "github.com/fwojciec/sitevec/slog"
	"github.com/fwojciec/sitevec/trafilatura"
	"github.com/fwojciec/sitevec/vector"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Embedder overrides the Gemini embedder. Set before calling Run().
	Embedder sitevec.Embedder

	// Fetcher overrides the HTTP fetcher. Set before calling Run().
	Fetcher sitevec.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitevec"),
		kong.Description("Crawl a website into a local vector store and search it"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitevec --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.SaveDir = cli.SaveDir

	embedder, err := m.embedder(ctx, cli, stderr)
	if err != nil {
		return err
	}
	embedder = lru.NewCachedEmbedder(embedder, cli.CacheSize)
	if cli.Verbose {
		embedder = svslog.NewLoggingEmbedder(embedder, deps.Logger)
	}

	deps.Store = vector.NewStore(embedder, fs.NewSnapshotStore(),
		vector.WithLogger(deps.Logger),
		vector.WithDimensions(cli.Dimensions),
	)

	if strings.HasPrefix(kongCtx.Command(), "crawl") {
		crawler, closeFn, err := m.crawler(&cli.Crawl, cli.Verbose, deps.Logger)
		if err != nil {
			return err
		}
		defer closeFn()
		deps.Crawler = crawler
	}

	return kongCtx.Run(deps)
}

// embedder returns the override or connects to Gemini.
func (m *Main) embedder(ctx context.Context, cli *CLI, stderr io.Writer) (sitevec.Embedder, error) {
	if m.Embedder != nil {
		return m.Embedder, nil
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, sitevec.Errorf(sitevec.EINVALID, "GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	return gemini.NewEmbedder(client.Models,
		gemini.WithModel(cli.Model),
		gemini.WithDimensions(cli.Dimensions),
	), nil
}

// crawler wires the crawl pipeline from command flags.
func (m *Main) crawler(c *CrawlCmd, verbose bool, logger *slog.Logger) (*crawl.Crawler, func(), error) {
	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = svhttp.NewFetcher(
			svhttp.WithTimeout(c.Timeout),
			svhttp.WithUserAgent(c.UserAgent),
		)
	}
	if verbose {
		fetcher = svslog.NewLoggingFetcher(fetcher, logger)
	}

	var extractor sitevec.Extractor
	switch c.Extractor {
	case "trafilatura":
		extractor = trafilatura.NewExtractor()
	case "content":
		extractor = goquery.NewContentExtractor()
	default:
		extractor = goquery.NewExtractor()
	}

	var counter sitevec.TokenCounter = chunk.WordCounter{}
	if c.Tokenizer == "gemini" {
		tc, err := gemini.NewTokenCounter(gemini.DefaultTokenizerModel)
		if err != nil {
			_ = fetcher.Close()
			return nil, nil, fmt.Errorf("failed to create token counter: %w", err)
		}
		counter = tc
	}

	crawler := &crawl.Crawler{
		Fetcher:   fetcher,
		Extractor: extractor,
		Splitter: &chunk.Chunker{
			MaxTokens: c.MaxTokens,
			Overlap:   c.Overlap,
			Counter:   counter,
		},
		RateLimiter: crawl.NewLimiter(c.Rate, c.RateWindow),
		Concurrency: c.Concurrency,
		RetryDelays: crawl.BackoffDelays(c.Retries, time.Second),
		Logger:      logger,
	}
	return crawler, func() { _ = fetcher.Close() }, nil
}
