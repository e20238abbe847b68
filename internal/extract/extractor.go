package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/aletheia/internal/cache"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/worker"
)

// Placeholder texts returned instead of errors
const (
	NoTextProvided      = "No text provided"
	ImageNotImplemented = "Image analysis not yet implemented"
	VideoNotImplemented = "Video analysis not yet implemented"
	UnsupportedInput    = "Unsupported input type"
	fetchFailedPrefix   = "Failed to fetch URL content: "
)

// ErrDisallowed is returned when robots.txt forbids a fetch
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Content is the text to analyze and, for URL input, where it came from
type Content struct {
	Text      string
	SourceURL string
}

// Options wires the optional collaborators of an Extractor
type Options struct {
	Robots   *RobotsChecker  // nil skips robots.txt checks
	Limiter  *worker.Limiter // nil applies no per-host spacing
	Cache    cache.Cache     // nil disables caching of page text
	CacheTTL time.Duration
}

// Extractor turns an analysis request into plain text
type Extractor struct {
	fetcher  *Fetcher
	robots   *RobotsChecker
	limiter  *worker.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewExtractor creates an Extractor around fetcher
func NewExtractor(fetcher *Fetcher, opts Options) *Extractor {
	return &Extractor{
		fetcher:  fetcher,
		robots:   opts.Robots,
		limiter:  opts.Limiter,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
	}
}

// Extract never fails: problems become placeholder text
func (e *Extractor) Extract(ctx context.Context, req model.AnalysisRequest) Content {
	switch req.Kind {
	case model.KindURL:
		rawURL := req.PayloadString("url")
		text, err := e.ExtractURL(ctx, rawURL)
		if err != nil {
			text = fetchFailedPrefix + err.Error()
		}
		return Content{Text: text, SourceURL: rawURL}
	case model.KindText:
		text := strings.TrimSpace(req.PayloadString("text"))
		if text == "" {
			text = NoTextProvided
		}
		return Content{Text: text}
	case model.KindImage:
		return Content{Text: ImageNotImplemented}
	case model.KindVideo:
		return Content{Text: VideoNotImplemented}
	default:
		return Content{Text: UnsupportedInput}
	}
}

// ExtractURL fetches rawURL and returns its readable text
func (e *Extractor) ExtractURL(ctx context.Context, rawURL string) (string, error) {
	key := cache.CacheKey(rawURL)
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, key); ok {
			return string(cached), nil
		}
	}

	if e.robots != nil {
		allowed, err := e.robots.Allowed(ctx, rawURL)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", ErrDisallowed
		}
	}

	if err := e.limiter.Wait(ctx, rawURL); err != nil {
		return "", err
	}

	res, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	text, err := ExtractText(res.Body, res.FinalURL)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	if e.cache != nil && text != "" {
		_ = e.cache.Set(ctx, key, []byte(text), e.cacheTTL)
	}
	return text, nil
}
