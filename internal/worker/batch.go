package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/aletheia/internal/model"
)

// Analyzer runs one request through the analysis pipeline
type Analyzer interface {
	Run(ctx context.Context, req model.AnalysisRequest) model.AnalysisResult
}

// BatchResult pairs a request with its result
type BatchResult struct {
	Request  model.AnalysisRequest
	Result   model.AnalysisResult
	Duration time.Duration
}

// BatchProcessor analyzes many requests concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessRequests analyzes reqs and returns results in input order
func (b *BatchProcessor) ProcessRequests(ctx context.Context, reqs []model.AnalysisRequest) []BatchResult {
	if len(reqs) == 0 {
		return []BatchResult{}
	}

	pool := NewPool[BatchResult](ctx, b.concurrency)
	pool.Start()

	for _, req := range reqs {
		req := req
		pool.Submit(func(ctx context.Context) BatchResult {
			start := time.Now()
			result := b.analyzer.Run(ctx, req)
			return BatchResult{Request: req, Result: result, Duration: time.Since(start)}
		})
	}

	return pool.Wait()
}

// ProcessFile reads requests from a file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]BatchResult, error) {
	reqs, err := ReadRequestsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}

	return b.ProcessRequests(ctx, reqs), nil
}

// ParseRequestLine turns one input line into a request.
// http(s) URLs become url requests, anything else a text request.
func ParseRequestLine(line string) model.AnalysisRequest {
	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return model.NewURLRequest(line)
	}
	return model.NewTextRequest(line)
}

// ReadRequestsFromFile reads one request per line.
// Blank lines, # comments and duplicate lines are skipped.
func ReadRequestsFromFile(filePath string) ([]model.AnalysisRequest, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var reqs []model.AnalysisRequest
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		reqs = append(reqs, ParseRequestLine(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return reqs, nil
}
