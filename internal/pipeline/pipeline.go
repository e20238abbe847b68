// Package pipeline runs one analysis request through the
// Scout, Verify, Store, Synthesize and Respond stages.
package pipeline

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ppiankov/aletheia/internal/credibility"
	"github.com/ppiankov/aletheia/internal/embedding"
	"github.com/ppiankov/aletheia/internal/extract"
	"github.com/ppiankov/aletheia/internal/metrics"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/store"
)

// Stage names used in logs and metrics
const (
	StageScout      = "scout"
	StageVerify     = "verify"
	StageStore      = "store"
	StageSynthesize = "synthesize"
	StageRespond    = "respond"
)

// ContentExtractor turns a request into text
type ContentExtractor interface {
	Extract(ctx context.Context, req model.AnalysisRequest) extract.Content
}

// CredibilityAnalyzer produces a verdict for text
type CredibilityAnalyzer interface {
	Analyze(ctx context.Context, text, sourceURL string) model.Outcome[model.CredibilityAssessment]
}

// SentimentClassifier classifies text sentiment
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) model.Outcome[model.SentimentResult]
}

// EmbeddingGenerator embeds a batch of texts
type EmbeddingGenerator interface {
	Embed(ctx context.Context, texts []string) model.Outcome[[]model.EmbeddingVector]
}

// VectorSink stores embeddings
type VectorSink interface {
	Upsert(ctx context.Context, vectors []model.EmbeddingVector) error
}

// GraphSink stores a document node
type GraphSink interface {
	UpsertDocument(ctx context.Context, id, text string) error
}

// RecordSink persists finished analyses
type RecordSink interface {
	Insert(ctx context.Context, rec model.AnalysisRecord) (string, error)
}

// Emitter receives workflow log events
type Emitter interface {
	Emit(level model.LogLevel, message string, fields map[string]interface{})
}

// Deps are the collaborators of a Pipeline. Nil capabilities behave as
// unconfigured and nil sinks as ErrNotConfigured.
type Deps struct {
	Extractor   ContentExtractor
	Credibility CredibilityAnalyzer
	Sentiment   SentimentClassifier
	Embedding   EmbeddingGenerator
	Vectors     VectorSink
	Graph       GraphSink
	Records     RecordSink
	Log         Emitter
}

// Pipeline orchestrates one analysis per Run call. It holds no per-request
// state and is safe for concurrent use.
type Pipeline struct {
	deps Deps
	now  func() time.Time
}

// New creates a Pipeline
func New(deps Deps) *Pipeline {
	if deps.Log == nil {
		deps.Log = discard{}
	}
	return &Pipeline{deps: deps, now: time.Now}
}

type verification struct {
	sentiment  model.Outcome[model.SentimentResult]
	embeddings model.Outcome[[]model.EmbeddingVector]
	assessment model.Outcome[model.CredibilityAssessment]
}

// Run executes the workflow. It never fails: every stage degrades to its
// documented default and the result is always well formed. Request
// cancellation does not reach the stages; each external call is bounded by
// its own client timeout.
func (p *Pipeline) Run(ctx context.Context, req model.AnalysisRequest) model.AnalysisResult {
	ctx = context.WithoutCancel(ctx)
	log := &requestLog{emitter: p.deps.Log, requestID: uuid.NewString()}
	started := p.now()
	log.info("Starting analysis workflow", map[string]interface{}{"input_type": string(req.Kind)})

	done := p.stage(log, StageScout)
	content := p.scout(ctx, req)
	done(map[string]interface{}{"chars": utf8.RuneCountInString(content.Text)})

	done = p.stage(log, StageVerify)
	v := p.verify(ctx, log, content)
	done(map[string]interface{}{
		"sentiment":   v.sentiment.Label(),
		"embedding":   v.embeddings.Label(),
		"credibility": v.assessment.Label(),
	})

	done = p.stage(log, StageStore)
	p.store(ctx, log, content.Text, v.embeddings.Value)
	done(nil)

	done = p.stage(log, StageSynthesize)
	assessment := v.assessment.Value
	evidence := SynthesizeEvidence(assessment, content.SourceURL)
	done(map[string]interface{}{"evidence": len(evidence)})

	done = p.stage(log, StageRespond)
	result := model.AnalysisResult{
		Status:             model.StatusCompleted,
		Summary:            assessment.Summary,
		Verdict:            assessment.Verdict,
		Confidence:         assessment.Confidence,
		Reasoning:          assessment.Reasoning,
		Evidence:           evidence,
		Sentiment:          v.sentiment.Value,
		InputType:          req.Kind,
		AnalyzedTextLength: utf8.RuneCountInString(content.Text),
	}
	p.persist(ctx, log, req, result)
	done(nil)

	metrics.AnalysesTotal.WithLabelValues(string(req.Kind), string(result.Verdict)).Inc()
	log.info("Analysis workflow complete", map[string]interface{}{
		"verdict":    string(result.Verdict),
		"confidence": result.Confidence,
		"duration_s": p.now().Sub(started).Seconds(),
	})
	return result
}

// stage logs the stage start and returns a func that logs its end and
// records the duration
func (p *Pipeline) stage(log *requestLog, name string) func(fields map[string]interface{}) {
	start := p.now()
	log.debug("Stage started", map[string]interface{}{"stage": name})

	return func(fields map[string]interface{}) {
		elapsed := p.now().Sub(start)
		metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())

		merged := map[string]interface{}{"stage": name, "duration_s": elapsed.Seconds()}
		for k, v := range fields {
			merged[k] = v
		}
		log.info("Stage complete", merged)
	}
}

func (p *Pipeline) scout(ctx context.Context, req model.AnalysisRequest) extract.Content {
	if p.deps.Extractor == nil {
		return extract.Content{Text: extract.UnsupportedInput}
	}
	return p.deps.Extractor.Extract(ctx, req)
}

// verify runs the three capability calls concurrently and joins them in a
// fixed order
func (p *Pipeline) verify(ctx context.Context, log *requestLog, content extract.Content) verification {
	sentimentCh := make(chan model.Outcome[model.SentimentResult], 1)
	embeddingCh := make(chan model.Outcome[[]model.EmbeddingVector], 1)
	credibilityCh := make(chan model.Outcome[model.CredibilityAssessment], 1)

	go func() { sentimentCh <- p.classify(ctx, content.Text) }()
	go func() { embeddingCh <- p.embed(ctx, content.Text) }()
	go func() { credibilityCh <- p.analyze(ctx, content) }()

	var v verification
	v.sentiment = <-sentimentCh
	logOutcome(log, "sentiment", v.sentiment.Label(), v.sentiment.Err)
	v.embeddings = <-embeddingCh
	logOutcome(log, "embedding", v.embeddings.Label(), v.embeddings.Err)
	v.assessment = <-credibilityCh
	logOutcome(log, "credibility", v.assessment.Label(), v.assessment.Err)
	return v
}

func (p *Pipeline) classify(ctx context.Context, text string) model.Outcome[model.SentimentResult] {
	if p.deps.Sentiment == nil {
		return model.Skipped(model.NeutralSentiment())
	}
	return p.deps.Sentiment.Classify(ctx, text)
}

func (p *Pipeline) embed(ctx context.Context, text string) model.Outcome[[]model.EmbeddingVector] {
	if p.deps.Embedding == nil {
		return model.Skipped(embedding.Fallback([]string{text}))
	}
	return p.deps.Embedding.Embed(ctx, []string{text})
}

func (p *Pipeline) analyze(ctx context.Context, content extract.Content) model.Outcome[model.CredibilityAssessment] {
	if p.deps.Credibility == nil {
		return model.Skipped(credibility.Unconfigured())
	}
	return p.deps.Credibility.Analyze(ctx, content.Text, content.SourceURL)
}

func logOutcome(log *requestLog, capability, outcome string, err error) {
	metrics.CapabilityOutcomes.WithLabelValues(capability, outcome).Inc()
	fields := map[string]interface{}{"capability": capability, "outcome": outcome}
	switch {
	case err != nil:
		fields["error"] = err.Error()
		log.warn("Capability call failed, using default", fields)
	case outcome == "skipped":
		log.debug("Capability not configured, using default", fields)
	default:
		log.info("Capability call succeeded", fields)
	}
}

// store writes the vector and graph entries. Each failure is logged on its
// own and neither stops the workflow.
func (p *Pipeline) store(ctx context.Context, log *requestLog, text string, vectors []model.EmbeddingVector) {
	var err error
	if p.deps.Vectors == nil {
		err = store.ErrNotConfigured
	} else {
		err = p.deps.Vectors.Upsert(ctx, vectors)
	}
	logSink(log, "vector", err, map[string]interface{}{"vectors": len(vectors)})

	if len(vectors) == 0 {
		log.debug("No embedding id, skipping graph write", nil)
		return
	}

	if p.deps.Graph == nil {
		err = store.ErrNotConfigured
	} else {
		err = p.deps.Graph.UpsertDocument(ctx, vectors[0].ID, text)
	}
	logSink(log, "graph", err, map[string]interface{}{"id": vectors[0].ID})
}

func (p *Pipeline) persist(ctx context.Context, log *requestLog, req model.AnalysisRequest, result model.AnalysisResult) {
	if p.deps.Records == nil {
		logSink(log, "document", store.ErrNotConfigured, nil)
		return
	}

	rec, err := model.NewAnalysisRecord(req, result, p.now())
	if err != nil {
		logSink(log, "document", err, nil)
		return
	}

	id, err := p.deps.Records.Insert(ctx, rec)
	logSink(log, "document", err, map[string]interface{}{"record_id": id})
}

func logSink(log *requestLog, sink string, err error, fields map[string]interface{}) {
	merged := map[string]interface{}{"sink": sink}
	for k, v := range fields {
		merged[k] = v
	}

	switch {
	case err == nil:
		log.info("Stored", merged)
	case errors.Is(err, store.ErrNotConfigured):
		log.debug("Sink not configured, skipping", merged)
	default:
		merged["error"] = err.Error()
		log.warn("Store failed, continuing", merged)
	}
}

// requestLog tags every event with the request id
type requestLog struct {
	emitter   Emitter
	requestID string
}

func (l *requestLog) emit(level model.LogLevel, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["request_id"] = l.requestID
	l.emitter.Emit(level, msg, merged)
}

func (l *requestLog) debug(msg string, fields map[string]interface{}) {
	l.emit(model.LevelDebug, msg, fields)
}

func (l *requestLog) info(msg string, fields map[string]interface{}) {
	l.emit(model.LevelInfo, msg, fields)
}

func (l *requestLog) warn(msg string, fields map[string]interface{}) {
	l.emit(model.LevelWarn, msg, fields)
}

type discard struct{}

func (discard) Emit(model.LogLevel, string, map[string]interface{}) {}
