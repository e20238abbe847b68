package cli

import (
	"context"
	"errors"
	"time"

	"github.com/ppiankov/aletheia/internal/broadcast"
	"github.com/ppiankov/aletheia/internal/cache"
	"github.com/ppiankov/aletheia/internal/credibility"
	"github.com/ppiankov/aletheia/internal/embedding"
	"github.com/ppiankov/aletheia/internal/extract"
	"github.com/ppiankov/aletheia/internal/llm"
	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/pipeline"
	"github.com/ppiankov/aletheia/internal/sentiment"
	"github.com/ppiankov/aletheia/internal/store"
	"github.com/ppiankov/aletheia/internal/util"
	"github.com/ppiankov/aletheia/internal/worker"
)

const (
	connectTimeout = 10 * time.Second
	robotsTTL      = time.Hour
)

// app holds the wired collaborators shared by serve, analyze and batch
type app struct {
	cfg      model.Config
	log      logger.Logger
	hub      *broadcast.Hub
	events   *broadcast.Broadcaster
	pipeline *pipeline.Pipeline
	records  store.DocumentStore // nil when no record store is configured
	closers  []func(context.Context) error
}

// buildApp wires every component from cfg. Unavailable capabilities and
// stores are logged and left unconfigured.
func buildApp(ctx context.Context, cfg model.Config) *app {
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	hub := broadcast.NewHub()
	events := broadcast.New(hub, log)

	a := &app{cfg: cfg, log: log, hub: hub, events: events}

	extractor := a.buildExtractor(ctx)

	var provider llm.Provider
	if p, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP)); err != nil {
		log.Warn("LLM provider unavailable, credibility analysis disabled", map[string]interface{}{
			"provider": cfg.LLM.Provider,
			"error":    err.Error(),
		})
	} else {
		provider = p
	}

	var embedder llm.Embedder
	if e, err := llm.NewEmbedder(llm.EmbeddingConfigFromModel(cfg.Embedding, cfg.HTTP)); err != nil {
		log.Warn("Embedding provider unavailable, using fallback vectors", map[string]interface{}{
			"provider": cfg.Embedding.Provider,
			"error":    err.Error(),
		})
	} else {
		embedder = e
	}

	classifier := sentiment.NewClassifier(sentiment.Config{
		URL:        cfg.Sentiment.URL,
		APIToken:   cfg.Sentiment.APIToken,
		Timeout:    cfg.Sentiment.Timeout,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
	})
	if !classifier.Configured() {
		log.Debug("Sentiment classifier not configured, using neutral default", nil)
	}

	a.records = a.openRecords(ctx)

	deps := pipeline.Deps{
		Extractor:   extractor,
		Credibility: credibility.NewAnalyzer(provider),
		Sentiment:   classifier,
		Embedding:   embedding.NewGenerator(embedder),
		Vectors:     a.openVectors(ctx),
		Graph:       a.openGraph(),
		Records:     a.records,
		Log:         events,
	}
	a.pipeline = pipeline.New(deps)

	return a
}

func (a *app) buildExtractor(ctx context.Context) *extract.Extractor {
	httpCfg := a.cfg.HTTP
	client := util.NewHTTPClient(util.ClientOptions{
		Timeout:    httpCfg.Timeout,
		HTTPProxy:  httpCfg.HTTPProxy,
		HTTPSProxy: httpCfg.HTTPSProxy,
	})

	opts := extract.Options{CacheTTL: a.cfg.Cache.TTL}
	if httpCfg.RespectRobots {
		opts.Robots = extract.NewRobotsChecker(client, httpCfg.UserAgent, robotsTTL)
	}
	if httpCfg.RequestsPerSecond > 0 {
		opts.Limiter = worker.NewLimiter(httpCfg.RequestsPerSecond, httpCfg.Burst)
	}
	if a.cfg.Cache.Enabled {
		opts.Cache = a.buildCache(ctx)
	}

	return extract.NewExtractor(extract.NewFetcher(client, httpCfg.UserAgent, httpCfg.MaxBodyBytes), opts)
}

// buildCache returns the in-memory cache, layered over redis when an
// address is set and reachable
func (a *app) buildCache(ctx context.Context) cache.Cache {
	cfg := a.cfg.Cache
	local := cache.NewMemoryCache(cfg.TTL, 2*cfg.TTL)
	if cfg.RedisAddr == "" {
		return local
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	remote, err := cache.NewRedisCache(pingCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
	if err != nil {
		a.log.Warn("Redis cache unavailable, caching in memory only", map[string]interface{}{
			"addr":  cfg.RedisAddr,
			"error": err.Error(),
		})
		return local
	}
	a.closers = append(a.closers, func(context.Context) error { return remote.Close() })
	return cache.NewLayeredCache(local, remote)
}

func (a *app) openVectors(ctx context.Context) *store.VectorStore {
	vectors, err := store.NewVectorStore(a.cfg.Vector)
	if err != nil {
		a.log.Warn("Vector store unavailable", map[string]interface{}{"error": err.Error()})
		return &store.VectorStore{}
	}
	if !vectors.Configured() {
		return vectors
	}

	ensureCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := vectors.EnsureIndex(ensureCtx); err != nil {
		a.log.Warn("Could not ensure vector index", map[string]interface{}{
			"index": vectors.Index(),
			"error": err.Error(),
		})
	}
	return vectors
}

func (a *app) openGraph() *store.GraphStore {
	graph, err := store.NewGraphStore(a.cfg.Graph)
	if err != nil {
		a.log.Warn("Graph store unavailable", map[string]interface{}{"error": err.Error()})
		return &store.GraphStore{}
	}
	a.closers = append(a.closers, graph.Close)
	return graph
}

func (a *app) openRecords(ctx context.Context) store.DocumentStore {
	openCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	records, err := store.OpenDocumentStore(openCtx, a.cfg.Document)
	if errors.Is(err, store.ErrNotConfigured) {
		a.log.Debug("Record store not configured, analyses will not be persisted", nil)
		return nil
	}
	if err != nil {
		a.log.Warn("Record store unavailable, analyses will not be persisted", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	a.closers = append(a.closers, records.Close)
	return records
}

// Close releases stores and connections in reverse order of creation
func (a *app) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn("Close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	a.closers = nil
}
