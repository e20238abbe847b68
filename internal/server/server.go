// Package server exposes the analysis pipeline over HTTP and streams
// workflow logs to WebSocket observers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/aletheia/internal/broadcast"
	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
)

// Analyzer runs one analysis request
type Analyzer interface {
	Run(ctx context.Context, req model.AnalysisRequest) model.AnalysisResult
}

// RecordLister reads persisted analyses, newest first
type RecordLister interface {
	List(ctx context.Context, limit, skip int) ([]model.AnalysisRecord, error)
}

// Options wires a Server
type Options struct {
	Config      model.ServerConfig
	Analyzer    Analyzer
	Records     RecordLister // nil lists nothing
	Hub         *broadcast.Hub
	Broadcaster *broadcast.Broadcaster
	Logger      logger.Logger
}

// Server is the HTTP and WebSocket front end
type Server struct {
	cfg      model.ServerConfig
	analyzer Analyzer
	records  RecordLister
	hub      *broadcast.Hub
	events   *broadcast.Broadcaster
	log      logger.Logger
	engine   *gin.Engine
}

// New creates a Server and registers its routes
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	hub := opts.Hub
	if hub == nil {
		hub = broadcast.NewHub()
	}
	events := opts.Broadcaster
	if events == nil {
		events = broadcast.New(hub, log)
	}

	s := &Server{
		cfg:      opts.Config,
		analyzer: opts.Analyzer,
		records:  opts.Records,
		hub:      hub,
		events:   events,
		log:      log,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	g := gin.New()
	g.Use(gin.Recovery(), requestLogger(s.log))
	g.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	v1 := g.Group("/api/v1")
	{
		v1.POST("/query", s.handleQuery)
		v1.GET("/records", s.handleRecords)
	}

	g.GET("/health", s.handleHealth)
	g.GET("/ws/threats", s.handleThreats)
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if dir := s.cfg.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			g.Static("/static", dir)
		}
	}
	return g
}

// Handler returns the routed http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully. The
// heartbeat ticker runs for the lifetime of the server.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go broadcast.RunHeartbeat(hbCtx, s.hub, s.cfg.HeartbeatInterval)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", map[string]interface{}{"addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("Shutting down HTTP server", nil)
	s.hub.DisconnectAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}
