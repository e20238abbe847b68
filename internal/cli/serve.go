package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/aletheia/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and WebSocket log stream",
	Long: `Serve starts the analysis API:

  POST /api/v1/query    analyze {"type": "url|text|image|video", "payload": {...}}
  GET  /api/v1/records  list persisted analyses, newest first
  GET  /health          liveness probe
  GET  /ws/threats      live workflow log stream
  GET  /metrics         Prometheus metrics

Example:
  aletheia serve
  aletheia serve --port 9000 --heartbeat 0
  GEMINI_API_KEY=... NEO4J_URI=neo4j://localhost:7687 aletheia serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8000, "listen port")
	serveCmd.Flags().String("static-dir", "static", "directory served under /static when it exists")
	serveCmd.Flags().Duration("heartbeat", 0, "threat heartbeat interval (0 disables; default from config)")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.static_dir", serveCmd.Flags().Lookup("static-dir"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("heartbeat") {
		cfg.Server.HeartbeatInterval, _ = cmd.Flags().GetDuration("heartbeat")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := buildApp(ctx, cfg)
	defer a.Close(context.Background())

	srv := server.New(server.Options{
		Config:      cfg.Server,
		Analyzer:    a.pipeline,
		Records:     a.records,
		Hub:         a.hub,
		Broadcaster: a.events,
		Logger:      a.log,
	})

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
