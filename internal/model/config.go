package model

import "time"

// Config holds all runtime configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	Sentiment SentimentConfig `yaml:"sentiment" mapstructure:"sentiment"`
	Vector    VectorConfig    `yaml:"vector" mapstructure:"vector"`
	Graph     GraphConfig     `yaml:"graph" mapstructure:"graph"`
	Document  DocumentConfig  `yaml:"document" mapstructure:"document"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig controls the HTTP/WebSocket listener
type ServerConfig struct {
	Port              int           `yaml:"port" mapstructure:"port"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval" mapstructure:"heartbeat_interval"` // 0 disables the threat heartbeat
	StaticDir         string        `yaml:"static_dir" mapstructure:"static_dir"`                 // Served under /static when present
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// HTTPConfig controls outbound page fetches
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per host; 0 disables
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	HTTPProxy         string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// LLMConfig selects the generative-text provider
type LLMConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"` // gemini, openai, anthropic, ollama
	Model       string        `yaml:"model" mapstructure:"model"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"` // 0 leaves gemini unlimited
	Temperature float32       `yaml:"temperature" mapstructure:"temperature"`
}

// EmbeddingConfig selects the embedding provider
type EmbeddingConfig struct {
	Provider string        `yaml:"provider" mapstructure:"provider"` // gemini, openai, ollama
	Model    string        `yaml:"model" mapstructure:"model"`
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SentimentConfig points at a hosted sentiment classifier
type SentimentConfig struct {
	URL      string        `yaml:"url" mapstructure:"url"`
	APIToken string        `yaml:"api_token" mapstructure:"api_token"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// VectorConfig configures the Elasticsearch vector index
type VectorConfig struct {
	Addresses []string `yaml:"addresses" mapstructure:"addresses"`
	Username  string   `yaml:"username" mapstructure:"username"`
	Password  string   `yaml:"password" mapstructure:"password"`
	APIKey    string   `yaml:"api_key" mapstructure:"api_key"`
	Index     string   `yaml:"index" mapstructure:"index"`
}

// GraphConfig configures the Neo4j connection
type GraphConfig struct {
	URI      string `yaml:"uri" mapstructure:"uri"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
}

// DocumentConfig configures record persistence.
// URL scheme picks the backend: mongodb:// or mongodb+srv:// for MongoDB,
// sqlite:// or a bare file path for SQLite.
type DocumentConfig struct {
	URL        string `yaml:"url" mapstructure:"url"`
	Database   string `yaml:"database" mapstructure:"database"` // Used when the Mongo URL names none
	Collection string `yaml:"collection" mapstructure:"collection"`
}

// CacheConfig controls caching of extracted page text
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL           time.Duration `yaml:"ttl" mapstructure:"ttl"`
	RedisAddr     string        `yaml:"redis_addr" mapstructure:"redis_addr"` // Empty keeps the cache in memory only
	RedisPassword string        `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB       int           `yaml:"redis_db" mapstructure:"redis_db"`
}

// BatchConfig controls the batch command
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LoggingConfig controls console logging
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console, json
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:              8000,
			HeartbeatInterval: 15 * time.Second,
			StaticDir:         "static",
			ShutdownTimeout:   10 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			MaxBodyBytes: 5 << 20,
			Burst:        5,
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			Timeout:     60 * time.Second,
			Temperature: 0.2,
		},
		Embedding: EmbeddingConfig{
			Provider: "gemini",
			Model:    "embedding-001",
			Timeout:  30 * time.Second,
		},
		Sentiment: SentimentConfig{
			URL:     "https://api-inference.huggingface.co/models/cardiffnlp/twitter-roberta-base-sentiment",
			Timeout: 20 * time.Second,
		},
		Vector: VectorConfig{
			Index: "aletheia",
		},
		Graph: GraphConfig{
			Database: "neo4j",
		},
		Document: DocumentConfig{
			Database:   "stratosphere",
			Collection: "analysis_records",
		},
		Cache: CacheConfig{
			TTL: time.Hour,
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
