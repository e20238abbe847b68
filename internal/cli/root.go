package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/aletheia/internal/model"
)

// Version is the reported build version
const Version = "v0.1.0"

const envPrefix = "ALETHEIA"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "aletheia",
	Short: "Aletheia - misinformation analysis backend",
	Long: `Aletheia analyzes URLs and text for credibility.

Each request runs through a fixed workflow:
  scout       fetch and extract the text to analyze
  verify      credibility, sentiment and embeddings in parallel
  store       write the embedding and a document node
  synthesize  derive weighted evidence from the verdict
  respond     return the result and persist the record

Workflow logs are streamed live to WebSocket observers on /ws/threats.
Every external capability is optional: without credentials a documented
default is used and the analysis still completes.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Aletheia.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("aletheia %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.aletheia/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in .env, the config file and ENV variables
func initConfig() {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		} else {
			viper.AddConfigPath(filepath.Join(home, ".aletheia"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := configureViper(viper.GetViper()); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting configuration defaults: %v\n", err)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// legacyEnv maps config keys to the environment variables deployments
// already set. ALETHEIA_* always wins, then the names in order.
var legacyEnv = map[string][]string{
	"llm.base_url":        {"OLLAMA_BASE_URL"},
	"sentiment.url":       {"HF_SENTIMENT_URL"},
	"sentiment.api_token": {"HUGGINGFACEHUB_API_TOKEN", "HF_API_TOKEN"},
	"vector.addresses":    {"ELASTICSEARCH_URL"},
	"vector.index":        {"VECTOR_INDEX", "PINECONE_INDEX"},
	"graph.uri":           {"NEO4J_URI"},
	"graph.user":          {"NEO4J_USER"},
	"graph.password":      {"NEO4J_PASS", "NEO4J_PASSWORD"},
	"document.url":        {"DATABASE_URL", "MONGODB_URI"},
	"cache.redis_addr":    {"REDIS_ADDR"},
	"server.port":         {"PORT"},
}

// providerKeyEnv names the vendor variable holding each provider's API key.
// It only applies when no api_key is configured for that provider.
var providerKeyEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"google":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"claude":    "ANTHROPIC_API_KEY",
}

// configureViper registers defaults for every config key and the
// environment bindings. Viper only resolves env vars for keys it knows.
func configureViper(v *viper.Viper) error {
	defaults, err := defaultSettings()
	if err != nil {
		return err
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		envNames := append([]string{envName(key)}, names...)
		if err := v.BindEnv(append([]string{key}, envNames...)...); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}

// loadConfig resolves the effective configuration from v
func loadConfig(v *viper.Viper) (model.Config, error) {
	var cfg model.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return model.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if v.GetBool("verbose") {
		cfg.Logging.Level = "debug"
	}
	cfg.LLM.APIKey = providerKey(cfg.LLM.Provider, cfg.LLM.APIKey)
	cfg.Embedding.APIKey = providerKey(cfg.Embedding.Provider, cfg.Embedding.APIKey)
	return cfg, nil
}

// providerKey returns configured, or the vendor key for provider when unset
func providerKey(provider, configured string) string {
	if configured != "" {
		return configured
	}
	name, ok := providerKeyEnv[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return ""
	}
	return os.Getenv(name)
}

// defaultSettings flattens DefaultConfig into dotted viper keys
func defaultSettings() (map[string]interface{}, error) {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("unmarshal defaults: %w", err)
	}

	out := make(map[string]interface{})
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, in map[string]interface{}, out map[string]interface{}) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
