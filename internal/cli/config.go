package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/aletheia/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Aletheia configuration",
	Long: `Manage Aletheia configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (ALETHEIA_*, then GEMINI_API_KEY, NEO4J_URI, ...)
3. .env file in the working directory
4. Config file (~/.aletheia/config.yaml)
5. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration with secrets masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		configFile := viper.ConfigFileUsed()
		if configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults and environment)\n\n")
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()

		yamlData, err := yaml.Marshal(maskSecrets(cfg))
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println(string(yamlData))

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println("Capabilities:")
		fmt.Printf("  Credibility (LLM):  %s\n", status(cfg.LLM.APIKey != "" || cfg.LLM.Provider == "ollama"))
		fmt.Printf("  Sentiment:          %s\n", status(cfg.Sentiment.URL != "" && cfg.Sentiment.APIToken != ""))
		fmt.Printf("  Embeddings:         %s\n", status(cfg.Embedding.APIKey != "" || cfg.Embedding.Provider == "ollama"))
		fmt.Printf("  Vector index:       %s\n", status(len(cfg.Vector.Addresses) > 0))
		fmt.Printf("  Graph:              %s\n", status(cfg.Graph.URI != "" && cfg.Graph.User != "" && cfg.Graph.Password != ""))
		fmt.Printf("  Records:            %s\n", status(cfg.Document.URL != ""))
		fmt.Println()

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.aletheia/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configPath := filepath.Join(home, ".aletheia", "config.yaml")
		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  aletheia config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// writeDefaultConfig writes the commented default configuration to path.
// An existing file is never overwritten.
func writeDefaultConfig(path string) (err error) {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'aletheia config show' to view it, or delete it first to recreate", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	// Helper for writing with error checking
	printf := func(format string, a ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# Aletheia Configuration File\n")
	printf("#\n")
	printf("# Configuration hierarchy (highest to lowest priority):\n")
	printf("#   1. CLI flags\n")
	printf("#   2. Environment variables (ALETHEIA_*)\n")
	printf("#   3. .env file\n")
	printf("#   4. This config file\n")
	printf("#   5. Built-in defaults\n\n")
	printf("%s", yamlData)

	printf("\n# Secrets are better kept in the environment:\n")
	printf("#   export GEMINI_API_KEY=...\n")
	printf("#   export HUGGINGFACEHUB_API_TOKEN=hf_...\n")
	printf("#   export NEO4J_URI=neo4j://localhost:7687 NEO4J_USER=neo4j NEO4J_PASS=...\n")
	printf("#   export ELASTICSEARCH_URL=http://localhost:9200\n")
	printf("#   export DATABASE_URL=mongodb://localhost:27017/stratosphere\n")

	if err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}

// maskSecrets hides credentials for display
func maskSecrets(cfg model.Config) model.Config {
	cfg.LLM.APIKey = mask(cfg.LLM.APIKey)
	cfg.Embedding.APIKey = mask(cfg.Embedding.APIKey)
	cfg.Sentiment.APIToken = mask(cfg.Sentiment.APIToken)
	cfg.Vector.Password = mask(cfg.Vector.Password)
	cfg.Vector.APIKey = mask(cfg.Vector.APIKey)
	cfg.Graph.Password = mask(cfg.Graph.Password)
	cfg.Cache.RedisPassword = mask(cfg.Cache.RedisPassword)
	return cfg
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****"
}

func status(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured (default used)"
}
