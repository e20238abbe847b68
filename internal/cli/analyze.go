package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/worker"
)

var (
	analyzeKind    string
	analyzeTimeout time.Duration
	analyzeJSON    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url|text|->",
	Short: "Analyze a single URL or text and print the result",
	Long: `Analyze runs one request through the full workflow without starting the
server. The input type is detected from the argument unless --type is set;
"-" reads text from stdin.

Example:
  aletheia analyze https://example.com/article
  aletheia analyze "Vaccines cause autism"
  cat post.txt | aletheia analyze - --json result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeKind, "type", "", "input type (url, text, image, video); detected when empty")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 3*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "", "also write the JSON result to this path")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	req, err := buildRequest(analyzeKind, args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	a := buildApp(ctx, cfg)
	defer a.Close(context.Background())

	result := a.pipeline.Run(ctx, req)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if analyzeJSON != "" {
		if err := os.WriteFile(analyzeJSON, data, 0644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", analyzeJSON)
		}
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// buildRequest turns the CLI argument into an analysis request
func buildRequest(kind, arg string, stdin io.Reader) (model.AnalysisRequest, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return model.AnalysisRequest{}, fmt.Errorf("read stdin: %w", err)
		}
		arg = strings.TrimSpace(string(data))
	}

	switch model.InputKind(strings.ToLower(kind)) {
	case "":
		return worker.ParseRequestLine(arg), nil
	case model.KindURL:
		return model.NewURLRequest(arg), nil
	case model.KindText:
		return model.NewTextRequest(arg), nil
	case model.KindImage, model.KindVideo:
		return model.AnalysisRequest{
			Kind:    model.InputKind(strings.ToLower(kind)),
			Payload: map[string]interface{}{"url": arg},
		}, nil
	default:
		return model.AnalysisRequest{}, fmt.Errorf("unknown input type: %s (supported: url, text, image, video)", kind)
	}
}
