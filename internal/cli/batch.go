package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/worker"
)

var (
	batchOutput  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many URLs or texts from a file in parallel",
	Long: `Batch analyzes one request per line of the input file:
- Lines starting with http:// or https:// are analyzed as URLs
- Any other non-empty line is analyzed as text
- Blank lines, # comments and duplicates are skipped

Results are written as JSON lines in input order.

Example:
  aletheia batch inputs.txt
  aletheia batch inputs.txt --concurrency 8 --output results.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", 4, "number of concurrent analyses")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "JSON lines output path (default: stdout)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	_ = viper.BindPFlag("batch.concurrency", batchCmd.Flags().Lookup("concurrency"))
}

// batchLine is one line of batch output
type batchLine struct {
	Input      model.AnalysisRequest `json:"input"`
	Result     model.AnalysisResult  `json:"result"`
	DurationMS int64                 `json:"duration_ms"`
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	file := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	concurrency := cfg.Batch.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Aletheia Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	a := buildApp(ctx, cfg)
	defer a.Close(context.Background())

	var out io.Writer = cmd.OutOrStdout()
	if batchOutput != "" {
		f, createErr := os.Create(batchOutput)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		out = f
	}

	processor := worker.NewBatchProcessor(a.pipeline, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing requests with %d workers...\n\n", concurrency)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	counts, err := writeBatchResults(out, results)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:         %d\n", len(results))
	for _, v := range []model.Verdict{
		model.VerdictLikelyTrue,
		model.VerdictLikelyFalse,
		model.VerdictMisleading,
		model.VerdictUncertain,
		model.VerdictSatire,
		model.VerdictUnknown,
	} {
		if n := counts[v]; n > 0 {
			fmt.Fprintf(os.Stderr, "  %-13s  %d\n", string(v)+":", n)
		}
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// writeBatchResults writes one JSON line per result and counts verdicts
func writeBatchResults(w io.Writer, results []worker.BatchResult) (map[model.Verdict]int, error) {
	counts := make(map[model.Verdict]int)
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	for _, r := range results {
		counts[r.Result.Verdict]++
		fmt.Fprintf(os.Stderr, "✓ [%s] %s (%.2f) %s\n",
			r.Request.Kind, r.Result.Verdict, r.Result.Confidence, label(r.Request))

		line := batchLine{Input: r.Request, Result: r.Result, DurationMS: r.Duration.Milliseconds()}
		if err := enc.Encode(line); err != nil {
			return nil, fmt.Errorf("write result: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flush results: %w", err)
	}
	return counts, nil
}

// label is a short display name for a request
func label(req model.AnalysisRequest) string {
	s := req.PayloadString("url")
	if s == "" {
		s = req.PayloadString("text")
	}
	r := []rune(s)
	if len(r) > 60 {
		return string(r[:60]) + "..."
	}
	return s
}
