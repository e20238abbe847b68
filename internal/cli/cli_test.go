package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/worker"
)

func TestBuildRequest(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		arg      string
		stdin    string
		wantKind model.InputKind
		wantKey  string
		wantVal  string
	}{
		{"detect url", "", "https://example.com/a", "", model.KindURL, "url", "https://example.com/a"},
		{"detect text", "", "Vaccines cause autism", "", model.KindText, "text", "Vaccines cause autism"},
		{"forced text", "text", "https://example.com", "", model.KindText, "text", "https://example.com"},
		{"forced url upper", "URL", "example.com", "", model.KindURL, "url", "example.com"},
		{"image", "image", "https://example.com/x.png", "", model.KindImage, "url", "https://example.com/x.png"},
		{"stdin", "", "-", "  claim from a pipe\n", model.KindText, "text", "claim from a pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := buildRequest(tt.kind, tt.arg, strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("buildRequest: %v", err)
			}
			if req.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", req.Kind, tt.wantKind)
			}
			if got := req.PayloadString(tt.wantKey); got != tt.wantVal {
				t.Errorf("payload[%s] = %q, want %q", tt.wantKey, got, tt.wantVal)
			}
		})
	}
}

func TestBuildRequestUnknownKind(t *testing.T) {
	if _, err := buildRequest("audio", "x", strings.NewReader("")); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestWriteBatchResults(t *testing.T) {
	results := []worker.BatchResult{
		{
			Request:  model.NewTextRequest("first"),
			Result:   model.AnalysisResult{Status: model.StatusCompleted, Verdict: model.VerdictLikelyFalse, Confidence: 0.9},
			Duration: 1500 * time.Millisecond,
		},
		{
			Request: model.NewURLRequest("https://example.com"),
			Result:  model.AnalysisResult{Status: model.StatusCompleted, Verdict: model.VerdictLikelyFalse, Confidence: 0.7},
		},
		{
			Request: model.NewTextRequest("third"),
			Result:  model.AnalysisResult{Status: model.StatusCompleted, Verdict: model.VerdictUnknown},
		},
	}

	var buf bytes.Buffer
	counts, err := writeBatchResults(&buf, results)
	if err != nil {
		t.Fatalf("writeBatchResults: %v", err)
	}

	if counts[model.VerdictLikelyFalse] != 2 || counts[model.VerdictUnknown] != 1 {
		t.Errorf("counts = %v", counts)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	var first batchLine
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first.DurationMS != 1500 {
		t.Errorf("duration_ms = %d, want 1500", first.DurationMS)
	}
	if first.Input.PayloadString("text") != "first" {
		t.Errorf("input = %+v", first.Input)
	}
}

func TestLabelTruncates(t *testing.T) {
	long := strings.Repeat("ж", 80)
	got := label(model.NewTextRequest(long))
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != 63 {
		t.Errorf("label = %q", got)
	}
}

func TestMaskSecrets(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.APIKey = "AIzaSyExampleKey"
	cfg.Graph.Password = "short"

	masked := maskSecrets(cfg)

	if masked.LLM.APIKey != "AIza****" {
		t.Errorf("api key = %q", masked.LLM.APIKey)
	}
	if masked.Graph.Password != "****" {
		t.Errorf("password = %q", masked.Graph.Password)
	}
	if masked.Embedding.APIKey != "" {
		t.Errorf("empty secrets stay empty, got %q", masked.Embedding.APIKey)
	}
	if cfg.LLM.APIKey != "AIzaSyExampleKey" {
		t.Error("maskSecrets modified its input")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Aletheia Configuration File") {
		t.Error("missing header comment")
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if cfg.Server.Port != 8000 || cfg.Document.Database != "stratosphere" {
		t.Errorf("round-tripped config = %+v", cfg.Server)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when config already exists")
	}
}
