package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Level(t *testing.T) {
	l, err := New("warn", "json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
}

func TestNew_BadLevelDefaultsToInfo(t *testing.T) {
	l, err := New("loud", "console")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) || !l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("unknown level should fall back to info")
	}
}

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).With(map[string]interface{}{"request_id": "r1"})

	log.Warn("Store failed, continuing", map[string]interface{}{
		"sink":  "vector",
		"error": errors.New("connection refused"),
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["request_id"] != "r1" || ctx["sink"] != "vector" {
		t.Errorf("context = %v", ctx)
	}
	if ctx["error"] != "connection refused" {
		t.Errorf("error field = %v", ctx["error"])
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("level = %v", entries[0].Level)
	}
}

func TestNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	log.Info("ignored", map[string]interface{}{"k": 1})
	log.With(nil).Error("ignored", nil)
}
