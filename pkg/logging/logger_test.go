package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestNew(t *testing.T) {
	logger, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger == nil {
		t.Fatal("Expected a logger")
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	config := DefaultConfig()
	config.Format = "xml"

	if _, err := New(config); err == nil {
		t.Fatal("Expected an error for an unknown encoding")
	}
}

func TestNamedAndWith(t *testing.T) {
	logger := NewNop()

	if child := logger.Named("child"); child == nil {
		t.Fatal("Expected a named child logger")
	}
	if child := logger.With(); child == nil {
		t.Fatal("Expected a child logger")
	}
}
