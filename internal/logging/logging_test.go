package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want logrus.Level
	}{
		{raw: "debug", want: logrus.DebugLevel},
		{raw: "INFO", want: logrus.InfoLevel},
		{raw: "", want: logrus.InfoLevel},
		{raw: "warn", want: logrus.WarnLevel},
		{raw: "warning", want: logrus.WarnLevel},
		{raw: " error ", want: logrus.ErrorLevel},
		{raw: "fatal", want: logrus.FatalLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.raw)
		if err != nil {
			t.Fatalf("ParseLevel(%q) unexpected error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	if _, err := ParseLevel("trace"); err == nil {
		t.Fatal("expected trace to be rejected")
	}
}

func TestNewWritesStructuredFields(t *testing.T) {
	var out bytes.Buffer
	logger, err := New("warn", &out)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	logger.Info("hidden")
	logger.WithField("user_id", 7).Error("append dose event")

	text := out.String()
	if strings.Contains(text, "hidden") {
		t.Fatalf("expected info to be filtered at warn level, got %q", text)
	}
	if !strings.Contains(text, "append dose event") || !strings.Contains(text, "user_id=7") {
		t.Fatalf("expected error line with user_id field, got %q", text)
	}

	if _, err := New("loud", &out); err == nil {
		t.Fatal("expected bad level to fail")
	}
}

func TestGormWriter(t *testing.T) {
	var out bytes.Buffer
	logger, err := New("info", &out)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	GormWriter{Logger: logger}.Printf("\nslow sql %s", "SELECT 1")
	if !strings.Contains(out.String(), "component=gorm") || !strings.Contains(out.String(), "slow sql SELECT 1") {
		t.Fatalf("expected gorm line, got %q", out.String())
	}
}
