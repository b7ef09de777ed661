package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevelFallback(t *testing.T) {
	if got := New("debug", "text").GetLevel(); got != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}
	if got := New("loud", "text").GetLevel(); got != logrus.InfoLevel {
		t.Errorf("level = %v, want info fallback", got)
	}
}

func TestNewFormat(t *testing.T) {
	if _, ok := New("info", "JSON").Formatter.(*logrus.JSONFormatter); !ok {
		t.Error("expected JSON formatter")
	}
	if _, ok := New("info", "").Formatter.(*logrus.TextFormatter); !ok {
		t.Error("expected text formatter")
	}
}
