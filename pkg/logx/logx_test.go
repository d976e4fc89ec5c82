package logx

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReplaceRoutesHelpers(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	previous := L()
	Replace(zap.New(core))
	defer Replace(previous)

	Infof("loaded %d records", 3)
	Warn("storage slow")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Message != "loaded 3 records" {
		t.Errorf("message = %q", entries[0].Message)
	}
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	previous := L()
	Replace(zap.New(core))
	defer Replace(previous)

	With("path", "/jobs", "code", "JOB.NOT_FOUND").Error("request failed")

	entries := logs.FilterField(zap.String("path", "/jobs")).All()
	if len(entries) != 1 || entries[0].ContextMap()["code"] != "JOB.NOT_FOUND" {
		t.Errorf("entries = %+v", logs.All())
	}
}
