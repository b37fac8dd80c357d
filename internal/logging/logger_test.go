package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"uppercase", "DEBUG", slog.LevelDebug},
		{"unknown defaults to info", "loud", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level      string
		logAtDebug bool
		logAtTrace bool
	}{
		{"info", false, false},
		{"debug", true, false},
		{"trace", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			logger.Debug("debug message")
			if got := strings.Contains(buf.String(), "debug message"); got != tt.logAtDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.logAtDebug)
			}
			buf.Reset()

			logger.Log(context.Background(), LevelTrace, "trace message")
			out := buf.String()
			if got := strings.Contains(out, "trace message"); got != tt.logAtTrace {
				t.Errorf("trace logged = %v, want %v", got, tt.logAtTrace)
			}
			if tt.logAtTrace && !strings.Contains(out, "level=TRACE") {
				t.Errorf("trace level not labelled: %q", out)
			}
		})
	}
}

func TestEventLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.jsonl")
	l, err := OpenEventLog(path)
	if err != nil {
		t.Fatalf("OpenEventLog: %v", err)
	}
	l.Log(map[string]any{"type": "Spawn", "t": 0})
	l.Log(map[string]any{"type": "End", "t": 3})
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	l.Log(map[string]any{"after": "close"})

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var types []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		types = append(types, m["type"].(string))
	}
	if strings.Join(types, ",") != "Spawn,End" {
		t.Errorf("logged types = %v", types)
	}
}

func TestEventLog_NilSafe(t *testing.T) {
	l, err := OpenEventLog("")
	if err != nil || l != nil {
		t.Fatalf("OpenEventLog(\"\") = %v, %v", l, err)
	}
	l.Log("ignored")
	if err := l.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}
