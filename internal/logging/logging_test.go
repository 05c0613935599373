package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetup_Level(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
		wantErr  bool
	}{
		{"", logrus.InfoLevel, false},
		{"debug", logrus.DebugLevel, false},
		{"WARN", logrus.WarnLevel, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			closer, err := Setup(Options{Level: tt.level})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for invalid level")
				}
				return
			}
			if err != nil {
				t.Fatalf("Setup failed: %v", err)
			}
			defer closer()
			if got := Logger().GetLevel(); got != tt.expected {
				t.Errorf("expected level %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestSetup_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	closer, err := Setup(Options{File: file})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	Info(Fields{"component": "test"}, "written to file")
	if err := closer(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") || !strings.Contains(string(data), "component:test") {
		t.Errorf("unexpected log file content: %q", data)
	}
}

func TestHelpers_RespectLevel(t *testing.T) {
	if _, err := Setup(Options{Level: "warn"}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug(nil, "hidden debug")
	Info(nil, "hidden info")
	Warn(Fields{"k": "v"}, "visible warn")
	Error(nil, "visible error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn were logged: %q", out)
	}
	if !strings.Contains(out, "visible warn") || !strings.Contains(out, "visible error") {
		t.Errorf("expected warn and error messages, got %q", out)
	}
}
