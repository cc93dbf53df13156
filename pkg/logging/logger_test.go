package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLevel(t *testing.T) {
	keys := []string{EnvStubLogLevel, EnvLogLevel}

	t.Run("explicit value wins", func(t *testing.T) {
		t.Setenv(EnvStubLogLevel, "trace")
		t.Setenv(EnvLogLevel, "error")

		level, source := ResolveLevel("debug", keys, "warn")
		if level != "debug" || source != "flag" {
			t.Errorf("ResolveLevel = (%q, %q), want (\"debug\", \"flag\")", level, source)
		}
	})

	t.Run("first environment key wins", func(t *testing.T) {
		t.Setenv(EnvStubLogLevel, "trace")
		t.Setenv(EnvLogLevel, "error")

		level, source := ResolveLevel("", keys, "warn")
		if level != "trace" || source != EnvStubLogLevel {
			t.Errorf("ResolveLevel = (%q, %q), want (\"trace\", %q)", level, source, EnvStubLogLevel)
		}
	})

	t.Run("later keys fill in", func(t *testing.T) {
		t.Setenv(EnvStubLogLevel, "")
		t.Setenv(EnvLogLevel, "error")

		level, source := ResolveLevel("", keys, "warn")
		if level != "error" || source != EnvLogLevel {
			t.Errorf("ResolveLevel = (%q, %q), want (\"error\", %q)", level, source, EnvLogLevel)
		}
	})

	t.Run("fallback when nothing is set", func(t *testing.T) {
		t.Setenv(EnvStubLogLevel, "")
		t.Setenv(EnvLogLevel, "")

		level, source := ResolveLevel("", keys, "warn")
		if level != "warn" || source != "default" {
			t.Errorf("ResolveLevel = (%q, %q), want (\"warn\", \"default\")", level, source)
		}
	})
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{level: "debug", wantDebug: true, wantInfo: true},
		{level: "info", wantDebug: false, wantInfo: true},
		{level: "warn", wantDebug: false, wantInfo: false},
		{level: "json", wantDebug: false, wantInfo: true},
		{level: "json:debug", wantDebug: true, wantInfo: true},
		{level: "json:warn", wantDebug: false, wantInfo: false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger("test", tt.level)
			if got := logger.IsDebug(); got != tt.wantDebug {
				t.Errorf("IsDebug() = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.IsInfo(); got != tt.wantInfo {
				t.Errorf("IsInfo() = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestNewLoggerFileRedirect(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "respack.log")
	t.Setenv(EnvLogPath, logFile)

	logger := NewLogger("redirect-test", "info")
	logger.Info("landed in the file")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "landed in the file") {
		t.Errorf("log file does not contain the message: %q", out)
	}
	if !strings.HasPrefix(out, logPrefix()) {
		t.Errorf("log line is not prefixed: %q", out)
	}
}

func TestNewLoggerJSONOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "respack.json.log")
	t.Setenv(EnvLogPath, logFile)

	logger := NewLogger("json-test", "json:info")
	logger.Info("structured message", "key", "value")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	out := strings.TrimSpace(string(data))
	if !strings.HasPrefix(out, "{") {
		t.Fatalf("JSON output does not start with '{': %q", out)
	}
	if !strings.Contains(out, `"structured message"`) {
		t.Errorf("JSON output lacks the message: %q", out)
	}
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("JSON output lacks the field: %q", out)
	}
}

func TestNewLoggerIsNamed(t *testing.T) {
	logger := NewLogger("builder", "info")
	if logger.Name() != "builder" {
		t.Errorf("Name() = %q, want \"builder\"", logger.Name())
	}
}
