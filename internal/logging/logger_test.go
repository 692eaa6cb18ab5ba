package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, verbose bool, format string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger, err := NewWithOptions(Options{Verbose: verbose, Format: format, Output: buf})
	if err != nil {
		t.Fatalf("NewWithOptions() error = %v", err)
	}
	return logger, buf
}

func TestNew(t *testing.T) {
	t.Run("logger with verbose=false", func(t *testing.T) {
		logger := New(false)
		if logger == nil {
			t.Fatal("New() returned nil")
		}
		if logger.level != LevelInfo {
			t.Errorf("level = %v, want LevelInfo", logger.level)
		}
		if logger.file != nil {
			t.Error("file should be nil for logger without file")
		}
	})

	t.Run("logger with verbose=true", func(t *testing.T) {
		logger := New(true)
		if logger.level != LevelDebug {
			t.Errorf("level = %v, want LevelDebug", logger.level)
		}
	})
}

func TestNewWithFile(t *testing.T) {
	t.Run("creates logger with file", func(t *testing.T) {
		logPath := t.TempDir() + "/test.log"

		logger, err := NewWithFile(logPath, false)
		if err != nil {
			t.Fatalf("NewWithFile() error = %v", err)
		}
		if logger.file == nil {
			t.Fatal("file should not be nil")
		}

		logger.Info("written to %s", "file")
		if err := logger.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		data, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if !strings.Contains(string(data), "written to file") {
			t.Errorf("log file = %q, want message", string(data))
		}
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		_, err := NewWithFile("/nonexistent/dir/test.log", false)
		if err == nil {
			t.Error("expected error for invalid path")
		}
	})
}

func TestLogger_Close(t *testing.T) {
	logger := New(false)
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Run("debug hidden when not verbose", func(t *testing.T) {
		logger, buf := newBufferLogger(t, false, FormatText)
		logger.Debug("debug message")
		logger.Info("info message")

		out := buf.String()
		if strings.Contains(out, "debug message") {
			t.Errorf("output contains debug message: %q", out)
		}
		if !strings.Contains(out, "info message") {
			t.Errorf("output missing info message: %q", out)
		}
	})

	t.Run("debug shown when verbose", func(t *testing.T) {
		logger, buf := newBufferLogger(t, true, FormatText)
		logger.Debug("debug %d", 42)
		if !strings.Contains(buf.String(), "debug 42") {
			t.Errorf("output missing debug message: %q", buf.String())
		}
	})

	t.Run("error level hides info and warn", func(t *testing.T) {
		logger, buf := newBufferLogger(t, false, FormatText)
		logger.SetLevel(LevelError)
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		out := buf.String()
		if strings.Contains(out, "info message") || strings.Contains(out, "warn message") {
			t.Errorf("output contains filtered messages: %q", out)
		}
		if !strings.Contains(out, "error message") {
			t.Errorf("output missing error message: %q", out)
		}
	})
}

func TestLogger_JSONFormat(t *testing.T) {
	logger, buf := newBufferLogger(t, false, FormatJSON)
	logger.WithPrefix("importer").WithEntity("departments").Warn("row %d skipped", 3)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, output = %q", err, buf.String())
	}
	if entry["msg"] != "row 3 skipped" {
		t.Errorf("msg = %v, want %q", entry["msg"], "row 3 skipped")
	}
	if entry["level"] != "warning" {
		t.Errorf("level = %v, want warning", entry["level"])
	}
	if entry["component"] != "importer" {
		t.Errorf("component = %v, want importer", entry["component"])
	}
	if entry["entity"] != "departments" {
		t.Errorf("entity = %v, want departments", entry["entity"])
	}
}

func TestLogger_SetPrefix(t *testing.T) {
	logger, buf := newBufferLogger(t, false, FormatText)
	logger.SetPrefix("test")
	logger.Info("hello")

	if logger.prefix != "test" {
		t.Errorf("prefix = %q, want %q", logger.prefix, "test")
	}
	if !strings.Contains(buf.String(), "component=test") {
		t.Errorf("output = %q, want component field", buf.String())
	}
}

func TestLogger_WithPrefix(t *testing.T) {
	parent := New(false)
	child := parent.WithPrefix("parser")

	if child.prefix != "parser" {
		t.Errorf("prefix = %q, want %q", child.prefix, "parser")
	}
	if parent.prefix != "" {
		t.Errorf("parent prefix = %q, want empty", parent.prefix)
	}
	if child.level != parent.level {
		t.Errorf("child level = %v, parent level = %v", child.level, parent.level)
	}
}

func TestLogger_ChildInheritsLevel(t *testing.T) {
	parent := New(true)
	grandchild := parent.WithPrefix("child").WithField("row", 1)

	if grandchild.level != LevelDebug {
		t.Errorf("grandchild level = %v, want LevelDebug", grandchild.level)
	}
	if grandchild.prefix != "child" {
		t.Errorf("grandchild prefix = %q, want child", grandchild.prefix)
	}
}

func TestLogger_StdLogger(t *testing.T) {
	logger, buf := newBufferLogger(t, false, FormatText)
	logger.StdLogger().Print("plain")

	if !strings.Contains(buf.String(), "plain") {
		t.Errorf("StdLogger output = %q", buf.String())
	}
}

func TestLogger_ConcurrentLogging(t *testing.T) {
	logger, buf := newBufferLogger(t, true, FormatText)

	done := make(chan struct{})
	for g := 0; g < 2; g++ {
		go func(g int) {
			for i := 0; i < 10; i++ {
				logger.Info("goroutine %d: %d", g, i)
			}
			done <- struct{}{}
		}(g)
	}
	<-done
	<-done

	if n := strings.Count(buf.String(), "goroutine"); n != 20 {
		t.Errorf("logged %d lines, want 20", n)
	}
}

func TestLevel_Constants(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		value int
	}{
		{"LevelInfo", LevelInfo, 0},
		{"LevelError", LevelError, 1},
		{"LevelDebug", LevelDebug, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if int(tt.level) != tt.value {
				t.Errorf("%s = %d, want %d", tt.name, int(tt.level), tt.value)
			}
		})
	}
}
