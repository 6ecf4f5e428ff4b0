package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := build(&Options{LogLevel: "warn", LogFormat: "JSON"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "id", 1)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if line["msg"] != "shown" || line["level"] != "WARN" || line["id"] != float64(1) {
		t.Fatalf("line = %v", line)
	}
}

func TestNew_Fallbacks(t *testing.T) {
	var buf bytes.Buffer
	options := &Options{LogLevel: "loud", LogFormat: "xml"}
	build(options, &buf)

	if options.LogLevel != "" || options.LogFormat != "text" {
		t.Fatalf("options = %+v, want level and format reset", options)
	}
	out := buf.String()
	if !strings.Contains(out, "could not parse logger level") || !strings.Contains(out, "could not parse logger format") {
		t.Fatalf("output = %q, want both warnings", out)
	}
}

func TestNew_File(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "contacts.log")
	build(&Options{LogFile: path, LogFormat: "text"}, &buf).Info("to file")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "to file") || buf.Len() != 0 {
		t.Fatalf("file = %q, stdout = %q", b, buf.String())
	}

	options := &Options{LogFile: filepath.Join(t.TempDir(), "missing", "x.log"), LogFormat: "text"}
	build(options, &buf)
	if options.LogFile != "" || !strings.Contains(buf.String(), "could not open logger file") {
		t.Fatalf("options = %+v, stdout = %q", options, buf.String())
	}
}

func TestNew_Outputs(t *testing.T) {
	var buf bytes.Buffer
	build(&Options{LogFile: "-", LogFormat: "text"}, &buf).Info("dash")
	if !strings.Contains(buf.String(), "msg=dash") {
		t.Fatalf("stdout = %q, want the dash line", buf.String())
	}

	buf.Reset()
	logger := build(&Options{LogFile: os.DevNull, LogFormat: "text"}, &buf)
	logger.Error("dropped")
	if buf.Len() != 0 || logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatalf("stdout = %q, want a discarding logger", buf.String())
	}
}
