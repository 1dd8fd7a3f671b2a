// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var buf bytes.Buffer

func TestMain(m *testing.M) {
	// Own the once-guarded Configure for the whole package test binary.
	Configure(Config{Level: "debug", Output: &buf, Service: "test", JSON: true})
	os.Exit(m.Run())
}

func TestBaseEmitsServiceAndMessage(t *testing.T) {
	buf.Reset()
	logger := Base()
	logger.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"service":"test"`) {
		t.Errorf("expected service field, got %q", out)
	}
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message field, got %q", out)
	}
	if !strings.Contains(out, `"caller":`) {
		t.Errorf("expected caller field, got %q", out)
	}
}

func TestConfigureIsOnce(t *testing.T) {
	var other bytes.Buffer
	Configure(Config{Output: &other})

	buf.Reset()
	logger := Base()
	logger.Info().Msg("still here")
	if other.Len() != 0 {
		t.Error("second Configure must not take effect")
	}
	if !strings.Contains(buf.String(), "still here") {
		t.Error("original output writer was replaced")
	}
}

func TestWithComponent(t *testing.T) {
	buf.Reset()
	logger := WithComponent("config")
	logger.Info().Msg("annotated")

	if !strings.Contains(buf.String(), `"component":"config"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}

func TestDerive(t *testing.T) {
	buf.Reset()
	logger := Derive(func(ctx *zerolog.Context) {
		*ctx = ctx.Str("job", "42")
	})
	logger.Info().Msg("derived")

	if !strings.Contains(buf.String(), `"job":"42"`) {
		t.Errorf("expected derived field, got %q", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	defer func() {
		if err := SetLevel("debug"); err != nil {
			t.Fatalf("restore level: %v", err)
		}
	}()

	buf.Reset()
	logger := Base()
	logger.Info().Msg("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info should be suppressed at warn level, got %q", buf.String())
	}

	logger.Warn().Msg("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Error("warn should pass at warn level")
	}
}

func TestSetLevelRejectsGarbage(t *testing.T) {
	if err := SetLevel("shouting"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestAddFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vrachos.log")
	if err := AddFile(path); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	logger := Base()
	logger.Info().Msg("persisted")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"persisted"`) {
		t.Errorf("expected JSON line in log file, got %q", data)
	}
}

func TestAddFileKeepsDebugWhenConsoleFiltered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vrachos.log")
	if err := AddFile(path); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	if err := SetLevel("info"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	defer func() {
		if err := SetLevel("debug"); err != nil {
			t.Fatalf("restore level: %v", err)
		}
	}()

	buf.Reset()
	logger := Base()
	logger.Debug().Msg("file only")

	if strings.Contains(buf.String(), "file only") {
		t.Errorf("console must filter debug at info level, got %q", buf.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"file only"`) {
		t.Errorf("file sink must receive the debug stream, got %q", data)
	}

	// The console still sees its own threshold.
	logger.Info().Msg("both")
	if !strings.Contains(buf.String(), "both") {
		t.Error("info should pass the console threshold")
	}
}

func TestAddFileUnwritableParent(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := AddFile(filepath.Join(blocker, "sub", "vrachos.log")); err == nil {
		t.Error("expected error when parent path is a file")
	}
}

func TestRelTimestamp(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		want    string
	}{
		{1500 * time.Millisecond, "   1.5000s"},
		{12*time.Second + 345600*time.Microsecond, "  12.3456s"},
		{0, "   0.0000s"},
	}
	for _, tc := range cases {
		if got := relTimestamp(tc.elapsed); got != tc.want {
			t.Errorf("relTimestamp(%v) = %q, want %q", tc.elapsed, got, tc.want)
		}
	}
}
