package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/check/domain"
	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/infrastructure/logger"
)

func newTestWriter(t *testing.T, path string, ts int64) *NagiosCommandWriter {
	t.Helper()
	w := NewNagiosCommandWriter(logger.DefaultLogger(), path)
	w.now = func() time.Time { return time.Unix(ts, 0) }
	return w
}

func TestWriteServiceCheckFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nagios.cmd")
	w := newTestWriter(t, path, 1700000000)

	err := w.WriteServiceCheck(domain.ServiceCheck{
		HostName:           "web01",
		ServiceDescription: "HTTP",
		ReturnCode:         0,
		PluginOutput:       "OK",
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read command file: %v", err)
	}
	want := "[1700000000] PROCESS_SERVICE_CHECK_RESULT;web01;HTTP;0;OK\n"
	if string(data) != want {
		t.Errorf("wrong command line:\n got: %q\nwant: %q", string(data), want)
	}
}

func TestWriteHostCheckFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nagios.cmd")
	w := newTestWriter(t, path, 1700000000)

	err := w.WriteHostCheck(domain.HostCheck{
		HostName:     "web01",
		HostStatus:   1,
		PluginOutput: "CRITICAL - host unreachable",
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read command file: %v", err)
	}
	want := "[1700000000] PROCESS_HOST_CHECK_RESULT;web01;1;CRITICAL - host unreachable\n"
	if string(data) != want {
		t.Errorf("wrong command line:\n got: %q\nwant: %q", string(data), want)
	}
}

func TestWriteAppendsOneLinePerCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nagios.cmd")
	w := newTestWriter(t, path, 1700000000)

	check := domain.ServiceCheck{
		HostName:           "web01",
		ServiceDescription: "HTTP",
		ReturnCode:         2,
		PluginOutput:       "CRITICAL - connection refused",
	}
	for i := 0; i < 3; i++ {
		if err := w.WriteServiceCheck(check); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read command file: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), string(data))
	}
	for i, line := range lines {
		if strings.Count(line, "\n") != 0 {
			t.Errorf("line %d contains embedded newline: %q", i, line)
		}
		if !strings.HasSuffix(line, "CRITICAL - connection refused") {
			t.Errorf("line %d malformed: %q", i, line)
		}
	}
}

func TestRoundTripFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nagios.cmd")
	w := newTestWriter(t, path, 1700000000)

	check := domain.ServiceCheck{
		HostName:           "db02",
		ServiceDescription: "MySQL Replication",
		ReturnCode:         3,
		PluginOutput:       "UNKNOWN: lag=? seconds",
	}
	if err := w.WriteServiceCheck(check); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read command file: %v", err)
	}
	line := strings.TrimSuffix(string(data), "\n")
	parts := strings.SplitN(line, ";", 5)
	if len(parts) != 5 {
		t.Fatalf("expected 5 semicolon-separated fields, got %d: %q", len(parts), line)
	}
	if parts[1] != check.HostName || parts[2] != check.ServiceDescription {
		t.Errorf("identifier fields do not round-trip: %q", line)
	}
	if parts[3] != fmt.Sprintf("%d", check.ReturnCode) {
		t.Errorf("return code does not round-trip: %q", parts[3])
	}
	if parts[4] != check.PluginOutput {
		t.Errorf("plugin output does not round-trip: %q", parts[4])
	}
}

func TestIsWritable(t *testing.T) {
	t.Run("missing parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "nagios.cmd")
		w := NewNagiosCommandWriter(logger.DefaultLogger(), path)
		if w.IsWritable() {
			t.Error("expected not writable when parent directory is missing")
		}
	})

	t.Run("file absent but parent writable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nagios.cmd")
		w := NewNagiosCommandWriter(logger.DefaultLogger(), path)
		if !w.IsWritable() {
			t.Error("expected writable when parent directory is writable")
		}
	})

	t.Run("existing writable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nagios.cmd")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatal(err)
		}
		w := NewNagiosCommandWriter(logger.DefaultLogger(), path)
		if !w.IsWritable() {
			t.Error("expected writable for writable file")
		}
	})

	t.Run("existing read-only file", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("root bypasses permission checks")
		}
		path := filepath.Join(t.TempDir(), "nagios.cmd")
		if err := os.WriteFile(path, nil, 0400); err != nil {
			t.Fatal(err)
		}
		w := NewNagiosCommandWriter(logger.DefaultLogger(), path)
		if w.IsWritable() {
			t.Error("expected not writable for read-only file")
		}
	})
}

func TestWriteFailsWhenParentMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "nagios.cmd")
	w := newTestWriter(t, path, 1700000000)

	err := w.WriteServiceCheck(domain.ServiceCheck{
		HostName:           "web01",
		ServiceDescription: "HTTP",
		ReturnCode:         0,
		PluginOutput:       "OK",
	})
	if err == nil {
		t.Fatal("expected write into missing directory to fail")
	}
}
