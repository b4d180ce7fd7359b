// Package infrastructure implements the Nagios external command file
// writer behind the domain CommandWriter port.
package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/check/domain"
	sharedlogger "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/shared/logger"
)

// NagiosCommandWriter appends passive check results to the Nagios external
// command file. Each write opens the file in append mode, writes one full
// command line, syncs it to stable storage and closes the handle again.
// Holding no handle between writes trades a little open/close overhead for
// never leaking a descriptor; call volume is bounded by check cadence.
type NagiosCommandWriter struct {
	path   string
	logger sharedlogger.Logger

	// now is swapped out in tests to pin the command timestamp.
	now func() time.Time
}

var _ domain.CommandWriter = (*NagiosCommandWriter)(nil)

func NewNagiosCommandWriter(logger sharedlogger.Logger, path string) *NagiosCommandWriter {
	logger.Info("Initialized Nagios command writer", "path", path)
	return &NagiosCommandWriter{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Path reports the configured command file location.
func (w *NagiosCommandWriter) Path() string {
	return w.path
}

// IsWritable checks whether an append to the command file can be expected
// to succeed: the parent directory must exist, and either the file itself
// or, if it does not exist yet, the parent directory must grant write
// permission. The check races against the write that follows it; that
// TOCTOU window is accepted.
func (w *NagiosCommandWriter) IsWritable() bool {
	parent := filepath.Dir(w.path)
	if info, err := os.Stat(parent); err != nil || !info.IsDir() {
		w.logger.Warn("Parent directory does not exist", "dir", parent)
		return false
	}

	if _, err := os.Stat(w.path); err == nil {
		return unix.Access(w.path, unix.W_OK) == nil
	}
	return unix.Access(parent, unix.W_OK) == nil
}

// WriteServiceCheck appends one PROCESS_SERVICE_CHECK_RESULT command line.
func (w *NagiosCommandWriter) WriteServiceCheck(check domain.ServiceCheck) error {
	command := fmt.Sprintf("[%d] PROCESS_SERVICE_CHECK_RESULT;%s;%s;%d;%s\n",
		w.now().Unix(),
		check.HostName,
		check.ServiceDescription,
		check.ReturnCode,
		check.PluginOutput,
	)
	return w.append(command)
}

// WriteHostCheck appends one PROCESS_HOST_CHECK_RESULT command line.
func (w *NagiosCommandWriter) WriteHostCheck(check domain.HostCheck) error {
	command := fmt.Sprintf("[%d] PROCESS_HOST_CHECK_RESULT;%s;%d;%s\n",
		w.now().Unix(),
		check.HostName,
		check.HostStatus,
		check.PluginOutput,
	)
	return w.append(command)
}

// append writes the command as a single write followed by a durability
// sync. Any failure is reported once to the caller; there are no retries.
func (w *NagiosCommandWriter) append(command string) error {
	w.logger.Debug("Writing command", "path", w.path, "command", command[:len(command)-1])

	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0660)
	if err != nil {
		return fmt.Errorf("failed to open command file %s: %w", w.path, err)
	}

	if _, err := f.WriteString(command); err != nil {
		f.Close()
		return fmt.Errorf("failed to write command: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync command file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close command file: %w", err)
	}

	return nil
}
