package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/check/domain"
	sharedlogger "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/shared/logger"
)

// ErrCommandFileNotWritable signals that the writability pre-check failed
// and no write was attempted.
var ErrCommandFileNotWritable = errors.New("cannot write to Nagios command file")

// CheckService sits between the HTTP handlers and the command writer. It
// gates every submission on the writability pre-check and maps writer
// outcomes for the handler. It holds no per-request state.
type CheckService struct {
	writer domain.CommandWriter
	logger sharedlogger.Logger
}

func NewCheckService(logger sharedlogger.Logger, writer domain.CommandWriter) *CheckService {
	return &CheckService{
		writer: writer,
		logger: logger,
	}
}

// SubmitServiceCheck appends a validated service check to the command file.
func (s *CheckService) SubmitServiceCheck(ctx context.Context, check domain.ServiceCheck) error {
	if !s.writer.IsWritable() {
		s.logger.Error("Cannot write to Nagios command file", "path", s.writer.Path())
		return ErrCommandFileNotWritable
	}
	if err := s.writer.WriteServiceCheck(check); err != nil {
		return fmt.Errorf("failed to write service check: %w", err)
	}
	return nil
}

// SubmitHostCheck appends a validated host check to the command file.
func (s *CheckService) SubmitHostCheck(ctx context.Context, check domain.HostCheck) error {
	if !s.writer.IsWritable() {
		s.logger.Error("Cannot write to Nagios command file", "path", s.writer.Path())
		return ErrCommandFileNotWritable
	}
	if err := s.writer.WriteHostCheck(check); err != nil {
		return fmt.Errorf("failed to write host check: %w", err)
	}
	return nil
}

// Health reports whether the command file is currently writable.
func (s *CheckService) Health(ctx context.Context) HealthResponse {
	writable := s.writer.IsWritable()
	status := "healthy"
	if !writable {
		status = "degraded"
	}
	return HealthResponse{
		Status:            status,
		NagiosCmdWritable: writable,
		Timestamp:         time.Now().UTC(),
		NagiosCmdPath:     s.writer.Path(),
	}
}
