package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/defrag/internal/cli/output"
	"github.com/marmos91/defrag/internal/logger"
	"github.com/marmos91/defrag/internal/telemetry"
	"github.com/marmos91/defrag/pkg/config"
	"github.com/marmos91/defrag/pkg/metrics"
)

// shutdownTimeout bounds the final span flush towards the collector.
const shutdownTimeout = 5 * time.Second

// Session holds everything a compaction command needs for one invocation:
// configuration, logger, tracer, metrics and the result printer.
type Session struct {
	Config  *config.Config
	Printer *output.Printer
	Metrics metrics.CompactionMetrics
	RunID   string

	ctx      context.Context
	span     trace.Span
	shutdown func(context.Context) error
}

// Start loads configuration and brings up logging, tracing and metrics for
// a command reading the given input. Close must be called once the command
// is done, even if it failed.
func Start(cmd *cobra.Command, input string) (*Session, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := InitLogger(cfg); err != nil {
		return nil, err
	}

	printer, err := NewPrinter(cmd.OutOrStdout(), cfg)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    telemetry.ServiceName,
		ServiceVersion: cmd.Root().Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	} else {
		metrics.Reset()
	}

	runID := uuid.NewString()
	ctx, span := telemetry.StartSpan(ctx, "defrag."+cmd.Name(),
		telemetry.RunID(runID),
		telemetry.Input(input),
	)
	lc := logger.NewLogContext(runID, input).WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
	ctx = logger.WithContext(ctx, lc)

	logger.DebugCtx(ctx, "session started", "command", cmd.CommandPath(), "metrics", cfg.Metrics.Enabled)

	return &Session{
		Config:   cfg,
		Printer:  printer,
		Metrics:  metrics.NewCompactionMetrics(),
		RunID:    runID,
		ctx:      ctx,
		span:     span,
		shutdown: shutdown,
	}, nil
}

// Context returns the run-scoped context carrying the log context and the
// command span.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close ends the command span, writes the metrics textfile if enabled and
// flushes pending spans.
func (s *Session) Close() error {
	s.span.End()

	var errs []error
	if s.Config.Metrics.Enabled {
		if err := metrics.WriteTextfile(s.Config.Metrics.Textfile); err != nil {
			errs = append(errs, err)
		} else {
			logger.DebugCtx(s.ctx, "metrics written", "path", s.Config.Metrics.Textfile)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to flush traces: %w", err))
	}

	if err := logger.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
