package application

import (
	"context"
	"log/slog"

	"github.com/ahrav/go-slueval/internal/domain"
	"github.com/ahrav/go-slueval/internal/ports"
)

// LogSink writes each skip diagnostic as a warning.
type LogSink struct {
	Logger *slog.Logger
}

// Skip implements ports.SkipSink.
func (s LogSink) Skip(skip domain.Skip) {
	s.Logger.LogAttrs(context.Background(), slog.LevelWarn, "record skipped",
		slog.String("source", skip.Source),
		slog.Int("line", skip.Line),
		slog.String("reason", string(skip.Reason)),
		slog.Any("error", skip.Err),
	)
}

// CollectSink keeps every skip in memory, in arrival order.
type CollectSink struct {
	Skips []domain.Skip
}

// Skip implements ports.SkipSink.
func (s *CollectSink) Skip(skip domain.Skip) { s.Skips = append(s.Skips, skip) }

// MetricsSink counts skips per source and reason.
type MetricsSink struct {
	Metrics ports.MetricsCollector
}

// Skip implements ports.SkipSink.
func (s MetricsSink) Skip(skip domain.Skip) {
	s.Metrics.RecordCounter(ports.MetricRecordsSkipped, 1, map[string]string{
		"source": skip.Source,
		"reason": string(skip.Reason),
	})
}

// FanoutSink forwards every skip to each sink in order.
type FanoutSink []ports.SkipSink

// Skip implements ports.SkipSink.
func (f FanoutSink) Skip(skip domain.Skip) {
	for _, s := range f {
		s.Skip(skip)
	}
}

var (
	_ ports.SkipSink = LogSink{}
	_ ports.SkipSink = (*CollectSink)(nil)
	_ ports.SkipSink = MetricsSink{}
	_ ports.SkipSink = FanoutSink(nil)
)
