package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-slueval/infrastructure/jsonl"
	"github.com/ahrav/go-slueval/infrastructure/transform"
	"github.com/ahrav/go-slueval/internal/domain"
	"github.com/ahrav/go-slueval/internal/ports"
)

// SFTRecord is one instruction-tuning example.
type SFTRecord struct {
	Instruction string `json:"instruction"`
	Input       string `json:"input"`
	// Output is the JSON-serialized standard frame list.
	Output string `json:"output"`
}

// ConvertSummary reports what a conversion run did.
type ConvertSummary struct {
	OutputPath string
	Read       int
	Written    int
	Skipped    int
}

// Converter rewrites raw-annotation datasets into SFT records.
type Converter struct {
	config      EvalConfig
	transformer ports.FrameTransformer
	logger      *slog.Logger
	metrics     ports.MetricsCollector
	sinks       []ports.SkipSink
	tracer      trace.Tracer
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithConverterLogger sets the converter's logger.
func WithConverterLogger(l *slog.Logger) ConverterOption {
	return func(c *Converter) { c.logger = l }
}

// WithConverterMetrics sets the converter's metrics collector.
func WithConverterMetrics(m ports.MetricsCollector) ConverterOption {
	return func(c *Converter) { c.metrics = m }
}

// WithConverterSkipSink adds a sink for skip diagnostics.
func WithConverterSkipSink(s ports.SkipSink) ConverterOption {
	return func(c *Converter) { c.sinks = append(c.sinks, s) }
}

// NewConverter validates config and builds a Converter.
func NewConverter(config EvalConfig, opts ...ConverterOption) (*Converter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	t, err := transform.New(config.Transform)
	if err != nil {
		return nil, fmt.Errorf("transformer: %w", err)
	}
	c := &Converter{
		config:      config,
		transformer: t,
		logger:      discardLogger(),
		metrics:     ports.NopMetrics{},
		tracer:      otel.Tracer("slueval-converter"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DefaultOutputPath places the output next to input, named after the
// input stem plus the configured suffix: data/train.jsonl becomes
// data/train_sft_ready.jsonl.
func (c *Converter) DefaultOutputPath(input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(input), stem+c.config.Convert.OutputSuffix+".jsonl")
}

// Run converts inputPath into outputPath. An empty outputPath selects
// DefaultOutputPath.
func (c *Converter) Run(ctx context.Context, inputPath, outputPath string) (ConvertSummary, error) {
	if outputPath == "" {
		outputPath = c.DefaultOutputPath(inputPath)
	}
	in, err := jsonl.Open(inputPath, c.config.Scan.MaxLineBytes)
	if err != nil {
		return ConvertSummary{}, err
	}
	defer in.Close()

	out, err := jsonl.Create(outputPath)
	if err != nil {
		return ConvertSummary{}, err
	}

	summary, err := c.Convert(ctx, in, out)
	summary.OutputPath = outputPath
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return summary, err
	}
	c.logger.Info("conversion finished",
		slog.String("output", outputPath),
		slog.Int("written", summary.Written),
		slog.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// Convert reads annotation records from in and writes SFT records to out.
// A record that fails to decode or transform is skipped with a diagnostic.
func (c *Converter) Convert(ctx context.Context, in *jsonl.Reader, out *jsonl.Writer) (ConvertSummary, error) {
	ctx, span := c.tracer.Start(ctx, "Converter.Convert",
		trace.WithAttributes(
			attribute.String("config.missing_value", string(c.config.Transform.MissingValue)),
		),
	)
	defer span.End()

	start := time.Now()
	sink := FanoutSink(append([]ports.SkipSink{
		LogSink{Logger: c.logger}, MetricsSink{Metrics: c.metrics},
	}, c.sinks...))

	var summary ConvertSummary
	for in.Next() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		line := in.Line()
		summary.Read++
		c.metrics.RecordCounter(ports.MetricRecordsRead, 1, map[string]string{"source": SourceAnnotation})

		rec, err := c.convertLine(line.Data)
		if err != nil {
			summary.Skipped++
			sink.Skip(domain.NewRecordError(SourceAnnotation, line.Number, err).Skip())
			continue
		}
		if err := out.Write(rec); err != nil {
			span.RecordError(err)
			return summary, err
		}
		summary.Written++
		c.metrics.RecordCounter(ports.MetricRecordsConverted, 1, nil)
	}
	if err := in.Err(); err != nil {
		span.RecordError(err)
		return summary, err
	}

	c.metrics.RecordLatency("convert", time.Since(start), nil)
	span.SetAttributes(
		attribute.Int("convert.read", summary.Read),
		attribute.Int("convert.written", summary.Written),
		attribute.Int("convert.skipped", summary.Skipped),
	)
	return summary, nil
}

func (c *Converter) convertLine(data []byte) (SFTRecord, error) {
	if !gjson.ValidBytes(data) {
		return SFTRecord{}, domain.ErrInvalidJSON
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return SFTRecord{}, fmt.Errorf("%w: record is not an object", domain.ErrInvalidJSON)
	}

	var query, semantics gjson.Result
	doc.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "query":
			query = value
		case "semantics":
			semantics = value
		}
		return true
	})

	frames, err := c.transformer.Transform(domain.ParseAnnotation(semantics))
	if err != nil {
		return SFTRecord{}, err
	}
	return SFTRecord{
		Instruction: strings.TrimSpace(c.config.Convert.Instruction),
		Input:       domain.Stringify(query),
		Output:      marshalFrames(frames),
	}, nil
}

// marshalFrames renders frames the way the training prompts show them:
// ", " between items, ": " after keys, and non-ASCII text written
// literally.
func marshalFrames(frames []domain.SemanticFrame) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range frames {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`{"domain": `)
		writeQuoted(&b, f.Domain)
		b.WriteString(`, "intent": `)
		writeQuoted(&b, f.Intent)
		b.WriteString(`, "slots": `)
		if !f.HasSlotMapping() {
			b.Write(f.Opaque)
		} else {
			b.WriteByte('{')
			n := 0
			f.Slots.Range(func(name, value string) bool {
				if n > 0 {
					b.WriteString(", ")
				}
				writeQuoted(&b, name)
				b.WriteString(": ")
				writeQuoted(&b, value)
				n++
				return true
			})
			b.WriteByte('}')
		}
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.String()
}

// writeQuoted writes s as a JSON string, escaping only quotes,
// backslashes and control characters.
func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
