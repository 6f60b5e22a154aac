package interpreter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connector-selector/internal/pkg/logger"
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/llm"
	"connector-selector/pkg/requirement"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 10 * time.Second

var tracer = otel.Tracer("connector-selector/interpreter")

// LLM interprets replies with a language model. Height questions bypass the
// model and use the deterministic space parser.
type LLM struct {
	provider llm.LLMProvider
	timeout  time.Duration
	log      logger.ILogger
}

var _ Interpreter = (*LLM)(nil)

func NewLLM(provider llm.LLMProvider, timeout time.Duration, log logger.ILogger) *LLM {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LLM{provider: provider, timeout: timeout, log: log}
}

func (l *LLM) Interpret(ctx context.Context, text string, q catalog.Question, failures int) (Interpretation, error) {
	if q.Attribute == requirement.HeightRequirement {
		return ParseSpace(text), nil
	}

	ctx, span := tracer.Start(ctx, "interpreter.Interpret", trace.WithAttributes(
		attribute.String("interpreter.attribute", string(q.Attribute)),
		attribute.Int("interpreter.failures", failures),
	))
	defer span.End()

	response, err := l.generate(ctx, span, buildAnswerPrompt(text, q))
	if err != nil {
		return Interpretation{}, err
	}

	interp, err := decodeAnswer(response)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return Interpretation{}, err
	}

	span.SetAttributes(
		attribute.String("interpreter.value", interp.Value.String()),
		attribute.Float64("interpreter.confidence", interp.Confidence),
	)
	l.log.Debug(module, "Interpreted reply", map[string]interface{}{
		"attribute":  q.Attribute,
		"value":      interp.Value.String(),
		"confidence": interp.Confidence,
	})
	return interp, nil
}

func (l *LLM) InterpretBulk(ctx context.Context, text string, failures int) (Bulk, error) {
	ctx, span := tracer.Start(ctx, "interpreter.InterpretBulk", trace.WithAttributes(
		attribute.Int("interpreter.failures", failures),
	))
	defer span.End()

	response, err := l.generate(ctx, span, buildBulkPrompt(text))
	if err != nil {
		return Bulk{}, err
	}

	bulk, skipped, err := decodeBulk(response)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return Bulk{}, err
	}
	if len(skipped) > 0 {
		l.log.Warn(module, "Skipped bulk entries", map[string]interface{}{"entries": skipped})
	}

	// A height mentioned in the opening message is re-read deterministically.
	if _, ok := bulk.Attributes[requirement.HeightRequirement]; ok {
		if space := ParseSpace(text); !space.Value.IsUnknown() {
			bulk.Attributes[requirement.HeightRequirement] = space
		}
	}

	span.SetAttributes(attribute.Int("interpreter.attributes", len(bulk.Attributes)))
	return bulk, nil
}

func (l *LLM) generate(ctx context.Context, span trace.Span, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	response, err := l.provider.Generate(ctx, prompt, llm.WithTemperature(0.0), llm.WithJSON())
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			span.SetStatus(codes.Error, "timeout")
			return "", fmt.Errorf("%w after %s", ErrInterpreterTimeout, l.timeout)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
		return "", fmt.Errorf("generate: %w", err)
	}
	return response, nil
}
