// internal/handlers/committee-match/service.go
package committeematch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"committee-matcher/internal/common/completion"
	apperrors "committee-matcher/internal/common/errors"
	commonhttp "committee-matcher/internal/common/http"
	"committee-matcher/internal/common/logger"
	"committee-matcher/internal/common/metrics"
	"committee-matcher/internal/common/observability"
	"committee-matcher/internal/common/validation"
)

// Completer performs one schema-constrained completion call.
type Completer interface {
	CompleteWithSchema(ctx context.Context, req completion.Request) (string, error)
}

type ServiceDependencies struct {
	Completer     Completer
	Logger        logger.Logger
	Observability *observability.Observability
}

type Service struct {
	config    *Config
	completer Completer
	logger    logger.Logger
	obs       *observability.Observability
	schema    map[string]interface{}
}

func NewService(deps ServiceDependencies, config *Config) (*Service, error) {
	if deps.Completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid committee match config: %w", err)
	}
	if err := validation.CheckStrict(OutputSchema()); err != nil {
		return nil, fmt.Errorf("output schema is not strict: %w", err)
	}

	schema, err := OutputSchema().ToMap()
	if err != nil {
		return nil, err
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	obs := deps.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}

	return &Service{
		config:    config,
		completer: deps.Completer,
		logger:    log,
		obs:       obs,
		schema:    schema,
	}, nil
}

// Execute runs one completion for req and returns the body to relay.
// Failures from the completion call come back as AI_MATCH_FAILED.
func (s *Service) Execute(ctx context.Context, req *MatchRequest) ([]byte, error) {
	input, err := BuildInput(req)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	ctx, span := s.obs.StartSpan(ctx, "committee_match.complete",
		attribute.String("model", s.config.Model),
		attribute.Int("committees", len(req.Committees)),
	)
	defer span.End()

	start := time.Now()
	text, err := s.completer.CompleteWithSchema(ctx, completion.Request{
		Instructions: Instructions,
		Input:        input,
		SchemaName:   s.config.SchemaName,
		Schema:       s.schema,
		Temperature:  s.config.Temperature,
	})
	elapsed := time.Since(start)

	if err != nil {
		detail := completion.ErrorMessage(err)
		metrics.CompletionDuration.WithLabelValues("error").Observe(elapsed.Seconds())
		span.SetStatus(codes.Error, detail)
		s.logger.Error("Completion call failed", map[string]interface{}{
			"error":      detail,
			"model":      s.config.Model,
			"durationMs": elapsed.Milliseconds(),
			"requestId":  commonhttp.RequestIDFromContext(ctx),
		})
		return nil, apperrors.NewAIMatchFailedError(detail, err)
	}
	metrics.CompletionDuration.WithLabelValues("ok").Observe(elapsed.Seconds())

	body := RelayBody(text)
	fields := map[string]interface{}{
		"committees": len(req.Committees),
		"model":      s.config.Model,
		"durationMs": elapsed.Milliseconds(),
		"requestId":  commonhttp.RequestIDFromContext(ctx),
	}
	if result := s.checkConformance(ctx, body); result != nil {
		names := make([]string, 0, len(result.TopMatches))
		for _, m := range result.TopMatches {
			names = append(names, m.CommitteeName)
		}
		fields["topMatches"] = names
	}
	s.logger.Info("Match completed", fields)
	return body, nil
}

// RelayBody returns text re-serialized as compact JSON, or the raw text
// unchanged when it does not parse.
func RelayBody(text string) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return []byte(text)
	}
	return buf.Bytes()
}

// checkConformance logs replies that break the output schema. They are still
// relayed. A conforming reply is returned decoded.
func (s *Service) checkConformance(ctx context.Context, body []byte) *MatchResult {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		metrics.SchemaViolations.Inc()
		s.logger.Warn("Completion reply is not valid JSON", map[string]interface{}{
			"requestId": commonhttp.RequestIDFromContext(ctx),
			"bytes":     len(body),
		})
		return nil
	}

	check, err := ValidateReply(doc)
	if err != nil {
		s.logger.Warn("Completion reply could not be validated", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if !check.Valid {
		metrics.SchemaViolations.Inc()
		s.logger.Warn("Completion reply violates output schema", map[string]interface{}{
			"requestId": commonhttp.RequestIDFromContext(ctx),
			"errors":    check.GetErrorMessages(),
		})
		return nil
	}

	result, err := DecodeResult(doc)
	if err != nil {
		s.logger.Warn("Completion reply could not be decoded", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return result
}
