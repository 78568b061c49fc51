package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"wisdomcard/internal/infra"
	"wisdomcard/internal/models/response_models"
	"wisdomcard/internal/prompts"
)

type WisdomServiceInterface interface {
	// Fetch asks the model about problemText. The caller guarantees the text
	// is not blank. Exactly one outbound call is made; nothing is retried or cached.
	Fetch(ctx context.Context, problemText string) (response_models.Wisdom, error)
	Variant() prompts.Variant
}

type WisdomService struct {
	completer ChatCompleter
	variant   prompts.Variant
	decoder   *PayloadDecoder
	metrics   *infra.Metrics
	logger    *zap.Logger
}

func NewWisdomService(
	completer ChatCompleter,
	variant prompts.Variant,
	metrics *infra.Metrics,
	logger *zap.Logger,
) (WisdomServiceInterface, error) {
	decoder, err := NewPayloadDecoder(variant)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WisdomService{
		completer: completer,
		variant:   variant,
		decoder:   decoder,
		metrics:   metrics,
		logger:    logger.With(zap.String("provider", completer.Provider()), zap.String("variant", variant.Name)),
	}, nil
}

func (s *WisdomService) Variant() prompts.Variant { return s.variant }

func (s *WisdomService) Fetch(ctx context.Context, problemText string) (response_models.Wisdom, error) {
	start := time.Now()

	content, err := s.completer.CompleteJSON(ctx, s.variant.SystemPrompt, s.variant.UserMessage(problemText), s.variant.Temperature)
	if err != nil {
		s.observe(start, err)
		return response_models.Wisdom{}, err
	}

	wisdom, err := s.decoder.Decode(content)
	s.observe(start, err)
	if err != nil {
		s.logger.Debug("model payload rejected", zap.String("content", content), zap.Error(err))
		return response_models.Wisdom{}, err
	}
	s.logger.Debug("wisdom received",
		zap.String("layout", string(wisdom.Layout)),
		zap.String("quote", wisdom.PrimaryQuote()),
	)
	return wisdom, nil
}

func (s *WisdomService) observe(start time.Time, err error) {
	elapsed := time.Since(start)
	kind := ErrorKind(err)

	if err != nil {
		s.logger.Warn("wisdom fetch failed",
			zap.String("outcome", kind),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	} else {
		s.logger.Debug("wisdom fetch finished", zap.Duration("elapsed", elapsed))
	}

	if s.metrics == nil {
		return
	}
	provider := s.completer.Provider()
	s.metrics.FetchTotal.WithLabelValues(provider, kind).Inc()
	s.metrics.FetchDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}
