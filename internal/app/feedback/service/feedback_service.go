package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"feedback-insights/internal/app/feedback/entity"
	"feedback-insights/internal/app/feedback/infrastructure"
	"feedback-insights/internal/app/feedback/repository"
	"feedback-insights/pkg/logger"
	"feedback-insights/pkg/metrics"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// FeedbackService обрабатывает бизнес-логику отзывов
// Координирует AI-обогащение, репозиторий и Kafka
type FeedbackService struct {
	feedbackRepo  repository.FeedbackRepository
	enricher      EnrichmentClient
	kafkaProducer infrastructure.MessagePublisher
}

// NewFeedbackService создает новый сервис отзывов с внедрением зависимостей
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	enricher EnrichmentClient,
	kafkaProducer infrastructure.MessagePublisher,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo:  feedbackRepo,
		enricher:      enricher,
		kafkaProducer: kafkaProducer,
	}
}

// SubmitFeedback создает новый отзыв
// 1. Синхронно обогащает отзыв через LLM (сбой LLM не проваливает запрос)
// 2. Сохраняет запись в PostgreSQL
// 3. Отправляет событие FEEDBACK_CREATED в Kafka
func (s *FeedbackService) SubmitFeedback(ctx context.Context, req *entity.CreateFeedbackRequest) (*entity.Feedback, error) {
	enrichment := s.enricher.Analyze(ctx, req.Rating, req.ReviewText)

	feedback := &entity.Feedback{
		Rating:             req.Rating,
		ReviewText:         req.ReviewText,
		AIResponse:         &enrichment.AIResponse,
		AISummary:          &enrichment.AISummary,
		RecommendedActions: enrichment.RecommendedActions,
		Sentiment:          &enrichment.Sentiment,
		Keywords:           enrichment.Keywords,
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	metrics.FeedbackCreated.Inc()
	metrics.FeedbackRating.Observe(float64(feedback.Rating))

	event := entity.FeedbackEvent{
		EventType:  "FEEDBACK_CREATED",
		FeedbackID: feedback.ID,
		Rating:     feedback.Rating,
		Sentiment:  enrichment.Sentiment,
		Timestamp:  time.Now(),
	}

	if err := s.publishFeedbackEvent(ctx, event); err != nil {
		// Отзыв уже сохранен, проблемы с Kafka не критичны
		logger.Warn().Err(err).Uint("feedback_id", feedback.ID).Msg("failed to publish feedback created event")
	}

	return feedback, nil
}

// ListFeedback получает страницу отзывов (новые первыми) и общее количество
func (s *FeedbackService) ListFeedback(ctx context.Context, skip, limit int) ([]entity.Feedback, int64, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	feedbacks, err := s.feedbackRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feedback: %w", err)
	}

	total, err := s.feedbackRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count feedback: %w", err)
	}

	return feedbacks, total, nil
}

// publishFeedbackEvent отправляет событие об отзыве в Kafka
func (s *FeedbackService) publishFeedbackEvent(ctx context.Context, event entity.FeedbackEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback event: %w", err)
	}

	// Ключ = FeedbackID для партиционирования
	if err := s.kafkaProducer.PublishMessage(ctx, strconv.FormatUint(uint64(event.FeedbackID), 10), eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
