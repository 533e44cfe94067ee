package service

import (
	"context"

	"feedback-insights/internal/app/feedback/entity"
)

// EnrichmentClient определяет интерфейс AI-анализа отзыва
// Analyze не возвращает ошибку: сбои поглощаются в fallback результат
type EnrichmentClient interface {
	Analyze(ctx context.Context, rating int, reviewText string) *entity.EnrichmentResult
}

// FeedbackServiceInterface определяет интерфейс для работы с отзывами
type FeedbackServiceInterface interface {
	SubmitFeedback(ctx context.Context, req *entity.CreateFeedbackRequest) (*entity.Feedback, error)
	ListFeedback(ctx context.Context, skip, limit int) ([]entity.Feedback, int64, error)
}

// AnalyticsServiceInterface определяет интерфейс аналитики
type AnalyticsServiceInterface interface {
	GetSnapshot(ctx context.Context) (*entity.AnalyticsSnapshot, error)
}
