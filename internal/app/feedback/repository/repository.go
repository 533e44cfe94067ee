package repository

import (
	"context"

	"feedback-insights/internal/app/feedback/entity"
)

// FeedbackRepository определяет методы для работы с отзывами в PostgreSQL
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	List(ctx context.Context, skip, limit int) ([]entity.Feedback, error)
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]entity.Feedback, error)
}
