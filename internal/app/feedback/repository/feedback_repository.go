package repository

import (
	"context"

	"feedback-insights/internal/app/feedback/entity"
	"feedback-insights/pkg/metrics"

	"gorm.io/gorm"
)

const serviceName = "feedback-service"

type feedbackRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewFeedbackRepository создает новый репозиторий отзывов
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// Create создает новый отзыв в PostgreSQL
// ID и CreatedAt назначаются базой при вставке
func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, feedback.TableName())
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Create(feedback)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
	}
	return result.Error
}

// List получает страницу отзывов, отсортированных по created_at по убыванию
func (r *feedbackRepository) List(ctx context.Context, skip, limit int) ([]entity.Feedback, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, entity.Feedback{}.TableName())
	defer timer.ObserveDuration()

	var feedbacks []entity.Feedback
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&feedbacks)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}

	return feedbacks, nil
}

// Count возвращает общее количество отзывов
func (r *feedbackRepository) Count(ctx context.Context) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, entity.Feedback{}.TableName())
	defer timer.ObserveDuration()

	var count int64
	result := r.db.WithContext(ctx).Model(&entity.Feedback{}).Count(&count)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return 0, result.Error
	}

	return count, nil
}

// GetAll получает весь корпус отзывов для аналитики
func (r *feedbackRepository) GetAll(ctx context.Context) ([]entity.Feedback, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, entity.Feedback{}.TableName())
	defer timer.ObserveDuration()

	var feedbacks []entity.Feedback
	result := r.db.WithContext(ctx).Find(&feedbacks)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}

	return feedbacks, nil
}
