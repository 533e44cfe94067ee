package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"feedback-insights/internal/app/feedback/entity"
	"feedback-insights/internal/app/feedback/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func enrichmentFixture() *entity.EnrichmentResult {
	return &entity.EnrichmentResult{
		AIResponse:         "Thanks for the kind words!",
		AISummary:          "Customer is happy with delivery.",
		RecommendedActions: []string{"Share with delivery team"},
		Sentiment:          "positive",
		Keywords:           []string{"delivery"},
	}
}

func TestSubmitFeedback_Success(t *testing.T) {
	feedbackRepo := new(mocks.MockFeedbackRepository)
	enricher := new(mocks.MockEnrichmentClient)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewFeedbackService(feedbackRepo, enricher, kafkaProducer)

	ctx := context.Background()
	req := &entity.CreateFeedbackRequest{Rating: 5, ReviewText: "Fast delivery!"}

	enricher.On("Analyze", ctx, 5, "Fast delivery!").Return(enrichmentFixture())
	feedbackRepo.On("Create", ctx, mock.AnythingOfType("*entity.Feedback")).Return(nil).Run(func(args mock.Arguments) {
		feedback := args.Get(1).(*entity.Feedback)
		feedback.ID = 42
	})
	kafkaProducer.On("PublishMessage", ctx, "42", mock.Anything).Return(nil)

	result, err := service.SubmitFeedback(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, uint(42), result.ID)
	assert.Equal(t, 5, result.Rating)
	assert.Equal(t, "Fast delivery!", result.ReviewText)
	require.NotNil(t, result.AIResponse)
	assert.Equal(t, "Thanks for the kind words!", *result.AIResponse)
	require.NotNil(t, result.Sentiment)
	assert.Equal(t, "positive", *result.Sentiment)
	assert.Equal(t, entity.StringList{"delivery"}, result.Keywords)

	require.Len(t, kafkaProducer.Messages, 1)
	var event entity.FeedbackEvent
	require.NoError(t, json.Unmarshal(kafkaProducer.Messages[0], &event))
	assert.Equal(t, "FEEDBACK_CREATED", event.EventType)
	assert.Equal(t, uint(42), event.FeedbackID)
	assert.Equal(t, "positive", event.Sentiment)
}

func TestSubmitFeedback_RepoError(t *testing.T) {
	feedbackRepo := new(mocks.MockFeedbackRepository)
	enricher := new(mocks.MockEnrichmentClient)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewFeedbackService(feedbackRepo, enricher, kafkaProducer)

	ctx := context.Background()
	req := &entity.CreateFeedbackRequest{Rating: 3, ReviewText: "Average."}

	enricher.On("Analyze", ctx, 3, "Average.").Return(enrichmentFixture())
	feedbackRepo.On("Create", ctx, mock.Anything).Return(errors.New("db error"))

	result, err := service.SubmitFeedback(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, kafkaProducer.Messages)
}

func TestSubmitFeedback_KafkaErrorIgnored(t *testing.T) {
	feedbackRepo := new(mocks.MockFeedbackRepository)
	enricher := new(mocks.MockEnrichmentClient)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewFeedbackService(feedbackRepo, enricher, kafkaProducer)

	ctx := context.Background()
	req := &entity.CreateFeedbackRequest{Rating: 2, ReviewText: "Not great."}

	enricher.On("Analyze", ctx, 2, "Not great.").Return(enrichmentFixture())
	feedbackRepo.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Feedback).ID = 7
	})
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(errors.New("kafka error"))

	result, err := service.SubmitFeedback(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestListFeedback_Success(t *testing.T) {
	feedbackRepo := new(mocks.MockFeedbackRepository)
	enricher := new(mocks.MockEnrichmentClient)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewFeedbackService(feedbackRepo, enricher, kafkaProducer)

	ctx := context.Background()
	feedbacks := []entity.Feedback{
		{ID: 2, Rating: 5},
		{ID: 1, Rating: 4},
	}

	feedbackRepo.On("List", ctx, 0, 2).Return(feedbacks, nil)
	feedbackRepo.On("Count", ctx).Return(int64(5), nil)

	result, total, err := service.ListFeedback(ctx, 0, 2)

	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, int64(5), total)
}

func TestListFeedback_DefaultsApplied(t *testing.T) {
	feedbackRepo := new(mocks.MockFeedbackRepository)
	enricher := new(mocks.MockEnrichmentClient)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewFeedbackService(feedbackRepo, enricher, kafkaProducer)

	ctx := context.Background()

	feedbackRepo.On("List", ctx, 0, 100).Return([]entity.Feedback{}, nil)
	feedbackRepo.On("Count", ctx).Return(int64(0), nil)

	// Отрицательный skip и нулевой limit заменяются значениями по умолчанию
	_, _, err := service.ListFeedback(ctx, -5, 0)

	require.NoError(t, err)
	feedbackRepo.AssertCalled(t, "List", ctx, 0, 100)
}

func TestListFeedback_LimitClamped(t *testing.T) {
	feedbackRepo := new(mocks.MockFeedbackRepository)
	enricher := new(mocks.MockEnrichmentClient)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewFeedbackService(feedbackRepo, enricher, kafkaProducer)

	ctx := context.Background()

	feedbackRepo.On("List", ctx, 0, 500).Return([]entity.Feedback{}, nil)
	feedbackRepo.On("Count", ctx).Return(int64(0), nil)

	_, _, err := service.ListFeedback(ctx, 0, 10000)

	require.NoError(t, err)
	feedbackRepo.AssertCalled(t, "List", ctx, 0, 500)
}

func TestListFeedback_RepoError(t *testing.T) {
	feedbackRepo := new(mocks.MockFeedbackRepository)
	enricher := new(mocks.MockEnrichmentClient)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewFeedbackService(feedbackRepo, enricher, kafkaProducer)

	ctx := context.Background()

	feedbackRepo.On("List", ctx, 0, 100).Return(nil, errors.New("db error"))

	result, total, err := service.ListFeedback(ctx, 0, 100)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, int64(0), total)
}

func TestListFeedback_CountError(t *testing.T) {
	feedbackRepo := new(mocks.MockFeedbackRepository)
	enricher := new(mocks.MockEnrichmentClient)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewFeedbackService(feedbackRepo, enricher, kafkaProducer)

	ctx := context.Background()

	feedbackRepo.On("List", ctx, 0, 100).Return([]entity.Feedback{}, nil)
	feedbackRepo.On("Count", ctx).Return(int64(0), errors.New("db error"))

	result, total, err := service.ListFeedback(ctx, 0, 100)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, int64(0), total)
}
