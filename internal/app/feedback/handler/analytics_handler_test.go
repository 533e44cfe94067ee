package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedback-insights/internal/app/feedback/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAnalyticsService мок для AnalyticsServiceInterface
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetSnapshot(ctx context.Context) (*entity.AnalyticsSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AnalyticsSnapshot), args.Error(1)
}

func setupAnalyticsRouter(service *MockAnalyticsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAnalyticsHandler(service)

	router := gin.New()
	router.GET("/analytics", h.GetAnalytics)
	return router
}

func TestGetAnalytics_OK(t *testing.T) {
	mockService := new(MockAnalyticsService)
	router := setupAnalyticsRouter(mockService)

	snapshot := &entity.AnalyticsSnapshot{
		TotalReviews:          3,
		AverageRating:         4.33,
		SentimentDistribution: map[string]int{"positive": 2, "negative": 1, "neutral": 0},
		RatingDistribution:    map[int]int{1: 0, 2: 0, 3: 1, 4: 0, 5: 2},
		TopKeywords:           []entity.KeywordStat{{Keyword: "delivery", Count: 2, Trend: "up"}},
		RecentTrend:           entity.RecentTrend{Change: 0.5, Direction: "up"},
		ReviewsOverTime:       []entity.DailyStat{{Date: "Mar 20", Count: 3, AvgRating: 4.3}},
		PositivePercentage:    66.7,
		NegativeCount:         1,
	}
	mockService.On("GetSnapshot", mock.Anything).Return(snapshot, nil)

	req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.AnalyticsSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 3, response.TotalReviews)
	assert.Equal(t, 4.33, response.AverageRating)
	assert.Equal(t, 2, response.SentimentDistribution["positive"])
	require.Len(t, response.TopKeywords, 1)
	assert.Equal(t, "delivery", response.TopKeywords[0].Keyword)
	assert.Equal(t, "up", response.RecentTrend.Direction)
}

func TestGetAnalytics_ServiceError(t *testing.T) {
	mockService := new(MockAnalyticsService)
	router := setupAnalyticsRouter(mockService)

	mockService.On("GetSnapshot", mock.Anything).Return(nil, errors.New("db error"))

	req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to compute analytics")
}
