package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"feedback-insights/internal/app/feedback/entity"
	"feedback-insights/internal/app/feedback/repository"
)

const (
	topKeywordsLimit = 10
	trendWindowDays  = 7
	timeSeriesDays   = 14
	trendThreshold   = 0.1
)

// AnalyticsService считает аналитический срез по всему корпусу отзывов
// Снимок детерминирован и пересчитывается с нуля на каждый вызов
type AnalyticsService struct {
	feedbackRepo repository.FeedbackRepository
	now          func() time.Time
}

// NewAnalyticsService создает новый сервис аналитики
func NewAnalyticsService(feedbackRepo repository.FeedbackRepository) *AnalyticsService {
	return &AnalyticsService{
		feedbackRepo: feedbackRepo,
		now:          time.Now,
	}
}

// GetSnapshot строит полный аналитический снимок
// Пустой корпус дает фиксированный нулевой снимок, а не ошибку
func (s *AnalyticsService) GetSnapshot(ctx context.Context) (*entity.AnalyticsSnapshot, error) {
	feedbacks, err := s.feedbackRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback corpus: %w", err)
	}

	if len(feedbacks) == 0 {
		return emptySnapshot(), nil
	}

	now := s.now()
	total := len(feedbacks)

	ratingSum := 0
	for _, f := range feedbacks {
		ratingSum += f.Rating
	}
	averageRating := round2(float64(ratingSum) / float64(total))

	sentimentCounts := countSentiments(feedbacks)
	ratingCounts := countRatings(feedbacks)
	topKeywords := s.topKeywords(feedbacks, now)
	recentTrend := s.recentTrend(feedbacks, now)
	reviewsOverTime := s.reviewsOverTime(feedbacks, now)

	positiveCount := sentimentCounts[entity.SentimentPositive]
	negativeCount := sentimentCounts[entity.SentimentNegative]

	return &entity.AnalyticsSnapshot{
		TotalReviews:          total,
		AverageRating:         averageRating,
		SentimentDistribution: sentimentCounts,
		RatingDistribution:    ratingCounts,
		TopKeywords:           topKeywords,
		RecentTrend:           recentTrend,
		ReviewsOverTime:       reviewsOverTime,
		PositivePercentage:    round1(float64(positiveCount) / float64(total) * 100),
		NegativeCount:         negativeCount,
	}, nil
}

func emptySnapshot() *entity.AnalyticsSnapshot {
	return &entity.AnalyticsSnapshot{
		TotalReviews:  0,
		AverageRating: 0,
		SentimentDistribution: map[string]int{
			entity.SentimentPositive: 0,
			entity.SentimentNegative: 0,
			entity.SentimentNeutral:  0,
		},
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		TopKeywords:        []entity.KeywordStat{},
		RecentTrend:        entity.RecentTrend{Change: 0, Direction: "stable"},
		ReviewsOverTime:    []entity.DailyStat{},
		PositivePercentage: 0,
		NegativeCount:      0,
	}
}

// effectiveSentiment возвращает sentiment записи, подставляя производное
// от оценки значение при его отсутствии (read-time default, запись не мутируется)
func effectiveSentiment(f *entity.Feedback) string {
	if f.Sentiment != nil && *f.Sentiment != "" {
		return *f.Sentiment
	}
	return sentimentFromRating(f.Rating)
}

func countSentiments(feedbacks []entity.Feedback) map[string]int {
	counts := map[string]int{
		entity.SentimentPositive: 0,
		entity.SentimentNegative: 0,
		entity.SentimentNeutral:  0,
	}
	for i := range feedbacks {
		counts[effectiveSentiment(&feedbacks[i])]++
	}
	return counts
}

// countRatings считает записи по фиксированным корзинам 1-5
// Оценки вне диапазона не попадают ни в одну корзину
func countRatings(feedbacks []entity.Feedback) map[int]int {
	counts := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, f := range feedbacks {
		if f.Rating >= 1 && f.Rating <= 5 {
			counts[f.Rating]++
		}
	}
	return counts
}

// topKeywords возвращает до 10 самых частых ключевых слов
// При равной частоте порядок определяется первым вхождением при обходе корпуса
// Тренд сравнивает частоту слова за последние 7 дней с предыдущими 7
func (s *AnalyticsService) topKeywords(feedbacks []entity.Feedback, now time.Time) []entity.KeywordStat {
	weekAgo := now.AddDate(0, 0, -trendWindowDays)
	twoWeeksAgo := now.AddDate(0, 0, -2*trendWindowDays)

	counts := make(map[string]int)
	recentCounts := make(map[string]int)
	previousCounts := make(map[string]int)
	var order []string

	for _, f := range feedbacks {
		for _, kw := range f.Keywords {
			if _, seen := counts[kw]; !seen {
				order = append(order, kw)
			}
			counts[kw]++

			if !f.CreatedAt.Before(weekAgo) {
				recentCounts[kw]++
			} else if !f.CreatedAt.Before(twoWeeksAgo) {
				previousCounts[kw]++
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topKeywordsLimit {
		order = order[:topKeywordsLimit]
	}

	stats := make([]entity.KeywordStat, 0, len(order))
	for _, kw := range order {
		trend := "stable"
		if recentCounts[kw] > previousCounts[kw] {
			trend = "up"
		} else if recentCounts[kw] < previousCounts[kw] {
			trend = "down"
		}

		stats = append(stats, entity.KeywordStat{
			Keyword: kw,
			Count:   counts[kw],
			Trend:   trend,
		})
	}

	return stats
}

// recentTrend сравнивает среднюю оценку за последние 7 дней с предыдущими 7
// Пустое окно участвует в сравнении со средней 0
func (s *AnalyticsService) recentTrend(feedbacks []entity.Feedback, now time.Time) entity.RecentTrend {
	weekAgo := now.AddDate(0, 0, -trendWindowDays)
	twoWeeksAgo := now.AddDate(0, 0, -2*trendWindowDays)

	recentSum, recentCount := 0, 0
	previousSum, previousCount := 0, 0

	for _, f := range feedbacks {
		if !f.CreatedAt.Before(weekAgo) {
			recentSum += f.Rating
			recentCount++
		} else if !f.CreatedAt.Before(twoWeeksAgo) {
			previousSum += f.Rating
			previousCount++
		}
	}

	recentMean := 0.0
	if recentCount > 0 {
		recentMean = float64(recentSum) / float64(recentCount)
	}
	previousMean := 0.0
	if previousCount > 0 {
		previousMean = float64(previousSum) / float64(previousCount)
	}

	change := recentMean - previousMean
	direction := "stable"
	if change > trendThreshold {
		direction = "up"
	} else if change < -trendThreshold {
		direction = "down"
	}

	return entity.RecentTrend{Change: round2(change), Direction: direction}
}

// reviewsOverTime строит серию из 14 календарных дней, старые первыми
// Границы дня - локальная полночь в таймзоне часов агрегатора
func (s *AnalyticsService) reviewsOverTime(feedbacks []entity.Feedback, now time.Time) []entity.DailyStat {
	series := make([]entity.DailyStat, 0, timeSeriesDays)

	for i := timeSeriesDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)

		count := 0
		ratingSum := 0
		for _, f := range feedbacks {
			if !f.CreatedAt.Before(dayStart) && f.CreatedAt.Before(dayEnd) {
				count++
				ratingSum += f.Rating
			}
		}

		avg := 0.0
		if count > 0 {
			avg = float64(ratingSum) / float64(count)
		}

		series = append(series, entity.DailyStat{
			Date:      dayStart.Format("Jan 02"),
			Count:     count,
			AvgRating: round1(avg),
		})
	}

	return series
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
