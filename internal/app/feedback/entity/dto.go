package entity

// CreateFeedbackRequest - запрос на создание отзыва
type CreateFeedbackRequest struct {
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"review_text" validate:"required"`
}

// FeedbackListResponse - ответ со списком отзывов (новые первыми)
type FeedbackListResponse struct {
	Items []Feedback `json:"items"`
	Total int64      `json:"total"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// KeywordStat - частота ключевого слова с направлением тренда
type KeywordStat struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
	Trend   string `json:"trend"` // up, down, stable
}

// DailyStat - статистика за один календарный день
type DailyStat struct {
	Date      string  `json:"date"` // Короткая метка вида "Jan 05"
	Count     int     `json:"count"`
	AvgRating float64 `json:"avg_rating"`
}

// RecentTrend - сравнение средней оценки за последние 7 дней с предыдущими 7
type RecentTrend struct {
	Change    float64 `json:"change"`
	Direction string  `json:"direction"` // up, down, stable
}

// AnalyticsSnapshot - полный аналитический срез по всему корпусу отзывов
// Пересчитывается с нуля на каждый запрос
type AnalyticsSnapshot struct {
	TotalReviews          int            `json:"total_reviews"`
	AverageRating         float64        `json:"average_rating"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	RatingDistribution    map[int]int    `json:"rating_distribution"`
	TopKeywords           []KeywordStat  `json:"top_keywords"`
	RecentTrend           RecentTrend    `json:"recent_trend"`
	ReviewsOverTime       []DailyStat    `json:"reviews_over_time"`
	PositivePercentage    float64        `json:"positive_percentage"`
	NegativeCount         int            `json:"negative_count"`
}
