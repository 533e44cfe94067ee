package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList хранит []string как JSON массив в jsonb колонке
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}

	return json.Unmarshal(data, l)
}

// Feedback представляет отзыв пользователя с AI-полями
// Запись append-only: после создания не изменяется и не удаляется приложением
type Feedback struct {
	ID                 uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Rating             int        `json:"rating" gorm:"not null"`                    // Оценка от 1 до 5
	ReviewText         string     `json:"review_text" gorm:"type:text;not null"`     // Текст отзыва
	AIResponse         *string    `json:"ai_response" gorm:"type:text"`              // Ответ пользователю от LLM
	AISummary          *string    `json:"ai_summary" gorm:"type:text"`               // Краткое резюме отзыва
	RecommendedActions StringList `json:"recommended_actions" gorm:"type:jsonb"`     // Рекомендованные действия команде
	Sentiment          *string    `json:"sentiment" gorm:"type:varchar(20)"`         // positive, negative или neutral
	Keywords           StringList `json:"keywords" gorm:"type:jsonb"`                // Ключевые темы отзыва
	CreatedAt          time.Time  `json:"created_at" gorm:"autoCreateTime;not null"` // Используется всеми time-windowed метриками
}

// TableName указывает имя таблицы для GORM
func (Feedback) TableName() string {
	return "feedback"
}

// Sentiment значения
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// EnrichmentResult содержит нормализованный результат AI-анализа отзыва
type EnrichmentResult struct {
	AIResponse         string
	AISummary          string
	RecommendedActions []string
	Sentiment          string
	Keywords           []string
}

// FeedbackEvent представляет событие создания отзыва для Kafka
type FeedbackEvent struct {
	EventType  string    `json:"event_type"` // FEEDBACK_CREATED
	FeedbackID uint      `json:"feedback_id"`
	Rating     int       `json:"rating"`
	Sentiment  string    `json:"sentiment"`
	Timestamp  time.Time `json:"timestamp"`
}
