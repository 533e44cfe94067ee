package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"feedback-insights/internal/app/feedback/entity"
	"feedback-insights/pkg/logger"
	"feedback-insights/pkg/metrics"
)

// LLMClient обращается к OpenAI-совместимому chat-completion API
// Analyze никогда не возвращает ошибку наружу: любой сбой превращается в fallback
type LLMClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewLLMClient создает новый клиент LLM API
// Пустой apiKey переводит клиент в degraded режим без сетевых вызовов
func NewLLMClient(apiKey, baseURL, model string, timeoutSec int) *LLMClient {
	return &LLMClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// llmAnalysis - ожидаемая структура JSON ответа модели
// Поля с нестрогой формой парсятся как RawMessage и нормализуются отдельно
type llmAnalysis struct {
	AIResponse         string            `json:"ai_response"`
	AISummary          string            `json:"ai_summary"`
	RecommendedActions []json.RawMessage `json:"recommended_actions"`
	Sentiment          string            `json:"sentiment"`
	Keywords           json.RawMessage   `json:"keywords"`
}

// Analyze анализирует отзыв через LLM и возвращает нормализованный результат
// Все ошибки (сеть, не-JSON ответ, неожиданная форма полей) поглощаются в fallback
func (c *LLMClient) Analyze(ctx context.Context, rating int, reviewText string) *entity.EnrichmentResult {
	if c.apiKey == "" {
		metrics.RecordLLMRequest("degraded", 0)
		return &entity.EnrichmentResult{
			AIResponse:         "Thank you for your feedback!",
			AISummary:          "No AI summary available.",
			RecommendedActions: []string{"Check API Keys"},
			Sentiment:          sentimentFromRating(rating),
			Keywords:           []string{},
		}
	}

	start := time.Now()
	result, err := c.requestAnalysis(ctx, rating, reviewText)
	if err != nil {
		logger.Error().Err(err).Int("rating", rating).Msg("LLM enrichment failed")
		metrics.RecordLLMRequest("error", time.Since(start))
		return &entity.EnrichmentResult{
			AIResponse:         "Thank you for your feedback! We're processing it.",
			AISummary:          "Error generating summary.",
			RecommendedActions: []string{"Investigate LLM Service Error"},
			Sentiment:          sentimentFromRating(rating),
			Keywords:           []string{},
		}
	}

	metrics.RecordLLMRequest("success", time.Since(start))
	return result
}

func (c *LLMClient) requestAnalysis(ctx context.Context, rating int, reviewText string) (*entity.EnrichmentResult, error) {
	prompt := fmt.Sprintf(
		"You are a customer service AI manager. Analyze the following customer feedback.\n\n"+
			"Rating: %d/5\n"+
			"Review: %q\n\n"+
			"Provide a JSON response with the following keys:\n"+
			"- \"ai_response\": A polite, empathetic response to the user (1-2 sentences).\n"+
			"- \"ai_summary\": A concise 1-sentence summary of the review.\n"+
			"- \"recommended_actions\": A list of 1-3 concrete action strings the team should take.\n"+
			"- \"sentiment\": Classify the overall sentiment as exactly one of: \"positive\", \"negative\", or \"neutral\".\n"+
			"- \"keywords\": Extract 3-5 relevant topic keywords from the review (e.g., \"pricing\", \"customer support\", \"product quality\", \"delivery\", \"user experience\").\n\n"+
			"Ensure the response is valid JSON. Do not include markdown formatting like ```json.",
		rating, reviewText,
	)

	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant that outputs strict JSON."},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("failed to unmarshal API response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("API response contains no choices")
	}

	var analysis llmAnalysis
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	return &entity.EnrichmentResult{
		AIResponse:         analysis.AIResponse,
		AISummary:          analysis.AISummary,
		RecommendedActions: normalizeActions(analysis.RecommendedActions),
		Sentiment:          normalizeSentiment(analysis.Sentiment, rating),
		Keywords:           normalizeKeywords(analysis.Keywords),
	}, nil
}

// normalizeActions приводит recommended_actions к списку строк
// Модель иногда возвращает объекты вида {"action": "..."} вместо строк
func normalizeActions(raw []json.RawMessage) []string {
	actions := make([]string, 0, len(raw))
	for _, entry := range raw {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			actions = append(actions, s)
			continue
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal(entry, &obj); err == nil {
			var action string
			if v, ok := obj["action"]; ok && json.Unmarshal(v, &action) == nil {
				actions = append(actions, action)
				continue
			}
		}

		actions = append(actions, string(entry))
	}
	return actions
}

// normalizeSentiment заменяет отсутствующее или невалидное значение
// на производное от оценки
func normalizeSentiment(sentiment string, rating int) string {
	switch sentiment {
	case entity.SentimentPositive, entity.SentimentNegative, entity.SentimentNeutral:
		return sentiment
	}
	return sentimentFromRating(rating)
}

// normalizeKeywords возвращает пустой список, если keywords отсутствует
// или не является массивом строк
func normalizeKeywords(raw json.RawMessage) []string {
	var keywords []string
	if len(raw) == 0 || json.Unmarshal(raw, &keywords) != nil || keywords == nil {
		return []string{}
	}
	return keywords
}

// sentimentFromRating - правило по умолчанию: >=4 positive, <=2 negative, иначе neutral
func sentimentFromRating(rating int) string {
	switch {
	case rating >= 4:
		return entity.SentimentPositive
	case rating <= 2:
		return entity.SentimentNegative
	default:
		return entity.SentimentNeutral
	}
}
