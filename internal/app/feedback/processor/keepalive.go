package processor

import (
	"net/http"
	"time"

	"feedback-insights/pkg/logger"
	"feedback-insights/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// KeepAlivePinger периодически дергает внешний URL сервиса,
// чтобы хостинг не усыплял процесс
// Работает независимо от обработки запросов и не трогает данные отзывов
type KeepAlivePinger struct {
	cron       *cron.Cron
	url        string
	httpClient *http.Client
}

func NewKeepAlivePinger(url string) *KeepAlivePinger {
	return &KeepAlivePinger{
		cron: cron.New(),
		url:  url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Start запускает self-ping по расписанию с немедленным первым пингом
func (p *KeepAlivePinger) Start(schedule string) error {
	logger.Info().
		Str("url", p.url).
		Str("schedule", schedule).
		Msg("Starting keep-alive pinger")

	_, err := p.cron.AddFunc(schedule, p.ping)
	if err != nil {
		return err
	}

	p.cron.Start()
	p.ping()

	return nil
}

func (p *KeepAlivePinger) Stop() {
	logger.Info().Msg("Stopping keep-alive pinger...")
	ctx := p.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Keep-alive pinger stopped")
}

func (p *KeepAlivePinger) ping() {
	resp, err := p.httpClient.Get(p.url)
	if err != nil {
		metrics.KeepAlivePings.WithLabelValues("failed").Inc()
		logger.Error().Err(err).Str("url", p.url).Msg("Keep-alive ping failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.KeepAlivePings.WithLabelValues("failed").Inc()
		logger.Warn().
			Str("url", p.url).
			Int("status", resp.StatusCode).
			Msg("Keep-alive ping returned unexpected status")
		return
	}

	metrics.KeepAlivePings.WithLabelValues("success").Inc()
	logger.Debug().Str("url", p.url).Msg("Keep-alive ping successful")
}
