package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

/*
Метрики бота:

- ApplicationsProcessed: сколько анкет обработано, по исходу
  (published, rejected, publish_failed).
- FeedbackMessages: сколько сообщений-ошибок отправлено/удалено.
- OracleRequests: длительность запросов к API проверки ника, по результату.

Регистрируются в переданном Registerer, чтобы тесты могли создавать
независимые экземпляры.
*/

const namespace = "whitelist_bot"

type Metrics struct {
	ApplicationsProcessed *prometheus.CounterVec
	FeedbackMessages      *prometheus.CounterVec
	OracleRequests        *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ApplicationsProcessed: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "applications_processed_total",
				Help:      "Applications processed, by outcome",
			},
			[]string{"outcome"},
		),
		FeedbackMessages: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feedback_messages_total",
				Help:      "Feedback messages posted or removed by the bot",
			},
			[]string{"action"},
		),
		OracleRequests: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "oracle_request_duration_seconds",
				Help:      "Duration of username validation requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"result"},
		),
	}
}

// Nop возвращает метрики, которые никуда не экспортируются.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) Application(outcome string) {
	if m == nil {
		return
	}
	m.ApplicationsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Feedback(action string) {
	if m == nil {
		return
	}
	m.FeedbackMessages.WithLabelValues(action).Inc()
}

func (m *Metrics) Oracle(valid bool, seconds float64) {
	if m == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.OracleRequests.WithLabelValues(result).Observe(seconds)
}
