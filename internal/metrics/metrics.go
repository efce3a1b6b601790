// Package metrics содержит Prometheus-счётчики сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "music"

// Исходы обработки вебхука.
const (
	WebhookApplied   = "applied"
	WebhookDuplicate = "duplicate"
	WebhookIgnored   = "ignored"
	WebhookRejected  = "rejected"
)

// Значения метки result у entitlement_decisions_total.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// Metrics набор счётчиков. Методы безопасно вызывать на nil.
type Metrics struct {
	webhookEvents        *prometheus.CounterVec
	paymentsInitiated    *prometheus.CounterVec
	entitlementDecisions *prometheus.CounterVec
	subscriptionsExpired prometheus.Counter
}

// New регистрирует счётчики в reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		webhookEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Payment gateway webhook events by outcome.",
		}, []string{"gateway", "outcome"}),
		paymentsInitiated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_initiated_total",
			Help:      "Payments created at a gateway.",
		}, []string{"gateway", "item_type"}),
		entitlementDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entitlement_decisions_total",
			Help:      "Streaming entitlement decisions.",
		}, []string{"kind", "result"}),
		subscriptionsExpired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriptions_expired_total",
			Help:      "Subscriptions moved to expired by the sweeper.",
		}),
	}
}

// WebhookEvent учитывает событие вебхука.
func (m *Metrics) WebhookEvent(gateway, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(gateway, outcome).Inc()
}

// PaymentInitiated учитывает созданный у провайдера платёж.
func (m *Metrics) PaymentInitiated(gateway, itemType string) {
	if m == nil {
		return
	}
	m.paymentsInitiated.WithLabelValues(gateway, itemType).Inc()
}

// EntitlementDecision учитывает решение о доступе; kind это song или album.
func (m *Metrics) EntitlementDecision(kind string, allowed bool) {
	if m == nil {
		return
	}
	result := DecisionDeny
	if allowed {
		result = DecisionAllow
	}
	m.entitlementDecisions.WithLabelValues(kind, result).Inc()
}

// SubscriptionsExpired добавляет n истёкших подписок.
func (m *Metrics) SubscriptionsExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.subscriptionsExpired.Add(float64(n))
}

// WebhookEvents возвращает счётчик событий вебхуков.
func (m *Metrics) WebhookEvents() *prometheus.CounterVec { return m.webhookEvents }

// PaymentsInitiated возвращает счётчик созданных платежей.
func (m *Metrics) PaymentsInitiated() *prometheus.CounterVec { return m.paymentsInitiated }

// EntitlementDecisions возвращает счётчик решений о доступе.
func (m *Metrics) EntitlementDecisions() *prometheus.CounterVec { return m.entitlementDecisions }

// ExpiredSubscriptions возвращает счётчик истёкших подписок.
func (m *Metrics) ExpiredSubscriptions() prometheus.Counter { return m.subscriptionsExpired }
