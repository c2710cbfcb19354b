// Package metrics exposes prometheus instruments for the webhook pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds application-level instruments.
type Metrics struct {
	deliveries          *prometheus.CounterVec
	signatureRejections prometheus.Counter
}

// New registers the webhook instruments on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clerk_webhook_deliveries_total",
			Help: "Webhook deliveries by event type and outcome.",
		}, []string{"event_type", "outcome"}),
		signatureRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clerk_webhook_signature_rejections_total",
			Help: "Deliveries rejected before decoding due to signature verification failure.",
		}),
	}

	if err := reg.Register(m.deliveries); err != nil {
		return nil, err
	}
	if err := reg.Register(m.signatureRejections); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordDelivery counts one dispatched delivery.
func (m *Metrics) RecordDelivery(eventType, outcome string) {
	if m == nil {
		return
	}
	if eventType == "" {
		eventType = "unknown"
	}
	m.deliveries.WithLabelValues(eventType, outcome).Inc()
}

// RecordSignatureRejection counts one rejected delivery.
func (m *Metrics) RecordSignatureRejection() {
	if m == nil {
		return
	}
	m.signatureRejections.Inc()
}
