package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are registered on a per-server registry so several servers can run
// in one process.
type metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	bundles   prometheus.Counter
	enqueued  prometheus.Counter
	delivered prometheus.Counter
	acked     prometheus.Counter
	queued    prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xmtp_relay",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xmtp_relay",
			Name:      "rejected_total",
			Help:      "Requests rejected before reaching storage, by reason.",
		}, []string{"reason"}),
		bundles: f.NewCounter(prometheus.CounterOpts{
			Namespace: "xmtp_relay",
			Name:      "bundles_published_total",
			Help:      "Verified key bundles accepted.",
		}),
		enqueued: f.NewCounter(prometheus.CounterOpts{
			Namespace: "xmtp_relay",
			Name:      "messages_enqueued_total",
			Help:      "Envelopes accepted for delivery.",
		}),
		delivered: f.NewCounter(prometheus.CounterOpts{
			Namespace: "xmtp_relay",
			Name:      "messages_fetched_total",
			Help:      "Envelopes returned to recipients.",
		}),
		acked: f.NewCounter(prometheus.CounterOpts{
			Namespace: "xmtp_relay",
			Name:      "messages_acked_total",
			Help:      "Envelopes removed after acknowledgement.",
		}),
		queued: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "xmtp_relay",
			Name:      "messages_queued",
			Help:      "Envelopes currently waiting for delivery.",
		}),
	}
}
