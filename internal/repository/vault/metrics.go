package vault

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	decodeSkipped *prometheus.CounterVec
	storageOps    *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		decodeSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memo_decode_skipped_total",
				Help: "Memo files skipped during listing because they could not be read or decoded.",
			},
			[]string{"reason"},
		),
		storageOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memo_storage_operations_total",
				Help: "Storage operations issued by the memo vault.",
			},
			[]string{"op", "result"},
		),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	if err := reg.Register(m.decodeSkipped); err != nil {
		return err
	}
	if err := reg.Register(m.storageOps); err != nil {
		reg.Unregister(m.decodeSkipped)
		return err
	}
	return nil
}

// observe and skipped are no-ops on a nil receiver so the vault works without metrics.

func (m *metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storageOps.WithLabelValues(op, result).Inc()
}

func (m *metrics) skipped(reason string) {
	if m == nil {
		return
	}
	m.decodeSkipped.WithLabelValues(reason).Inc()
}
