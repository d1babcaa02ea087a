package dop

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	registerErr  error

	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dop",
			Subsystem: "codec",
			Name:      "messages_total",
			Help:      "Messages packed and unpacked, by result.",
		},
		[]string{"op", "result"},
	)
	messageBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dop",
			Subsystem: "codec",
			Name:      "message_bytes",
			Help:      "Size of packed and unpacked messages in bytes.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		},
		[]string{"op"},
	)
)

// Metric op labels.
const (
	opPack   = "pack"
	opUnpack = "unpack"
)

// RegisterMetrics registers the codec metrics with reg.
// Only the first call registers anything; later calls return the first call's result.
func RegisterMetrics(reg prometheus.Registerer) error {
	registerOnce.Do(func() {
		for _, c := range []prometheus.Collector{messagesTotal, messageBytes} {
			if err := reg.Register(c); err != nil {
				registerErr = err
				return
			}
		}
	})
	return registerErr
}

func observe(op string, size int, err error) {
	messagesTotal.WithLabelValues(op, resultLabel(err)).Inc()
	if err == nil {
		messageBytes.WithLabelValues(op).Observe(float64(size))
	}
}
