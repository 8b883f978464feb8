package observability

import (
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/danmuck/longfi/internal/protocol"
)

var (
	registerOnce sync.Once

	codecOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "longfi",
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Datagram encode/decode operations by result kind.",
		},
		[]string{"op", "kind"},
	)
	codecBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "longfi",
			Subsystem: "codec",
			Name:      "bytes_total",
			Help:      "Bytes produced by encode or consumed by decode.",
		},
		[]string{"op"},
	)
	transportFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "longfi",
			Subsystem: "transport",
			Name:      "frames_total",
			Help:      "Frames handled by the transport by direction and outcome.",
		},
		[]string{"node", "direction", "outcome"},
	)
	transportPayload = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "longfi",
			Subsystem: "transport",
			Name:      "payload_bytes",
			Help:      "Payload size of delivered or transmitted frames.",
			Buckets:   []float64{0, 8, 16, 32, 64, 96, 128},
		},
		[]string{"node", "direction"},
	)
)

const (
	OpEncode = "encode"
	OpDecode = "decode"

	DirectionTx = "tx"
	DirectionRx = "rx"
)

// Registerer is where metrics are registered and Gatherer is where
// WriteMetrics reads them back. Replace both together, before the first
// Record call.
var (
	Registerer prometheus.Registerer = prometheus.DefaultRegisterer
	Gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		Registerer.MustRegister(codecOps, codecBytes, transportFrames, transportPayload)
	})
}

// RecordCodec counts one codec operation; n is the frame length on success.
func RecordCodec(op string, n int, err error) {
	RegisterMetrics()
	codecOps.WithLabelValues(op, protocol.KindOf(err).String()).Inc()
	if err == nil {
		codecBytes.WithLabelValues(op).Add(float64(n))
	}
}

// RecordFrame counts one transport frame. outcome is "ok" or a drop reason.
func RecordFrame(node, direction, outcome string, payloadLen int) {
	RegisterMetrics()
	transportFrames.WithLabelValues(node, direction, outcome).Inc()
	if outcome == "ok" {
		transportPayload.WithLabelValues(node, direction).Observe(float64(payloadLen))
	}
}

// WriteMetrics writes every gathered metric family to w in the Prometheus
// text exposition format.
func WriteMetrics(w io.Writer) error {
	RegisterMetrics()
	families, err := Gatherer.Gather()
	if err != nil {
		return fmt.Errorf("observability: gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("observability: write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
