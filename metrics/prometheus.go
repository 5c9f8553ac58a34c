package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/moffa90/go-iec101/protocol"
)

// Link contains the Prometheus metrics of one link connection.
// All methods are safe to call on a nil *Link.
type Link struct {
	// Frame metrics
	FramesReceived *prometheus.CounterVec
	FramesSent     *prometheus.CounterVec
	DecodeErrors   *prometheus.CounterVec

	// Stream metrics
	BytesReceived  prometheus.Counter
	BytesDiscarded prometheus.Counter

	// Exchange metrics
	Timeouts prometheus.Counter
	Retries  prometheus.Counter
}

// New creates the link metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func New(reg prometheus.Registerer) *Link {
	factory := promauto.With(reg)
	return &Link{
		FramesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iec101_frames_received_total",
			Help: "Total number of valid link frames received",
		}, []string{"kind"}),
		FramesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iec101_frames_sent_total",
			Help: "Total number of link frames written",
		}, []string{"kind"}),
		DecodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iec101_decode_errors_total",
			Help: "Total number of rejected frames by classification",
		}, []string{"status"}),
		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "iec101_bytes_received_total",
			Help: "Total number of bytes read from the transport",
		}),
		BytesDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "iec101_bytes_discarded_total",
			Help: "Total number of bytes skipped while searching for a start octet",
		}),
		Timeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "iec101_timeouts_total",
			Help: "Total number of reads that timed out waiting for a frame",
		}),
		Retries: factory.NewCounter(prometheus.CounterOpts{
			Name: "iec101_retries_total",
			Help: "Total number of request retransmissions",
		}),
	}
}

// Kind returns the metric label for a frame.
func Kind(f protocol.Frame) string {
	if f.HasPayload() {
		return "variable"
	}
	return "fixed"
}

// ObserveReceived counts a decoded frame.
func (m *Link) ObserveReceived(f protocol.Frame) {
	if m == nil {
		return
	}
	m.FramesReceived.WithLabelValues(Kind(f)).Inc()
}

// ObserveSent counts a written frame.
func (m *Link) ObserveSent(f protocol.Frame) {
	if m == nil {
		return
	}
	m.FramesSent.WithLabelValues(Kind(f)).Inc()
}

// ObserveDecodeError counts a frame rejected with status.
func (m *Link) ObserveDecodeError(status protocol.Status) {
	if m == nil {
		return
	}
	label := "bad_format"
	if status == protocol.CheckError {
		label = "check_error"
	}
	m.DecodeErrors.WithLabelValues(label).Inc()
}

// AddReceived counts n bytes read from the transport.
func (m *Link) AddReceived(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BytesReceived.Add(float64(n))
}

// AddDiscarded counts n bytes skipped during resynchronization.
func (m *Link) AddDiscarded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BytesDiscarded.Add(float64(n))
}

// IncTimeouts counts a read timeout.
func (m *Link) IncTimeouts() {
	if m == nil {
		return
	}
	m.Timeouts.Inc()
}

// IncRetries counts a retransmission.
func (m *Link) IncRetries() {
	if m == nil {
		return
	}
	m.Retries.Inc()
}
