package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/moffa90/go-iec101/protocol"
)

func TestLinkCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveReceived(protocol.NewFixedFrame(0x0B, 1))
	m.ObserveReceived(protocol.NewVariableFrame(0x08, 1, []byte{0x01}))
	m.ObserveReceived(protocol.NewVariableFrame(0x08, 1, []byte{0x02}))
	m.ObserveSent(protocol.NewFixedFrame(0x5B, 1))
	m.ObserveDecodeError(protocol.BadFormat)
	m.ObserveDecodeError(protocol.CheckError)
	m.ObserveDecodeError(protocol.CheckError)
	m.AddReceived(20)
	m.AddDiscarded(3)
	m.AddDiscarded(0)
	m.IncTimeouts()
	m.IncRetries()

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"fixed received", m.FramesReceived.WithLabelValues("fixed"), 1},
		{"variable received", m.FramesReceived.WithLabelValues("variable"), 2},
		{"fixed sent", m.FramesSent.WithLabelValues("fixed"), 1},
		{"bad format", m.DecodeErrors.WithLabelValues("bad_format"), 1},
		{"check error", m.DecodeErrors.WithLabelValues("check_error"), 2},
		{"bytes received", m.BytesReceived, 20},
		{"bytes discarded", m.BytesDiscarded, 3},
		{"timeouts", m.Timeouts, 1},
		{"retries", m.Retries, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNilLinkIsNoop(t *testing.T) {
	var m *Link
	m.ObserveReceived(protocol.NewFixedFrame(0x0B, 1))
	m.ObserveSent(protocol.NewFixedFrame(0x0B, 1))
	m.ObserveDecodeError(protocol.BadFormat)
	m.AddReceived(1)
	m.AddDiscarded(1)
	m.IncTimeouts()
	m.IncRetries()
}
