package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_FrameCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	rec.FrameSent(5)
	rec.FrameSent(5)
	rec.FrameReceived(5)

	if got := testutil.ToFloat64(rec.framesSent.WithLabelValues("5")); got != 2 {
		t.Errorf("frames sent = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.framesReceived.WithLabelValues("5")); got != 1 {
		t.Errorf("frames received = %v, want 1", got)
	}
}

func TestRecorder_StateGaugeSwapsActiveLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	rec.StateChanged("Connecting")
	if got := testutil.ToFloat64(rec.state.WithLabelValues("Connecting")); got != 1 {
		t.Errorf("Connecting gauge = %v, want 1", got)
	}

	rec.StateChanged("Connected")
	if got := testutil.ToFloat64(rec.state.WithLabelValues("Connecting")); got != 0 {
		t.Errorf("Connecting gauge after transition = %v, want 0", got)
	}
	if got := testutil.ToFloat64(rec.state.WithLabelValues("Connected")); got != 1 {
		t.Errorf("Connected gauge = %v, want 1", got)
	}
}

func TestRecorder_ErrorsAndQueueDepths(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	rec.ErrorRecorded("ReceiveFailed", false)
	rec.SendQueueDepth(3)
	rec.ReceiveQueueDepth(7)
	rec.KeepAliveSent()

	if got := testutil.ToFloat64(rec.errors.WithLabelValues("ReceiveFailed", "false")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.sendDepth); got != 3 {
		t.Errorf("sendDepth = %v, want 3", got)
	}
	if got := testutil.ToFloat64(rec.recvDepth); got != 7 {
		t.Errorf("recvDepth = %v, want 7", got)
	}
	if got := testutil.ToFloat64(rec.keepAlives); got != 1 {
		t.Errorf("keepAlives = %v, want 1", got)
	}
}
