// Package metrics provides a Prometheus-backed implementation of the
// endpoint package's MetricsRecorder interface. The core has no
// import-time dependency on this package; an application wires it in
// explicitly with endpoint.WithMetrics(recorder).
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects endpoint lifecycle and traffic metrics into a
// Prometheus registry. It satisfies endpoint.MetricsRecorder structurally;
// this package intentionally does not import the endpoint package, keeping
// the dependency one-directional.
type Recorder struct {
	framesSent     *prometheus.CounterVec
	framesReceived *prometheus.CounterVec
	keepAlives     prometheus.Counter
	sendDepth      prometheus.Gauge
	recvDepth      prometheus.Gauge
	state          *prometheus.GaugeVec
	errors         *prometheus.CounterVec

	currentState string
}

// New creates a Recorder and registers its collectors with reg. Use
// prometheus.DefaultRegisterer for the global registry, or a fresh
// prometheus.NewRegistry() in tests to avoid collisions between runs.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		framesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "endpoint_frames_sent_total",
			Help: "Number of frames transmitted, labeled by message type id.",
		}, []string{"type"}),
		framesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "endpoint_frames_received_total",
			Help: "Number of frames received and dispatched, labeled by message type id.",
		}, []string{"type"}),
		keepAlives: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "endpoint_keepalives_sent_total",
			Help: "Number of keep-alive frames transmitted.",
		}),
		sendDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "endpoint_send_queue_depth",
			Help: "Current depth of the outgoing message queue.",
		}),
		recvDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "endpoint_receive_queue_depth",
			Help: "Current depth of the incoming message queue.",
		}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "endpoint_state",
			Help: "1 for the current lifecycle state, 0 for all others.",
		}, []string{"state"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "endpoint_errors_total",
			Help: "Number of errors raised, labeled by kind and fatality.",
		}, []string{"kind", "fatal"}),
	}

	reg.MustRegister(r.framesSent, r.framesReceived, r.keepAlives, r.sendDepth, r.recvDepth, r.state, r.errors)
	return r
}

func (r *Recorder) FrameSent(typeID uint32) {
	r.framesSent.WithLabelValues(strconv.FormatUint(uint64(typeID), 10)).Inc()
}

func (r *Recorder) FrameReceived(typeID uint32) {
	r.framesReceived.WithLabelValues(strconv.FormatUint(uint64(typeID), 10)).Inc()
}

func (r *Recorder) KeepAliveSent() {
	r.keepAlives.Inc()
}

func (r *Recorder) StateChanged(state string) {
	if r.currentState != "" {
		r.state.WithLabelValues(r.currentState).Set(0)
	}
	r.state.WithLabelValues(state).Set(1)
	r.currentState = state
}

func (r *Recorder) ErrorRecorded(kind string, fatal bool) {
	r.errors.WithLabelValues(kind, strconv.FormatBool(fatal)).Inc()
}

func (r *Recorder) SendQueueDepth(n int) {
	r.sendDepth.Set(float64(n))
}

func (r *Recorder) ReceiveQueueDepth(n int) {
	r.recvDepth.Set(float64(n))
}
