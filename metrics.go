package endpoint

// MetricsRecorder is implemented by optional metrics collectors. The core
// has no mandatory dependency on any metrics backend; a no-op is used
// when the embedder doesn't configure one, and a Prometheus-backed
// implementation is provided in the metrics subpackage (see WithMetrics).
type MetricsRecorder interface {
	FrameSent(typeID uint32)
	FrameReceived(typeID uint32)
	KeepAliveSent()
	StateChanged(state string)
	ErrorRecorded(kind string, fatal bool)
	SendQueueDepth(n int)
	ReceiveQueueDepth(n int)
}

// noopMetrics discards every observation. It's the default when no
// WithMetrics option is supplied.
type noopMetrics struct{}

func (noopMetrics) FrameSent(uint32)          {}
func (noopMetrics) FrameReceived(uint32)      {}
func (noopMetrics) KeepAliveSent()            {}
func (noopMetrics) StateChanged(string)       {}
func (noopMetrics) ErrorRecorded(string, bool) {}
func (noopMetrics) SendQueueDepth(int)        {}
func (noopMetrics) ReceiveQueueDepth(int)     {}
