package endpoint

import "sync"

// errorRecord holds the endpoint's most recent error. Only the worker
// thread mutates it; application threads reading LastError get a
// consistent snapshot via the mutex, best-effort beyond that.
type errorRecord struct {
	mu   sync.Mutex
	last Error
	set  bool

	listeners *listenerSet
}

func newErrorRecord(listeners *listenerSet) *errorRecord {
	return &errorRecord{listeners: listeners}
}

// record stores err as last-error, fans it out to listeners, and logs it.
// It does not itself touch the in-flight wire message or the state
// machine's next-state; callers that need the fatal side effects (clearing
// the in-flight frame, setting next=Error) apply them using err.Fatal.
func (er *errorRecord) record(logger Logger, metrics MetricsRecorder, err Error) {
	er.mu.Lock()
	er.last = err
	er.set = true
	er.mu.Unlock()

	if err.Fatal {
		logger.Error("fatal endpoint error", "kind", err.Kind.String(), "description", err.Description)
	} else {
		logger.Warn("endpoint error", "kind", err.Kind.String(), "description", err.Description)
	}
	metrics.ErrorRecorded(err.Kind.String(), err.Fatal)
	er.listeners.fireError(err)
}

// snapshot returns the last recorded error and whether one has ever been
// recorded.
func (er *errorRecord) snapshot() (Error, bool) {
	er.mu.Lock()
	defer er.mu.Unlock()
	return er.last, er.set
}
