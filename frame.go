package endpoint

import (
	"encoding/binary"
	"io"
)

// wireSignature identifies this protocol in a frame header's high 16
// bits. The version fields are carried for forward compatibility but
// never checked; only the signature is an identity test.
const (
	wireSignature    = 0x2BAD
	wireVersionMajor = 1
	wireVersionMinor = 0
)

// frameHeader returns the 32-bit header word: (signature<<16)|(major<<8)|minor.
func frameHeader() uint32 {
	return uint32(wireSignature)<<16 | uint32(wireVersionMajor)<<8 | uint32(wireVersionMinor)
}

// parsePhase is the parser's current position within one frame.
type parsePhase int

const (
	phaseHeader parsePhase = iota
	phaseSize
	phaseType
	phaseData
	phaseDispatch
)

// wireMessage is the parser's in-flight record for a frame being
// incrementally received. It is owned exclusively by the worker thread;
// no synchronization is needed.
type wireMessage struct {
	phase parsePhase

	// scratch accumulates the bytes of whichever 4-byte field (header,
	// size, type) is currently being read, across as many ticks as it
	// takes for them to arrive.
	scratch  [4]byte
	scratchN int

	size     int32
	typeID   uint32
	data     []byte
	received int32
	valid    bool
}

func newWireMessage() *wireMessage {
	return &wireMessage{valid: true}
}

func (w *wireMessage) isComplete() bool {
	return int32(w.received) == w.size
}

// readField accumulates into w.scratch until all 4 bytes have arrived or an
// error occurs. It returns true once the field is complete. A timeout error
// leaves scratchN exactly where it was, so the next tick resumes mid-field
// instead of losing already-arrived bytes.
func (w *wireMessage) readField(r io.Reader) (complete bool, err error) {
	for w.scratchN < len(w.scratch) {
		n, rerr := r.Read(w.scratch[w.scratchN:])
		w.scratchN += n
		if rerr != nil {
			return false, rerr
		}
		if n == 0 {
			return false, nil
		}
	}
	return true, nil
}

func (w *wireMessage) resetField() {
	w.scratchN = 0
}

// parserDeps bundles the collaborators the parser hands completed frames
// to: the embedder's registry and codec, the receive queue, the error
// record, the listener set, a logger, and a metrics recorder.
type parserDeps struct {
	registry  TypeRegistry
	codec     PayloadCodec
	recvQ     *messageQueue
	errs      *errorRecord
	listeners *listenerSet
	logger    Logger
	metrics   MetricsRecorder
}

// tickParser performs at most one pass through the parser's states for the
// in-flight frame, reading from r. raised reports whether any error record
// was produced this tick, which suppresses the caller's keep-alive check.
// fatal is set when a fatal error (OutOfMemory) was raised, in which case
// the caller must transition to the Error state and stop calling tickParser.
// isTimeout is used to decide whether a read failure should preserve state
// (EAGAIN/deadline) or discard the frame.
func tickParser(w *wireMessage, r io.Reader, deps parserDeps) (raised, fatal bool) {
	if w.phase == phaseHeader {
		complete, err := w.readField(r)
		if err != nil {
			// A hard error mid-header (including EOF from a peer that went
			// away while the link was idle) means no frame arrived this
			// tick; the keep-alive check is what surfaces a dead peer.
			return false, false
		}
		if !complete {
			return false, false
		}

		header := binary.BigEndian.Uint32(w.scratch[:])
		w.resetField()

		if header == 0 {
			// Keep-alive at a frame boundary: no-op, no state change.
			return false, false
		}

		if (header >> 16) != wireSignature {
			deps.errs.record(deps.logger, deps.metrics, newError(ReceiveFailed, "Header mismatch", nil))
			w.phase = phaseHeader
			return true, false
		}

		w.phase = phaseSize
	}

	if w.phase == phaseSize {
		complete, err := w.readField(r)
		if err != nil {
			if isTimeout(err) {
				return false, false
			}
			deps.errs.record(deps.logger, deps.metrics, newError(ReceiveFailed, "Size invalid", err))
			resetWireMessage(w)
			return true, false
		}
		if !complete {
			return false, false
		}

		size := int32(binary.BigEndian.Uint32(w.scratch[:]))
		w.resetField()

		if size < 0 {
			deps.errs.record(deps.logger, deps.metrics, newError(ReceiveFailed, "Size invalid", nil))
			resetWireMessage(w)
			return true, false
		}

		w.size = size
		w.phase = phaseType
	}

	if w.phase == phaseType {
		complete, err := w.readField(r)
		if err != nil {
			if isTimeout(err) {
				return false, false
			}
			// A short/broken read on the type field marks the message
			// invalid but still consumes through Data.
			w.valid = false
			complete = true
		}
		if !complete {
			return false, false
		}

		if w.valid {
			w.typeID = binary.BigEndian.Uint32(w.scratch[:])
		}
		w.resetField()

		if w.size > MaxPayloadSize {
			deps.errs.record(deps.logger, deps.metrics, newError(OutOfMemory, "Out of memory", nil))
			resetWireMessage(w)
			return true, true
		}
		if w.size > PayloadWarnSize {
			deps.logger.Warn("large payload buffer allocated", "size", w.size)
		}

		w.data = make([]byte, w.size)
		w.phase = phaseData
	}

	if w.phase == phaseData {
		for w.received < w.size {
			n, err := r.Read(w.data[w.received:])
			w.received += int32(n)
			if err != nil {
				if isTimeout(err) {
					return false, false
				}
				deps.errs.record(deps.logger, deps.metrics, newError(ReceiveFailed, "Read failed mid-frame", err))
				resetWireMessage(w)
				return true, false
			}
			if n == 0 {
				return false, false
			}
		}
		if w.isComplete() {
			if !w.valid {
				resetWireMessage(w)
				return false, false
			}
			w.phase = phaseDispatch
		}
	}

	if w.phase == phaseDispatch {
		raised = !dispatch(w, deps)
		resetWireMessage(w)
	}

	return raised, false
}

// dispatch hands a complete, valid wire message off to the registry+codec
// and, on success, the receive queue and listeners. It reports whether
// the hand-off succeeded.
func dispatch(w *wireMessage, deps parserDeps) bool {
	if !deps.registry.HasType(w.typeID) {
		deps.errs.record(deps.logger, deps.metrics, newError(UnknownMessageType, "Unknown message type", nil))
		return false
	}

	msg, err := deps.registry.Create(w.typeID)
	if err != nil {
		deps.errs.record(deps.logger, deps.metrics, newError(UnknownMessageType, "Unknown message type", err))
		return false
	}

	if err := deps.codec.Parse(msg, w.data); err != nil {
		deps.errs.record(deps.logger, deps.metrics, newError(ParseFailed, "Failed to parse message", err))
		return false
	}

	deps.recvQ.enqueue(msg)
	deps.metrics.FrameReceived(w.typeID)
	deps.logger.Debug("message received", "type", w.typeID, "size", w.size)
	deps.listeners.fireMessageReceived()
	return true
}

// resetWireMessage clears a wireMessage back to a fresh Header phase,
// ready to parse the next frame. It is used both for a clean dispatch and
// for every discard path in the parser state table.
func resetWireMessage(w *wireMessage) {
	*w = wireMessage{valid: true}
}
