package endpoint

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Endpoint is one side of a length-prefixed, message-oriented TCP
// connection. Configure it with Option values, then call
// Listen or Connect to spawn its dedicated worker thread. All socket I/O,
// parser advancement, state transitions, and listener notifications happen
// on that worker; application goroutines call only Send, TakeReceived,
// Close, and the accessor methods.
type Endpoint struct {
	registry TypeRegistry
	codec    PayloadCodec
	logger   Logger
	metrics  MetricsRecorder

	listeners *listenerSet
	errs      *errorRecord

	sendQ *messageQueue
	recvQ *messageQueue

	state int32 // State, accessed atomically for race-benign snapshots

	nextMu sync.Mutex
	next   State

	addr string
	port uint16

	conn          *net.TCPConn
	listenSock    *net.TCPListener
	wireMsg       *wireMessage
	lastKeepAlive time.Time

	workerStarted atomic.Bool
	closeOnce     sync.Once
	wg            sync.WaitGroup
}

// New constructs an Endpoint in the Initial state. WithTypeRegistry and
// WithPayloadCodec must both be supplied.
func New(opts ...Option) (*Endpoint, error) {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if err := checkConfig(&c); err != nil {
		return nil, err
	}

	listeners := &listenerSet{}
	e := &Endpoint{
		registry:  c.registry,
		codec:     c.codec,
		logger:    c.logger,
		metrics:   c.metrics,
		listeners: listeners,
		errs:      newErrorRecord(listeners),
		sendQ:     newMessageQueue(),
		recvQ:     newMessageQueue(),
		state:     int32(Initial),
		next:      Initial,
	}
	return e, nil
}

// AddListener registers l to receive all future StateChanged, MessageReceived,
// and Error notifications. Safe to call at any time.
func (e *Endpoint) AddListener(l Listener) {
	e.listeners.add(l)
}

// RegisterMessageType delegates registration to the configured TypeRegistry
// if it supports dynamic registration.
// Re-registering the same id is idempotent.
func (e *Endpoint) RegisterMessageType(id uint32, constructor func() Message) error {
	mutable, ok := e.registry.(MutableTypeRegistry)
	if !ok {
		return ErrUnregisteredType
	}
	mutable.Register(id, constructor)
	return nil
}

// State returns a snapshot of the current lifecycle state. Atomic
// load/store keeps the race detector quiet when application threads read
// it concurrently with the worker.
func (e *Endpoint) State() State {
	return State(atomic.LoadInt32(&e.state))
}

func (e *Endpoint) setState(s State) {
	atomic.StoreInt32(&e.state, int32(s))
}

func (e *Endpoint) setNext(s State) {
	e.nextMu.Lock()
	e.next = s
	e.nextMu.Unlock()
}

func (e *Endpoint) getNext() State {
	e.nextMu.Lock()
	defer e.nextMu.Unlock()
	return e.next
}

// advance sets the pending next-state from a tick handler's success path,
// unless a Closing requested by the application is already pending. Without
// the guard, a Close issued while the worker is blocked in dial or accept
// would be overwritten by the handler's own transition to Connected and the
// endpoint would never close. Failure paths (fatal errors, Closing to
// Closed) use setNext directly: a terminal transition always wins.
func (e *Endpoint) advance(s State) {
	e.nextMu.Lock()
	if e.next != Closing {
		e.next = s
	}
	e.nextMu.Unlock()
}

// LastError returns the most recently recorded Error and whether one has
// ever been recorded.
func (e *Endpoint) LastError() (Error, bool) {
	return e.errs.snapshot()
}

// Listen starts the worker thread in the listening role.
// It must be called from the Initial state; addr must parse as a dotted-
// quad IPv4 address.
func (e *Endpoint) Listen(addr string, port uint16) error {
	ip := net.ParseIP(addr)
	if ip == nil || ip.To4() == nil {
		return ErrInvalidAddress
	}
	if !e.startWorker() {
		return ErrNotInitial
	}
	e.addr, e.port = addr, port
	e.setNext(Opening)
	e.wg.Add(1)
	go e.run()
	return nil
}

// Connect starts the worker thread in the connecting role. It must be
// called from the Initial state.
func (e *Endpoint) Connect(addr string, port uint16) error {
	ip := net.ParseIP(addr)
	if ip == nil || ip.To4() == nil {
		return ErrInvalidAddress
	}
	if !e.startWorker() {
		return ErrNotInitial
	}
	e.addr, e.port = addr, port
	e.setNext(Connecting)
	e.wg.Add(1)
	go e.run()
	return nil
}

// startWorker atomically claims the right to start the worker thread,
// returning false if one has already been claimed (by a prior Listen,
// Connect, or a Close called before either). This guards against the
// race a plain State()==Initial check would have: Listen/Connect set
// next-state immediately but the atomic current State only catches up once
// the worker's first tick applies it.
func (e *Endpoint) startWorker() bool {
	return e.workerStarted.CompareAndSwap(false, true)
}

// Send enqueues msg for transmission and returns immediately. It is
// accepted regardless of the current state; if the endpoint reaches
// Closed or Error before the worker drains the queue, the enqueued
// messages are simply dropped along with the queue itself.
func (e *Endpoint) Send(msg Message) {
	e.sendQ.enqueue(msg)
	e.metrics.SendQueueDepth(e.sendQ.length())
}

// TakeReceived returns the next arrived message, if any.
func (e *Endpoint) TakeReceived() (Message, bool) {
	msg, ok := e.recvQ.dequeue()
	if ok {
		e.metrics.ReceiveQueueDepth(e.recvQ.length())
	}
	return msg, ok
}

// Close requests the endpoint close, returning immediately. It is
// idempotent, and legal from any non-terminal state. If the worker
// has never started (Close called from Initial), the transition to Closed
// happens synchronously since there is no worker tick to observe it.
func (e *Endpoint) Close() {
	e.closeOnce.Do(func() {
		if e.workerStarted.CompareAndSwap(false, true) {
			e.setState(Closed)
			e.listeners.fireStateChanged(Closed)
			e.metrics.StateChanged(Closed.String())
			return
		}
		e.setNext(Closing)
	})
}

// Wait blocks until the worker thread has exited. It is safe to call
// concurrently with Close, and returns immediately if the worker was never
// started.
func (e *Endpoint) Wait() {
	e.wg.Wait()
}

// run is the worker thread's tick loop. It drives the
// lifecycle state machine from whatever next-state Listen/Connect set,
// through to a terminal state.
func (e *Endpoint) run() {
	defer e.wg.Done()

	for {
		state := e.State()
		if state.IsTerminal() {
			return
		}

		switch state {
		case Opening:
			e.tickOpening()
		case Listening:
			e.tickListening()
		case Connecting:
			e.tickConnecting()
		case Connected:
			e.tickConnected()
		case Closing:
			e.tickClosing()
		default:
			// Initial: nothing to do; the worker only ever starts once
			// Listen/Connect has already moved next away from Initial.
		}

		e.applyNext()
	}
}

func (e *Endpoint) applyNext() {
	next := e.getNext()
	if next == e.State() {
		return
	}
	e.setState(next)
	e.logger.Info("endpoint state changed", "state", next.String())
	e.metrics.StateChanged(next.String())
	e.listeners.fireStateChanged(next)
}

func (e *Endpoint) tcpAddr() *net.TCPAddr {
	return &net.TCPAddr{IP: net.ParseIP(e.addr), Port: int(e.port)}
}

// tickOpening creates and binds the listening socket.
func (e *Endpoint) tickOpening() {
	ln, err := net.ListenTCP("tcp", e.tcpAddr())
	if err != nil {
		e.errs.record(e.logger, e.metrics, newError(BindFailed, "bind failed on "+e.addr+":"+strconv.Itoa(int(e.port)), err))
		e.setNext(StateError)
		return
	}
	e.listenSock = ln
	e.advance(Listening)
}

// tickListening accepts exactly one connection and replaces the listening
// socket with it. The accept carries the same 250ms
// deadline every recv does, so the worker still observes a pending Close
// at tick granularity instead of blocking in accept indefinitely; an
// uninterruptible accept would make Close a dead letter for an endpoint
// no peer ever dials.
func (e *Endpoint) tickListening() {
	_ = e.listenSock.SetDeadline(time.Now().Add(receiveTimeout))
	conn, err := e.listenSock.AcceptTCP()
	if err != nil {
		if isTimeout(err) {
			return
		}
		_ = e.listenSock.Close()
		e.listenSock = nil
		e.errs.record(e.logger, e.metrics, newError(AcceptFailed, "Could not accept the incoming connection", err))
		e.setNext(StateError)
		return
	}

	_ = e.listenSock.Close()
	e.listenSock = nil
	e.armConnection(conn)
	e.advance(Connected)
}

// tickConnecting dials the remote peer.
func (e *Endpoint) tickConnecting() {
	conn, err := net.DialTCP("tcp", nil, e.tcpAddr())
	if err != nil {
		e.errs.record(e.logger, e.metrics, newError(ConnectFailed, "connect failed to "+e.addr+":"+strconv.Itoa(int(e.port)), err))
		e.setNext(StateError)
		return
	}

	e.armConnection(conn)
	e.advance(Connected)
}

// armConnection applies the shared setup a freshly connected or accepted
// socket needs before it's usable from Connected: a 250ms receive timeout,
// the platform no-SIGPIPE flag, and a fresh in-flight wire message.
func (e *Endpoint) armConnection(conn *net.TCPConn) {
	_ = conn.SetReadDeadline(time.Now().Add(receiveTimeout))
	disableSIGPIPE(conn)
	e.conn = conn
	e.wireMsg = newWireMessage()
	e.lastKeepAlive = time.Now()
}

// tickConnected drains the send queue, advances the parser by one tick,
// and, if no error was raised during either, performs the keep-alive
// liveness check.
func (e *Endpoint) tickConnected() {
	errored := false
	for _, msg := range e.sendQ.takeAll() {
		if err := writeFrame(e.conn, e.registry, e.codec, msg); err != nil {
			e.errs.record(e.logger, e.metrics, newError(SendFailed, "send failed", err))
			errored = true
			continue
		}
		if typeID, err := e.registry.TypeID(msg); err == nil {
			e.metrics.FrameSent(typeID)
		}
	}
	e.metrics.SendQueueDepth(e.sendQ.length())

	_ = e.conn.SetReadDeadline(time.Now().Add(receiveTimeout))
	deps := parserDeps{
		registry:  e.registry,
		codec:     e.codec,
		recvQ:     e.recvQ,
		errs:      e.errs,
		listeners: e.listeners,
		logger:    e.logger,
		metrics:   e.metrics,
	}
	raised, fatal := tickParser(e.wireMsg, e.conn, deps)
	e.metrics.ReceiveQueueDepth(e.recvQ.length())

	if fatal {
		e.wireMsg = nil
		e.setNext(StateError)
		return
	}

	if !errored && !raised {
		e.checkKeepAlive()
	}
}

// checkKeepAlive transmits a keep-alive if keepAliveRate has elapsed since
// the last one, and raises ConnectionReset + Closing on send failure.
func (e *Endpoint) checkKeepAlive() {
	now := time.Now()
	if now.Sub(e.lastKeepAlive) < keepAliveRate {
		return
	}

	if err := sendKeepAlive(e.conn); err != nil {
		e.errs.record(e.logger, e.metrics, newError(ConnectionReset, "Connection reset by peer", err))
		e.setNext(Closing)
		return
	}

	e.metrics.KeepAliveSent()
	e.lastKeepAlive = now
}

// tickClosing closes the socket and transitions to Closed.
func (e *Endpoint) tickClosing() {
	if e.conn != nil {
		_ = e.conn.Close()
		e.conn = nil
	}
	if e.listenSock != nil {
		_ = e.listenSock.Close()
		e.listenSock = nil
	}
	e.setNext(Closed)
}
