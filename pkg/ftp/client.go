package ftp

import (
	"sync"
	"time"

	"github.com/flightstack/govftp"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout is the per-request retry timeout used when NewClient is
// not given one explicitly.
const DefaultTimeout = 500 * time.Millisecond

// Client drives the head of a single-in-flight work queue through its
// protocol state machine (C5 + C6): it starts the head item, continues it
// on ACK, retransmits the cached frame on timeout, and terminates it on
// success, NAK or retry exhaustion. It also exposes the blocking and
// callback-style submission entry points (C7).
//
// A single mutex serializes the four surfaces that touch the queue head:
// DoWork (the dispatcher), HandleFrame (the response handler), the timer
// firing, and the Submit* methods (user submission) — see §5. It is held
// for the full duration of variant dispatch, including user callbacks;
// callbacks must not re-enter the Client on the same goroutine.
type Client struct {
	router     *govftp.Router
	scheduler  govftp.Scheduler
	logger     *logrus.Entry
	metrics    *Metrics
	fileSystem FileSystem
	timeout    time.Duration

	mu         sync.Mutex
	queue      workQueue
	seqCounter uint16
	timer      *govftp.Timer
	closed     bool
}

// Option configures a Client constructed by NewClient.
type Option func(*Client)

// WithLogger overrides the default logrus logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics overrides the default (unregistered) metrics collectors.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithFileSystem overrides the default OS-backed local I/O.
func WithFileSystem(fs FileSystem) Option {
	return func(c *Client) { c.fileSystem = fs }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient constructs a Client that sends frames through router and
// schedules retry timeouts through scheduler.
func NewClient(router *govftp.Router, scheduler govftp.Scheduler, opts ...Option) *Client {
	c := &Client{
		router:     router,
		scheduler:  scheduler,
		logger:     logrus.NewEntry(logrus.StandardLogger()),
		metrics:    newNopMetrics(),
		fileSystem: OSFileSystem{},
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.timer = govftp.NewTimer(scheduler, c.timeout, c.onTimeout)
	return c
}

// enqueue appends op to the tail and, if it is now the head, nothing more
// happens here — starting the head item is the dispatcher's job, invoked
// on the next DoWork tick, exactly as the teacher's queue only ever reacts
// to the next external do_work call rather than auto-starting on push. It
// reports [govftp.ErrQueueClosed] instead of pushing once the client has
// been closed: nothing enqueued after Close would ever be dispatched, so
// silently accepting it would strand the caller's callback forever.
func (c *Client) enqueue(op operation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return govftp.ErrQueueClosed
	}
	c.queue.push(newEnvelope(op))
	return nil
}

// isClosed reports whether Close has already run.
func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// DoWork is the dispatcher (C5), invoked externally on a steady cadence.
// It starts the head of the queue if it hasn't been started yet; it is a
// no-op if the queue is empty or already waiting on a response/timeout.
func (c *Client) DoWork() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	env := c.queue.head()
	if env == nil || env.started {
		return
	}
	env.started = true
	c.logger.WithField("req_id", env.id).Debug("ftp: starting queued operation")
	if !env.op.start(c, env) {
		c.queue.pop()
		return
	}
	c.timer.Start()
}

// HandleFrame is the response handler (C6.1), invoked by the embedder for
// every inbound FTP-carrying carrier message. targetSystem/targetComponent
// come from the outer carrier message's own addressing fields, not the FTP
// payload; a frame that fails [govftp.Router.Accepts] is dropped with a
// warning before the payload is even decoded.
func (c *Client) HandleFrame(targetSystem, targetComponent uint8, raw []byte) {
	if !c.router.Accepts(targetSystem, targetComponent) {
		c.logger.Warnf("ftp: dropping frame addressed to system %d component %d", targetSystem, targetComponent)
		return
	}

	var resp govftp.PayloadHeader
	if err := resp.UnmarshalBinary(raw); err != nil {
		c.logger.WithError(err).Warn("ftp: dropping malformed frame")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	env := c.queue.head()
	if env == nil {
		c.logger.Debug("ftp: dropping response, no work in flight")
		return
	}
	if resp.ReqOpcode != env.lastOpcode {
		c.logger.WithField("req_id", env.id).Warnf("ftp: dropping stale response for opcode %s, expected %s", resp.ReqOpcode, env.lastOpcode)
		return
	}
	if env.lastReceivedSeqNumber != 0 && resp.SeqNumber == env.lastReceivedSeqNumber {
		c.logger.WithField("req_id", env.id).Debug("ftp: dropping duplicate response")
		return
	}

	if resp.Opcode == govftp.OpNak {
		result := govftp.DecodeNakResult(resp.Data[:resp.Size])
		c.terminate(env)
		env.op.handleNak(c, env, result)
		return
	}
	if resp.Opcode != govftp.OpAck {
		c.logger.Warnf("ftp: dropping response with unexpected opcode %s", resp.Opcode)
		return
	}

	stillInFlight := env.op.handleAck(c, env, &resp)
	env.lastReceivedSeqNumber = resp.SeqNumber
	if stillInFlight {
		c.timer.Start()
		return
	}
	c.terminate(env)
}

// onTimeout is the timer's fire callback (C6.7). If retries remain, it
// re-arms the timer and retransmits the cached frame byte-for-byte;
// otherwise it delivers Timeout and pops the head.
func (c *Client) onTimeout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	env := c.queue.head()
	if env == nil {
		return
	}
	env.retriesLeft--
	if env.retriesLeft == 0 {
		c.logger.WithField("req_id", env.id).Warn("ftp: retries exhausted, abandoning operation")
		c.metrics.timeouts.Inc()
		env.op.handleTimeout(c)
		c.queue.pop()
		return
	}
	c.logger.WithField("req_id", env.id).Debugf("ftp: retransmitting, %d retries left", env.retriesLeft)
	c.metrics.retransmits.Inc()
	c.timer.Start()
	c.retransmit(env)
}

// terminate stops the timer and pops the head; callers still run the
// variant's terminal handler themselves so that, from the operation's own
// point of view, "terminate" and "deliver the callback" always happen
// together.
func (c *Client) terminate(env *envelope) {
	c.timer.Stop()
	c.queue.pop()
}

// Close flushes any pending work with ResultUnknown/ResultTimeout
// callbacks and stops the timer, per the shutdown policy in §5. The
// in-flight head (if any) gets Timeout; anything still queued behind it
// gets Unknown, since it never even started.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.timer.Stop()

	envs := c.queue.drain()
	for i, env := range envs {
		if i == 0 && env.started {
			env.op.cancel(c, govftp.ResultTimeout)
		} else {
			env.op.cancel(c, govftp.ResultUnknown)
		}
	}
}
