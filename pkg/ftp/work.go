package ftp

import (
	"fmt"

	"github.com/flightstack/govftp"
	"github.com/rs/xid"
)

// retries is the number of timer fires a work item survives: each fire
// decrements it, and the fire that brings it to zero abandons the item with
// ResultTimeout, so at most retries-1 retransmissions follow the initial send
// (§3, RETRIES = 4).
const retries = 4

// operation is the variant interface each work-item kind implements (C4).
// The engine never switches on concrete type: it only ever calls through
// this interface, so a bug in one variant's handler cannot leak state into
// another's — the same isolation the teacher gets from its SDO state-enum
// switch, achieved here with Go interfaces instead of a tagged union.
type operation interface {
	// start sends the first request for this operation. It returns false
	// if the operation could not even begin (a local pre-flight failure);
	// in that case it must already have invoked its terminal callback.
	start(e *Client, env *envelope) bool

	// handleAck processes an in-sequence ACK whose req_opcode matches this
	// envelope's last outbound opcode. It returns true if another request
	// was sent and the caller should re-arm the timer, or false if the
	// operation reached a terminal state on its own (already invoked its
	// callback and released its resources).
	handleAck(e *Client, env *envelope, resp *govftp.PayloadHeader) bool

	// handleNak delivers the translated terminal result of a NAK.
	handleNak(e *Client, env *envelope, result govftp.Result)

	// handleTimeout delivers ResultTimeout after retries are exhausted.
	handleTimeout(e *Client)

	// cancel delivers result as a terminal outcome without a round-trip,
	// used to flush the queue on shutdown.
	cancel(e *Client, result govftp.Result)
}

// envelope wraps an operation with the in-flight mutable state shared by
// every variant (the "work envelope" of §3).
type envelope struct {
	id  xid.ID
	op  operation

	started            bool
	lastOpcode         govftp.Opcode
	lastSentSeqNumber  uint16
	lastReceivedSeqNumber uint16
	retriesLeft        uint8
	payload            govftp.PayloadHeader
}

func newEnvelope(op operation) *envelope {
	return &envelope{
		id:          xid.New(),
		op:          op,
		retriesLeft: retries,
	}
}

// send fills env.payload with a freshly built header for opcode/session/
// offset/data, caches it verbatim for retransmission, and hands it to the
// router. The same cached copy is replayed byte-for-byte by the timeout
// path.
func (c *Client) send(env *envelope, opcode govftp.Opcode, session uint8, offset uint32, data []byte) {
	h := govftp.PayloadHeader{}
	c.seqCounter++
	h.SeqNumber = c.seqCounter
	h.Session = session
	h.Opcode = opcode
	h.Offset = offset
	if data != nil {
		h.Size = uint8(copy(h.Data[:], data))
	}
	env.payload = h
	env.lastOpcode = opcode
	env.lastSentSeqNumber = h.SeqNumber
	c.transmit(env)
}

// sendSized builds and sends a request header carrying no data payload but
// an explicit Size field — the shape READ_FILE requests use to hint the
// number of bytes wanted at offset.
func (c *Client) sendSized(env *envelope, opcode govftp.Opcode, session uint8, offset uint32, size uint8) {
	h := govftp.PayloadHeader{}
	c.seqCounter++
	h.SeqNumber = c.seqCounter
	h.Session = session
	h.Opcode = opcode
	h.Offset = offset
	h.Size = size
	env.payload = h
	env.lastOpcode = opcode
	env.lastSentSeqNumber = h.SeqNumber
	c.transmit(env)
}

// sendPath builds and sends a request whose data is a single null-terminated
// path. It reports false without sending if path doesn't fit in a frame.
func (c *Client) sendPath(env *envelope, opcode govftp.Opcode, session uint8, offset uint32, path string) bool {
	h := govftp.PayloadHeader{}
	if !h.putPath(path) {
		return false
	}
	c.seqCounter++
	h.SeqNumber = c.seqCounter
	h.Session = session
	h.Opcode = opcode
	h.Offset = offset
	env.payload = h
	env.lastOpcode = opcode
	env.lastSentSeqNumber = h.SeqNumber
	c.transmit(env)
	return true
}

// sendPathPair builds and sends a request whose data is a from\0to\0 pair
// (RENAME). It reports false without sending if the pair doesn't fit.
func (c *Client) sendPathPair(env *envelope, opcode govftp.Opcode, from, to string) bool {
	h := govftp.PayloadHeader{}
	if !h.putPathPair(from, to) {
		return false
	}
	c.seqCounter++
	h.SeqNumber = c.seqCounter
	h.Session = 0
	h.Opcode = opcode
	env.payload = h
	env.lastOpcode = opcode
	env.lastSentSeqNumber = h.SeqNumber
	c.transmit(env)
	return true
}

// retransmit replays the cached frame byte-for-byte: same sequence number,
// session, offset, opcode and data as the original send.
func (c *Client) retransmit(env *envelope) {
	c.transmit(env)
}

// transmit hands env's cached payload to the router. A send failure here
// means the transport itself rejected the frame, not a protocol-level
// NAK, so it's reported under ErrNoSystem — the in-flight item is left to
// time out and retry exactly as it would for any other silent loss.
func (c *Client) transmit(env *envelope) {
	buf, _ := env.payload.MarshalBinary()
	if err := c.router.Send(buf); err != nil {
		c.logger.WithError(fmt.Errorf("%w: %v", govftp.ErrNoSystem, err)).
			WithField("req_id", env.id).Warn("ftp: failed to send frame")
	}
	c.metrics.framesSent.Inc()
}
