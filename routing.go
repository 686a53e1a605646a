package govftp

import "sync"

// FrameSender hands an encoded carrier message to the transport. The
// embedder is responsible for wrapping the raw FrameSize-byte payload into
// MAVLINK_MSG_ID_FILE_TRANSFER_PROTOCOL and delivering it.
type FrameSender interface {
	SendFrame(targetSystem, targetComponent uint8, payload []byte) error
}

// Router owns the own-vs-target system/component identifiers used when
// encoding outbound frames and filtering inbound ones (C9). It mirrors the
// teacher's BusManager in shape — a small synchronized wrapper around the
// transport collaborator — but keyed on system/component id pairs instead
// of CAN arbitration ids.
type Router struct {
	mu sync.Mutex

	sender FrameSender

	ownSystem    uint8
	ownComponent uint8

	targetSystem    uint8
	autopilotComponent uint8
	componentOverride  *uint8
}

// NewRouter constructs a Router for communication with targetSystem, whose
// default component is autopilotComponent unless overridden with
// [Router.SetTargetComponent].
func NewRouter(sender FrameSender, ownSystem, ownComponent, targetSystem, autopilotComponent uint8) *Router {
	return &Router{
		sender:             sender,
		ownSystem:          ownSystem,
		ownComponent:       ownComponent,
		targetSystem:       targetSystem,
		autopilotComponent: autopilotComponent,
	}
}

// SetTargetComponent overrides the destination component id for the
// client's lifetime; it sticks until changed again.
func (r *Router) SetTargetComponent(component uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.componentOverride = &component
}

// targetComponent resolves the current destination component id.
func (r *Router) targetComponent() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.componentOverride != nil {
		return *r.componentOverride
	}
	return r.autopilotComponent
}

// Send encodes and hands payload to the transport, addressed to the
// current target system/component.
func (r *Router) Send(payload []byte) error {
	return r.sender.SendFrame(r.targetSystem, r.targetComponent(), payload)
}

// Accepts reports whether an inbound frame's target fields pass the
// filter: zero (broadcast) or matching our own system/component id.
// Anything else must be dropped with a warning by the caller.
func (r *Router) Accepts(targetSystem, targetComponent uint8) bool {
	if targetSystem != 0 && targetSystem != r.ownSystem {
		return false
	}
	if targetComponent != 0 && targetComponent != r.ownComponent {
		return false
	}
	return true
}
