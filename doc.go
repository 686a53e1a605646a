// Package govftp implements the client side of the MAVLink File Transfer
// Protocol: a stop-and-wait request/response protocol for downloading,
// uploading and listing files on a remote vehicle over a low-bandwidth
// telemetry link.
//
// The protocol itself is carried as a fixed 251-byte opaque payload inside
// an outer telemetry message (MAVLINK_MSG_ID_FILE_TRANSFER_PROTOCOL); this
// package only concerns itself with that payload. Framing, transport and
// multi-vehicle routing are supplied by the embedder through the
// [FrameSender] and [Scheduler] interfaces.
package govftp
