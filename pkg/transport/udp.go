// Package transport provides a minimal UDP govftp.FrameSender for local
// testing and demos. It is not a MAVLink codec: production embedders wrap
// an actual MAVLink connection and decode FILE_TRANSFER_PROTOCOL messages
// themselves, handing the inner 251-byte payload to govftp.
package transport

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/flightstack/govftp/pkg/ftp"
)

// UDP frames every outbound payload behind a 2-byte
// (targetSystem, targetComponent) prefix and reverses the same framing on
// receive.
type UDP struct {
	conn *net.UDPConn
}

// DialUDP opens a UDP socket bound to localAddr and connected to remoteAddr.
// remoteAddr may carry a "udp://" prefix, as config endpoints do.
func DialUDP(localAddr, remoteAddr string) (*UDP, error) {
	remoteAddr = strings.TrimPrefix(remoteAddr, "udp://")
	local, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve local addr: %w", err)
	}
	remote, err := net.ResolveUDPAddr("udp", remoteAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve remote addr: %w", err)
	}
	conn, err := net.DialUDP("udp", local, remote)
	if err != nil {
		return nil, fmt.Errorf("transport: dial: %w", err)
	}
	return &UDP{conn: conn}, nil
}

// SendFrame implements govftp.FrameSender.
func (u *UDP) SendFrame(targetSystem, targetComponent uint8, payload []byte) error {
	buf := make([]byte, 2+len(payload))
	buf[0] = targetSystem
	buf[1] = targetComponent
	copy(buf[2:], payload)
	_, err := u.conn.Write(buf)
	return err
}

// Serve reads inbound datagrams and dispatches each one to client.HandleFrame
// until ctx is canceled or the socket errors.
func (u *UDP) Serve(ctx context.Context, client *ftp.Client) error {
	go func() {
		<-ctx.Done()
		u.conn.Close()
	}()
	buf := make([]byte, 2+ /* header */ 251)
	for {
		n, err := u.conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("transport: read: %w", err)
		}
		if n < 2 {
			continue
		}
		client.HandleFrame(buf[0], buf[1], buf[2:n])
	}
}

// Close closes the underlying socket.
func (u *UDP) Close() error { return u.conn.Close() }
