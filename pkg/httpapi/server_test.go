package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flightstack/govftp"
	"github.com/flightstack/govftp/pkg/ftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanSender hands every outbound frame to a channel instead of a real
// transport, so a background goroutine can answer it without re-entering
// the client's own mutex from inside Send.
type chanSender struct {
	out chan govftp.PayloadHeader
}

func (s *chanSender) SendFrame(targetSystem, targetComponent uint8, payload []byte) error {
	var h govftp.PayloadHeader
	if err := h.UnmarshalBinary(payload); err != nil {
		return err
	}
	s.out <- h
	return nil
}

func ackFor(seq uint16, reqOpcode govftp.Opcode, session uint8) []byte {
	h := govftp.PayloadHeader{SeqNumber: seq, Session: session, Opcode: govftp.OpAck, ReqOpcode: reqOpcode}
	buf, _ := h.MarshalBinary()
	return buf
}

// newTestServer wires a Server to a real Client, answering every outbound
// request with an immediate ACK on its own opcode/session, exactly the
// shape a single-request path operation (remove, mkdir, rename, ...) needs.
func newTestServer(respond bool) (*Server, func()) {
	sender := &chanSender{out: make(chan govftp.PayloadHeader, 8)}
	router := govftp.NewRouter(sender, 1, 1, 2, 2)
	scheduler := govftp.NewRealTimeScheduler()
	client := ftp.NewClient(router, scheduler, ftp.WithTimeout(50*time.Millisecond))
	server := NewServer(client, WithOperationTimeout(2*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				client.DoWork()
			case h := <-sender.out:
				if respond {
					client.HandleFrame(1, 1, ackFor(h.SeqNumber, h.Opcode, h.Session))
				}
			}
		}
	}()
	return server, cancel
}

func TestHandleRemove_Success(t *testing.T) {
	server, cancel := newTestServer(true)
	defer cancel()

	body, _ := json.Marshal(pathRequest{Path: "/foo.bin"})
	req := httptest.NewRequest("POST", "/remove", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	server.handleRemove(rec, req)

	require.Equal(t, 200, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["result"])
}

func TestHandleListDir_BadRequestBody(t *testing.T) {
	server, cancel := newTestServer(true)
	defer cancel()

	req := httptest.NewRequest("POST", "/list", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	server.handleListDir(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestHandleCreateDir_Timeout(t *testing.T) {
	server, cancel := newTestServer(false) // no acks ever sent
	server.opTimeout = 30 * time.Millisecond
	defer cancel()

	body, _ := json.Marshal(pathRequest{Path: "/new"})
	req := httptest.NewRequest("POST", "/mkdir", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	server.handleCreateDir(rec, req)

	assert.Equal(t, 502, rec.Code)
	assert.Contains(t, rec.Body.String(), "context deadline exceeded")
}
