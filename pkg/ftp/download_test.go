package ftp

import (
	"encoding/binary"
	"testing"

	"github.com/flightstack/govftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(sender govftp.FrameSender, fs FileSystem) (*Client, *fakeScheduler) {
	sched := newFakeScheduler()
	router := govftp.NewRouter(sender, 1, 1, 2, 2)
	c := NewClient(router, sched, WithFileSystem(fs))
	return c, sched
}

// ackFor builds a server ACK frame answering reqOpcode with session/offset/
// data, addressed back to the client.
func ackFor(seq uint16, reqOpcode govftp.Opcode, session uint8, offset uint32, data []byte) []byte {
	h := govftp.PayloadHeader{
		SeqNumber: seq,
		Session:   session,
		Opcode:    govftp.OpAck,
		ReqOpcode: reqOpcode,
		Offset:    offset,
	}
	if data != nil {
		h.Size = uint8(copy(h.Data[:], data))
	}
	buf, _ := h.MarshalBinary()
	return buf
}

func TestDownload_2000ByteFile(t *testing.T) {
	fs := newMemFileSystem()
	sender := &fakeSender{}
	c, _ := newTestClient(sender, fs)

	const fileSize = 2000
	var results []govftp.Result
	c.SubmitDownload("/log/001.bin", "/tmp", func(result govftp.Result, progress ProgressData) {
		results = append(results, result)
	})
	c.DoWork()

	require.Len(t, sender.sent, 1)
	assert.Equal(t, govftp.OpOpenFileRO, sender.last().Opcode)

	sizeBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(sizeBuf, fileSize)
	c.HandleFrame(1, 1, ackFor(sender.last().SeqNumber, govftp.OpOpenFileRO, 7, 0, sizeBuf))

	transferred := uint32(0)
	for transferred < fileSize {
		req := sender.last()
		assert.Equal(t, govftp.OpReadFile, req.Opcode)
		n := uint32(req.Size)
		chunk := make([]byte, n)
		c.HandleFrame(1, 1, ackFor(req.SeqNumber, govftp.OpReadFile, 7, req.Offset, chunk))
		transferred += n
	}

	assert.Equal(t, govftp.OpTerminateSession, sender.last().Opcode)
	c.HandleFrame(1, 1, ackFor(sender.last().SeqNumber, govftp.OpTerminateSession, 7, 0, nil))

	require.Len(t, results, 10) // 9 chunks (1912 + 88) worth of Next, then Success
	for _, r := range results[:9] {
		assert.Equal(t, govftp.ResultNext, r)
	}
	assert.Equal(t, govftp.ResultSuccess, results[9])
	assert.Equal(t, fileSize, len(fs.writes["/tmp/001.bin"].Bytes()))
}

func TestDownload_RetriesThenTimeout(t *testing.T) {
	fs := newMemFileSystem()
	sender := &fakeSender{}
	c, sched := newTestClient(sender, fs)

	var final govftp.Result
	var got bool
	c.SubmitDownload("/missing.bin", "/tmp", func(result govftp.Result, progress ProgressData) {
		if result != govftp.ResultNext {
			final = result
			got = true
		}
	})
	c.DoWork()

	for i := 0; i < retries; i++ {
		sched.fire()
	}

	require.True(t, got)
	assert.Equal(t, govftp.ResultTimeout, final)
	assert.Len(t, sender.sent, retries) // original send + (retries-1) retransmits
}

func TestDownload_OpenNak(t *testing.T) {
	fs := newMemFileSystem()
	sender := &fakeSender{}
	c, _ := newTestClient(sender, fs)

	var final govftp.Result
	c.SubmitDownload("/gone.bin", "/tmp", func(result govftp.Result, progress ProgressData) {
		if result != govftp.ResultNext {
			final = result
		}
	})
	c.DoWork()

	h := govftp.PayloadHeader{
		SeqNumber: sender.last().SeqNumber,
		Opcode:    govftp.OpNak,
		ReqOpcode: govftp.OpOpenFileRO,
	}
	h.Size = uint8(copy(h.Data[:], []byte{byte(govftp.ServerFileDoesNotExist)}))
	buf, _ := h.MarshalBinary()
	c.HandleFrame(1, 1, buf)

	assert.Equal(t, govftp.ResultFileDoesNotExist, final)
}
