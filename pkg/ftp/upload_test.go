package ftp

import (
	"testing"

	"github.com/flightstack/govftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_ZeroByteFile(t *testing.T) {
	fs := newMemFileSystem()
	fs.files["/empty.bin"] = []byte{}
	sender := &fakeSender{}
	c, _ := newTestClient(sender, fs)

	var results []govftp.Result
	c.SubmitUpload("/empty.bin", "/remote", func(r govftp.Result, p ProgressData) {
		results = append(results, r)
	})
	c.DoWork()

	require.Equal(t, govftp.OpCreateFile, sender.last().Opcode)
	c.HandleFrame(1, 1, ackFor(sender.last().SeqNumber, govftp.OpCreateFile, 3, 0, nil))

	require.Equal(t, govftp.OpTerminateSession, sender.last().Opcode)
	c.HandleFrame(1, 1, ackFor(sender.last().SeqNumber, govftp.OpTerminateSession, 3, 0, nil))

	require.Len(t, results, 2)
	assert.Equal(t, govftp.ResultNext, results[0])
	assert.Equal(t, govftp.ResultSuccess, results[1])
}

func TestUpload_MultiChunk(t *testing.T) {
	fs := newMemFileSystem()
	content := make([]byte, 500)
	for i := range content {
		content[i] = byte(i)
	}
	fs.files["/big.bin"] = content
	sender := &fakeSender{}
	c, _ := newTestClient(sender, fs)

	var results []govftp.Result
	c.SubmitUpload("/big.bin", "/remote", func(r govftp.Result, p ProgressData) {
		results = append(results, r)
	})
	c.DoWork()

	c.HandleFrame(1, 1, ackFor(sender.last().SeqNumber, govftp.OpCreateFile, 9, 0, nil))

	sent := uint32(0)
	for sent < uint32(len(content)) {
		req := sender.last()
		require.Equal(t, govftp.OpWriteFile, req.Opcode)
		sent += uint32(req.Size)
		c.HandleFrame(1, 1, ackFor(req.SeqNumber, govftp.OpWriteFile, 9, req.Offset, nil))
	}
	c.HandleFrame(1, 1, ackFor(sender.last().SeqNumber, govftp.OpTerminateSession, 9, 0, nil))

	require.Len(t, results, 5) // chunks of 239 + 239 + 22 (four Next), then Success
	for _, r := range results[:4] {
		assert.Equal(t, govftp.ResultNext, r)
	}
	assert.Equal(t, govftp.ResultSuccess, results[4])
}
