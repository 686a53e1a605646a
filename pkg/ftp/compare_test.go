package ftp

import (
	"encoding/binary"
	"testing"

	"github.com/flightstack/govftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareFiles_Match(t *testing.T) {
	fs := newMemFileSystem()
	fs.files["/local.bin"] = []byte("hello world")
	sender := &fakeSender{}
	c, _ := newTestClient(sender, fs)

	var identical bool
	var result govftp.Result
	c.SubmitCompareFiles("/local.bin", "/remote.bin", func(r govftp.Result, eq bool) {
		result, identical = r, eq
	})
	c.DoWork()

	crcBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(crcBuf, crc32Of([]byte("hello world")))
	c.HandleFrame(1, 1, ackFor(sender.last().SeqNumber, govftp.OpCalcFileCRC32, 0, 0, crcBuf))

	require.Equal(t, govftp.ResultSuccess, result)
	assert.True(t, identical)
}

func TestCompareFiles_Mismatch(t *testing.T) {
	fs := newMemFileSystem()
	fs.files["/local.bin"] = []byte("hello world")
	sender := &fakeSender{}
	c, _ := newTestClient(sender, fs)

	var identical bool
	c.SubmitCompareFiles("/local.bin", "/remote.bin", func(r govftp.Result, eq bool) { identical = eq })
	c.DoWork()

	crcBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(crcBuf, 0xDEADBEEF)
	c.HandleFrame(1, 1, ackFor(sender.last().SeqNumber, govftp.OpCalcFileCRC32, 0, 0, crcBuf))

	assert.False(t, identical)
}

func TestCompareFiles_LocalMissing(t *testing.T) {
	fs := newMemFileSystem()
	sender := &fakeSender{}
	c, _ := newTestClient(sender, fs)

	var result govftp.Result
	c.SubmitCompareFiles("/missing.bin", "/remote.bin", func(r govftp.Result, eq bool) { result = r })
	c.DoWork()

	assert.Equal(t, govftp.ResultFileDoesNotExist, result)
	assert.Empty(t, sender.sent) // never touched the network
}
