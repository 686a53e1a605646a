package ftp

import (
	"testing"

	"github.com/flightstack/govftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nakFor(seq uint16, reqOpcode govftp.Opcode, code govftp.ServerResult) []byte {
	h := govftp.PayloadHeader{
		SeqNumber: seq,
		Opcode:    govftp.OpNak,
		ReqOpcode: reqOpcode,
	}
	h.Size = uint8(copy(h.Data[:], []byte{byte(code)}))
	buf, _ := h.MarshalBinary()
	return buf
}

func TestListDir_TwoResponsesWithSkipFiltered(t *testing.T) {
	fs := newMemFileSystem()
	sender := &fakeSender{}
	c, _ := newTestClient(sender, fs)

	var entries []string
	var final govftp.Result
	c.SubmitListDir("/logs", func(result govftp.Result, got []string) {
		final = result
		entries = got
	})
	c.DoWork()

	req := sender.last()
	assert.Equal(t, govftp.OpListDirectory, req.Opcode)
	assert.Equal(t, uint32(0), req.Offset)

	first := append([]byte("Falpha.bin\x00Dbravo\x00"), 'S')
	first = append(first, []byte("charlie\x00")...)
	c.HandleFrame(1, 1, ackFor(req.SeqNumber, govftp.OpListDirectory, 0, req.Offset, first))

	req2 := sender.last()
	assert.Equal(t, uint32(3), req2.Offset) // alpha, bravo, and the skipped entry all counted

	second := []byte("Fdelta.bin\x00")
	c.HandleFrame(1, 1, ackFor(req2.SeqNumber, govftp.OpListDirectory, 0, req2.Offset, second))

	req3 := sender.last()
	c.HandleFrame(1, 1, nakFor(req3.SeqNumber, govftp.OpListDirectory, govftp.ServerEOF))

	require.Equal(t, govftp.ResultSuccess, final)
	assert.Equal(t, []string{"Dbravo", "Falpha.bin", "Fdelta.bin"}, entries) // lexicographically sorted
	assert.NotContains(t, entries, "Scharlie")
}
