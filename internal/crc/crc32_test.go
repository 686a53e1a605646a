package crc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesStandardVector(t *testing.T) {
	assert.EqualValues(t, 0xCBF43926, Bytes([]byte("123456789")))
}

func TestIncrementalMatchesSingleShot(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	single := Bytes(data)

	acc := New()
	acc.Write(data[:10])
	acc.Write(data[10:])
	assert.Equal(t, single, acc.Sum32())
}

func TestIdempotent(t *testing.T) {
	data := []byte("123456789")
	assert.Equal(t, Bytes(data), Bytes(data))
}

func TestReset(t *testing.T) {
	acc := New()
	acc.Write([]byte("123456789"))
	first := acc.Sum32()
	acc.Reset()
	acc.Write([]byte("123456789"))
	assert.Equal(t, first, acc.Sum32())
}
