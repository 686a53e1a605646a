package ftp

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/flightstack/govftp"
	"github.com/flightstack/govftp/internal/crc"
)

func crc32Of(data []byte) uint32 {
	return crc.Bytes(data)
}

// fakeScheduler is a deterministic stand-in for govftp.Scheduler: nothing
// fires on its own, tests advance time explicitly by calling fire.
type fakeScheduler struct {
	pending map[int]func()
	next    int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{pending: make(map[int]func())}
}

func (s *fakeScheduler) Schedule(d time.Duration, cb func()) any {
	s.next++
	id := s.next
	s.pending[id] = cb
	return id
}

func (s *fakeScheduler) Cancel(cookie any) {
	delete(s.pending, cookie.(int))
}

// fire invokes the single currently-pending callback, simulating its
// timeout elapsing. It panics if zero or more than one timer is pending,
// since the engine only ever arms one timer at a time.
func (s *fakeScheduler) fire() {
	if len(s.pending) != 1 {
		panic("fakeScheduler: expected exactly one pending timer")
	}
	for id, cb := range s.pending {
		delete(s.pending, id)
		cb()
	}
}

// fakeSender records every frame handed to it and lets a test synthesize a
// server response addressed back to the client under test.
type fakeSender struct {
	sent []govftp.PayloadHeader
}

func (f *fakeSender) SendFrame(targetSystem, targetComponent uint8, payload []byte) error {
	var h govftp.PayloadHeader
	if err := h.UnmarshalBinary(payload); err != nil {
		return err
	}
	f.sent = append(f.sent, h)
	return nil
}

func (f *fakeSender) last() govftp.PayloadHeader {
	return f.sent[len(f.sent)-1]
}

// memFile is an in-memory io.WriteCloser used by tests in place of a real
// file so Download tests don't touch disk.
type memFile struct {
	buf *bytes.Buffer
}

func (m *memFile) Write(p []byte) (int, error) { return m.buf.Write(p) }
func (m *memFile) Close() error                { return nil }

// memFileSystem is an in-memory FileSystem: files map path to contents.
type memFileSystem struct {
	files map[string][]byte
	writes map[string]*bytes.Buffer
}

func newMemFileSystem() *memFileSystem {
	return &memFileSystem{files: make(map[string][]byte), writes: make(map[string]*bytes.Buffer)}
}

func (m *memFileSystem) Create(path string) (io.WriteCloser, error) {
	buf := &bytes.Buffer{}
	m.writes[path] = buf
	return &memFile{buf: buf}, nil
}

func (m *memFileSystem) Open(path string) (io.ReadCloser, int64, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, 0, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (m *memFileSystem) CRC32(path string) (uint32, error) {
	data, ok := m.files[path]
	if !ok {
		return 0, os.ErrNotExist
	}
	return crc32Of(data), nil
}

var errInjected = errors.New("injected failure")
