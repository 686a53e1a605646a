package ftp

import (
	"io"
	"os"

	"github.com/flightstack/govftp/internal/crc"
	"golang.org/x/sys/unix"
)

// chunkSize bounds how much is read at once while computing a CRC-32 over
// a whole file (§4.3).
const chunkSize = 4096

// FileSystem is the local source/sink of byte streams a Download, Upload
// or CompareFiles operation reads from or writes to (C3). The default
// implementation is [OSFileSystem]; tests substitute an in-memory one.
type FileSystem interface {
	// Create opens path for write, truncating it first. A failure here is
	// always terminal FileIoError (§4.3).
	Create(path string) (io.WriteCloser, error)

	// Open opens path for read and reports its size. A missing file must
	// be reported via [os.IsNotExist] on the returned error so the caller
	// can distinguish FileDoesNotExist from FileIoError; any other failure
	// is FileIoError.
	Open(path string) (io.ReadCloser, int64, error)

	// CRC32 computes the IEEE 802.3 CRC-32 of path's contents, in
	// chunkSize-sized reads, reporting FileDoesNotExist/FileIoError the
	// same way Open does.
	CRC32(path string) (uint32, error)
}

// OSFileSystem implements [FileSystem] against the local filesystem.
type OSFileSystem struct{}

// syncer is satisfied by *os.File; asserted on the return value of os.Create
// so a successful download can fsync before its terminal callback runs,
// giving the same "durably written" guarantee the teacher's bus layer
// gives for CAN state via its own cyclic Process call.
type syncer interface {
	Sync() error
}

func (OSFileSystem) Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (OSFileSystem) Open(path string) (io.ReadCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func (OSFileSystem) CRC32(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	acc := crc.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			acc.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	return acc.Sum32(), nil
}

// syncAndClose fsyncs w (if it supports it) before closing. Errors from
// Sync are logged, not propagated: a downloaded file that fails to sync is
// still a completed, readable download — the terminal result already
// reported Success to the server round-trip, matching the protocol's own
// view that the transfer is done once TERMINATE_SESSION is ACKed.
func syncAndClose(logger interface {
	Warnf(format string, args ...any)
}, w io.WriteCloser) {
	if s, ok := w.(syncer); ok {
		if f, ok := w.(interface{ Fd() uintptr }); ok {
			if err := unix.Fsync(int(f.Fd())); err != nil {
				logger.Warnf("ftp: fsync failed: %v", err)
			}
		} else if err := s.Sync(); err != nil {
			logger.Warnf("ftp: sync failed: %v", err)
		}
	}
	w.Close()
}
