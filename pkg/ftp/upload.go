package ftp

import (
	"io"
	"os"
	stdpath "path"
	"path/filepath"

	"github.com/flightstack/govftp"
)

// uploadOp drives CREATE_FILE → WRITE_FILE* → TERMINATE_SESSION, reading
// each chunk from a local file before it is sent (§4.6.3). Progress is
// reported as bytes sent, not bytes acked: the callback fires immediately
// after a chunk is handed to the router, since a retransmitted chunk is the
// same bytes and would otherwise double-count.
type uploadOp struct {
	localPath  string
	remotePath string
	callback   ProgressCallback

	reader   io.ReadCloser
	fileSize uint32
	sent     uint32
	session  uint8
	chunk    [govftp.MaxDataLength]byte
}

// NewUpload builds an Upload work item: localPath is read from disk and
// written to remoteFolder/basename(localPath).
func NewUpload(localPath, remoteFolder string, callback ProgressCallback) operation {
	return &uploadOp{
		localPath:  localPath,
		remotePath: stdpath.Join(remoteFolder, filepath.Base(localPath)),
		callback:   callback,
	}
}

func (u *uploadOp) start(c *Client, env *envelope) bool {
	r, size, err := c.fileSystem.Open(u.localPath)
	if err != nil {
		result := govftp.ResultFileIoError
		if os.IsNotExist(err) {
			result = govftp.ResultFileDoesNotExist
		}
		c.logger.WithError(err).Warnf("ftp: upload: cannot stat local file %s", u.localPath)
		u.callback(result, ProgressData{})
		return false
	}
	u.reader = r
	u.fileSize = uint32(size)

	if !c.sendPath(env, govftp.OpCreateFile, 0, 0, u.remotePath) {
		u.reader.Close()
		u.callback(govftp.ResultInvalidParameter, ProgressData{})
		return false
	}
	return true
}

func (u *uploadOp) handleAck(c *Client, env *envelope, resp *govftp.PayloadHeader) bool {
	switch env.lastOpcode {
	case govftp.OpCreateFile:
		u.session = resp.Session
		env.retriesLeft = retries
		if u.fileSize == 0 {
			u.callback(govftp.ResultNext, u.progress())
			c.send(env, govftp.OpTerminateSession, u.session, 0, nil)
			return true
		}
		return u.sendNextChunk(c, env)

	case govftp.OpWriteFile:
		env.retriesLeft = retries
		if u.sent >= u.fileSize {
			u.callback(govftp.ResultNext, u.progress())
			c.send(env, govftp.OpTerminateSession, u.session, 0, nil)
			return true
		}
		return u.sendNextChunk(c, env)

	case govftp.OpTerminateSession:
		c.metrics.bytesUploaded.Add(float64(u.sent))
		u.reader.Close()
		u.callback(govftp.ResultSuccess, u.progress())
		return false

	default:
		return false
	}
}

// sendNextChunk reads the next chunk at the current offset and sends it,
// reporting progress for the bytes just handed to the router.
func (u *uploadOp) sendNextChunk(c *Client, env *envelope) bool {
	n, err := io.ReadFull(u.reader, u.chunk[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		c.logger.WithError(err).Warn("ftp: upload: local read failed")
		u.reader.Close()
		u.callback(govftp.ResultFileIoError, u.progress())
		return false
	}
	offset := u.sent
	c.send(env, govftp.OpWriteFile, u.session, offset, u.chunk[:n])
	u.sent += uint32(n)
	u.callback(govftp.ResultNext, u.progress())
	return true
}

func (u *uploadOp) handleNak(c *Client, env *envelope, result govftp.Result) {
	u.reader.Close()
	u.callback(result, u.progress())
}

func (u *uploadOp) handleTimeout(c *Client) {
	if u.reader != nil {
		u.reader.Close()
	}
	u.callback(govftp.ResultTimeout, u.progress())
}

func (u *uploadOp) cancel(c *Client, result govftp.Result) {
	if u.reader != nil {
		u.reader.Close()
	}
	u.callback(result, u.progress())
}

func (u *uploadOp) progress() ProgressData {
	return ProgressData{BytesTransferred: u.sent, TotalBytes: u.fileSize}
}
