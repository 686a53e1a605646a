package ftp

import (
	"encoding/binary"
	"io"
	"path/filepath"

	"github.com/flightstack/govftp"
)

// downloadOp drives OPEN_FILE_RO → READ_FILE* → TERMINATE_SESSION, writing
// each chunk to a local file as it arrives (§4.6.2).
type downloadOp struct {
	remotePath string
	localPath  string
	callback   ProgressCallback

	file             io.WriteCloser
	session          uint8
	fileSize         uint32
	bytesTransferred uint32
}

// NewDownload builds a Download work item: remotePath is read from the
// vehicle and written to localFolder/basename(remotePath).
func NewDownload(remotePath, localFolder string, callback ProgressCallback) operation {
	return &downloadOp{
		remotePath: remotePath,
		localPath:  filepath.Join(localFolder, filepath.Base(remotePath)),
		callback:   callback,
	}
}

func (d *downloadOp) start(c *Client, env *envelope) bool {
	f, err := c.fileSystem.Create(d.localPath)
	if err != nil {
		c.logger.WithError(err).Warnf("ftp: download: cannot open %s for write", d.localPath)
		d.callback(govftp.ResultFileIoError, ProgressData{})
		return false
	}
	d.file = f

	if !c.sendPath(env, govftp.OpOpenFileRO, 0, 0, d.remotePath) {
		syncAndClose(c.logger, d.file)
		d.callback(govftp.ResultInvalidParameter, ProgressData{})
		return false
	}
	return true
}

func (d *downloadOp) handleAck(c *Client, env *envelope, resp *govftp.PayloadHeader) bool {
	switch env.lastOpcode {
	case govftp.OpOpenFileRO:
		d.fileSize = binary.LittleEndian.Uint32(resp.Data[:4])
		d.session = resp.Session
		env.retriesLeft = retries
		if d.fileSize == 0 {
			c.send(env, govftp.OpTerminateSession, d.session, 0, nil)
			return true
		}
		d.requestNextChunk(c, env)
		return true

	case govftp.OpReadFile:
		n := uint32(resp.Size)
		if d.bytesTransferred+n > d.fileSize {
			n = d.fileSize - d.bytesTransferred
		}
		if n > 0 {
			if _, err := d.file.Write(resp.Data[:n]); err != nil {
				c.logger.WithError(err).Warn("ftp: download: local write failed")
				syncAndClose(c.logger, d.file)
				d.callback(govftp.ResultFileIoError, d.progress())
				return false
			}
		}
		d.bytesTransferred += n
		d.callback(govftp.ResultNext, d.progress())
		if d.bytesTransferred >= d.fileSize {
			c.send(env, govftp.OpTerminateSession, d.session, 0, nil)
			return true
		}
		env.retriesLeft = retries
		d.requestNextChunk(c, env)
		return true

	case govftp.OpTerminateSession:
		c.metrics.bytesDownloaded.Add(float64(d.bytesTransferred))
		syncAndClose(c.logger, d.file)
		d.callback(govftp.ResultSuccess, d.progress())
		return false

	default:
		return false
	}
}

func (d *downloadOp) requestNextChunk(c *Client, env *envelope) {
	remaining := d.fileSize - d.bytesTransferred
	size := uint32(govftp.MaxDataLength)
	if remaining < size {
		size = remaining
	}
	c.sendSized(env, govftp.OpReadFile, d.session, d.bytesTransferred, uint8(size))
}

func (d *downloadOp) handleNak(c *Client, env *envelope, result govftp.Result) {
	syncAndClose(c.logger, d.file)
	d.callback(result, d.progress())
}

func (d *downloadOp) handleTimeout(c *Client) {
	if d.file != nil {
		syncAndClose(c.logger, d.file)
	}
	d.callback(govftp.ResultTimeout, d.progress())
}

func (d *downloadOp) cancel(c *Client, result govftp.Result) {
	if d.file != nil {
		syncAndClose(c.logger, d.file)
	}
	d.callback(result, d.progress())
}

func (d *downloadOp) progress() ProgressData {
	return ProgressData{BytesTransferred: d.bytesTransferred, TotalBytes: d.fileSize}
}
