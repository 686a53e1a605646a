package ftp

import (
	"encoding/binary"
	"os"

	"github.com/flightstack/govftp"
)

// compareOp computes a local CRC-32 before ever touching the network, then
// asks the server to compute the same over its own copy of the file and
// compares the two (§4.6.5). A local read failure is terminal before any
// frame is sent.
type compareOp struct {
	localPath  string
	remotePath string
	callback   CompareCallback

	localCRC uint32
}

// NewCompareFiles builds a work item comparing localPath's CRC-32 against
// remotePath's.
func NewCompareFiles(localPath, remotePath string, callback CompareCallback) operation {
	return &compareOp{localPath: localPath, remotePath: remotePath, callback: callback}
}

func (o *compareOp) start(c *Client, env *envelope) bool {
	crc, err := c.fileSystem.CRC32(o.localPath)
	if err != nil {
		result := govftp.ResultFileIoError
		if os.IsNotExist(err) {
			result = govftp.ResultFileDoesNotExist
		}
		c.logger.WithError(err).Warnf("ftp: compare: cannot read local file %s", o.localPath)
		o.callback(result, false)
		return false
	}
	o.localCRC = crc

	if !c.sendPath(env, govftp.OpCalcFileCRC32, 0, 0, o.remotePath) {
		o.callback(govftp.ResultInvalidParameter, false)
		return false
	}
	return true
}

func (o *compareOp) handleAck(c *Client, env *envelope, resp *govftp.PayloadHeader) bool {
	remoteCRC := binary.LittleEndian.Uint32(resp.Data[:4])
	o.callback(govftp.ResultSuccess, remoteCRC == o.localCRC)
	return false
}

func (o *compareOp) handleNak(c *Client, env *envelope, result govftp.Result) {
	o.callback(result, false)
}

func (o *compareOp) handleTimeout(c *Client) {
	o.callback(govftp.ResultTimeout, false)
}

func (o *compareOp) cancel(c *Client, result govftp.Result) {
	o.callback(result, false)
}
