package ftp

import (
	"bytes"
	"sort"

	"github.com/flightstack/govftp"
)

// listDirOp drives repeated LIST_DIRECTORY requests, advancing by entry
// count (not byte count) until the server answers EOF (§4.6.6). Entries of
// kind EntrySkip are dropped from the result but still counted against the
// offset, since the server assigned them a slot in its own enumeration.
type listDirOp struct {
	remotePath string
	callback   ListDirCallback

	offset  uint32
	entries []string
}

// NewListDir builds a work item listing the contents of a remote directory.
func NewListDir(remotePath string, callback ListDirCallback) operation {
	return &listDirOp{remotePath: remotePath, callback: callback}
}

func (o *listDirOp) start(c *Client, env *envelope) bool {
	if !c.sendPath(env, govftp.OpListDirectory, 0, o.offset, o.remotePath) {
		o.callback(govftp.ResultInvalidParameter, nil)
		return false
	}
	return true
}

func (o *listDirOp) handleAck(c *Client, env *envelope, resp *govftp.PayloadHeader) bool {
	count := o.parseEntries(resp.Data[:resp.Size])
	o.offset += uint32(count)
	env.retriesLeft = retries
	if !c.sendPath(env, govftp.OpListDirectory, 0, o.offset, o.remotePath) {
		o.callback(govftp.ResultInvalidParameter, nil)
		return false
	}
	return true
}

// parseEntries splits data on NUL into DirEntry-prefixed names, appending
// non-skip entries to o.entries, and reports how many entries (including
// skipped ones) were present so the caller can advance offset correctly.
func (o *listDirOp) parseEntries(data []byte) int {
	count := 0
	for _, raw := range bytes.Split(data, []byte{0}) {
		if len(raw) == 0 {
			continue
		}
		count++
		entry := DirEntry{Kind: EntryKind(raw[0]), Name: string(raw[1:])}
		if entry.Kind == EntrySkip {
			continue
		}
		o.entries = append(o.entries, entry.String())
	}
	return count
}

func (o *listDirOp) handleNak(c *Client, env *envelope, result govftp.Result) {
	if result == govftp.ResultEOF {
		sort.Strings(o.entries)
		o.callback(govftp.ResultSuccess, o.entries)
		return
	}
	o.callback(result, nil)
}

func (o *listDirOp) handleTimeout(c *Client) {
	o.callback(govftp.ResultTimeout, nil)
}

func (o *listDirOp) cancel(c *Client, result govftp.Result) {
	o.callback(result, nil)
}
