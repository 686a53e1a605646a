package ftp

import "github.com/flightstack/govftp"

// pathOp drives a single request/response pair against a remote path (or a
// from/to path pair for rename): REMOVE_FILE, CREATE_DIRECTORY,
// REMOVE_DIRECTORY and RENAME all share this shape (§4.6.4).
type pathOp struct {
	opcode   govftp.Opcode
	path     string
	to       string // only set for rename
	callback ResultCallback
}

// NewRemove builds a work item that deletes a remote file.
func NewRemove(path string, callback ResultCallback) operation {
	return &pathOp{opcode: govftp.OpRemoveFile, path: path, callback: callback}
}

// NewCreateDir builds a work item that creates a remote directory.
func NewCreateDir(path string, callback ResultCallback) operation {
	return &pathOp{opcode: govftp.OpCreateDirectory, path: path, callback: callback}
}

// NewRemoveDir builds a work item that deletes a remote (empty) directory.
func NewRemoveDir(path string, callback ResultCallback) operation {
	return &pathOp{opcode: govftp.OpRemoveDirectory, path: path, callback: callback}
}

// NewRename builds a work item that renames a remote path.
func NewRename(from, to string, callback ResultCallback) operation {
	return &pathOp{opcode: govftp.OpRename, path: from, to: to, callback: callback}
}

func (p *pathOp) start(c *Client, env *envelope) bool {
	var ok bool
	if p.opcode == govftp.OpRename {
		ok = c.sendPathPair(env, p.opcode, p.path, p.to)
	} else {
		ok = c.sendPath(env, p.opcode, 0, 0, p.path)
	}
	if !ok {
		p.callback(govftp.ResultInvalidParameter)
		return false
	}
	return true
}

func (p *pathOp) handleAck(c *Client, env *envelope, resp *govftp.PayloadHeader) bool {
	p.callback(govftp.ResultSuccess)
	return false
}

func (p *pathOp) handleNak(c *Client, env *envelope, result govftp.Result) {
	p.callback(result)
}

func (p *pathOp) handleTimeout(c *Client) {
	p.callback(govftp.ResultTimeout)
}

func (p *pathOp) cancel(c *Client, result govftp.Result) {
	p.callback(result)
}
