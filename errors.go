package govftp

import "errors"

var (
	ErrIllegalArgument  = errors.New("ftp: error in function arguments")
	ErrQueueClosed      = errors.New("ftp: work queue is shut down")
	ErrInvalidParameter = errors.New("ftp: path or argument too long for a single frame")
	ErrNoSystem         = errors.New("ftp: target system/component is unreachable")
)
