package ftp

import (
	"context"

	"github.com/flightstack/govftp"
)

// terminalError turns a non-success terminal Result into an error, the way
// a caller blocking on one of the Do* methods below expects.
func terminalError(result govftp.Result) error {
	if result == govftp.ResultSuccess {
		return nil
	}
	return &govftp.OperationError{Result: result}
}

// validatePath rejects an empty path outright (ErrIllegalArgument) and one
// that could never fit a single frame's path encoding (ErrInvalidParameter),
// before any work ever reaches the queue.
func validatePath(path string) error {
	if path == "" {
		return govftp.ErrIllegalArgument
	}
	if len(path)+1 > govftp.MaxDataLength {
		return govftp.ErrInvalidParameter
	}
	return nil
}

func validatePathPair(from, to string) error {
	if from == "" || to == "" {
		return govftp.ErrIllegalArgument
	}
	if len(from)+1+len(to)+1 > govftp.MaxDataLength {
		return govftp.ErrInvalidParameter
	}
	return nil
}

// submitFailed reports whether enqueuing op failed, logging and firing
// callback with ResultUnknown if so, so a Submit* call after Close still
// delivers exactly one terminal callback instead of stranding the caller.
func (c *Client) submitFailed(err error, callback func(govftp.Result)) bool {
	if err == nil {
		return false
	}
	c.logger.WithError(err).Warn("ftp: rejected submission")
	callback(govftp.ResultUnknown)
	return true
}

// SubmitDownload enqueues a Download and returns immediately; callback is
// invoked with ResultNext for each chunk written and exactly once more with
// the terminal result.
func (c *Client) SubmitDownload(remotePath, localFolder string, callback ProgressCallback) {
	if err := validatePath(remotePath); err != nil {
		callback(govftp.ResultInvalidParameter, ProgressData{})
		return
	}
	c.submitFailed(c.enqueue(NewDownload(remotePath, localFolder, callback)), func(r govftp.Result) {
		callback(r, ProgressData{})
	})
}

// Download blocks until the transfer reaches a terminal result or ctx is
// canceled.
func (c *Client) Download(ctx context.Context, remotePath, localFolder string) (ProgressData, error) {
	if err := validatePath(remotePath); err != nil {
		return ProgressData{}, err
	}
	if c.isClosed() {
		return ProgressData{}, govftp.ErrQueueClosed
	}
	done := make(chan struct {
		result   govftp.Result
		progress ProgressData
	}, 1)
	c.SubmitDownload(remotePath, localFolder, func(result govftp.Result, progress ProgressData) {
		if result == govftp.ResultNext {
			return
		}
		done <- struct {
			result   govftp.Result
			progress ProgressData
		}{result, progress}
	})
	select {
	case <-ctx.Done():
		return ProgressData{}, ctx.Err()
	case r := <-done:
		return r.progress, terminalError(r.result)
	}
}

// SubmitUpload enqueues an Upload and returns immediately.
func (c *Client) SubmitUpload(localPath, remoteFolder string, callback ProgressCallback) {
	if err := validatePath(localPath); err != nil {
		callback(resultFor(err), ProgressData{})
		return
	}
	c.submitFailed(c.enqueue(NewUpload(localPath, remoteFolder, callback)), func(r govftp.Result) {
		callback(r, ProgressData{})
	})
}

// Upload blocks until the transfer reaches a terminal result or ctx is
// canceled.
func (c *Client) Upload(ctx context.Context, localPath, remoteFolder string) (ProgressData, error) {
	if err := validatePath(localPath); err != nil {
		return ProgressData{}, err
	}
	if c.isClosed() {
		return ProgressData{}, govftp.ErrQueueClosed
	}
	done := make(chan struct {
		result   govftp.Result
		progress ProgressData
	}, 1)
	c.SubmitUpload(localPath, remoteFolder, func(result govftp.Result, progress ProgressData) {
		if result == govftp.ResultNext {
			return
		}
		done <- struct {
			result   govftp.Result
			progress ProgressData
		}{result, progress}
	})
	select {
	case <-ctx.Done():
		return ProgressData{}, ctx.Err()
	case r := <-done:
		return r.progress, terminalError(r.result)
	}
}

// SubmitRemove enqueues removal of a remote file.
func (c *Client) SubmitRemove(path string, callback ResultCallback) {
	if err := validatePath(path); err != nil {
		callback(resultFor(err))
		return
	}
	c.submitFailed(c.enqueue(NewRemove(path, callback)), callback)
}

// Remove blocks until the removal completes or ctx is canceled.
func (c *Client) Remove(ctx context.Context, path string) error {
	return c.blockingResult(ctx, path, "", func(cb ResultCallback) operation { return NewRemove(path, cb) })
}

// SubmitCreateDir enqueues creation of a remote directory.
func (c *Client) SubmitCreateDir(path string, callback ResultCallback) {
	if err := validatePath(path); err != nil {
		callback(resultFor(err))
		return
	}
	c.submitFailed(c.enqueue(NewCreateDir(path, callback)), callback)
}

// CreateDir blocks until directory creation completes or ctx is canceled.
func (c *Client) CreateDir(ctx context.Context, path string) error {
	return c.blockingResult(ctx, path, "", func(cb ResultCallback) operation { return NewCreateDir(path, cb) })
}

// SubmitRemoveDir enqueues removal of a remote directory.
func (c *Client) SubmitRemoveDir(path string, callback ResultCallback) {
	if err := validatePath(path); err != nil {
		callback(resultFor(err))
		return
	}
	c.submitFailed(c.enqueue(NewRemoveDir(path, callback)), callback)
}

// RemoveDir blocks until directory removal completes or ctx is canceled.
func (c *Client) RemoveDir(ctx context.Context, path string) error {
	return c.blockingResult(ctx, path, "", func(cb ResultCallback) operation { return NewRemoveDir(path, cb) })
}

// SubmitRename enqueues a rename of a remote path.
func (c *Client) SubmitRename(from, to string, callback ResultCallback) {
	if err := validatePathPair(from, to); err != nil {
		callback(resultFor(err))
		return
	}
	c.submitFailed(c.enqueue(NewRename(from, to, callback)), callback)
}

// Rename blocks until the rename completes or ctx is canceled.
func (c *Client) Rename(ctx context.Context, from, to string) error {
	return c.blockingResult(ctx, from, to, func(cb ResultCallback) operation { return NewRename(from, to, cb) })
}

// blockingResult is the shared implementation behind the single-response
// blocking wrappers (Remove, CreateDir, RemoveDir, Rename). to is only
// used for the two-path Rename validation; it's empty for the rest.
func (c *Client) blockingResult(ctx context.Context, path, to string, construct func(ResultCallback) operation) error {
	var err error
	if to != "" {
		err = validatePathPair(path, to)
	} else {
		err = validatePath(path)
	}
	if err != nil {
		return err
	}
	if c.isClosed() {
		return govftp.ErrQueueClosed
	}
	done := make(chan govftp.Result, 1)
	op := construct(func(result govftp.Result) { done <- result })
	c.submitFailed(c.enqueue(op), func(r govftp.Result) { done <- r })
	select {
	case <-ctx.Done():
		return ctx.Err()
	case result := <-done:
		return terminalError(result)
	}
}

// SubmitCompareFiles enqueues a CRC-32 comparison between a local and
// remote file.
func (c *Client) SubmitCompareFiles(localPath, remotePath string, callback CompareCallback) {
	if err := validatePath(localPath); err != nil {
		callback(resultFor(err), false)
		return
	}
	if err := validatePath(remotePath); err != nil {
		callback(resultFor(err), false)
		return
	}
	c.submitFailed(c.enqueue(NewCompareFiles(localPath, remotePath, callback)), func(r govftp.Result) {
		callback(r, false)
	})
}

// CompareFiles blocks until the comparison completes or ctx is canceled.
func (c *Client) CompareFiles(ctx context.Context, localPath, remotePath string) (bool, error) {
	if err := validatePath(localPath); err != nil {
		return false, err
	}
	if err := validatePath(remotePath); err != nil {
		return false, err
	}
	if c.isClosed() {
		return false, govftp.ErrQueueClosed
	}
	done := make(chan struct {
		result    govftp.Result
		identical bool
	}, 1)
	c.SubmitCompareFiles(localPath, remotePath, func(result govftp.Result, identical bool) {
		done <- struct {
			result    govftp.Result
			identical bool
		}{result, identical}
	})
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r := <-done:
		return r.identical, terminalError(r.result)
	}
}

// SubmitListDir enqueues a directory listing.
func (c *Client) SubmitListDir(path string, callback ListDirCallback) {
	if err := validatePath(path); err != nil {
		callback(resultFor(err), nil)
		return
	}
	c.submitFailed(c.enqueue(NewListDir(path, callback)), func(r govftp.Result) {
		callback(r, nil)
	})
}

// ListDir blocks until the listing completes or ctx is canceled.
func (c *Client) ListDir(ctx context.Context, path string) ([]string, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	if c.isClosed() {
		return nil, govftp.ErrQueueClosed
	}
	done := make(chan struct {
		result  govftp.Result
		entries []string
	}, 1)
	c.SubmitListDir(path, func(result govftp.Result, entries []string) {
		done <- struct {
			result  govftp.Result
			entries []string
		}{result, entries}
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.entries, terminalError(r.result)
	}
}

// resultFor maps a pre-flight validation error (ErrIllegalArgument or
// ErrInvalidParameter) to the Result a Submit* callback reports it as,
// since the callback-style API has no error return and Result has no
// separate variant for the two.
func resultFor(err error) govftp.Result {
	return govftp.ResultInvalidParameter
}
