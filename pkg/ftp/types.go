// Package ftp implements the request engine described in govftp's design:
// a single-in-flight work queue whose head drives a retry/timeout state
// machine through download, upload, directory and housekeeping operations.
package ftp

import (
	"github.com/flightstack/govftp"
)

// ProgressData reports cumulative progress of a streaming transfer.
type ProgressData struct {
	BytesTransferred uint32
	TotalBytes       uint32
}

// EntryKind classifies a parsed list-directory entry by its type prefix
// byte.
type EntryKind byte

const (
	EntryFile      EntryKind = 'F'
	EntryDirectory EntryKind = 'D'
	EntrySkip      EntryKind = 'S'
)

// DirEntry is one parsed list-directory entry: Kind holds the type-prefix
// byte and Name the rest of the entry, without that prefix.
type DirEntry struct {
	Kind EntryKind
	Name string
}

// String renders the entry the way the server sent it: prefix byte
// followed by the name.
func (e DirEntry) String() string {
	return string(byte(e.Kind)) + e.Name
}

// ResultCallback is the terminal callback signature for single-shot
// operations (remove, rename, create dir, remove dir).
type ResultCallback func(result govftp.Result)

// ProgressCallback is the callback signature for streaming transfers
// (download, upload): zero or more calls with ResultNext and partial
// progress, followed by exactly one call with a terminal result.
type ProgressCallback func(result govftp.Result, progress ProgressData)

// CompareCallback reports whether local and remote CRC-32s matched.
type CompareCallback func(result govftp.Result, identical bool)

// ListDirCallback reports the sorted, filtered directory listing.
type ListDirCallback func(result govftp.Result, entries []string)
