// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package cloud

import (
	"io"

	"github.com/cockroachdb/errors"
)

// ErrFileDoesNotExist is the sentinel for a bucket/object/key/file
// (depending on storage terminology) that does not exist. Raised by
// ReadFile and Size.
var ErrFileDoesNotExist = errors.New("external_storage: file doesn't exist")

// errTransient marks failures a caller may retry with backoff.
// Authentication and not-found failures are never marked.
var errTransient = errors.New("external_storage: transient failure")

// MarkTransient flags err as retryable for the caller. Providers call
// this on network-level failures; this package never retries itself.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, errTransient)
}

// IsTransient reports whether err was classified as retryable.
func IsTransient(err error) bool {
	return errors.Is(err, errTransient)
}

// IsResumableHTTPError returns true if a download can be resumed after
// err. The underlying http library converts io.EOF to io.ErrUnexpectedEOF
// when fewer bytes arrive than Content-Length advertised, so seeing
// ErrUnexpectedEOF means the next range can simply be requested.
// Connection resets (which happen if we didn't read from the connection
// for too long under load) are treated the same way.
func IsResumableHTTPError(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF) ||
		sysErrIsConnReset(err) ||
		sysErrIsConnRefused(err)
}
