// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package cloud

import (
	"syscall"

	"github.com/cockroachdb/errors"
)

func sysErrIsConnReset(err error) bool {
	return errors.Is(err, syscall.ECONNRESET)
}

func sysErrIsConnRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
