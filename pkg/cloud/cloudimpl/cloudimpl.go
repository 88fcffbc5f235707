// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package cloudimpl links in all storage backend implementations.
// Anything that resolves StorageBackend configurations at runtime
// imports it for its side effects.
package cloudimpl

import (
	// Register the concrete providers.
	_ "github.com/brkv/brkv/pkg/cloud/amazon"
	_ "github.com/brkv/brkv/pkg/cloud/clouddynamic"
	_ "github.com/brkv/brkv/pkg/cloud/gcp"
	_ "github.com/brkv/brkv/pkg/cloud/nodelocal"
	_ "github.com/brkv/brkv/pkg/cloud/nullsink"
)
