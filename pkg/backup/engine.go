// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package backup

import (
	"bytes"
	"context"
	"fmt"
)

// Span is a half-open key interval [Start, End). An empty End means the
// interval extends to the end of the keyspace.
type Span struct {
	Start []byte
	End   []byte
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	if bytes.Compare(other.Start, s.Start) < 0 {
		return false
	}
	if len(s.End) == 0 {
		return true
	}
	if len(other.End) == 0 {
		return false
	}
	return bytes.Compare(other.End, s.End) <= 0
}

func (s Span) String() string {
	return fmt.Sprintf("[%x, %x)", s.Start, s.End)
}

// Region is an engine-owned sub-range of the keyspace.
type Region struct {
	ID   uint64
	Span Span
}

// ExportRequest asks the engine to scan one region's slice of the
// requested range and produce backup files for it.
type ExportRequest struct {
	Region       Region
	Cf           string
	StartVersion uint64
	EndVersion   uint64
	IsRawKv      bool
}

// ExportedFile is one file the engine produced for a sub-range, with
// the checksums and stats computed at production time.
type ExportedFile struct {
	Name         string
	Data         []byte
	Span         Span
	Cf           string
	StartVersion uint64
	EndVersion   uint64
	Crc64Xor     uint64
	TotalKvs     uint64
	TotalBytes   uint64
}

// Engine is the only contract the backup core requires from the
// underlying key-value engine: tell me how the requested range splits
// into regions you own, and export any one of those regions.
//
// Export errors of type *RegionChangedError and *KeyLockedError are
// reported per sub-range on the stream and do not fail the job.
type Engine interface {
	// ClusterID identifies the cluster this engine belongs to.
	ClusterID() uint64
	// Regions returns the engine's split of span, in any order. The
	// returned spans are disjoint and their union covers span.
	Regions(ctx context.Context, span Span) ([]Region, error)
	// Export scans one region and produces zero or more files.
	Export(ctx context.Context, req ExportRequest) ([]ExportedFile, error)
}

// RegionChangedError reports that range ownership moved mid-scan. The
// caller retries the sub-range against updated topology.
type RegionChangedError struct {
	RegionID uint64
	Reason   string
}

func (e *RegionChangedError) Error() string {
	return fmt.Sprintf("region %d changed: %s", e.RegionID, e.Reason)
}

// KeyLockedError reports a transactional conflict during the scan.
// Retryable after backoff.
type KeyLockedError struct {
	Reason string
}

func (e *KeyLockedError) Error() string {
	return fmt.Sprintf("key locked: %s", e.Reason)
}
