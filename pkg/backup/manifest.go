// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package backup implements the node-side backup endpoint and the
// handling of backup manifests: validation, merging and persistence
// through an external storage backend.
package backup

import (
	"bytes"
	"crypto/sha256"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/cockroachdb/errors"
)

// ValidateFile checks the invariants of a single file descriptor:
// ordered key bounds, a full-length SHA-256 digest and an ordered
// version window. An empty end key means the file extends to the end of
// the keyspace and is always ordered.
func ValidateFile(f *backuppb.File) error {
	if f == nil {
		return errors.New("nil file descriptor")
	}
	if f.Name == "" {
		return errors.New("file descriptor has no name")
	}
	if len(f.EndKey) > 0 && bytes.Compare(f.StartKey, f.EndKey) > 0 {
		return errors.Newf("file %q: start key %x after end key %x", f.Name, f.StartKey, f.EndKey)
	}
	if len(f.Sha256) != sha256.Size {
		return errors.Newf("file %q: sha256 digest is %d bytes, want %d", f.Name, len(f.Sha256), sha256.Size)
	}
	if f.StartVersion > f.EndVersion {
		return errors.Newf("file %q: start version %d after end version %d", f.Name, f.StartVersion, f.EndVersion)
	}
	return nil
}

// ValidateMeta checks a manifest's cross-entity invariants. Mode
// violations are reported, never silently repaired.
func ValidateMeta(m *backuppb.BackupMeta) error {
	if m == nil {
		return errors.New("nil backup meta")
	}
	if m.StartVersion > m.EndVersion {
		return errors.Newf("meta start version %d after end version %d", m.StartVersion, m.EndVersion)
	}
	if m.IsRawKv && len(m.Schemas) > 0 {
		return errors.New("raw kv backup must not carry schemas")
	}
	if len(m.RawRanges) > 0 && !m.IsRawKv {
		return errors.New("raw ranges present but is_raw_kv unset")
	}
	for _, f := range m.Files {
		if err := ValidateFile(f); err != nil {
			return err
		}
		if m.IsRawKv {
			// Version semantics on files are ignored in raw mode.
			continue
		}
		if f.StartVersion < m.StartVersion || f.EndVersion > m.EndVersion {
			return errors.Newf(
				"file %q version window [%d, %d] outside meta window [%d, %d]",
				f.Name, f.StartVersion, f.EndVersion, m.StartVersion, m.EndVersion)
		}
	}
	return nil
}

// MergeBackupMeta combines two manifests produced by different nodes for
// the same job. File names must be globally unique per job, so a
// duplicate is an error, not a dedup. Schemas are unioned by (db, table)
// and duplicates must agree on their aggregate stats.
func MergeBackupMeta(a, b *backuppb.BackupMeta) (*backuppb.BackupMeta, error) {
	if a.ClusterId != b.ClusterId {
		return nil, errors.Newf("merging manifests of different clusters: %d vs %d", a.ClusterId, b.ClusterId)
	}
	if a.StartVersion != b.StartVersion || a.EndVersion != b.EndVersion {
		return nil, errors.Newf(
			"merging manifests of different version windows: [%d, %d] vs [%d, %d]",
			a.StartVersion, a.EndVersion, b.StartVersion, b.EndVersion)
	}
	if a.IsRawKv != b.IsRawKv {
		return nil, errors.New("merging raw kv manifest with transactional manifest")
	}

	merged := &backuppb.BackupMeta{
		ClusterId:      a.ClusterId,
		ClusterVersion: a.ClusterVersion,
		StartVersion:   a.StartVersion,
		EndVersion:     a.EndVersion,
		IsRawKv:        a.IsRawKv,
		BrVersion:      a.BrVersion,
		Ddls:           a.Ddls,
	}

	seen := make(map[string]struct{}, len(a.Files)+len(b.Files))
	for _, files := range [][]*backuppb.File{a.Files, b.Files} {
		for _, f := range files {
			if _, dup := seen[f.Name]; dup {
				return nil, errors.Newf("duplicate file %q in merged manifests", f.Name)
			}
			seen[f.Name] = struct{}{}
			merged.Files = append(merged.Files, f)
		}
	}

	type schemaKey struct{ db, table string }
	schemas := make(map[schemaKey]*backuppb.Schema, len(a.Schemas)+len(b.Schemas))
	for _, in := range [][]*backuppb.Schema{a.Schemas, b.Schemas} {
		for _, s := range in {
			k := schemaKey{db: string(s.Db), table: string(s.Table)}
			prev, ok := schemas[k]
			if !ok {
				schemas[k] = s
				merged.Schemas = append(merged.Schemas, s)
				continue
			}
			// Stats blobs are opaque analyzer output and may differ between
			// copies; the aggregates must not.
			if prev.Crc64Xor != s.Crc64Xor || prev.TotalKvs != s.TotalKvs ||
				prev.TotalBytes != s.TotalBytes || prev.TiflashReplicas != s.TiflashReplicas {
				return nil, errors.Newf(
					"inconsistent duplicate schema %s.%s in merged manifests", s.Db, s.Table)
			}
		}
	}

	merged.RawRanges = append(merged.RawRanges, a.RawRanges...)
	merged.RawRanges = append(merged.RawRanges, b.RawRanges...)
	return merged, nil
}

// FilesByKey sorts file descriptors by start key, then end key.
type FilesByKey []*backuppb.File

func (r FilesByKey) Len() int      { return len(r) }
func (r FilesByKey) Swap(i, j int) { r[i], r[j] = r[j], r[i] }
func (r FilesByKey) Less(i, j int) bool {
	if cmp := bytes.Compare(r[i].StartKey, r[j].StartKey); cmp != 0 {
		return cmp < 0
	}
	return bytes.Compare(r[i].EndKey, r[j].EndKey) < 0
}
