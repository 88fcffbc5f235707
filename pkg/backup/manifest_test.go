// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package backup

import (
	"crypto/sha256"
	"sort"
	"testing"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/stretchr/testify/require"
)

func testFile(name string, start, end string) *backuppb.File {
	sum := sha256.Sum256([]byte(name))
	return &backuppb.File{
		Name:         name,
		Sha256:       sum[:],
		StartKey:     []byte(start),
		EndKey:       []byte(end),
		StartVersion: 100,
		EndVersion:   200,
	}
}

func TestValidateFile(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		require.NoError(t, ValidateFile(testFile("a.sst", "a", "b")))
	})
	t.Run("unbounded end key is ordered", func(t *testing.T) {
		require.NoError(t, ValidateFile(testFile("a.sst", "zzz", "")))
	})
	t.Run("no name", func(t *testing.T) {
		f := testFile("", "a", "b")
		require.ErrorContains(t, ValidateFile(f), "no name")
	})
	t.Run("keys out of order", func(t *testing.T) {
		f := testFile("a.sst", "b", "a")
		require.ErrorContains(t, ValidateFile(f), "after end key")
	})
	t.Run("short digest", func(t *testing.T) {
		f := testFile("a.sst", "a", "b")
		f.Sha256 = []byte{1, 2, 3}
		require.ErrorContains(t, ValidateFile(f), "sha256")
	})
	t.Run("versions out of order", func(t *testing.T) {
		f := testFile("a.sst", "a", "b")
		f.StartVersion, f.EndVersion = 200, 100
		require.ErrorContains(t, ValidateFile(f), "after end version")
	})
}

func TestValidateMeta(t *testing.T) {
	base := func() *backuppb.BackupMeta {
		return &backuppb.BackupMeta{
			ClusterId:    1,
			StartVersion: 100,
			EndVersion:   200,
			Files:        []*backuppb.File{testFile("a.sst", "a", "b")},
		}
	}
	t.Run("ok", func(t *testing.T) {
		require.NoError(t, ValidateMeta(base()))
	})
	t.Run("raw with schemas", func(t *testing.T) {
		m := base()
		m.IsRawKv = true
		m.Schemas = []*backuppb.Schema{{Db: []byte("d")}}
		require.ErrorContains(t, ValidateMeta(m), "must not carry schemas")
	})
	t.Run("raw ranges without raw mode", func(t *testing.T) {
		m := base()
		m.RawRanges = []*backuppb.RawRange{{StartKey: []byte("a")}}
		require.ErrorContains(t, ValidateMeta(m), "is_raw_kv unset")
	})
	t.Run("file version outside meta window", func(t *testing.T) {
		m := base()
		m.Files[0].EndVersion = 300
		require.ErrorContains(t, ValidateMeta(m), "outside meta window")
	})
	t.Run("raw mode ignores file versions", func(t *testing.T) {
		m := base()
		m.IsRawKv = true
		m.Files[0].EndVersion = 300
		require.NoError(t, ValidateMeta(m))
	})
}

func TestMergeBackupMeta(t *testing.T) {
	mk := func(files ...*backuppb.File) *backuppb.BackupMeta {
		return &backuppb.BackupMeta{
			ClusterId:    1,
			StartVersion: 100,
			EndVersion:   200,
			Files:        files,
		}
	}

	t.Run("disjoint files union", func(t *testing.T) {
		a := mk(testFile("1.sst", "a", "b"), testFile("2.sst", "b", "c"))
		b := mk(testFile("3.sst", "c", "d"))
		merged, err := MergeBackupMeta(a, b)
		require.NoError(t, err)
		require.Len(t, merged.Files, 3)
		require.NoError(t, ValidateMeta(merged))
	})
	t.Run("duplicate file name rejected", func(t *testing.T) {
		a := mk(testFile("1.sst", "a", "b"))
		b := mk(testFile("1.sst", "b", "c"))
		_, err := MergeBackupMeta(a, b)
		require.ErrorContains(t, err, "duplicate file")
	})
	t.Run("cluster mismatch rejected", func(t *testing.T) {
		a := mk()
		b := mk()
		b.ClusterId = 2
		_, err := MergeBackupMeta(a, b)
		require.ErrorContains(t, err, "different clusters")
	})
	t.Run("version window mismatch rejected", func(t *testing.T) {
		a := mk()
		b := mk()
		b.EndVersion = 300
		_, err := MergeBackupMeta(a, b)
		require.ErrorContains(t, err, "version windows")
	})
	t.Run("duplicate schema must agree on aggregates", func(t *testing.T) {
		a := mk()
		b := mk()
		a.Schemas = []*backuppb.Schema{{Db: []byte("d"), Table: []byte("t"), TotalKvs: 5, Stats: []byte("x")}}
		b.Schemas = []*backuppb.Schema{{Db: []byte("d"), Table: []byte("t"), TotalKvs: 5, Stats: []byte("y")}}
		merged, err := MergeBackupMeta(a, b)
		require.NoError(t, err)
		require.Len(t, merged.Schemas, 1)

		b.Schemas[0].TotalKvs = 6
		_, err = MergeBackupMeta(a, b)
		require.ErrorContains(t, err, "inconsistent duplicate schema")
	})
}

func TestFilesByKey(t *testing.T) {
	files := FilesByKey{
		testFile("3.sst", "c", "d"),
		testFile("1.sst", "a", "b"),
		testFile("2.sst", "a", "c"),
	}
	sort.Sort(files)
	require.Equal(t, "1.sst", files[0].Name)
	require.Equal(t, "2.sst", files[1].Name)
	require.Equal(t, "3.sst", files[2].Name)
}
