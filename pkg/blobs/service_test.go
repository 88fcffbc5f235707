// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package blobs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/cloud"
	_ "github.com/brkv/brkv/pkg/cloud/nodelocal"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) (*Service, string, *backuppb.StorageBackend) {
	t.Helper()
	extDir := t.TempDir()
	restoreDir := t.TempDir()
	svc := NewService(cloud.IODirConfig{Dir: extDir}, restoreDir)
	backend := &backuppb.StorageBackend{Local: &backuppb.Local{Path: ""}}
	return svc, restoreDir, backend
}

func TestSaveAndRestore(t *testing.T) {
	ctx := context.Background()
	svc, restoreDir, backend := testService(t)
	content := []byte("delegated object bytes")

	_, err := svc.Save(ctx, &backuppb.ExternalStorageSaveRequest{
		StorageBackend: backend,
		ObjectName:     "objs/a.sst",
		ContentLength:  uint64(len(content)),
		Data:           content,
	})
	require.NoError(t, err)

	_, err = svc.Restore(ctx, &backuppb.ExternalStorageRestoreRequest{
		StorageBackend: backend,
		ObjectName:     "objs/a.sst",
		RestoreName:    "restored/a.sst",
		ContentLength:  uint64(len(content)),
	})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(restoreDir, "restored/a.sst"))
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestSaveContentLengthMismatch(t *testing.T) {
	ctx := context.Background()
	svc, _, backend := testService(t)

	_, err := svc.Save(ctx, &backuppb.ExternalStorageSaveRequest{
		StorageBackend: backend,
		ObjectName:     "a",
		ContentLength:  10,
		Data:           []byte("abc"),
	})
	require.ErrorContains(t, err, "does not match payload length")
}

func TestRestoreContentLengthMismatch(t *testing.T) {
	ctx := context.Background()
	svc, restoreDir, backend := testService(t)
	content := []byte("abc")

	_, err := svc.Save(ctx, &backuppb.ExternalStorageSaveRequest{
		StorageBackend: backend,
		ObjectName:     "a",
		ContentLength:  uint64(len(content)),
		Data:           content,
	})
	require.NoError(t, err)

	_, err = svc.Restore(ctx, &backuppb.ExternalStorageRestoreRequest{
		StorageBackend: backend,
		ObjectName:     "a",
		RestoreName:    "a",
		ContentLength:  99,
	})
	require.ErrorContains(t, err, "declared content length")
	// The failed restore leaves nothing visible.
	_, err = os.Stat(filepath.Join(restoreDir, "a"))
	require.True(t, os.IsNotExist(err))
}

func TestRestoreMissingObject(t *testing.T) {
	ctx := context.Background()
	svc, _, backend := testService(t)

	_, err := svc.Restore(ctx, &backuppb.ExternalStorageRestoreRequest{
		StorageBackend: backend,
		ObjectName:     "missing",
		RestoreName:    "missing",
		ContentLength:  1,
	})
	require.ErrorIs(t, err, cloud.ErrFileDoesNotExist)
}

func TestRestoreNameConfined(t *testing.T) {
	ctx := context.Background()
	svc, _, backend := testService(t)
	content := []byte("abc")

	_, err := svc.Save(ctx, &backuppb.ExternalStorageSaveRequest{
		StorageBackend: backend,
		ObjectName:     "a",
		ContentLength:  uint64(len(content)),
		Data:           content,
	})
	require.NoError(t, err)

	_, err = svc.Restore(ctx, &backuppb.ExternalStorageRestoreRequest{
		StorageBackend: backend,
		ObjectName:     "a",
		RestoreName:    "../evil",
		ContentLength:  uint64(len(content)),
	})
	require.ErrorContains(t, err, "escapes the restore directory")
}

func TestSaveRequiresObjectName(t *testing.T) {
	svc, _, backend := testService(t)
	_, err := svc.Save(context.Background(), &backuppb.ExternalStorageSaveRequest{
		StorageBackend: backend,
	})
	require.ErrorContains(t, err, "requires an object name")
}

// gatedReader yields its first chunk, then signals and blocks until
// released before yielding the rest.
type gatedReader struct {
	chunks  [][]byte
	stalled chan struct{}
	resume  chan struct{}
	gated   bool
}

func (r *gatedReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	if r.gated {
		r.gated = false
	} else if r.stalled != nil {
		close(r.stalled)
		r.stalled = nil
		<-r.resume
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if len(r.chunks[0]) == 0 {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func TestWriteFileLocallyConcurrentSameName(t *testing.T) {
	target := filepath.Join(t.TempDir(), "restored")
	content := []byte("BBBBBBBB")

	// The stalled writer declares more bytes than it will deliver, so it
	// fails after the other writer has committed.
	stalled := make(chan struct{})
	resume := make(chan struct{})
	r := &gatedReader{
		chunks:  [][]byte{[]byte("aaaa"), []byte("aaaa")},
		stalled: stalled,
		resume:  resume,
		gated:   true,
	}

	done := make(chan error, 1)
	go func() {
		done <- writeFileLocally(target, r, 16)
	}()
	<-stalled

	require.NoError(t, writeFileLocally(target, bytes.NewReader(content), uint64(len(content))))
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, content, got)

	// The stalled writer's failure cleans up its own temp file only; the
	// committed file survives untouched.
	close(resume)
	require.ErrorContains(t, <-done, "declared content length")
	got, err = os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, content, got)

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "restored", entries[0].Name())
}
