// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package blobs lets a process without cloud credentials or network
// egress delegate object persistence to one that has them: the save and
// restore RPCs address objects purely by name and declared length, and
// the responder resolves the storage backend locally.
package blobs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/cloud"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// Service handles interactions with the external storage delegation
// service.
type Service struct {
	ioConf cloud.IODirConfig
	// restoreDir is where restored objects are materialized.
	restoreDir string
}

var _ backuppb.ExternalStorageServer = &Service{}

// NewService instantiates an external storage delegation server.
// Restored objects are written under restoreDir.
func NewService(ioConf cloud.IODirConfig, restoreDir string) *Service {
	return &Service{ioConf: ioConf, restoreDir: restoreDir}
}

// Save implements the gRPC service: it pushes one named object through
// the storage backend named in the request. A payload whose actual
// length disagrees with the declared content_length is rejected before
// any backend I/O.
func (s *Service) Save(
	ctx context.Context, req *backuppb.ExternalStorageSaveRequest,
) (*backuppb.ExternalStorageSaveResponse, error) {
	if req.ObjectName == "" {
		return nil, errors.New("save requires an object name")
	}
	if uint64(len(req.Data)) != req.ContentLength {
		return nil, errors.Newf(
			"declared content length %d does not match payload length %d",
			req.ContentLength, len(req.Data))
	}
	store, err := cloud.MakeExternalStorage(
		ctx, cloud.ExternalStorageContext{IOConf: s.ioConf}, req.StorageBackend)
	if err != nil {
		return nil, errors.Wrap(err, "opening storage backend")
	}
	defer store.Close()
	if err := store.WriteFile(
		ctx, req.ObjectName, bytes.NewReader(req.Data), int64(len(req.Data)),
	); err != nil {
		return nil, errors.Wrapf(err, "saving %q", req.ObjectName)
	}
	log.Debug().Str("object", req.ObjectName).Uint64("bytes", req.ContentLength).Msg("saved object")
	return &backuppb.ExternalStorageSaveResponse{}, nil
}

// Restore implements the gRPC service: it pulls one named object out of
// the storage backend and materializes it locally under restore_name. A
// stored object whose length disagrees with the declared content_length
// fails the call and leaves nothing visible under the restore name.
func (s *Service) Restore(
	ctx context.Context, req *backuppb.ExternalStorageRestoreRequest,
) (*backuppb.ExternalStorageRestoreResponse, error) {
	if req.ObjectName == "" || req.RestoreName == "" {
		return nil, errors.New("restore requires an object name and a restore name")
	}
	store, err := cloud.MakeExternalStorage(
		ctx, cloud.ExternalStorageContext{IOConf: s.ioConf}, req.StorageBackend)
	if err != nil {
		return nil, errors.Wrap(err, "opening storage backend")
	}
	defer store.Close()

	r, err := store.ReadFile(ctx, req.ObjectName)
	if err != nil {
		return nil, errors.Wrapf(err, "restoring %q", req.ObjectName)
	}
	defer r.Close()

	if !filepath.IsLocal(req.RestoreName) {
		return nil, errors.Newf("restore name %q escapes the restore directory", req.RestoreName)
	}
	target := filepath.Join(s.restoreDir, req.RestoreName)
	if err := writeFileLocally(target, r, req.ContentLength); err != nil {
		return nil, errors.Wrapf(err, "materializing %q", req.RestoreName)
	}
	log.Debug().Str("object", req.ObjectName).Str("as", req.RestoreName).Msg("restored object")
	return &backuppb.ExternalStorageRestoreResponse{}, nil
}

// writeFileLocally writes through a temp file and renames into place so
// a crash never leaves a partial object visible under its final name.
func writeFileLocally(filename string, content io.Reader, contentLength uint64) (err error) {
	targetDir := filepath.Dir(filename)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return errors.Wrap(err, "creating restore path")
	}
	// Unique temp name: concurrent restores of the same restore_name must
	// not share an inode, and one call's cleanup must not remove another
	// call's in-flight temp.
	f, err := os.CreateTemp(targetDir, filepath.Base(filename)+"*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating restore tmp file")
	}
	tmp := f.Name()
	defer func() {
		f.Close()
		if err != nil {
			_ = os.Remove(tmp)
			return
		}
		err = errors.Wrapf(os.Rename(tmp, filename), "renaming to restore file %q", filename)
	}()
	n, err := io.Copy(f, content)
	if err != nil {
		return errors.Wrapf(err, "writing restore tmp file %q", tmp)
	}
	if uint64(n) != contentLength {
		return errors.Newf("restored %d bytes, declared content length is %d", n, contentLength)
	}
	if err := f.Sync(); err != nil {
		return errors.Wrapf(err, "syncing restore tmp file %q", tmp)
	}
	return nil
}
