// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package nodelocal implements the local-filesystem storage backend.
// Object names map to paths under the backend's configured root, which
// is itself confined to the node's external I/O directory.
package nodelocal

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/cloud"
	"github.com/cockroachdb/errors"
)

func init() {
	cloud.RegisterExternalStorageProvider(
		cloud.ProviderLocal, makeLocalStorage, parseLocalURL, nil /* redacted */, "nodelocal")
}

func parseLocalURL(uri *cloud.ConsumeURL) (*backuppb.StorageBackend, error) {
	if uri.Host != "" {
		return nil, errors.Newf(
			"nodelocal URI must not name a host, found %q: use nodelocal:///path", uri.Host)
	}
	if leftover := uri.RemainingQueryParams(); len(leftover) > 0 {
		return nil, errors.Newf("unknown nodelocal query parameters: %s", strings.Join(leftover, ", "))
	}
	return &backuppb.StorageBackend{Local: &backuppb.Local{Path: uri.Path}}, nil
}

type localStorage struct {
	root string
	conf *backuppb.Local
}

var _ cloud.ExternalStorage = &localStorage{}

func makeLocalStorage(
	_ context.Context, args cloud.ExternalStorageContext, dest *backuppb.StorageBackend,
) (cloud.ExternalStorage, error) {
	conf := dest.Local
	if conf == nil {
		return nil, errors.New("local storage requested but path config missing")
	}
	if args.IOConf.Dir == "" {
		return nil, errors.New("local file access is disabled")
	}
	base, err := filepath.Abs(args.IOConf.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolving external I/O directory")
	}
	// We deliberately rely on the simplified cleanup performed by
	// filepath.Join, which strips "../" segments; a resolved-symlink
	// check would prevent operators from opening up the I/O directory
	// via symlinks.
	root := filepath.Join(base, conf.Path)
	if !strings.HasPrefix(root, base) {
		return nil, errors.Newf("local file access to paths outside of %q is not allowed", base)
	}
	return &localStorage{root: root, conf: conf}, nil
}

func (l *localStorage) Conf() *backuppb.StorageBackend {
	return &backuppb.StorageBackend{Local: l.conf}
}

func (l *localStorage) join(basename string) (string, error) {
	p := filepath.Join(l.root, basename)
	if !strings.HasPrefix(p, l.root) {
		return "", errors.Newf("object name %q escapes the storage root", basename)
	}
	return p, nil
}

// WriteFile writes through a temp file and renames it into place so a
// crash never leaves a partial object visible under its final name.
func (l *localStorage) WriteFile(
	_ context.Context, basename string, content io.Reader, contentLength int64,
) (err error) {
	fullPath, err := l.join(basename)
	if err != nil {
		return err
	}
	targetDir := filepath.Dir(fullPath)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return errors.Wrap(err, "creating local external storage path")
	}
	// The temp file gets a unique name so concurrent writes to the same
	// basename never share an inode; it lives in the target directory so
	// the rename stays on one filesystem.
	f, err := os.CreateTemp(targetDir, filepath.Base(fullPath)+"*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating local external tmp file")
	}
	tmp := f.Name()
	defer func() {
		f.Close()
		if err != nil {
			_ = os.Remove(tmp)
			return
		}
		err = errors.Wrapf(os.Rename(tmp, fullPath), "renaming to local export file %q", fullPath)
	}()
	n, err := io.Copy(f, content)
	if err != nil {
		return errors.Wrapf(err, "writing to local external tmp file %q", tmp)
	}
	if n != contentLength {
		return errors.Newf("got %d bytes, declared content length is %d", n, contentLength)
	}
	if err := f.Sync(); err != nil {
		return errors.Wrapf(err, "syncing local external tmp file %q", tmp)
	}
	return nil
}

func (l *localStorage) ReadFile(_ context.Context, basename string) (io.ReadCloser, error) {
	fullPath, err := l.join(basename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(cloud.ErrFileDoesNotExist, "no local object %q", basename)
		}
		return nil, errors.Wrapf(err, "opening local object %q", basename)
	}
	return f, nil
}

func (l *localStorage) Size(_ context.Context, basename string) (int64, error) {
	fullPath, err := l.join(basename)
	if err != nil {
		return 0, err
	}
	fi, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.Wrapf(cloud.ErrFileDoesNotExist, "no local object %q", basename)
		}
		return 0, errors.Wrapf(err, "sizing local object %q", basename)
	}
	return fi.Size(), nil
}

func (l *localStorage) Close() error { return nil }
