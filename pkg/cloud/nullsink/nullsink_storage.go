// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package nullsink implements the no-op storage backend: writes succeed
// and are discarded, reads always fail with ErrFileDoesNotExist. Used
// for dry runs and throughput testing.
package nullsink

import (
	"context"
	"io"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/cloud"
	"github.com/cockroachdb/errors"
)

func init() {
	cloud.RegisterExternalStorageProvider(
		cloud.ProviderNoop, makeNullSinkStorage, parseNullURL, nil /* redacted */, "noop")
}

func parseNullURL(_ *cloud.ConsumeURL) (*backuppb.StorageBackend, error) {
	return &backuppb.StorageBackend{Noop: &backuppb.Noop{}}, nil
}

type nullSinkStorage struct{}

var _ cloud.ExternalStorage = nullSinkStorage{}

func makeNullSinkStorage(
	_ context.Context, _ cloud.ExternalStorageContext, _ *backuppb.StorageBackend,
) (cloud.ExternalStorage, error) {
	return nullSinkStorage{}, nil
}

func (nullSinkStorage) Conf() *backuppb.StorageBackend {
	return &backuppb.StorageBackend{Noop: &backuppb.Noop{}}
}

func (nullSinkStorage) WriteFile(
	_ context.Context, _ string, content io.Reader, contentLength int64,
) error {
	n, err := io.Copy(io.Discard, content)
	if err != nil {
		return err
	}
	if n != contentLength {
		return errors.Newf("got %d bytes, declared content length is %d", n, contentLength)
	}
	return nil
}

func (nullSinkStorage) ReadFile(_ context.Context, basename string) (io.ReadCloser, error) {
	return nil, errors.Wrapf(cloud.ErrFileDoesNotExist, "nullsink has no object %q", basename)
}

func (nullSinkStorage) Size(_ context.Context, basename string) (int64, error) {
	return 0, errors.Wrapf(cloud.ErrFileDoesNotExist, "nullsink has no object %q", basename)
}

func (nullSinkStorage) Close() error { return nil }
