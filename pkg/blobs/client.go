// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package blobs

import (
	"context"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/cockroachdb/errors"
	"google.golang.org/grpc"
)

// Client delegates object saves and restores to a remote external
// storage service.
type Client struct {
	rpc backuppb.ExternalStorageClient
}

// NewClient wraps an established gRPC connection to a process running
// the external storage service.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{rpc: backuppb.NewExternalStorageClient(conn)}
}

// Save asks the remote service to persist data under objectName in the
// given storage backend.
func (c *Client) Save(
	ctx context.Context, dest *backuppb.StorageBackend, objectName string, data []byte,
) error {
	_, err := c.rpc.Save(ctx, &backuppb.ExternalStorageSaveRequest{
		StorageBackend: dest,
		ObjectName:     objectName,
		ContentLength:  uint64(len(data)),
		Data:           data,
	})
	return errors.Wrapf(err, "remote save of %q", objectName)
}

// Restore asks the remote service to fetch objectName from the given
// storage backend and materialize it locally as restoreName.
// contentLength is the expected object size; a stored object of a
// different size fails the restore.
func (c *Client) Restore(
	ctx context.Context,
	src *backuppb.StorageBackend,
	objectName, restoreName string,
	contentLength uint64,
) error {
	_, err := c.rpc.Restore(ctx, &backuppb.ExternalStorageRestoreRequest{
		StorageBackend: src,
		ObjectName:     objectName,
		RestoreName:    restoreName,
		ContentLength:  contentLength,
	})
	return errors.Wrapf(err, "remote restore of %q", objectName)
}
