// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/brkv/brkv/pkg/backup"
	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/blobs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// singleRegionEngine serves one region holding a fixed payload.
type singleRegionEngine struct{}

func (singleRegionEngine) ClusterID() uint64 { return 1 }

func (singleRegionEngine) Regions(context.Context, backup.Span) ([]backup.Region, error) {
	return []backup.Region{
		{ID: 1, Span: backup.Span{Start: []byte("a"), End: []byte("z")}},
	}, nil
}

func (singleRegionEngine) Export(_ context.Context, req backup.ExportRequest) ([]backup.ExportedFile, error) {
	data := []byte("engine payload")
	return []backup.ExportedFile{{
		Name:         fmt.Sprintf("%d.sst", req.Region.ID),
		Data:         data,
		Span:         req.Region.Span,
		StartVersion: req.StartVersion,
		EndVersion:   req.EndVersion,
		TotalKvs:     1,
		TotalBytes:   uint64(len(data)),
	}}, nil
}

func startTestServer(t *testing.T) (*Server, *grpc.ClientConn, *Config) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ListenAddr = "localhost:0"
	cfg.IO.Dir = t.TempDir()
	cfg.IO.RestoreDir = t.TempDir()

	srv, err := New(cfg, singleRegionEngine{})
	require.NoError(t, err)
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		srv.Shutdown()
		require.NoError(t, <-done)
	})

	conn, err := grpc.Dial(srv.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return srv, conn, cfg
}

func TestServerBackupEndToEnd(t *testing.T) {
	_, conn, cfg := startTestServer(t)

	res, err := backup.Run(context.Background(), backuppb.NewBackupClient(conn), &backuppb.BackupRequest{
		ClusterId:      1,
		StartKey:       []byte("a"),
		EndKey:         []byte("z"),
		StartVersion:   100,
		EndVersion:     200,
		Concurrency:    2,
		StorageBackend: &backuppb.StorageBackend{Local: &backuppb.Local{Path: "job1"}},
	})
	require.NoError(t, err)
	require.Empty(t, res.Failed)
	require.Empty(t, res.Uncovered)
	require.Len(t, res.Meta.Files, 1)

	_, err = os.Stat(filepath.Join(cfg.IO.Dir, "job1", res.Meta.Files[0].Name))
	require.NoError(t, err)
}

func TestServerExternalStorageEndToEnd(t *testing.T) {
	_, conn, cfg := startTestServer(t)
	ctx := context.Background()
	client := blobs.NewClient(conn)
	backend := &backuppb.StorageBackend{Local: &backuppb.Local{Path: "objects"}}
	content := []byte("round trip through the wire")

	require.NoError(t, client.Save(ctx, backend, "a/b.sst", content))

	require.NoError(t, client.Restore(ctx, backend, "a/b.sst", "restored.sst", uint64(len(content))))
	got, err := os.ReadFile(filepath.Join(cfg.IO.RestoreDir, "restored.sst"))
	require.NoError(t, err)
	require.Equal(t, content, got)

	err = client.Save(ctx, backend, "", content)
	require.ErrorContains(t, err, "requires an object name")
}
