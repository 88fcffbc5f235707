// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package backuppb

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/require"
)

func TestBackupMetaRoundTrip(t *testing.T) {
	meta := &BackupMeta{
		ClusterId:      7,
		ClusterVersion: "v6.5.0",
		StartVersion:   100,
		EndVersion:     200,
		Files: []*File{
			{
				Name:         "1_2_big.sst",
				Sha256:       make([]byte, 32),
				StartKey:     []byte("a"),
				EndKey:       []byte("m"),
				StartVersion: 100,
				EndVersion:   200,
				Crc64Xor:     0xdeadbeef,
				TotalKvs:     12,
				TotalBytes:   4096,
				Cf:           "default",
				Size_:        2048,
			},
		},
		Schemas: []*Schema{
			{Db: []byte(`{"db":"test"}`), Table: []byte(`{"tbl":"t1"}`), Crc64Xor: 1, TotalKvs: 12, TotalBytes: 4096},
		},
		BrVersion: "v1.0.0",
	}

	raw, err := proto.Marshal(meta)
	require.NoError(t, err)

	got := &BackupMeta{}
	require.NoError(t, proto.Unmarshal(raw, got))
	require.Equal(t, meta.ClusterId, got.ClusterId)
	require.Equal(t, meta.ClusterVersion, got.ClusterVersion)
	require.Len(t, got.Files, 1)
	require.Equal(t, meta.Files[0].Name, got.Files[0].Name)
	require.Equal(t, meta.Files[0].Crc64Xor, got.Files[0].Crc64Xor)
	require.Equal(t, meta.Files[0].Size_, got.Files[0].Size_)
	require.Len(t, got.Schemas, 1)
	require.Equal(t, meta.Schemas[0].Db, got.Schemas[0].Db)
}

func TestUnknownFieldsSurviveRoundTrip(t *testing.T) {
	raw, err := proto.Marshal(&BackupMeta{ClusterId: 9})
	require.NoError(t, err)
	// Append a varint field this schema does not define (field 100,
	// value 1). Decoders must carry it, not drop it.
	unknown := []byte{0xA0, 0x06, 0x01}
	raw = append(raw, unknown...)

	meta := &BackupMeta{}
	require.NoError(t, proto.Unmarshal(raw, meta))
	require.Equal(t, uint64(9), meta.ClusterId)

	again, err := proto.Marshal(meta)
	require.NoError(t, err)
	require.Contains(t, string(again), string(unknown))
}

func TestStorageBackendVariants(t *testing.T) {
	t.Run("s3", func(t *testing.T) {
		sb := &StorageBackend{S3: &S3{Bucket: "b", Prefix: "p", Region: "us-east-1"}}
		raw, err := proto.Marshal(sb)
		require.NoError(t, err)
		got := &StorageBackend{}
		require.NoError(t, proto.Unmarshal(raw, got))
		require.NotNil(t, got.S3)
		require.Nil(t, got.Gcs)
		require.Equal(t, "b", got.S3.Bucket)
	})
	t.Run("cloud_dynamic", func(t *testing.T) {
		sb := &StorageBackend{CloudDynamic: &CloudDynamic{
			ProviderName: "s3",
			Bucket:       &Bucket{Bucket: "b"},
			Attrs:        map[string]string{"acl": "private"},
		}}
		raw, err := proto.Marshal(sb)
		require.NoError(t, err)
		got := &StorageBackend{}
		require.NoError(t, proto.Unmarshal(raw, got))
		require.NotNil(t, got.CloudDynamic)
		require.Equal(t, "private", got.CloudDynamic.Attrs["acl"])
	})
}

func TestErrorDetailAccessors(t *testing.T) {
	resp := &BackupResponse{
		StartKey: []byte("a"),
		EndKey:   []byte("b"),
		Error: &Error{
			Msg:         "epoch changed",
			RegionError: &RegionError{RegionId: 3, Msg: "epoch changed"},
		},
	}
	raw, err := proto.Marshal(resp)
	require.NoError(t, err)
	got := &BackupResponse{}
	require.NoError(t, proto.Unmarshal(raw, got))
	require.NotNil(t, got.GetError())
	require.NotNil(t, got.GetError().RegionError)
	require.Equal(t, uint64(3), got.GetError().RegionError.RegionId)
	require.Nil(t, got.GetError().ClusterIdError)
}
