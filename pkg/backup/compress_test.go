// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package backup

import (
	"bytes"
	"io"
	"testing"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/stretchr/testify/require"
)

func TestCompressionRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 512)

	cases := []struct {
		name  string
		ct    backuppb.CompressionType
		level int32
	}{
		{"none", backuppb.CompressionType_UNKNOWN, 0},
		{"snappy", backuppb.CompressionType_SNAPPY, 0},
		{"lz4 default", backuppb.CompressionType_LZ4, 0},
		{"lz4 max", backuppb.CompressionType_LZ4, 9},
		{"zstd default", backuppb.CompressionType_ZSTD, 0},
		{"zstd fast", backuppb.CompressionType_ZSTD, -3},
		{"zstd high", backuppb.CompressionType_ZSTD, 19},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewCompressingWriter(&buf, tc.ct, tc.level)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if tc.ct != backuppb.CompressionType_UNKNOWN {
				require.Less(t, buf.Len(), len(payload))
			}

			r, err := NewDecompressingReader(bytes.NewReader(buf.Bytes()), tc.ct)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			require.Equal(t, payload, got)
		})
	}
}

func TestValidateCompression(t *testing.T) {
	require.NoError(t, ValidateCompression(backuppb.CompressionType_UNKNOWN, 0))
	require.NoError(t, ValidateCompression(backuppb.CompressionType_ZSTD, -7))

	require.ErrorContains(t,
		ValidateCompression(backuppb.CompressionType_UNKNOWN, 3),
		"without a compression type")
	require.ErrorContains(t,
		ValidateCompression(backuppb.CompressionType_SNAPPY, 1),
		"does not define compression levels")
	require.ErrorContains(t,
		ValidateCompression(backuppb.CompressionType_LZ4, 10),
		"must be in [0, 9]")
	require.ErrorContains(t,
		ValidateCompression(backuppb.CompressionType_LZ4, -1),
		"must be in [0, 9]")
	require.ErrorContains(t,
		ValidateCompression(backuppb.CompressionType_ZSTD, 23),
		"at most 22")
}
