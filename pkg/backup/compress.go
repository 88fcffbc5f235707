// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package backup

import (
	"io"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/cockroachdb/errors"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

// ValidateCompression checks a compression_type/compression_level pair.
// Negative levels are permitted only for algorithms that define them,
// which here is just zstd.
func ValidateCompression(ct backuppb.CompressionType, level int32) error {
	switch ct {
	case backuppb.CompressionType_UNKNOWN:
		if level != 0 {
			return errors.Newf("compression level %d given without a compression type", level)
		}
		return nil
	case backuppb.CompressionType_SNAPPY:
		if level != 0 {
			return errors.Newf("snappy does not define compression levels, got %d", level)
		}
		return nil
	case backuppb.CompressionType_LZ4:
		if level < 0 || int(level) >= len(lz4Levels) {
			return errors.Newf("lz4 compression level must be in [0, %d], got %d", len(lz4Levels)-1, level)
		}
		return nil
	case backuppb.CompressionType_ZSTD:
		if level > 22 {
			return errors.Newf("zstd compression level must be at most 22, got %d", level)
		}
		return nil
	default:
		return errors.Newf("unknown compression type %d", ct)
	}
}

// NewCompressingWriter wraps w in the codec the request selected. The
// returned writer must be closed to flush; closing it does not close w.
func NewCompressingWriter(
	w io.Writer, ct backuppb.CompressionType, level int32,
) (io.WriteCloser, error) {
	if err := ValidateCompression(ct, level); err != nil {
		return nil, err
	}
	switch ct {
	case backuppb.CompressionType_UNKNOWN:
		return nopWriteCloser{w}, nil
	case backuppb.CompressionType_SNAPPY:
		return snappy.NewBufferedWriter(w), nil
	case backuppb.CompressionType_LZ4:
		lw := lz4.NewWriter(w)
		if err := lw.Apply(lz4.CompressionLevelOption(lz4Levels[level])); err != nil {
			return nil, errors.Wrap(err, "configuring lz4 writer")
		}
		return lw, nil
	case backuppb.CompressionType_ZSTD:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(int(level))))
		if err != nil {
			return nil, errors.Wrap(err, "configuring zstd writer")
		}
		return zw, nil
	default:
		return nil, errors.Newf("unknown compression type %d", ct)
	}
}

// NewDecompressingReader undoes NewCompressingWriter for the restore
// path and read-back verification.
func NewDecompressingReader(
	r io.Reader, ct backuppb.CompressionType,
) (io.ReadCloser, error) {
	switch ct {
	case backuppb.CompressionType_UNKNOWN:
		return io.NopCloser(r), nil
	case backuppb.CompressionType_SNAPPY:
		return io.NopCloser(snappy.NewReader(r)), nil
	case backuppb.CompressionType_LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case backuppb.CompressionType_ZSTD:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "configuring zstd reader")
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, errors.Newf("unknown compression type %d", ct)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
