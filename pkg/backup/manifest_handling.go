// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"io"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/cloud"
	"github.com/cockroachdb/errors"
	"github.com/gogo/protobuf/proto"
)

// Files that appear in a backup directory.
const (
	// ManifestName is the object name of the serialized BackupMeta.
	ManifestName = "BACKUP_MANIFEST"
	// ManifestChecksumSuffix names the companion object holding the
	// SHA-256 of the manifest as written.
	ManifestChecksumSuffix = "-CHECKSUM"
)

// isGZipped detects whether the given bytes represent GZipped data. This
// check is used rather than http.DetectContentType since gzipped
// protobufs have been mis-identified by that method before. There is no
// conflict between these magic bytes and the first bytes of a protobuf.
func isGZipped(dat []byte) bool {
	gzipPrefix := []byte("\x1F\x8B\x08")
	return bytes.HasPrefix(dat, gzipPrefix)
}

// WriteBackupManifest validates and persists a finalized manifest plus
// its checksum companion. The manifest is gzipped: it shrinks very well
// and the read side detects compression from the magic bytes.
func WriteBackupManifest(
	ctx context.Context, store cloud.ExternalStorage, meta *backuppb.BackupMeta,
) error {
	if err := ValidateMeta(meta); err != nil {
		return errors.Wrap(err, "validating manifest before write")
	}
	raw, err := proto.Marshal(meta)
	if err != nil {
		return errors.Wrap(err, "marshaling manifest")
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return errors.Wrap(err, "compressing manifest")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "compressing manifest")
	}

	if err := store.WriteFile(
		ctx, ManifestName, bytes.NewReader(buf.Bytes()), int64(buf.Len()),
	); err != nil {
		return errors.Wrap(err, "writing manifest")
	}

	// The checksum covers the manifest bytes as written.
	sum := sha256.Sum256(buf.Bytes())
	if err := store.WriteFile(
		ctx, ManifestName+ManifestChecksumSuffix, bytes.NewReader(sum[:]), int64(len(sum)),
	); err != nil {
		return errors.Wrap(err, "writing manifest checksum")
	}
	return nil
}

// ReadBackupManifest fetches, verifies and decodes the manifest written
// by WriteBackupManifest. A missing checksum companion is tolerated for
// compatibility with manifests written by older tools; a mismatched one
// is not.
func ReadBackupManifest(
	ctx context.Context, store cloud.ExternalStorage,
) (*backuppb.BackupMeta, error) {
	r, err := store.ReadFile(ctx, ManifestName)
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}

	cr, err := store.ReadFile(ctx, ManifestName+ManifestChecksumSuffix)
	if err == nil {
		defer cr.Close()
		want, err := io.ReadAll(cr)
		if err != nil {
			return nil, errors.Wrap(err, "reading manifest checksum")
		}
		got := sha256.Sum256(data)
		if !bytes.Equal(got[:], want) {
			return nil, errors.Newf("manifest checksum mismatch: %x vs stored %x", got, want)
		}
	} else if !errors.Is(err, cloud.ErrFileDoesNotExist) {
		return nil, errors.Wrap(err, "reading manifest checksum")
	}

	if isGZipped(data) {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "decompressing manifest")
		}
		data, err = io.ReadAll(gz)
		if err != nil {
			return nil, errors.Wrap(err, "decompressing manifest")
		}
	}

	meta := &backuppb.BackupMeta{}
	if err := proto.Unmarshal(data, meta); err != nil {
		return nil, errors.Wrap(err, "unmarshaling manifest")
	}
	if err := ValidateMeta(meta); err != nil {
		return nil, errors.Wrap(err, "validating read manifest")
	}
	return meta, nil
}
