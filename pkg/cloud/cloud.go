// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package cloud defines the uniform contract over the backup storage
// backends and the registry the concrete providers plug into.
//
// Providers live in subpackages (nullsink, nodelocal, amazon, gcp,
// clouddynamic) and register themselves at init time; importing
// pkg/cloud/cloudimpl links them all in.
package cloud

import (
	"context"
	"io"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/cockroachdb/errors"
)

// ExternalStorage is the capability contract every backend variant
// satisfies. One instance is scoped to one resolved StorageBackend
// configuration; instances are safe for concurrent use and no call may
// mutate another in-flight call's state.
type ExternalStorage interface {
	// Conf returns the configuration this storage was opened with.
	Conf() *backuppb.StorageBackend

	// WriteFile writes content under basename. contentLength declares
	// the exact number of bytes content will yield; implementations
	// reject a mismatch. Implementations do not retry internally:
	// failures come back classified (see IsTransient) so the caller can
	// apply its own backoff.
	WriteFile(ctx context.Context, basename string, content io.Reader, contentLength int64) error

	// ReadFile streams back the object previously written under
	// basename. A missing object fails with ErrFileDoesNotExist.
	ReadFile(ctx context.Context, basename string) (io.ReadCloser, error)

	// Size returns the stored (possibly compressed) size of the object.
	Size(ctx context.Context, basename string) (int64, error)

	// Close releases resources associated with the storage client.
	Close() error
}

// Provider identifies a backend variant of StorageBackend.
type Provider int

const (
	// ProviderUnknown is an unset or unrecognized backend.
	ProviderUnknown Provider = iota
	// ProviderNoop discards writes.
	ProviderNoop
	// ProviderLocal is the node-local filesystem.
	ProviderLocal
	// ProviderS3 is an S3-compatible object store.
	ProviderS3
	// ProviderGCS is Google Cloud Storage.
	ProviderGCS
	// ProviderCloudDynamic dispatches on CloudDynamic.ProviderName.
	ProviderCloudDynamic
)

func (p Provider) String() string {
	switch p {
	case ProviderNoop:
		return "noop"
	case ProviderLocal:
		return "local"
	case ProviderS3:
		return "s3"
	case ProviderGCS:
		return "gcs"
	case ProviderCloudDynamic:
		return "cloud-dynamic"
	default:
		return "unknown"
	}
}

// IODirConfig carries node-level restrictions on external I/O.
type IODirConfig struct {
	// Dir is the root the local provider confines itself to. Empty
	// disables local storage entirely.
	Dir string
	// DisableOutbound forbids network-reaching providers.
	DisableOutbound bool
	// DisableImplicitCredentials forbids falling back to ambient
	// machine credentials when a config omits explicit ones.
	DisableImplicitCredentials bool
}

// ExternalStorageContext is what a provider constructor gets beyond its
// own configuration.
type ExternalStorageContext struct {
	IOConf IODirConfig
}

// ExternalStorageConstructor builds an ExternalStorage from a resolved
// configuration. Constructors validate configuration and construct
// clients but perform no object I/O.
type ExternalStorageConstructor func(
	ctx context.Context, args ExternalStorageContext, dest *backuppb.StorageBackend,
) (ExternalStorage, error)

// ExternalStorageURIParser translates a URI of a registered scheme into
// a StorageBackend configuration.
type ExternalStorageURIParser func(uri *ConsumeURL) (*backuppb.StorageBackend, error)

type registration struct {
	constructor ExternalStorageConstructor
	parser      ExternalStorageURIParser
	schemes     []string
}

var (
	implementations = map[Provider]registration{}
	uriSchemes      = map[string]Provider{}
	redactedParams  = map[string]struct{}{}
)

// RegisterExternalStorageProvider is called at init time by every
// concrete provider. Registering the same provider twice panics, as
// does claiming a scheme another provider owns.
func RegisterExternalStorageProvider(
	p Provider,
	constructor ExternalStorageConstructor,
	parser ExternalStorageURIParser,
	redacted []string,
	schemes ...string,
) {
	if _, ok := implementations[p]; ok {
		panic(errors.AssertionFailedf("external storage provider %s registered twice", p))
	}
	implementations[p] = registration{constructor: constructor, parser: parser, schemes: schemes}
	for _, s := range schemes {
		if existing, ok := uriSchemes[s]; ok {
			panic(errors.AssertionFailedf("external storage scheme %q already owned by %s", s, existing))
		}
		uriSchemes[s] = p
	}
	for _, param := range redacted {
		redactedParams[param] = struct{}{}
	}
}

// BackendProvider returns which variant of dest is set. It is also the
// "exactly one variant" validation: zero or multiple set variants fail.
func BackendProvider(dest *backuppb.StorageBackend) (Provider, error) {
	if dest == nil {
		return ProviderUnknown, errors.New("no storage backend configured")
	}
	p := ProviderUnknown
	set := 0
	if dest.Noop != nil {
		p, set = ProviderNoop, set+1
	}
	if dest.Local != nil {
		p, set = ProviderLocal, set+1
	}
	if dest.S3 != nil {
		p, set = ProviderS3, set+1
	}
	if dest.Gcs != nil {
		p, set = ProviderGCS, set+1
	}
	if dest.CloudDynamic != nil {
		p, set = ProviderCloudDynamic, set+1
	}
	switch set {
	case 0:
		return ProviderUnknown, errors.New("storage backend has no variant set")
	case 1:
		return p, nil
	default:
		return ProviderUnknown, errors.Newf("storage backend has %d variants set, expected exactly one", set)
	}
}

// MakeExternalStorage opens the ExternalStorage described by dest.
// Configuration errors surface here, before any object I/O is
// attempted.
func MakeExternalStorage(
	ctx context.Context, args ExternalStorageContext, dest *backuppb.StorageBackend,
) (ExternalStorage, error) {
	p, err := BackendProvider(dest)
	if err != nil {
		return nil, err
	}
	if args.IOConf.DisableOutbound && p != ProviderNoop && p != ProviderLocal {
		return nil, errors.New("external network access is disabled")
	}
	reg, ok := implementations[p]
	if !ok {
		return nil, errors.Newf("no external storage implementation registered for %s", p)
	}
	return reg.constructor(ctx, args, dest)
}
