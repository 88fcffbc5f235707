// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package gcp implements the Google Cloud Storage backend.
package gcp

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/cloud"
	"github.com/cockroachdb/errors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// CredentialsParam is the query parameter for the base64-encoded
	// contents of the Google Application Credentials JSON key.
	CredentialsParam = "CREDENTIALS"
	// GCSEndpointParam is the query parameter overriding the storage API
	// endpoint, for emulators and private Google access.
	GCSEndpointParam = "GCS_ENDPOINT"
	// GCSStorageClassParam is the query parameter for the storage class
	// of uploaded objects.
	GCSStorageClassParam = "GCS_STORAGE_CLASS"
	// GCSPredefinedACLParam is the query parameter for the predefined ACL
	// applied to uploaded objects.
	GCSPredefinedACLParam = "GCS_PREDEFINED_ACL"
)

func init() {
	cloud.RegisterExternalStorageProvider(
		cloud.ProviderGCS, MakeGCSStorage, parseGSURL,
		[]string{CredentialsParam}, "gs")
}

func parseGSURL(uri *cloud.ConsumeURL) (*backuppb.StorageBackend, error) {
	conf := &backuppb.GCS{
		Bucket:        uri.Host,
		Prefix:        strings.TrimLeft(uri.Path, "/"),
		Endpoint:      uri.ConsumeParam(GCSEndpointParam),
		StorageClass:  uri.ConsumeParam(GCSStorageClassParam),
		PredefinedAcl: uri.ConsumeParam(GCSPredefinedACLParam),
	}
	if creds := uri.ConsumeParam(CredentialsParam); creds != "" {
		decoded, err := base64.StdEncoding.DecodeString(creds)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding value of %s", CredentialsParam)
		}
		conf.CredentialsBlob = decoded
	}
	if leftover := uri.RemainingQueryParams(); len(leftover) > 0 {
		return nil, errors.Newf("unknown GCS query parameters: %s", strings.Join(leftover, ", "))
	}
	return &backuppb.StorageBackend{Gcs: conf}, nil
}

type gcsStorage struct {
	bucket *gcs.BucketHandle
	client *gcs.Client
	conf   *backuppb.GCS
	prefix string
}

var _ cloud.ExternalStorage = &gcsStorage{}

// MakeGCSStorage opens a GCS backend. An empty CredentialsBlob defers to
// ambient application-default credentials rather than meaning "no
// credentials".
func MakeGCSStorage(
	ctx context.Context, args cloud.ExternalStorageContext, dest *backuppb.StorageBackend,
) (cloud.ExternalStorage, error) {
	conf := dest.Gcs
	if conf == nil {
		return nil, errors.New("google cloud storage upload requested but info missing")
	}
	if conf.Bucket == "" {
		return nil, errors.New("google cloud storage requires a bucket")
	}
	const scope = gcs.ScopeReadWrite
	opts := []option.ClientOption{option.WithScopes(scope)}
	if conf.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(conf.Endpoint))
	}
	if len(conf.CredentialsBlob) > 0 {
		source, err := google.JWTConfigFromJSON(conf.CredentialsBlob, scope)
		if err != nil {
			return nil, errors.Wrap(err, "creating GCS oauth token source from specified credentials")
		}
		opts = append(opts, option.WithTokenSource(source.TokenSource(ctx)))
	} else if args.IOConf.DisableImplicitCredentials {
		return nil, errors.New(
			"implicit credentials disallowed for gs by the disable_implicit_credentials setting")
	}
	g, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create google cloud client")
	}
	return &gcsStorage{
		bucket: g.Bucket(conf.Bucket),
		client: g,
		conf:   conf,
		prefix: conf.Prefix,
	}, nil
}

func (g *gcsStorage) Conf() *backuppb.StorageBackend {
	return &backuppb.StorageBackend{Gcs: g.conf}
}

func (g *gcsStorage) WriteFile(
	ctx context.Context, basename string, content io.Reader, contentLength int64,
) error {
	w := g.bucket.Object(path.Join(g.prefix, basename)).NewWriter(ctx)
	if g.conf.StorageClass != "" {
		w.StorageClass = g.conf.StorageClass
	}
	if g.conf.PredefinedAcl != "" {
		w.PredefinedACL = g.conf.PredefinedAcl
	}
	n, err := io.Copy(w, content)
	if err != nil {
		_ = w.Close()
		return classifyGCSError(errors.Wrapf(err, "uploading %q to gcs", basename))
	}
	if n != contentLength {
		_ = w.Close()
		return errors.Newf("uploaded %d bytes, declared content length is %d", n, contentLength)
	}
	// The object only becomes visible when Close returns; a failed or
	// abandoned upload never leaves a partial object under the name.
	if err := w.Close(); err != nil {
		return classifyGCSError(errors.Wrapf(err, "closing gcs upload of %q", basename))
	}
	return nil
}

func (g *gcsStorage) ReadFile(ctx context.Context, basename string) (io.ReadCloser, error) {
	r, err := g.bucket.Object(path.Join(g.prefix, basename)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, errors.Wrapf(cloud.ErrFileDoesNotExist, "gcs object %q does not exist", basename)
		}
		return nil, classifyGCSError(errors.Wrapf(err, "reading %q from gcs", basename))
	}
	return r, nil
}

func (g *gcsStorage) Size(ctx context.Context, basename string) (int64, error) {
	attrs, err := g.bucket.Object(path.Join(g.prefix, basename)).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return 0, errors.Wrapf(cloud.ErrFileDoesNotExist, "gcs object %q does not exist", basename)
		}
		return 0, classifyGCSError(errors.Wrapf(err, "sizing %q on gcs", basename))
	}
	return attrs.Size, nil
}

func (g *gcsStorage) Close() error {
	return g.client.Close()
}

// classifyGCSError marks 5xx and 429 responses as transient. The
// timeout-awaiting-response-headers message can also show up when auth
// quota limits are reached, in which case backing off is right too.
func classifyGCSError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code >= http.StatusInternalServerError || gerr.Code == http.StatusTooManyRequests {
			return cloud.MarkTransient(err)
		}
		return err
	}
	if strings.Contains(err.Error(), "net/http: timeout awaiting response headers") {
		return cloud.MarkTransient(err)
	}
	if cloud.IsResumableHTTPError(err) {
		return cloud.MarkTransient(err)
	}
	return err
}
