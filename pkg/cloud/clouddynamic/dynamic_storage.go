// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package clouddynamic implements the dynamically-configured backend:
// CloudDynamic.ProviderName selects a constructor from a registry and
// the attrs map is forwarded to it verbatim. Constructors ignore attr
// keys they do not recognize, so newer writers can add tunables without
// breaking older readers. "s3" and "gcs" are registered out of the box.
package clouddynamic

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/cloud"
	"github.com/brkv/brkv/pkg/cloud/amazon"
	"github.com/brkv/brkv/pkg/cloud/gcp"
	"github.com/cockroachdb/errors"
)

// Constructor builds an ExternalStorage for one dynamic provider from
// the bucket descriptor and the open attrs bag.
type Constructor func(
	ctx context.Context, args cloud.ExternalStorageContext, conf *backuppb.CloudDynamic,
) (cloud.ExternalStorage, error)

var constructors = map[string]Constructor{}

// RegisterProvider adds a named dynamic provider. Registering a name
// twice panics.
func RegisterProvider(name string, c Constructor) {
	if _, ok := constructors[name]; ok {
		panic(errors.AssertionFailedf("dynamic storage provider %q registered twice", name))
	}
	constructors[name] = c
}

func init() {
	RegisterProvider("s3", makeDynamicS3)
	RegisterProvider("gcs", makeDynamicGCS)
	cloud.RegisterExternalStorageProvider(
		cloud.ProviderCloudDynamic, makeDynamicStorage, parseCloudURL,
		[]string{"secret_access_key", "credentials_blob"}, "cloud")
}

// parseCloudURL handles cloud://provider-name/bucket/prefix?attrs. Every
// query parameter becomes an attr, so new provider tunables need no
// parser change.
func parseCloudURL(uri *cloud.ConsumeURL) (*backuppb.StorageBackend, error) {
	if uri.Host == "" {
		return nil, errors.New("cloud URI must name a provider: cloud://provider/bucket/prefix")
	}
	pathParts := strings.SplitN(strings.TrimLeft(uri.Path, "/"), "/", 2)
	conf := &backuppb.CloudDynamic{
		ProviderName: uri.Host,
		Bucket:       &backuppb.Bucket{Bucket: pathParts[0]},
		Attrs:        map[string]string{},
	}
	if len(pathParts) == 2 {
		conf.Bucket.Prefix = pathParts[1]
	}
	for _, p := range uri.RemainingQueryParams() {
		conf.Attrs[p] = uri.ConsumeParam(p)
	}
	return &backuppb.StorageBackend{CloudDynamic: conf}, nil
}

// makeDynamicStorage fails fast on an unknown provider name, before any
// I/O is attempted.
func makeDynamicStorage(
	ctx context.Context, args cloud.ExternalStorageContext, dest *backuppb.StorageBackend,
) (cloud.ExternalStorage, error) {
	conf := dest.CloudDynamic
	if conf == nil {
		return nil, errors.New("dynamic storage requested but config missing")
	}
	if conf.Bucket == nil || conf.Bucket.Bucket == "" {
		return nil, errors.New("dynamic storage requires a bucket")
	}
	c, ok := constructors[conf.ProviderName]
	if !ok {
		return nil, errors.Newf("unknown dynamic storage provider %q", conf.ProviderName)
	}
	return c(ctx, args, conf)
}

func makeDynamicS3(
	ctx context.Context, args cloud.ExternalStorageContext, conf *backuppb.CloudDynamic,
) (cloud.ExternalStorage, error) {
	s3conf := &backuppb.S3{
		Endpoint:        conf.Bucket.Endpoint,
		Region:          conf.Bucket.Region,
		Bucket:          conf.Bucket.Bucket,
		Prefix:          conf.Bucket.Prefix,
		StorageClass:    conf.Bucket.StorageClass,
		Sse:             conf.Attrs["sse"],
		Acl:             conf.Attrs["acl"],
		AccessKey:       conf.Attrs["access_key"],
		SecretAccessKey: conf.Attrs["secret_access_key"],
	}
	if v, ok := conf.Attrs["force_path_style"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrap(err, "parsing force_path_style attr")
		}
		s3conf.ForcePathStyle = b
	}
	return amazon.MakeS3Storage(ctx, args, &backuppb.StorageBackend{S3: s3conf})
}

func makeDynamicGCS(
	ctx context.Context, args cloud.ExternalStorageContext, conf *backuppb.CloudDynamic,
) (cloud.ExternalStorage, error) {
	gcsConf := &backuppb.GCS{
		Endpoint:      conf.Bucket.Endpoint,
		Bucket:        conf.Bucket.Bucket,
		Prefix:        conf.Bucket.Prefix,
		StorageClass:  conf.Bucket.StorageClass,
		PredefinedAcl: conf.Attrs["predefined_acl"],
	}
	if blob, ok := conf.Attrs["credentials_blob"]; ok && blob != "" {
		decoded, err := base64.StdEncoding.DecodeString(blob)
		if err != nil {
			return nil, errors.Wrap(err, "decoding credentials_blob attr")
		}
		gcsConf.CredentialsBlob = decoded
	}
	return gcp.MakeGCSStorage(ctx, args, &backuppb.StorageBackend{Gcs: gcsConf})
}
