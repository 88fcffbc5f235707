// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package clouddynamic

import (
	"context"
	"testing"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/cloud"
	"github.com/stretchr/testify/require"
)

func TestUnknownProviderFailsFast(t *testing.T) {
	_, err := makeDynamicStorage(
		context.Background(),
		cloud.ExternalStorageContext{},
		&backuppb.StorageBackend{CloudDynamic: &backuppb.CloudDynamic{
			ProviderName: "not-a-provider",
			Bucket:       &backuppb.Bucket{Bucket: "b"},
		}},
	)
	require.ErrorContains(t, err, `unknown dynamic storage provider "not-a-provider"`)
}

func TestDynamicStorageRequiresBucket(t *testing.T) {
	_, err := makeDynamicStorage(
		context.Background(),
		cloud.ExternalStorageContext{},
		&backuppb.StorageBackend{CloudDynamic: &backuppb.CloudDynamic{ProviderName: "s3"}},
	)
	require.ErrorContains(t, err, "requires a bucket")
}

func TestRegisterProviderRejectsDuplicates(t *testing.T) {
	require.Panics(t, func() {
		RegisterProvider("s3", nil)
	})
}

func TestParseCloudURL(t *testing.T) {
	conf, err := cloud.ExternalStorageConfFromURI("cloud://gcs/bucket/a/b/c?predefined_acl=publicRead")
	require.NoError(t, err)
	d := conf.CloudDynamic
	require.Equal(t, "gcs", d.ProviderName)
	require.Equal(t, "bucket", d.Bucket.Bucket)
	require.Equal(t, "a/b/c", d.Bucket.Prefix)
	require.Equal(t, "publicRead", d.Attrs["predefined_acl"])

	_, err = cloud.ExternalStorageConfFromURI("cloud://")
	require.ErrorContains(t, err, "must name a provider")
}
