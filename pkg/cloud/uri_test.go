// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package cloud_test

import (
	"encoding/base64"
	"testing"

	"github.com/brkv/brkv/pkg/cloud"
	_ "github.com/brkv/brkv/pkg/cloud/cloudimpl"
	"github.com/stretchr/testify/require"
)

func TestExternalStorageConfFromURI(t *testing.T) {
	t.Run("s3", func(t *testing.T) {
		conf, err := cloud.ExternalStorageConfFromURI(
			"s3://bucket/backups/1?AWS_ACCESS_KEY_ID=ak&AWS_SECRET_ACCESS_KEY=sk&AWS_REGION=us-east-1&AWS_FORCE_PATH_STYLE=true")
		require.NoError(t, err)
		require.NotNil(t, conf.S3)
		require.Equal(t, "bucket", conf.S3.Bucket)
		require.Equal(t, "backups/1", conf.S3.Prefix)
		require.Equal(t, "ak", conf.S3.AccessKey)
		require.Equal(t, "sk", conf.S3.SecretAccessKey)
		require.Equal(t, "us-east-1", conf.S3.Region)
		require.True(t, conf.S3.ForcePathStyle)
	})
	t.Run("s3 secret space recovery", func(t *testing.T) {
		conf, err := cloud.ExternalStorageConfFromURI(
			"s3://bucket/p?AWS_ACCESS_KEY_ID=ak&AWS_SECRET_ACCESS_KEY=a b c")
		require.NoError(t, err)
		require.Equal(t, "a+b+c", conf.S3.SecretAccessKey)
	})
	t.Run("s3 unknown param rejected", func(t *testing.T) {
		_, err := cloud.ExternalStorageConfFromURI("s3://bucket/p?NOT_A_PARAM=1")
		require.ErrorContains(t, err, "unknown S3 query parameters: NOT_A_PARAM")
	})
	t.Run("gs", func(t *testing.T) {
		creds := base64.StdEncoding.EncodeToString([]byte(`{"type":"service_account"}`))
		conf, err := cloud.ExternalStorageConfFromURI(
			"gs://bucket/backups/1?CREDENTIALS=" + creds + "&GCS_STORAGE_CLASS=COLDLINE")
		require.NoError(t, err)
		require.NotNil(t, conf.Gcs)
		require.Equal(t, "bucket", conf.Gcs.Bucket)
		require.Equal(t, []byte(`{"type":"service_account"}`), conf.Gcs.CredentialsBlob)
		require.Equal(t, "COLDLINE", conf.Gcs.StorageClass)
	})
	t.Run("nodelocal", func(t *testing.T) {
		conf, err := cloud.ExternalStorageConfFromURI("nodelocal:///backups/1")
		require.NoError(t, err)
		require.NotNil(t, conf.Local)
		require.Equal(t, "/backups/1", conf.Local.Path)
	})
	t.Run("nodelocal with host rejected", func(t *testing.T) {
		_, err := cloud.ExternalStorageConfFromURI("nodelocal://host/backups")
		require.ErrorContains(t, err, "must not name a host")
	})
	t.Run("noop", func(t *testing.T) {
		conf, err := cloud.ExternalStorageConfFromURI("noop://")
		require.NoError(t, err)
		require.NotNil(t, conf.Noop)
	})
	t.Run("cloud dynamic", func(t *testing.T) {
		conf, err := cloud.ExternalStorageConfFromURI(
			"cloud://s3/bucket/prefix?access_key=ak&acl=private")
		require.NoError(t, err)
		require.NotNil(t, conf.CloudDynamic)
		require.Equal(t, "s3", conf.CloudDynamic.ProviderName)
		require.Equal(t, "bucket", conf.CloudDynamic.Bucket.Bucket)
		require.Equal(t, "prefix", conf.CloudDynamic.Bucket.Prefix)
		require.Equal(t, "ak", conf.CloudDynamic.Attrs["access_key"])
		require.Equal(t, "private", conf.CloudDynamic.Attrs["acl"])
	})
	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := cloud.ExternalStorageConfFromURI("ftp://host/path")
		require.ErrorContains(t, err, "unsupported storage scheme")
	})
}

func TestSanitizeExternalStorageURI(t *testing.T) {
	t.Run("registered secrets redacted", func(t *testing.T) {
		got, err := cloud.SanitizeExternalStorageURI(
			"s3://bucket/p?AWS_ACCESS_KEY_ID=ak&AWS_SECRET_ACCESS_KEY=sk", nil)
		require.NoError(t, err)
		require.Contains(t, got, "AWS_SECRET_ACCESS_KEY=redacted")
		require.Contains(t, got, "AWS_ACCESS_KEY_ID=ak")
	})
	t.Run("extra params redacted", func(t *testing.T) {
		got, err := cloud.SanitizeExternalStorageURI(
			"cloud://s3/bucket?secret_access_key=sk", []string{"secret_access_key"})
		require.NoError(t, err)
		require.Contains(t, got, "secret_access_key=redacted")
	})
}
