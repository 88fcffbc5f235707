// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package amazon implements the S3-compatible storage backend.
package amazon

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/cloud"
	"github.com/cockroachdb/errors"
)

const (
	// AWSAccessKeyParam is the query parameter for access_key in an S3 URI.
	AWSAccessKeyParam = "AWS_ACCESS_KEY_ID"
	// AWSSecretParam is the query parameter for the 'secret' in an S3 URI.
	AWSSecretParam = "AWS_SECRET_ACCESS_KEY"
	// AWSEndpointParam is the query parameter for the 'endpoint' in an S3 URI.
	AWSEndpointParam = "AWS_ENDPOINT"
	// S3RegionParam is the query parameter for the 'region' in an S3 URI.
	S3RegionParam = "AWS_REGION"
	// S3StorageClassParam is the query parameter for the storage class in
	// an S3 URI.
	S3StorageClassParam = "S3_STORAGE_CLASS"
	// AWSServerSideEncryptionMode is the query parameter for the
	// server-side encryption mode, either AES256 or aws:kms.
	AWSServerSideEncryptionMode = "AWS_SERVER_ENC_MODE"
	// S3ACLParam is the query parameter for the canned ACL applied to
	// uploaded objects.
	S3ACLParam = "AWS_ACL"
	// S3ForcePathStyleParam is the query parameter selecting path-style
	// bucket addressing, needed by most non-AWS S3-compatible stores.
	S3ForcePathStyleParam = "AWS_FORCE_PATH_STYLE"
)

func init() {
	cloud.RegisterExternalStorageProvider(
		cloud.ProviderS3, MakeS3Storage, parseS3URL,
		[]string{AWSSecretParam}, "s3")
}

func parseS3URL(uri *cloud.ConsumeURL) (*backuppb.StorageBackend, error) {
	conf := &backuppb.S3{
		Bucket:          uri.Host,
		Prefix:          strings.TrimLeft(uri.Path, "/"),
		AccessKey:       uri.ConsumeParam(AWSAccessKeyParam),
		SecretAccessKey: uri.ConsumeParam(AWSSecretParam),
		Endpoint:        uri.ConsumeParam(AWSEndpointParam),
		Region:          uri.ConsumeParam(S3RegionParam),
		StorageClass:    uri.ConsumeParam(S3StorageClassParam),
		Sse:             uri.ConsumeParam(AWSServerSideEncryptionMode),
		Acl:             uri.ConsumeParam(S3ACLParam),
	}
	if v := uri.ConsumeParam(S3ForcePathStyleParam); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", S3ForcePathStyleParam)
		}
		conf.ForcePathStyle = b
	}
	// AWS secrets often contain + characters, which must be escaped when
	// included in a query string; otherwise, they represent a space
	// character. More than a few users have been bitten by this.
	//
	// Luckily, AWS secrets are base64-encoded data and thus will never
	// actually contain spaces. We can convert any space characters we see
	// to + characters to recover the original secret.
	conf.SecretAccessKey = strings.Replace(conf.SecretAccessKey, " ", "+", -1)
	if leftover := uri.RemainingQueryParams(); len(leftover) > 0 {
		return nil, errors.Newf("unknown S3 query parameters: %s", strings.Join(leftover, ", "))
	}
	return &backuppb.StorageBackend{S3: conf}, nil
}

type s3Storage struct {
	client   *s3.Client
	uploader *manager.Uploader
	conf     *backuppb.S3
	prefix   string
}

var _ cloud.ExternalStorage = &s3Storage{}

// MakeS3Storage opens an S3-compatible backend. Empty AccessKey and
// SecretAccessKey defer to the ambient credential chain; they are never
// treated as literal empty credentials.
func MakeS3Storage(
	ctx context.Context, args cloud.ExternalStorageContext, dest *backuppb.StorageBackend,
) (cloud.ExternalStorage, error) {
	conf := dest.S3
	if conf == nil {
		return nil, errors.New("s3 storage requested but config missing")
	}
	if conf.Bucket == "" {
		return nil, errors.New("s3 storage requires a bucket")
	}

	var loadOpts []func(*config.LoadOptions) error
	if conf.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(conf.Region))
	}
	switch {
	case conf.AccessKey != "":
		if conf.SecretAccessKey == "" {
			return nil, errors.Newf("s3 access key set but secret missing")
		}
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretAccessKey, "")))
	case conf.SecretAccessKey != "":
		return nil, errors.Newf("s3 secret set but access key missing")
	default:
		if args.IOConf.DisableImplicitCredentials {
			return nil, errors.New(
				"implicit credentials disallowed for s3 by the disable_implicit_credentials setting")
		}
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize an aws config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.EndpointResolver = s3.EndpointResolverFromURL(conf.Endpoint)
		}
		o.UsePathStyle = conf.ForcePathStyle
	})
	uploader := manager.NewUploader(client)
	return &s3Storage{
		client:   client,
		uploader: uploader,
		conf:     conf,
		prefix:   conf.Prefix,
	}, nil
}

func (s *s3Storage) Conf() *backuppb.StorageBackend {
	return &backuppb.StorageBackend{S3: s.conf}
}

func (s *s3Storage) objectName(basename string) string {
	if s.prefix == "" {
		return basename
	}
	return strings.TrimSuffix(s.prefix, "/") + "/" + basename
}

// WriteFile uploads content under prefix+basename. The upload manager
// switches to multipart once contentLength exceeds a single part.
func (s *s3Storage) WriteFile(
	ctx context.Context, basename string, content io.Reader, contentLength int64,
) error {
	counted := &countingReader{r: content}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.conf.Bucket),
		Key:    aws.String(s.objectName(basename)),
		Body:   counted,
	}
	if s.conf.Sse != "" {
		input.ServerSideEncryption = types.ServerSideEncryption(s.conf.Sse)
	}
	if s.conf.Acl != "" {
		input.ACL = types.ObjectCannedACL(s.conf.Acl)
	}
	if s.conf.StorageClass != "" {
		input.StorageClass = types.StorageClass(s.conf.StorageClass)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return classifyS3Error(errors.Wrapf(err, "uploading %q to s3", basename))
	}
	if counted.n != contentLength {
		return errors.Newf("uploaded %d bytes, declared content length is %d", counted.n, contentLength)
	}
	return nil
}

func (s *s3Storage) ReadFile(ctx context.Context, basename string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.conf.Bucket),
		Key:    aws.String(s.objectName(basename)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, errors.Wrapf(cloud.ErrFileDoesNotExist, "s3 object %q does not exist", basename)
		}
		return nil, classifyS3Error(errors.Wrapf(err, "reading %q from s3", basename))
	}
	return out.Body, nil
}

func (s *s3Storage) Size(ctx context.Context, basename string) (int64, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.conf.Bucket),
		Key:    aws.String(s.objectName(basename)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return 0, errors.Wrapf(cloud.ErrFileDoesNotExist, "s3 object %q does not exist", basename)
		}
		return 0, classifyS3Error(errors.Wrapf(err, "sizing %q on s3", basename))
	}
	return out.ContentLength, nil
}

func (s *s3Storage) Close() error { return nil }

func isS3NotFound(err error) bool {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noKey) || errors.As(err, &notFound)
}

// classifyS3Error marks server-side and throttling failures as
// transient. Authentication failures and anything else 4xx surface
// as-is.
func classifyS3Error(err error) error {
	if err == nil {
		return nil
	}
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		// A 503 can mean we need to reduce our request rate; either way it
		// and its 5xx siblings are the caller's cue to back off and retry.
		if re.HTTPStatusCode() >= http.StatusInternalServerError ||
			re.HTTPStatusCode() == http.StatusTooManyRequests {
			return cloud.MarkTransient(err)
		}
		return err
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "RequestTimeout", "SlowDown", "Throttling", "ThrottlingException":
			return cloud.MarkTransient(err)
		}
		return err
	}
	// No structured response at all: connection-level failure.
	return cloud.MarkTransient(err)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
