// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package backuppb holds the wire types for the backup protocol.
//
// The types are maintained by hand against backup.proto in this directory
// and are marshaled through gogo/protobuf's tag reflection, so the encoded
// form is the standard tagged protobuf wire format. Unknown fields survive
// an unmarshal/marshal round trip via XXX_unrecognized.
package backuppb

import (
	fmt "fmt"

	proto "github.com/gogo/protobuf/proto"
)

// File is one physical output artifact of a backup. Contents are
// immutable once written: Sha256 and Crc64Xor are computed at production
// time and never updated in place.
type File struct {
	Name             string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Sha256           []byte `protobuf:"bytes,2,opt,name=sha256,proto3" json:"sha256,omitempty"`
	StartKey         []byte `protobuf:"bytes,3,opt,name=start_key,json=startKey,proto3" json:"start_key,omitempty"`
	EndKey           []byte `protobuf:"bytes,4,opt,name=end_key,json=endKey,proto3" json:"end_key,omitempty"`
	StartVersion     uint64 `protobuf:"varint,5,opt,name=start_version,json=startVersion,proto3" json:"start_version,omitempty"`
	EndVersion       uint64 `protobuf:"varint,6,opt,name=end_version,json=endVersion,proto3" json:"end_version,omitempty"`
	Crc64Xor         uint64 `protobuf:"varint,7,opt,name=crc64xor,proto3" json:"crc64xor,omitempty"`
	TotalKvs         uint64 `protobuf:"varint,8,opt,name=total_kvs,json=totalKvs,proto3" json:"total_kvs,omitempty"`
	TotalBytes       uint64 `protobuf:"varint,9,opt,name=total_bytes,json=totalBytes,proto3" json:"total_bytes,omitempty"`
	Cf               string `protobuf:"bytes,10,opt,name=cf,proto3" json:"cf,omitempty"`
	Size_            uint64 `protobuf:"varint,11,opt,name=size,proto3" json:"size,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *File) Reset()         { *m = File{} }
func (m *File) String() string { return proto.CompactTextString(m) }
func (*File) ProtoMessage()    {}

// Schema describes one relational table snapshotted incidentally to the
// raw key range. Only meaningful in non-raw mode. Stats is an opaque
// serialized analyzer statistics blob, passed through unmodified.
type Schema struct {
	Db               []byte `protobuf:"bytes,1,opt,name=db,proto3" json:"db,omitempty"`
	Table            []byte `protobuf:"bytes,2,opt,name=table,proto3" json:"table,omitempty"`
	Crc64Xor         uint64 `protobuf:"varint,3,opt,name=crc64xor,proto3" json:"crc64xor,omitempty"`
	TotalKvs         uint64 `protobuf:"varint,4,opt,name=total_kvs,json=totalKvs,proto3" json:"total_kvs,omitempty"`
	TotalBytes       uint64 `protobuf:"varint,5,opt,name=total_bytes,json=totalBytes,proto3" json:"total_bytes,omitempty"`
	TiflashReplicas  uint32 `protobuf:"varint,6,opt,name=tiflash_replicas,json=tiflashReplicas,proto3" json:"tiflash_replicas,omitempty"`
	Stats            []byte `protobuf:"bytes,7,opt,name=stats,proto3" json:"stats,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *Schema) Reset()         { *m = Schema{} }
func (m *Schema) String() string { return proto.CompactTextString(m) }
func (*Schema) ProtoMessage()    {}

// RawRange is a column-family-scoped key interval [StartKey, EndKey);
// used only when BackupMeta.IsRawKv is set.
type RawRange struct {
	StartKey         []byte `protobuf:"bytes,1,opt,name=start_key,json=startKey,proto3" json:"start_key,omitempty"`
	EndKey           []byte `protobuf:"bytes,2,opt,name=end_key,json=endKey,proto3" json:"end_key,omitempty"`
	Cf               string `protobuf:"bytes,3,opt,name=cf,proto3" json:"cf,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *RawRange) Reset()         { *m = RawRange{} }
func (m *RawRange) String() string { return proto.CompactTextString(m) }
func (*RawRange) ProtoMessage()    {}

// BackupMeta is the root manifest of one backup job. It is immutable
// once finalized and is the single source of truth for what the backup
// contains.
//
// Field 3 was `path` and is reserved forever.
type BackupMeta struct {
	ClusterId        uint64      `protobuf:"varint,1,opt,name=cluster_id,json=clusterId,proto3" json:"cluster_id,omitempty"`
	ClusterVersion   string      `protobuf:"bytes,2,opt,name=cluster_version,json=clusterVersion,proto3" json:"cluster_version,omitempty"`
	Files            []*File     `protobuf:"bytes,4,rep,name=files,proto3" json:"files,omitempty"`
	StartVersion     uint64      `protobuf:"varint,5,opt,name=start_version,json=startVersion,proto3" json:"start_version,omitempty"`
	EndVersion       uint64      `protobuf:"varint,6,opt,name=end_version,json=endVersion,proto3" json:"end_version,omitempty"`
	Schemas          []*Schema   `protobuf:"bytes,7,rep,name=schemas,proto3" json:"schemas,omitempty"`
	IsRawKv          bool        `protobuf:"varint,8,opt,name=is_raw_kv,json=isRawKv,proto3" json:"is_raw_kv,omitempty"`
	RawRanges        []*RawRange `protobuf:"bytes,9,rep,name=raw_ranges,json=rawRanges,proto3" json:"raw_ranges,omitempty"`
	Ddls             []byte      `protobuf:"bytes,10,opt,name=ddls,proto3" json:"ddls,omitempty"`
	BrVersion        string      `protobuf:"bytes,11,opt,name=br_version,json=brVersion,proto3" json:"br_version,omitempty"`
	XXX_unrecognized []byte      `json:"-"`
}

func (m *BackupMeta) Reset()         { *m = BackupMeta{} }
func (m *BackupMeta) String() string { return proto.CompactTextString(m) }
func (*BackupMeta) ProtoMessage()    {}

// StorageBackend selects exactly one backend variant. The variant fields
// are mutually exclusive; Validate in pkg/cloud rejects zero or multiple
// set variants. Field 1 was `path` and is reserved forever.
type StorageBackend struct {
	Noop             *Noop         `protobuf:"bytes,2,opt,name=noop,proto3" json:"noop,omitempty"`
	Local            *Local        `protobuf:"bytes,3,opt,name=local,proto3" json:"local,omitempty"`
	S3               *S3           `protobuf:"bytes,4,opt,name=s3,proto3" json:"s3,omitempty"`
	Gcs              *GCS          `protobuf:"bytes,5,opt,name=gcs,proto3" json:"gcs,omitempty"`
	CloudDynamic     *CloudDynamic `protobuf:"bytes,6,opt,name=cloud_dynamic,json=cloudDynamic,proto3" json:"cloud_dynamic,omitempty"`
	XXX_unrecognized []byte        `json:"-"`
}

func (m *StorageBackend) Reset()         { *m = StorageBackend{} }
func (m *StorageBackend) String() string { return proto.CompactTextString(m) }
func (*StorageBackend) ProtoMessage()    {}

func (m *StorageBackend) GetNoop() *Noop {
	if m != nil {
		return m.Noop
	}
	return nil
}

func (m *StorageBackend) GetLocal() *Local {
	if m != nil {
		return m.Local
	}
	return nil
}

func (m *StorageBackend) GetS3() *S3 {
	if m != nil {
		return m.S3
	}
	return nil
}

func (m *StorageBackend) GetGcs() *GCS {
	if m != nil {
		return m.Gcs
	}
	return nil
}

func (m *StorageBackend) GetCloudDynamic() *CloudDynamic {
	if m != nil {
		return m.CloudDynamic
	}
	return nil
}

// Noop discards writes and has nothing to read back. Used for dry runs
// and throughput testing.
type Noop struct {
	XXX_unrecognized []byte `json:"-"`
}

func (m *Noop) Reset()         { *m = Noop{} }
func (m *Noop) String() string { return proto.CompactTextString(m) }
func (*Noop) ProtoMessage()    {}

// Local stores objects under a directory on the node's filesystem.
type Local struct {
	Path             string `protobuf:"bytes,1,opt,name=path,proto3" json:"path,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *Local) Reset()         { *m = Local{} }
func (m *Local) String() string { return proto.CompactTextString(m) }
func (*Local) ProtoMessage()    {}

// S3 configures an S3-compatible object store. Empty AccessKey and
// SecretAccessKey mean ambient credential resolution, not empty
// credentials.
type S3 struct {
	Endpoint         string `protobuf:"bytes,1,opt,name=endpoint,proto3" json:"endpoint,omitempty"`
	Region           string `protobuf:"bytes,2,opt,name=region,proto3" json:"region,omitempty"`
	Bucket           string `protobuf:"bytes,3,opt,name=bucket,proto3" json:"bucket,omitempty"`
	Prefix           string `protobuf:"bytes,4,opt,name=prefix,proto3" json:"prefix,omitempty"`
	StorageClass     string `protobuf:"bytes,5,opt,name=storage_class,json=storageClass,proto3" json:"storage_class,omitempty"`
	Sse              string `protobuf:"bytes,6,opt,name=sse,proto3" json:"sse,omitempty"`
	Acl              string `protobuf:"bytes,7,opt,name=acl,proto3" json:"acl,omitempty"`
	AccessKey        string `protobuf:"bytes,8,opt,name=access_key,json=accessKey,proto3" json:"access_key,omitempty"`
	SecretAccessKey  string `protobuf:"bytes,9,opt,name=secret_access_key,json=secretAccessKey,proto3" json:"secret_access_key,omitempty"`
	ForcePathStyle   bool   `protobuf:"varint,10,opt,name=force_path_style,json=forcePathStyle,proto3" json:"force_path_style,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *S3) Reset()         { *m = S3{} }
func (m *S3) String() string { return proto.CompactTextString(m) }
func (*S3) ProtoMessage()    {}

// GCS configures a Google Cloud Storage bucket. An empty CredentialsBlob
// means ambient credential resolution.
type GCS struct {
	Endpoint         string `protobuf:"bytes,1,opt,name=endpoint,proto3" json:"endpoint,omitempty"`
	Bucket           string `protobuf:"bytes,2,opt,name=bucket,proto3" json:"bucket,omitempty"`
	Prefix           string `protobuf:"bytes,3,opt,name=prefix,proto3" json:"prefix,omitempty"`
	StorageClass     string `protobuf:"bytes,4,opt,name=storage_class,json=storageClass,proto3" json:"storage_class,omitempty"`
	PredefinedAcl    string `protobuf:"bytes,5,opt,name=predefined_acl,json=predefinedAcl,proto3" json:"predefined_acl,omitempty"`
	CredentialsBlob  []byte `protobuf:"bytes,6,opt,name=credentials_blob,json=credentialsBlob,proto3" json:"credentials_blob,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *GCS) Reset()         { *m = GCS{} }
func (m *GCS) String() string { return proto.CompactTextString(m) }
func (*GCS) ProtoMessage()    {}

// Bucket is the provider-independent part of a CloudDynamic destination.
type Bucket struct {
	Endpoint         string `protobuf:"bytes,1,opt,name=endpoint,proto3" json:"endpoint,omitempty"`
	Region           string `protobuf:"bytes,2,opt,name=region,proto3" json:"region,omitempty"`
	Bucket           string `protobuf:"bytes,3,opt,name=bucket,proto3" json:"bucket,omitempty"`
	Prefix           string `protobuf:"bytes,4,opt,name=prefix,proto3" json:"prefix,omitempty"`
	StorageClass     string `protobuf:"bytes,5,opt,name=storage_class,json=storageClass,proto3" json:"storage_class,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *Bucket) Reset()         { *m = Bucket{} }
func (m *Bucket) String() string { return proto.CompactTextString(m) }
func (*Bucket) ProtoMessage()    {}

// CloudDynamic selects a registered provider by name. Attrs is forwarded
// verbatim to the provider constructor; unknown keys are ignored there,
// never rejected, so new tunables need no schema change.
type CloudDynamic struct {
	Bucket           *Bucket           `protobuf:"bytes,1,opt,name=bucket,proto3" json:"bucket,omitempty"`
	ProviderName     string            `protobuf:"bytes,2,opt,name=provider_name,json=providerName,proto3" json:"provider_name,omitempty"`
	Attrs            map[string]string `protobuf:"bytes,3,rep,name=attrs,proto3" json:"attrs,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
	XXX_unrecognized []byte            `json:"-"`
}

func (m *CloudDynamic) Reset()         { *m = CloudDynamic{} }
func (m *CloudDynamic) String() string { return proto.CompactTextString(m) }
func (*CloudDynamic) ProtoMessage()    {}

func (m *CloudDynamic) GetBucket() *Bucket {
	if m != nil {
		return m.Bucket
	}
	return nil
}

// CompressionType selects the codec applied to produced files before
// upload.
type CompressionType int32

const (
	CompressionType_UNKNOWN CompressionType = 0
	CompressionType_LZ4     CompressionType = 1
	CompressionType_SNAPPY  CompressionType = 2
	CompressionType_ZSTD    CompressionType = 3
)

var CompressionType_name = map[int32]string{
	0: "UNKNOWN",
	1: "LZ4",
	2: "SNAPPY",
	3: "ZSTD",
}

var CompressionType_value = map[string]int32{
	"UNKNOWN": 0,
	"LZ4":     1,
	"SNAPPY":  2,
	"ZSTD":    3,
}

func (x CompressionType) String() string {
	if s, ok := CompressionType_name[int32(x)]; ok {
		return s
	}
	return fmt.Sprintf("CompressionType(%d)", int32(x))
}

// ClusterIDError reports a request that targets a cluster other than the
// responder's. Fatal to the request; not retryable without correcting
// configuration.
type ClusterIDError struct {
	Current          uint64 `protobuf:"varint,1,opt,name=current,proto3" json:"current,omitempty"`
	Request          uint64 `protobuf:"varint,2,opt,name=request,proto3" json:"request,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *ClusterIDError) Reset()         { *m = ClusterIDError{} }
func (m *ClusterIDError) String() string { return proto.CompactTextString(m) }
func (*ClusterIDError) ProtoMessage()    {}

// KeyError reports a transactional conflict at the engine layer.
// Retryable after backoff.
type KeyError struct {
	Msg              string `protobuf:"bytes,1,opt,name=msg,proto3" json:"msg,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *KeyError) Reset()         { *m = KeyError{} }
func (m *KeyError) String() string { return proto.CompactTextString(m) }
func (*KeyError) ProtoMessage()    {}

// RegionError reports a range ownership or topology mismatch. Retryable
// after refreshing topology.
type RegionError struct {
	Msg              string `protobuf:"bytes,1,opt,name=msg,proto3" json:"msg,omitempty"`
	RegionId         uint64 `protobuf:"varint,2,opt,name=region_id,json=regionId,proto3" json:"region_id,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *RegionError) Reset()         { *m = RegionError{} }
func (m *RegionError) String() string { return proto.CompactTextString(m) }
func (*RegionError) ProtoMessage()    {}

// StorageError reports a backend I/O failure. Retryable says whether the
// failure was classified as transient.
type StorageError struct {
	Msg              string `protobuf:"bytes,1,opt,name=msg,proto3" json:"msg,omitempty"`
	Retryable        bool   `protobuf:"varint,2,opt,name=retryable,proto3" json:"retryable,omitempty"`
	XXX_unrecognized []byte `json:"-"`
}

func (m *StorageError) Reset()         { *m = StorageError{} }
func (m *StorageError) String() string { return proto.CompactTextString(m) }
func (*StorageError) ProtoMessage()    {}

// Error is the per-sub-range failure report carried by BackupResponse.
// At most one detail field is set. Field 2 is reserved forever.
type Error struct {
	Msg              string          `protobuf:"bytes,1,opt,name=msg,proto3" json:"msg,omitempty"`
	ClusterIdError   *ClusterIDError `protobuf:"bytes,3,opt,name=cluster_id_error,json=clusterIdError,proto3" json:"cluster_id_error,omitempty"`
	KvError          *KeyError       `protobuf:"bytes,4,opt,name=kv_error,json=kvError,proto3" json:"kv_error,omitempty"`
	RegionError      *RegionError    `protobuf:"bytes,5,opt,name=region_error,json=regionError,proto3" json:"region_error,omitempty"`
	StorageError     *StorageError   `protobuf:"bytes,6,opt,name=storage_error,json=storageError,proto3" json:"storage_error,omitempty"`
	XXX_unrecognized []byte          `json:"-"`
}

func (m *Error) Reset()         { *m = Error{} }
func (m *Error) String() string { return proto.CompactTextString(m) }
func (*Error) ProtoMessage()    {}

func (m *Error) GetClusterIdError() *ClusterIDError {
	if m != nil {
		return m.ClusterIdError
	}
	return nil
}

func (m *Error) GetKvError() *KeyError {
	if m != nil {
		return m.KvError
	}
	return nil
}

func (m *Error) GetRegionError() *RegionError {
	if m != nil {
		return m.RegionError
	}
	return nil
}

func (m *Error) GetStorageError() *StorageError {
	if m != nil {
		return m.StorageError
	}
	return nil
}

// BackupRequest asks a node for a backup of [StartKey, EndKey) over the
// version window (StartVersion, EndVersion]. StartVersion == EndVersion
// means a point-in-time backup. Fields 6 and 7 are reserved forever.
type BackupRequest struct {
	ClusterId        uint64          `protobuf:"varint,1,opt,name=cluster_id,json=clusterId,proto3" json:"cluster_id,omitempty"`
	StartKey         []byte          `protobuf:"bytes,2,opt,name=start_key,json=startKey,proto3" json:"start_key,omitempty"`
	EndKey           []byte          `protobuf:"bytes,3,opt,name=end_key,json=endKey,proto3" json:"end_key,omitempty"`
	StartVersion     uint64          `protobuf:"varint,4,opt,name=start_version,json=startVersion,proto3" json:"start_version,omitempty"`
	EndVersion       uint64          `protobuf:"varint,5,opt,name=end_version,json=endVersion,proto3" json:"end_version,omitempty"`
	RateLimit        uint64          `protobuf:"varint,8,opt,name=rate_limit,json=rateLimit,proto3" json:"rate_limit,omitempty"`
	Concurrency      uint32          `protobuf:"varint,9,opt,name=concurrency,proto3" json:"concurrency,omitempty"`
	StorageBackend   *StorageBackend `protobuf:"bytes,10,opt,name=storage_backend,json=storageBackend,proto3" json:"storage_backend,omitempty"`
	IsRawKv          bool            `protobuf:"varint,11,opt,name=is_raw_kv,json=isRawKv,proto3" json:"is_raw_kv,omitempty"`
	Cf               string          `protobuf:"bytes,12,opt,name=cf,proto3" json:"cf,omitempty"`
	CompressionType  CompressionType `protobuf:"varint,13,opt,name=compression_type,json=compressionType,proto3,enum=brkv.backuppb.CompressionType" json:"compression_type,omitempty"`
	CompressionLevel int32           `protobuf:"varint,14,opt,name=compression_level,json=compressionLevel,proto3" json:"compression_level,omitempty"`
	XXX_unrecognized []byte          `json:"-"`
}

func (m *BackupRequest) Reset()         { *m = BackupRequest{} }
func (m *BackupRequest) String() string { return proto.CompactTextString(m) }
func (*BackupRequest) ProtoMessage()    {}

func (m *BackupRequest) GetStorageBackend() *StorageBackend {
	if m != nil {
		return m.StorageBackend
	}
	return nil
}

// BackupResponse reports one covered sub-range [StartKey, EndKey):
// either Error is set or Files is non-empty. Sub-ranges may arrive in
// any order.
type BackupResponse struct {
	Error            *Error  `protobuf:"bytes,1,opt,name=error,proto3" json:"error,omitempty"`
	StartKey         []byte  `protobuf:"bytes,2,opt,name=start_key,json=startKey,proto3" json:"start_key,omitempty"`
	EndKey           []byte  `protobuf:"bytes,3,opt,name=end_key,json=endKey,proto3" json:"end_key,omitempty"`
	Files            []*File `protobuf:"bytes,4,rep,name=files,proto3" json:"files,omitempty"`
	XXX_unrecognized []byte  `json:"-"`
}

func (m *BackupResponse) Reset()         { *m = BackupResponse{} }
func (m *BackupResponse) String() string { return proto.CompactTextString(m) }
func (*BackupResponse) ProtoMessage()    {}

func (m *BackupResponse) GetError() *Error {
	if m != nil {
		return m.Error
	}
	return nil
}

// ExternalStorageSaveRequest pushes one named object through the
// responder's storage backend. ContentLength must equal len(Data).
type ExternalStorageSaveRequest struct {
	StorageBackend   *StorageBackend `protobuf:"bytes,1,opt,name=storage_backend,json=storageBackend,proto3" json:"storage_backend,omitempty"`
	ObjectName       string          `protobuf:"bytes,2,opt,name=object_name,json=objectName,proto3" json:"object_name,omitempty"`
	ContentLength    uint64          `protobuf:"varint,3,opt,name=content_length,json=contentLength,proto3" json:"content_length,omitempty"`
	Data             []byte          `protobuf:"bytes,4,opt,name=data,proto3" json:"data,omitempty"`
	XXX_unrecognized []byte          `json:"-"`
}

func (m *ExternalStorageSaveRequest) Reset()         { *m = ExternalStorageSaveRequest{} }
func (m *ExternalStorageSaveRequest) String() string { return proto.CompactTextString(m) }
func (*ExternalStorageSaveRequest) ProtoMessage()    {}

func (m *ExternalStorageSaveRequest) GetStorageBackend() *StorageBackend {
	if m != nil {
		return m.StorageBackend
	}
	return nil
}

type ExternalStorageSaveResponse struct {
	XXX_unrecognized []byte `json:"-"`
}

func (m *ExternalStorageSaveResponse) Reset()         { *m = ExternalStorageSaveResponse{} }
func (m *ExternalStorageSaveResponse) String() string { return proto.CompactTextString(m) }
func (*ExternalStorageSaveResponse) ProtoMessage()    {}

// ExternalStorageRestoreRequest pulls one named object out of the
// responder's storage backend and materializes it locally under
// RestoreName. ContentLength must equal the stored object's size.
type ExternalStorageRestoreRequest struct {
	StorageBackend   *StorageBackend `protobuf:"bytes,1,opt,name=storage_backend,json=storageBackend,proto3" json:"storage_backend,omitempty"`
	ObjectName       string          `protobuf:"bytes,2,opt,name=object_name,json=objectName,proto3" json:"object_name,omitempty"`
	RestoreName      string          `protobuf:"bytes,3,opt,name=restore_name,json=restoreName,proto3" json:"restore_name,omitempty"`
	ContentLength    uint64          `protobuf:"varint,4,opt,name=content_length,json=contentLength,proto3" json:"content_length,omitempty"`
	XXX_unrecognized []byte          `json:"-"`
}

func (m *ExternalStorageRestoreRequest) Reset()         { *m = ExternalStorageRestoreRequest{} }
func (m *ExternalStorageRestoreRequest) String() string { return proto.CompactTextString(m) }
func (*ExternalStorageRestoreRequest) ProtoMessage()    {}

func (m *ExternalStorageRestoreRequest) GetStorageBackend() *StorageBackend {
	if m != nil {
		return m.StorageBackend
	}
	return nil
}

type ExternalStorageRestoreResponse struct {
	XXX_unrecognized []byte `json:"-"`
}

func (m *ExternalStorageRestoreResponse) Reset()         { *m = ExternalStorageRestoreResponse{} }
func (m *ExternalStorageRestoreResponse) String() string { return proto.CompactTextString(m) }
func (*ExternalStorageRestoreResponse) ProtoMessage()    {}

func init() {
	proto.RegisterEnum("brkv.backuppb.CompressionType", CompressionType_name, CompressionType_value)
	proto.RegisterType((*File)(nil), "brkv.backuppb.File")
	proto.RegisterType((*Schema)(nil), "brkv.backuppb.Schema")
	proto.RegisterType((*RawRange)(nil), "brkv.backuppb.RawRange")
	proto.RegisterType((*BackupMeta)(nil), "brkv.backuppb.BackupMeta")
	proto.RegisterType((*StorageBackend)(nil), "brkv.backuppb.StorageBackend")
	proto.RegisterType((*Noop)(nil), "brkv.backuppb.Noop")
	proto.RegisterType((*Local)(nil), "brkv.backuppb.Local")
	proto.RegisterType((*S3)(nil), "brkv.backuppb.S3")
	proto.RegisterType((*GCS)(nil), "brkv.backuppb.GCS")
	proto.RegisterType((*Bucket)(nil), "brkv.backuppb.Bucket")
	proto.RegisterType((*CloudDynamic)(nil), "brkv.backuppb.CloudDynamic")
	proto.RegisterType((*ClusterIDError)(nil), "brkv.backuppb.ClusterIDError")
	proto.RegisterType((*KeyError)(nil), "brkv.backuppb.KeyError")
	proto.RegisterType((*RegionError)(nil), "brkv.backuppb.RegionError")
	proto.RegisterType((*StorageError)(nil), "brkv.backuppb.StorageError")
	proto.RegisterType((*Error)(nil), "brkv.backuppb.Error")
	proto.RegisterType((*BackupRequest)(nil), "brkv.backuppb.BackupRequest")
	proto.RegisterType((*BackupResponse)(nil), "brkv.backuppb.BackupResponse")
	proto.RegisterType((*ExternalStorageSaveRequest)(nil), "brkv.backuppb.ExternalStorageSaveRequest")
	proto.RegisterType((*ExternalStorageSaveResponse)(nil), "brkv.backuppb.ExternalStorageSaveResponse")
	proto.RegisterType((*ExternalStorageRestoreRequest)(nil), "brkv.backuppb.ExternalStorageRestoreRequest")
	proto.RegisterType((*ExternalStorageRestoreResponse)(nil), "brkv.backuppb.ExternalStorageRestoreResponse")
}
