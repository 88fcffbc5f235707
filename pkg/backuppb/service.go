// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package backuppb

import (
	context "context"

	grpc "google.golang.org/grpc"
)

// BackupClient is the client API for the Backup service.
type BackupClient interface {
	// Backup opens a server-streaming call. The responder emits one
	// BackupResponse per covered sub-range; stream closure is completion.
	Backup(ctx context.Context, in *BackupRequest, opts ...grpc.CallOption) (Backup_BackupClient, error)
}

type backupClient struct {
	cc grpc.ClientConnInterface
}

// NewBackupClient returns a BackupClient speaking over cc.
func NewBackupClient(cc grpc.ClientConnInterface) BackupClient {
	return &backupClient{cc}
}

func (c *backupClient) Backup(
	ctx context.Context, in *BackupRequest, opts ...grpc.CallOption,
) (Backup_BackupClient, error) {
	stream, err := c.cc.NewStream(ctx, &_Backup_serviceDesc.Streams[0], "/brkv.backuppb.Backup/backup", opts...)
	if err != nil {
		return nil, err
	}
	x := &backupBackupClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// Backup_BackupClient is the caller's view of one backup stream.
type Backup_BackupClient interface {
	Recv() (*BackupResponse, error)
	grpc.ClientStream
}

type backupBackupClient struct {
	grpc.ClientStream
}

func (x *backupBackupClient) Recv() (*BackupResponse, error) {
	m := new(BackupResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// BackupServer is the server API for the Backup service.
type BackupServer interface {
	Backup(*BackupRequest, Backup_BackupServer) error
}

// Backup_BackupServer is the responder's view of one backup stream.
type Backup_BackupServer interface {
	Send(*BackupResponse) error
	grpc.ServerStream
}

type backupBackupServer struct {
	grpc.ServerStream
}

func (x *backupBackupServer) Send(m *BackupResponse) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterBackupServer registers srv on s.
func RegisterBackupServer(s *grpc.Server, srv BackupServer) {
	s.RegisterService(&_Backup_serviceDesc, srv)
}

func _Backup_Backup_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(BackupRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(BackupServer).Backup(m, &backupBackupServer{stream})
}

var _Backup_serviceDesc = grpc.ServiceDesc{
	ServiceName: "brkv.backuppb.Backup",
	HandlerType: (*BackupServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "backup",
			Handler:       _Backup_Backup_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "pkg/backuppb/backup.proto",
}

// ExternalStorageClient is the client API for the ExternalStorage
// service.
type ExternalStorageClient interface {
	Save(ctx context.Context, in *ExternalStorageSaveRequest, opts ...grpc.CallOption) (*ExternalStorageSaveResponse, error)
	Restore(ctx context.Context, in *ExternalStorageRestoreRequest, opts ...grpc.CallOption) (*ExternalStorageRestoreResponse, error)
}

type externalStorageClient struct {
	cc grpc.ClientConnInterface
}

// NewExternalStorageClient returns an ExternalStorageClient speaking
// over cc.
func NewExternalStorageClient(cc grpc.ClientConnInterface) ExternalStorageClient {
	return &externalStorageClient{cc}
}

func (c *externalStorageClient) Save(
	ctx context.Context, in *ExternalStorageSaveRequest, opts ...grpc.CallOption,
) (*ExternalStorageSaveResponse, error) {
	out := new(ExternalStorageSaveResponse)
	if err := c.cc.Invoke(ctx, "/brkv.backuppb.ExternalStorage/save", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *externalStorageClient) Restore(
	ctx context.Context, in *ExternalStorageRestoreRequest, opts ...grpc.CallOption,
) (*ExternalStorageRestoreResponse, error) {
	out := new(ExternalStorageRestoreResponse)
	if err := c.cc.Invoke(ctx, "/brkv.backuppb.ExternalStorage/restore", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ExternalStorageServer is the server API for the ExternalStorage
// service.
type ExternalStorageServer interface {
	Save(context.Context, *ExternalStorageSaveRequest) (*ExternalStorageSaveResponse, error)
	Restore(context.Context, *ExternalStorageRestoreRequest) (*ExternalStorageRestoreResponse, error)
}

// RegisterExternalStorageServer registers srv on s.
func RegisterExternalStorageServer(s *grpc.Server, srv ExternalStorageServer) {
	s.RegisterService(&_ExternalStorage_serviceDesc, srv)
}

func _ExternalStorage_Save_Handler(
	srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(ExternalStorageSaveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExternalStorageServer).Save(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/brkv.backuppb.ExternalStorage/save",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExternalStorageServer).Save(ctx, req.(*ExternalStorageSaveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ExternalStorage_Restore_Handler(
	srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(ExternalStorageRestoreRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExternalStorageServer).Restore(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/brkv.backuppb.ExternalStorage/restore",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExternalStorageServer).Restore(ctx, req.(*ExternalStorageRestoreRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var _ExternalStorage_serviceDesc = grpc.ServiceDesc{
	ServiceName: "brkv.backuppb.ExternalStorage",
	HandlerType: (*ExternalStorageServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "save",
			Handler:    _ExternalStorage_Save_Handler,
		},
		{
			MethodName: "restore",
			Handler:    _ExternalStorage_Restore_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pkg/backuppb/backup.proto",
}
