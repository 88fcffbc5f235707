// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package server assembles the brkvd gRPC server: the streaming backup
// service and the external storage delegation service on one listener.
package server

import (
	"context"
	"net"

	"github.com/brkv/brkv/pkg/backup"
	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/blobs"
	"github.com/brkv/brkv/pkg/cloud"
	_ "github.com/brkv/brkv/pkg/cloud/cloudimpl" // register storage providers
	_ "github.com/brkv/brkv/pkg/rpc"             // register the gogo proto codec
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
)

// Server hosts the brkv gRPC services.
type Server struct {
	cfg  *Config
	grpc *grpc.Server
	ln   net.Listener
}

// New builds a Server from cfg. engine supplies the key-value data to
// back up; a nil engine serves only the external storage delegation
// service.
func New(cfg *Config, engine backup.Engine) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ioConf := cloud.IODirConfig{
		Dir:                        cfg.IO.Dir,
		DisableOutbound:            cfg.IO.DisableOutbound,
		DisableImplicitCredentials: cfg.IO.DisableImplicitCredentials,
	}
	s := &Server{
		cfg:  cfg,
		grpc: grpc.NewServer(),
	}
	if engine != nil {
		backuppb.RegisterBackupServer(s.grpc, backup.NewService(engine, ioConf))
	}
	backuppb.RegisterExternalStorageServer(s.grpc, blobs.NewService(ioConf, cfg.IO.RestoreDir))
	return s, nil
}

// Listen binds the configured address. Separate from Start so callers
// can learn the bound port before serving.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.cfg.ListenAddr)
	}
	s.ln = ln
	log.Info().Str("addr", ln.Addr().String()).Msg("brkvd listening")
	return nil
}

// Start binds the listener if needed and serves until ctx is canceled
// or Serve fails.
func (s *Server) Start(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpc.Serve(s.ln)
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return errors.Wrap(err, "grpc serve")
	}
}

// Addr returns the bound listener address, valid after Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown drains in-flight RPCs and stops the server.
func (s *Server) Shutdown() {
	s.grpc.GracefulStop()
	log.Info().Msg("brkvd stopped")
}
