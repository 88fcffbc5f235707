// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// Package rpc carries the shared gRPC plumbing: a proto codec that
// understands our gogo-tagged wire types. The stock grpc proto codec
// only accepts google.golang.org/protobuf messages, so importing this
// package (for side effects) is required on both ends of every
// connection.
package rpc

import (
	"github.com/cockroachdb/errors"
	"github.com/gogo/protobuf/proto"
	"google.golang.org/grpc/encoding"
)

func init() {
	encoding.RegisterCodec(codec{})
}

type codec struct{}

// Name shadows the built-in proto codec so no call options are needed.
func (codec) Name() string { return "proto" }

func (codec) Marshal(v interface{}) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, errors.Newf("cannot marshal %T: not a proto message", v)
	}
	return proto.Marshal(msg)
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return errors.Newf("cannot unmarshal into %T: not a proto message", v)
	}
	return proto.Unmarshal(data, msg)
}
