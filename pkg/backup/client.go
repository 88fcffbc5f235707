// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package backup

import (
	"context"
	"io"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FailedSpan is a sub-range the responder reported a terminal error
// for. Retryable failures can be re-requested alone, without touching
// the sub-ranges that already succeeded.
type FailedSpan struct {
	Span Span
	Err  *backuppb.Error
}

// RunResult is what one consumed backup stream amounts to.
type RunResult struct {
	// Meta accumulates the successful responses. It is not yet a
	// finalized manifest if Failed or Uncovered is non-empty.
	Meta *backuppb.BackupMeta
	// Failed lists sub-ranges that reported errors.
	Failed []FailedSpan
	// Uncovered lists gaps of the requested range no response covered.
	// The protocol has no explicit completion marker, so gap detection
	// after stream closure is the caller's only completion check.
	Uncovered []Span
}

// IsErrorRetryable reports whether a sub-range failure is worth
// re-requesting: region and kv errors always are (after refreshing
// topology or backing off), storage errors only when classified
// transient, cluster id mismatches never.
func IsErrorRetryable(e *backuppb.Error) bool {
	switch {
	case e == nil:
		return false
	case e.ClusterIdError != nil:
		return false
	case e.RegionError != nil, e.KvError != nil:
		return true
	case e.StorageError != nil:
		return e.StorageError.Retryable
	default:
		return false
	}
}

// Run validates req, drives one backup stream to closure and folds the
// responses into a RunResult.
func Run(
	ctx context.Context, client backuppb.BackupClient, req *backuppb.BackupRequest,
) (*RunResult, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, errors.Wrap(err, "validating backup request")
	}
	jobID := uuid.New()
	logger := log.With().Str("job", jobID.String()).Logger()

	stream, err := client.Backup(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "opening backup stream")
	}

	span := Span{Start: req.StartKey, End: req.EndKey}
	cov := newCoverage(span)
	res := &RunResult{
		Meta: &backuppb.BackupMeta{
			ClusterId:    req.ClusterId,
			StartVersion: req.StartVersion,
			EndVersion:   req.EndVersion,
			IsRawKv:      req.IsRawKv,
		},
	}
	if req.IsRawKv {
		res.Meta.RawRanges = []*backuppb.RawRange{
			{StartKey: req.StartKey, EndKey: req.EndKey, Cf: req.Cf},
		}
	}

	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "receiving backup response")
		}
		sub := Span{Start: resp.StartKey, End: resp.EndKey}
		if respErr := resp.GetError(); respErr != nil {
			logger.Warn().
				Str("span", sub.String()).
				Bool("retryable", IsErrorRetryable(respErr)).
				Str("error", respErr.Msg).
				Msg("sub-range failed")
			res.Failed = append(res.Failed, FailedSpan{Span: sub, Err: respErr})
			// A terminal error still covers its sub-range; gaps are only
			// the spans the responder never reported at all.
			cov.add(sub)
			continue
		}
		// A response without error covers its sub-range even with no
		// files: it means nothing lived there.
		cov.add(sub)
		res.Meta.Files = append(res.Meta.Files, resp.Files...)
	}

	res.Uncovered = cov.gaps()
	logger.Info().
		Int("files", len(res.Meta.Files)).
		Int("failed", len(res.Failed)).
		Int("uncovered", len(res.Uncovered)).
		Msg("backup stream closed")
	return res, nil
}
