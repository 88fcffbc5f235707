// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package backup

import (
	"bytes"
	"context"
	"crypto/sha256"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/brkv/brkv/pkg/cloud"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Service is the node-side responder for the Backup streaming RPC. It
// fans the requested range out over the engine's regions, bounded by
// the request's concurrency, and reports every sub-range exactly once:
// with files or with a terminal error. Stream closure is completion.
type Service struct {
	engine Engine
	ioConf cloud.IODirConfig
}

var _ backuppb.BackupServer = (*Service)(nil)

// NewService returns a backup responder over engine.
func NewService(engine Engine, ioConf cloud.IODirConfig) *Service {
	return &Service{engine: engine, ioConf: ioConf}
}

// ValidateRequest rejects malformed requests before any I/O is
// attempted.
func ValidateRequest(req *backuppb.BackupRequest) error {
	if req == nil {
		return errors.New("nil backup request")
	}
	if req.Concurrency < 1 {
		return errors.Newf("concurrency must be at least 1, got %d", req.Concurrency)
	}
	if len(req.EndKey) > 0 && bytes.Compare(req.StartKey, req.EndKey) > 0 {
		return errors.Newf("start key %x after end key %x", req.StartKey, req.EndKey)
	}
	if req.StartVersion > req.EndVersion {
		return errors.Newf("start version %d after end version %d", req.StartVersion, req.EndVersion)
	}
	if err := ValidateCompression(req.CompressionType, req.CompressionLevel); err != nil {
		return err
	}
	if _, err := cloud.BackendProvider(req.GetStorageBackend()); err != nil {
		return err
	}
	return nil
}

// Backup implements backuppb.BackupServer.
func (s *Service) Backup(req *backuppb.BackupRequest, stream backuppb.Backup_BackupServer) error {
	ctx := stream.Context()
	if err := ValidateRequest(req); err != nil {
		return errors.Wrap(err, "validating backup request")
	}
	span := Span{Start: req.StartKey, End: req.EndKey}

	if req.ClusterId != s.engine.ClusterID() {
		// Wrong cluster is terminal for the whole request: report it as
		// the single covering error and close the stream.
		return stream.Send(&backuppb.BackupResponse{
			StartKey: span.Start,
			EndKey:   span.End,
			Error: &backuppb.Error{
				Msg: "request targets another cluster",
				ClusterIdError: &backuppb.ClusterIDError{
					Current: s.engine.ClusterID(),
					Request: req.ClusterId,
				},
			},
		})
	}

	store, err := cloud.MakeExternalStorage(
		ctx, cloud.ExternalStorageContext{IOConf: s.ioConf}, req.StorageBackend)
	if err != nil {
		return errors.Wrap(err, "opening backup storage")
	}
	defer store.Close()

	regions, err := s.engine.Regions(ctx, span)
	if err != nil {
		return errors.Wrap(err, "splitting backup range")
	}
	log.Info().
		Uint64("cluster", req.ClusterId).
		Str("span", span.String()).
		Int("regions", len(regions)).
		Uint32("concurrency", req.Concurrency).
		Msg("starting backup")

	var limiter *rate.Limiter
	if req.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(req.RateLimit), rateBurst(req.RateLimit))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(int(req.Concurrency))

	// Producers hand completed sub-range responses to the single stream
	// writer through an unbuffered channel, so memory stays bounded by
	// concurrency regardless of range size.
	respCh := make(chan *backuppb.BackupResponse)
	workersDone := make(chan error, 1)
	go func() {
		for _, region := range regions {
			if gctx.Err() != nil {
				// Cancellation is observed at sub-range boundaries; scans
				// already dispatched run to completion.
				break
			}
			region := region
			g.Go(func() error {
				resp := s.backupRegion(gctx, req, store, limiter, region)
				select {
				case respCh <- resp:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		workersDone <- g.Wait()
		close(respCh)
	}()

	var sendErr error
	for resp := range respCh {
		if sendErr != nil {
			continue // drain
		}
		if err := stream.Send(resp); err != nil {
			sendErr = err
			cancel()
		}
	}
	workerErr := <-workersDone
	if sendErr != nil {
		return sendErr
	}
	if workerErr != nil && !errors.Is(workerErr, context.Canceled) {
		return workerErr
	}
	return nil
}

// backupRegion exports one region, compresses and uploads its files,
// and builds the response for that sub-range. All failures are folded
// into the response; they never abort the stream.
func (s *Service) backupRegion(
	ctx context.Context,
	req *backuppb.BackupRequest,
	store cloud.ExternalStorage,
	limiter *rate.Limiter,
	region Region,
) *backuppb.BackupResponse {
	resp := &backuppb.BackupResponse{
		StartKey: region.Span.Start,
		EndKey:   region.Span.End,
	}

	exported, err := s.engine.Export(ctx, ExportRequest{
		Region:       region,
		Cf:           req.Cf,
		StartVersion: req.StartVersion,
		EndVersion:   req.EndVersion,
		IsRawKv:      req.IsRawKv,
	})
	if err != nil {
		resp.Error = exportErrorToPB(err)
		log.Warn().Err(err).Str("span", region.Span.String()).Msg("sub-range export failed")
		return resp
	}

	for _, f := range exported {
		// The limiter throttles the aggregate scan+upload pipeline, so it
		// is charged the uncompressed size.
		if err := waitN(ctx, limiter, len(f.Data)); err != nil {
			resp.Files = nil
			resp.Error = &backuppb.Error{Msg: err.Error()}
			return resp
		}
		payload := f.Data
		if req.CompressionType != backuppb.CompressionType_UNKNOWN {
			payload, err = compressPayload(f.Data, req.CompressionType, req.CompressionLevel)
			if err != nil {
				resp.Files = nil
				resp.Error = &backuppb.Error{Msg: err.Error()}
				return resp
			}
		}
		sum := sha256.Sum256(payload)
		if err := store.WriteFile(ctx, f.Name, bytes.NewReader(payload), int64(len(payload))); err != nil {
			resp.Files = nil
			resp.Error = &backuppb.Error{
				Msg: err.Error(),
				StorageError: &backuppb.StorageError{
					Msg:       err.Error(),
					Retryable: cloud.IsTransient(err),
				},
			}
			log.Warn().Err(err).Str("file", f.Name).Msg("sub-range upload failed")
			return resp
		}
		resp.Files = append(resp.Files, &backuppb.File{
			Name:         f.Name,
			Sha256:       sum[:],
			StartKey:     f.Span.Start,
			EndKey:       f.Span.End,
			StartVersion: f.StartVersion,
			EndVersion:   f.EndVersion,
			Crc64Xor:     f.Crc64Xor,
			TotalKvs:     f.TotalKvs,
			TotalBytes:   f.TotalBytes,
			Cf:           f.Cf,
			Size_:        uint64(len(payload)),
		})
	}
	return resp
}

func exportErrorToPB(err error) *backuppb.Error {
	pb := &backuppb.Error{Msg: err.Error()}
	var regionErr *RegionChangedError
	var keyErr *KeyLockedError
	switch {
	case errors.As(err, &regionErr):
		pb.RegionError = &backuppb.RegionError{Msg: regionErr.Reason, RegionId: regionErr.RegionID}
	case errors.As(err, &keyErr):
		pb.KvError = &backuppb.KeyError{Msg: keyErr.Reason}
	}
	return pb
}

func compressPayload(
	data []byte, ct backuppb.CompressionType, level int32,
) ([]byte, error) {
	var buf bytes.Buffer
	w, err := NewCompressingWriter(&buf, ct, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "compressing backup file")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "compressing backup file")
	}
	return buf.Bytes(), nil
}

// rateBurst caps the limiter burst so WaitN chunks stay small enough to
// keep the throttle smooth.
func rateBurst(limit uint64) int {
	const maxBurst = 1 << 20
	if limit < maxBurst {
		return int(limit)
	}
	return maxBurst
}

func waitN(ctx context.Context, limiter *rate.Limiter, n int) error {
	if limiter == nil {
		return nil
	}
	burst := limiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := limiter.WaitN(ctx, chunk); err != nil {
			return errors.Wrap(err, "rate limiting backup I/O")
		}
		n -= chunk
	}
	return nil
}
