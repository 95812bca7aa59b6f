// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package convolve

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-highway-dog/hwy/contrib/convolve/wire"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/gauss"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/image"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/workerpool"
	"github.com/ajroetker/go-highway-dog/internal/logging"
)

// Distributed partitions the rows like ThreadPool but hands each range to
// an independent worker that shares no memory with the coordinator.
//
// Rank 0 is the coordinator and keeps the image. For every other rank it
// sends a request frame holding the rank's rows plus Radius() halo rows on
// each side (clamped to the image), the worker blurs that slab as a
// self-contained image and replies with only the rows it owns. The
// coordinator blurs its own slab meanwhile, waits for every reply, and
// then writes all owned rows back into the image.
//
// With halo rows each worker sees every row its vertical sums read, so the
// result equals Scalar. NoHalo drops them: each slab is then clamped at its
// own edges and rows within Radius() of a seam differ from Scalar.
//
// The temp buffer passed to Convolve is not used; each slab allocates its
// own scratch image.
type Distributed struct {
	// Workers is the number of ranks, coordinator included.
	Workers int

	// Compression is applied to request payloads.
	Compression wire.Compression

	// NoHalo sends slabs without neighbour rows.
	NoHalo bool

	// Dial connects to the worker for rank (1..Workers-1). If nil, each
	// rank is served in-process by ServeWorker over a net.Pipe.
	Dial func(rank int) (net.Conn, error)

	// Logger receives one record per exchange. Nil disables logging.
	Logger *logging.Logger
}

// Convolve implements Strategy.
func (s Distributed) Convolve(img, temp *image.Image, k gauss.Kernel) error {
	if err := checkBuffers(img, temp, k); err != nil {
		return err
	}
	ranges, err := workerpool.Partition(img.Height(), s.Workers)
	if err != nil {
		return err
	}

	halo := k.Radius()
	if s.NoHalo {
		halo = 0
	}
	logger := s.Logger
	if logger == nil {
		logger = logging.NoopLogger()
	}
	job := uuid.New()

	// Snapshot every slab before any result is written back into img.
	slabs := make([]*wire.Frame, len(ranges))
	for rank, r := range ranges {
		slabs[rank] = slabRequest(img, r, halo, k.Sigma(), job, rank)
	}

	results := make([][]float32, len(ranges))
	var g errgroup.Group
	for rank := 1; rank < len(ranges); rank++ {
		g.Go(func() error {
			out, err := s.exchange(slabs[rank], logger)
			if err != nil {
				return fmt.Errorf("rank %d %v: %w", rank, ranges[rank], err)
			}
			results[rank] = out
			return nil
		})
	}

	own, ownErr := blurSlab(slabs[0], k)
	if err := g.Wait(); err != nil {
		return err
	}
	if ownErr != nil {
		return fmt.Errorf("rank 0 %v: %w", ranges[0], ownErr)
	}
	results[0] = own

	for rank, r := range ranges {
		copy(img.Rows(r.Start, r.End), results[rank])
	}
	return nil
}

func (s Distributed) String() string {
	name := fmt.Sprintf("distributed(%d)", s.Workers)
	if s.NoHalo {
		name += "+nohalo"
	}
	return name
}

// slabRequest copies rows [r.Start-halo, r.End+halo), clamped to the image,
// into a request frame.
func slabRequest(img *image.Image, r workerpool.RowRange, halo int, sigma float64, job uuid.UUID, rank int) *wire.Frame {
	lo := max(r.Start-halo, 0)
	hi := min(r.End+halo, img.Height())
	src := img.Rows(lo, hi)
	pixels := make([]float32, len(src))
	copy(pixels, src)

	return &wire.Frame{
		Kind:       wire.KindRequest,
		Job:        job,
		Rank:       rank,
		Width:      img.Width(),
		Owned:      r,
		HaloTop:    r.Start - lo,
		HaloBottom: hi - r.End,
		Sigma:      sigma,
		Pixels:     pixels,
	}
}

// blurSlab blurs a request slab as an independent image and returns its
// owned rows.
func blurSlab(req *wire.Frame, k gauss.Kernel) ([]float32, error) {
	rows := req.SlabRows()
	if req.Width <= 0 || req.Owned.Len() <= 0 || req.HaloTop < 0 || req.HaloBottom < 0 {
		return nil, fmt.Errorf("%w: slab %dx%v halo %d/%d", ErrProtocol, req.Width, req.Owned, req.HaloTop, req.HaloBottom)
	}
	slab, err := image.FromPixels(req.Width, rows, req.Pixels)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	temp, err := image.New(req.Width, rows)
	if err != nil {
		return nil, err
	}
	if err := (Scalar{}).Convolve(slab, temp, k); err != nil {
		return nil, err
	}
	return slab.Rows(req.HaloTop, req.HaloTop+req.Owned.Len()), nil
}

// exchange sends one slab and waits for the matching reply.
func (s Distributed) exchange(req *wire.Frame, logger *logging.Logger) ([]float32, error) {
	ctx := context.Background()
	logger = logger.WithRank(req.Rank)
	conn, err := s.dial(req.Rank)
	if err != nil {
		logger.LogExchange(ctx, req.Owned.Start, req.Owned.End, 0, 0, err)
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	sent, err := wire.WriteFrame(conn, req, s.Compression)
	if err != nil {
		logger.LogExchange(ctx, req.Owned.Start, req.Owned.End, sent, 0, err)
		return nil, err
	}
	reply, received, err := wire.ReadFrame(conn)
	if err == nil {
		err = checkReply(req, reply)
	}
	logger.LogExchange(ctx, req.Owned.Start, req.Owned.End, sent, received, err)
	if err != nil {
		return nil, err
	}
	return reply.Pixels, nil
}

func checkReply(req, reply *wire.Frame) error {
	switch {
	case reply.Kind == wire.KindError:
		return fmt.Errorf("worker: %s", reply.Message)
	case reply.Kind != wire.KindReply:
		return fmt.Errorf("%w: got %s frame, want reply", ErrProtocol, reply.Kind)
	case reply.Job != req.Job:
		return fmt.Errorf("%w: reply for job %s, want %s", ErrProtocol, reply.Job, req.Job)
	case reply.Owned != req.Owned || reply.Width != req.Width:
		return fmt.Errorf("%w: reply rows %v width %d, want %v width %d",
			ErrProtocol, reply.Owned, reply.Width, req.Owned, req.Width)
	case len(reply.Pixels) != req.Width*req.Owned.Len():
		return fmt.Errorf("%w: reply holds %d samples, want %d",
			ErrProtocol, len(reply.Pixels), req.Width*req.Owned.Len())
	}
	return nil
}

func (s Distributed) dial(rank int) (net.Conn, error) {
	if s.Dial != nil {
		return s.Dial(rank)
	}
	client, server := net.Pipe()
	go func() {
		_ = ServeWorker(server, s.Compression, s.Logger)
	}()
	return client, nil
}

// TCPDialer returns a Dial function that connects rank r to
// addrs[(r-1) % len(addrs)].
func TCPDialer(timeout time.Duration, addrs ...string) func(rank int) (net.Conn, error) {
	return func(rank int) (net.Conn, error) {
		if len(addrs) == 0 {
			return nil, fmt.Errorf("no worker addresses for rank %d", rank)
		}
		d := net.Dialer{Timeout: timeout}
		return d.Dial("tcp", addrs[(rank-1)%len(addrs)])
	}
}
