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
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/ajroetker/go-highway-dog/hwy/contrib/convolve/wire"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/gauss"
	"github.com/ajroetker/go-highway-dog/internal/logging"
)

// ServeWorker answers request frames on conn until the peer closes it,
// replying to each with the blurred owned rows or an error frame. conn is
// closed on return. A clean close by the peer returns nil.
func ServeWorker(conn io.ReadWriteCloser, c wire.Compression, logger *logging.Logger) error {
	defer conn.Close()
	if logger == nil {
		logger = logging.NoopLogger()
	}

	for {
		req, _, err := wire.ReadFrame(conn)
		if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		reply := answer(req)
		if reply.Kind == wire.KindError {
			logger.WithRank(req.Rank).WarnContext(context.Background(), "worker rejected request",
				"job", req.Job, "error", reply.Message)
		}
		if _, err := wire.WriteFrame(conn, reply, c); err != nil {
			return err
		}
	}
}

func answer(req *wire.Frame) *wire.Frame {
	fail := func(err error) *wire.Frame {
		return &wire.Frame{Kind: wire.KindError, Job: req.Job, Rank: req.Rank, Message: err.Error()}
	}

	if req.Kind != wire.KindRequest {
		return fail(fmt.Errorf("%w: got %s frame, want request", ErrProtocol, req.Kind))
	}
	k, err := gauss.NewKernel(req.Sigma)
	if err != nil {
		return fail(err)
	}
	out, err := blurSlab(req, k)
	if err != nil {
		return fail(err)
	}
	return &wire.Frame{
		Kind:   wire.KindReply,
		Job:    req.Job,
		Rank:   req.Rank,
		Width:  req.Width,
		Owned:  req.Owned,
		Sigma:  req.Sigma,
		Pixels: out,
	}
}

// Serve accepts connections on ln and runs ServeWorker on each until ln is
// closed. It returns nil once ln has been closed.
func Serve(ln net.Listener, c wire.Compression, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.NoopLogger()
	}
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		logger.DebugContext(context.Background(), "worker connection accepted", "remote", conn.RemoteAddr().String())
		go func() {
			if err := ServeWorker(conn, c, logger); err != nil {
				logger.ErrorContext(context.Background(), "worker connection failed",
					"remote", conn.RemoteAddr().String(), "error", err)
			}
		}()
	}
}
