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

// Package wire defines the frames exchanged between the coordinator and
// the workers of the distributed row-partition strategy.
//
// A frame is a fixed little-endian header followed by a payload:
//
//	magic   [4]byte  "DOGF"
//	version uint8
//	kind    uint8    request, reply or error
//	codec   uint8    payload compression
//	_       uint8
//	job     [16]byte
//	rank    uint32
//	width   uint32
//	start   uint32   first owned row (global)
//	end     uint32   one past the last owned row (global)
//	haloTop uint32   rows above start included in the payload
//	haloBot uint32   rows below end included in the payload
//	sigma   float64
//	rawLen  uint32   payload size before compression
//	wireLen uint32   payload size on the wire
//
// Request payloads carry rows [start-haloTop, end+haloBot) as float32;
// replies carry only the owned rows [start, end). Error frames carry a
// UTF-8 message.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/ajroetker/go-highway-dog/hwy/contrib/workerpool"
)

// ErrMalformed is returned for frames that fail to decode.
var ErrMalformed = errors.New("wire: malformed frame")

// Version is the frame format version written by WriteFrame.
const Version = 1

// MaxPayload bounds the payload size, in bytes, a frame may declare.
const MaxPayload = 1 << 30

var magic = [4]byte{'D', 'O', 'G', 'F'}

// Kind identifies the purpose of a frame.
type Kind uint8

const (
	// KindRequest carries a slab from the coordinator to a worker.
	KindRequest Kind = 1
	// KindReply carries blurred owned rows back to the coordinator.
	KindReply Kind = 2
	// KindError reports a worker-side failure.
	KindError Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindReply:
		return "reply"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Frame is one message of the distributed protocol.
type Frame struct {
	Kind       Kind
	Job        uuid.UUID
	Rank       int
	Width      int
	Owned      workerpool.RowRange
	HaloTop    int
	HaloBottom int
	Sigma      float64
	Pixels     []float32
	Message    string
}

// SlabRows returns the number of rows the payload of a request holds.
func (f *Frame) SlabRows() int {
	return f.HaloTop + f.Owned.Len() + f.HaloBottom
}

type header struct {
	Magic      [4]byte
	Version    uint8
	Kind       uint8
	Codec      uint8
	_          uint8
	Job        [16]byte
	Rank       uint32
	Width      uint32
	Start      uint32
	End        uint32
	HaloTop    uint32
	HaloBottom uint32
	Sigma      float64
	RawLen     uint32
	WireLen    uint32
}

var headerSize = binary.Size(header{})

// WriteFrame encodes f to w, compressing the payload with c.
// It returns the number of bytes written.
func WriteFrame(w io.Writer, f *Frame, c Compression) (int, error) {
	var raw []byte
	if f.Kind == KindError {
		raw = []byte(f.Message)
	} else {
		raw = encodePixels(f.Pixels)
	}
	if len(raw) > MaxPayload {
		return 0, fmt.Errorf("wire: payload %d bytes exceeds %d", len(raw), MaxPayload)
	}

	payload, used, err := compress(raw, c)
	if err != nil {
		return 0, err
	}

	h := header{
		Magic:      magic,
		Version:    Version,
		Kind:       uint8(f.Kind),
		Codec:      uint8(used),
		Job:        [16]byte(f.Job),
		Rank:       uint32(f.Rank),
		Width:      uint32(f.Width),
		Start:      uint32(f.Owned.Start),
		End:        uint32(f.Owned.End),
		HaloTop:    uint32(f.HaloTop),
		HaloBottom: uint32(f.HaloBottom),
		Sigma:      f.Sigma,
		RawLen:     uint32(len(raw)),
		WireLen:    uint32(len(payload)),
	}

	buf := make([]byte, 0, headerSize+len(payload))
	buf, err = binary.Append(buf, binary.LittleEndian, &h)
	if err != nil {
		return 0, fmt.Errorf("wire: encode header: %w", err)
	}
	buf = append(buf, payload...)

	n, err := w.Write(buf)
	if err != nil {
		return n, fmt.Errorf("wire: write %s frame: %w", f.Kind, err)
	}
	return n, nil
}

// ReadFrame decodes one frame from r.
// It returns the frame and the number of bytes consumed.
func ReadFrame(r io.Reader) (*Frame, int, error) {
	hb := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hb); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, 0, fmt.Errorf("%w: short header: %v", ErrMalformed, err)
		}
		return nil, 0, err
	}

	var h header
	if _, err := binary.Decode(hb, binary.LittleEndian, &h); err != nil {
		return nil, headerSize, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	if h.Magic != magic {
		return nil, headerSize, fmt.Errorf("%w: bad magic %q", ErrMalformed, h.Magic[:])
	}
	if h.Version != Version {
		return nil, headerSize, fmt.Errorf("%w: version %d, want %d", ErrMalformed, h.Version, Version)
	}
	if int64(h.RawLen) > MaxPayload || int64(h.WireLen) > MaxPayload {
		return nil, headerSize, fmt.Errorf("%w: payload %d/%d bytes exceeds %d", ErrMalformed, h.RawLen, h.WireLen, MaxPayload)
	}
	if h.End < h.Start {
		return nil, headerSize, fmt.Errorf("%w: rows [%d,%d)", ErrMalformed, h.Start, h.End)
	}

	payload := make([]byte, h.WireLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, headerSize, fmt.Errorf("%w: short payload: %v", ErrMalformed, err)
	}
	consumed := headerSize + len(payload)

	raw, err := decompress(payload, Compression(h.Codec), int(h.RawLen))
	if err != nil {
		return nil, consumed, err
	}

	f := &Frame{
		Kind:       Kind(h.Kind),
		Job:        uuid.UUID(h.Job),
		Rank:       int(h.Rank),
		Width:      int(h.Width),
		Owned:      workerpool.RowRange{Start: int(h.Start), End: int(h.End)},
		HaloTop:    int(h.HaloTop),
		HaloBottom: int(h.HaloBottom),
		Sigma:      h.Sigma,
	}

	switch f.Kind {
	case KindError:
		f.Message = string(raw)
	case KindRequest, KindReply:
		if len(raw)%4 != 0 {
			return nil, consumed, fmt.Errorf("%w: payload %d bytes is not float32-aligned", ErrMalformed, len(raw))
		}
		f.Pixels = decodePixels(raw)
	default:
		return nil, consumed, fmt.Errorf("%w: unknown kind %d", ErrMalformed, h.Kind)
	}
	return f, consumed, nil
}

func encodePixels(pix []float32) []byte {
	out := make([]byte, 4*len(pix))
	for i, v := range pix {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

func decodePixels(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}
