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

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ajroetker/go-highway-dog/hwy/contrib/convolve"
)

// ErrUnknownStrategy is returned by ParseStrategy for names it does not
// recognise.
var ErrUnknownStrategy = errors.New("config: unknown strategy")

// Kind identifies an execution strategy.
type Kind int

const (
	KindScalar Kind = iota
	KindVectorLane
	KindThreadPool
	KindDistributed
)

// DefaultWorkers is the worker count used when a threadPool or distributed
// strategy is named without one.
const DefaultWorkers = 8

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVectorLane:
		return "vectorLane"
	case KindThreadPool:
		return "threadPool"
	case KindDistributed:
		return "distributed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var kindNames = map[string]Kind{
	"scalar":      KindScalar,
	"serial":      KindScalar,
	"vectorlane":  KindVectorLane,
	"vector":      KindVectorLane,
	"simd":        KindVectorLane,
	"threadpool":  KindThreadPool,
	"threads":     KindThreadPool,
	"distributed": KindDistributed,
	"mpi":         KindDistributed,
}

// StrategySpec is a parsed strategy selection such as "threadPool(4)".
type StrategySpec struct {
	Kind Kind

	// N is the lane count for vectorLane (0 means detected width) and the
	// worker count for threadPool and distributed.
	N int
}

// ParseStrategy parses "name" or "name(N)". Names are case-insensitive;
// "vector", "threads" and "mpi" are accepted as aliases. threadPool and
// distributed default to DefaultWorkers and reject a count of zero;
// vectorLane(0) selects the detected width.
func ParseStrategy(s string) (StrategySpec, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	arg := ""
	if open := strings.IndexByte(name, '('); open >= 0 {
		if !strings.HasSuffix(name, ")") {
			return StrategySpec{}, fmt.Errorf("%w: %q: missing ')'", ErrUnknownStrategy, s)
		}
		arg = strings.TrimSpace(name[open+1 : len(name)-1])
		name = strings.TrimSpace(name[:open])
	}

	kind, ok := kindNames[name]
	if !ok {
		return StrategySpec{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
	spec := StrategySpec{Kind: kind}
	switch kind {
	case KindThreadPool, KindDistributed:
		spec.N = DefaultWorkers
	}

	if arg != "" {
		if kind == KindScalar {
			return StrategySpec{}, fmt.Errorf("%w: %q: scalar takes no count", ErrUnknownStrategy, s)
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return StrategySpec{}, fmt.Errorf("%w: %q: bad count %q", ErrUnknownStrategy, s, arg)
		}
		if n == 0 && kind != KindVectorLane {
			return StrategySpec{}, fmt.Errorf("%w: %q: %s needs at least one worker", ErrUnknownStrategy, s, kind)
		}
		spec.N = n
	}
	return spec, nil
}

// String returns the canonical form accepted by ParseStrategy.
func (s StrategySpec) String() string {
	switch s.Kind {
	case KindScalar:
		return "scalar"
	case KindVectorLane:
		if s.N == 0 {
			return "vectorLane"
		}
	}
	return fmt.Sprintf("%s(%d)", s.Kind, s.N)
}

// Build returns the strategy with in-process defaults.
func (s StrategySpec) Build() convolve.Strategy {
	switch s.Kind {
	case KindVectorLane:
		return convolve.VectorLane{Width: s.N}
	case KindThreadPool:
		return convolve.ThreadPool{Workers: s.N}
	case KindDistributed:
		return convolve.Distributed{Workers: s.N}
	default:
		return convolve.Scalar{}
	}
}

// All returns one spec per strategy kind with the given count, in the
// order scalar, vectorLane, threadPool, distributed.
func All(workers, lanes int) []StrategySpec {
	return []StrategySpec{
		{Kind: KindScalar},
		{Kind: KindVectorLane, N: lanes},
		{Kind: KindThreadPool, N: workers},
		{Kind: KindDistributed, N: workers},
	}
}
