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

package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/viterin/vek/vek32"

	"github.com/ajroetker/go-highway-dog/hwy"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/convolve"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/convolve/wire"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/dog"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/image"
	"github.com/ajroetker/go-highway-dog/internal/config"
)

// loadConfig layers flags that were set explicitly on top of the config
// file and DOG_* environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("sigma1") {
		cfg.Sigma1, _ = flags.GetFloat64("sigma1")
	}
	if flags.Changed("sigma2") {
		cfg.Sigma2, _ = flags.GetFloat64("sigma2")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("strategy") {
		cfg.Strategy, _ = flags.GetString("strategy")
	}
	if flags.Changed("compression") {
		cfg.Compression, _ = flags.GetString("compression")
	}
	if flags.Changed("no-halo") {
		cfg.NoHalo, _ = flags.GetBool("no-halo")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetStringSlice("workers")
	}
	if flags.Changed("dial-timeout") {
		cfg.DialTimeout, _ = flags.GetDuration("dial-timeout")
	}
	if flags.Changed("listen") {
		cfg.Listen, _ = flags.GetString("listen")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// randomImage fills a width x height image with uniform samples in [0, 1).
func randomImage(width, height int, seed uint64) (*image.Image, error) {
	img, err := image.New(width, height)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	pix := img.Pix()
	for i := range pix {
		pix[i] = rng.Float32()
	}
	return img, nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.Logger(cmd.ErrOrStderr()).With("run", uuid.New().String())

	strategy, err := cfg.BuildStrategy(logger)
	if err != nil {
		return err
	}
	img, err := randomImage(cfg.Width, cfg.Height, cfg.Seed)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "pipeline starting",
		"pixels", humanize.Comma(int64(cfg.Width*cfg.Height)),
		"size", humanize.IBytes(uint64(4*cfg.Width*cfg.Height)),
		"strategy", strategy.String(),
		"sigma1", cfg.Sigma1,
		"sigma2", cfg.Sigma2,
	)

	start := time.Now()
	d, err := dog.NewBuilder(strategy, convolve.WithLogger(logger)).Build(img, cfg.Sigma1, cfg.Sigma2)
	if err != nil {
		logger.ErrorContext(ctx, "pipeline failed", "error", err)
		return err
	}
	kps := dog.ExtractKeypointsLogged(ctx, d, logger)
	logger.InfoContext(ctx, "pipeline completed", "elapsed", time.Since(start))

	fmt.Fprintf(cmd.OutOrStdout(), "Detected %d keypoints.\n", len(kps))
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	workers, _ := cmd.Flags().GetInt("workers-count")
	lanes, _ := cmd.Flags().GetInt("lanes")
	tolerance, _ := cmd.Flags().GetFloat64("tolerance")
	logger := cfg.Logger(cmd.ErrOrStderr())

	img, err := randomImage(cfg.Width, cfg.Height, cfg.Seed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%dx%d image (%s pixels), sigma %v/%v\n",
		cfg.Width, cfg.Height, humanize.Comma(int64(cfg.Width*cfg.Height)), cfg.Sigma1, cfg.Sigma2)

	var (
		ref     *image.Image
		refKps  []dog.Keypoint
		failing []string
	)
	for _, spec := range config.All(workers, lanes) {
		strategy, err := cfg.Build(spec, logger)
		if err != nil {
			return err
		}
		start := time.Now()
		d, err := dog.BuildDoG(img, cfg.Sigma1, cfg.Sigma2, strategy)
		if err != nil {
			return fmt.Errorf("%s: %w", strategy, err)
		}
		elapsed := time.Since(start)
		kps := dog.ExtractKeypoints(d)

		if ref == nil {
			ref, refKps = d, kps
		}
		dev := image.MaxAbsDiff(d, ref)
		agree := dog.Agreement(refKps, kps, cfg.Width)
		fmt.Fprintf(out, "%-20s %6d keypoints  max dev %.2e  agreement %.4f  %v\n",
			strategy, len(kps), dev, agree, elapsed.Round(time.Microsecond))
		if dev > tolerance {
			failing = append(failing, strategy.String())
		}
	}
	if len(failing) > 0 {
		return fmt.Errorf("deviation above %g: %s", tolerance, strings.Join(failing, ", "))
	}
	return nil
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	comp, err := wire.ParseCompression(cfg.Compression)
	if err != nil {
		return err
	}
	logger := cfg.Logger(cmd.ErrOrStderr())

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Listen, err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	logger.InfoContext(ctx, "worker listening", "addr", ln.Addr().String(), "compression", comp.String())
	err = convolve.Serve(ln, comp, logger.With("addr", ln.Addr().String()))
	logger.InfoContext(context.Background(), "worker stopped")
	return err
}

func laneInfo() string {
	return fmt.Sprintf("%s, %d float32 lanes", hwy.CurrentName(), hwy.MaxLanes[float32]())
}

func vekInfo() string {
	info := vek32.Info()
	return fmt.Sprintf("arch=%s accelerated=%t features=%s",
		runtime.GOARCH, info.Acceleration, strings.Join(info.CPUFeatures, ","))
}
