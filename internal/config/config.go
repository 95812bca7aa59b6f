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

// Package config loads the settings of the dogdetect command.
//
// Values are layered: built-in defaults, then a YAML (.yaml, .yml) or HCL
// (.hcl) file, then DOG_* environment variables. Command-line flags are
// applied last by the caller.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-highway-dog/hwy/contrib/convolve"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/convolve/wire"
	"github.com/ajroetker/go-highway-dog/internal/logging"
)

// Config holds every setting of a detection run.
type Config struct {
	Width    int
	Height   int
	Sigma1   float64
	Sigma2   float64
	Seed     uint64
	Strategy string

	// Distributed settings.
	Compression string
	NoHalo      bool
	Workers     []string
	DialTimeout time.Duration
	Listen      string

	LogLevel  string
	LogFormat string
}

// Default returns the defaults: a 512x512 image, sigma 1 and 2, and eight
// threads.
func Default() *Config {
	return &Config{
		Width:       512,
		Height:      512,
		Sigma1:      1,
		Sigma2:      2,
		Seed:        1,
		Strategy:    "threadPool(8)",
		Compression: "none",
		DialTimeout: 5 * time.Second,
		Listen:      ":7070",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// fileConfig is the on-disk form. Pointer fields tell an absent key from
// a zero value.
type fileConfig struct {
	Width       *int     `yaml:"width" hcl:"width,optional"`
	Height      *int     `yaml:"height" hcl:"height,optional"`
	Sigma1      *float64 `yaml:"sigma1" hcl:"sigma1,optional"`
	Sigma2      *float64 `yaml:"sigma2" hcl:"sigma2,optional"`
	Seed        *int64   `yaml:"seed" hcl:"seed,optional"`
	Strategy    *string  `yaml:"strategy" hcl:"strategy,optional"`
	Compression *string  `yaml:"compression" hcl:"compression,optional"`
	NoHalo      *bool    `yaml:"no_halo" hcl:"no_halo,optional"`
	Workers     []string `yaml:"workers" hcl:"workers,optional"`
	DialTimeout *string  `yaml:"dial_timeout" hcl:"dial_timeout,optional"`
	Listen      *string  `yaml:"listen" hcl:"listen,optional"`
	LogLevel    *string  `yaml:"log_level" hcl:"log_level,optional"`
	LogFormat   *string  `yaml:"log_format" hcl:"log_format,optional"`
}

// Load returns the defaults overlaid with the file at path (if path is not
// empty) and then with the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".hcl":
		file, diags := hclparse.NewParser().ParseHCLFile(path)
		if diags.HasErrors() {
			return fmt.Errorf("config: parse %s: %w", path, diags)
		}
		if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
			return fmt.Errorf("config: decode %s: %w", path, diags)
		}
	default:
		return fmt.Errorf("config: %s: unsupported extension %q", path, ext)
	}
	return c.merge(&fc)
}

func (c *Config) merge(fc *fileConfig) error {
	if fc.Width != nil {
		c.Width = *fc.Width
	}
	if fc.Height != nil {
		c.Height = *fc.Height
	}
	if fc.Sigma1 != nil {
		c.Sigma1 = *fc.Sigma1
	}
	if fc.Sigma2 != nil {
		c.Sigma2 = *fc.Sigma2
	}
	if fc.Seed != nil {
		c.Seed = uint64(*fc.Seed)
	}
	if fc.Strategy != nil {
		c.Strategy = *fc.Strategy
	}
	if fc.Compression != nil {
		c.Compression = *fc.Compression
	}
	if fc.NoHalo != nil {
		c.NoHalo = *fc.NoHalo
	}
	if fc.Workers != nil {
		c.Workers = fc.Workers
	}
	if fc.DialTimeout != nil {
		d, err := time.ParseDuration(*fc.DialTimeout)
		if err != nil {
			return fmt.Errorf("config: dial_timeout: %w", err)
		}
		c.DialTimeout = d
	}
	if fc.Listen != nil {
		c.Listen = *fc.Listen
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.LogFormat != nil {
		c.LogFormat = *fc.LogFormat
	}
	return nil
}

// ApplyEnv overrides settings from DOG_* environment variables. Empty
// variables are ignored; malformed ones are an error.
func (c *Config) ApplyEnv() error {
	var err error
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" && err == nil {
			var n int
			if n, err = strconv.Atoi(v); err != nil {
				err = fmt.Errorf("config: %s: %w", key, err)
				return
			}
			*dst = n
		}
	}
	setFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" && err == nil {
			var f float64
			if f, err = strconv.ParseFloat(v, 64); err != nil {
				err = fmt.Errorf("config: %s: %w", key, err)
				return
			}
			*dst = f
		}
	}
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setInt("DOG_WIDTH", &c.Width)
	setInt("DOG_HEIGHT", &c.Height)
	setFloat("DOG_SIGMA1", &c.Sigma1)
	setFloat("DOG_SIGMA2", &c.Sigma2)
	setString("DOG_STRATEGY", &c.Strategy)
	setString("DOG_COMPRESSION", &c.Compression)
	setString("DOG_LISTEN", &c.Listen)
	setString("DOG_LOG_LEVEL", &c.LogLevel)
	setString("DOG_LOG_FORMAT", &c.LogFormat)
	if err != nil {
		return err
	}

	if v := os.Getenv("DOG_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: DOG_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v := os.Getenv("DOG_NO_HALO"); v != "" {
		v = strings.ToLower(v)
		c.NoHalo = v == "true" || v == "1" || v == "yes" || v == "on"
	}
	if v := os.Getenv("DOG_WORKERS"); v != "" {
		c.Workers = c.Workers[:0:0]
		for _, addr := range strings.Split(v, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				c.Workers = append(c.Workers, addr)
			}
		}
	}
	if v := os.Getenv("DOG_DIAL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: DOG_DIAL_TIMEOUT: %w", err)
		}
		c.DialTimeout = d
	}
	return nil
}

// Validate checks the settings that do not depend on the image content.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: image size %dx%d must be positive", c.Width, c.Height)
	}
	if !(c.Sigma1 > 0) || !(c.Sigma2 > 0) {
		return fmt.Errorf("config: sigmas %v and %v must be positive", c.Sigma1, c.Sigma2)
	}
	if _, err := ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if _, err := wire.ParseCompression(c.Compression); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: log format %q, want text or json", c.LogFormat)
	}
	return nil
}

// BuildStrategy parses c.Strategy and applies the distributed settings.
// Without worker addresses, distributed ranks run in-process.
func (c *Config) BuildStrategy(logger *logging.Logger) (convolve.Strategy, error) {
	spec, err := ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}
	return c.Build(spec, logger)
}

// Build returns spec's strategy with the distributed settings of c.
func (c *Config) Build(spec StrategySpec, logger *logging.Logger) (convolve.Strategy, error) {
	if spec.Kind != KindDistributed {
		return spec.Build(), nil
	}
	comp, err := wire.ParseCompression(c.Compression)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	s := convolve.Distributed{
		Workers:     spec.N,
		Compression: comp,
		NoHalo:      c.NoHalo,
		Logger:      logger,
	}
	if len(c.Workers) > 0 {
		s.Dial = convolve.TCPDialer(c.DialTimeout, c.Workers...)
	}
	return s, nil
}

// Logger returns the logger described by LogLevel and LogFormat, writing
// to w.
func (c *Config) Logger(w io.Writer) *logging.Logger {
	level := logging.ParseLevel(c.LogLevel)
	if c.LogFormat == "json" {
		return logging.NewJSONLogger(w, level)
	}
	return logging.NewTextLogger(w, level)
}
