package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-highway-dog/hwy/contrib/convolve"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/convolve/wire"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want StrategySpec
	}{
		{"scalar", StrategySpec{Kind: KindScalar}},
		{"  Scalar ", StrategySpec{Kind: KindScalar}},
		{"vectorLane", StrategySpec{Kind: KindVectorLane}},
		{"vectorLane(8)", StrategySpec{Kind: KindVectorLane, N: 8}},
		{"vector(4)", StrategySpec{Kind: KindVectorLane, N: 4}},
		{"threadPool", StrategySpec{Kind: KindThreadPool, N: DefaultWorkers}},
		{"threadpool( 3 )", StrategySpec{Kind: KindThreadPool, N: 3}},
		{"threads(2)", StrategySpec{Kind: KindThreadPool, N: 2}},
		{"VECTORLANE(0)", StrategySpec{Kind: KindVectorLane, N: 0}},
		{"distributed(4)", StrategySpec{Kind: KindDistributed, N: 4}},
		{"mpi", StrategySpec{Kind: KindDistributed, N: DefaultWorkers}},
	}
	for _, tc := range tests {
		got, err := ParseStrategy(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseStrategyErrors(t *testing.T) {
	for _, in := range []string{"", "gpu", "threadPool(", "threadPool(x)", "threadPool(-1)", "threadPool(0)", "THREADPOOL(0)", "distributed(0)", "scalar(2)", "vectorLane(4"} {
		_, err := ParseStrategy(in)
		assert.ErrorIs(t, err, ErrUnknownStrategy, in)
	}
}

func TestStrategySpecRoundTrip(t *testing.T) {
	for _, spec := range All(4, 8) {
		got, err := ParseStrategy(spec.String())
		require.NoError(t, err)
		assert.Equal(t, spec, got)
		// The built strategy names itself the same way.
		assert.Equal(t, spec.String(), spec.Build().String())
	}
	assert.Equal(t, "vectorLane", StrategySpec{Kind: KindVectorLane}.String())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 512, cfg.Height)
	assert.Equal(t, 1.0, cfg.Sigma1)
	assert.Equal(t, 2.0, cfg.Sigma2)
	assert.Equal(t, "threadPool(8)", cfg.Strategy)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
width: 64
sigma2: 3.5
strategy: distributed(2)
compression: zstd
no_halo: true
workers: ["10.0.0.1:7070", "10.0.0.2:7070"]
dial_timeout: 250ms
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 512, cfg.Height, "absent keys keep defaults")
	assert.Equal(t, 1.0, cfg.Sigma1)
	assert.Equal(t, 3.5, cfg.Sigma2)
	assert.Equal(t, "distributed(2)", cfg.Strategy)
	assert.True(t, cfg.NoHalo)
	assert.Equal(t, []string{"10.0.0.1:7070", "10.0.0.2:7070"}, cfg.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.DialTimeout)

	s, err := cfg.BuildStrategy(nil)
	require.NoError(t, err)
	d, ok := s.(convolve.Distributed)
	require.True(t, ok)
	assert.Equal(t, 2, d.Workers)
	assert.Equal(t, wire.CompressionZSTD, d.Compression)
	assert.True(t, d.NoHalo)
	assert.NotNil(t, d.Dial)
}

func TestLoadHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dog.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
width    = 128
height   = 96
sigma1   = 0.8
strategy = "vectorLane(4)"
seed     = 42
log_format = "json"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Width)
	assert.Equal(t, 96, cfg.Height)
	assert.Equal(t, 0.8, cfg.Sigma1)
	assert.Equal(t, 2.0, cfg.Sigma2)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "json", cfg.LogFormat)

	s, err := cfg.BuildStrategy(nil)
	require.NoError(t, err)
	assert.Equal(t, convolve.VectorLane{Width: 4}, s)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "dog.toml")
	require.NoError(t, os.WriteFile(txt, []byte("width = 1"), 0o600))
	_, err = Load(txt)
	assert.ErrorContains(t, err, "unsupported extension")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("width: [1"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)

	badHCL := filepath.Join(dir, "bad.hcl")
	require.NoError(t, os.WriteFile(badHCL, []byte(`colour = "red"`), 0o600))
	_, err = Load(badHCL)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("sigma1: -1"), 0o600))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "must be positive")

	strategy := filepath.Join(dir, "strategy.yaml")
	require.NoError(t, os.WriteFile(strategy, []byte("strategy: gpu"), 0o600))
	_, err = Load(strategy)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dog.yml")
	require.NoError(t, os.WriteFile(path, []byte("width: 64\nstrategy: scalar\n"), 0o600))

	t.Setenv("DOG_WIDTH", "32")
	t.Setenv("DOG_STRATEGY", "threads(3)")
	t.Setenv("DOG_SEED", "7")
	t.Setenv("DOG_NO_HALO", "yes")
	t.Setenv("DOG_WORKERS", "a:1, b:2,")
	t.Setenv("DOG_DIAL_TIMEOUT", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)
	assert.Equal(t, "threads(3)", cfg.Strategy)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.True(t, cfg.NoHalo)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Workers)
	assert.Equal(t, 2*time.Second, cfg.DialTimeout)
}

func TestEnvMalformed(t *testing.T) {
	for key, value := range map[string]string{
		"DOG_WIDTH":        "wide",
		"DOG_SIGMA1":       "one",
		"DOG_SEED":         "-1",
		"DOG_DIAL_TIMEOUT": "soon",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load("")
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestBuildNonDistributedIgnoresWorkers(t *testing.T) {
	cfg := Default()
	cfg.Workers = []string{"a:1"}
	s, err := cfg.Build(StrategySpec{Kind: KindThreadPool, N: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, convolve.ThreadPool{Workers: 2}, s)

	s, err = cfg.Build(StrategySpec{Kind: KindDistributed, N: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, "distributed(2)", s.String())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogFormat = "json"
	cfg.Logger(&buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	cfg.LogFormat = "text"
	cfg.LogLevel = "warn"
	l := cfg.Logger(&buf)
	l.Info("quiet")
	l.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "msg=loud")
}
