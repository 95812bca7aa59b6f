package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-highway-dog/internal/config"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunPrintsKeypointCount(t *testing.T) {
	for _, strategy := range []string{"scalar", "vectorLane(4)", "threadPool(3)", "distributed(2)"} {
		out, _, err := execute(t, "run", "--width", "48", "--height", "40", "--seed", "3", "--strategy", strategy)
		require.NoError(t, err, strategy)
		assert.Regexp(t, `^Detected [1-9][0-9]* keypoints\.\n$`, out, strategy)
	}
}

func TestRunFlatImageHasNoKeypoints(t *testing.T) {
	// A 2x2 image has no interior pixels.
	out, _, err := execute(t, "run", "--width", "2", "--height", "2", "--strategy", "scalar")
	require.NoError(t, err)
	assert.Equal(t, "Detected 0 keypoints.\n", out)
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 16\nheight: 16\nstrategy: gpu\n"), 0o600))

	_, _, err := execute(t, "run", "--config", path)
	require.Error(t, err, "config strategy is invalid")

	path = filepath.Join(t.TempDir(), "ok.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 16\nheight: 16\nstrategy: scalar\nlog_level: debug\n"), 0o600))
	out, stderr, err := execute(t, "run", "--config", path, "--strategy", "threads(2)")
	require.NoError(t, err)
	assert.Contains(t, out, "keypoints.")
	assert.Contains(t, stderr, "strategy=threadPool(2)")
	assert.Contains(t, stderr, "pixels=256")
}

func TestRunErrors(t *testing.T) {
	_, _, err := execute(t, "run", "--width", "0")
	assert.Error(t, err)
	_, _, err = execute(t, "run", "--sigma1", "-1")
	assert.Error(t, err)
	_, _, err = execute(t, "run", "--strategy", "threadPool(0)", "--width", "8", "--height", "8")
	assert.ErrorIs(t, err, config.ErrUnknownStrategy)
}

func TestCompare(t *testing.T) {
	out, _, err := execute(t, "compare", "--width", "40", "--height", "32", "--workers-count", "4", "--lanes", "8", "--compression", "lz4")
	require.NoError(t, err)
	for _, name := range []string{"scalar", "vectorLane(8)", "threadPool(4)", "distributed(4)"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "agreement")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dogdetect dev")
	assert.Contains(t, out, "float32 lanes")
	assert.Contains(t, out, "vek: arch=")
}
