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

// Command dogdetect runs the Difference-of-Gaussians keypoint pipeline on
// a random image with a selectable execution strategy, compares the
// strategies against each other, and serves distributed blur workers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dogdetect",
		Short: "Difference-of-Gaussians keypoint detection",
		Long: `dogdetect blurs an image at two scales, subtracts the results and
reports strict 8-neighbour maxima of the difference.

The blur runs under one of four strategies:
  scalar           one sample at a time
  vectorLane(N)    N output columns per step
  threadPool(N)    N row ranges on a worker pool
  distributed(N)   N ranks exchanging row slabs over a byte stream`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", os.Getenv("DOG_CONFIG"), "Config file (.yaml, .yml or .hcl)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version and SIMD information",
		Run:   runVersion,
	})

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Detect keypoints in a random image",
		RunE:  runDetect,
	}
	addImageFlags(runCmd)
	runCmd.Flags().String("strategy", "", "Strategy: scalar, vectorLane(N), threadPool(N), distributed(N)")
	addDistributedFlags(runCmd)
	rootCmd.AddCommand(runCmd)

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every strategy on the same image and compare with scalar",
		RunE:  runCompare,
	}
	addImageFlags(compareCmd)
	compareCmd.Flags().Int("workers-count", 8, "Workers for threadPool and distributed")
	compareCmd.Flags().Int("lanes", 0, "Lanes for vectorLane (0 = detected width)")
	compareCmd.Flags().Float64("tolerance", 1e-4, "Maximum allowed pixel deviation from scalar")
	addDistributedFlags(compareCmd)
	rootCmd.AddCommand(compareCmd)

	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Serve distributed blur requests over TCP",
		RunE:  runWorker,
	}
	workerCmd.Flags().String("listen", "", "Listen address (default :7070)")
	workerCmd.Flags().String("compression", "", "Reply compression: none, lz4, zstd")
	rootCmd.AddCommand(workerCmd)

	return rootCmd
}

func addImageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("width", 0, "Image width (default 512)")
	cmd.Flags().Int("height", 0, "Image height (default 512)")
	cmd.Flags().Float64("sigma1", 0, "Fine scale (default 1)")
	cmd.Flags().Float64("sigma2", 0, "Coarse scale (default 2)")
	cmd.Flags().Uint64("seed", 0, "Random image seed (default 1)")
}

func addDistributedFlags(cmd *cobra.Command) {
	cmd.Flags().String("compression", "", "Slab compression: none, lz4, zstd")
	cmd.Flags().Bool("no-halo", false, "Send slabs without halo rows")
	cmd.Flags().StringSlice("workers", nil, "Worker addresses for distributed ranks 1..N-1 (empty = in-process)")
	cmd.Flags().Duration("dial-timeout", 0, "Worker dial timeout (default 5s)")
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "dogdetect %s\n", version)
	fmt.Fprintf(out, "lanes: %s\n", laneInfo())
	fmt.Fprintf(out, "vek: %s\n", vekInfo())
}
