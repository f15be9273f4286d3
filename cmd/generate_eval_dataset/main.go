// generate_eval_dataset writes a synthetic ground-truth file and a matching
// prediction file with known corruptions, for exercising slueval.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-slueval/internal/testutils"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var (
		cfg    testutils.GeneratorConfig
		outDir string
	)
	cmd := &cobra.Command{
		Use:           "generate_eval_dataset",
		Short:         "Generate a synthetic evaluation dataset",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("seed") {
				cfg.Seed = time.Now().UnixNano()
			}
			return generate(stdout, cfg, outDir)
		},
	}
	f := cmd.Flags()
	f.IntVar(&cfg.Size, "size", 500, "number of ground-truth samples")
	f.Int64Var(&cfg.Seed, "seed", 0, "random seed (default: time based)")
	f.Float64Var(&cfg.CorruptRate, "corrupt-rate", 0.3, "probability that a prediction is altered")
	f.Float64Var(&cfg.MissRate, "miss-rate", 0.05, "probability that a prediction id is absent from ground truth")
	f.StringVar(&outDir, "output-dir", "testdata/eval_dataset", "directory for the generated files")
	return cmd
}

func generate(stdout io.Writer, cfg testutils.GeneratorConfig, outDir string) error {
	if cfg.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", cfg.Size)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ds := testutils.GenerateEvalDataset(cfg)
	gtPath := filepath.Join(outDir, "ground_truth.jsonl")
	predPath := filepath.Join(outDir, "prediction.jsonl")
	if err := ds.Save(gtPath, predPath); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Generated evaluation dataset (seed %d):\n", cfg.Seed)
	fmt.Fprintf(stdout, "- Ground truth: %s (%d samples)\n", gtPath, len(ds.GroundTruth))
	fmt.Fprintf(stdout, "- Predictions:  %s (%d samples)\n", predPath, len(ds.Predictions))

	counts := ds.CorruptionCounts()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(stdout, "- Corruption %-8s %d\n", k+":", counts[k])
	}

	e := ds.Expected
	fmt.Fprintf(stdout, "Expected: processed=%d exact=%d intent=%d tp=%d fp=%d fn=%d\n",
		e.Processed, e.ExactMatches, e.IntentMatches, e.SlotTP, e.SlotFP, e.SlotFN)
	return nil
}
