package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/oakfield-labs/sweepsim/internal/harness"
)

func newCompareCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		runs     int
		baseSeed uint64
		maxTicks int
		policies []string
	)
	cmd := &cobra.Command{
		Use:   "compare <scenario.toml>",
		Short: "Run a scenario many times per policy and print aggregate scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, params, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			kinds := policies
			if len(kinds) == 0 {
				kinds = []string{params.Policy.Kind.String()}
			}

			for _, kindName := range kinds {
				p := params
				p.Policy.Kind = parsePolicyKind(kindName)

				results := harness.RunBatch(harness.BatchConfig{
					Layout:   layout,
					Params:   p,
					Runs:     runs,
					BaseSeed: baseSeed,
					MaxTicks: maxTicks,
				})
				printAggregate(stdout, kindName, results)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&runs, "runs", 10, "number of independent runs per policy")
	cmd.Flags().Uint64Var(&baseSeed, "seed-base", 1, "first run's random seed; subsequent runs increment it")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "tick bound per run (0 derives one from time_cap/tick_duration)")
	cmd.Flags().StringSliceVar(&policies, "policy", nil, "policies to compare (default: the scenario's own policy)")
	return cmd
}

func printAggregate(stdout io.Writer, label string, results []harness.RunResult) {
	var (
		okRuns                          int
		totalScore, totalRescued, total float64
		totalTicks                      int
		failed                          int
	)
	sorted := make([]harness.RunResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	for _, r := range sorted {
		if r.Err != nil {
			failed++
			continue
		}
		okRuns++
		totalScore += r.Result.SuccessScore
		totalRescued += float64(r.Result.EvacueesRescued)
		total += float64(r.Result.TotalEvacuees)
		totalTicks += r.Result.Ticks
	}

	fmt.Fprintf(stdout, "policy=%-10s runs=%d failed=%d\n", label, okRuns, failed)
	if okRuns == 0 {
		return
	}
	fmt.Fprintf(stdout, "  avg success score: %.4f\n", totalScore/float64(okRuns))
	fmt.Fprintf(stdout, "  avg rescued:       %.2f/%.2f\n", totalRescued/float64(okRuns), total/float64(okRuns))
	fmt.Fprintf(stdout, "  avg ticks:         %.1f\n", float64(totalTicks)/float64(okRuns))
}
