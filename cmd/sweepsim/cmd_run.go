package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oakfield-labs/sweepsim/internal/sim"
)

func newRunCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		maxTicks int
		seed     uint64
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "run <scenario.toml>",
		Short: "Run a single scenario to completion and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, params, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			if seed != 0 {
				params.Simulation.RandomSeed = seed
			}

			s, err := sim.NewSimulator(layout, params)
			if err != nil {
				return fmt.Errorf("construct simulator: %w", err)
			}

			events := s.Run(maxTicks)
			if verbose {
				for _, e := range events {
					fmt.Fprintln(stdout, e.String())
				}
			}

			res := s.Result()
			fmt.Fprintf(stdout, "termination: %s\n", res.TerminationReason)
			fmt.Fprintf(stdout, "ticks: %d  sim_time: %.1fs\n", res.Ticks, res.SimTime)
			fmt.Fprintf(stdout, "rescued: %d/%d (%.1f%%)  remaining: %d\n", res.EvacueesRescued, res.TotalEvacuees, res.RescueRate*100, res.EvacueesRemaining)
			fmt.Fprintf(stdout, "rooms cleared: %d/%d\n", res.RoomsCleared, res.TotalRooms)
			fmt.Fprintf(stdout, "agents survived: %d  died: %d  escaped: %d\n", res.AgentsSurvived, res.AgentsDied, res.AgentsEscaped)
			fmt.Fprintf(stdout, "max hazard: %.2f  avg hazard exposure: %.2f\n", res.MaxHazard, res.AvgHazardExposure)
			fmt.Fprintf(stdout, "avg rescue priority: %.2f\n", res.AvgRescuePriority)
			fmt.Fprintf(stdout, "success score: %.4f\n", res.SuccessScore)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "tick bound (0 derives one from time_cap/tick_duration)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "override the scenario's random seed (0 keeps the scenario's value)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "print every emitted event")
	return cmd
}
