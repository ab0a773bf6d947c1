package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"strokesim/internal/format"
	"strokesim/internal/logging"
	"strokesim/internal/model"
	"strokesim/internal/params"
	"strokesim/internal/runner"
	"strokesim/internal/scenario"
)

var scenariosFlags struct {
	sweep       bool
	runs        int
	cores       int
	outFormat   string
	delayTarget float64
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List built-in scenarios, or sweep them all with --sweep",
	RunE:  runScenarios,
}

func init() {
	f := scenariosCmd.Flags()
	f.BoolVar(&scenariosFlags.sweep, "sweep", false, "Run every built-in scenario and compare")
	f.IntVar(&scenariosFlags.runs, "runs", 0, "Replications per scenario (0 = from parameters)")
	f.IntVar(&scenariosFlags.cores, "cores", 0, "Parallel workers (0 = from parameters)")
	f.StringVar(&scenariosFlags.outFormat, "format", "ascii", "Output format (ascii, markdown)")
	f.Float64Var(&scenariosFlags.delayTarget, "delay-target", 0.1, "Delay probability target for bed recommendations")
}

func runScenarios(cmd *cobra.Command, _ []string) error {
	mode, err := format.ModeFromString(scenariosFlags.outFormat)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !scenariosFlags.sweep {
		tb := format.NewTable(mode)
		tb.Header("Name", "Description")
		for _, name := range scenario.List() {
			sc, err := scenario.Load(name)
			if err != nil {
				return err
			}
			tb.Row(sc.Name, sc.Description)
		}
		fmt.Fprintln(out, tb.String())
		return nil
	}

	logger := logging.New("sweep")
	tb := format.NewTable(mode)
	tb.Header("Scenario", "ASU mean occ", "ASU beds", "Rehab mean occ", "Rehab beds")
	for _, name := range scenario.List() {
		sc, err := scenario.Load(name)
		if err != nil {
			return err
		}
		p, err := sc.Params(params.Defaults())
		if err != nil {
			return err
		}
		if scenariosFlags.runs > 0 {
			p.NumberOfRuns = scenariosFlags.runs
		}
		if scenariosFlags.cores > 0 {
			p.Cores = scenariosFlags.cores
		}

		logger.Info("sweep scenario", "scenario", name, "runs", p.NumberOfRuns)
		results, err := runner.New(p).RunAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("scenario %s: %w", name, err)
		}
		pooled := runner.PoolAudits(results)

		row := []any{name}
		for _, unit := range []model.Unit{model.ASU, model.Rehab} {
			sum, err := runner.Summarize(results, unit)
			if err != nil {
				return fmt.Errorf("scenario %s summary: %w", name, err)
			}
			occ, err := runner.OccupancyFrequency(pooled, unit)
			if err != nil {
				return fmt.Errorf("scenario %s occupancy: %w", name, err)
			}
			row = append(row,
				fmt.Sprintf("%.2f", sum.MeanOccupancy),
				runner.BedsForDelayTarget(occ, scenariosFlags.delayTarget))
		}
		tb.Row(row...)
	}
	fmt.Fprintln(out, tb.String())
	return nil
}
