package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"strokesim/internal/display"
	"strokesim/internal/format"
	"strokesim/internal/logging"
	"strokesim/internal/model"
	"strokesim/internal/params"
	"strokesim/internal/runner"
	"strokesim/internal/scenario"
	"strokesim/internal/store"
)

var runFlags struct {
	scenario    string
	paramFile   string
	runs        int
	cores       int
	dbPath      string
	outFormat   string
	noSave      bool
	delayTarget float64
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run replications and print occupancy results",
	Long: `Run executes the configured number of replications of the pathway
model, pools the occupancy audits, and prints per-unit frequency tables
and summary statistics. Results are stored unless --no-save is given.`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.scenario, "scenario", "base", "Built-in scenario name (see 'strokesim scenarios')")
	f.StringVar(&runFlags.paramFile, "param-file", "", "Parameter file (YAML/JSON); overrides --scenario")
	f.IntVar(&runFlags.runs, "runs", 0, "Number of replications (0 = from parameters)")
	f.IntVar(&runFlags.cores, "cores", 0, "Parallel workers (0 = from parameters)")
	f.StringVar(&runFlags.dbPath, "db", store.DefaultDBPath, "Results DB path")
	f.StringVar(&runFlags.outFormat, "format", "ascii", "Output format (ascii, markdown)")
	f.BoolVar(&runFlags.noSave, "no-save", false, "Do not persist results")
	f.Float64Var(&runFlags.delayTarget, "delay-target", 0.1, "Delay probability target for the bed recommendation")
}

// resolveParams picks the parameter set: a parameter file wins over a
// named scenario, and the --runs/--cores flags win over both.
func resolveParams() (params.Param, string, error) {
	var sc *scenario.Scenario
	var err error
	if runFlags.paramFile != "" {
		sc, err = scenario.FromFile(runFlags.paramFile)
	} else {
		sc, err = scenario.Load(runFlags.scenario)
	}
	if err != nil {
		return params.Param{}, "", err
	}

	p, err := sc.Params(params.Defaults())
	if err != nil {
		return params.Param{}, "", err
	}
	if runFlags.runs > 0 {
		p.NumberOfRuns = runFlags.runs
	}
	if runFlags.cores > 0 {
		p.Cores = runFlags.cores
	}
	if err := p.Validate(); err != nil {
		return params.Param{}, "", err
	}
	return p, sc.Name, nil
}

func runRun(cmd *cobra.Command, _ []string) error {
	mode, err := format.ModeFromString(runFlags.outFormat)
	if err != nil {
		return err
	}
	p, scenarioName, err := resolveParams()
	if err != nil {
		return err
	}

	logger := logging.New("run")
	logger.Info("run starting", "scenario", scenarioName,
		"runs", p.NumberOfRuns, "cores", p.Cores,
		"warm_up", p.WarmUpPeriod, "collection", p.DataCollectionPeriod)

	results, err := runner.New(p).RunAll(context.Background())
	if err != nil {
		return fmt.Errorf("run replications: %w", err)
	}

	unitResults, err := reduceResults(results)
	if err != nil {
		return err
	}
	printResults(cmd.OutOrStdout(), mode, scenarioName, p, unitResults)

	if runFlags.noSave {
		return nil
	}
	return saveResults(scenarioName, p, unitResults)
}

// reduceResults pools replication audits and computes per-unit occupancy
// tables and summaries.
func reduceResults(results []*runner.Result) ([]*store.UnitResult, error) {
	pooled := runner.PoolAudits(results)
	var out []*store.UnitResult
	for _, unit := range []model.Unit{model.ASU, model.Rehab} {
		occ, err := runner.OccupancyFrequency(pooled, unit)
		if err != nil {
			return nil, fmt.Errorf("occupancy for %s: %w", unit, err)
		}
		sum, err := runner.Summarize(results, unit)
		if err != nil {
			return nil, fmt.Errorf("summary for %s: %w", unit, err)
		}
		out = append(out, &store.UnitResult{
			Unit:      string(unit),
			Occupancy: occ,
			Summary:   *sum,
		})
	}
	return out, nil
}

func printResults(w io.Writer, mode format.Mode, scenarioName string, p params.Param, unitResults []*store.UnitResult) {
	bold := color.New(color.Bold)
	for _, ur := range unitResults {
		fmt.Fprintln(w)
		bold.Fprintf(w, "%s | scenario %s, %d runs, %s warm-up + %s collection\n",
			display.UnitWithCode(ur.Unit), scenarioName, p.NumberOfRuns,
			format.FmtDays(p.WarmUpPeriod), format.FmtDays(p.DataCollectionPeriod))

		tb := format.NewTable(mode)
		tb.Header("Beds", "Freq", "Pct", "Cum pct", "P(delay)")
		tb.Columns(
			format.ColumnConfig{Number: 1, Align: format.AlignRight},
			format.ColumnConfig{Number: 2, Align: format.AlignRight},
		)
		for _, row := range ur.Occupancy {
			tb.Row(row.Beds, row.Freq, format.FmtPct(row.Pct),
				format.FmtPct(row.CPct), fmt.Sprintf("%.3f", row.ProbDelay))
		}
		fmt.Fprintln(w, tb.String())

		beds := runner.BedsForDelayTarget(ur.Occupancy, runFlags.delayTarget)
		sum := ur.Summary
		fmt.Fprintf(w, "mean occupancy %.2f (95%% CI %s), mean admissions %.0f\n",
			sum.MeanOccupancy, format.FmtCI(sum.CILow, sum.CIHigh), sum.MeanAdmitted)
		color.New(color.FgGreen).Fprintf(w, "%d beds keep P(delay) at or below %s\n",
			beds, format.FmtPct(runFlags.delayTarget))
	}
}

func saveResults(scenarioName string, p params.Param, unitResults []*store.UnitResult) error {
	paramsYAML, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	s, err := store.Open(runFlags.dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	runID, err := s.CreateRun(&store.Run{
		Scenario:     scenarioName,
		NumberOfRuns: p.NumberOfRuns,
		WarmUp:       p.WarmUpPeriod,
		Collection:   p.DataCollectionPeriod,
		ParamsYAML:   string(paramsYAML),
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	for _, ur := range unitResults {
		if err := s.SaveUnitResult(runID, ur); err != nil {
			return fmt.Errorf("save %s results: %w", ur.Unit, err)
		}
	}
	logging.New("run").Info("results stored", "run_id", runID, "db", runFlags.dbPath)
	return nil
}
