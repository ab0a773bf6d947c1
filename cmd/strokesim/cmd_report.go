package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"strokesim/internal/display"
	"strokesim/internal/format"
	"strokesim/internal/store"
)

var reportFlags struct {
	runID     int64
	dbPath    string
	outFormat string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List stored runs, or render one with --run-id",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.Int64Var(&reportFlags.runID, "run-id", 0, "Run to render (0 = list all runs)")
	f.StringVar(&reportFlags.dbPath, "db", store.DefaultDBPath, "Results DB path")
	f.StringVar(&reportFlags.outFormat, "format", "ascii", "Output format (ascii, markdown)")
}

func runReport(cmd *cobra.Command, _ []string) error {
	mode, err := format.ModeFromString(reportFlags.outFormat)
	if err != nil {
		return err
	}
	s, err := store.Open(reportFlags.dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()
	out := cmd.OutOrStdout()

	if reportFlags.runID == 0 {
		runs, err := s.ListRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "no stored runs; use 'strokesim run' first")
			return nil
		}
		tb := format.NewTable(mode)
		tb.Header("ID", "Scenario", "Runs", "Warm-up", "Collection", "Created")
		for _, run := range runs {
			tb.Row(run.ID, run.Scenario, run.NumberOfRuns,
				format.FmtDays(run.WarmUp), format.FmtDays(run.Collection), run.CreatedAt)
		}
		fmt.Fprintln(out, tb.String())
		return nil
	}

	run, err := s.GetRun(reportFlags.runID)
	if err != nil {
		return err
	}
	results, err := s.GetUnitResults(run.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run %d | scenario %s, %d replications, created %s\n",
		run.ID, run.Scenario, run.NumberOfRuns, run.CreatedAt)
	for _, ur := range results {
		fmt.Fprintf(out, "\n%s\n", display.UnitWithCode(ur.Unit))
		tb := format.NewTable(mode)
		tb.Header("Beds", "Freq", "Pct", "Cum pct", "P(delay)")
		for _, row := range ur.Occupancy {
			tb.Row(row.Beds, row.Freq, format.FmtPct(row.Pct),
				format.FmtPct(row.CPct), fmt.Sprintf("%.3f", row.ProbDelay))
		}
		fmt.Fprintln(out, tb.String())
		sum := ur.Summary
		fmt.Fprintf(out, "mean occupancy %.2f (95%% CI %s), mean admissions %.0f\n",
			sum.MeanOccupancy, format.FmtCI(sum.CILow, sum.CIHigh), sum.MeanAdmitted)
	}
	return nil
}
