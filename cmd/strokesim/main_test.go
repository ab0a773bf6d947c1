package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"strokesim/internal/params"
)

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestResolveParams_ScenarioAndFlagOverrides(t *testing.T) {
	runFlags.scenario = "admissions-5pct"
	runFlags.paramFile = ""
	runFlags.runs = 3
	runFlags.cores = 2
	defer func() { runFlags.runs, runFlags.cores = 0, 0 }()

	p, name, err := resolveParams()
	if err != nil {
		t.Fatalf("resolveParams: %v", err)
	}
	if name != "admissions-5pct" {
		t.Errorf("scenario name = %q", name)
	}
	if p.NumberOfRuns != 3 || p.Cores != 2 {
		t.Errorf("flag overrides not applied: runs=%d cores=%d", p.NumberOfRuns, p.Cores)
	}
	if p.ASUArrivals.Stroke >= params.Defaults().ASUArrivals.Stroke {
		t.Error("admissions scenario should shorten inter-arrival times")
	}
}

func TestResolveParams_UnknownScenario(t *testing.T) {
	runFlags.scenario = "nope"
	runFlags.paramFile = ""
	defer func() { runFlags.scenario = "base" }()
	if _, _, err := resolveParams(); err == nil {
		t.Fatal("expected error for unknown scenario")
	}
}

func TestRunAndReport_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "results.db")
	paramFile := filepath.Join(dir, "quick.yaml")
	doc := "warm_up_period: 10\ndata_collection_period: 50\nnumber_of_runs: 2\n"
	if err := os.WriteFile(paramFile, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run",
		"--param-file="+paramFile, "--db="+db, "--log-level=error")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Acute Stroke Unit") {
		t.Errorf("run output missing ASU section:\n%s", out)
	}
	if !strings.Contains(out, "P(delay)") {
		t.Errorf("run output missing frequency table:\n%s", out)
	}

	out, err = execute(t, "report", "--db="+db, "--log-level=error")
	if err != nil {
		t.Fatalf("report list: %v\n%s", err, out)
	}
	if !strings.Contains(out, paramFile) {
		t.Errorf("report listing should name the scenario:\n%s", out)
	}

	out, err = execute(t, "report", "--db="+db, "--run-id=1", "--log-level=error")
	if err != nil {
		t.Fatalf("report run 1: %v\n%s", err, out)
	}
	if !strings.Contains(out, "mean occupancy") {
		t.Errorf("report output missing summary:\n%s", out)
	}
}

func TestRun_NoSaveSkipsDB(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "never.db")
	paramFile := filepath.Join(dir, "quick.yaml")
	doc := "warm_up_period: 0\ndata_collection_period: 30\nnumber_of_runs: 1\n"
	if err := os.WriteFile(paramFile, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run", "--no-save",
		"--param-file="+paramFile, "--db="+db, "--log-level=error")
	if err != nil {
		t.Fatalf("run --no-save: %v\n%s", err, out)
	}
	if _, statErr := os.Stat(db); !os.IsNotExist(statErr) {
		t.Error("--no-save should not create the results DB")
	}
}

func TestScenarios_List(t *testing.T) {
	out, err := execute(t, "scenarios", "--log-level=error")
	if err != nil {
		t.Fatalf("scenarios: %v\n%s", err, out)
	}
	for _, name := range []string{"base", "admissions-5pct", "admissions-10pct", "esd-expansion"} {
		if !strings.Contains(out, name) {
			t.Errorf("scenario list missing %q:\n%s", name, out)
		}
	}
}

func TestRun_BadFormat(t *testing.T) {
	if _, err := execute(t, "run", "--format=html", "--log-level=error"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	runFlags.outFormat = "ascii"
}
