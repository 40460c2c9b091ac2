package main

import (
	"fmt"
	"io"

	"github.com/ChicagoDave/showthr/pkg/config"
	"github.com/ChicagoDave/showthr/pkg/sand"
	"github.com/ChicagoDave/showthr/pkg/trace"
	"github.com/ChicagoDave/showthr/pkg/validation"
)

func printSettings(w io.Writer, cfg *config.Config, input, output string) {
	fmt.Fprintf(w, "input:   %s\n", input)
	fmt.Fprintf(w, "output:  %s\n", output)
	fmt.Fprintf(w, "table:   %dx%d (border %d)\n", cfg.Table.Width, cfg.Table.Height, cfg.Table.Border)
	fmt.Fprintf(w, "ball:    radius %g\n", cfg.Ball.Radius)
	fmt.Fprintf(w, "sand:    depth %g\n", cfg.Sand.Depth)
	fmt.Fprintf(w, "dt:      %g\n", cfg.Run.DT)
	fmt.Fprintln(w)
}

func printRunSummary(w io.Writer, res trace.Result, st sand.Stats, output string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Image saved to %s\n", output)
	fmt.Fprintf(w, "  waypoints:   %d\n", res.Waypoints)
	fmt.Fprintf(w, "  steps:       %d\n", res.Steps)
	fmt.Fprintf(w, "  sweeps:      %d (peak %d per step)\n", st.Sweeps, st.PeakSweeps)
	fmt.Fprintf(w, "  transfers:   %d\n", st.Transfers)
	fmt.Fprintf(w, "  sand pushed: %.1f\n", st.Moved)
	fmt.Fprintf(w, "Done! Time taken: %.3fs\n", res.Elapsed.Seconds())
}

func printBatchResults(w io.Writer, results []batchResult) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(w, "%-32s %-32s %10s %10s\n", "Input", "Output", "Steps", "Seconds")
	fmt.Fprintf(w, "%-32s %-32s %10s %10s\n",
		"--------------------------------", "--------------------------------", "----------", "----------")
	for _, r := range results {
		status := fmt.Sprintf("%10d %10.2f", r.Result.Steps, r.Result.Elapsed.Seconds())
		if r.Err != nil {
			status = "FAILED: " + r.Err.Error()
		}
		fmt.Fprintf(w, "%-32s %-32s %s\n", r.Input, r.Output, status)
	}
}

func printTrackSummaries(w io.Writer, summaries []trackSummary) {
	for _, s := range summaries {
		fmt.Fprintf(w, "%s: %d waypoints, path %.1f cells, ~%d steps, spans (%.1f,%.1f)-(%.1f,%.1f)\n",
			s.Name, s.Waypoints, s.Length, s.EstSteps, s.Min.X, s.Min.Y, s.Max.X, s.Max.Y)
	}
	if len(summaries) > 0 {
		fmt.Fprintln(w)
	}
}

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, e := range r.Warnings {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(w io.Writer, e validation.Result) {
	fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
	if e.Path != "" && e.ActualValue != nil {
		fmt.Fprintf(w, "    -> %s = %v\n", e.Path, e.ActualValue)
	}
	if e.Expected != "" {
		fmt.Fprintf(w, "    expected: %s\n", e.Expected)
	}
	if e.ConflictWith != "" {
		fmt.Fprintf(w, "    conflicts with: %s\n", e.ConflictWith)
	}
	for _, s := range e.Suggestions {
		fmt.Fprintf(w, "    * %s\n", s)
	}
}
