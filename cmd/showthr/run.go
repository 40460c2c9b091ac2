package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChicagoDave/showthr/internal/observability"
	"github.com/ChicagoDave/showthr/pkg/config"
	"github.com/ChicagoDave/showthr/pkg/geo"
	"github.com/ChicagoDave/showthr/pkg/render"
	"github.com/ChicagoDave/showthr/pkg/sand"
	"github.com/ChicagoDave/showthr/pkg/thr"
	"github.com/ChicagoDave/showthr/pkg/trace"
	"github.com/ChicagoDave/showthr/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// checkConfig logs warnings and fails on validation errors.
func checkConfig(cfg *config.Config) error {
	report := validation.ValidateConfig(cfg)
	logReport(report)
	if err := report.Err(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func logReport(r *validation.Report) {
	logger := observability.GetLogger()
	for _, w := range r.Warnings {
		logger.Warn(w.Message, zap.String("path", w.Path), zap.String("level", string(w.Level)))
	}
	for _, e := range r.Errors {
		logger.Error(e.Message, zap.String("path", e.Path), zap.String("level", string(e.Level)))
	}
}

func runRender(ctx context.Context, out io.Writer, cfg *config.Config, input, output string, quiet bool) error {
	logger := observability.GetLogger()

	// Reject the output name before spending time simulating.
	if _, err := render.FormatFromPath(output); err != nil {
		return fmt.Errorf("output %s: %w (supported: %s)", output, err, strings.Join(render.SupportedFormats(), ", "))
	}
	if err := checkConfig(cfg); err != nil {
		return err
	}
	track, err := thr.ParseFile(input)
	if err != nil {
		return err
	}
	logReport(track.Validate())

	printSettings(out, cfg, input, output)
	logger.Info("render started",
		zap.String("input", input),
		zap.Int("waypoints", len(track.Waypoints)),
		zap.Int("width", cfg.Table.Width),
		zap.Int("height", cfg.Table.Height))

	progress := func(p trace.Progress) {
		if !quiet {
			fmt.Fprintf(out, "%6.2f%% line %d: %d steps\n", p.Percent, p.Line, p.Steps)
		}
		logger.Debug("waypoint reached",
			zap.Int("line", p.Line),
			zap.Int("steps", p.Steps),
			zap.Float64("x", p.Target.X),
			zap.Float64("y", p.Target.Y))
	}

	sim, res, err := trace.Render(ctx, cfg, track, progress)
	if err != nil {
		if trace.IsNotSettled(err) {
			logger.Error("sand failed to settle; raise sand.max_sweeps or lower the depth", zap.Error(err))
		}
		return fmt.Errorf("simulating %s: %w", input, err)
	}
	if err := render.WriteFile(output, sim.Field()); err != nil {
		return err
	}

	printRunSummary(out, res, sim.Stats(), output)
	logger.Info("render complete",
		zap.String("output", output),
		zap.Int("steps", res.Steps),
		zap.Duration("elapsed", res.Elapsed))
	return nil
}

// batchResult is the outcome of one track in a batch.
type batchResult struct {
	Input  string
	Output string
	Result trace.Result
	Stats  sand.Stats
	Err    error
}

// runBatch renders every input into outDir. Each track runs in its own
// simulation; the first failure cancels the rest. Output files keep the
// extension as given in format, e.g. "tif" stays ".tif".
func runBatch(ctx context.Context, cfg *config.Config, outDir, format string, inputs []string) ([]batchResult, error) {
	ext := strings.ToLower(strings.TrimPrefix(format, "."))
	if _, err := render.FormatFromPath("out." + ext); err != nil {
		return nil, err
	}
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}

	results := make([]batchResult, len(inputs))
	written := make(map[string]string, len(inputs))
	for i, input := range inputs {
		output := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))+"."+ext)
		if prev, ok := written[output]; ok {
			return nil, fmt.Errorf("%s and %s would both write %s; rename one or batch them separately", prev, input, output)
		}
		written[output] = input
		results[i] = batchResult{Input: input, Output: output}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	logger := observability.GetLogger()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Run.Jobs)

	for i, input := range inputs {
		g.Go(func() error {
			r := &results[i]
			r.Err = renderOne(gctx, cfg, r)
			if r.Err != nil {
				logger.Error("batch render failed", zap.String("input", input), zap.Error(r.Err))
				return r.Err
			}
			logger.Info("batch render complete",
				zap.String("input", input),
				zap.String("output", r.Output),
				zap.Duration("elapsed", r.Result.Elapsed))
			return nil
		})
	}

	return results, g.Wait()
}

func renderOne(ctx context.Context, cfg *config.Config, r *batchResult) error {
	track, err := thr.ParseFile(r.Input)
	if err != nil {
		return err
	}
	sim, res, err := trace.Render(ctx, cfg, track, nil)
	r.Result = res
	if err != nil {
		return fmt.Errorf("simulating %s: %w", r.Input, err)
	}
	r.Stats = sim.Stats()
	return render.WriteFile(r.Output, sim.Field())
}

// trackSummary describes a track laid out on the configured table.
type trackSummary struct {
	Name      string
	Waypoints int
	Length    float64
	EstSteps  int
	Min, Max  geo.Vec2
}

// runValidate checks the config and every track without simulating.
func runValidate(cfg *config.Config, tracks []string) (*validation.Report, []trackSummary) {
	report := validation.ValidateConfig(cfg)
	var summaries []trackSummary

	for _, path := range tracks {
		track, err := thr.ParseFile(path)
		if err != nil {
			report.AddError(validation.Result{
				Level:   validation.LevelTrack,
				Message: err.Error(),
				Path:    path,
			})
			continue
		}
		report.Merge(track.Validate())

		p := track.Path(cfg.Center(), cfg.TrackRadius())
		mn, mx := p.BoundingBox()
		s := trackSummary{
			Name:      path,
			Waypoints: len(track.Waypoints),
			Length:    p.Length(),
			Min:       mn,
			Max:       mx,
		}
		if cfg.Run.DT > 0 {
			s.EstSteps = int(s.Length / (sand.DefaultSpeed * cfg.Run.DT))
		}
		summaries = append(summaries, s)
		report.AddInfo(validation.Result{
			Level:   validation.LevelRun,
			Message: fmt.Sprintf("%s: about %d steps over %.0f cells", path, s.EstSteps, s.Length),
			Path:    path,
		})

		if mn.X < 0 || mn.Y < 0 || mx.X >= float64(cfg.Table.Width) || mx.Y >= float64(cfg.Table.Height) {
			report.AddWarning(validation.Result{
				Level:       validation.LevelTrack,
				Message:     fmt.Sprintf("%s leaves the %dx%d table", path, cfg.Table.Width, cfg.Table.Height),
				Path:        path,
				ActualValue: fmt.Sprintf("(%.1f,%.1f)-(%.1f,%.1f)", mn.X, mn.Y, mx.X, mx.Y),
			})
		}
	}
	return report, summaries
}
