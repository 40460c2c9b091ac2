package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ChicagoDave/showthr/pkg/config"
	"github.com/ChicagoDave/showthr/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const square = "# square\n0 0\n0 1\n1.5707963267948966 1\n3.141592653589793 1\n"

func writeTrack(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Table.Width, cfg.Table.Height = 60, 60
	cfg.Table.Border = 10
	cfg.Ball.Radius = 3
	return cfg
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCommandWritesImage(t *testing.T) {
	dir := t.TempDir()
	input := writeTrack(t, dir, "square.thr", square)
	output := filepath.Join(dir, "square.png")

	out, err := execute(t, "render", input, output, "-w", "60", "-H", "50", "--border", "10", "-b", "3", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Image saved to "+output)
	assert.Contains(t, out, "100.00% line 5")

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestRenderQuietSkipsProgress(t *testing.T) {
	dir := t.TempDir()
	input := writeTrack(t, dir, "square.thr", square)

	var out bytes.Buffer
	err := runRender(context.Background(), &out, smallConfig(), input, filepath.Join(dir, "q.bmp"), true)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "% line")
	assert.FileExists(t, filepath.Join(dir, "q.bmp"))
}

func TestRenderRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	input := writeTrack(t, dir, "square.thr", square)
	output := filepath.Join(dir, "square.webp")

	err := runRender(context.Background(), &bytes.Buffer{}, smallConfig(), input, output, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrUnsupportedFormat)
	assert.NoFileExists(t, output)
}

func TestRenderRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeTrack(t, dir, "square.thr", square)
	cfg := smallConfig()
	cfg.Ball.Radius = 0

	err := runRender(context.Background(), &bytes.Buffer{}, cfg, input, filepath.Join(dir, "out.png"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRenderMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := runRender(context.Background(), &bytes.Buffer{}, smallConfig(), filepath.Join(dir, "nope.thr"), filepath.Join(dir, "out.png"), true)
	require.Error(t, err)
}

func TestBatchRendersEveryTrack(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	inputs := []string{
		writeTrack(t, dir, "a.thr", square),
		writeTrack(t, dir, "b.thr", "0 0.5\n3 0.5\n"),
		writeTrack(t, dir, "c.thr", "1 1\n"),
	}
	cfg := smallConfig()
	cfg.Run.Jobs = 2

	results, err := runBatch(context.Background(), cfg, outDir, "tif", inputs)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, inputs[i], r.Input)
		assert.NoError(t, r.Err)
		assert.Positive(t, r.Result.Waypoints)
		assert.FileExists(t, r.Output)
		assert.Equal(t, ".tif", filepath.Ext(r.Output))
	}

	var out bytes.Buffer
	printBatchResults(&out, results)
	assert.Contains(t, out.String(), "a.tif")
}

func TestBatchKeepsGivenExtension(t *testing.T) {
	dir := t.TempDir()
	input := writeTrack(t, dir, "a.thr", square)

	results, err := runBatch(context.Background(), smallConfig(), filepath.Join(dir, "out"), ".JPG", []string{input})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(dir, "out", "a.jpg"), results[0].Output)
	assert.FileExists(t, results[0].Output)
}

func TestBatchRejectsCollidingOutputs(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	inputs := []string{
		writeTrack(t, dir, filepath.Join("a", "x.thr"), square),
		writeTrack(t, dir, filepath.Join("b", "x.thr"), "0 0.5\n"),
	}
	outDir := filepath.Join(dir, "out")

	results, err := runBatch(context.Background(), smallConfig(), outDir, "png", inputs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both write")
	assert.Nil(t, results)
	assert.NoDirExists(t, outDir)
}

func TestBatchReportsFailure(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		writeTrack(t, dir, "good.thr", square),
		writeTrack(t, dir, "bad.thr", "0 zero\n"),
	}
	cfg := smallConfig()
	cfg.Run.Jobs = 1

	results, err := runBatch(context.Background(), cfg, filepath.Join(dir, "out"), "png", inputs)
	require.Error(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[1].Err)

	var out bytes.Buffer
	printBatchResults(&out, results)
	assert.Contains(t, out.String(), "FAILED")
}

func TestBatchRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := runBatch(context.Background(), smallConfig(), dir, "webp", []string{"x.thr"})
	assert.ErrorIs(t, err, render.ErrUnsupportedFormat)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeTrack(t, dir, "good.thr", square)

	out, err := execute(t, "validate", good, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "good.thr: 4 waypoints")
	assert.Contains(t, out, "Result: VALID")
}

func TestValidateReportsBadTrack(t *testing.T) {
	dir := t.TempDir()
	bad := writeTrack(t, dir, "bad.thr", "0 1\nx y\n")

	report, summaries := runValidate(smallConfig(), []string{bad})
	assert.False(t, report.Valid)
	assert.Empty(t, summaries)

	var out bytes.Buffer
	printValidationReport(&out, report)
	assert.Contains(t, out.String(), "Result: INVALID")
	assert.Contains(t, out.String(), "[track]")
}

func TestValidateWarnsWhenTrackLeavesTable(t *testing.T) {
	dir := t.TempDir()
	wide := writeTrack(t, dir, "wide.thr", "0 0\n0 2\n")

	report, summaries := runValidate(smallConfig(), []string{wide})
	require.Len(t, summaries, 1)
	assert.True(t, report.Valid)
	assert.NotEmpty(t, report.Warnings)
	assert.Positive(t, summaries[0].EstSteps)
}

func TestConfigCommandPrintsOverrides(t *testing.T) {
	out, err := execute(t, "config", "-w", "120", "--log-level", "error")
	require.NoError(t, err)

	cfg, err := config.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Table.Width)
	assert.Equal(t, config.Default().Table.Height, cfg.Table.Height)
}

func TestConfigFileIsLoaded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "showthr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table:\n  width: 80\n  height: 90\n"), 0o644))

	out, err := execute(t, "config", "-c", path, "--log-level", "error")
	require.NoError(t, err)

	cfg, err := config.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Table.Width)
	assert.Equal(t, 90, cfg.Table.Height)
}
