// internal/report/csv.go
// Package report persists benchmark results: per-run raw frame dumps, an
// append-only cross-run accumulation file, suite summaries and chart data.
// Export failures are surfaced as errors and treated as no-ops by the
// caller; in-memory results stay available for a retry.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/mwiater/aquabench/internal/harness"
	"github.com/mwiater/aquabench/internal/logging"
)

// DefaultAccumulationFile is the cross-run accumulation file name inside the
// output directory.
const DefaultAccumulationFile = "water_test_results.csv"

// timestampLayout matches the Excel-friendly format used in exports.
const timestampLayout = "2006-01-02 15:04:05"

// Exporter writes results beneath a single output directory. It implements
// harness.RunSink. The frame capture counter is an explicit field so nothing
// in the export path depends on process-wide state.
type Exporter struct {
	outputDir        string
	accumulationPath string
	captureEveryN    int
	captureCount     int
}

// NewExporter creates the output directory and returns an exporter rooted
// there. accumulationPath may be empty to use the default location;
// captureEveryN bounds how often captured frames are dumped to disk (every
// Nth frame plus the run's last frame).
func NewExporter(outputDir, accumulationPath string, captureEveryN int) (*Exporter, error) {
	if outputDir == "" {
		outputDir = "test_results"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if accumulationPath == "" {
		accumulationPath = filepath.Join(outputDir, DefaultAccumulationFile)
	}
	if captureEveryN <= 0 {
		captureEveryN = 30
	}
	return &Exporter{
		outputDir:        outputDir,
		accumulationPath: filepath.Clean(accumulationPath),
		captureEveryN:    captureEveryN,
	}, nil
}

// OutputDir returns the exporter's root directory.
func (e *Exporter) OutputDir() string { return e.outputDir }

// AccumulationPath returns the cross-run accumulation file path.
func (e *Exporter) AccumulationPath() string { return e.accumulationPath }

// RunCompleted writes the run's raw per-frame CSV and appends its aggregate
// row to the accumulation file.
func (e *Exporter) RunCompleted(run harness.TestRunResult) error {
	rawPath := filepath.Join(e.outputDir, fmt.Sprintf("%s_run%d_frames.csv", run.Config.Name, run.RunIndex))
	if err := WriteRunCSV(run, rawPath); err != nil {
		return err
	}
	if err := AppendRunCSV(run, e.accumulationPath); err != nil {
		return err
	}
	logging.LogEvent("[Report] Exported run %d of %s to %s", run.RunIndex, run.Config.Name, rawPath)
	return nil
}

// SuiteCompleted writes the suite summary, chart data, trade-off curve data
// and the JSON archive.
func (e *Exporter) SuiteCompleted(suite harness.TestSuiteResult) error {
	if err := WriteSummaryCSV(suite, filepath.Join(e.outputDir, "test_summary.csv")); err != nil {
		return err
	}
	if err := WriteChartCSV(suite, filepath.Join(e.outputDir, "performance_chart.csv")); err != nil {
		return err
	}
	if err := WriteTradeOffCSV(suite, filepath.Join(e.outputDir, "tradeoff_curve.csv")); err != nil {
		return err
	}
	archivePath := filepath.Join(e.outputDir, Slugify(suite.SuiteName)+".json")
	if err := WriteSuiteArchive(suite, archivePath); err != nil {
		return err
	}
	logging.LogEvent("[Report] Exported suite %q (%d runs) to %s", suite.SuiteName, len(suite.Runs), e.outputDir)
	return nil
}

// WriteRunCSV writes one row per recorded frame, including warm-up and
// outlier frames (flagged, not dropped).
func WriteRunCSV(run harness.TestRunResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open run export %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{
		"FrameIndex", "FrameTime_ms", "GpuTime_ms", "CpuTime_ms", "Timestamp_ns",
		"CameraX", "CameraY", "CameraZ", "CameraYaw", "CameraPitch",
		"IsWarmup", "IsOutlier",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, m := range run.Frames {
		record := []string{
			strconv.FormatUint(uint64(m.FrameIndex), 10),
			formatMs(m.FrameTimeMs),
			formatMs(m.GPUTimeMs),
			formatMs(m.CPUTimeMs),
			strconv.FormatInt(m.TimestampNs, 10),
			formatF32(m.CameraPosition.X()),
			formatF32(m.CameraPosition.Y()),
			formatF32(m.CameraPosition.Z()),
			formatF32(m.CameraYaw),
			formatF32(m.CameraPitch),
			boolFlag(m.IsWarmupFrame),
			boolFlag(m.IsOutlier),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// accumulationHeader is written once when the accumulation file is created;
// every completed run appends exactly one row, across process restarts.
var accumulationHeader = []string{
	"Timestamp", "Config", "Run", "ValidFrames", "Outliers",
	"MeanFPS", "MedianFPS", "1%LowFPS",
	"MeanFrameTime_ms", "MedianFrameTime_ms", "StdDevFrameTime_ms",
	"MinFrameTime_ms", "MaxFrameTime_ms", "99thPercentile_ms",
	"MeanGpuTime_ms", "MedianGpuTime_ms", "StdDevGpuTime_ms",
	"Turbidity", "Depth", "LightMotion", "RenderMode", "SampleCount", "CausticRays",
}

// AppendRunCSV appends one aggregate row to the accumulation file at path,
// writing the header first if the file does not exist yet. Prior rows are
// never rewritten.
func AppendRunCSV(run harness.TestRunResult, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create accumulation directory: %w", err)
		}
	}

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open accumulation file %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if isNew {
		if err := w.Write(accumulationHeader); err != nil {
			return err
		}
	}

	a := run.Aggregated
	c := run.Config
	record := []string{
		run.EndTime.Format(timestampLayout),
		c.Name,
		strconv.Itoa(run.RunIndex),
		strconv.Itoa(a.ValidFrameCount),
		strconv.Itoa(a.OutlierCount),
		formatStat(a.MeanFPS),
		formatStat(a.MedianFPS),
		formatStat(a.FPS1PercentLow),
		formatStat(a.MeanFrameTime),
		formatStat(a.MedianFrameTime),
		formatStat(a.StddevFrameTime),
		formatStat(a.MinFrameTime),
		formatStat(a.MaxFrameTime),
		formatStat(a.Percentile99),
		formatStat(a.MeanGPUTime),
		formatStat(a.MedianGPUTime),
		formatStat(a.StddevGPUTime),
		strconv.Itoa(int(c.Turbidity)),
		strconv.Itoa(int(c.Depth)),
		strconv.Itoa(int(c.LightMotion)),
		strconv.Itoa(int(c.RenderingMode)),
		strconv.Itoa(c.SampleCount),
		strconv.Itoa(c.CausticRayCount),
	}
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteSummaryCSV writes one aggregate row per run in suite order.
func WriteSummaryCSV(suite harness.TestSuiteResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open summary export %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{
		"Config", "Run", "ValidFrames", "Outliers",
		"MeanFPS", "MedianFPS", "1%LowFPS",
		"MeanFrameTime_ms", "MedianFrameTime_ms", "StdDevFrameTime_ms",
		"MinFrameTime_ms", "MaxFrameTime_ms", "99thPercentile_ms",
		"MeanGpuTime_ms", "MedianGpuTime_ms", "StdDevGpuTime_ms",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, run := range suite.Runs {
		a := run.Aggregated
		record := []string{
			a.ConfigName,
			strconv.Itoa(run.RunIndex),
			strconv.Itoa(a.ValidFrameCount),
			strconv.Itoa(a.OutlierCount),
			formatStat(a.MeanFPS),
			formatStat(a.MedianFPS),
			formatStat(a.FPS1PercentLow),
			formatStat(a.MeanFrameTime),
			formatStat(a.MedianFrameTime),
			formatStat(a.StddevFrameTime),
			formatStat(a.MinFrameTime),
			formatStat(a.MaxFrameTime),
			formatStat(a.Percentile99),
			formatStat(a.MeanGPUTime),
			formatStat(a.MedianGPUTime),
			formatStat(a.StddevGPUTime),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteChartCSV writes the per-config performance comparison data used for
// chart generation.
func WriteChartCSV(suite harness.TestSuiteResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open chart export %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"Config", "MeanFPS", "MedianFPS", "1%LowFPS", "MeanFrameTime_ms"}); err != nil {
		return err
	}
	for _, run := range suite.Runs {
		a := run.Aggregated
		record := []string{
			a.ConfigName,
			formatStat(a.MeanFPS),
			formatStat(a.MedianFPS),
			formatStat(a.FPS1PercentLow),
			formatStat(a.MeanFrameTime),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteTradeOffCSV writes quality-versus-performance curve data: one row per
// run pairing its sweep knobs with its FPS and image-quality scores.
func WriteTradeOffCSV(suite harness.TestSuiteResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open trade-off export %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"Config", "SampleCount", "CausticRays", "MeanFPS", "FrameTime_ms", "SSIM", "PSNR"}); err != nil {
		return err
	}
	for _, run := range suite.Runs {
		record := []string{
			run.Config.Name,
			strconv.Itoa(run.Config.SampleCount),
			strconv.Itoa(run.Config.CausticRayCount),
			formatStat(run.Aggregated.MeanFPS),
			formatStat(run.Aggregated.MeanFrameTime),
			formatStat(run.Aggregated.AvgSSIM),
			formatStat(run.Aggregated.AvgPSNR),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Slugify converts a name to a safe lowercase file stem.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ":", "_")
	s = regexp.MustCompile(`[^a-z0-9_]+`).ReplaceAllString(s, "-")
	s = regexp.MustCompile(`-+`).ReplaceAllString(s, "-")
	return strings.Trim(s, "-_")
}

func formatMs(v float64) string   { return strconv.FormatFloat(v, 'f', 4, 64) }
func formatStat(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func formatF32(v float32) string  { return strconv.FormatFloat(float64(v), 'f', 4, 32) }

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
