// internal/commands/suite.go
package aquabench

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mwiater/aquabench/internal/gputimer"
	"github.com/mwiater/aquabench/internal/harness"
	"github.com/mwiater/aquabench/internal/logging"
	"github.com/mwiater/aquabench/internal/render"
	"github.com/mwiater/aquabench/internal/report"
	"github.com/mwiater/aquabench/internal/tui"
	"github.com/spf13/cobra"
)

var useTUI bool

var suiteCmd = &cobra.Command{
	Use:   "suite [perf|quality|sweep|all]",
	Short: "Execute a benchmark suite against the simulated renderer",
	Long: `Executes the selected test matrix end to end: camera path playback,
GPU frame timing, outlier-robust aggregation and CSV export. Defaults to the
performance matrix; "all" chains performance, image quality and the trade-off
sweep. Ctrl-C aborts cooperatively and still finalizes the partial run.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"perf", "quality", "sweep", "all"},
	RunE:      runSuite,
}

func init() {
	suiteCmd.Flags().BoolVar(&useTUI, "tui", false, "show live progress in a terminal UI")
	rootCmd.AddCommand(suiteCmd)
}

func runSuite(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	matrix := "perf"
	if len(args) > 0 {
		matrix = args[0]
	}
	configs, err := suiteConfigs(matrix, cfg.FastMode)
	if err != nil {
		return err
	}
	totalFrames, warmupFrames := cfg.FrameOverrides()
	configs = harness.ApplyFrameOverrides(configs, totalFrames, warmupFrames)

	width, height := cfg.CaptureSize()
	sim := render.NewSimRenderer(width, height)
	timer := gputimer.New(sim.Device())
	exporter, err := report.NewExporter(cfg.OutputDirPath(), cfg.AccumulationPath(), cfg.CaptureCadence())
	if err != nil {
		return err
	}

	orch := harness.NewOrchestrator(sim, timer, exporter)
	orch.SetFrameRingCapacity(cfg.RingSize())
	if err := orch.Enqueue(configs...); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.LogEvent("[CLI] Starting %s suite: %d configs (fastMode=%t)", matrix, len(configs), cfg.FastMode)

	var suite harness.TestSuiteResult
	var runErr error
	if useTUI {
		suite, runErr = tui.RunSuite(ctx, orch, cfg.SuiteLabel())
	} else {
		orch.OnProgress = printPlainProgress
		suite, runErr = orch.RunSuite(ctx, cfg.SuiteLabel())
	}

	printSuiteSummary(suite)

	if runErr != nil {
		if isCanceled(runErr) {
			color.Yellow("Suite aborted; %d run(s) finalized.", len(suite.Runs))
			return nil
		}
		return runErr
	}
	color.Green("Suite complete: %d run(s). Results in %s", len(suite.Runs), cfg.OutputDirPath())
	return nil
}

// isCanceled matches a cooperative abort even when the cancellation has been
// wrapped along the way.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// suiteConfigs maps the matrix argument to its preset generators.
func suiteConfigs(matrix string, fast bool) ([]harness.TestConfig, error) {
	switch matrix {
	case "perf":
		return harness.PerformanceConfigs(fast), nil
	case "quality":
		return harness.ImageQualityConfigs(fast), nil
	case "sweep":
		return harness.TradeOffSweepConfigs(fast), nil
	case "all":
		var configs []harness.TestConfig
		configs = append(configs, harness.PerformanceConfigs(fast)...)
		configs = append(configs, harness.ImageQualityConfigs(fast)...)
		configs = append(configs, harness.TradeOffSweepConfigs(fast)...)
		return configs, nil
	}
	return nil, fmt.Errorf("unknown suite %q (expected perf, quality, sweep or all)", matrix)
}

// printPlainProgress writes a one-line status at each run boundary when the
// TUI is disabled. Per-frame cadence would flood the terminal.
func printPlainProgress(p harness.ProgressUpdate) {
	if p.FrameIndex != p.TotalFrames {
		return
	}
	color.Cyan("[%d/%d] %s run %d/%d: %d frames, %.1f FPS, GPU %.2fms",
		p.ConfigIndex+1, p.ConfigCount, p.ConfigName, p.RunIndex+1, p.RepeatCount,
		p.TotalFrames, p.FPS, p.GPUTimeMs)
}

var (
	summaryHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	summaryCellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

// printSuiteSummary renders the per-run rollup table to stdout.
func printSuiteSummary(suite harness.TestSuiteResult) {
	if len(suite.Runs) == 0 {
		return
	}

	var b strings.Builder
	b.WriteString(summaryHeaderStyle.Render(fmt.Sprintf("%-36s %4s %10s %10s %10s %9s", "Config", "Run", "Mean ms", "P99 ms", "Mean FPS", "Outliers")))
	b.WriteString("\n")
	for _, run := range suite.Runs {
		agg := run.Aggregated
		row := fmt.Sprintf("%-36s %4d %10.2f %10.2f %10.1f %9d",
			agg.ConfigName, agg.RunIndex, agg.MeanFrameTime, agg.Percentile99, agg.MeanFPS, agg.OutlierCount)
		b.WriteString(summaryCellStyle.Render(row))
		b.WriteString("\n")
	}
	fmt.Println(b.String())
}
