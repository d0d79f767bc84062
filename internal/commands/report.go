// internal/commands/report.go
package aquabench

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mwiater/aquabench/internal/report"
	"github.com/spf13/cobra"
)

var reportOutDir string

var reportCmd = &cobra.Command{
	Use:   "report <suite-archive.json>",
	Short: "Regenerate CSV exports from a suite's JSON archive",
	Long: `Reads the JSON archive written alongside a completed suite and
rewrites the summary, chart and trade-off CSVs from it. Useful after editing
export code or when a CSV was deleted; the archive is the source of truth.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := report.LoadSuiteArchive(args[0])
		if err != nil {
			return err
		}

		outDir := reportOutDir
		if outDir == "" {
			outDir = GetConfig().OutputDirPath()
		}
		exporter, err := report.NewExporter(outDir, "", 0)
		if err != nil {
			return err
		}
		if err := exporter.SuiteCompleted(suite); err != nil {
			return err
		}

		color.Green("Regenerated exports for suite %q (%d runs) in %s",
			suite.SuiteName, len(suite.Runs), filepath.Clean(outDir))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOutDir, "out", "", "directory for regenerated exports (defaults to outputDir)")
	rootCmd.AddCommand(reportCmd)
}
