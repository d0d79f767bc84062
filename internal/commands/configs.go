// internal/commands/configs.go
package aquabench

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

var configsDebug bool

var configsCmd = &cobra.Command{
	Use:   "configs [perf|quality|sweep|all]",
	Short: "List the test configurations a suite would execute",
	Long: `Prints the generated test matrix without running anything, so the
effective frame counts and repeat counts for the current fastMode setting can
be inspected before committing to a long suite.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"perf", "quality", "sweep", "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		matrix := "all"
		if len(args) > 0 {
			matrix = args[0]
		}
		configs, err := suiteConfigs(matrix, cfg.FastMode)
		if err != nil {
			return err
		}

		if configsDebug {
			pp.Println(configs)
			return nil
		}

		color.Cyan("%d configuration(s) for %q (fastMode=%t):", len(configs), matrix, cfg.FastMode)
		totalFrames := 0
		for _, c := range configs {
			fmt.Println("  " + c.String())
			totalFrames += c.TotalFrames * c.RepeatCount
		}
		fmt.Printf("Total frames across all repeats: %d\n", totalFrames)
		return nil
	},
}

func init() {
	configsCmd.Flags().BoolVar(&configsDebug, "debug", false, "dump full config structs")
	rootCmd.AddCommand(configsCmd)
}
