// internal/commands/root.go
package aquabench

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/aquabench/internal/appconfig"
	"github.com/mwiater/aquabench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aquabench",
	Short: "aquabench — deterministic performance/quality benchmark harness for the water renderer",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		if !cmd.Flags().Changed("fastMode") {
			_ = cmd.Flags().Set("fastMode", strconv.FormatBool(viper.GetBool("fastMode")))
		}
		for _, name := range []string{"outputDir", "suiteName", "logFile"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}

		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("outputDir"); v != "" {
			cfg.OutputDir = v
		}
		if v, _ := cmd.Flags().GetString("suiteName"); v != "" {
			cfg.SuiteName = v
		}
		if v, _ := cmd.Flags().GetString("logFile"); v != "" {
			cfg.LogFile = v
		}
		if cmd.Flags().Changed("fastMode") {
			cfg.FastMode, _ = cmd.Flags().GetBool("fastMode")
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("fastMode", true, "run the reduced representative test matrix")
	rootCmd.PersistentFlags().String("outputDir", "", "directory for CSV exports and frame dumps")
	rootCmd.PersistentFlags().String("suiteName", "", "suite name used in exports")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("fastMode", rootCmd.PersistentFlags().Lookup("fastMode"))
	_ = viper.BindPFlag("outputDir", rootCmd.PersistentFlags().Lookup("outputDir"))
	_ = viper.BindPFlag("suiteName", rootCmd.PersistentFlags().Lookup("suiteName"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and tolerates a missing file.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded harness configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
