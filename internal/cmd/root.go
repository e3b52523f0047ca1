// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/classidx/internal/config"
	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/metrics"
	"github.com/opmodel/classidx/internal/output"
)

// annotationSkipConfig marks commands that run without loading configuration.
const annotationSkipConfig = "classidx/skip-config"

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is created once by NewRootCmd and passed into every sub-command constructor.
type GlobalConfig struct {
	// Config is the loaded configuration file merged with environment.
	Config *config.Config

	// ConfigPath is the resolved --config path.
	ConfigPath string

	// Classpath is the resolved class loader path (flag > env > config).
	Classpath []string

	// Output is the resolved --output format.
	Output output.OutputFormat

	// MetricsFile receives prometheus metrics after the command, if set.
	MetricsFile string

	Verbose bool
}

// rootFlags are the raw persistent flag values.
type rootFlags struct {
	config      string
	classpath   []string
	output      string
	metricsFile string
	verbose     bool
	timestamps  bool
}

// NewRootCmd creates the root command for the classidx CLI.
func NewRootCmd() *cobra.Command {
	cfg := &GlobalConfig{}
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "classidx",
		Short: "Annotation and class hierarchy index for JVM classpaths",
		Long: `classidx builds a queryable index of compiled JVM classes: their supertypes
and annotations. It resolves Maven coordinates against a classpath, scans the
chosen archives and directories, and enriches the index on demand.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, flags, cfg)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return writeMetrics(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to config file (env: CLASSIDX_CONFIG)")
	rootCmd.PersistentFlags().StringArrayVar(&flags.classpath, "classpath", nil,
		"Classpath entries, repeated or joined by the path list separator (env: CLASSIDX_CLASSPATH)")
	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "table", "Output format: table, yaml, json")
	rootCmd.PersistentFlags().StringVar(&flags.metricsFile, "metrics-file", "",
		"Write prometheus metrics to this file after the command")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewIndexCmd(cfg))
	rootCmd.AddCommand(NewResolveCmd(cfg))
	rootCmd.AddCommand(NewClassCmd(cfg))
	rootCmd.AddCommand(NewQueryCmd(cfg))
	rootCmd.AddCommand(NewDiffCmd(cfg))
	rootCmd.AddCommand(NewConfigCmd(cfg))
	rootCmd.AddCommand(NewVersionCmd(cfg))

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals(c *cobra.Command, flags *rootFlags, cfg *GlobalConfig) error {
	cfg.Verbose = flags.verbose
	cfg.MetricsFile = flags.metricsFile

	format, ok := output.ParseOutputFormat(flags.output)
	if !ok {
		return oerrors.NewConfigurationError("unknown output format "+flags.output, "--output",
			"Use one of: "+strings.Join(output.ValidFormats(), ", "))
	}
	cfg.Output = format

	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: flags.config})
	if err != nil {
		return oerrors.Wrap(oerrors.ErrConfiguration, "could not resolve config path")
	}
	cfg.ConfigPath = pathResult.ConfigPath

	logCfg := output.LogConfig{Verbose: flags.verbose}
	if c.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	}

	if skipConfig(c) {
		cfg.Config = config.DefaultConfig()
		output.SetupLogging(logCfg)
		return nil
	}

	loaded, err := config.NewLoader().Load(cfg.ConfigPath)
	if err != nil {
		output.SetupLogging(logCfg)
		return err
	}
	cfg.Config = loaded

	// flag (if explicitly set) > config > default (nil = true)
	if logCfg.Timestamps == nil && loaded.Log.Timestamps != nil {
		logCfg.Timestamps = loaded.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	classpathValue := config.ResolveClasspath(config.ResolveClasspathOptions{
		FlagValue:   flags.classpath,
		ConfigValue: loaded.Classpath,
	})
	cfg.Classpath, err = config.ExpandPaths(classpathValue.Entries())
	if err != nil {
		return oerrors.Wrap(oerrors.ErrConfiguration, "could not expand classpath")
	}

	if flags.verbose {
		config.LogResolvedValues([]config.ResolvedValue{
			{Key: "config", Value: pathResult.ConfigPath, Source: pathResult.Source, Shadowed: shadowedAny(pathResult.Shadowed)},
			classpathValue,
		})
	}

	return nil
}

func skipConfig(c *cobra.Command) bool {
	for cur := c; cur != nil; cur = cur.Parent() {
		if cur.Annotations[annotationSkipConfig] == "true" {
			return true
		}
	}
	return false
}

func shadowedAny(in map[config.ConfigSource]string) map[config.ConfigSource]any {
	out := make(map[config.ConfigSource]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func writeMetrics(cfg *GlobalConfig) error {
	if cfg.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", cfg.MetricsFile, err)
	}
	output.Debug("wrote metrics", "file", cfg.MetricsFile)
	return nil
}
