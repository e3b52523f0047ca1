package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/opmodel/classidx/internal/artifact"
	"github.com/opmodel/classidx/internal/classpath"
	"github.com/opmodel/classidx/internal/config"
	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the classidx configuration file.

Checks performed:
  1. Config file exists at the resolved path
  2. Config file parses and its values are valid
  3. Every classpath entry and marked dependency exists
  4. Every indexDependencies coordinate resolves on the classpath

The config path is resolved using precedence:
  --config flag > CLASSIDX_CONFIG env > ~/.classidx/config.yaml

Examples:
  # Validate default configuration
  classidx config vet

  # Validate custom config path against another classpath
  classidx config vet --config ./classidx.yaml --classpath build/libs/app.jar`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigVet(c, cfg)
		},
	}
}

func runConfigVet(c *cobra.Command, cfg *GlobalConfig) error {
	w := c.OutOrStdout()
	path, err := config.ExpandPath(cfg.ConfigPath)
	if err != nil {
		return oerrors.Wrap(oerrors.ErrConfiguration, "could not expand config path")
	}
	output.Debug("validating config", "path", path)

	// Check 1: config file exists
	exists, err := config.ConfigFileExists(path)
	if err != nil || !exists {
		fmt.Fprintln(w, output.FormatVetFailure("Config file found", path))
		return &oerrors.ExitError{
			Code: oerrors.ExitNotFound,
			Err: oerrors.NewNotFoundError("configuration file not found", path,
				"Run 'classidx config init' to create default configuration"),
		}
	}
	fmt.Fprintln(w, output.FormatVetCheck("Config file found", path))

	// Check 2: parse and validate
	loaded, err := config.NewLoader().Load(path)
	if err != nil {
		fmt.Fprintln(w, output.FormatVetFailure("Config is valid", ""))
		return err
	}
	fmt.Fprintln(w, output.FormatVetCheck("Config is valid", ""))

	flagValue, _ := c.Flags().GetStringArray("classpath")
	resolved := config.ResolveClasspath(config.ResolveClasspathOptions{
		FlagValue:   flagValue,
		ConfigValue: loaded.Classpath,
	})
	entries, err := config.ExpandPaths(resolved.Entries())
	if err != nil {
		return oerrors.Wrap(oerrors.ErrConfiguration, "could not expand classpath")
	}

	// Check 3: classpath entries and marked dependencies exist
	failures := vetClasspath(w, entries)
	failures += vetMarked(w, loaded.IndexedMarkedDependencies())

	// Check 4: coordinates resolve
	if len(loaded.IndexDependencies) > 0 {
		local := *cfg
		local.Config = loaded
		local.Classpath = entries
		n, err := vetCoordinates(w, &local)
		if err != nil {
			return err
		}
		failures += n
	}

	if failures > 0 {
		fmt.Fprintln(w, output.FormatVetFailure(fmt.Sprintf("%d problems found", failures), ""))
		return &oerrors.ExitError{
			Code:    oerrors.ExitNotFound,
			Err:     fmt.Errorf("config vet found %d problems: %w", failures, oerrors.ErrNotFound),
			Printed: true,
		}
	}

	fmt.Fprintln(w, output.FormatCheckmark("Configuration is valid: "+path))
	return nil
}

func vetClasspath(w io.Writer, entries []string) int {
	if len(entries) == 0 {
		fmt.Fprintln(w, output.FormatVetCheck("Classpath", "empty"))
		return 0
	}
	failures := 0
	for _, e := range entries {
		if _, err := os.Stat(e); err != nil {
			fmt.Fprintln(w, output.FormatVetFailure("Classpath entry exists", e))
			failures++
			continue
		}
		fmt.Fprintln(w, output.FormatVetCheck("Classpath entry exists", e))
	}
	return failures
}

func vetMarked(w io.Writer, locations []string) int {
	failures := 0
	for _, raw := range locations {
		loc, err := classpath.ParseLocator(raw)
		if err != nil {
			fmt.Fprintln(w, output.FormatVetFailure("Marked dependency exists", err.Error()))
			failures++
			continue
		}
		if _, err := os.Stat(loc.Path); err != nil {
			fmt.Fprintln(w, output.FormatVetFailure("Marked dependency exists", loc.Path))
			failures++
			continue
		}
		fmt.Fprintln(w, output.FormatVetCheck("Marked dependency exists", loc.Path))
	}
	return failures
}

func vetCoordinates(w io.Writer, cfg *GlobalConfig) (int, error) {
	sess, err := openSession(cfg, cfg.Config.StrictResolution)
	if err != nil {
		return 0, err
	}
	defer sess.Close()

	failures := 0
	for _, raw := range cfg.Config.IndexDependencies {
		coord, err := artifact.ParseCoordinate(raw)
		if err != nil {
			return failures, err
		}
		a, err := sess.resolver.Resolve(coord)
		if err != nil {
			var detail *oerrors.DetailError
			msg := err.Error()
			if errors.As(err, &detail) {
				msg = detail.Message
			}
			fmt.Fprintln(w, output.FormatVetFailure("Resolved "+raw, msg))
			failures++
			continue
		}
		fmt.Fprintln(w, output.FormatVetCheck("Resolved "+raw, a.Path))
	}
	return failures, nil
}
