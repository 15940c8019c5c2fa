package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/strata/internal/config"
	"github.com/zjrosen/strata/internal/presentation"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the strata tool configuration",
	Long: `Manage the configuration of the strata tool itself: logging, history,
tracing, watch and output settings. The layered application configuration
strata resolves is a separate concern.`,
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented starter config",
	Long: `Write the commented default configuration. The target is --config when
given, otherwise ` + localConfigPath + `.

Examples:
  strata config init
  strata config init --force
  strata config init -c ~/.config/strata/config.yaml`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved tool configuration",
	RunE:  runConfigShow,
}

var configSetFlagCmd = &cobra.Command{
	Use:   "set-flag <name> <true|false>",
	Short: "Persist a feature flag toggle",
	Long: `Persist a feature flag in the config file, preserving its comments and
layout.

Examples:
  strata config set-flag no-doc-cache true
  strata config set-flag trace-documents false`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSetFlag,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetFlagCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false,
		"overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = localConfigPath
	}
	if err := config.WriteTemplate(path, configInitForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintln(out, presentation.MutedStyle.Render("# "+used))
	} else {
		fmt.Fprintln(out, presentation.MutedStyle.Render("# built-in defaults, no config file"))
	}
	data, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, string(data))
	return err
}

func runConfigSetFlag(cmd *cobra.Command, args []string) error {
	enabled, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("value must be true or false, got %q", args[1])
	}

	path := cfgFile
	if path == "" {
		path = viper.ConfigFileUsed()
	}
	if path == "" {
		path = localConfigPath
	}
	if err := config.SaveFlag(path, args[0], enabled); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set flags.%s = %v in %s\n", args[0], enabled, path)
	return nil
}
