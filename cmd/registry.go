package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/strata/internal/presentation"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Print the capability registration table",
	Long: `Print every registration the pipeline would consider, grouped by
capability, without running the pipeline. Condition metadata shows why an
entry might be filtered at selection time.

Examples:
  strata registry
  strata registry --registry ./custom-registry.yml
  strata registry --format json`,
	RunE: runRegistry,
}

func init() {
	rootCmd.AddCommand(registryCmd)

	registryCmd.Flags().String("format", "", "output format: text or json (overrides config)")
}

func runRegistry(cmd *cobra.Command, _ []string) error {
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	var dtos []presentation.RegistrationDTO
	for _, capability := range reg.Capabilities() {
		dtos = append(dtos, presentation.FromRegistrations(reg.Lookup(capability))...)
	}

	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	if format == "json" {
		return formatter.JSON(dtos)
	}
	return formatter.Registrations(dtos)
}
