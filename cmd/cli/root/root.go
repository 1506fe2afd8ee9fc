package root

import (
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:          "catalog",
	Short:        "Catalog CLI",
	Long:         "Command line interface for the catalog API: products, books, employees and questions.",
	SilenceUsage: true,
}

// GetRoot returns the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}

// New returns a fresh root command, used by tests that need isolated flag state.
func New() *cobra.Command {
	return &cobra.Command{
		Use:          RootCmd.Use,
		Short:        RootCmd.Short,
		Long:         RootCmd.Long,
		SilenceUsage: true,
	}
}
