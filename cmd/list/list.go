package list

import (
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pools and configuration",
		Long: `List registered worker pools and configuration profiles.
Currently supports listing:
  - Worker pools registered with the process-wide factory
  - Named pool-sizing profiles available in the config file`,
	}

	cmd.AddCommand(NewPoolsCmd())
	cmd.AddCommand(NewProfilesCmd())

	return cmd
}
