package list

import (
	"fmt"

	"dynapool/internal/config"

	"github.com/spf13/cobra"
)

// NewProfilesCmd creates and returns the profiles command
func NewProfilesCmd() *cobra.Command {
	var profilesPath string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List available pool-sizing profiles",
		Long: `List named pool-sizing profiles from the profiles file.
Each profile sets min_threads, max_threads, and cpu_check for a named pool.`,
		Example: `  # List all available pool profiles
  dynapool list profiles`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfiles(profilesPath)
		},
	}

	cmd.Flags().StringVar(&profilesPath, "profiles-file", "", "Path to the profiles ini file (default: ./profiles.ini)")

	return cmd
}

func runProfiles(path string) error {
	profiles, err := config.LoadPoolProfiles(path)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if len(profiles) == 0 {
		fmt.Println("no profiles found")
		return nil
	}

	for _, p := range profiles {
		fmt.Printf("%s: min=%d max=%d cpu_check=%t\n", p.Name, p.MinThreads, p.MaxThreads, p.CPUCheck)
	}

	return nil
}
