package list

import (
	"fmt"
	"sort"

	"dynapool/internal/threadpool"

	"github.com/spf13/cobra"
)

// NewPoolsCmd creates and returns the pools command
func NewPoolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List worker pools registered with the process-wide factory",
		Long: `List every worker pool currently registered, with its live worker
count, busy workers, and pending queue depth.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPools()
		},
	}

	return cmd
}

func runPools() error {
	names := threadpool.Names()
	sort.Strings(names)

	if len(names) == 0 {
		fmt.Println("no pools registered")
		return nil
	}

	for _, name := range names {
		pool, ok := threadpool.Lookup(name)
		if !ok {
			continue
		}
		fmt.Printf("%s: workers=%d busy=%d pending=%d cpu=%.1f%%\n",
			name, pool.Len(), pool.BusyThreads(), pool.PendingTasks(), pool.CPUUsage())
	}

	return nil
}
