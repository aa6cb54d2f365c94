package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// shortestCommand creates the shortest command for single-path search.
func (c *CLI) shortestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortest [graph.json] [source] [target]",
		Short: "Find the single fewest-hop path between two nodes",
		Long: `Find the single fewest-hop path between two nodes.

This is the plain BFS primitive: one path, no alternates, no caching.
Paths longer than 10 hops are outside the search bound and reported as
not found.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShortest(cmd.Context(), args[0], args[1], args[2])
		},
	}
	return cmd
}

// runShortest loads the graph and prints the shortest path.
func (c *CLI) runShortest(ctx context.Context, path, source, target string) error {
	eng, err := c.newEngine(path, true)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", path, err)
	}
	defer eng.Close()

	p, err := eng.Shortest(ctx, source, target)
	if err != nil {
		return err
	}
	if p == nil {
		printInfo("No path between %s and %s within the search bound", source, target)
		return nil
	}

	printSuccess("%d %s", len(p)-1, plural(len(p)-1, "hop"))
	fmt.Println("  " + formatPath(p))
	return nil
}
