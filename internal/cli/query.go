package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pathscout/pathscout/pkg/engine"
	"github.com/pathscout/pathscout/pkg/route"
)

// queryCommand creates the query command for multi-path discovery.
func (c *CLI) queryCommand() *cobra.Command {
	var (
		maxPerGroup int
		budget      time.Duration
		refresh     bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "query [graph.json] [source] [target]",
		Short: "Find the shortest route plus alternates between two nodes",
		Long: `Find the shortest route between two nodes plus a bounded set of
qualitatively distinct alternatives.

Routes are grouped by hop count: group 1 holds the shortest routes, groups 2
and 3 the next-shortest distances. Each group keeps a main route plus up to
--max-alternates alternates. Exploration is bounded by a wall-clock budget;
a truncated result is reported, not failed.

Results are cached locally, keyed by graph content and query, so repeating
a query is instant. Use --refresh to bypass the cache.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.QueryOptions{
				Options: route.Options{MaxPerGroup: maxPerGroup, Budget: budget},
				Refresh: refresh,
			}
			return c.runQuery(cmd.Context(), args[0], args[1], args[2], opts, noCache)
		},
	}

	cmd.Flags().IntVarP(&maxPerGroup, "max-alternates", "m", route.DefaultMaxPerGroup, "max routes kept per distance group")
	cmd.Flags().DurationVar(&budget, "budget", route.DefaultBudget, "wall-clock search budget")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the route cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")

	return cmd
}

// runQuery loads the graph, runs the exploration, and prints the result.
func (c *CLI) runQuery(ctx context.Context, path, source, target string, opts engine.QueryOptions, noCache bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	eng, err := c.newEngine(path, noCache)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", path, err)
	}
	defer eng.Close()

	logger.Debug("graph loaded",
		"nodes", eng.Index.NodeCount(),
		"edges", eng.Index.EdgeCount())

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("searching %s %s %s", source, iconArrow, target))
	spin.Start()
	res, cached, err := eng.QueryWithCacheInfo(ctx, source, target, opts)
	spin.Stop()
	if err != nil {
		return err
	}

	if len(res.Routes) == 0 {
		// An empty result is a displayable outcome, not a failure.
		printInfo("No route between %s and %s under current bounds", source, target)
		if res.TimedOut {
			printWarning("Search budget elapsed before completion; a larger --budget may find routes")
		}
		return nil
	}

	prog.done(fmt.Sprintf("Found %d %s", len(res.Routes), plural(len(res.Routes), "route")))
	printRoutes(res.Routes)
	printStats(len(res.Routes), groupCount(res.Routes), cached)
	if res.TimedOut {
		printWarning("Search budget elapsed; the alternates shown may be incomplete")
	}
	return nil
}

// groupCount returns the number of distinct groups in a ranked route list.
func groupCount(routes []route.Route) int {
	max := 0
	for _, r := range routes {
		if r.Group > max {
			max = r.Group
		}
	}
	return max
}
