package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conradkoh/raggrep/internal/logging"
	"github.com/conradkoh/raggrep/internal/search"
)

var (
	queryTop      int
	queryMinScore float64
	queryType     string
	queryFilters  []string
	queryTiming   bool
	queryHybrid   bool
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Search the index for text",
	Long: `query runs ensureFresh (an incremental reconciliation against the
filesystem) and then ranks the current index's chunks against the given
free-text or backtick/quoted-literal query.

Examples:
  raggrep query "where is the user session validated"
  raggrep query "hashPassword" --type .go --top 5
  raggrep query "AUTH_SERVICE_GRPC_URL" --hybrid
`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryTop, "top", 0, "maximum number of results (default 10)")
	queryCmd.Flags().Float64Var(&queryMinScore, "min-score", 0, "drop results scoring below this threshold")
	queryCmd.Flags().StringVar(&queryType, "type", "", "restrict results to files with this extension, e.g. .go")
	queryCmd.Flags().StringArrayVar(&queryFilters, "filter", nil, "restrict results to a path prefix or glob (repeatable, OR semantics)")
	queryCmd.Flags().BoolVar(&queryTiming, "timing", false, "print query latency")
	queryCmd.Flags().BoolVar(&queryHybrid, "hybrid", false, "also run the exact-match pass over every file (hybridSearch)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	opts := search.Options{
		TopK:        queryTop,
		MinScore:    queryMinScore,
		TypeFilter:  queryType,
		PathFilters: queryFilters,
		Logger:      logging.NewConsole(verbose),
	}

	start := time.Now()
	if queryHybrid {
		result, err := eng.HybridSearch(cmd.Context(), root, args[0], opts)
		if err != nil {
			return fmt.Errorf("hybridSearch: %w", err)
		}
		printHybridResults(result)
	} else {
		results, err := eng.Search(cmd.Context(), root, args[0], opts)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		printResults(results)
	}
	if queryTiming {
		fmt.Printf("(%s)\n", time.Since(start))
	}
	return nil
}

func printResults(results []search.Result) {
	if len(results) == 0 {
		fmt.Println("no results")
		return
	}
	for i, r := range results {
		marker := ""
		if r.ExactMatchFusion {
			marker = " [exact]"
		}
		if r.LiteralMultiplier > 1 {
			marker += fmt.Sprintf(" [literalx%.2f]", r.LiteralMultiplier)
		}
		fmt.Printf("%2d. %.4f  %s:%d-%d%s\n", i+1, r.Score, r.FilePath, r.StartLine, r.EndLine, marker)
		if r.Name != "" {
			fmt.Printf("      %s %s\n", r.Kind, r.Name)
		}
	}
}

func printHybridResults(result *search.HybridResult) {
	printResults(result.Semantic)
	if len(result.ExactMatches) == 0 {
		return
	}
	fmt.Println("\nexact matches:")
	for _, m := range result.ExactMatches {
		fmt.Printf("  %s:%d: %s\n", m.FilePath, m.Line, m.Text)
	}
}
