package cli

import (
	"fmt"
	"os"

	"github.com/raphaelgruber/retrace-go/internal/history"
	"github.com/raphaelgruber/retrace-go/internal/token"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	statsModel    string
	statsEstimate bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <runlog>",
	Short: "Show the shape and token cost of a recorded run",
	Long: `Show step counts and the token cost of the unbounded digest for a
recorded run, measured with the chosen tokenizer.

Examples:
  retrace stats run.jsonl
  retrace stats run.jsonl --model gpt-4o
  retrace stats run.yaml --estimate`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsModel, "model", "gpt-4o", "model whose tokenizer measures the digest")
	statsCmd.Flags().BoolVar(&statsEstimate, "estimate", false, "use the ~4 chars/token heuristic instead of a tokenizer")
}

func runStats(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries(args[0])
	if err != nil {
		return err
	}
	ledger, err := buildLedger(entries)
	if err != nil {
		return err
	}

	episodes := ledger.Episodes()
	summarized := 0
	for _, episode := range episodes {
		if episode.Summarized() {
			summarized++
		}
	}

	var countTokens history.TokenCountFunc
	if statsEstimate {
		countTokens = token.Estimate
	} else {
		counter, err := token.NewCounter(statsModel)
		if err != nil {
			return fmt.Errorf("create token counter: %w", err)
		}
		countTokens = counter.Count
	}

	digest, err := history.CompileDigest(episodes, 0, nil)
	if err != nil {
		return fmt.Errorf("compile digest: %w", err)
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	if styled {
		fmt.Println(headerStyle.Render("Run: " + args[0]))
	} else {
		fmt.Println("Run: " + args[0])
	}
	fmt.Printf("Steps:          %d\n", len(episodes))
	fmt.Printf("Pending:        %v\n", ledger.Pending() != nil)
	fmt.Printf("Summarized:     %d\n", summarized)
	fmt.Printf("Digest tokens:  %d (unbounded, %s)\n", countTokens(digest), tokenizerName())
	return nil
}

func tokenizerName() string {
	if statsEstimate {
		return "estimated"
	}
	return statsModel
}
