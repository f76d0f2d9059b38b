package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/retrace-go/internal/history"
	"github.com/raphaelgruber/retrace-go/internal/token"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	digestMaxTokens int
	digestModel     string
	digestEstimate  bool
	digestPlain     bool
)

// Styles for TTY output.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFD7"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Italic(true)
)

var digestCmd = &cobra.Command{
	Use:   "digest <runlog>",
	Short: "Compile the progress digest of a recorded run",
	Long: `Compile the bounded progress digest of a recorded run.

The most recent steps render in full; older summarized steps render as
their summary. With --max-tokens, steps are dropped oldest-first once the
budget is exhausted.

Examples:
  retrace digest run.jsonl
  retrace digest run.jsonl --max-tokens 1024
  retrace digest run.yaml --max-tokens 500 --estimate`,
	Args: cobra.ExactArgs(1),
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().IntVar(&digestMaxTokens, "max-tokens", 0, "token budget for the digest (0 = unbounded)")
	digestCmd.Flags().StringVar(&digestModel, "model", "gpt-4o", "model whose tokenizer measures the digest")
	digestCmd.Flags().BoolVar(&digestEstimate, "estimate", false, "use the ~4 chars/token heuristic instead of a tokenizer")
	digestCmd.Flags().BoolVar(&digestPlain, "plain", false, "disable styled output")
}

func runDigest(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries(args[0])
	if err != nil {
		return err
	}
	ledger, err := buildLedger(entries)
	if err != nil {
		return err
	}

	countTokens, err := counterFor(digestMaxTokens, digestModel, digestEstimate)
	if err != nil {
		return err
	}

	digest, err := history.CompileDigest(ledger.Episodes(), digestMaxTokens, countTokens)
	if err != nil {
		return fmt.Errorf("compile digest: %w", err)
	}

	styled := !digestPlain && term.IsTerminal(int(os.Stdout.Fd()))
	if digest == "" {
		if styled {
			fmt.Println(hintStyle.Render("(no step fits the budget)"))
		}
		return nil
	}

	if styled {
		header := fmt.Sprintf("Progress: %d of %d steps", keptSteps(digest), ledger.Len())
		fmt.Println(headerStyle.Render(header))
		fmt.Println()
	}
	fmt.Println(digest)
	return nil
}

// counterFor picks the counting function for a budget: none when
// unbounded, the heuristic with --estimate, a tiktoken counter otherwise.
func counterFor(maxTokens int, model string, estimate bool) (history.TokenCountFunc, error) {
	if maxTokens <= 0 {
		return nil, nil
	}
	if estimate {
		return token.Estimate, nil
	}
	counter, err := token.NewCounter(model)
	if err != nil {
		return nil, fmt.Errorf("create token counter: %w", err)
	}
	return counter.Count, nil
}

// keptSteps counts the steps present in a compiled digest.
func keptSteps(digest string) int {
	if digest == "" {
		return 0
	}
	count := 0
	for _, line := range strings.Split(digest, "\n") {
		if strings.HasPrefix(line, "* Step ") {
			count++
		}
	}
	return count
}
