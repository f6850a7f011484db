package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/phrazzld/studygraph/internal/compiler"
	"github.com/phrazzld/studygraph/internal/config"
	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/examples"
	"github.com/phrazzld/studygraph/internal/layout"
	"github.com/phrazzld/studygraph/internal/platform/ledgerstore"
	"github.com/phrazzld/studygraph/internal/platform/logger"
)

// compileOutput is the JSON document printed by the compile command.
type compileOutput struct {
	Layout     *layout.Graph      `json:"layout"`
	Flashcards []domain.Flashcard `json:"flashcards"`
}

// ledgerRow is one line of `ledger show`.
type ledgerRow struct {
	CardID string             `json:"card_id"`
	Entry  domain.LedgerEntry `json:"entry"`
	Status domain.CardStatus  `json:"status"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studygraph",
		Short:         "Compile study notes into concept graphs and flashcards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newCompileCmd(), newExamplesCmd(), newLedgerCmd())
	return rootCmd
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <file|->",
		Short: "Compile a notes file (or stdin) and print the laid out deck as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}
	cmd.Flags().StringP("direction", "d", string(layout.TopToBottom), "Layout direction: TB|BT|LR|RL")
	cmd.Flags().Bool("sequential-ids", false, "Use counter ids instead of UUIDs for reproducible output")
	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	dirFlag, _ := cmd.Flags().GetString("direction")
	sequential, _ := cmd.Flags().GetBool("sequential-ids")

	direction, err := layout.ParseDirection(dirFlag)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	opts := []compiler.Option{compiler.WithMarkers(compiler.FixedMarkers)}
	if sequential {
		opts = append(opts, compiler.WithIDAllocator(&compiler.SequentialAllocator{}))
	}
	deck, err := compiler.New(opts...).Compile(raw)
	if err != nil {
		return err
	}

	graph, err := layout.NewDefaultEngine().Layout(deck.Nodes, deck.Edges, direction)
	if err != nil {
		return fmt.Errorf("layout deck: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), compileOutput{Layout: graph, Flashcards: deck.Flashcards})
}

func newExamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examples [name]",
		Short: "Print example notes (random when no name is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool("list"); list {
				for _, ex := range examples.All() {
					fmt.Fprintln(cmd.OutOrStdout(), ex.Name)
				}
				return nil
			}
			ex := examples.Random(nil)
			if len(args) == 1 {
				var ok bool
				if ex, ok = examples.Get(args[0]); !ok {
					return fmt.Errorf("unknown example %q", args[0])
				}
			}
			_, err := io.WriteString(cmd.OutOrStdout(), ex.Notes)
			return err
		},
	}
	cmd.Flags().Bool("list", false, "List example names")
	return cmd
}

func newLedgerCmd() *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the performance ledger",
	}
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print every ledger entry from the configured store as JSON",
		Args:  cobra.NoArgs,
		RunE:  runLedgerShow,
	}
	showCmd.Flags().Bool("summary", false, "Print per-status counts instead of entries")
	ledgerCmd.AddCommand(showCmd)
	return ledgerCmd
}

func runLedgerShow(cmd *cobra.Command, _ []string) error {
	summary, _ := cmd.Flags().GetBool("summary")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cmd.ErrOrStderr(), "warn")

	s, err := ledgerstore.Open(cmd.Context(), cfg.Ledger, log)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	entries, err := s.Load(cmd.Context())
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]ledgerRow, 0, len(ids))
	all := make([]domain.LedgerEntry, 0, len(ids))
	for _, id := range ids {
		e := entries[id]
		rows = append(rows, ledgerRow{CardID: id, Entry: e, Status: e.Status()})
		all = append(all, e)
	}

	if summary {
		return writeJSON(cmd.OutOrStdout(), domain.Summarize(all))
	}
	return writeJSON(cmd.OutOrStdout(), rows)
}

func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
