package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmark/internal/ingest"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import tests, class rosters and submissions from a JSON file (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}

		p, err := ingest.Decode(raw)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sum, err := ingest.NewImporter(s).Import(cmd.Context(), p)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Imported %d tests, %d classes, %d submissions", sum.Tests, sum.Classes, sum.Submissions)
		if sum.Duplicates > 0 {
			fmt.Fprintf(w, " (%d already stored)", sum.Duplicates)
		}
		fmt.Fprintln(w)
		if len(sum.Rejected) > 0 {
			fmt.Fprintf(w, "Skipped %d submissions: %s\n", len(sum.Rejected), strings.Join(sum.RejectedIDs(), ", "))
		}
		return nil
	},
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return raw, nil
}
