package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmark/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the database holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := s.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		w := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(w, st)
		}
		fmt.Fprintln(w, theme.Title.Render("Database"))
		fmt.Fprintf(w, "Submissions:  %d\n", st.Submissions)
		fmt.Fprintf(w, "Students:     %d\n", st.Students)
		fmt.Fprintf(w, "Tests:        %d\n", st.Tests)
		fmt.Fprintf(w, "Standards:    %d\n", st.Standards)
		fmt.Fprintf(w, "Classes:      %d\n", st.Classes)
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print counts as JSON")
}
