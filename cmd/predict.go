package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmark/internal/analytics"
	"github.com/abhisek/quizmark/internal/standards"
	"github.com/abhisek/quizmark/internal/store"
)

var predictCmd = &cobra.Command{
	Use:   "predict [standard]",
	Short: "Forecast the next attempt on a standard",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		classID, _ := cmd.Flags().GetString("class")
		studentID, _ := cmd.Flags().GetString("student")
		asJSON, _ := cmd.Flags().GetBool("json")

		switch {
		case all && len(args) > 0:
			return errors.New("use a standard or --all, not both")
		case !all && len(args) == 0:
			return errors.New("a standard code is required unless --all is set")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		svc := analytics.NewService(s, newAssembler())
		f := store.Filter{ClassID: classID, StudentID: studentID}
		w := cmd.OutOrStdout()

		if all {
			prs, err := svc.Predictions(cmd.Context(), f)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(w, prs)
			}
			if len(prs) == 0 {
				noData(w, "the selected submissions")
			}
			for _, pr := range prs {
				renderPrediction(w, pr)
			}
			fmt.Fprintf(w, "\n%d standards\n", len(prs))
			return nil
		}

		pr, err := svc.Prediction(cmd.Context(), standards.StandardCode(args[0]), f)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(w, pr)
		}
		renderPrediction(w, pr)
		return nil
	},
}

func init() {
	predictCmd.Flags().Bool("all", false, "Predict every standard in the selected submissions")
	predictCmd.Flags().String("class", "", "Only include students enrolled in this class")
	predictCmd.Flags().String("student", "", "Only include this student's submissions")
	predictCmd.Flags().Bool("json", false, "Print predictions as JSON")
}
