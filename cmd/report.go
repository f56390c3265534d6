package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizmark/internal/aggregate"
	"github.com/abhisek/quizmark/internal/analytics"
	"github.com/abhisek/quizmark/internal/store"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show per-standard performance over time",
	RunE: func(cmd *cobra.Command, args []string) error {
		classID, _ := cmd.Flags().GetString("class")
		studentID, _ := cmd.Flags().GetString("student")
		order, _ := cmd.Flags().GetString("order")
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		svc := analytics.NewService(s, newAssembler())
		ov, err := svc.Overview(cmd.Context(), store.Filter{ClassID: classID, StudentID: studentID}, aggregate.ParseOrder(order))
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), ov)
		}
		renderOverview(cmd.OutOrStdout(), ov)
		return nil
	},
}

var testReportCmd = &cobra.Command{
	Use:   "test-report <test-id>",
	Short: "Show the class report for one test",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rep, err := analytics.NewService(s, newAssembler()).TestReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), rep)
		}
		renderTestReport(cmd.OutOrStdout(), rep)
		return nil
	},
}

var studentReportCmd = &cobra.Command{
	Use:   "student-report <student-id>",
	Short: "Show one student's test history and standards performance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rep, err := analytics.NewService(s, newAssembler()).StudentReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), rep)
		}
		renderStudentReport(cmd.OutOrStdout(), rep)
		return nil
	},
}

func init() {
	overviewCmd.Flags().String("class", "", "Only include students enrolled in this class")
	overviewCmd.Flags().String("student", "", "Only include this student's submissions")
	overviewCmd.Flags().String("order", string(aggregate.ByAttempts), "Row order: attempts or attention")

	for _, c := range []*cobra.Command{overviewCmd, testReportCmd, studentReportCmd} {
		c.Flags().Bool("json", false, "Print the report as JSON")
	}
}
