package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/quizmark/internal/predict"
	"github.com/abhisek/quizmark/internal/proficiency"
	"github.com/abhisek/quizmark/internal/report"
	"github.com/abhisek/quizmark/internal/standards"
	"github.com/abhisek/quizmark/internal/ui/components"
	"github.com/abhisek/quizmark/internal/ui/theme"
)

const (
	rule     = "─"
	barWidth = 24
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func noData(w io.Writer, what string) {
	fmt.Fprintln(w, theme.Hint.Render("No data for "+what+"."))
}

func renderOverview(w io.Writer, ov *report.Overview) {
	if ov.NoData {
		noData(w, "the selected submissions")
		return
	}

	s := ov.Summary
	fmt.Fprintln(w, theme.Title.Render("Standards over time"))
	fmt.Fprintf(w, "%d submissions · %d standards tracked · %s\n\n",
		s.TotalSubmissions, s.TotalStandardsTracked,
		attentionCount(s.StandardsNeedingAttention))

	fmt.Fprintf(w, "%s  %7s  %6s  %-*s  %s\n",
		theme.Cell("Standard", 22), "Attempts", "Latest", barWidth, "Average", "Trend")
	fmt.Fprintln(w, strings.Repeat(rule, 22+2+8+2+6+2+barWidth+2+20))
	for _, row := range ov.Standards {
		name := string(row.Standard)
		if row.NeedsAttention {
			name = theme.Alert.Render("! ") + name
		}
		fmt.Fprintf(w, "%s  %8d  %s  %s  %s\n",
			theme.Cell(name, 22),
			row.TotalAttempts,
			theme.Percent(row.LatestPerformance)+"  ",
			components.NewProgressBar("", row.AveragePerformance, true, barWidth).View(),
			theme.Trend(row.Trend))
	}
	if s.RejectedRecords > 0 {
		fmt.Fprintln(w, "\n"+theme.Hint.Render(fmt.Sprintf("%d records skipped (data integrity)", s.RejectedRecords)))
	}
}

func attentionCount(codes []standards.StandardCode) string {
	if len(codes) == 0 {
		return theme.Band(proficiency.Advanced, "none need attention")
	}
	return theme.Alert.Render(fmt.Sprintf("%d need attention", len(codes)))
}

func renderTestReport(w io.Writer, rep *report.TestReport) {
	if rep.NoData {
		noData(w, "test "+rep.TestID)
		return
	}

	title := rep.TestID
	if rep.TestTitle != "" {
		title = rep.TestTitle + " (" + rep.TestID + ")"
	}
	fmt.Fprintln(w, theme.Title.Render(title))
	fmt.Fprintf(w, "%d submissions · class average %s\n\n", rep.TotalSubmissions, theme.Percent(rep.ClassAverage))

	fmt.Fprintln(w, theme.Heading.Render("Proficiency"))
	for _, b := range proficiency.AllBands() {
		group := rep.ProficiencyGroups[b]
		names := make([]string, len(group))
		for i, s := range group {
			names[i] = fmt.Sprintf("%s %d%%", s.StudentID, s.Score)
		}
		fmt.Fprintf(w, "  %s  %s\n", theme.Cell(theme.Band(b, b.Label()), 24), strings.Join(names, ", "))
	}

	fmt.Fprintln(w, "\n"+theme.Heading.Render("Standards"))
	for _, s := range rep.StandardsOverview {
		fmt.Fprintf(w, "  %s  %s  %d/%d\n",
			theme.Cell(string(s.Standard), 22),
			components.NewProgressBar("", s.Percentage, true, barWidth).View(),
			s.Correct, s.Total)
	}

	fmt.Fprintln(w, "\n"+theme.Heading.Render("Students"))
	for _, r := range rep.StudentResults {
		fmt.Fprintf(w, "  %s  %s  %s  %s\n",
			theme.Cell(r.StudentID, 16),
			theme.Percent(r.Score),
			theme.Cell(theme.Band(r.Band, string(r.Band)), 12),
			theme.Hint.Render(r.SubmittedAt.Local().Format("2006-01-02 15:04")))
	}
}

func renderStudentReport(w io.Writer, rep *report.StudentReport) {
	if rep.NoData {
		noData(w, "student "+rep.StudentID)
		return
	}

	fmt.Fprintln(w, theme.Title.Render("Student "+rep.StudentID))
	fmt.Fprintf(w, "%d tests · average %s\n\n", rep.TotalTests, theme.Percent(rep.AverageScore))

	fmt.Fprintln(w, theme.Heading.Render("Standards"))
	for _, s := range rep.OverallStandardsPerformance {
		fmt.Fprintf(w, "  %s  %s  %d/%d\n",
			theme.Cell(string(s.Standard), 22),
			components.NewProgressBar("", s.Percentage, true, barWidth).View(),
			s.Correct, s.Total)
	}

	fmt.Fprintln(w, "\n"+theme.Heading.Render("History"))
	for _, t := range rep.TestHistory {
		fmt.Fprintf(w, "  %s  %s  %s  %s\n",
			theme.Hint.Render(t.SubmittedAt.Local().Format("2006-01-02")),
			theme.Cell(t.TestID, 16),
			theme.Percent(t.Score),
			theme.Band(t.Band, string(t.Band)))
		for _, s := range t.Standards {
			fmt.Fprintf(w, "      %s  %d/%d  %s\n", theme.Cell(string(s.Standard), 22), s.Correct, s.Total, theme.Percent(s.Percentage))
		}
	}
}

func renderPrediction(w io.Writer, pr *report.PredictionReport) {
	if pr.NoData {
		noData(w, "standard "+string(pr.Standard))
		return
	}

	outlook := theme.Alert.Render("below proficiency")
	if pr.OnTrack(cfg.Prediction.ProficiencyCut) {
		outlook = theme.Band(proficiency.Proficient, "on track")
	}

	body := fmt.Sprintf("%s\n\ncurrent average  %s\npredicted next   %s (%s)\ntrend            %s\nconfidence       %s (%d data points)\n\n%s",
		theme.Title.Render(string(pr.Standard)),
		theme.Percent(pr.CurrentAverage),
		theme.Percent(pr.PredictedScore), outlook,
		theme.Trend(pr.Trend),
		confidence(pr.Confidence), pr.DataPoints,
		theme.Body.Render(pr.Recommendation))
	fmt.Fprintln(w, theme.Card.Render(body))
}

func confidence(c predict.Confidence) string {
	switch c {
	case predict.High:
		return theme.Band(proficiency.Advanced, string(c))
	case predict.Medium:
		return theme.Band(proficiency.Basic, string(c))
	default:
		return theme.Hint.Render(string(c))
	}
}
