package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/abhisek/quizmark/internal/aggregate"
	"github.com/abhisek/quizmark/internal/predict"
	"github.com/abhisek/quizmark/internal/proficiency"
	"github.com/abhisek/quizmark/internal/standards"
	"github.com/abhisek/quizmark/internal/trend"
)

const (
	stdOA  standards.StandardCode = "CCSS.Math.3.OA.A.1"
	stdNBT standards.StandardCode = "CCSS.Math.3.NBT.A.2"
	stdMD  standards.StandardCode = "CCSS.Math.3.MD.A.1"
)

var day0 = time.Date(2025, 9, 8, 9, 0, 0, 0, time.UTC)

type tallies = map[standards.StandardCode]standards.Tally

func sub(id, student, test string, day, score int, t tallies) standards.SubmissionRecord {
	return standards.SubmissionRecord{
		ID:          id,
		StudentID:   student,
		TestID:      test,
		SubmittedAt: day0.AddDate(0, 0, day),
		Score:       score,
		Standards:   t,
	}
}

// classFixture is a small class: three students, three tests over three weeks.
func classFixture() []standards.SubmissionRecord {
	return []standards.SubmissionRecord{
		sub("s1", "ana", "quiz-1", 0, 80, tallies{stdOA: {Correct: 4, Total: 5}, stdNBT: {Correct: 4, Total: 5}}),
		sub("s2", "ben", "quiz-1", 0, 50, tallies{stdOA: {Correct: 2, Total: 5}, stdNBT: {Correct: 3, Total: 5}}),
		sub("s3", "cai", "quiz-1", 1, 95, tallies{stdOA: {Correct: 5, Total: 5}, stdNBT: {Correct: 4, Total: 5}}),
		sub("s4", "ana", "quiz-2", 7, 70, tallies{stdNBT: {Correct: 2, Total: 4}, stdMD: {Correct: 4, Total: 4}}),
		sub("s5", "ben", "quiz-2", 7, 40, tallies{stdNBT: {Correct: 1, Total: 4}, stdMD: {Correct: 2, Total: 4}}),
		sub("s6", "ana", "quiz-3", 14, 60, tallies{stdNBT: {Correct: 1, Total: 3}, stdOA: {Correct: 2, Total: 2}}),
	}
}

func TestStandardsOverview(t *testing.T) {
	a := New(DefaultConfig())
	ov := a.StandardsOverview(classFixture(), aggregate.ByAttempts)

	if ov.NoData {
		t.Fatal("NoData = true for non-empty records")
	}
	if ov.Summary.TotalSubmissions != 6 {
		t.Errorf("TotalSubmissions = %d, want 6", ov.Summary.TotalSubmissions)
	}
	if ov.Summary.TotalStandardsTracked != 3 {
		t.Errorf("TotalStandardsTracked = %d, want 3", ov.Summary.TotalStandardsTracked)
	}

	rows := make(map[standards.StandardCode]StandardTrend)
	for _, r := range ov.Standards {
		rows[r.Standard] = r
	}

	// NBT: totals 5+5+5+4+4+3 = 26, series [80 60 80 50 25 33].
	nbt := rows[stdNBT]
	if ov.Standards[0].Standard != stdNBT {
		t.Errorf("first row = %s, want most-practiced %s", ov.Standards[0].Standard, stdNBT)
	}
	if nbt.TotalAttempts != 26 || nbt.Submissions != 6 {
		t.Errorf("NBT attempts/submissions = %d/%d, want 26/6", nbt.TotalAttempts, nbt.Submissions)
	}
	if nbt.LatestPerformance != 33 {
		t.Errorf("NBT latest = %d, want 33", nbt.LatestPerformance)
	}
	if nbt.AveragePerformance != 55 {
		t.Errorf("NBT average = %d, want 55", nbt.AveragePerformance)
	}
	if nbt.Trend != trend.Declining || !nbt.NeedsAttention {
		t.Errorf("NBT trend/attention = %s/%v, want declining/true", nbt.Trend, nbt.NeedsAttention)
	}

	// MD: two attempts only.
	md := rows[stdMD]
	if md.Trend != trend.InsufficientData {
		t.Errorf("MD trend = %s, want insufficient_data", md.Trend)
	}
	if md.AveragePerformance != 75 || md.NeedsAttention {
		t.Errorf("MD average/attention = %d/%v, want 75/false", md.AveragePerformance, md.NeedsAttention)
	}

	// OA: series [80 40 100 100] -> earlier 60, recent 100.
	oa := rows[stdOA]
	if oa.Trend != trend.Improving {
		t.Errorf("OA trend = %s, want improving", oa.Trend)
	}
	if diff := cmp.Diff([]standards.StandardCode{stdNBT}, ov.Summary.StandardsNeedingAttention); diff != "" {
		t.Errorf("StandardsNeedingAttention mismatch (-want +got):\n%s", diff)
	}
	if ov.Summary.AttentionCount != 1 {
		t.Errorf("AttentionCount = %d, want 1", ov.Summary.AttentionCount)
	}
}

func TestStandardsOverview_AttentionListFollowsRows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AttentionCut = 101
	ov := New(cfg).StandardsOverview(classFixture(), aggregate.ByPercentage)

	var rows []standards.StandardCode
	for _, r := range ov.Standards {
		rows = append(rows, r.Standard)
	}
	if diff := cmp.Diff(rows, ov.Summary.StandardsNeedingAttention); diff != "" {
		t.Errorf("attention list not in row order (-rows +list):\n%s", diff)
	}
}

func TestStandardsOverview_AttentionOrder(t *testing.T) {
	ov := New(DefaultConfig()).StandardsOverview(classFixture(), aggregate.ByPercentage)
	for i := 1; i < len(ov.Standards); i++ {
		if ov.Standards[i-1].AveragePerformance > ov.Standards[i].AveragePerformance {
			t.Fatalf("rows not ascending by average: %+v", ov.Standards)
		}
	}
}

func TestStandardsOverview_TwoAttemptScenario(t *testing.T) {
	records := []standards.SubmissionRecord{
		sub("r1", "ana", "t1", 1, 60, tallies{"A": {Correct: 3, Total: 5}}),
		sub("r2", "ana", "t2", 2, 80, tallies{"A": {Correct: 4, Total: 5}}),
	}
	ov := New(DefaultConfig()).StandardsOverview(records, aggregate.ByAttempts)
	row := ov.Standards[0]
	if row.TotalAttempts != 10 || row.AveragePerformance != 70 {
		t.Errorf("row = %+v, want total 10 average 70", row)
	}
	if row.Trend != trend.InsufficientData {
		t.Errorf("trend = %s, want insufficient_data despite +20 delta", row.Trend)
	}
}

func TestStandardsOverview_NoData(t *testing.T) {
	ov := New(DefaultConfig()).StandardsOverview(nil, aggregate.ByAttempts)
	if !ov.NoData {
		t.Error("NoData = false for empty records")
	}
	if ov.Standards == nil {
		t.Error("Standards should be an empty slice, not nil")
	}
	if ov.Summary.StandardsNeedingAttention == nil || ov.Summary.AttentionCount != 0 {
		t.Errorf("attention = %v/%d, want empty list and 0", ov.Summary.StandardsNeedingAttention, ov.Summary.AttentionCount)
	}
}

func TestStandardsOverview_SkipsBadRecord(t *testing.T) {
	records := append(classFixture(), sub("bad", "dev", "quiz-1", 2, 90, tallies{stdOA: {Correct: 9, Total: 5}}))
	ov := New(DefaultConfig()).StandardsOverview(records, aggregate.ByAttempts)
	if ov.Summary.RejectedRecords != 1 || len(ov.Rejected) != 1 {
		t.Fatalf("RejectedRecords = %d, want 1", ov.Summary.RejectedRecords)
	}
	if ov.Summary.TotalSubmissions != 6 {
		t.Errorf("TotalSubmissions = %d, want 6", ov.Summary.TotalSubmissions)
	}
}

func TestTestReport(t *testing.T) {
	rep := New(DefaultConfig()).TestReport("quiz-1", classFixture())

	if rep.TotalSubmissions != 3 {
		t.Fatalf("TotalSubmissions = %d, want 3", rep.TotalSubmissions)
	}
	// (80 + 50 + 95) / 3 = 75
	if rep.ClassAverage != 75 {
		t.Errorf("ClassAverage = %d, want 75", rep.ClassAverage)
	}

	wantGroups := map[proficiency.Band][]string{
		proficiency.Advanced:   {"cai"},
		proficiency.Proficient: {"ana"},
		proficiency.Basic:      {"ben"},
		proficiency.BelowBasic: {},
	}
	for band, ids := range wantGroups {
		var got []string
		for _, s := range rep.ProficiencyGroups[band] {
			got = append(got, s.StudentID)
		}
		if diff := cmp.Diff(ids, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s group mismatch (-want +got):\n%s", band, diff)
		}
	}

	oaGroups := rep.StandardsProficiencyGroups[stdOA]
	if len(oaGroups[proficiency.Advanced]) != 1 || oaGroups[proficiency.Advanced][0].StudentID != "cai" {
		t.Errorf("OA advanced = %+v, want [cai]", oaGroups[proficiency.Advanced])
	}
	if len(oaGroups[proficiency.BelowBasic]) != 1 || oaGroups[proficiency.BelowBasic][0].Percentage != 40 {
		t.Errorf("OA below basic = %+v, want ben at 40%%", oaGroups[proficiency.BelowBasic])
	}

	if len(rep.StandardsOverview) != 2 {
		t.Fatalf("StandardsOverview has %d rows, want 2", len(rep.StandardsOverview))
	}
	for _, s := range rep.StandardsOverview {
		if s.Total != 15 {
			t.Errorf("%s total = %d, want 15", s.Standard, s.Total)
		}
	}

	if rep.StudentResults[2].StudentID != "cai" {
		t.Errorf("student results not chronological: %+v", rep.StudentResults)
	}
}

func TestTestReport_NoSubmissions(t *testing.T) {
	rep := New(DefaultConfig()).TestReport("quiz-9", classFixture())
	if !rep.NoData || rep.TotalSubmissions != 0 || rep.ClassAverage != 0 {
		t.Errorf("expected empty no-data report, got %+v", rep)
	}
	if len(rep.ProficiencyGroups) != 4 {
		t.Errorf("expected all bands present, got %d", len(rep.ProficiencyGroups))
	}
}

func TestStudentReport(t *testing.T) {
	rep := New(DefaultConfig()).StudentReport("ana", classFixture())

	if rep.TotalTests != 3 {
		t.Fatalf("TotalTests = %d, want 3", rep.TotalTests)
	}
	if rep.AverageScore != 70 {
		t.Errorf("AverageScore = %d, want 70", rep.AverageScore)
	}
	gotTests := []string{}
	for _, h := range rep.TestHistory {
		gotTests = append(gotTests, h.TestID)
	}
	if diff := cmp.Diff([]string{"quiz-1", "quiz-2", "quiz-3"}, gotTests); diff != "" {
		t.Errorf("test history order (-want +got):\n%s", diff)
	}

	last := rep.TestHistory[2]
	wantBreakdown := []StandardResult{
		{Standard: stdNBT, Correct: 1, Total: 3, Percentage: 33},
		{Standard: stdOA, Correct: 2, Total: 2, Percentage: 100},
	}
	if diff := cmp.Diff(wantBreakdown, last.Standards); diff != "" {
		t.Errorf("quiz-3 breakdown (-want +got):\n%s", diff)
	}

	// NBT lifetime for ana: 4+2+1 of 5+4+3 = 7/12 = 58%.
	for _, s := range rep.OverallStandardsPerformance {
		if s.Standard == stdNBT && (s.Correct != 7 || s.Total != 12 || s.Percentage != 58) {
			t.Errorf("NBT lifetime = %+v, want 7/12 = 58", s)
		}
	}
}

func TestStudentReport_ZeroSubmissions(t *testing.T) {
	rep := New(DefaultConfig()).StudentReport("nobody", classFixture())
	if !rep.NoData {
		t.Error("NoData = false")
	}
	if rep.TotalTests != 0 || rep.AverageScore != 0 {
		t.Errorf("TotalTests/AverageScore = %d/%d, want 0/0", rep.TotalTests, rep.AverageScore)
	}
}

func TestPrediction(t *testing.T) {
	a := New(DefaultConfig())

	rep, err := a.Prediction(stdOA, classFixture())
	if err != nil {
		t.Fatal(err)
	}
	if rep.NoData {
		t.Fatal("NoData = true")
	}
	if rep.DataPoints != 4 || rep.Confidence != predict.Medium {
		t.Errorf("DataPoints/Confidence = %d/%s, want 4/medium", rep.DataPoints, rep.Confidence)
	}
	if rep.Trend != trend.Improving {
		t.Errorf("Trend = %s, want improving", rep.Trend)
	}

	missing, err := a.Prediction("CCSS.ELA.RL.4.1", classFixture())
	if err != nil {
		t.Fatal(err)
	}
	if !missing.NoData || missing.Trend != trend.InsufficientData {
		t.Errorf("missing standard report = %+v, want no data", missing)
	}
}

func TestPredictions_AllStandards(t *testing.T) {
	preds, rejected, err := New(DefaultConfig()).Predictions(context.Background(), classFixture())
	if err != nil {
		t.Fatal(err)
	}
	if len(rejected) != 0 {
		t.Errorf("rejected = %v, want none", rejected)
	}
	if len(preds) != 3 {
		t.Fatalf("got %d predictions, want 3", len(preds))
	}
	if preds[0].Standard != stdNBT {
		t.Errorf("first = %s, want %s", preds[0].Standard, stdNBT)
	}
}

func TestReports_Idempotent(t *testing.T) {
	a := New(DefaultConfig())
	records := classFixture()

	render := func() []byte {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		pred, err := a.Prediction(stdNBT, records)
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range []any{
			a.StandardsOverview(records, aggregate.ByAttempts),
			a.TestReport("quiz-1", records),
			a.StudentReport("ana", records),
			pred,
		} {
			if err := enc.Encode(v); err != nil {
				t.Fatal(err)
			}
		}
		return buf.Bytes()
	}

	first, second := render(), render()
	if !bytes.Equal(first, second) {
		t.Errorf("reports differ between runs:\n%s", cmp.Diff(string(first), string(second)))
	}
}
