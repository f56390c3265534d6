package aggregate

import (
	"testing"
	"time"

	"github.com/abhisek/quizmark/internal/standards"
)

var t0 = time.Date(2025, 10, 6, 8, 30, 0, 0, time.UTC)

func rec(id string, ts int, score int, tallies map[standards.StandardCode]standards.Tally) standards.SubmissionRecord {
	return standards.SubmissionRecord{
		ID:          id,
		StudentID:   "stu-" + id,
		TestID:      "test-1",
		SubmittedAt: t0.Add(time.Duration(ts) * time.Hour),
		Score:       score,
		Standards:   tallies,
	}
}

func TestAggregate_TwoAttemptScenario(t *testing.T) {
	records := []standards.SubmissionRecord{
		rec("r1", 1, 60, map[standards.StandardCode]standards.Tally{"A": {Correct: 3, Total: 5}}),
		rec("r2", 2, 80, map[standards.StandardCode]standards.Tally{"A": {Correct: 4, Total: 5}}),
	}

	res := Aggregate(records, ByAttempts)
	if len(res.Aggregates) != 1 {
		t.Fatalf("got %d aggregates, want 1", len(res.Aggregates))
	}
	a := res.Aggregates[0]
	if a.Correct != 7 || a.Total != 10 {
		t.Errorf("correct/total = %d/%d, want 7/10", a.Correct, a.Total)
	}
	if a.Percentage != 70 {
		t.Errorf("Percentage = %d, want 70", a.Percentage)
	}
	if a.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", a.Attempts)
	}
	got := a.Percentages()
	if len(got) != 2 || got[0] != 60 || got[1] != 80 {
		t.Errorf("series = %v, want [60 80]", got)
	}
	if a.Latest() != 80 {
		t.Errorf("Latest = %d, want 80", a.Latest())
	}
	if a.Average() != 70 {
		t.Errorf("Average = %d, want 70", a.Average())
	}
}

func TestAggregate_SeriesIsChronological(t *testing.T) {
	records := []standards.SubmissionRecord{
		rec("late", 5, 100, map[standards.StandardCode]standards.Tally{"A": {Correct: 2, Total: 2}}),
		rec("early", 1, 0, map[standards.StandardCode]standards.Tally{"A": {Correct: 0, Total: 2}}),
		rec("tie-first", 3, 50, map[standards.StandardCode]standards.Tally{"A": {Correct: 1, Total: 2}}),
		rec("tie-second", 3, 100, map[standards.StandardCode]standards.Tally{"A": {Correct: 2, Total: 2}}),
	}
	res := Aggregate(records, ByAttempts)
	got := res.Aggregates[0].Percentages()
	want := []int{0, 50, 100, 100}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("series = %v, want %v", got, want)
		}
	}
	if res.Accepted[1].ID != "tie-first" || res.Accepted[2].ID != "tie-second" {
		t.Errorf("tie order not preserved: %s, %s", res.Accepted[1].ID, res.Accepted[2].ID)
	}
}

func TestAggregate_RejectsInconsistentRecord(t *testing.T) {
	records := []standards.SubmissionRecord{
		rec("good", 1, 50, map[standards.StandardCode]standards.Tally{"A": {Correct: 1, Total: 2}}),
		rec("bad", 2, 50, map[standards.StandardCode]standards.Tally{
			"A": {Correct: 1, Total: 2},
			"B": {Correct: 5, Total: 2},
		}),
	}
	res := Aggregate(records, ByAttempts)

	if len(res.Rejected) != 1 || res.Rejected[0].RecordID != "bad" {
		t.Fatalf("Rejected = %+v, want one entry for \"bad\"", res.Rejected)
	}
	if !standards.IsIntegrity(res.Rejected[0].Err) {
		t.Errorf("rejection error %v is not an integrity error", res.Rejected[0].Err)
	}
	// The bad record must not leak any of its tallies.
	if _, ok := res.Find("B"); ok {
		t.Error("standard B present from rejected record")
	}
	a, _ := res.Find("A")
	if a.Total != 2 || a.Attempts != 1 {
		t.Errorf("A total/attempts = %d/%d, want 2/1", a.Total, a.Attempts)
	}
}

func TestAggregate_CorrectNeverExceedsTotal(t *testing.T) {
	records := []standards.SubmissionRecord{
		rec("r1", 1, 70, map[standards.StandardCode]standards.Tally{"A": {Correct: 2, Total: 3}, "B": {Correct: 4, Total: 4}}),
		rec("r2", 2, 20, map[standards.StandardCode]standards.Tally{"A": {Correct: 0, Total: 1}, "C": {Correct: 1, Total: 5}}),
		rec("r3", 3, 90, map[standards.StandardCode]standards.Tally{"B": {Correct: 3, Total: 3}, "C": {Correct: 5, Total: 5}}),
	}
	for _, a := range Aggregate(records, ByAttempts).Aggregates {
		if a.Correct > a.Total {
			t.Errorf("%s: correct %d > total %d", a.Standard, a.Correct, a.Total)
		}
		if a.Total <= 0 {
			t.Errorf("%s: non-positive total", a.Standard)
		}
	}
}

func TestAggregate_Ordering(t *testing.T) {
	records := []standards.SubmissionRecord{
		rec("r1", 1, 50, map[standards.StandardCode]standards.Tally{
			"small-strong": {Correct: 2, Total: 2},
			"big-weak":     {Correct: 1, Total: 10},
			"mid":          {Correct: 3, Total: 5},
		}),
	}

	tests := []struct {
		order Order
		want  []standards.StandardCode
	}{
		{ByAttempts, []standards.StandardCode{"big-weak", "mid", "small-strong"}},
		{ByPercentage, []standards.StandardCode{"big-weak", "mid", "small-strong"}},
		{ByCode, []standards.StandardCode{"big-weak", "mid", "small-strong"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			aggs := Aggregate(records, tt.order).Aggregates
			for i, a := range aggs {
				if a.Standard != tt.want[i] {
					t.Fatalf("position %d = %s, want %s", i, a.Standard, tt.want[i])
				}
			}
		})
	}
}

func TestAggregate_PercentageOrderDiffersFromAttempts(t *testing.T) {
	records := []standards.SubmissionRecord{
		rec("r1", 1, 50, map[standards.StandardCode]standards.Tally{
			"practiced": {Correct: 9, Total: 10},
			"weak":      {Correct: 0, Total: 1},
		}),
	}
	byAttempts := Aggregate(records, ByAttempts).Aggregates
	byPct := Aggregate(records, ParseOrder("attention")).Aggregates
	if byAttempts[0].Standard != "practiced" {
		t.Errorf("ByAttempts first = %s, want practiced", byAttempts[0].Standard)
	}
	if byPct[0].Standard != "weak" {
		t.Errorf("ByPercentage first = %s, want weak", byPct[0].Standard)
	}
}

func TestAggregate_Empty(t *testing.T) {
	res := Aggregate(nil, ByAttempts)
	if len(res.Aggregates) != 0 || len(res.Rejected) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestParseOrder(t *testing.T) {
	tests := map[string]Order{
		"":           ByAttempts,
		"attempts":   ByAttempts,
		"percentage": ByPercentage,
		"attention":  ByPercentage,
		"code":       ByCode,
		"bogus":      ByAttempts,
	}
	for in, want := range tests {
		if got := ParseOrder(in); got != want {
			t.Errorf("ParseOrder(%q) = %q, want %q", in, got, want)
		}
	}
}
