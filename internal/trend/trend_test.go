package trend

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		series []int
		want   Label
	}{
		{"empty", nil, InsufficientData},
		{"one point", []int{80}, InsufficientData},
		{"two points big jump", []int{60, 80}, InsufficientData},
		// earlier={40}, recent={50,60}: delta +15
		{"odd count middle goes recent", []int{40, 50, 60}, Improving},
		{"declining", []int{90, 80, 60, 50}, Declining},
		{"flat", []int{70, 70, 70}, Stable},
		{"exactly +5 is stable", []int{70, 75, 75}, Stable},
		{"exactly -5 is stable", []int{80, 75, 75}, Stable},
		{"just over deadband", []int{70, 76, 75}, Improving},
		{"noisy but flat", []int{60, 80, 70, 80, 60, 70}, Stable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.series); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s (delta %.2f)", tt.series, got, tt.want, Delta(tt.series))
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	series := []int{55, 62, 48, 71, 66}
	first := Classify(series)
	for i := 0; i < 10; i++ {
		if got := Classify(series); got != first {
			t.Fatalf("run %d: %s != %s", i, got, first)
		}
	}
	if series[0] != 55 || series[4] != 66 {
		t.Error("input mutated")
	}
}

func TestClassify_DuplicateLastPointInsideDeadband(t *testing.T) {
	cases := [][]int{
		{70, 72, 71},
		{60, 62, 61, 63},
		{80, 78, 79, 80, 81},
	}
	for _, series := range cases {
		before := Classify(series)
		dup := append(append([]int{}, series...), series[len(series)-1])
		after := Classify(dup)
		if before != after {
			t.Errorf("%v: %s, with duplicated last point %s", series, before, after)
		}
	}
}

func TestConfigClassify_CustomThresholds(t *testing.T) {
	cfg := Config{MinPoints: 2, Deadband: 10}
	if got := cfg.Classify([]int{60, 80}); got != Improving {
		t.Errorf("two points with MinPoints=2: got %s, want improving", got)
	}
	if got := cfg.Classify([]int{60, 68}); got != Stable {
		t.Errorf("delta 8 with deadband 10: got %s, want stable", got)
	}
}

func TestDelta(t *testing.T) {
	if d := Delta([]int{40, 50, 60}); math.Abs(d-15) > 1e-9 {
		t.Errorf("Delta = %f, want 15", d)
	}
	if d := Delta([]int{50}); d != 0 {
		t.Errorf("Delta single = %f, want 0", d)
	}
}
