package models

import "testing"

func TestParseGoal(t *testing.T) {
	tests := []struct {
		input string
		want  Goal
		ok    bool
	}{
		{"1", GoalMuscleGain, true},
		{"2", GoalWeightLoss, true},
		{"3", GoalMaintenance, true},
		{"набор массы", GoalMuscleGain, true},
		{"похудение", GoalWeightLoss, true},
		{"поддержание формы", GoalMaintenance, true},
		{"4", "", false},
		{"кардио", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseGoal(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseGoal(%q) = (%q, %v), ожидалось (%q, %v)",
				tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHasComment(t *testing.T) {
	for _, tt := range []struct {
		comment string
		want    bool
	}{
		{"", false},
		{"-", false},
		{"ё", false},
		{"ок", true},
		{"болит плечо", true},
	} {
		m := Metrics{Comment: tt.comment}
		if m.HasComment() != tt.want {
			t.Errorf("HasComment(%q) = %v, ожидалось %v", tt.comment, !tt.want, tt.want)
		}
	}
}
