package chart

import (
	"bytes"
	"image/png"
	"testing"
	"time"
)

func TestVisitsPerDay(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	counts := map[string]int{
		"01.03.2025": 5,
		"03.03.2025": 2,
		"07.03.2025": 8,
	}

	data, err := VisitsPerDay(counts, from, to)
	if err != nil {
		t.Fatalf("VisitsPerDay: %v", err)
	}

	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		t.Errorf("результат не PNG: %v", err)
	}
}

func TestVisitsPerDayEmptyPeriod(t *testing.T) {
	from := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	if _, err := VisitsPerDay(nil, from, to); err == nil {
		t.Error("ожидалась ошибка для вывернутого периода")
	}
}
