package bot

import (
	"strings"
	"testing"
	"time"
)

func TestParseBenchPress(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"100", 100, false},
		{"102.5", 102.5, false},
		{"75,5", 75.5, false},
		{"80.25", 80.25, false},
		{"100.125", 0, true},
		{"-50", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"100 кг", 0, true},
	}

	for _, tt := range tests {
		got, err := parseBenchPress(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseBenchPress(%q) err = %v, ожидалась ошибка: %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseBenchPress(%q) = %v, ожидалось %v", tt.input, got, tt.want)
		}
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"75,5", 75.5, false},
		{"80", 80, false},
		{"20", 0, true},
		{"300", 0, true},
		{"20.1", 20.1, false},
		{"299.9", 299.9, false},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := parseWeight(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseWeight(%q) err = %v, ожидалась ошибка: %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseWeight(%q) = %v, ожидалось %v", tt.input, got, tt.want)
		}
	}
}

func TestParseWorkouts(t *testing.T) {
	for _, tt := range []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"7", 7, false},
		{"0", 0, true},
		{"8", 0, true},
		{"3.5", 0, true},
		{"три", 0, true},
	} {
		got, err := parseWorkouts(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseWorkouts(%q) err = %v, ожидалась ошибка: %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseWorkouts(%q) = %d, ожидалось %d", tt.input, got, tt.want)
		}
	}
}

func TestParseExperience(t *testing.T) {
	for _, tt := range []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"0", 0, false},
		{"2,5", 2.5, false},
		{"100", 100, false},
		{"101", 0, true},
		{"-1", 0, true},
	} {
		got, err := parseExperience(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseExperience(%q) err = %v, ожидалась ошибка: %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseExperience(%q) = %v, ожидалось %v", tt.input, got, tt.want)
		}
	}
}

func TestParseAge(t *testing.T) {
	for _, tt := range []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"14", 14, false},
		{"100", 100, false},
		{"13", 0, true},
		{"101", 0, true},
		{"двадцать", 0, true},
	} {
		got, err := parseAge(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAge(%q) err = %v, ожидалась ошибка: %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseAge(%q) = %d, ожидалось %d", tt.input, got, tt.want)
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := validateName("Никита"); err != nil {
		t.Errorf("обычное имя отклонено: %v", err)
	}
	if err := validateName("   "); err == nil {
		t.Error("пустое имя из пробелов принято")
	}
	if err := validateName(strings.Repeat("а", 100)); err != nil {
		t.Errorf("имя в 100 символов отклонено: %v", err)
	}
	if err := validateName(strings.Repeat("а", 101)); err == nil {
		t.Error("имя в 101 символ принято")
	}
}

func TestParseReportDate(t *testing.T) {
	now := time.Date(2026, 2, 15, 13, 45, 0, 0, time.Local)
	today := time.Date(2026, 2, 15, 0, 0, 0, 0, time.Local)

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"сегодня", today, false},
		{"СЕГОДНЯ", today, false},
		{"today", today, false},
		{"вчера", today.AddDate(0, 0, -1), false},
		{"Yesterday", today.AddDate(0, 0, -1), false},
		{"01.02.2026", time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local), false},
		{"2026-02-01", time.Time{}, true},
		{"завтра", time.Time{}, true},
		{"32.01.2026", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := parseReportDate(tt.input, now)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseReportDate(%q) err = %v, ожидалась ошибка: %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("parseReportDate(%q) = %v, ожидалось %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFormatChoice(t *testing.T) {
	image := []string{"1", "фото", "Картинка", "изображение", "image", "PHOTO", "picture"}
	excel := []string{"2", "эксель", "Таблица", "файл", "excel", "XLSX", "file"}

	for _, input := range image {
		got, ok := parseFormatChoice(input)
		if !ok || got != formatImage {
			t.Errorf("parseFormatChoice(%q) = (%q, %v), ожидалась картинка", input, got, ok)
		}
	}
	for _, input := range excel {
		got, ok := parseFormatChoice(input)
		if !ok || got != formatExcel {
			t.Errorf("parseFormatChoice(%q) = (%q, %v), ожидался excel", input, got, ok)
		}
	}
	if _, ok := parseFormatChoice("3"); ok {
		t.Error("parseFormatChoice(\"3\") принят")
	}
	if _, ok := parseFormatChoice("pdf"); ok {
		t.Error("parseFormatChoice(\"pdf\") принят")
	}
}

func TestParseCycleChoice(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1", "1", true},
		{"2", "2", true},
		{"1. Русский цикл", "1", true},
		{"3. Жимовой 5x5 (Билл Старр)", "3", true},
		{"2) Верхошанский", "2", true},
		{"цикл", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := parseCycleChoice(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseCycleChoice(%q) = (%q, %v), ожидалось (%q, %v)",
				tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
