package bot

import "testing"

func TestClassifyOrder(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		formatPending bool
		want          intent
	}{
		{"команда", "/start", false, intentCommand},
		{"команда с аргументом", "/help что-то", false, intentCommand},
		{"кнопка меню", "Я в зале", false, intentMenu},
		{"кнопка меню другим регистром", "я В ЗАЛЕ", false, intentMenu},
		{"кнопка отмены", "отмена", false, intentMenu},
		{"дата", "01.02.2026", false, intentDate},
		{"сегодня", "Сегодня", false, intentDate},
		{"вчера по-английски", "YESTERDAY", false, intentDate},
		{"дата важнее формата", "01.02.2026", true, intentDate},
		{"слово формата при ожидании", "картинка", true, intentFormat},
		{"excel при ожидании", "Excel", true, intentFormat},
		{"слово формата без ожидания", "картинка", false, intentName},
		{"десятичное с точкой", "102.5", false, intentDecimal},
		{"десятичное с запятой", "75,5", false, intentDecimal},
		{"целое число", "100", false, intentDecimal},
		{"три знака после точки", "100.125", false, intentName},
		{"отрицательное не число", "-5", false, intentName},
		{"свободный текст", "Никита", false, intentName},
		{"текст с пробелами", "  Иван Петров  ", false, intentName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.text, tt.formatPending); got != tt.want {
				t.Errorf("classify(%q, %v) = %v, ожидалось %v",
					tt.text, tt.formatPending, got, tt.want)
			}
		})
	}
}

// Голые "1" и "2" вне выбора формата проваливаются до имени.
// Поведение сохранено как есть и закреплено здесь.
func TestClassifyBareDigits(t *testing.T) {
	for _, digit := range []string{"1", "2"} {
		if got := classify(digit, true); got != intentFormat {
			t.Errorf("classify(%q, format=true) = %v, ожидалось intentFormat", digit, got)
		}
		if got := classify(digit, false); got != intentName {
			t.Errorf("classify(%q, format=false) = %v, ожидалось intentName", digit, got)
		}
	}
	// "3" не входит в словарь формата и остаётся числом
	if got := classify("3", true); got != intentDecimal {
		t.Errorf("classify(\"3\", format=true) = %v, ожидалось intentDecimal", got)
	}
}

func TestMenuLabelsLowercased(t *testing.T) {
	for _, label := range []string{btnCheckIn, btnBuildProgram, btnChangeName,
		btnMetrics, btnCancel, btnAdminMenu, btnDailyReport, btnPeriodReport,
		btnJournal, btnBack} {
		if classify(label, false) != intentMenu {
			t.Errorf("подпись кнопки %q не распознана как меню", label)
		}
	}
}
