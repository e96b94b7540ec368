package bot

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidationError ошибка проверки пользовательского ввода
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

var benchPressPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// parseBenchPress разбирает жим лёжа: десятичное число с одним-двумя
// знаками после запятой, запятая нормализуется в точку
func parseBenchPress(text string) (float64, error) {
	normalized := strings.Replace(strings.TrimSpace(text), ",", ".", 1)
	if !benchPressPattern.MatchString(normalized) {
		return 0, ValidationError{Field: "bench_press", Message: "Введите вес числом, например 100 или 102.5"}
	}
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, ValidationError{Field: "bench_press", Message: "Введите вес числом, например 100 или 102.5"}
	}
	return value, nil
}

// parseWeight разбирает вес тела из анкеты: строго между 20 и 300 кг
func parseWeight(text string) (float64, error) {
	normalized := strings.Replace(strings.TrimSpace(text), ",", ".", 1)
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, ValidationError{Field: "weight", Message: "Вес должен быть числом"}
	}
	if value <= 20 || value >= 300 {
		return 0, ValidationError{Field: "weight", Message: "Вес должен быть больше 20 и меньше 300 кг"}
	}
	return value, nil
}

// parseWorkouts разбирает число тренировок в неделю: целое от 1 до 7
func parseWorkouts(text string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ValidationError{Field: "workouts", Message: "Введите целое число от 1 до 7"}
	}
	if value < 1 || value > 7 {
		return 0, ValidationError{Field: "workouts", Message: "Тренировок в неделю может быть от 1 до 7"}
	}
	return value, nil
}

// parseExperience разбирает стаж в годах: от 0 до 100
func parseExperience(text string) (float64, error) {
	normalized := strings.Replace(strings.TrimSpace(text), ",", ".", 1)
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, ValidationError{Field: "experience", Message: "Стаж должен быть числом"}
	}
	if value < 0 || value > 100 {
		return 0, ValidationError{Field: "experience", Message: "Стаж должен быть от 0 до 100 лет"}
	}
	return value, nil
}

// parseAge разбирает возраст: целое от 14 до 100
func parseAge(text string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ValidationError{Field: "age", Message: "Возраст должен быть целым числом"}
	}
	if value < 14 || value > 100 {
		return 0, ValidationError{Field: "age", Message: "Возраст должен быть от 14 до 100 лет"}
	}
	return value, nil
}

// validateName проверяет отображаемое имя
func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "Имя не может быть пустым"}
	}
	if len([]rune(name)) > 100 {
		return ValidationError{Field: "name", Message: "Имя слишком длинное (максимум 100 символов)"}
	}
	return nil
}

// parseReportDate разбирает дату отчёта: ДД.ММ.ГГГГ либо слова
// «сегодня»/«вчера» на русском или английском. Регистр не важен.
func parseReportDate(text string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "сегодня", "today":
		return today, nil
	case "вчера", "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	date, err := time.ParseInLocation("02.01.2006", strings.TrimSpace(text), now.Location())
	if err != nil {
		return time.Time{}, ValidationError{
			Field:   "date",
			Message: "Введите дату в формате ДД.ММ.ГГГГ, «сегодня» или «вчера»",
		}
	}
	return date, nil
}

// parseFormatChoice разбирает выбор формата программы: цифра либо
// слово из двуязычного словаря
func parseFormatChoice(text string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "фото", "картинка", "изображение", "image", "photo", "picture":
		return formatImage, true
	case "2", "эксель", "таблица", "файл", "excel", "xlsx", "file":
		return formatExcel, true
	}
	return "", false
}

// parseCycleChoice достаёт номер цикла из ввода: голая цифра либо
// текст кнопки вида "1. Русский цикл (Борис Шейко)"
func parseCycleChoice(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if i := strings.IndexAny(trimmed, ".) "); i > 0 {
		trimmed = trimmed[:i]
	}
	if _, err := strconv.Atoi(trimmed); err != nil {
		return "", false
	}
	return trimmed, true
}
