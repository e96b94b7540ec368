package plan

import "sort"

// Cycle описывает тренировочный цикл: фиксированный xlsx-шаблон,
// в который подставляется максимальный жим лёжа.
type Cycle struct {
	ID           string
	Name         string
	Author       string
	TemplateFile string
}

// Реестр циклов. Набор закрытый и загружается один раз;
// id совпадает с цифрой кнопки в меню выбора.
var cycles = map[string]Cycle{
	"1": {ID: "1", Name: "Русский цикл", Author: "Борис Шейко", TemplateFile: "russian_cycle.xlsx"},
	"2": {ID: "2", Name: "Цикл Верхошанского", Author: "Юрий Верхошанский", TemplateFile: "verkhoshansky.xlsx"},
	"3": {ID: "3", Name: "Жимовой цикл 5x5", Author: "Билл Старр", TemplateFile: "bench_5x5.xlsx"},
}

// CycleByID возвращает цикл по идентификатору
func CycleByID(id string) (Cycle, bool) {
	c, ok := cycles[id]
	return c, ok
}

// CycleByTemplate возвращает цикл по имени файла шаблона
func CycleByTemplate(filename string) (Cycle, bool) {
	for _, c := range cycles {
		if c.TemplateFile == filename {
			return c, true
		}
	}
	return Cycle{}, false
}

// Cycles возвращает все циклы в порядке идентификаторов
func Cycles() []Cycle {
	list := make([]Cycle, 0, len(cycles))
	for _, c := range cycles {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
