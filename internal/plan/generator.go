package plan

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// BenchPressCell ячейка, в которую подставляется максимальный жим.
// Одна и та же во всех шаблонах: формулы циклов считают проценты от неё.
const BenchPressCell = "B2"

var (
	// ErrUnknownCycle неизвестный идентификатор цикла
	ErrUnknownCycle = errors.New("неизвестный цикл")
	// ErrTemplateMissing шаблон цикла отсутствует или пуст
	ErrTemplateMissing = errors.New("шаблон цикла недоступен")
)

// Generator подставляет жим лёжа в шаблон цикла и сохраняет готовую программу
type Generator struct {
	templatesDir string
	outputDir    string
}

// NewGenerator создаёт генератор программ
func NewGenerator(templatesDir, outputDir string) *Generator {
	return &Generator{templatesDir: templatesDir, outputDir: outputDir}
}

// Generate заполняет шаблон цикла значением жима и возвращает путь
// к сохранённому файлу программы.
func (g *Generator) Generate(cycleID string, benchPress float64) (string, error) {
	cycle, ok := CycleByID(cycleID)
	if !ok {
		return "", ErrUnknownCycle
	}

	templatePath := filepath.Join(g.templatesDir, cycle.TemplateFile)
	info, err := os.Stat(templatePath)
	if err != nil || info.Size() == 0 {
		log.Printf("Шаблон цикла %s недоступен (%s): %v", cycle.ID, templatePath, err)
		return "", ErrTemplateMissing
	}

	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("ошибка открытия шаблона: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	if err := f.SetCellValue(sheet, BenchPressCell, benchPress); err != nil {
		return "", fmt.Errorf("ошибка записи жима: %w", err)
	}

	// Сбрасываем закешированные значения, чтобы формулы пересчитались
	if err := f.UpdateLinkedValue(); err != nil {
		log.Printf("Не удалось сбросить кеш формул: %v", err)
	}

	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания каталога программ: %w", err)
	}

	outPath := filepath.Join(g.outputDir, fmt.Sprintf(
		"program_%s_%s_%s.xlsx",
		cycle.ID,
		time.Now().Format("20060102_150405"),
		uuid.New().String()[:8],
	))
	if err := f.SaveAs(outPath); err != nil {
		// Незаконченный файл не должен оставаться на диске
		os.Remove(outPath)
		return "", fmt.Errorf("ошибка сохранения программы: %w", err)
	}

	return outPath, nil
}
