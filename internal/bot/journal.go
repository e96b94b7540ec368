package bot

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"gymbot/internal/models"
)

// buildJournalWorkbook пишет журнал посещений в xlsx в каталоге
// готовых файлов и возвращает путь
func (b *Bot) buildJournalWorkbook(journal []models.JournalRow) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Дата")
	f.SetCellValue(sheet, "B1", "Имя")
	for i, row := range journal {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.VisitDate.Format("02.01.2006"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), row.Name)
	}

	name := fmt.Sprintf("journal_%s_%s.xlsx",
		time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(b.config.OutputDir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("ошибка сохранения журнала: %w", err)
	}
	return path, nil
}
