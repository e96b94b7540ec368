package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Analysis результат анализа листа: какие строки непустые и какой
// непрерывный диапазон колонок содержит данные. Живёт один рендер.
type Analysis struct {
	// Индексы непустых строк в исходном листе, в порядке следования
	RowIndices []int
	// Диапазон колонок с данными, включительно
	FirstCol int
	LastCol  int
	// Сколько строк было отброшено при обрезке до maxRows
	TruncatedRows int
}

// ColumnCount число колонок после обрезки пустых краёв
func (a *Analysis) ColumnCount() int {
	if a.LastCol < a.FirstCol {
		return 0
	}
	return a.LastCol - a.FirstCol + 1
}

// RowCount число строк, попавших в рендер
func (a *Analysis) RowCount() int {
	return len(a.RowIndices)
}

// analyzeSheet за один проход находит непустые строки и диапазон колонок
// с данными. Просматривается не более 2×maxRows строк и 2×maxColumns
// ячеек в строке; всё сверх maxRows/maxColumns молча отбрасывается —
// огромные листы рендерятся частично, а не отклоняются.
func analyzeSheet(rows [][]string, maxRows, maxColumns int) *Analysis {
	a := &Analysis{FirstCol: -1, LastCol: -1}

	scanRows := len(rows)
	if scanRows > 2*maxRows {
		scanRows = 2 * maxRows
	}

	for i := 0; i < scanRows; i++ {
		row := rows[i]
		scanCols := len(row)
		if scanCols > 2*maxColumns {
			scanCols = 2 * maxColumns
		}

		empty := true
		for j := 0; j < scanCols; j++ {
			if strings.TrimSpace(row[j]) == "" {
				continue
			}
			empty = false
			if a.FirstCol == -1 || j < a.FirstCol {
				a.FirstCol = j
			}
			if j > a.LastCol {
				a.LastCol = j
			}
		}
		if !empty {
			a.RowIndices = append(a.RowIndices, i)
		}
	}

	// Обрезка: хвост отбрасывается без ошибки
	if len(a.RowIndices) > maxRows {
		a.TruncatedRows = len(a.RowIndices) - maxRows
		a.RowIndices = a.RowIndices[:maxRows]
	}
	if a.ColumnCount() > maxColumns {
		a.LastCol = a.FirstCol + maxColumns - 1
	}

	return a
}

// loadSheet читает первый лист книги
func loadSheet(path string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка открытия книги: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "", fmt.Errorf("в книге нет листов")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка чтения листа %s: %w", sheet, err)
	}
	return rows, sheet, nil
}

// cellAt безопасно возвращает значение ячейки: GetRows обрезает
// пустые хвосты строк
func cellAt(rows [][]string, rowIdx, colIdx int) string {
	if rowIdx >= len(rows) {
		return ""
	}
	row := rows[rowIdx]
	if colIdx >= len(row) {
		return ""
	}
	return row[colIdx]
}
