package render

import (
	"fmt"
	"testing"
)

func makeRows(rowCount, colCount int) [][]string {
	rows := make([][]string, rowCount)
	for i := range rows {
		row := make([]string, colCount)
		for j := range row {
			row[j] = fmt.Sprintf("r%dc%d", i, j)
		}
		rows[i] = row
	}
	return rows
}

func TestAnalyzeClampRows(t *testing.T) {
	const maxRows, maxCols = 100, 50

	// На 50 строк больше лимита: обрезается ровно до maxRows, без ошибки
	rows := makeRows(maxRows+50, 3)
	a := analyzeSheet(rows, maxRows, maxCols)

	if a.RowCount() != maxRows {
		t.Errorf("RowCount = %d, want %d", a.RowCount(), maxRows)
	}
	if a.TruncatedRows != 50 {
		t.Errorf("TruncatedRows = %d, want 50", a.TruncatedRows)
	}
}

func TestAnalyzeClampColumns(t *testing.T) {
	rows := makeRows(5, 80)
	a := analyzeSheet(rows, 100, 50)

	if a.ColumnCount() != 50 {
		t.Errorf("ColumnCount = %d, want 50", a.ColumnCount())
	}
	if a.FirstCol != 0 {
		t.Errorf("FirstCol = %d, want 0", a.FirstCol)
	}
}

func TestAnalyzeSkipsEmptyRows(t *testing.T) {
	rows := [][]string{
		{"", "", ""},
		{"", "Шапка", "Вес"},
		{"", "", ""},
		{"", "Понедельник", "80"},
		{"   ", "\t", ""}, // пробельные ячейки считаются пустыми
		{"", "Среда", "85"},
	}
	a := analyzeSheet(rows, 100, 50)

	want := []int{1, 3, 5}
	if len(a.RowIndices) != len(want) {
		t.Fatalf("RowIndices = %v, want %v", a.RowIndices, want)
	}
	for i, idx := range want {
		if a.RowIndices[i] != idx {
			t.Errorf("RowIndices[%d] = %d, want %d", i, a.RowIndices[i], idx)
		}
	}
	if a.FirstCol != 1 || a.LastCol != 2 {
		t.Errorf("column span = [%d,%d], want [1,2]", a.FirstCol, a.LastCol)
	}
}

func TestAnalyzeScanBound(t *testing.T) {
	// Сканируется не более 2×maxRows строк: дальние строки не видны
	const maxRows = 10
	rows := makeRows(100, 2)
	a := analyzeSheet(rows, maxRows, 50)

	if a.RowCount() != maxRows {
		t.Errorf("RowCount = %d, want %d", a.RowCount(), maxRows)
	}
	last := a.RowIndices[len(a.RowIndices)-1]
	if last >= 2*maxRows {
		t.Errorf("просканирована строка %d за границей 2×maxRows", last)
	}
}

func TestAnalyzeEmptySheet(t *testing.T) {
	a := analyzeSheet(nil, 100, 50)
	if a.RowCount() != 0 || a.ColumnCount() != 0 {
		t.Errorf("пустой лист: RowCount=%d ColumnCount=%d", a.RowCount(), a.ColumnCount())
	}
}
