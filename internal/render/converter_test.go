package render

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook создаёт xlsx с шапкой и data строками данных
func writeWorkbook(t *testing.T, dir string, dataRows, cols int) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]

	for j := 0; j < cols; j++ {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		f.SetCellValue(sheet, cell, fmt.Sprintf("Колонка %d", j+1))
	}
	for i := 0; i < dataRows; i++ {
		for j := 0; j < cols; j++ {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, fmt.Sprintf("%d x %d", i+1, j+1))
		}
	}

	path := filepath.Join(dir, "table.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("не удалось сохранить книгу: %v", err)
	}
	return path
}

func newTestConverter(t *testing.T) *Converter {
	t.Helper()
	c, err := NewConverter(Options{TempDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestSelectStrategyBoundary(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		rows, cols    int
		want          renderStrategy
	}{
		// Ровно на пороге пикселей файловый путь НЕ выбирается: граница строгая
		{"at pixel threshold", 10_000, 5_000, 10, 5, strategyDirect},
		{"above pixel threshold", 10_000, 5_001, 10, 5, strategyFile},
		{"small table", 800, 600, 20, 4, strategyDirect},
		{"at cell threshold", 800, 600, 500, 4, strategyDirect},
		{"above cell threshold", 800, 600, 501, 4, strategyChunked},
		{"pixels win over cells", 10_000, 5_001, 1000, 50, strategyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectStrategy(tt.width, tt.height, tt.rows, tt.cols)
			if got != tt.want {
				t.Errorf("selectStrategy(%d, %d, %d, %d) = %v, want %v",
					tt.width, tt.height, tt.rows, tt.cols, got, tt.want)
			}
		})
	}
}

func TestConvertProducesPNG(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), 5, 3)
	c := newTestConverter(t)

	data, err := c.Convert(path)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("результат не PNG: %v", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		t.Errorf("пустой холст: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestConvertCacheHitIsByteIdentical(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), 5, 3)
	c := newTestConverter(t)

	first, err := c.Convert(path)
	if err != nil {
		t.Fatalf("первый рендер: %v", err)
	}
	second, err := c.Convert(path)
	if err != nil {
		t.Fatalf("повторный рендер: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("повторный рендер того же файла дал другие байты")
	}
	// Попадание в кеш возвращает тот же срез: перерисовки не было
	if &first[0] != &second[0] {
		t.Error("повторный вызов перерисовал изображение вместо попадания в кеш")
	}
}

func TestConvertInvalidate(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), 5, 3)
	c := newTestConverter(t)

	first, err := c.Convert(path)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	c.Invalidate(path)

	second, err := c.Convert(path)
	if err != nil {
		t.Fatalf("Convert после инвалидации: %v", err)
	}
	if len(second) > 0 && len(first) > 0 && &first[0] == &second[0] {
		t.Error("после инвалидации вернулся старый кешированный срез")
	}
}

func TestConvertHDScaling(t *testing.T) {
	// Широкая таблица с длинными ячейками упирается в HD-бюджет
	dir := t.TempDir()
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	for j := 0; j < 30; j++ {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		f.SetCellValue(sheet, cell, "Очень длинное название колонки для растяжения")
		cell, _ = excelize.CoordinatesToCellName(j+1, 2)
		f.SetCellValue(sheet, cell, "Очень длинное значение ячейки в таблице")
	}
	path := filepath.Join(dir, "wide.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	c, err := NewConverter(Options{EnableHDScaling: true, TempDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	data, err := c.Convert(path)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width > hdMaxWidth {
		t.Errorf("ширина %d превышает HD-бюджет %d", cfg.Width, hdMaxWidth)
	}
}

// Подсказка сборщику считается от предыдущей подсказки: при порции 20
// на 120 строк приходится две подсказки (после 60-й и 120-й строки),
// а не одна на кратной 50 отметке
func TestChunkedRenderGCHintCadence(t *testing.T) {
	c := newTestConverter(t)

	rows := make([][]string, 121)
	rows[0] = []string{"Неделя", "Вес"}
	for i := 1; i < len(rows); i++ {
		rows[i] = []string{fmt.Sprintf("Подход %d", i), fmt.Sprintf("%d", 50+i)}
	}
	a := analyzeSheet(rows, 200, 10)

	restore := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(restore)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	width, height := canvasSize(a, baseColumnWidth)
	if _, err := c.renderChunked(rows, a, "таблица", baseColumnWidth, width, height); err != nil {
		t.Fatalf("renderChunked: %v", err)
	}
	runtime.ReadMemStats(&after)

	if hints := after.NumGC - before.NumGC; hints < 2 {
		t.Errorf("за 120 строк сборщику подсказали %d раз, ожидалось не меньше 2", hints)
	}
}

func TestConvertMissingFile(t *testing.T) {
	c := newTestConverter(t)
	if _, err := c.Convert(filepath.Join(t.TempDir(), "нет.xlsx")); err == nil {
		t.Error("ожидалась ошибка для отсутствующего файла")
	}
}

func TestCloseRemovesScheduledTempFiles(t *testing.T) {
	c := newTestConverter(t)

	tmp, err := os.CreateTemp(t.TempDir(), "render-*.png")
	if err != nil {
		t.Fatal(err)
	}
	tmp.Close()

	c.scheduleCleanup(tmp.Name())
	c.Close()

	if _, err := os.Stat(tmp.Name()); !os.IsNotExist(err) {
		t.Error("Close не удалил запланированный временный файл")
	}
}
