package render

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"time"

	"github.com/fogleman/gg"
)

// Палитра таблицы
var (
	colorBackground  = color.RGBA{R: 0xF7, G: 0xF9, B: 0xFB, A: 0xFF}
	colorTitle       = color.RGBA{R: 0x1F, G: 0x2D, B: 0x3D, A: 0xFF}
	colorHeaderFill  = color.RGBA{R: 0x2F, G: 0x5D, B: 0x8C, A: 0xFF}
	colorHeaderText  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorRowEven     = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorRowOdd      = color.RGBA{R: 0xEA, G: 0xF0, B: 0xF6, A: 0xFF}
	colorGrid        = color.RGBA{R: 0xC9, G: 0xD3, B: 0xDD, A: 0xFF}
	colorLabelColumn = color.RGBA{R: 0x1F, G: 0x4E, B: 0x79, A: 0xFF}
	colorValueText   = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
	colorFooter      = color.RGBA{R: 0x7A, G: 0x86, B: 0x92, A: 0xFF}
)

// newCanvas создаёт холст с фоном, заголовком, шапкой таблицы и подвалом.
// Строки данных дорисовывает drawRows — один раз целиком либо порциями.
func (c *Converter) newCanvas(rows [][]string, a *Analysis, title string, colWidth float64, width, height int) *gg.Context {
	dc := gg.NewContext(width, height)

	dc.SetColor(colorBackground)
	dc.Clear()

	// Заголовок
	dc.SetFontFace(c.title)
	dc.SetColor(colorTitle)
	dc.DrawStringAnchored(title, float64(width)/2, margin+titleBandHeight/2, 0.5, 0.5)

	// Шапка таблицы: первая непустая строка листа
	top := margin + titleBandHeight
	dc.SetFontFace(c.bold)
	headerRow := a.RowIndices[0]
	for col := a.FirstCol; col <= a.LastCol; col++ {
		x := margin + colWidth*float64(col-a.FirstCol)

		dc.SetColor(colorHeaderFill)
		dc.DrawRectangle(x, top, colWidth, headerRowHeight)
		dc.Fill()

		text := c.fitText(dc, cellAt(rows, headerRow, col), colWidth-2*cellPadding)
		dc.SetColor(colorHeaderText)
		dc.DrawStringAnchored(text, x+colWidth/2, top+headerRowHeight/2, 0.5, 0.5)
	}

	// Подвал с отметкой времени
	dc.SetFontFace(c.regular)
	dc.SetColor(colorFooter)
	stamp := "Сформировано " + time.Now().Format("02.01.2006 15:04")
	dc.DrawStringAnchored(stamp, float64(width)/2, float64(height)-margin-footerBandHeight/2, 0.5, 0.5)

	return dc
}

// drawRows рисует строки данных с индексами [from, to) считая от нулевой
// строки данных (шапка таблицы не входит)
func (c *Converter) drawRows(dc *gg.Context, rows [][]string, a *Analysis, colWidth float64, from, to int) {
	top := margin + titleBandHeight + headerRowHeight

	for i := from; i < to; i++ {
		sheetRow := a.RowIndices[i+1] // +1: нулевой индекс занят шапкой
		y := top + rowHeight*float64(i)

		rowFill := colorRowEven
		if i%2 == 1 {
			rowFill = colorRowOdd
		}

		for col := a.FirstCol; col <= a.LastCol; col++ {
			x := margin + colWidth*float64(col-a.FirstCol)

			dc.SetColor(rowFill)
			dc.DrawRectangle(x, y, colWidth, rowHeight)
			dc.Fill()

			dc.SetColor(colorGrid)
			dc.SetLineWidth(1)
			dc.DrawRectangle(x, y, colWidth, rowHeight)
			dc.Stroke()

			text := cellAt(rows, sheetRow, col)
			if text == "" {
				continue
			}

			// Первая колонка — подписи, остальные — значения
			if col == a.FirstCol {
				dc.SetFontFace(c.bold)
				dc.SetColor(colorLabelColumn)
			} else {
				dc.SetFontFace(c.regular)
				dc.SetColor(colorValueText)
			}
			text = c.fitText(dc, text, colWidth-2*cellPadding)
			dc.DrawStringAnchored(text, x+cellPadding, y+rowHeight/2, 0, 0.5)
		}
	}
}

// fitText обрезает текст с многоточием под доступную ширину
func (c *Converter) fitText(dc *gg.Context, text string, maxWidth float64) string {
	if w, _ := dc.MeasureString(text); w <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= maxWidth {
			return candidate
		}
	}
	return "…"
}

// renderDirect рисует таблицу за один проход в памяти
func (c *Converter) renderDirect(rows [][]string, a *Analysis, title string, colWidth float64, width, height int) ([]byte, error) {
	dc := c.newCanvas(rows, a, title, colWidth, width, height)
	c.drawRows(dc, rows, a, colWidth, 0, a.RowCount()-1)
	return encodePNG(dc)
}

// renderChunked рисует строки порциями на общем холсте, периодически
// подсказывая сборщику мусора освободить промежуточные аллокации
func (c *Converter) renderChunked(rows [][]string, a *Analysis, title string, colWidth float64, width, height int) ([]byte, error) {
	dc := c.newCanvas(rows, a, title, colWidth, width, height)

	dataRows := a.RowCount() - 1
	processed := 0
	lastHint := 0
	for from := 0; from < dataRows; from += c.opts.ChunkSize {
		to := from + c.opts.ChunkSize
		if to > dataRows {
			to = dataRows
		}
		c.drawRows(dc, rows, a, colWidth, from, to)

		// Порция редко кратна шагу подсказки, поэтому считаем строки
		// от предыдущей подсказки, а не делим накопленное нацело
		processed += to - from
		if processed-lastHint >= gcHintEvery {
			runtime.GC()
			lastHint = processed
		}
	}

	return encodePNG(dc)
}

// renderViaFile рисует холст один раз, сбрасывает его во временный PNG
// на диске, перечитывает байты и откладывает удаление файла. Ошибка
// любого шага отдаётся вызывающему для отката на порционный путь.
func (c *Converter) renderViaFile(rows [][]string, a *Analysis, title string, colWidth float64, width, height int) ([]byte, error) {
	dc := c.newCanvas(rows, a, title, colWidth, width, height)
	c.drawRows(dc, rows, a, colWidth, 0, a.RowCount()-1)

	tmp, err := os.CreateTemp(c.opts.TempDir, "render-*.png")
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpPath := tmp.Name()

	if err := dc.EncodePNG(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка записи временного PNG: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка закрытия временного PNG: %w", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка чтения временного PNG: %w", err)
	}

	c.scheduleCleanup(tmpPath)
	return data, nil
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("ошибка кодирования PNG: %w", err)
	}
	return buf.Bytes(), nil
}
