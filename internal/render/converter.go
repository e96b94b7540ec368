// Package render превращает заполненную xlsx-книгу в одно PNG-изображение,
// пригодное для отправки в чат: с обрезкой пустых краёв, единой шириной
// колонок, HD-ограничением размера и выбором стратегии рендера по
// ожидаемому объёму холста.
package render

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	baseColumnWidth = 80.0  // нижняя граница ширины колонки, px
	maxColumnWidth  = 350.0 // верхняя граница ширины колонки, px
	minColumnWidth  = 40.0  // ниже этого HD-сжатие не опускается

	hdMaxWidth = 1920 // HD-бюджет по ширине холста

	rowHeight        = 28.0
	headerRowHeight  = 34.0
	titleBandHeight  = 48.0
	footerBandHeight = 36.0
	margin           = 16.0
	cellPadding      = 8.0

	// Строго больше порога — файловый путь рендера
	fileRenderThreshold = 50_000_000
	// Строго больше порога по числу ячеек — порционный путь
	chunkCellThreshold = 2_000
	// Подсказка сборщику мусора каждые N обработанных строк
	gcHintEvery = 50

	tempFileDelay  = 5 * time.Second
	maxCanvasBytes = 512 << 20
)

// ErrTableTooLarge холст не укладывается в бюджет памяти
var ErrTableTooLarge = errors.New("таблица слишком большая, уменьшите её размер")

type renderStrategy int

const (
	strategyDirect renderStrategy = iota
	strategyChunked
	strategyFile
)

// selectStrategy выбирает путь рендера по ожидаемому числу пикселей
// и ячеек. Ровно на пороге остаёмся на пути в памяти.
func selectStrategy(width, height, rowCount, colCount int) renderStrategy {
	if int64(width)*int64(height) > fileRenderThreshold {
		return strategyFile
	}
	if rowCount*colCount > chunkCellThreshold {
		return strategyChunked
	}
	return strategyDirect
}

// Options параметры конвертера
type Options struct {
	MaxRows         int
	MaxColumns      int
	ChunkSize       int
	SampleRows      int
	EnableHDScaling bool
	TempDir         string
	CacheSize       int
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.MaxRows <= 0 {
		out.MaxRows = 100
	}
	if out.MaxColumns <= 0 {
		out.MaxColumns = 50
	}
	if out.ChunkSize <= 0 {
		out.ChunkSize = 20
	}
	if out.SampleRows <= 0 {
		out.SampleRows = 30
	}
	if out.TempDir == "" {
		out.TempDir = os.TempDir()
	}
	if out.CacheSize <= 0 {
		out.CacheSize = 16
	}
	return out
}

// Converter рендерит xlsx-книги в PNG. Рендеры сериализуются мьютексом:
// один холст за раз ограничивает пиковую память процесса.
type Converter struct {
	opts Options

	regular font.Face
	bold    font.Face
	title   font.Face

	mu           sync.Mutex
	measure      *gg.Context
	colWidthMemo map[int]float64

	cache *renderCache

	timersMu sync.Mutex
	timers   map[string]*time.Timer
	closed   bool
}

// NewConverter создаёт конвертер с загруженными шрифтами
func NewConverter(opts Options) (*Converter, error) {
	o := opts.withDefaults()

	regularFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки шрифта: %w", err)
	}
	boldFont, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки жирного шрифта: %w", err)
	}

	c := &Converter{
		opts:         o,
		regular:      truetype.NewFace(regularFont, &truetype.Options{Size: 14}),
		bold:         truetype.NewFace(boldFont, &truetype.Options{Size: 14}),
		title:        truetype.NewFace(boldFont, &truetype.Options{Size: 20}),
		measure:      gg.NewContext(1, 1),
		colWidthMemo: make(map[int]float64),
		cache:        newRenderCache(o.CacheSize),
		timers:       make(map[string]*time.Timer),
	}
	// Ширина колонок оценивается жирным шрифтом — он шире обычного
	c.measure.SetFontFace(c.bold)
	return c, nil
}

// Convert рендерит первый лист книги в PNG. Повторный вызов для
// неизменённого файла отдаёт закешированные байты без перерисовки.
func (c *Converter) Convert(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка определения пути: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("файл недоступен: %w", err)
	}
	key := fmt.Sprintf("%s|%d", abs, info.ModTime().UnixNano())

	if png, ok := c.cache.Get(key); ok {
		return png, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Пока ждали очередь, файл мог отрендерить кто-то другой
	if png, ok := c.cache.Get(key); ok {
		return png, nil
	}

	rows, _, err := loadSheet(abs)
	if err != nil {
		return nil, err
	}

	a := analyzeSheet(rows, c.opts.MaxRows, c.opts.MaxColumns)
	if a.RowCount() == 0 || a.ColumnCount() == 0 {
		return nil, fmt.Errorf("лист пуст, рендерить нечего")
	}
	if a.TruncatedRows > 0 {
		log.Printf("Лист %s обрезан: %d строк не попали в рендер", filepath.Base(abs), a.TruncatedRows)
	}

	colWidth := c.estimateColumnWidth(rows, a)

	width, height := canvasSize(a, colWidth)
	// HD-бюджет ограничивает только ширину: сжатие колонок не меняет
	// высоту, высокие таблицы упираются в бюджет памяти холста ниже
	if c.opts.EnableHDScaling && width > hdMaxWidth {
		colWidth = colWidth * float64(hdMaxWidth) / float64(width)
		if colWidth < minColumnWidth {
			colWidth = minColumnWidth
		}
		width, height = canvasSize(a, colWidth)
	}

	if int64(width)*int64(height)*4 > maxCanvasBytes {
		// Памяти на холст не хватит: подсказываем сборщику и сдаёмся
		runtime.GC()
		time.Sleep(200 * time.Millisecond)
		return nil, ErrTableTooLarge
	}

	title := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	var png []byte
	switch selectStrategy(width, height, a.RowCount(), a.ColumnCount()) {
	case strategyFile:
		png, err = c.renderViaFile(rows, a, title, colWidth, width, height)
		if err != nil {
			// Дисковый путь не обязателен: откатываемся на порционный
			log.Printf("Файловый рендер не удался, откат на порционный: %v", err)
			png, err = c.renderChunked(rows, a, title, colWidth, width, height)
		}
	case strategyChunked:
		png, err = c.renderChunked(rows, a, title, colWidth, width, height)
	default:
		png, err = c.renderDirect(rows, a, title, colWidth, width, height)
	}
	if err != nil {
		return nil, err
	}

	c.cache.Put(key, png, width, height)
	return png, nil
}

// Invalidate выбрасывает из кеша все рендеры указанного файла
func (c *Converter) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	c.cache.InvalidatePrefix(abs + "|")
}

// Close останавливает отложенные удаления и сразу чистит временные файлы
func (c *Converter) Close() {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()
	c.closed = true
	for path, t := range c.timers {
		t.Stop()
		os.Remove(path)
	}
	c.timers = make(map[string]*time.Timer)
}

// estimateColumnWidth измеряет текст выборки строк жирным шрифтом,
// берёт максимум на колонку (в границах [80, 350]) и усредняет по всем
// колонкам: таблица рисуется с единой шириной колонки. Оценки на колонку
// запоминаются на всё время жизни конвертера.
func (c *Converter) estimateColumnWidth(rows [][]string, a *Analysis) float64 {
	sample := len(a.RowIndices)
	if sample > c.opts.SampleRows {
		sample = c.opts.SampleRows
	}

	total := 0.0
	for col := a.FirstCol; col <= a.LastCol; col++ {
		if w, ok := c.colWidthMemo[col]; ok {
			total += w
			continue
		}

		colMax := baseColumnWidth
		for i := 0; i < sample; i++ {
			text := cellAt(rows, a.RowIndices[i], col)
			if text == "" {
				continue
			}
			w, _ := c.measure.MeasureString(text)
			w += 2 * cellPadding
			if w > colMax {
				colMax = w
			}
		}
		if colMax > maxColumnWidth {
			colMax = maxColumnWidth
		}
		c.colWidthMemo[col] = colMax
		total += colMax
	}

	return total / float64(a.ColumnCount())
}

// canvasSize вычисляет размеры холста для заданной ширины колонки
func canvasSize(a *Analysis, colWidth float64) (int, int) {
	width := int(2*margin + colWidth*float64(a.ColumnCount()))
	dataRows := a.RowCount() - 1 // первая непустая строка — шапка таблицы
	if dataRows < 0 {
		dataRows = 0
	}
	height := int(2*margin + titleBandHeight + headerRowHeight +
		rowHeight*float64(dataRows) + footerBandHeight)
	return width, height
}

// scheduleCleanup откладывает удаление временного файла. Таймеры
// принадлежат конвертеру и отменяются в Close.
func (c *Converter) scheduleCleanup(path string) {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()
	if c.closed {
		os.Remove(path)
		return
	}
	c.timers[path] = time.AfterFunc(tempFileDelay, func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Не удалось удалить временный файл %s: %v", path, err)
		}
		c.timersMu.Lock()
		delete(c.timers, path)
		c.timersMu.Unlock()
	})
}
