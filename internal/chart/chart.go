// Package chart строит график посещаемости для отчёта за период
package chart

import (
	"bytes"
	"fmt"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// VisitsPerDay рендерит PNG-график числа посещений по дням периода.
// counts индексируется датой в формате 02.01.2006; дни без посещений
// рисуются нулями, чтобы провалы были видны.
func VisitsPerDay(counts map[string]int, from, to time.Time) ([]byte, error) {
	days := int(to.Sub(from).Hours()/24) + 1
	if days < 1 {
		return nil, fmt.Errorf("пустой период")
	}

	points := make(plotter.XYs, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i)
		points[i].X = float64(i + 1)
		points[i].Y = float64(counts[day.Format("02.01.2006")])
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Посещения %s — %s",
		from.Format("02.01.2006"), to.Format("02.01.2006"))
	p.X.Label.Text = "День периода"
	p.Y.Label.Text = "Посещений"

	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, fmt.Errorf("ошибка построения линии: %w", err)
	}
	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, fmt.Errorf("ошибка построения точек: %w", err)
	}
	p.Add(line, scatter)

	var buf bytes.Buffer
	writerTo, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("ошибка рендера графика: %w", err)
	}
	if _, err := writerTo.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("ошибка записи графика: %w", err)
	}

	return buf.Bytes(), nil
}
