// internal/periods/table.go
package periods

import (
	"fmt"
	"math"
)

// Point - сегмент диаграммы.
type Point struct {
	Label string  `json:"name"`
	Value float64 `json:"value"`
}

// Stat - итог для карточки статистики.
type Stat struct {
	Total   float64 `json:"total"`
	Percent float64 `json:"percent"`
}

// Positive сообщает, растет ли показатель.
func (s Stat) Positive() bool { return s.Percent > 0 }

// SignedPercent форматирует процент со знаком: "+11%", "-5%", "0%".
func (s Stat) SignedPercent() string {
	switch {
	case s.Percent > 0:
		return fmt.Sprintf("+%s%%", trimFloat(math.Abs(s.Percent)))
	case s.Percent < 0:
		return fmt.Sprintf("-%s%%", trimFloat(math.Abs(s.Percent)))
	}
	return "0%"
}

func trimFloat(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%.2f", f)
}

// ChartTable: категория -> период -> упорядоченные сегменты.
type ChartTable map[string]map[Key][]Point

// StatTable: категория -> период -> итог.
type StatTable map[string]map[Key]Stat

// NewChartTable нормализует сырой ответ, где периоды заданы подписью или ключом.
// Неизвестные периоды отбрасываются.
func NewChartTable(raw map[string]map[string][]Point) ChartTable {
	out := make(ChartTable, len(raw))
	for category, byPeriod := range raw {
		normalized := make(map[Key][]Point, len(byPeriod))
		for p, points := range byPeriod {
			key, ok := Resolve(p)
			if !ok {
				continue
			}
			normalized[key] = append([]Point(nil), points...)
		}
		out[category] = normalized
	}
	return out
}

// NewStatTable - то же, что NewChartTable, для карточек статистики.
func NewStatTable(raw map[string]map[string]Stat) StatTable {
	out := make(StatTable, len(raw))
	for category, byPeriod := range raw {
		normalized := make(map[Key]Stat, len(byPeriod))
		for p, stat := range byPeriod {
			key, ok := Resolve(p)
			if !ok {
				continue
			}
			normalized[key] = stat
		}
		out[category] = normalized
	}
	return out
}

// Series возвращает сегменты для категории и подписи периода.
// Отсутствующая категория или период дают пустой срез.
func (t ChartTable) Series(category, label string) []Point {
	key, ok := LabelToKey(label)
	if !ok {
		return []Point{}
	}
	return t.SeriesByKey(category, key)
}

// SeriesByKey возвращает копию сегментов, никогда не nil.
func (t ChartTable) SeriesByKey(category string, key Key) []Point {
	points := t[category][key]
	out := make([]Point, len(points))
	copy(out, points)
	return out
}

// Summary возвращает итог для категории и подписи периода, по умолчанию {0, 0}.
func (t StatTable) Summary(category, label string) Stat {
	key, ok := LabelToKey(label)
	if !ok {
		return Stat{}
	}
	return t.SummaryByKey(category, key)
}

func (t StatTable) SummaryByKey(category string, key Key) Stat {
	return t[category][key]
}

// Share - сегмент с долей от суммы, для легенды диаграммы.
type Share struct {
	Point
	Percent float64
}

// Shares вычисляет долю каждого сегмента в процентах. При нулевой сумме доли равны 0.
func Shares(points []Point) []Share {
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	out := make([]Share, len(points))
	for i, p := range points {
		out[i].Point = p
		if sum > 0 {
			out[i].Percent = math.Round(p.Value/sum*1000) / 10
		}
	}
	return out
}
