// internal/periods/months.go
package periods

import (
	"fmt"
	"math"
	"time"
)

// Названия месяцев для выпадающего списка карточки ("octobre 2026").
var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// MonthLabel форматирует месяц по-французски в нижнем регистре.
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", frenchMonths[t.Month()-1], t.Year())
}

// MonthStat - значение карточки за конкретный месяц.
type MonthStat struct {
	Label string
	Stat
}

// MonthlyTrend строит список последних n месяцев, начиная с текущего.
// Для i-го месяца итог умножается на (1 - i*0.05), процент на (1 - i*0.1),
// оба округляются вниз.
func MonthlyTrend(base Stat, now time.Time, n int) []MonthStat {
	if n < 1 {
		return nil
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthStat, n)
	for i := 0; i < n; i++ {
		month := first.AddDate(0, -i, 0)
		out[i] = MonthStat{
			Label: MonthLabel(month),
			Stat: Stat{
				Total:   math.Floor(base.Total * float64(100-5*i) / 100),
				Percent: math.Floor(base.Percent * float64(10-i) / 10),
			},
		}
	}
	return out
}

// FindMonth ищет месяц по подписи. Если подпись неизвестна, возвращается базовое значение.
func FindMonth(trend []MonthStat, label string, base Stat) MonthStat {
	for _, m := range trend {
		if m.Label == label {
			return m
		}
	}
	if len(trend) > 0 {
		return MonthStat{Label: trend[0].Label, Stat: base}
	}
	return MonthStat{Stat: base}
}
