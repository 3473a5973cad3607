// internal/dashboard/state.go
package dashboard

import (
	"errors"
	"time"

	"formadmin.fr/internal/periods"
)

var (
	ErrUnknownPanel  = errors.New("dashboard: неизвестная панель")
	ErrUnknownTab    = errors.New("dashboard: вкладка не принадлежит панели")
	ErrUnknownPeriod = errors.New("dashboard: неизвестный период")
)

// TrendMonths - сколько месяцев показывает выпадающий список карточки.
const TrendMonths = 12

// Selection - выбранная вкладка и период панели.
type Selection struct {
	Tab    string
	Period periods.Key
}

// Tables - результат одной загрузки. Nil-таблица не заменяет текущую.
type Tables struct {
	Charts periods.ChartTable
	Stats  periods.StatTable
}

// State - состояние главной страницы одной сессии.
// Не потокобезопасен: вызывается под мьютексом рабочего пространства.
type State struct {
	selections map[Panel]Selection
	statPeriod periods.Key
	cardMonths map[string]string

	charts periods.ChartTable
	stats  periods.StatTable

	latest  uint64
	applied uint64
}

func NewState() *State {
	s := &State{
		selections: make(map[Panel]Selection, len(panelTabs)),
		statPeriod: periods.Default,
		cardMonths: map[string]string{},
		charts:     DefaultCharts(),
		stats:      DefaultStats(),
	}
	for p, tabs := range panelTabs {
		s.selections[p] = Selection{Tab: tabs[0], Period: periods.Default}
	}
	return s
}

// Select меняет вкладку и период панели. period - подпись или ключ.
func (s *State) Select(panel Panel, tab, period string) error {
	if _, ok := panelTabs[panel]; !ok {
		return ErrUnknownPanel
	}
	if !panel.hasTab(tab) {
		return ErrUnknownTab
	}
	key, ok := periods.Resolve(period)
	if !ok {
		return ErrUnknownPeriod
	}
	s.selections[panel] = Selection{Tab: tab, Period: key}
	return nil
}

func (s *State) Selection(panel Panel) Selection { return s.selections[panel] }

// SelectStatPeriod меняет период карточек статистики.
func (s *State) SelectStatPeriod(period string) error {
	key, ok := periods.Resolve(period)
	if !ok {
		return ErrUnknownPeriod
	}
	s.statPeriod = key
	return nil
}

func (s *State) StatPeriod() periods.Key { return s.statPeriod }

// SelectMonth запоминает месяц, выбранный в карточке.
func (s *State) SelectMonth(category, month string) {
	s.cardMonths[category] = month
}

// Begin открывает новый запрос данных и возвращает его номер.
// Все ранее выданные номера становятся устаревшими.
func (s *State) Begin() uint64 {
	s.latest++
	return s.latest
}

// Apply применяет результат, только если token - последний выданный номер.
// Устаревший ответ отбрасывается, возвращается false.
func (s *State) Apply(token uint64, t Tables) bool {
	if token != s.latest || token <= s.applied {
		return false
	}
	if t.Charts != nil {
		s.charts = t.Charts
	}
	if t.Stats != nil {
		s.stats = t.Stats
	}
	s.applied = token
	return true
}

// Series - сегменты выбранной вкладки и периода панели с долями.
func (s *State) Series(panel Panel) []periods.Share {
	sel := s.selections[panel]
	return periods.Shares(s.charts.SeriesByKey(sel.Tab, sel.Period))
}

// CardView - карточка, готовая к отображению.
// MonthChosen false: месяц не выбран, Current содержит итог периода.
type CardView struct {
	Card
	Current     periods.MonthStat
	Months      []periods.MonthStat
	MonthChosen bool
}

// Cards строит карточки для статистического периода и выбранных месяцев.
func (s *State) Cards(now time.Time) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		base := s.stats.SummaryByKey(c.Category, s.statPeriod)
		trend := periods.MonthlyTrend(base, now, TrendMonths)
		month := s.cardMonths[c.Category]
		current := periods.FindMonth(trend, month, base)
		out = append(out, CardView{
			Card:        c,
			Current:     current,
			Months:      trend,
			MonthChosen: month != "" && current.Label == month,
		})
	}
	return out
}
