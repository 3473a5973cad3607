// internal/source/records.go
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"formadmin.fr/internal/models"
	"formadmin.fr/internal/periods"
)

// Ответ randomuser.me; отсутствующие поля остаются пустыми.
type randomUserResponse struct {
	Results []struct {
		Name struct {
			First string `json:"first"`
			Last  string `json:"last"`
		} `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Location struct {
			City string `json:"city"`
		} `json:"location"`
		Picture struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"picture"`
	} `json:"results"`
}

// Конверт fakerapi.it: {"status": "OK", "code": 200, "total": 50, "data": [...]}.
type fakerResponse[T any] struct {
	Status string `json:"status"`
	Code   int    `json:"code"`
	Data   []T    `json:"data"`
}

type fakerCompany struct {
	Entreprises string `json:"entreprises"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Web         string `json:"web"`
	Ville       string `json:"ville"`
}

type fakerTraining struct {
	Name  string          `json:"name"`
	Phone string          `json:"phone"`
	Web   string          `json:"web"`
	Date  json.RawMessage `json:"date"`
}

// Trainers загружает преподавателей. Ключи записям назначает listing.New.
func (c *Client) Trainers(ctx context.Context) ([]models.Trainer, error) {
	var resp randomUserResponse
	if err := c.getJSON(ctx, "trainers", c.cfg.TrainersURL, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Trainer, 0, len(resp.Results))
	for _, u := range resp.Results {
		out = append(out, models.Trainer{
			Name:  strings.TrimSpace(u.Name.First + " " + u.Name.Last),
			Phone: u.Phone,
			Email: u.Email,
			Ville: u.Location.City,
			Img:   u.Picture.Thumbnail,
		})
	}
	slog.Info("Загружены преподаватели", "count", len(out))
	return out, nil
}

func (c *Client) Companies(ctx context.Context) ([]models.Company, error) {
	var resp fakerResponse[fakerCompany]
	if err := c.getJSON(ctx, "companies", c.cfg.CompaniesURL, &resp); err != nil {
		return nil, err
	}
	if err := resp.check("companies"); err != nil {
		return nil, err
	}
	out := make([]models.Company, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, models.Company{
			Entreprises: d.Entreprises,
			Phone:       d.Phone,
			Email:       d.Email,
			Web:         d.Web,
			Ville:       d.Ville,
		})
	}
	slog.Info("Загружены компании", "count", len(out))
	return out, nil
}

func (c *Client) Trainings(ctx context.Context) ([]models.Training, error) {
	var resp fakerResponse[fakerTraining]
	if err := c.getJSON(ctx, "trainings", c.cfg.TrainingsURL, &resp); err != nil {
		return nil, err
	}
	if err := resp.check("trainings"); err != nil {
		return nil, err
	}
	out := make([]models.Training, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, models.Training{
			Name:  d.Name,
			Phone: d.Phone,
			Web:   d.Web,
			Date:  decodeDate(d.Date),
		})
	}
	slog.Info("Загружены формации", "count", len(out))
	return out, nil
}

// ChartTable загружает таблицу графиков json-server. ok=false, если адрес не настроен.
func (c *Client) ChartTable(ctx context.Context) (periods.ChartTable, bool, error) {
	if c.cfg.ChartsURL == "" {
		return nil, false, nil
	}
	var raw map[string]map[string][]periods.Point
	if err := c.getJSON(ctx, "charts", c.cfg.ChartsURL, &raw); err != nil {
		return nil, true, err
	}
	return periods.NewChartTable(raw), true, nil
}

// StatTable - то же для карточек статистики.
func (c *Client) StatTable(ctx context.Context) (periods.StatTable, bool, error) {
	if c.cfg.StatsURL == "" {
		return nil, false, nil
	}
	var raw map[string]map[string]periods.Stat
	if err := c.getJSON(ctx, "stats", c.cfg.StatsURL, &raw); err != nil {
		return nil, true, err
	}
	return periods.NewStatTable(raw), true, nil
}

func (r fakerResponse[T]) check(name string) error {
	if r.Code != 0 && r.Code >= 400 {
		return fmt.Errorf("ошибка источника %s: код %d (%s)", name, r.Code, r.Status)
	}
	return nil
}

// decodeDate принимает объект {date, timezone_type, timezone} или простую строку.
// Прочие формы дают пустую дату.
func decodeDate(raw json.RawMessage) models.DateValue {
	if len(raw) == 0 {
		return models.DateValue{}
	}
	var dv models.DateValue
	if err := json.Unmarshal(raw, &dv); err == nil {
		return dv
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return models.DateValue{Date: s}
	}
	return models.DateValue{}
}
