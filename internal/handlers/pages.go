// internal/handlers/pages.go
package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/justinas/nosurf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"formadmin.fr/internal/config"
	"formadmin.fr/internal/metrics"
	"formadmin.fr/internal/workspace"
)

// NavItem - пункт боковой панели.
type NavItem struct {
	Path   string
	Title  string
	Active bool
}

type PageData struct {
	SiteName     string
	CurrentYear  int
	BaseURL      string
	CurrentPath  string
	CSRFToken    string
	PageTitle    string
	FlashSuccess string
	FlashError   string
	Errors       url.Values
	Nav          []NavItem
	AppConfig    *config.Config

	List      *ListView
	Dashboard *DashboardView
	Confirm   *ConfirmView
}

type AppHandlers struct {
	Config         *config.Config
	BaseTmpl       *template.Template
	Pages          fs.FS
	SessionManager *scs.SessionManager
	Registry       *workspace.Registry
	Source         workspace.Fetcher
	Metrics        *metrics.Metrics
	Now            func() time.Time
}

var navigation = []NavItem{
	{Path: "/", Title: "Aperçu"},
	{Path: "/formateurs", Title: "Formateurs"},
	{Path: "/entreprises", Title: "Entreprises"},
	{Path: "/formations", Title: "Formations"},
}

var frenchPrinter = message.NewPrinter(language.French)

// formatTotal группирует разряды по-французски: 15000 -> "15 000".
func formatTotal(v float64) string {
	return frenchPrinter.Sprintf("%d", int64(v))
}

func parseBaseTemplate(templates fs.FS, appBaseURL string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"add":         func(a, b int) int { return a + b },
		"base_url":    func() string { return strings.TrimSuffix(appBaseURL, "/") },
		"formatTotal": formatTotal,
		"percent":     func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	}

	tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(templates, "base.html")
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга базового шаблона: %w", err)
	}
	slog.Info("Базовый шаблон успешно загружен")
	return tmpl, nil
}

func NewAppHandlers(cfg *config.Config, templates fs.FS, sm *scs.SessionManager, registry *workspace.Registry, src workspace.Fetcher, m *metrics.Metrics) (*AppHandlers, error) {
	baseTmpl, err := parseBaseTemplate(templates, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base templates: %w", err)
	}
	pages, err := fs.Sub(templates, "pages")
	if err != nil {
		return nil, fmt.Errorf("каталог шаблонов страниц не найден: %w", err)
	}
	if cfg.CurrentYear == 0 {
		cfg.CurrentYear = time.Now().Year()
	}

	return &AppHandlers{
		Config:         cfg,
		BaseTmpl:       baseTmpl,
		Pages:          pages,
		SessionManager: sm,
		Registry:       registry,
		Source:         src,
		Metrics:        m,
		Now:            time.Now,
	}, nil
}

func (h *AppHandlers) NewPageData(r *http.Request) *PageData {
	nav := make([]NavItem, len(navigation))
	for i, item := range navigation {
		item.Active = item.Path == r.URL.Path || (item.Path != "/" && strings.HasPrefix(r.URL.Path, item.Path+"/"))
		nav[i] = item
	}

	return &PageData{
		SiteName:     h.Config.SiteName,
		CurrentYear:  h.Config.CurrentYear,
		BaseURL:      strings.TrimSuffix(h.Config.BaseURL, "/"),
		CurrentPath:  r.URL.Path,
		CSRFToken:    nosurf.Token(r),
		Errors:       url.Values{},
		Nav:          nav,
		AppConfig:    h.Config,
		FlashSuccess: h.SessionManager.PopString(r.Context(), "flash_success"),
		FlashError:   h.SessionManager.PopString(r.Context(), "flash_error"),
	}
}

func (h *AppHandlers) RenderPage(w http.ResponseWriter, r *http.Request, pageName string, data *PageData) {
	if data == nil {
		data = h.NewPageData(r)
	}
	if data.PageTitle == "" {
		data.PageTitle = h.Config.SiteName
	}

	tmplToExecute, err := h.BaseTmpl.Clone()
	if err != nil {
		slog.Error("Не удалось клонировать базовый шаблон", "error", err)
		http.Error(w, "Erreur interne du serveur", http.StatusInternalServerError)
		return
	}

	tmplToExecute, err = tmplToExecute.ParseFS(h.Pages, pageName)
	if err != nil {
		slog.Error("Не удалось загрузить шаблон страницы", "page", pageName, "error", err)
		http.Error(w, "Erreur interne du serveur (modèle de page)", http.StatusInternalServerError)
		return
	}

	var buf strings.Builder
	if err := tmplToExecute.ExecuteTemplate(&buf, "base.html", data); err != nil {
		slog.Error("Ошибка выполнения шаблона", "page", pageName, "error", err)
		http.Error(w, "Erreur interne du serveur", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = w.Write([]byte(buf.String()))
}

func (h *AppHandlers) flashSuccess(r *http.Request, msg string) {
	h.SessionManager.Put(r.Context(), "flash_success", msg)
}

func (h *AppHandlers) flashError(r *http.Request, msg string) {
	h.SessionManager.Put(r.Context(), "flash_error", msg)
}

// HealthHandler - проверка живости для балансировщика.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
