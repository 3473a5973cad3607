// internal/handlers/lists.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"formadmin.fr/internal/listing"
	"formadmin.fr/internal/middleware"
	"formadmin.fr/internal/models"
	"formadmin.fr/internal/validation"
	"formadmin.fr/internal/workspace"
)

// Column - колонка таблицы списка.
type Column struct {
	Field string
	Title string
}

type Row struct {
	Key   string
	Img   string
	Cells []string
}

type EditField struct {
	Name  string
	Label string
	Value string
}

type EditView struct {
	Key    string
	Title  string
	Fields []EditField
}

// ListView - данные шаблона pages/list.html.
type ListView struct {
	Entity        string
	Title         string
	Path          string
	Columns       []Column
	Rows          []Row
	Query         string
	Category      string
	Categories    []string
	HasCategory   bool
	Page          int
	TotalPages    int
	TotalItems    int
	Links         []listing.PageLink
	HasPrev       bool
	HasNext       bool
	Prev          int
	Next          int
	ConfirmDelete bool
	LoadFailed    bool
	Editing       *EditView
}

type ConfirmView struct {
	Title    string
	Path     string
	Key      string
	Label    string
	Query    string
	Category string
	Page     string
}

// entityPage описывает страницу списка одной сущности.
type entityPage[T listing.Entity[T]] struct {
	app       *AppHandlers
	path      string
	title     string
	editTitle string
	columns   []Column
	labels    map[string]string
	slot      func(*workspace.Workspace) *workspace.Slot[T]
	fetch     func(workspace.Fetcher) func(context.Context) ([]T, error)
	label     func(T) string
	img       func(T) string
}

func trainerPage(app *AppHandlers) *entityPage[models.Trainer] {
	return &entityPage[models.Trainer]{
		app:       app,
		path:      "/formateurs",
		title:     "Formateurs",
		editTitle: "Modifier le formateur",
		columns: []Column{
			{Field: "name", Title: "Nom"},
			{Field: "phone", Title: "Téléphone"},
			{Field: "email", Title: "Email"},
			{Field: "ville", Title: "Ville"},
		},
		labels: map[string]string{"name": "Nom", "phone": "Téléphone", "email": "Email", "ville": "Ville"},
		slot:   func(w *workspace.Workspace) *workspace.Slot[models.Trainer] { return w.Trainers },
		fetch:  func(f workspace.Fetcher) func(context.Context) ([]models.Trainer, error) { return f.Trainers },
		label:  func(t models.Trainer) string { return t.Name },
		img:    func(t models.Trainer) string { return t.Img },
	}
}

func companyPage(app *AppHandlers) *entityPage[models.Company] {
	return &entityPage[models.Company]{
		app:       app,
		path:      "/entreprises",
		title:     "Entreprises",
		editTitle: "Modifier l'entreprise",
		columns: []Column{
			{Field: "entreprises", Title: "Entreprise"},
			{Field: "phone", Title: "Téléphone"},
			{Field: "email", Title: "Email"},
			{Field: "web", Title: "Site web"},
		},
		labels: map[string]string{"entreprises": "Entreprise", "phone": "Téléphone", "email": "Email", "web": "Site web"},
		slot:   func(w *workspace.Workspace) *workspace.Slot[models.Company] { return w.Companies },
		fetch:  func(f workspace.Fetcher) func(context.Context) ([]models.Company, error) { return f.Companies },
		label:  func(c models.Company) string { return c.Entreprises },
	}
}

func trainingPage(app *AppHandlers) *entityPage[models.Training] {
	return &entityPage[models.Training]{
		app:       app,
		path:      "/formations",
		title:     "Formations",
		editTitle: "Modifier la formation",
		columns: []Column{
			{Field: "name", Title: "Formation"},
			{Field: "phone", Title: "Téléphone"},
			{Field: "web", Title: "Site web"},
			{Field: "date", Title: "Date"},
		},
		labels: map[string]string{"name": "Formation", "phone": "Téléphone", "web": "Site web"},
		slot:   func(w *workspace.Workspace) *workspace.Slot[models.Training] { return w.Trainings },
		fetch:  func(f workspace.Fetcher) func(context.Context) ([]models.Training, error) { return f.Trainings },
		label:  func(t models.Training) string { return t.Name },
	}
}

// withList выполняет fn под мьютексом рабочего пространства с загруженным списком.
func (p *entityPage[T]) withList(w http.ResponseWriter, r *http.Request, fn func(slot *workspace.Slot[T], list *listing.List[T])) bool {
	ws, ok := middleware.WorkspaceFromContext(r.Context())
	if !ok {
		slog.Error("Рабочее пространство не найдено в контексте", "path", r.URL.Path)
		http.Error(w, "Erreur interne du serveur", http.StatusInternalServerError)
		return false
	}
	ws.Lock()
	defer ws.Unlock()
	slot := p.slot(ws)
	list := slot.Ensure(r.Context(), p.fetch(p.app.Source))
	fn(slot, list)
	return true
}

// returnQuery сохраняет поиск, фильтр и страницу для возврата к списку.
func returnQuery(values url.Values) string {
	q := url.Values{}
	for _, k := range []string{"q", "ville", "page"} {
		if v := values.Get(k); v != "" {
			q.Set(k, v)
		}
	}
	return q.Encode()
}

func (p *entityPage[T]) listURL(values url.Values) string {
	if rq := returnQuery(values); rq != "" {
		return p.path + "?" + rq
	}
	return p.path
}

// Index показывает отфильтрованную страницу списка.
func (p *entityPage[T]) Index(w http.ResponseWriter, r *http.Request) {
	params, errs := validation.ParseListParams(r.URL.Query())
	if errs != nil {
		slog.Debug("Некорректные параметры списка, используются значения по умолчанию", "entity", p.title, "errors", errs)
	}

	data := p.app.NewPageData(r)
	data.PageTitle = p.title

	ok := p.withList(w, r, func(slot *workspace.Slot[T], list *listing.List[T]) {
		schema := list.Schema()
		page := list.View(listing.Query{Text: params.Query, Category: params.Category}, params.Page)

		view := &ListView{
			Entity:        schema.Name,
			Title:         p.title,
			Path:          p.path,
			Columns:       p.columns,
			Query:         params.Query,
			Category:      params.Category,
			HasCategory:   schema.CategoryField != "",
			Page:          page.Number,
			TotalPages:    page.TotalPages,
			TotalItems:    page.TotalItems,
			Links:         listing.Window(page.Number, page.TotalPages, listing.WindowRadius),
			HasPrev:       page.HasPrev(),
			HasNext:       page.HasNext(),
			Prev:          page.Prev(),
			Next:          page.Next(),
			ConfirmDelete: schema.ConfirmDelete,
			LoadFailed:    slot.Err() != nil,
		}
		if view.Category == "" {
			view.Category = listing.AllCategories
		}
		if view.HasCategory {
			// "all" выводится шаблоном отдельной строкой.
			view.Categories = list.Categories()[1:]
		}

		for _, rec := range page.Items {
			row := Row{Key: rec.Key()}
			if p.img != nil {
				row.Img = p.img(rec)
			}
			for _, c := range p.columns {
				v, _ := rec.Field(c.Field)
				row.Cells = append(row.Cells, v)
			}
			view.Rows = append(view.Rows, row)
		}

		if session := list.Editing(); session != nil {
			view.Editing = p.editView(schema, session)
		}
		data.List = view
	})
	if !ok {
		return
	}
	p.app.RenderPage(w, r, "list.html", data)
}

func (p *entityPage[T]) editView(schema listing.Schema, session *listing.EditSession[T]) *EditView {
	draft := session.Draft()
	ev := &EditView{
		Key:   session.Key(),
		Title: p.editTitle,
	}
	for _, name := range schema.EditableFields {
		label := p.labels[name]
		if label == "" {
			label = name
		}
		ev.Fields = append(ev.Fields, EditField{Name: name, Label: label, Value: draft[name]})
	}
	return ev
}

// OpenEdit открывает сессию редактирования и возвращает к списку с открытым окном.
func (p *entityPage[T]) OpenEdit(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	ok := p.withList(w, r, func(_ *workspace.Slot[T], list *listing.List[T]) {
		err := list.OpenEdit(key)
		switch {
		case err == nil:
		case errors.Is(err, listing.ErrEditInProgress):
			if current := list.Editing(); current == nil || current.Key() != key {
				p.app.flashError(r, "Une modification est déjà en cours.")
			}
		case errors.Is(err, listing.ErrNotFound):
			p.app.flashError(r, "Enregistrement introuvable.")
		default:
			slog.Error("Не удалось открыть редактирование", "entity", p.title, "key", key, "error", err)
		}
	})
	if !ok {
		return
	}
	http.Redirect(w, r, p.listURL(r.URL.Query()), http.StatusSeeOther)
}

// SubmitEdit: action=save применяет все редактируемые поля формы, action=cancel закрывает окно.
func (p *entityPage[T]) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	key := r.PostForm.Get("key")
	action := r.PostForm.Get("action")

	ok := p.withList(w, r, func(_ *workspace.Slot[T], list *listing.List[T]) {
		session := list.Editing()
		if session == nil || session.Key() != key {
			p.app.flashError(r, "Aucune modification en cours pour cet enregistrement.")
			return
		}
		if action != "save" {
			_ = list.Cancel()
			return
		}
		for _, name := range list.Schema().EditableFields {
			if _, present := r.PostForm[name]; !present {
				continue
			}
			if err := list.UpdateField(name, r.PostForm.Get(name)); err != nil {
				slog.Warn("Поле не обновлено", "entity", p.title, "field", name, "error", err)
			}
		}
		if _, err := list.Commit(); err != nil {
			if errors.Is(err, listing.ErrRecordGone) {
				p.app.flashError(r, "L'enregistrement n'existe plus.")
				return
			}
			slog.Error("Не удалось сохранить запись", "entity", p.title, "key", key, "error", err)
			return
		}
		p.app.Metrics.Mutation(list.Schema().Name, "edit")
		p.app.flashSuccess(r, "Modifications enregistrées.")
	})
	if !ok {
		return
	}
	http.Redirect(w, r, p.listURL(r.PostForm), http.StatusSeeOther)
}

// ConfirmDelete показывает страницу подтверждения удаления.
func (p *entityPage[T]) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	data := p.app.NewPageData(r)
	data.PageTitle = p.title

	found := false
	ok := p.withList(w, r, func(_ *workspace.Slot[T], list *listing.List[T]) {
		rec, _, exists := list.Find(key)
		if !exists {
			return
		}
		found = true
		q := r.URL.Query()
		data.Confirm = &ConfirmView{
			Title:    p.title,
			Path:     p.path,
			Key:      key,
			Label:    p.label(rec),
			Query:    q.Get("q"),
			Category: q.Get("ville"),
			Page:     q.Get("page"),
		}
	})
	if !ok {
		return
	}
	if !found {
		http.Redirect(w, r, p.listURL(r.URL.Query()), http.StatusSeeOther)
		return
	}
	p.app.RenderPage(w, r, "confirm_delete.html", data)
}

// Delete удаляет запись по ключу. Для списков с подтверждением нужен confirm=oui.
func (p *entityPage[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	key := r.PostForm.Get("key")

	ok := p.withList(w, r, func(_ *workspace.Slot[T], list *listing.List[T]) {
		var confirm listing.Confirm[T]
		if list.Schema().ConfirmDelete {
			confirm = func(T) bool { return r.PostForm.Get("confirm") == "oui" }
		}
		rec, _, exists := list.Find(key)
		if !list.Delete(key, confirm) {
			return
		}
		p.app.Metrics.Mutation(list.Schema().Name, "delete")
		if exists {
			p.app.flashSuccess(r, fmt.Sprintf("« %s » a été supprimé.", p.label(rec)))
		}
	})
	if !ok {
		return
	}
	http.Redirect(w, r, p.listURL(r.PostForm), http.StatusSeeOther)
}

// Reload отбрасывает список сессии; он будет загружен заново при следующем показе.
func (p *entityPage[T]) Reload(w http.ResponseWriter, r *http.Request) {
	ws, ok := middleware.WorkspaceFromContext(r.Context())
	if !ok {
		http.Error(w, "Erreur interne du serveur", http.StatusInternalServerError)
		return
	}
	ws.Lock()
	p.slot(ws).Reset()
	ws.Unlock()
	slog.Info("Список сброшен по запросу", "entity", p.title, "workspace_id", ws.ID)
	http.Redirect(w, r, p.path, http.StatusSeeOther)
}

// register добавляет маршруты страницы в mux.
func (p *entityPage[T]) register(mux *http.ServeMux, confirmDelete bool) {
	mux.HandleFunc("GET "+p.path, p.Index)
	mux.HandleFunc("GET "+p.path+"/edit", p.OpenEdit)
	mux.HandleFunc("POST "+p.path+"/edit", p.SubmitEdit)
	mux.HandleFunc("POST "+p.path+"/delete", p.Delete)
	mux.HandleFunc("POST "+p.path+"/reload", p.Reload)
	if confirmDelete {
		mux.HandleFunc("GET "+p.path+"/delete", p.ConfirmDelete)
	}
}
