package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formadmin.fr/internal/config"
	"formadmin.fr/internal/dashboard"
	"formadmin.fr/internal/metrics"
	"formadmin.fr/internal/middleware"
	"formadmin.fr/internal/models"
	"formadmin.fr/internal/periods"
	"formadmin.fr/internal/workspace"
	"formadmin.fr/web"
)

type fakeSource struct {
	trainingCalls atomic.Int32
	trainingsErr  error
}

func (f *fakeSource) Trainers(ctx context.Context) ([]models.Trainer, error) {
	out := make([]models.Trainer, 0, 12)
	for i := 1; i <= 12; i++ {
		ville := "Paris"
		if i%2 == 1 {
			ville = "Lyon"
		}
		out = append(out, models.Trainer{
			ID:    fmt.Sprintf("t%d", i),
			Name:  fmt.Sprintf("Formateur %02d", i),
			Email: fmt.Sprintf("f%02d@example.fr", i),
			Ville: ville,
		})
	}
	return out, nil
}

func (f *fakeSource) Companies(ctx context.Context) ([]models.Company, error) {
	return []models.Company{
		{ID: "c1", Entreprises: "Acme SARL", Web: "http://acme.fr"},
		{ID: "c2", Entreprises: "Zenith", Web: "http://zenith.fr"},
	}, nil
}

func (f *fakeSource) Trainings(ctx context.Context) ([]models.Training, error) {
	f.trainingCalls.Add(1)
	if f.trainingsErr != nil {
		return nil, f.trainingsErr
	}
	return []models.Training{{ID: "g1", Name: "Go avancé"}}, nil
}

func (f *fakeSource) ChartTable(ctx context.Context) (periods.ChartTable, bool, error) {
	return nil, false, nil
}

func (f *fakeSource) StatTable(ctx context.Context) (periods.StatTable, bool, error) {
	return nil, false, nil
}

type testEnv struct {
	srv     *httptest.Server
	client  *http.Client
	source  *fakeSource
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{SiteName: "Formadmin", BaseURL: "", AppEnv: "test"}
	sm := scs.New()
	m := metrics.New()
	registry := workspace.NewRegistry(time.Hour, m)
	src := &fakeSource{}

	app, err := NewAppHandlers(cfg, web.Templates(), sm, registry, src, m)
	require.NoError(t, err)
	app.Now = func() time.Time { return time.Date(2026, 2, 17, 10, 0, 0, 0, time.UTC) }

	srv := httptest.NewServer(sm.LoadAndSave(middleware.InjectWorkspace(sm, registry)(Routes(app))))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{srv: srv, client: &http.Client{Jar: jar}, source: src, metrics: m}
}

func (e *testEnv) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.srv.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestTrainerList_FilterByCity(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.get(t, "/formateurs?ville=Lyon")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Formateur 01")
	assert.Contains(t, body, "Formateur 09")
	assert.NotContains(t, body, "Formateur 02")
	assert.NotContains(t, body, "Formateur 11")
	assert.Contains(t, body, "6 enregistrement(s)")

	assert.Equal(t, 1, strings.Count(body, `<option value="all"`))
	assert.Contains(t, body, `<option value="Lyon" selected>Lyon</option>`)
	assert.Contains(t, body, `<option value="Paris">Paris</option>`)
}

func TestTrainerList_SearchIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.get(t, "/formateurs?q=F07%40EXAMPLE")
	assert.Contains(t, body, "Formateur 07")
	assert.Contains(t, body, "1 enregistrement(s)")
}

func TestTrainerList_PageIsClamped(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.get(t, "/formateurs?page=99")
	assert.Contains(t, body, `<span class="current">3</span>`)
	assert.Contains(t, body, "Formateur 12")
	assert.NotContains(t, body, "Formateur 01")

	_, body = env.get(t, "/formateurs?page=abc")
	assert.Contains(t, body, `<span class="current">1</span>`)
}

func TestEdit_SaveUpdatesRecord(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.get(t, "/formateurs/edit?key=t3")
	assert.Contains(t, body, "Modifier le formateur")
	assert.Contains(t, body, `value="Formateur 03"`)

	form := url.Values{
		"key":    {"t3"},
		"action": {"save"},
		"name":   {"Hélène Martin"},
		"phone":  {"0102030405"},
		"email":  {"helene@example.fr"},
		"ville":  {"Lyon"},
	}
	code, body := env.post(t, "/formateurs/edit", form)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Modifications enregistrées.")
	assert.Contains(t, body, "Hélène Martin")
	assert.NotContains(t, body, "Formateur 03")
	assert.NotContains(t, body, "Modifier le formateur")

	env.assertMutations(t, `formadmin_list_mutations_total{entity="formateurs",op="edit"} 1`)
}

func (e *testEnv) assertMutations(t *testing.T, lines ...string) {
	t.Helper()
	expected := "# HELP formadmin_list_mutations_total Edits and deletions applied to session lists.\n" +
		"# TYPE formadmin_list_mutations_total counter\n" +
		strings.Join(lines, "\n") + "\n"
	assert.NoError(t, testutil.GatherAndCompare(e.metrics.Registry(), strings.NewReader(expected), "formadmin_list_mutations_total"))
}

func TestEdit_CancelKeepsRecord(t *testing.T) {
	env := newTestEnv(t)

	env.get(t, "/formateurs/edit?key=t1")
	_, body := env.post(t, "/formateurs/edit", url.Values{
		"key":    {"t1"},
		"action": {"cancel"},
		"name":   {"Ignoré"},
	})
	assert.Contains(t, body, "Formateur 01")
	assert.NotContains(t, body, "Ignoré")
	assert.NotContains(t, body, "Modifier le formateur")
}

func TestEdit_SecondSessionIsRejected(t *testing.T) {
	env := newTestEnv(t)

	env.get(t, "/formateurs/edit?key=t1")
	_, body := env.get(t, "/formateurs/edit?key=t2")
	assert.Contains(t, body, "Une modification est déjà en cours.")
	assert.Contains(t, body, `value="Formateur 01"`)
}

func TestDeleteTrainer_RequiresConfirmation(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.get(t, "/formateurs/delete?key=t1")
	assert.Contains(t, body, "Êtes-vous sûr de vouloir supprimer Formateur 01 ?")

	_, body = env.post(t, "/formateurs/delete", url.Values{"key": {"t1"}})
	assert.Contains(t, body, "Formateur 01")
	assert.Contains(t, body, "12 enregistrement(s)")

	_, body = env.post(t, "/formateurs/delete", url.Values{"key": {"t1"}, "confirm": {"oui"}})
	assert.Contains(t, body, "« Formateur 01 » a été supprimé.")
	assert.Contains(t, body, "11 enregistrement(s)")

	env.assertMutations(t, `formadmin_list_mutations_total{entity="formateurs",op="delete"} 1`)
}

func TestDeleteCompany_NoConfirmation(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.post(t, "/entreprises/delete", url.Values{"key": {"c1"}})
	assert.NotContains(t, body, `data-key="c1"`)
	assert.Contains(t, body, `data-key="c2"`)
	assert.Contains(t, body, "« Acme SARL » a été supprimé.")
	assert.Contains(t, body, "1 enregistrement(s)")

	code, _ := env.get(t, "/entreprises/delete?key=c2")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestDelete_UnknownKeyIsNoop(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.post(t, "/entreprises/delete", url.Values{"key": {"absent"}})
	assert.Contains(t, body, "2 enregistrement(s)")
}

func TestTrainings_FetchFailureShowsEmptyList(t *testing.T) {
	env := newTestEnv(t)
	env.source.trainingsErr = errors.New("connexion refusée")

	code, body := env.get(t, "/formations")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Impossible de charger les données.")
	assert.Contains(t, body, "Aucun résultat.")

	env.get(t, "/formations")
	assert.Equal(t, int32(1), env.source.trainingCalls.Load())

	env.source.trainingsErr = nil
	_, body = env.post(t, "/formations/reload", nil)
	assert.Contains(t, body, "Go avancé")
	assert.Equal(t, int32(2), env.source.trainingCalls.Load())
}

func TestDashboard_CardsAndMonthSelection(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.get(t, "/")
	require.Equal(t, http.StatusOK, code)
	// html/template экранирует "+" как &#43;
	assert.Contains(t, body, "&#43;11.05%")
	assert.Contains(t, body, "février 2026")
	assert.Contains(t, body, `<option value="" selected>Ce mois-ci</option>`)
	assert.NotContains(t, body, `<option value="février 2026" selected>`)
	assert.Contains(t, body, "Négociations &amp; missions")
	assert.Contains(t, body, "Inscrits")

	_, body = env.get(t, "/?card=Formateurs&month="+url.QueryEscape("janvier 2026"))
	assert.Contains(t, body, "&#43;9%")
	assert.Contains(t, body, `<option value="janvier 2026" selected>janvier 2026</option>`)
	assert.Contains(t, body, "250")

	_, body = env.get(t, "/?card=Formateurs&month=")
	assert.Contains(t, body, "&#43;11.05%")
	assert.NotContains(t, body, `<option value="janvier 2026" selected>`)
}

func TestBuildDashboardView_CardPercent(t *testing.T) {
	h := &AppHandlers{Now: func() time.Time { return time.Date(2026, 2, 17, 10, 0, 0, 0, time.UTC) }}
	state := dashboard.NewState()

	view := buildDashboardView(state, h)
	require.Len(t, view.Cards, 3)
	assert.Equal(t, "+11.05%", view.Cards[0].Percent)
	assert.True(t, view.Cards[0].Positive)
	assert.False(t, view.Cards[0].MonthChosen)
	for _, m := range view.Cards[0].Months {
		assert.False(t, m.Selected, m.Label)
	}

	state.SelectMonth("Formateurs", "mars 2025")
	view = buildDashboardView(state, h)
	assert.Equal(t, "-2%", view.Cards[0].Percent)
	assert.False(t, view.Cards[0].Positive)
	assert.True(t, view.Cards[0].MonthChosen)
	assert.True(t, view.Cards[0].Months[11].Selected)
}

func TestDashboard_UnknownSelectionIsIgnored(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.get(t, "/?panel=analytics&tab=Inconnu&period=demain")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `class="active">Formateurs</a>`)
}

func TestChartAPI(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.get(t, "/api/dashboard/chart?panel=analytics&tab=Entreprises&period="+url.QueryEscape("mois dernier"))
	require.Equal(t, http.StatusOK, code)

	var resp chartResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "Entreprises", resp.Tab)
	assert.Equal(t, "moisdernier", resp.Period)
	assert.Equal(t, "mois dernier", resp.Label)
	assert.Equal(t, "Mois dernier", resp.Display)
	key, ok := periods.LabelToKey(resp.Label)
	require.True(t, ok)
	assert.Equal(t, resp.Period, string(key))
	require.Len(t, resp.Series, 3)
	assert.Equal(t, "Inscrits", resp.Series[1].Name)
	assert.Equal(t, 60.0, resp.Series[1].Percent)
	assert.False(t, resp.Stale)

	_, page := env.get(t, "/")
	assert.Contains(t, page, `class="active">Entreprises</a>`)
}

func TestChartAPI_RejectsBadParams(t *testing.T) {
	env := newTestEnv(t)

	for _, query := range []string{
		"panel=analytics&tab=Formateurs&period=demain",
		"panel=camembert&tab=Formateurs&period=cemois",
		"panel=negotiation&tab=Formateurs&period=cemois",
		"",
	} {
		code, _ := env.get(t, "/api/dashboard/chart?"+query)
		assert.Equal(t, http.StatusBadRequest, code, query)
	}
}

func TestFormatTotal(t *testing.T) {
	assert.Equal(t, "42", formatTotal(42))
	assert.NotEqual(t, "15000", formatTotal(15000))
	assert.Contains(t, formatTotal(15000), "000")
}

func TestHealthHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}
