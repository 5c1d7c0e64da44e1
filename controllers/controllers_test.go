package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"minimarket/config"
	"minimarket/configuration"
	"minimarket/db"
	"minimarket/dispatcher"
	"minimarket/logger"
	"minimarket/queries"
	"minimarket/render"

	"github.com/gin-gonic/gin"
	"github.com/huandu/go-sqlbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type envelope struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Timestamp  string           `json:"timestamp"`
	ID         *int64           `json:"id"`
	Data       []map[string]any `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

func newTestController(t *testing.T) (*Controller, *dispatcher.Dispatcher) {
	t.Helper()
	conn, err := db.Connect(config.Configuration{Database: "sqlite3", DbPath: ":memory:", AutoMigrate: true}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	d := dispatcher.New(db.NewStore(conn, logger.Nop()), queries.Portable(sqlbuilder.SQLite))
	desc, err := configuration.Parse(configuration.Embedded(), "yaml", configuration.SourceStatic)
	require.NoError(t, err)
	ui, err := render.New(desc, d, nil)
	require.NoError(t, err)
	return New(d, ui, nil), d
}

func newEngine(ct *Controller) *gin.Engine {
	r := gin.New()
	r.Any("/router", ct.Dispatch)
	r.Any("/router/:id", ct.Dispatch)
	r.GET("/configuration", ct.Configuration)
	r.GET("/health", ct.Health)
	r.GET("/", ct.Index)
	r.GET("/ui/:module/table", ct.Table)
	r.GET("/ui/:module/new", ct.NewForm)
	r.GET("/ui/:module/:id/edit", ct.EditForm)
	r.POST("/ui/:module", ct.Submit)
	r.POST("/ui/:module/:id", ct.Submit)
	r.POST("/ui/:module/:id/delete", ct.Delete)
	return r
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func postForm(t *testing.T, h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	_, err := time.Parse(time.RFC3339, e.Timestamp)
	require.NoError(t, err)
	return e
}

func seedCategorias(t *testing.T, d *dispatcher.Dispatcher) {
	t.Helper()
	for _, nombre := range []string{"Bebidas", "Abarrotes", "Lácteos", "Limpieza", "Snacks"} {
		_, err := d.Create(context.Background(), "categorias", map[string]any{"nombre": nombre})
		require.NoError(t, err)
	}
}

func TestRouterListsCategorias(t *testing.T) {
	ct, d := newTestController(t)
	seedCategorias(t, d)

	w := serve(t, newEngine(ct), http.MethodGet, "/router?module=categorias&page=1&limit=2&sort=nombre&order=ASC", "")
	require.Equal(t, http.StatusOK, w.Code)

	e := decode(t, w)
	assert.True(t, e.Success)
	assert.Equal(t, "Datos obtenidos", e.Message)
	require.Len(t, e.Data, 2)
	assert.Equal(t, "Abarrotes", e.Data[0]["nombre"])
	assert.Equal(t, "Bebidas", e.Data[1]["nombre"])
	assert.Equal(t, 5, e.Total)
	assert.Equal(t, 1, e.Page)
	assert.Equal(t, 2, e.Limit)
	assert.Equal(t, 3, e.TotalPages)
}

func TestRouterEmptyListIsArray(t *testing.T) {
	ct, _ := newTestController(t)

	w := serve(t, newEngine(ct), http.MethodGet, "/router?module=bodegas", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestRouterWriteCycle(t *testing.T) {
	ct, d := newTestController(t)
	h := newEngine(ct)

	w := serve(t, h, http.MethodPost, "/router?module=categorias", `{"nombre":"Bebidas","activo":true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	e := decode(t, w)
	assert.True(t, e.Success)
	assert.Equal(t, "Categorias creado exitosamente", e.Message)
	require.NotNil(t, e.ID)
	assert.Equal(t, int64(1), *e.ID)

	w = serve(t, h, http.MethodPut, "/router/1?module=categorias", `{"nombre":"Gaseosas"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Categorias actualizado exitosamente", decode(t, w).Message)

	row, err := d.Find(context.Background(), "categorias", 1)
	require.NoError(t, err)
	assert.Equal(t, "Gaseosas", row["nombre"])

	w = serve(t, h, http.MethodPut, "/router?module=categorias&id=99", `{"nombre":"X"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Registro no encontrado o no se pudo actualizar", decode(t, w).Message)

	w = serve(t, h, http.MethodDelete, "/router?module=categorias&id=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Categorias eliminado exitosamente", decode(t, w).Message)

	w = serve(t, h, http.MethodDelete, "/router/99?module=categorias", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Registro no encontrado", decode(t, w).Message)
}

func TestRouterHyphenatedModule(t *testing.T) {
	ct, _ := newTestController(t)

	w := serve(t, newEngine(ct), http.MethodPost, "/router?module=tipos-documento", `{"codigo":"BOL","nombre":"Boleta","serie":"B1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Tipos_documento creado exitosamente", decode(t, w).Message)
}

func TestRouterRejections(t *testing.T) {
	ct, _ := newTestController(t)
	h := newEngine(ct)

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		status  int
		message string
		prefix  bool
	}{
		{"missing module", http.MethodGet, "/router", "", http.StatusBadRequest, `Parámetro "module" requerido. Módulos disponibles: categorias`, true},
		{"unknown module", http.MethodGet, "/router?module=clientes", "", http.StatusBadRequest, "Módulo no válido. Módulos disponibles: categorias", true},
		{"malformed json", http.MethodPost, "/router?module=categorias", "{nombre", http.StatusBadRequest, "Datos JSON inválidos. Input recibido: {nombre", false},
		{"empty object", http.MethodPost, "/router?module=categorias", "{}", http.StatusBadRequest, "Datos JSON inválidos. Input recibido: {}", false},
		{"empty body", http.MethodPost, "/router?module=categorias", "", http.StatusBadRequest, "Datos JSON inválidos. Input recibido: ", false},
		{"update without id", http.MethodPut, "/router?module=categorias", `{"nombre":"x"}`, http.StatusBadRequest, "ID requerido para actualización", false},
		{"delete without id", http.MethodDelete, "/router?module=categorias", "", http.StatusBadRequest, "ID requerido para eliminación", false},
		{"bad id", http.MethodDelete, "/router/abc?module=categorias", "", http.StatusBadRequest, "ID requerido para eliminación", false},
		{"list only module", http.MethodPost, "/router?module=ventas", `{"total":1}`, http.StatusBadRequest, "Método crear no implementado para: ventas", false},
		{"method", http.MethodPatch, "/router?module=categorias", "", http.StatusMethodNotAllowed, "Método no permitido", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code)
			e := decode(t, w)
			assert.False(t, e.Success)
			if tt.prefix {
				assert.True(t, strings.HasPrefix(e.Message, tt.message), e.Message)
			} else {
				assert.Equal(t, tt.message, e.Message)
			}
		})
	}
}

func TestRouterOptionsAlwaysOK(t *testing.T) {
	ct, _ := newTestController(t)
	h := newEngine(ct)

	for _, target := range []string{"/router", "/router?module=clientes", "/router/3?module=productos"} {
		w := serve(t, h, http.MethodOptions, target, "")
		assert.Equal(t, http.StatusOK, w.Code, target)
		e := decode(t, w)
		assert.True(t, e.Success)
		assert.Equal(t, "OK", e.Message)
	}
}

func TestConfigurationEndpoint(t *testing.T) {
	ct, _ := newTestController(t)

	w := serve(t, newEngine(ct), http.MethodGet, "/configuration", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc, "modulos")

	w = serve(t, newEngine(New(nil, nil, nil)), http.MethodGet, "/configuration", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	e := decode(t, w)
	assert.False(t, e.Success)
	assert.Equal(t, "No se pudo obtener la configuración", e.Message)
}

func TestHealth(t *testing.T) {
	ct, _ := newTestController(t)

	w := serve(t, newEngine(ct), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"descriptors":"static"`)
}

func TestIndexAndTableFragment(t *testing.T) {
	ct, d := newTestController(t)
	seedCategorias(t, d)
	h := newEngine(ct)

	w := serve(t, h, http.MethodGet, "/?tab=categorias&notice=success&msg=Listo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "Categorías")
	assert.Contains(t, body, "Listo")
	assert.Contains(t, body, "Abarrotes")

	w = serve(t, h, http.MethodGet, "/ui/categorias/table?search=beb", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), "module-table")
	assert.Contains(t, w.Body.String(), "Bebidas")
	assert.NotContains(t, w.Body.String(), "Abarrotes")
}

func TestFormPages(t *testing.T) {
	ct, d := newTestController(t)
	seedCategorias(t, d)
	h := newEngine(ct)

	w := serve(t, h, http.MethodGet, "/ui/categorias/new", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="formModal"`)
	assert.Contains(t, w.Body.String(), `action="/ui/categorias"`)

	w = serve(t, h, http.MethodGet, "/ui/categorias/2/edit", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/ui/categorias/2"`)
	assert.Contains(t, w.Body.String(), `value="Abarrotes"`)

	w = serve(t, h, http.MethodGet, "/ui/categorias/99/edit", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, h, http.MethodGet, "/ui/categorias/abc/edit", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "id inválido")

	w = serve(t, h, http.MethodGet, "/ui/ventas/new", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitAndDeleteRedirect(t *testing.T) {
	ct, d := newTestController(t)
	h := newEngine(ct)

	w := postForm(t, h, "/ui/categorias", url.Values{"nombre": {"Bebidas"}, "activo": {"0", "1"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	loc := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/?"))
	assert.Contains(t, loc, "notice=success")

	page, err := d.List(context.Background(), "categorias", dispatcher.ListParams{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Bebidas", page.Data[0]["nombre"])

	w = postForm(t, h, "/ui/categorias/1", url.Values{"nombre": {"Gaseosas"}, "activo": {"0", "1"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	w = postForm(t, h, "/ui/categorias/1/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "notice=success")

	w = postForm(t, h, "/ui/categorias/1/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "notice=error")
}

func TestSubmitInvalidFormIsRerendered(t *testing.T) {
	ct, _ := newTestController(t)

	w := postForm(t, newEngine(ct), "/ui/categorias", url.Values{"nombre": {"  "}, "activo": {"0"}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="formModal"`)
	assert.Contains(t, body, "is-invalid")
	assert.Contains(t, body, "autofocus")
}

func TestParseID(t *testing.T) {
	assert.Equal(t, int64(12), ParseID(" 12 "))
	assert.Zero(t, ParseID("0"))
	assert.Zero(t, ParseID("-3"))
	assert.Zero(t, ParseID("x"))
	assert.Zero(t, ParseID(""))
}
