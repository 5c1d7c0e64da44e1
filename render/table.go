package render

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"minimarket/configuration"
	"minimarket/db"
	"minimarket/dispatcher"
	"minimarket/queries"
)

// Table is the view model of one module table fragment.
type Table struct {
	Module     string
	TabID      string
	TableID    string
	Title      string
	Singular   string
	Icon       string
	HasForm    bool
	NewURL     string
	Source     string
	Headers    []Header
	Rows       []Row
	Search     string
	Sort       string
	Order      string
	Page       int
	Limit      int
	Total      int
	TotalPages int
	From       int
	To         int
	PageList   []Link
	Pages      []Link
	Prev       *Link
	Next       *Link
	Texts      TableTexts
	Panel      *Panel
}

type Header struct {
	Field    string
	Title    string
	Width    int
	Align    string
	Sortable bool
	Active   bool
	Order    string
	Link     string
	Fragment string
}

type Row struct {
	ID    int64
	Cells []Cell
}

type Cell struct {
	HTML  template.HTML
	Align string
}

// Link points both at the full page (no script) and at the fragment the
// page script swaps in.
type Link struct {
	Label    string
	Href     string
	Fragment string
	Active   bool
}

type TableTexts struct {
	Search    string
	Empty     string
	PerPage   string
	Showing   string
	Of        string
	Records   string
	New       string
	Refresh   string
	SearchBtn string
}

// Panel replaces a table that could not be built.
type Panel struct {
	Title    string
	Message  string
	Retry    string
	RetryURL string
}

// Table builds the fragment of module. It never fails: a missing
// descriptor, a descriptor without columns and a list failure all yield
// an inline panel with a retry link.
func (r *Renderer) Table(ctx context.Context, module string, params dispatcher.ListParams) Table {
	module = queries.NormalizeModule(module)
	params = r.tableDefaults(params)

	t := Table{
		Module:   module,
		TabID:    r.desc.TabID(module),
		TableID:  r.desc.TableID(module),
		Title:    r.desc.Plural(module),
		Singular: r.desc.Singular(module),
		Icon:     r.desc.Icon(module),
		Search:   params.Search,
		Sort:     params.Sort,
		Order:    params.Order,
		Limit:    params.Limit,
		Texts:    r.tableTexts(),
	}
	t.Source = fragmentURL(module, tableQuery(params))

	m, ok := r.desc.Module(module)
	if !ok || len(m.ColumnasTablas) == 0 {
		r.log.Warnw("table without descriptor", "module", module, "found", ok)
		t.Panel = r.panel(module, t.Source)
		return t
	}
	t.HasForm = m.HasForm()
	if t.HasForm {
		t.NewURL = "/ui/" + module + "/new"
	}

	page, err := r.backend.List(ctx, module, params)
	if err != nil {
		r.log.Errorw("table list failed", "module", module, "error", err)
		t.Panel = r.panel(module, t.Source)
		return t
	}

	t.Page = page.Page
	t.Limit = page.Limit
	t.Total = page.Total
	t.TotalPages = page.TotalPages
	if page.Total > 0 {
		t.From = (page.Page-1)*page.Limit + 1
		t.To = t.From + len(page.Data) - 1
	}

	fm := newFormats(r.desc.Formateo(), module, t.Singular)
	formatters := make([]Formatter, len(m.ColumnasTablas))
	for i, col := range m.ColumnasTablas {
		formatters[i] = fm.column(col)
		t.Headers = append(t.Headers, r.header(module, col, params))
	}

	policy := cellSanitizer()
	for _, row := range page.Data {
		id, _ := db.Int64(row["id"])
		tr := Row{ID: id, Cells: make([]Cell, len(m.ColumnasTablas))}
		for i, col := range m.ColumnasTablas {
			out := formatters[i](row[col.Field], row)
			tr.Cells[i] = Cell{HTML: template.HTML(policy.Sanitize(out)), Align: col.Align}
		}
		t.Rows = append(t.Rows, tr)
	}

	t.paginate(params)
	for _, size := range r.desc.PageList() {
		p := params
		p.Page, p.Limit, p.Offset = 1, size, nil
		t.PageList = append(t.PageList, r.link(module, strconv.Itoa(size), p, size == page.Limit))
	}
	return t
}

// tableDefaults applies the document's table defaults to the params the
// request left empty.
func (r *Renderer) tableDefaults(p dispatcher.ListParams) dispatcher.ListParams {
	global := r.desc.Document().Tablas.ConfiguracionGlobal
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		def, _ := r.desc.Pagination()
		p.Limit = def
	}
	if p.Sort == "" {
		p.Sort = global.SortName
	}
	if p.Sort == "" {
		p.Sort = "id"
	}
	if p.Order == "" {
		p.Order = global.SortOrder
	}
	p.Order = strings.ToUpper(strings.TrimSpace(p.Order))
	if p.Order != "DESC" {
		p.Order = "ASC"
	}
	p.Search = strings.TrimSpace(p.Search)
	return p
}

func (r *Renderer) tableTexts() TableTexts {
	tt := r.desc.Document().Tablas.Textos
	get := func(key, fallback string) string {
		if v := tt[key]; v != "" {
			return v
		}
		return fallback
	}
	return TableTexts{
		Search:    get("buscar", "Buscar..."),
		Empty:     get("noEncontrado", "No se encontraron registros"),
		PerPage:   get("registrosPorPagina", "registros por página"),
		Showing:   get("mostrando", "Mostrando"),
		Of:        get("de", "de"),
		Records:   get("registros", "registros"),
		New:       r.text("botones", "nuevo", "Nuevo"),
		Refresh:   r.text("botones", "actualizar", "Actualizar"),
		SearchBtn: r.text("botones", "buscar", "Buscar"),
	}
}

func (r *Renderer) panel(module, retry string) *Panel {
	return &Panel{
		Title:    r.text("mensajes", "tablaNoDisponible", "Tabla no disponible"),
		Message:  fmt.Sprintf("No se pudo cargar la tabla para el módulo %s.", module),
		Retry:    r.text("botones", "reintentar", "Reintentar"),
		RetryURL: retry,
	}
}

// header links a sortable column to its next sort state: ascending
// first, toggled when already active.
func (r *Renderer) header(module string, col configuration.Column, params dispatcher.ListParams) Header {
	title := col.Title
	if title == "" {
		title = col.Field
	}
	h := Header{Field: col.Field, Title: title, Width: col.Width, Align: col.Align, Sortable: col.Sortable}
	if !col.Sortable {
		return h
	}
	h.Active = params.Sort == col.Field
	next := params
	next.Sort, next.Order, next.Page, next.Offset = col.Field, "ASC", 1, nil
	if h.Active {
		h.Order = params.Order
		if params.Order == "ASC" {
			next.Order = "DESC"
		}
	}
	l := r.link(module, title, next, h.Active)
	h.Link, h.Fragment = l.Href, l.Fragment
	return h
}

const pageWindow = 2

func (t *Table) paginate(params dispatcher.ListParams) {
	if t.TotalPages <= 1 {
		return
	}
	at := func(n int) Link {
		p := params
		p.Page, p.Offset = n, nil
		return pageLink(t.TabID, t.Module, strconv.Itoa(n), p, n == t.Page)
	}
	if t.Page > 1 {
		l := at(t.Page - 1)
		l.Label, l.Active = "«", false
		t.Prev = &l
	}
	if t.Page < t.TotalPages {
		l := at(t.Page + 1)
		l.Label, l.Active = "»", false
		t.Next = &l
	}
	first := t.Page - pageWindow
	if first < 1 {
		first = 1
	}
	last := t.Page + pageWindow
	if last > t.TotalPages {
		last = t.TotalPages
	}
	for n := first; n <= last; n++ {
		t.Pages = append(t.Pages, at(n))
	}
}

func (r *Renderer) link(module, label string, p dispatcher.ListParams, active bool) Link {
	return pageLink(r.desc.TabID(module), module, label, p, active)
}

func pageLink(tab, module, label string, p dispatcher.ListParams, active bool) Link {
	q := tableQuery(p)
	full := url.Values{"tab": {tab}}
	for k, v := range q {
		full[k] = v
	}
	return Link{
		Label:    label,
		Href:     "/?" + full.Encode(),
		Fragment: fragmentURL(module, q),
		Active:   active,
	}
}

func fragmentURL(module string, q url.Values) string {
	u := "/ui/" + module + "/table"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// tableQuery encodes the list params the way the router handler reads
// them back.
func tableQuery(p dispatcher.ListParams) url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	return q
}

// ListParams reads page, limit, offset, search, sort and order from a
// query string. Malformed numbers count as absent.
func ListParams(q url.Values) dispatcher.ListParams {
	p := dispatcher.ListParams{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	}
	p.Page, _ = strconv.Atoi(q.Get("page"))
	p.Limit, _ = strconv.Atoi(q.Get("limit"))
	if raw := q.Get("offset"); raw != "" {
		if off, err := strconv.Atoi(raw); err == nil {
			p.Offset = &off
		}
	}
	return p
}
