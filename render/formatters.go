package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"minimarket/configuration"
	"minimarket/db"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter turns a cell value into HTML. Output is sanitized by the
// table builder before it reaches a template.
type Formatter func(v any, row db.Row) string

var (
	cellPolicyOnce sync.Once
	cellPolicy     *bluemonday.Policy
)

func cellSanitizer() *bluemonday.Policy {
	cellPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("span", "code", "i", "div", "a", "form", "button", "small")
		p.AllowAttrs("class", "title", "role", "aria-label").Globally()
		p.AllowDataAttributes()
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("method", "action").OnElements("form")
		p.AllowAttrs("type").OnElements("button")
		p.AllowRelativeURLs(true)
		p.AllowURLSchemes("http", "https")
		cellPolicy = p
	})
	return cellPolicy
}

var rolColors = map[string]string{
	"ADMIN":      "danger",
	"CAJERO":     "primary",
	"BODEGUERO":  "success",
	"SUPERVISOR": "warning",
}

var moduloColors = map[string]string{
	"VENTA":    "primary",
	"TURNO":    "success",
	"PAGO":     "info",
	"TRASLADO": "warning",
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// formats holds what the column formatters need from the descriptor
// document.
type formats struct {
	conf     configuration.Formateo
	printer  *message.Printer
	module   string
	singular string
}

func newFormats(conf configuration.Formateo, module, singular string) *formats {
	tag, err := language.Parse(conf.Moneda.Locale)
	if err != nil {
		tag = language.MustParse("es-CL")
	}
	return &formats{
		conf:     conf,
		printer:  message.NewPrinter(tag),
		module:   module,
		singular: singular,
	}
}

// column picks the formatter of a column: the explicit formatter name
// first, then the field naming convention.
func (f *formats) column(col configuration.Column) Formatter {
	if fn, ok := f.named(col.Formatter); ok {
		return fn
	}

	field := col.Field
	switch {
	case field == "descripcion":
		return f.truncated
	case field == "created_at" || strings.HasPrefix(field, "fecha"):
		return f.date
	case strings.Contains(field, "precio"), field == "total", field == "subtotal", strings.HasPrefix(field, "monto"):
		return f.currency
	case field == "activo" || field == "activa" || field == "es_activo":
		return f.status
	case field == "operate":
		return f.actions
	case field == "tiene_iva":
		return f.iva
	case field == "rol":
		return f.colored(rolColors)
	case field == "es_principal":
		return f.principal
	case field == "modulo":
		return f.colored(moduloColors)
	case strings.HasPrefix(field, "requiere_"):
		return f.flag
	case field == "formula":
		return f.code
	case field == "categorias":
		return f.list
	}
	return f.text
}

func (f *formats) named(name string) (Formatter, bool) {
	switch name {
	case "":
		return nil, false
	case "truncate":
		return f.truncated, true
	case "date":
		return f.date, true
	case "currency":
		return f.currency, true
	case "status":
		return f.status, true
	case "operate":
		return f.actions, true
	case "flag":
		return f.flag, true
	case "code":
		return f.code, true
	case "list":
		return f.list, true
	case "text":
		return f.text, true
	}
	return nil, false
}

func (f *formats) empty() string {
	return `<span class="text-muted">` + html.EscapeString(f.conf.Texto.TextoVacio) + `</span>`
}

func (f *formats) text(v any, _ db.Row) string {
	if v == nil {
		return "-"
	}
	return html.EscapeString(stringOf(v))
}

func (f *formats) cut(s string) string {
	limit := f.conf.Texto.LongitudMaximaDescripcion
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + f.conf.Texto.Sufijo
}

func (f *formats) truncated(v any, _ db.Row) string {
	s := stringOf(v)
	if s == "" {
		return f.empty()
	}
	return fmt.Sprintf(`<span title="%s">%s</span>`, html.EscapeString(s), html.EscapeString(f.cut(s)))
}

func (f *formats) code(v any, _ db.Row) string {
	s := stringOf(v)
	if s == "" {
		return f.empty()
	}
	return fmt.Sprintf(`<code class="text-sm" title="%s">%s</code>`, html.EscapeString(s), html.EscapeString(f.cut(s)))
}

func (f *formats) date(v any, _ db.Row) string {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return f.empty()
	case time.Time:
		t = x
	default:
		s := strings.TrimSpace(stringOf(x))
		if s == "" {
			return f.empty()
		}
		var ok bool
		if t, ok = parseDate(s); !ok {
			return `<span class="text-muted">Fecha inválida</span>`
		}
	}
	return html.EscapeString(t.Format(f.conf.Fecha.Layout))
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (f *formats) currency(v any, _ db.Row) string {
	if v == nil {
		return f.empty()
	}
	n, ok := toFloat(v)
	if !ok {
		return html.EscapeString(stringOf(v))
	}
	amount := f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(f.conf.Moneda.Decimales)))
	return `<span class="text-end">` + html.EscapeString(f.conf.Moneda.Simbolo+" "+amount) + `</span>`
}

func (f *formats) status(v any, _ db.Row) string {
	if db.Truthy(v) {
		return `<span class="badge bg-success">Activo</span>`
	}
	return `<span class="badge bg-danger">Inactivo</span>`
}

func (f *formats) iva(v any, _ db.Row) string {
	if db.Truthy(v) {
		return `<span class="badge bg-info">` + html.EscapeString(f.conf.Bool.Verdadero) + `</span>`
	}
	return `<span class="badge bg-secondary">` + html.EscapeString(f.conf.Bool.Falso) + `</span>`
}

func (f *formats) principal(v any, _ db.Row) string {
	if db.Truthy(v) {
		return `<span class="badge bg-primary"><i class="fas fa-star"></i> Principal</span>`
	}
	return `<span class="badge bg-secondary">Secundaria</span>`
}

func (f *formats) flag(v any, _ db.Row) string {
	if db.Truthy(v) {
		return `<span class="badge bg-success"><i class="fas fa-check"></i></span>`
	}
	return `<span class="badge bg-secondary"><i class="fas fa-times"></i></span>`
}

func (f *formats) colored(colors map[string]string) Formatter {
	return func(v any, _ db.Row) string {
		s := stringOf(v)
		color, ok := colors[s]
		if !ok {
			color = "secondary"
		}
		return fmt.Sprintf(`<span class="badge bg-%s">%s</span>`, color, html.EscapeString(s))
	}
}

func (f *formats) list(v any, _ db.Row) string {
	s := stringOf(v)
	if s == "" {
		return `<span class="text-muted">Sin categorías</span>`
	}
	var b strings.Builder
	for _, item := range strings.Split(s, ", ") {
		b.WriteString(`<span class="badge bg-light text-dark me-1">`)
		b.WriteString(html.EscapeString(item))
		b.WriteString(`</span>`)
	}
	return b.String()
}

// actions renders edit and delete controls bound to the owning module.
func (f *formats) actions(_ any, row db.Row) string {
	id, ok := db.Int64(row["id"])
	if !ok {
		return ""
	}
	name := html.EscapeString(f.singular)
	base := fmt.Sprintf("/ui/%s/%d", f.module, id)
	return fmt.Sprintf(`<div class="btn-group btn-group-sm" role="group" aria-label="Acciones para %[1]s">`+
		`<a class="btn btn-outline-warning" href="%[2]s/edit" data-action="edit" data-module="%[3]s" title="Editar %[1]s"><i class="fas fa-edit fa-xs"></i></a>`+
		`<form method="post" action="%[2]s/delete" class="d-inline" data-confirm="¿Está seguro de eliminar este registro?">`+
		`<button type="submit" class="btn btn-outline-danger" data-action="delete" data-module="%[3]s" title="Eliminar %[1]s"><i class="fas fa-trash fa-xs"></i></button>`+
		`</form></div>`, name, base, html.EscapeString(f.module))
}

func stringOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		return f, err == nil
	}
	return 0, false
}
