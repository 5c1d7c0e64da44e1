package configuration

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"minimarket/queries"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed minimarket.yaml
var embedded []byte

// Embedded returns the descriptor document compiled into the binary.
func Embedded() []byte {
	return embedded
}

var defaultExclusions = map[string]Exclusion{
	"*":               {Actualizacion: []string{"created_at", "updated_at", "password"}},
	"productos":       {Actualizacion: []string{"categoria_ids", "stock_actual", "stock_minimo"}},
	"usuarios":        {Actualizacion: []string{"password"}},
	"tipos_documento": {Actualizacion: []string{"correlativo_actual"}},
}

// Descriptors is a loaded, read-only descriptor document.
type Descriptors struct {
	doc      Document
	raw      []byte
	source   string
	warnings []string
}

// Parse decodes a descriptor document. format is "json" or "yaml".
// Structural problems become warnings, never errors.
func Parse(data []byte, format, source string) (*Descriptors, error) {
	var doc Document
	switch format {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decodificando configuración json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decodificando configuración yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("formato de configuración desconocido: %q", format)
	}

	d := &Descriptors{doc: doc, source: source}
	if format == "json" {
		d.raw = append([]byte(nil), data...)
	}
	d.complete()
	d.warnings = validate(&d.doc)
	return d, nil
}

func (d *Descriptors) complete() {
	if d.doc.Modulos == nil {
		d.doc.Modulos = map[string]*Module{}
	}
	for name, m := range d.doc.Modulos {
		if m == nil {
			m = &Module{}
			d.doc.Modulos[name] = m
		}
		m.Name = name
	}
	if d.doc.Exclusiones == nil {
		d.doc.Exclusiones = defaultExclusions
	}
	if d.doc.Formateo.Texto.LongitudMaximaDescripcion <= 0 {
		d.doc.Formateo.Texto.LongitudMaximaDescripcion = 50
	}
	if d.doc.Formateo.Texto.Sufijo == "" {
		d.doc.Formateo.Texto.Sufijo = "..."
	}
	if d.doc.Formateo.Moneda.Simbolo == "" {
		d.doc.Formateo.Moneda.Simbolo = "$"
	}
	if d.doc.Formateo.Moneda.SeparadorMiles == "" {
		d.doc.Formateo.Moneda.SeparadorMiles = "."
	}
	if d.doc.Formateo.Fecha.Layout == "" {
		d.doc.Formateo.Fecha.Layout = "02-01-2006"
	}
}

func validate(doc *Document) []string {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	var warnings []string
	if err := v.Struct(doc); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []string{err.Error()}
		}
		for _, fe := range verrs {
			ns := strings.TrimPrefix(fe.Namespace(), "Document.")
			warnings = append(warnings, fmt.Sprintf("%s no cumple %q", ns, fe.Tag()))
		}
	}
	for _, name := range sortedKeys(doc.Modulos) {
		m := doc.Modulos[name]
		if m.TieneFormulario != nil && *m.TieneFormulario && len(m.ColumnasFormulario) == 0 {
			warnings = append(warnings, fmt.Sprintf("Módulo %s no tiene columnasFormulario configuradas", name))
		}
	}
	return warnings
}

// Warnings lists the structural problems found at load time.
func (d *Descriptors) Warnings() []string {
	return append([]string(nil), d.warnings...)
}

// Source names where the document came from.
func (d *Descriptors) Source() string {
	return d.source
}

// Check reports modules of the allow-list that have no descriptor.
func (d *Descriptors) Check(modules []string) []string {
	var out []string
	for _, m := range modules {
		if _, ok := d.doc.Modulos[m]; !ok {
			out = append(out, fmt.Sprintf("Módulo %s sin descriptor", m))
		}
	}
	return out
}

// Document returns a copy of the top level document. Nested maps and
// slices are shared and must not be modified.
func (d *Descriptors) Document() Document {
	return d.doc
}

// JSON returns the document as served on /configuration: the raw
// bytes when it was loaded from JSON, a re-encoding otherwise.
func (d *Descriptors) JSON() ([]byte, error) {
	if d.raw != nil {
		return d.raw, nil
	}
	return json.Marshal(d.doc)
}

// Modules returns the module names in tab order: mapeos.ordenPestanas,
// else ordenModulos, then any remaining descriptors alphabetically.
func (d *Descriptors) Modules() []string {
	order := d.doc.Mapeos.OrdenPestanas
	if len(order) == 0 {
		order = d.doc.OrdenModulos
	}

	seen := map[string]bool{}
	out := make([]string, 0, len(d.doc.Modulos))
	for _, name := range order {
		name = queries.NormalizeModule(name)
		if _, ok := d.doc.Modulos[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, name := range sortedKeys(d.doc.Modulos) {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out
}

// Module returns the descriptor of name. The returned slices are shared.
func (d *Descriptors) Module(name string) (Module, bool) {
	m, ok := d.doc.Modulos[queries.NormalizeModule(name)]
	if !ok {
		return Module{}, false
	}
	return *m, true
}

func (d *Descriptors) Singular(name string) string {
	if m, ok := d.Module(name); ok && m.Singular != "" {
		return m.Singular
	}
	return name
}

func (d *Descriptors) Plural(name string) string {
	if m, ok := d.Module(name); ok && m.Plural != "" {
		return m.Plural
	}
	return name + "s"
}

func (d *Descriptors) Icon(name string) string {
	if m, ok := d.Module(name); ok && m.Icono != "" {
		return m.Icono
	}
	return "fas fa-cube"
}

// TabID resolves the tab element id: descriptor, then mapeos, then the
// module name with underscores turned into hyphens.
func (d *Descriptors) TabID(name string) string {
	name = queries.NormalizeModule(name)
	if m, ok := d.Module(name); ok && m.TabID != "" {
		return m.TabID
	}
	if id := d.doc.Mapeos.ModuloToTabID[name]; id != "" {
		return id
	}
	return strings.ReplaceAll(name, "_", "-")
}

// TableID resolves the table element id: descriptor, then mapeos, then
// "tabla" + PascalCase(module).
func (d *Descriptors) TableID(name string) string {
	name = queries.NormalizeModule(name)
	if m, ok := d.Module(name); ok && m.TableID != "" {
		return m.TableID
	}
	if id := d.doc.Mapeos.ModuloToTableID[name]; id != "" {
		return id
	}
	return "tabla" + pascal(name)
}

// ModuleForTab maps a tab id back to its module.
func (d *Descriptors) ModuleForTab(tab string) (string, bool) {
	for name := range d.doc.Modulos {
		if d.TabID(name) == tab {
			return name, true
		}
	}
	return "", false
}

// FormTitle is "Nuevo <singular>" for creation and
// "Editar <singular> #<id>" for edition.
func (d *Descriptors) FormTitle(name string, id int64) string {
	if id > 0 {
		return fmt.Sprintf("Editar %s #%d", d.Singular(name), id)
	}
	return "Nuevo " + d.Singular(name)
}

// Excluded reports whether field is left out of the form of module when
// creating (editing false) or updating (editing true).
func (d *Descriptors) Excluded(module, field string, editing bool) bool {
	module = queries.NormalizeModule(module)
	for _, key := range []string{"*", module} {
		ex, ok := d.doc.Exclusiones[key]
		if !ok {
			continue
		}
		list := ex.Creacion
		if editing {
			list = ex.Actualizacion
		}
		for _, f := range list {
			if f == field {
				return true
			}
		}
	}
	return false
}

// FormFields returns the fields of module that take part in a create
// (editing false) or update form.
func (d *Descriptors) FormFields(module string, editing bool) []Field {
	m, ok := d.Module(module)
	if !ok {
		return nil
	}
	out := make([]Field, 0, len(m.ColumnasFormulario))
	for _, f := range m.ColumnasFormulario {
		if !d.Excluded(module, f.Name, editing) {
			out = append(out, f)
		}
	}
	return out
}

// Lookups returns the fields of module whose options come from another
// module.
func (d *Descriptors) Lookups(module string) []Field {
	m, ok := d.Module(module)
	if !ok {
		return nil
	}
	var out []Field
	for _, f := range m.ColumnasFormulario {
		if f.DependsOnLookup != "" {
			out = append(out, f)
		}
	}
	return out
}

// Rule returns the validation rule for field in module, if any.
func (d *Descriptors) Rule(module, field string) (Rule, bool) {
	r, ok := d.doc.Validaciones.PorModulo[queries.NormalizeModule(module)][field]
	return r, ok
}

// GlobalRule returns a global rule: requerido, email, telefono, rut,
// numero or texto.
func (d *Descriptors) GlobalRule(name string) (Rule, bool) {
	r, ok := d.doc.Validaciones.Globales[name]
	return r, ok
}

// Pagination returns the default and maximum page sizes, zero when the
// document does not set them.
func (d *Descriptors) Pagination() (int, int) {
	def := d.doc.API.Paginacion.DefaultLimit
	if def <= 0 {
		def = d.doc.Tablas.ConfiguracionGlobal.PageSize
	}
	return def, d.doc.API.Paginacion.MaxLimit
}

func (d *Descriptors) PageList() []int {
	if l := d.doc.Tablas.ConfiguracionGlobal.PageList; len(l) > 0 {
		return l
	}
	return []int{10, 25, 50, 100}
}

// Text returns textos[group][key], or fallback.
func (d *Descriptors) Text(group, key, fallback string) string {
	if v := d.doc.Textos[group][key]; v != "" {
		return v
	}
	return fallback
}

func (d *Descriptors) Formateo() Formateo {
	return d.doc.Formateo
}

// NotificationDuration is the auto dismiss delay in milliseconds.
func (d *Descriptors) NotificationDuration() int {
	if d.doc.Notificaciones.Duracion > 0 {
		return d.doc.Notificaciones.Duracion
	}
	return 5000
}

func pascal(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

func sortedKeys(m map[string]*Module) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
