package configuration

import (
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the descriptor document served to the admin UI. Keys keep
// the camelCase names the stored procedure returns.
type Document struct {
	Sistema        Sistema                      `json:"sistema" yaml:"sistema"`
	Branding       Branding                     `json:"branding" yaml:"branding"`
	Textos         map[string]map[string]string `json:"textos,omitempty" yaml:"textos"`
	Notificaciones Notificaciones               `json:"notificaciones" yaml:"notificaciones"`
	Tablas         Tablas                       `json:"tablas" yaml:"tablas"`
	Formateo       Formateo                     `json:"formateo" yaml:"formateo"`
	Validaciones   Validaciones                 `json:"validaciones" yaml:"validaciones"`
	Modulos        map[string]*Module           `json:"modulos" yaml:"modulos" validate:"required,dive"`
	OrdenModulos   []string                     `json:"ordenModulos,omitempty" yaml:"ordenModulos"`
	Mapeos         Mapeos                       `json:"mapeos" yaml:"mapeos"`
	Exclusiones    map[string]Exclusion         `json:"exclusiones,omitempty" yaml:"exclusiones"`
	API            API                          `json:"api" yaml:"api"`
}

type Sistema struct {
	Nombre  string `json:"nombre" yaml:"nombre"`
	Version string `json:"version" yaml:"version"`
	Empresa string `json:"empresa" yaml:"empresa"`
}

type Branding struct {
	Nombre      string            `json:"nombre" yaml:"nombre"`
	NombreCorto string            `json:"nombreCorto" yaml:"nombreCorto"`
	Logo        string            `json:"logo" yaml:"logo"`
	Empresa     string            `json:"empresa" yaml:"empresa"`
	Slogan      string            `json:"slogan" yaml:"slogan"`
	Colores     map[string]string `json:"colores,omitempty" yaml:"colores"`
}

type Notificaciones struct {
	// Duracion em milissegundos; erros nunca somem sozinhos.
	Duracion   int `json:"duracion" yaml:"duracion"`
	MaxVisible int `json:"maxVisible" yaml:"maxVisible"`
}

type Tablas struct {
	ConfiguracionGlobal TablaGlobal       `json:"configuracionGlobal" yaml:"configuracionGlobal"`
	Textos              map[string]string `json:"textos,omitempty" yaml:"textos"`
}

type TablaGlobal struct {
	PageSize  int    `json:"pageSize" yaml:"pageSize"`
	PageList  []int  `json:"pageList" yaml:"pageList"`
	SortName  string `json:"sortName" yaml:"sortName"`
	SortOrder string `json:"sortOrder" yaml:"sortOrder"`
}

type Formateo struct {
	Moneda Moneda   `json:"moneda" yaml:"moneda"`
	Texto  TextoFmt `json:"texto" yaml:"texto"`
	Fecha  FechaFmt `json:"fecha" yaml:"fecha"`
	Bool   BoolFmt  `json:"boolean" yaml:"boolean"`
}

type Moneda struct {
	Simbolo        string `json:"simbolo" yaml:"simbolo"`
	Locale         string `json:"locale" yaml:"locale"`
	Decimales      int    `json:"decimales" yaml:"decimales"`
	SeparadorMiles string `json:"separadorMiles" yaml:"separadorMiles"`
}

type TextoFmt struct {
	LongitudMaximaDescripcion int    `json:"longitudMaximaDescripcion" yaml:"longitudMaximaDescripcion"`
	Sufijo                    string `json:"sufijo" yaml:"sufijo"`
	TextoVacio                string `json:"textoVacio" yaml:"textoVacio"`
}

type FechaFmt struct {
	Formato string `json:"formato" yaml:"formato"`
	// Layout Go usado na renderização (dd-mm-aaaa em es-CL).
	Layout string `json:"layout,omitempty" yaml:"layout"`
}

type BoolFmt struct {
	Verdadero string `json:"verdadero" yaml:"verdadero"`
	Falso     string `json:"falso" yaml:"falso"`
}

// Validaciones holds the global rules (email, telefono, rut, numero,
// texto, requerido) and per module rules keyed by field name.
type Validaciones struct {
	Globales  map[string]Rule            `json:"globales" yaml:"globales"`
	PorModulo map[string]map[string]Rule `json:"porModulo" yaml:"porModulo"`
}

type Rule struct {
	Patron    string   `json:"patron,omitempty" yaml:"patron"`
	Mensaje   string   `json:"mensaje,omitempty" yaml:"mensaje"`
	MinLength int      `json:"minLength,omitempty" yaml:"minLength"`
	MaxLength int      `json:"maxLength,omitempty" yaml:"maxLength"`
	Min       *float64 `json:"min,omitempty" yaml:"min"`
	Max       *float64 `json:"max,omitempty" yaml:"max"`
}

type Mapeos struct {
	ModuloToTabID   map[string]string `json:"moduloToTabId,omitempty" yaml:"moduloToTabId"`
	ModuloToTableID map[string]string `json:"moduloToTableId,omitempty" yaml:"moduloToTableId"`
	OrdenPestanas   []string          `json:"ordenPestanas,omitempty" yaml:"ordenPestanas"`
}

// Exclusion lists the fields a form neither renders nor submits, per
// operation. The "*" module applies to every module.
type Exclusion struct {
	Creacion      []string `json:"creacion" yaml:"creacion"`
	Actualizacion []string `json:"actualizacion" yaml:"actualizacion"`
}

type API struct {
	Paginacion Paginacion `json:"paginacion" yaml:"paginacion"`
}

type Paginacion struct {
	DefaultPage  int `json:"defaultPage" yaml:"defaultPage"`
	DefaultLimit int `json:"defaultLimit" yaml:"defaultLimit"`
	MaxLimit     int `json:"maxLimit" yaml:"maxLimit"`
}

// Module describes one entity: display names, form fields and table
// columns.
type Module struct {
	Name               string   `json:"-" yaml:"-"`
	Singular           string   `json:"singular" yaml:"singular" validate:"required"`
	Plural             string   `json:"plural" yaml:"plural" validate:"required"`
	Icono              string   `json:"icono" yaml:"icono" validate:"required"`
	Genero             string   `json:"genero,omitempty" yaml:"genero"`
	Descripcion        string   `json:"descripcion,omitempty" yaml:"descripcion"`
	TabID              string   `json:"tabId,omitempty" yaml:"tabId"`
	TableID            string   `json:"tableId,omitempty" yaml:"tableId"`
	TieneFormulario    *bool    `json:"tieneFormulario,omitempty" yaml:"tieneFormulario"`
	ColumnasFormulario []Field  `json:"columnasFormulario" yaml:"columnasFormulario" validate:"dive"`
	ColumnasTablas     []Column `json:"columnasTablas" yaml:"columnasTablas" validate:"required,min=1,dive"`
}

// HasForm reports whether the module offers create/edit forms.
func (m *Module) HasForm() bool {
	if m.TieneFormulario != nil {
		return *m.TieneFormulario
	}
	return len(m.ColumnasFormulario) > 0
}

// Field returns the form field called name.
func (m *Module) Field(name string) (Field, bool) {
	for _, f := range m.ColumnasFormulario {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

const (
	FieldText           = "text"
	FieldEmail          = "email"
	FieldTel            = "tel"
	FieldPassword       = "password"
	FieldNumber         = "number"
	FieldTextarea       = "textarea"
	FieldSelect         = "select"
	FieldSelectMultiple = "select-multiple"
	FieldCheckbox       = "checkbox"
)

type Field struct {
	Name        string   `json:"name" yaml:"name" validate:"required"`
	Label       string   `json:"label" yaml:"label"`
	Type        string   `json:"type" yaml:"type" validate:"required,oneof=text email tel password number textarea select select-multiple checkbox"`
	Required    bool     `json:"required" yaml:"required"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder"`
	Options     []Option `json:"options,omitempty" yaml:"options"`
	Min         Scalar   `json:"min,omitempty" yaml:"min"`
	Max         Scalar   `json:"max,omitempty" yaml:"max"`
	Step        Scalar   `json:"step,omitempty" yaml:"step"`
	MinLength   int      `json:"minLength,omitempty" yaml:"minLength"`
	MaxLength   int      `json:"maxLength,omitempty" yaml:"maxLength"`
	Patron      string   `json:"patron,omitempty" yaml:"patron"`
	Checked     *bool    `json:"checked,omitempty" yaml:"checked"`

	// DependsOnLookup names the module whose rows fill Options
	// (value LookupValue, text LookupLabel).
	DependsOnLookup string `json:"dependsOnLookup,omitempty" yaml:"dependsOnLookup"`
	LookupValue     string `json:"lookupValue,omitempty" yaml:"lookupValue"`
	LookupLabel     string `json:"lookupLabel,omitempty" yaml:"lookupLabel"`
}

type Option struct {
	Value Scalar `json:"value" yaml:"value"`
	Text  string `json:"text" yaml:"text"`
}

type Column struct {
	Field     string `json:"field" yaml:"field" validate:"required"`
	Title     string `json:"title" yaml:"title"`
	Sortable  bool   `json:"sortable,omitempty" yaml:"sortable"`
	Width     int    `json:"width,omitempty" yaml:"width"`
	Align     string `json:"align,omitempty" yaml:"align"`
	Formatter string `json:"formatter,omitempty" yaml:"formatter"`
}

// Scalar is a descriptor attribute written either bare (min: 0) or
// quoted (min: '0'). Lookup option values are numeric ids while static
// ones are codes, so both land here as text.
type Scalar string

func (n *Scalar) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*n = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*n = Scalar(strings.TrimSpace(v))
	default:
		*n = Scalar(s)
	}
	return nil
}

func (n *Scalar) UnmarshalYAML(value *yaml.Node) error {
	*n = Scalar(strings.TrimSpace(value.Value))
	return nil
}

func (n Scalar) String() string {
	return string(n)
}

// Float parses the value; ok is false when empty or not numeric.
func (n Scalar) Float() (float64, bool) {
	if n == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
