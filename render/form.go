package render

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"minimarket/configuration"
	"minimarket/db"
	"minimarket/dispatcher"
	"minimarket/queries"

	"golang.org/x/sync/errgroup"
)

// lookupLimit is the page size used to fill lookup selects; every page
// is loaded.
const lookupLimit = 100

// Form is the view model of a create or edit form.
type Form struct {
	Module   string
	TabID    string
	Title    string
	Icon     string
	Action   string
	Submit   string
	Cancel   string
	CancelTo string
	Editing  bool
	ID       int64
	Inputs   []Input
	Error    string
	Select   string
}

type Input struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Required    bool
	Value       string
	Checked     bool
	Options     []Choice
	Min         string
	Max         string
	Step        string
	MinLength   int
	MaxLength   int
	Pattern     string
	Error       string
	Autofocus   bool
}

type Choice struct {
	Value    string
	Text     string
	Selected bool
}

// Form builds the create form (id 0) or the edit form of row id, with
// lookup options already loaded.
func (r *Renderer) Form(ctx context.Context, module string, id int64) (Form, error) {
	module = queries.NormalizeModule(module)
	f, err := r.blank(module, id)
	if err != nil {
		return Form{}, err
	}

	var row db.Row
	if id > 0 {
		row, err = r.backend.Find(ctx, module, id)
		if err != nil {
			return Form{}, err
		}
	}

	fields := r.desc.FormFields(module, f.Editing)
	options := r.lookups(ctx, fields)
	for i, field := range fields {
		in := r.input(field, options[i])
		if row != nil {
			populate(&in, field, row)
		} else if field.Type == configuration.FieldCheckbox {
			in.Checked = field.Checked != nil && *field.Checked
		}
		f.Inputs = append(f.Inputs, in)
	}
	return f, nil
}

// blank fills the form chrome; inputs are added by the caller.
func (r *Renderer) blank(module string, id int64) (Form, error) {
	m, ok := r.desc.Module(module)
	if !ok {
		return Form{}, dispatcher.NotFound("Módulo sin configuración: " + module)
	}
	if !m.HasForm() {
		return Form{}, &dispatcher.Error{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("El módulo %s no tiene formulario", module),
		}
	}
	if len(m.ColumnasFormulario) == 0 {
		return Form{}, dispatcher.BadRequest("No hay configuración de campos para el módulo: " + module)
	}

	f := Form{
		Module:  module,
		TabID:   r.desc.TabID(module),
		Title:   r.desc.FormTitle(module, id),
		Icon:    r.desc.Icon(module),
		Action:  "/ui/" + module,
		Submit:  r.text("botones", "guardar", "Guardar"),
		Cancel:  r.text("botones", "cancelar", "Cancelar"),
		Editing: id > 0,
		ID:      id,
		Select:  r.text("comunes", "seleccione", "Seleccione..."),
	}
	f.CancelTo = "/?tab=" + f.TabID
	if f.Editing {
		f.Action = fmt.Sprintf("/ui/%s/%d", module, id)
		f.Submit = r.text("botones", "actualizar", "Actualizar")
	}
	return f, nil
}

func (r *Renderer) input(field configuration.Field, lookup []Choice) Input {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	in := Input{
		Name:        field.Name,
		Label:       label,
		Type:        field.Type,
		Placeholder: field.Placeholder,
		Required:    field.Required,
		Min:         field.Min.String(),
		Max:         field.Max.String(),
		Step:        field.Step.String(),
		MinLength:   field.MinLength,
		MaxLength:   field.MaxLength,
		Pattern:     field.Patron,
	}
	if lookup != nil {
		in.Options = lookup
		return in
	}
	for _, o := range field.Options {
		in.Options = append(in.Options, Choice{Value: o.Value.String(), Text: o.Text})
	}
	return in
}

// lookups loads, concurrently, the options of every field that depends
// on another module. A failed lookup is logged and leaves the field with
// its static options.
func (r *Renderer) lookups(ctx context.Context, fields []configuration.Field) [][]Choice {
	out := make([][]Choice, len(fields))
	g, gctx := errgroup.WithContext(ctx)
	for i, field := range fields {
		if field.DependsOnLookup == "" {
			continue
		}
		i, field := i, field
		g.Go(func() error {
			rows, err := r.lookupRows(gctx, field.DependsOnLookup)
			if err != nil {
				r.log.Warnw("lookup load failed", "field", field.Name, "module", field.DependsOnLookup, "error", err)
				return nil
			}
			valueKey, labelKey := field.LookupValue, field.LookupLabel
			if valueKey == "" {
				valueKey = "id"
			}
			if labelKey == "" {
				labelKey = "nombre"
			}
			choices := make([]Choice, 0, len(rows))
			for _, row := range rows {
				choices = append(choices, Choice{Value: stringOf(row[valueKey]), Text: stringOf(row[labelKey])})
			}
			out[i] = choices
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// lookupRows pages through a module until its last page.
func (r *Renderer) lookupRows(ctx context.Context, module string) ([]db.Row, error) {
	var rows []db.Row
	for p := 1; ; p++ {
		page, err := r.backend.List(ctx, module, dispatcher.ListParams{Page: p, Limit: lookupLimit})
		if err != nil {
			return nil, err
		}
		rows = append(rows, page.Data...)
		if len(page.Data) == 0 || p >= page.TotalPages {
			return rows, nil
		}
	}
}

// populate copies the stored row into the input. Multi selects match
// either the stored id list or, for productos, the category names the
// list statement returns in "categorias".
func populate(in *Input, field configuration.Field, row db.Row) {
	v := row[field.Name]
	switch field.Type {
	case configuration.FieldCheckbox:
		in.Checked = db.Truthy(v)
	case configuration.FieldPassword:
	case configuration.FieldSelectMultiple:
		values := splitList(stringOf(v), ",")
		names := splitList(stringOf(row["categorias"]), ", ")
		seen := map[string]bool{}
		for i := range in.Options {
			o := &in.Options[i]
			o.Selected = contains(values, o.Value) || contains(names, o.Text)
			seen[o.Value] = true
		}
		for _, value := range values {
			if !seen[value] {
				in.Options = append(in.Options, Choice{Value: value, Text: value, Selected: true})
			}
		}
	case configuration.FieldSelect:
		in.Value = scalarString(v)
		found := false
		for i := range in.Options {
			in.Options[i].Selected = in.Options[i].Value == in.Value
			found = found || in.Options[i].Selected
		}
		// el valor guardado nunca se pierde al reenviar el formulario
		if !found && in.Value != "" {
			in.Options = append(in.Options, Choice{Value: in.Value, Text: in.Value, Selected: true})
		}
	default:
		in.Value = scalarString(v)
	}
}

// refill puts submitted values back into the inputs after a failed
// submission.
func refill(in *Input, field configuration.Field, values map[string]any) {
	v, ok := values[field.Name]
	if !ok {
		return
	}
	switch field.Type {
	case configuration.FieldCheckbox:
		in.Checked = db.Truthy(v)
	case configuration.FieldPassword:
	case configuration.FieldSelectMultiple:
		selected := splitList(stringOf(v), ",")
		for i := range in.Options {
			in.Options[i].Selected = contains(selected, in.Options[i].Value)
		}
	case configuration.FieldSelect:
		in.Value = stringOf(v)
		for i := range in.Options {
			in.Options[i].Selected = in.Options[i].Value == in.Value
		}
	default:
		in.Value = stringOf(v)
	}
}

// scalarString avoids scientific notation for whole floats coming back
// from the database.
func scalarString(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return stringOf(v)
}

func splitList(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
