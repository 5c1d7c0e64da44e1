package render

import (
	"context"
	"net/url"

	"minimarket/configuration"
	"minimarket/dispatcher"
	"minimarket/queries"
)

// Outcome is the result of a form post: either a form to show again or
// a redirect to the owning tab carrying a notice.
type Outcome struct {
	Form     *Form
	Notice   Notice
	Redirect string
}

// Submit gathers, validates and writes a create (id 0) or update form.
// Validation and write failures come back as a re-rendered form; the
// returned error is reserved for modules without a form.
func (r *Renderer) Submit(ctx context.Context, module string, id int64, form url.Values) (Outcome, error) {
	module = queries.NormalizeModule(module)
	f, err := r.blank(module, id)
	if err != nil {
		return Outcome{}, err
	}

	fields := r.desc.FormFields(module, f.Editing)
	values := Gather(fields, form)

	if errs := Validate(r.desc, module, fields, values); len(errs) > 0 {
		r.refilled(ctx, &f, fields, values, errs)
		f.Error = errs[0].Message
		return Outcome{Form: &f, Notice: r.notice(NoticeWarning, errs[0].Label+": "+errs[0].Message)}, nil
	}

	var msg string
	if f.Editing {
		err = r.backend.Update(ctx, module, id, values)
		msg = r.text("mensajes", "actualizadoExito", "Registro actualizado correctamente")
	} else {
		_, err = r.backend.Create(ctx, module, values)
		msg = r.text("mensajes", "creadoExito", "Registro creado correctamente")
	}
	if err != nil {
		r.log.Warnw("form write failed", "module", module, "id", id, "status", dispatcher.StatusOf(err), "error", err)
		r.refilled(ctx, &f, fields, values, nil)
		f.Error = "Error al guardar el registro: " + dispatcher.MessageOf(err)
		return Outcome{Form: &f, Notice: r.notice(NoticeError, f.Error)}, nil
	}

	n := r.notice(NoticeSuccess, msg)
	return Outcome{Notice: n, Redirect: r.tabURL(module, n)}, nil
}

// Remove deletes row id of module and redirects back to its tab.
func (r *Renderer) Remove(ctx context.Context, module string, id int64) Outcome {
	module = queries.NormalizeModule(module)
	var n Notice
	if err := r.backend.Delete(ctx, module, id); err != nil {
		r.log.Warnw("delete failed", "module", module, "id", id, "error", err)
		n = r.notice(NoticeError, "Error al eliminar el registro: "+dispatcher.MessageOf(err))
	} else {
		n = r.notice(NoticeSuccess, r.text("mensajes", "eliminadoExito", "Registro eliminado correctamente"))
	}
	return Outcome{Notice: n, Redirect: r.tabURL(module, n)}
}

func (r *Renderer) tabURL(module string, n Notice) string {
	q := url.Values{"tab": {r.desc.TabID(module)}}
	n.Encode(q)
	return "/?" + q.Encode()
}

// refilled rebuilds the inputs from the submitted values, marks the
// failing ones and focuses the first of them.
func (r *Renderer) refilled(ctx context.Context, f *Form, fields []configuration.Field, values map[string]any, errs []FieldError) {
	byField := make(map[string]string, len(errs))
	for _, e := range errs {
		byField[e.Field] = e.Message
	}
	first := ""
	if len(errs) > 0 {
		first = errs[0].Field
	}

	options := r.lookups(ctx, fields)
	f.Inputs = f.Inputs[:0]
	for i, field := range fields {
		in := r.input(field, options[i])
		refill(&in, field, values)
		in.Error = byField[field.Name]
		in.Autofocus = field.Name == first
		f.Inputs = append(f.Inputs, in)
	}
}
