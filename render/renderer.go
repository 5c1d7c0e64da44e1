package render

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"io/fs"

	"minimarket/configuration"
	"minimarket/db"
	"minimarket/dispatcher"
	"minimarket/logger"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Backend is the part of the dispatcher the admin UI drives.
type Backend interface {
	List(ctx context.Context, module string, params dispatcher.ListParams) (dispatcher.Page, error)
	Find(ctx context.Context, module string, id int64) (db.Row, error)
	Create(ctx context.Context, module string, payload map[string]any) (any, error)
	Update(ctx context.Context, module string, id int64, payload map[string]any) error
	Delete(ctx context.Context, module string, id int64) error
}

// Renderer builds the admin pages from the descriptor document. It holds
// no per-request state; tables and forms are rebuilt on every call.
type Renderer struct {
	desc    *configuration.Descriptors
	backend Backend
	log     logger.Logger
	tmpl    *template.Template
}

func New(desc *configuration.Descriptors, backend Backend, log logger.Logger) (*Renderer, error) {
	if log == nil {
		log = logger.Nop()
	}
	tmpl, err := template.New("admin").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{desc: desc, backend: backend, log: log, tmpl: tmpl}, nil
}

func (r *Renderer) Descriptors() *configuration.Descriptors {
	return r.desc
}

// Execute renders the named template into w. Output is buffered so a
// failing template never leaves a half written response.
func (r *Renderer) Execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.log.Errorw("template render failed", "template", name, "error", err)
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static serves admin.js and admin.css.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// FormPage is the data of the "form" template.
type FormPage struct {
	Form   Form
	Notice *Notice
}

// ErrorPage is the data of the "error" template.
type ErrorPage struct {
	Title   string
	Message string
	Back    string
}

func (r *Renderer) text(group, key, fallback string) string {
	return r.desc.Text(group, key, fallback)
}
