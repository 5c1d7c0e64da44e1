package render

import (
	"context"

	"minimarket/dispatcher"
	"minimarket/queries"
)

// Page is the admin shell: one tab per module, the active table rendered
// inline and the others fetched when their tab is opened.
type Page struct {
	Title    string
	Subtitle string
	Logo     string
	Version  string
	Tabs     []Tab
	Active   *Table
	Notice   *Notice
	Loading  string
}

type Tab struct {
	Module string
	ID     string
	Label  string
	Icon   string
	Active bool
	Source string
}

// Page builds the shell with tab (a tab id or module name) active. An
// unknown or empty tab falls back to the first module.
func (r *Renderer) Page(ctx context.Context, tab string, params dispatcher.ListParams, notice *Notice) Page {
	doc := r.desc.Document()
	p := Page{
		Title:    firstNonEmpty(doc.Branding.Nombre, doc.Sistema.Nombre, r.text("titulos", "panelAdmin", "Panel de Administración")),
		Subtitle: firstNonEmpty(doc.Branding.Slogan, r.text("titulos", "gestionIntegral", "")),
		Logo:     firstNonEmpty(doc.Branding.Logo, "fas fa-store"),
		Version:  doc.Sistema.Version,
		Notice:   notice,
		Loading:  r.text("mensajes", "cargando", "Cargando..."),
	}

	modules := r.desc.Modules()
	if len(modules) == 0 {
		return p
	}
	active, ok := r.desc.ModuleForTab(tab)
	if !ok {
		if m := queries.NormalizeModule(tab); contains(modules, m) {
			active = m
		} else {
			active = modules[0]
		}
	}

	for _, m := range modules {
		t := Tab{
			Module: m,
			ID:     r.desc.TabID(m),
			Label:  r.desc.Plural(m),
			Icon:   r.desc.Icon(m),
			Active: m == active,
			Source: fragmentURL(m, nil),
		}
		p.Tabs = append(p.Tabs, t)
	}
	table := r.Table(ctx, active, params)
	p.Active = &table
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
