package configuration

import (
	"strings"
	"testing"

	"minimarket/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddedDescriptors(t *testing.T) *Descriptors {
	t.Helper()
	d, err := Parse(Embedded(), "yaml", SourceStatic)
	require.NoError(t, err)
	return d
}

func TestEmbeddedDocumentIsComplete(t *testing.T) {
	d := embeddedDescriptors(t)

	assert.Empty(t, d.Warnings())
	assert.Empty(t, d.Check(queries.Modules))
	assert.Equal(t, SourceStatic, d.Source())
}

func TestModulesFollowConfiguredOrder(t *testing.T) {
	d := embeddedDescriptors(t)

	want := []string{
		"productos", "categorias", "usuarios", "proveedores", "bodegas", "cajas",
		"estados", "tipos_documento", "tipos_promocion", "metodos_pago", "ventas", "turnos_caja",
	}
	if diff := cmp.Diff(want, d.Modules()); diff != "" {
		t.Fatalf("module order mismatch (-want +got):\n%s", diff)
	}
}

func TestModulesPreferTabOrderAndAppendRest(t *testing.T) {
	doc := `{
		"modulos": {
			"cajas": {"singular": "Caja", "plural": "Cajas", "icono": "x", "columnasTablas": [{"field": "id"}]},
			"bodegas": {"singular": "Bodega", "plural": "Bodegas", "icono": "x", "columnasTablas": [{"field": "id"}]},
			"estados": {"singular": "Estado", "plural": "Estados", "icono": "x", "columnasTablas": [{"field": "id"}]}
		},
		"ordenModulos": ["estados", "cajas"],
		"mapeos": {"ordenPestanas": ["cajas", "desconocido"]}
	}`
	d, err := Parse([]byte(doc), "json", SourceDatabase)
	require.NoError(t, err)

	assert.Equal(t, []string{"cajas", "bodegas", "estados"}, d.Modules())
}

func TestElementIDs(t *testing.T) {
	d := embeddedDescriptors(t)

	tests := []struct {
		module, tab, table string
	}{
		{"categorias", "categorias", "tablaCategorias"},
		{"tipos_documento", "tipos-documento", "tablaTiposDocumento"},
		{"metodos_pago", "metodos-pago", "tablaMetodosPago"},
		{"turnos_caja", "turnos-caja", "tablaTurnosCaja"},
		{"tipos-promocion", "tipos-promocion", "tablaTiposPromocion"},
	}
	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			assert.Equal(t, tt.tab, d.TabID(tt.module))
			assert.Equal(t, tt.table, d.TableID(tt.module))
		})
	}

	m, ok := d.ModuleForTab("tipos-documento")
	assert.True(t, ok)
	assert.Equal(t, "tipos_documento", m)
}

func TestDisplayNames(t *testing.T) {
	d := embeddedDescriptors(t)

	assert.Equal(t, "Nuevo Producto", d.FormTitle("productos", 0))
	assert.Equal(t, "Editar Tipo de Documento #7", d.FormTitle("tipos_documento", 7))
	assert.Equal(t, "Categorías", d.Plural("categorias"))
	assert.Equal(t, "fas fa-warehouse", d.Icon("bodegas"))

	assert.Equal(t, "clientes", d.Singular("clientes"))
	assert.Equal(t, "clientess", d.Plural("clientes"))
	assert.Equal(t, "fas fa-cube", d.Icon("clientes"))
}

func TestExclusions(t *testing.T) {
	d := embeddedDescriptors(t)

	assert.True(t, d.Excluded("usuarios", "password", true))
	assert.False(t, d.Excluded("usuarios", "password", false))
	assert.True(t, d.Excluded("productos", "stock_minimo", true))
	assert.True(t, d.Excluded("categorias", "created_at", true))
	assert.True(t, d.Excluded("tipos-documento", "correlativo_actual", true))
	assert.False(t, d.Excluded("tipos_documento", "correlativo_actual", false))

	var names []string
	for _, f := range d.FormFields("productos", true) {
		names = append(names, f.Name)
	}
	assert.NotContains(t, names, "categoria_ids")
	assert.Contains(t, names, "sku")
}

func TestDefaultExclusionsWhenDocumentHasNone(t *testing.T) {
	doc := `{"modulos": {"usuarios": {"singular": "Usuario", "plural": "Usuarios", "icono": "x", "columnasTablas": [{"field": "id"}]}}}`
	d, err := Parse([]byte(doc), "json", SourceDatabase)
	require.NoError(t, err)

	assert.True(t, d.Excluded("usuarios", "password", true))
	assert.True(t, d.Excluded("productos", "categoria_ids", true))
}

func TestLookupsAndRules(t *testing.T) {
	d := embeddedDescriptors(t)

	lookups := d.Lookups("productos")
	require.Len(t, lookups, 1)
	assert.Equal(t, "categoria_ids", lookups[0].Name)
	assert.Equal(t, "categorias", lookups[0].DependsOnLookup)

	lookups = d.Lookups("cajas")
	require.Len(t, lookups, 1)
	assert.Equal(t, "bodegas", lookups[0].DependsOnLookup)

	r, ok := d.Rule("usuarios", "username")
	require.True(t, ok)
	assert.Equal(t, 3, r.MinLength)
	assert.Equal(t, 50, r.MaxLength)

	g, ok := d.GlobalRule("texto")
	require.True(t, ok)
	assert.Equal(t, 2, g.MinLength)
	assert.Equal(t, 255, g.MaxLength)

	def, max := d.Pagination()
	assert.Equal(t, 10, def)
	assert.Equal(t, 1000, max)
}

func TestListOnlyModulesHaveNoForm(t *testing.T) {
	d := embeddedDescriptors(t)

	ventas, ok := d.Module("ventas")
	require.True(t, ok)
	assert.False(t, ventas.HasForm())

	productos, ok := d.Module("productos")
	require.True(t, ok)
	assert.True(t, productos.HasForm())
}

func TestParseWarnsOnIncompleteModules(t *testing.T) {
	doc := `{
		"modulos": {
			"cajas": {"singular": "Caja", "icono": "x", "columnasTablas": []},
			"bodegas": {"singular": "Bodega", "plural": "Bodegas", "icono": "x", "tieneFormulario": true, "columnasTablas": [{"field": "id"}]}
		}
	}`
	d, err := Parse([]byte(doc), "json", SourceDatabase)
	require.NoError(t, err)

	joined := strings.Join(d.Warnings(), "\n")
	assert.Contains(t, joined, "plural")
	assert.Contains(t, joined, "columnasTablas")
	assert.Contains(t, joined, "Módulo bodegas no tiene columnasFormulario configuradas")

	missing := d.Check([]string{"cajas", "ventas"})
	assert.Equal(t, []string{"Módulo ventas sin descriptor"}, missing)
}

func TestScalarAcceptsBareAndQuotedValues(t *testing.T) {
	doc := `{
		"modulos": {
			"estados": {
				"singular": "Estado", "plural": "Estados", "icono": "x",
				"columnasTablas": [{"field": "id"}],
				"columnasFormulario": [
					{"name": "orden", "type": "number", "min": 1, "step": "0.5"},
					{"name": "bodega_id", "type": "select", "options": [{"value": 3, "text": "Central"}, {"value": "B", "text": "Norte"}]}
				]
			}
		}
	}`
	d, err := Parse([]byte(doc), "json", SourceDatabase)
	require.NoError(t, err)

	m, _ := d.Module("estados")
	orden, ok := m.Field("orden")
	require.True(t, ok)
	assert.Equal(t, Scalar("1"), orden.Min)
	step, ok := orden.Step.Float()
	assert.True(t, ok)
	assert.Equal(t, 0.5, step)

	bodega, _ := m.Field("bodega_id")
	assert.Equal(t, Scalar("3"), bodega.Options[0].Value)
	assert.Equal(t, Scalar("B"), bodega.Options[1].Value)

	_, ok = Scalar("").Float()
	assert.False(t, ok)
}

func TestJSONKeepsOriginalBytes(t *testing.T) {
	doc := []byte(`{"modulos": {}, "extra": {"navegacion": true}}`)
	d, err := Parse(doc, "json", SourceDatabase)
	require.NoError(t, err)

	out, err := d.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(doc), string(out))

	static := embeddedDescriptors(t)
	out, err = static.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"tableId":"tablaTiposDocumento"`)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("{"), "json", SourceFile)
	assert.Error(t, err)

	_, err = Parse([]byte("a: b"), "toml", SourceFile)
	assert.Error(t, err)
}
