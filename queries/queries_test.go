package queries

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/huandu/go-sqlbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileNamed(t *testing.T) {
	tests := []struct {
		name     string
		template string
		sql      string
		names    []string
	}{
		{
			name:     "procedure call",
			template: "SELECT sp_categorias_crear(:nombre, :descripcion, :categoria_padre_id, :activo) AS id",
			sql:      "SELECT sp_categorias_crear(?, ?, ?, ?) AS id",
			names:    []string{"nombre", "descripcion", "categoria_padre_id", "activo"},
		},
		{
			name:     "repeated name",
			template: "UPDATE t SET a = :a WHERE id = :id OR parent = :id",
			sql:      "UPDATE t SET a = ? WHERE id = ? OR parent = ?",
			names:    []string{"a", "id", "id"},
		},
		{
			name:     "cast and literal",
			template: "SELECT ':nope', x::text FROM t WHERE id = :id",
			sql:      "SELECT ':nope', x::text FROM t WHERE id = ?",
			names:    []string{"id"},
		},
		{
			name:     "no placeholders",
			template: "SELECT * FROM sp_ventas_listar()",
			sql:      "SELECT * FROM sp_ventas_listar()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, names := compileNamed(tt.template)
			assert.Equal(t, tt.sql, sql)
			if diff := cmp.Diff(tt.names, names); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatementKind(t *testing.T) {
	assert.Equal(t, KindQuery, NewStatement("m", List, "  select 1").Kind)
	assert.Equal(t, KindQuery, NewStatement("m", List, "WITH x AS (SELECT 1) SELECT * FROM x").Kind)
	assert.Equal(t, KindExec, NewStatement("m", Delete, "DELETE FROM estados WHERE id = :id").Kind)
	assert.Equal(t, KindExec, NewStatement("m", Update, "UPDATE t SET a = :a").Kind)
}

func TestBindValue(t *testing.T) {
	assert.Nil(t, BindValue(nil))
	assert.Nil(t, BindValue(""))
	assert.Equal(t, true, BindValue(true))
	assert.Equal(t, false, BindValue(false))
	assert.Equal(t, int64(42), BindValue(json.Number("42")))
	assert.Equal(t, "12.5", BindValue(json.Number("12.5")))
	assert.Equal(t, int64(7), BindValue(float64(7)))
	assert.Equal(t, "0.01", BindValue(0.01))
	assert.Equal(t, "Bebidas", BindValue("Bebidas"))
	assert.Equal(t, "[1 2]", BindValue([]any{1, 2}))
}

func TestBindMissingAndExtraKeys(t *testing.T) {
	st := NewStatement("categorias", Create, "SELECT sp_categorias_crear(:nombre, :descripcion, :activo) AS id")
	b := st.Bind(map[string]any{
		"nombre":  "Bebidas",
		"activo":  true,
		"ignored": "x",
	})

	assert.Equal(t, "SELECT sp_categorias_crear(?, ?, ?) AS id", b.SQL)
	assert.Equal(t, []any{"Bebidas", nil, true}, b.Args)
	assert.Equal(t, KindQuery, b.Kind)
}

func TestLookupErrors(t *testing.T) {
	for _, reg := range []*Registry{Procedures(), Portable(sqlbuilder.SQLite)} {
		_, err := reg.Lookup("clientes", List)
		assert.True(t, errors.Is(err, ErrUnknownModule), reg.Name())

		_, err = reg.Lookup("ventas", Create)
		assert.True(t, errors.Is(err, ErrOperationNotImplemented), reg.Name())

		st, err := reg.Lookup("ventas", List)
		require.NoError(t, err, reg.Name())
		assert.Equal(t, KindQuery, st.Kind)
	}
}

func TestRegistriesCoverAllowList(t *testing.T) {
	for _, reg := range []*Registry{Procedures(), Portable(sqlbuilder.PostgreSQL)} {
		for _, m := range Modules {
			_, err := reg.Lookup(m, List)
			assert.NoError(t, err, "%s %s", reg.Name(), m)
		}
		assert.Equal(t, []Operation{Create, Delete, List, Update}, reg.Operations("categorias"))
		assert.Equal(t, []Operation{List}, reg.Operations("turnos_caja"))
	}
}

func TestProcedureShapes(t *testing.T) {
	reg := Procedures()

	create, err := reg.Lookup("categorias", Create)
	require.NoError(t, err)
	assert.Equal(t, KindQuery, create.Kind)

	del, err := reg.Lookup("estados", Delete)
	require.NoError(t, err)
	assert.Equal(t, KindExec, del.Kind)
	assert.Equal(t, []string{"id"}, del.Names)

	upd, err := reg.Lookup("usuarios", Update)
	require.NoError(t, err)
	assert.NotContains(t, upd.Names, "password")
	assert.Contains(t, upd.Names, "password_hash")
}

func TestPortableAggregatePerFlavor(t *testing.T) {
	st, err := Portable(sqlbuilder.MySQL).Lookup("productos", List)
	require.NoError(t, err)
	assert.Contains(t, st.SQL, "SEPARATOR ', '")

	st, err = Portable(sqlbuilder.PostgreSQL).Lookup("productos", List)
	require.NoError(t, err)
	assert.Contains(t, st.SQL, "string_agg(c.nombre")

	st, err = Portable(sqlbuilder.SQLite).Lookup("productos", List)
	require.NoError(t, err)
	assert.Contains(t, st.SQL, "group_concat(c.nombre, ', ')")
}

func TestNormalizeModule(t *testing.T) {
	assert.Equal(t, "tipos_documento", NormalizeModule("tipos-documento"))
	assert.Equal(t, "metodos_pago", NormalizeModule(" metodos_pago "))
	assert.True(t, IsModule(NormalizeModule("turnos-caja")))
	assert.False(t, IsModule("clientes"))
}
