package dispatcher

import (
	"testing"

	"minimarket/db"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ids(rows []db.Row) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r["id"]
	}
	return out
}

func TestFilterMatchesStringsOnly(t *testing.T) {
	rows := []db.Row{
		{"id": int64(1), "nombre": "Bebidas", "stock": int64(5)},
		{"id": int64(2), "nombre": "Lácteos", "codigo": "5A"},
		{"id": int64(3), "nombre": "ABARROTES", "activo": true},
	}

	assert.Equal(t, []any{int64(2)}, ids(Filter(rows, "5")))
	assert.Equal(t, []any{int64(3)}, ids(Filter(rows, "abarr")))
	assert.Equal(t, []any{int64(2)}, ids(Filter(rows, "LÁC")))
	assert.Empty(t, Filter(rows, "true"))
	assert.Len(t, Filter(rows, ""), 3)
}

func TestSortOrders(t *testing.T) {
	rows := func() []db.Row {
		return []db.Row{
			{"id": int64(1), "nombre": "bebidas", "precio": "100"},
			{"id": int64(2), "nombre": nil, "precio": "20"},
			{"id": int64(3), "nombre": "Abarrotes", "precio": "3"},
			{"id": int64(4), "precio": nil},
			{"id": int64(5), "nombre": "Carnes", "precio": "20"},
		}
	}

	asc := rows()
	Sort(asc, "nombre", false)
	assert.Equal(t, []any{int64(3), int64(1), int64(5), int64(2), int64(4)}, ids(asc))

	desc := rows()
	Sort(desc, "nombre", true)
	assert.Equal(t, []any{int64(2), int64(4), int64(5), int64(1), int64(3)}, ids(desc))

	num := rows()
	Sort(num, "precio", false)
	assert.Equal(t, []any{int64(3), int64(2), int64(5), int64(1), int64(4)}, ids(num))
}

func TestSortIsStable(t *testing.T) {
	rows := []db.Row{
		{"id": int64(1), "rol": "CAJERO"},
		{"id": int64(2), "rol": "ADMIN"},
		{"id": int64(3), "rol": "cajero"},
		{"id": int64(4), "rol": "ADMIN"},
	}
	Sort(rows, "rol", false)
	assert.Equal(t, []any{int64(2), int64(4), int64(1), int64(3)}, ids(rows))
}

func TestPaginate(t *testing.T) {
	rows := []db.Row{{"id": 1}, {"id": 2}, {"id": 3}}
	assert.Len(t, Paginate(rows, 0, 2), 2)
	assert.Len(t, Paginate(rows, 2, 2), 1)
	assert.NotNil(t, Paginate(rows, 5, 2))
	assert.Empty(t, Paginate(rows, 5, 2))

	assert.Equal(t, 3, TotalPages(5, 2))
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
}

func TestListParamsNormalize(t *testing.T) {
	paging := Paging{DefaultLimit: 10, MaxLimit: 100}
	offset := func(n int) *int { return &n }

	tests := []struct {
		name   string
		in     ListParams
		want   ListParams
		offset int
	}{
		{
			name:   "defaults",
			in:     ListParams{},
			want:   ListParams{Page: 1, Limit: 10, Sort: "id", Order: "ASC"},
			offset: 0,
		},
		{
			name:   "page drives offset",
			in:     ListParams{Page: 3, Limit: 5, Order: "desc", Search: "  beb "},
			want:   ListParams{Page: 3, Limit: 5, Sort: "id", Order: "DESC", Search: "beb"},
			offset: 10,
		},
		{
			name:   "offset drives page",
			in:     ListParams{Page: 1, Limit: 10, Offset: offset(25), Sort: "nombre"},
			want:   ListParams{Page: 3, Limit: 10, Offset: offset(25), Sort: "nombre", Order: "ASC"},
			offset: 25,
		},
		{
			name:   "limit capped",
			in:     ListParams{Limit: 5000, Order: "sideways"},
			want:   ListParams{Page: 1, Limit: 100, Sort: "id", Order: "ASC"},
			offset: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, off := tt.in.normalize(paging)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.offset, off)
		})
	}
}
