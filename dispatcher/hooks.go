package dispatcher

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"minimarket/db"
	"minimarket/queries"

	"github.com/huandu/go-sqlbuilder"
)

// Hook adjusts a write payload before binding and runs follow-up
// statements in the same transaction afterwards.
type Hook interface {
	// Before rewrites data in place. A nil state skips After.
	Before(op queries.Operation, data map[string]any) (any, error)
	After(ctx context.Context, tx db.Store, op queries.Operation, id int64, state any) error
}

// PasswordHook replaces a plain "password" with its "password_hash".
// The plain value never reaches a statement.
type PasswordHook struct {
	Hash func(string) (string, error)
}

func (h PasswordHook) Before(op queries.Operation, data map[string]any) (any, error) {
	if op != queries.Create && op != queries.Update {
		return nil, nil
	}
	delete(data, "password_hash")

	raw, ok := data["password"]
	delete(data, "password")
	if !ok || raw == nil {
		return nil, nil
	}
	plain, _ := raw.(string)
	if plain == "" {
		return nil, nil
	}
	hash, err := h.Hash(plain)
	if err != nil {
		return nil, err
	}
	data["password_hash"] = hash
	return nil, nil
}

func (PasswordHook) After(context.Context, db.Store, queries.Operation, int64, any) error {
	return nil
}

// CategoriesHook moves "categoria_ids" out of the product payload and
// rewrites producto_categorias once the product id is known.
type CategoriesHook struct{}

// joinFlavor emits "?" markers; the store rebinds them for its dialect.
const joinFlavor = sqlbuilder.MySQL

func (CategoriesHook) Before(op queries.Operation, data map[string]any) (any, error) {
	raw, present := data["categoria_ids"]
	delete(data, "categoria_ids")
	if !present || (op != queries.Create && op != queries.Update) {
		return nil, nil
	}
	ids, err := ParseIDs(raw)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (CategoriesHook) After(ctx context.Context, tx db.Store, _ queries.Operation, id int64, state any) error {
	ids, _ := state.([]int64)

	del := sqlbuilder.NewDeleteBuilder()
	del.DeleteFrom("producto_categorias")
	del.Where(del.Equal("producto_id", id))
	q, args := del.BuildWithFlavor(joinFlavor)
	if _, err := tx.Exec(ctx, q, args...); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	ins := sqlbuilder.NewInsertBuilder()
	ins.InsertInto("producto_categorias")
	ins.Cols("producto_id", "categoria_id")
	for _, cid := range ids {
		ins.Values(id, cid)
	}
	q, args = ins.BuildWithFlavor(joinFlavor)
	_, err := tx.Exec(ctx, q, args...)
	return err
}

// ParseIDs accepts "1,3,5", a JSON array of numbers or numeric strings,
// or a single number. Duplicates are dropped, order is kept.
func ParseIDs(raw any) ([]int64, error) {
	var tokens []any
	switch t := raw.(type) {
	case nil:
		return []int64{}, nil
	case string:
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tokens = append(tokens, part)
			}
		}
	case []any:
		tokens = t
	case []string:
		for _, s := range t {
			tokens = append(tokens, s)
		}
	default:
		tokens = []any{t}
	}

	seen := make(map[int64]bool, len(tokens))
	ids := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		id, ok := parseID(tok)
		if !ok {
			return nil, BadRequest("categoria_ids inválido: " + stringify(tok))
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func parseID(v any) (int64, bool) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	id, ok := db.Int64(v)
	return id, ok && id > 0
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	b, _ := json.Marshal(v)
	return string(b)
}
