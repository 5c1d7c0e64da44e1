package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"minimarket/db"
	"minimarket/logger"
	"minimarket/queries"
	"minimarket/tools"
)

// Recorder receives one observation per dispatched operation.
type Recorder interface {
	Dispatched(module, operation, outcome string)
}

type Option func(*Dispatcher)

func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

func WithPaging(p Paging) Option {
	return func(d *Dispatcher) { d.paging = p }
}

func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithHooks replaces the write hooks of module.
func WithHooks(module string, hooks ...Hook) Option {
	return func(d *Dispatcher) { d.hooks[module] = hooks }
}

// Dispatcher maps (module, operation) onto registry statements and runs
// them against the store.
type Dispatcher struct {
	store    db.Store
	registry *queries.Registry
	paging   Paging
	hooks    map[string][]Hook
	log      logger.Logger
	recorder Recorder
}

func New(store db.Store, registry *queries.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		registry: registry,
		paging:   DefaultPaging,
		log:      logger.Nop(),
		hooks: map[string][]Hook{
			"usuarios":  {PasswordHook{Hash: tools.HashPassword}},
			"productos": {CategoriesHook{}},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Registry() *queries.Registry {
	return d.registry
}

// Check returns the 400 a request for module fails with when the name is
// missing or outside the allow-list, nil otherwise.
func (d *Dispatcher) Check(module string) error {
	module = queries.NormalizeModule(module)
	if queries.IsModule(module) {
		return nil
	}
	_, err := d.statement(module, queries.List)
	return err
}

// List runs the module's list statement and applies search, sort and
// pagination in memory.
func (d *Dispatcher) List(ctx context.Context, module string, params ListParams) (Page, error) {
	module = queries.NormalizeModule(module)
	st, err := d.statement(module, queries.List)
	if err != nil {
		return Page{}, d.done(module, queries.List, err)
	}

	b := st.Bind(nil)
	rows, err := d.store.Query(ctx, b.SQL, b.Args...)
	if err != nil {
		return Page{}, d.done(module, queries.List, d.dbError(module, queries.List, err))
	}

	p, offset := params.normalize(d.paging)
	rows = Filter(rows, p.Search)
	Sort(rows, p.Sort, p.Order == "DESC")
	total := len(rows)

	d.done(module, queries.List, nil)
	return Page{
		Data:       Paginate(rows, offset, p.Limit),
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
	}, nil
}

// Find returns the row with the given id from the module's list statement.
func (d *Dispatcher) Find(ctx context.Context, module string, id int64) (db.Row, error) {
	module = queries.NormalizeModule(module)
	st, err := d.statement(module, queries.List)
	if err != nil {
		return nil, err
	}
	b := st.Bind(nil)
	rows, err := d.store.Query(ctx, b.SQL, b.Args...)
	if err != nil {
		return nil, d.dbError(module, queries.List, err)
	}
	for _, row := range rows {
		if rid, ok := db.Int64(row["id"]); ok && rid == id {
			return row, nil
		}
	}
	return nil, NotFound("Registro no encontrado")
}

// Create inserts payload and returns the new id, or nil when neither the
// statement nor the driver reported one.
func (d *Dispatcher) Create(ctx context.Context, module string, payload map[string]any) (any, error) {
	module = queries.NormalizeModule(module)
	st, err := d.statement(module, queries.Create)
	if err != nil {
		return nil, d.done(module, queries.Create, err)
	}
	if len(payload) == 0 {
		return nil, d.done(module, queries.Create, BadRequest("Datos JSON inválidos"))
	}

	var id any
	err = d.store.Transaction(ctx, func(tx db.Store) error {
		data := clone(payload)
		states, err := d.before(module, queries.Create, data)
		if err != nil {
			return err
		}

		b := st.Bind(data)
		newID, ok, err := d.insert(ctx, tx, b)
		if err != nil {
			return d.dbError(module, queries.Create, err)
		}
		if !ok {
			d.log.Warnw("insert returned no id", "module", module)
			return d.after(ctx, tx, module, queries.Create, 0, false, states)
		}
		id = newID
		return d.after(ctx, tx, module, queries.Create, newID, true, states)
	})
	if err != nil {
		return nil, d.done(module, queries.Create, err)
	}
	d.done(module, queries.Create, nil)
	return id, nil
}

func (d *Dispatcher) insert(ctx context.Context, tx db.Store, b queries.Bound) (int64, bool, error) {
	if b.Kind == queries.KindQuery {
		rows, err := tx.Query(ctx, b.SQL, b.Args...)
		if err != nil {
			return 0, false, err
		}
		if len(rows) > 0 {
			if v, present := rows[0]["id"]; present {
				if id, ok := db.Int64(v); ok {
					return id, true, nil
				}
			}
		}
	} else if _, err := tx.Exec(ctx, b.SQL, b.Args...); err != nil {
		return 0, false, err
	}

	id, err := tx.LastInsertID(ctx)
	if err != nil {
		d.log.Warnw("last insert id unavailable", "error", err)
		return 0, false, nil
	}
	return id, true, nil
}

// Update applies payload to the row with id.
func (d *Dispatcher) Update(ctx context.Context, module string, id int64, payload map[string]any) error {
	module = queries.NormalizeModule(module)
	st, err := d.statement(module, queries.Update)
	if err != nil {
		return d.done(module, queries.Update, err)
	}
	if id <= 0 {
		return d.done(module, queries.Update, BadRequest("ID requerido para actualización"))
	}
	if len(payload) == 0 {
		return d.done(module, queries.Update, BadRequest("Datos JSON inválidos"))
	}

	err = d.store.Transaction(ctx, func(tx db.Store) error {
		data := clone(payload)
		data["id"] = id
		states, err := d.before(module, queries.Update, data)
		if err != nil {
			return err
		}

		affected, err := d.write(ctx, tx, st.Bind(data))
		if err != nil {
			return d.dbError(module, queries.Update, err)
		}
		if !affected {
			return NotFound("Registro no encontrado o no se pudo actualizar")
		}
		return d.after(ctx, tx, module, queries.Update, id, true, states)
	})
	return d.done(module, queries.Update, err)
}

// Delete removes (or deactivates) the row with id.
func (d *Dispatcher) Delete(ctx context.Context, module string, id int64) error {
	module = queries.NormalizeModule(module)
	st, err := d.statement(module, queries.Delete)
	if err != nil {
		return d.done(module, queries.Delete, err)
	}
	if id <= 0 {
		return d.done(module, queries.Delete, BadRequest("ID requerido para eliminación"))
	}

	affected, err := d.write(ctx, d.store, st.Bind(map[string]any{"id": id}))
	if err != nil {
		return d.done(module, queries.Delete, d.dbError(module, queries.Delete, err))
	}
	if !affected {
		return d.done(module, queries.Delete, NotFound("Registro no encontrado"))
	}
	return d.done(module, queries.Delete, nil)
}

// write reports whether the statement touched a row: a truthy first
// result for procedures, a non-zero affected count otherwise.
func (d *Dispatcher) write(ctx context.Context, store db.Store, b queries.Bound) (bool, error) {
	if b.Kind == queries.KindExec {
		n, err := store.Exec(ctx, b.SQL, b.Args...)
		return n > 0, err
	}
	rows, err := store.Query(ctx, b.SQL, b.Args...)
	if err != nil || len(rows) == 0 {
		return false, err
	}
	return db.Truthy(resultValue(rows[0])), nil
}

func resultValue(row db.Row) any {
	if v, ok := row["success"]; ok {
		return v
	}
	if len(row) == 1 {
		for _, v := range row {
			return v
		}
	}
	return true
}

func (d *Dispatcher) statement(module string, op queries.Operation) (queries.Statement, error) {
	st, err := d.registry.Lookup(module, op)
	switch {
	case err == nil:
		return st, nil
	case errors.Is(err, queries.ErrUnknownModule) && module == "":
		return st, BadRequest(`Parámetro "module" requerido. Módulos disponibles: ` + strings.Join(queries.Modules, ", "))
	case errors.Is(err, queries.ErrUnknownModule):
		return st, BadRequest("Módulo no válido. Módulos disponibles: " + strings.Join(queries.Modules, ", "))
	case errors.Is(err, queries.ErrOperationNotImplemented):
		return st, BadRequest(fmt.Sprintf("Método %s no implementado para: %s", Verb(op), module))
	default:
		return st, err
	}
}

func (d *Dispatcher) dbError(module string, op queries.Operation, err error) error {
	fields := append([]interface{}{"module", module, "operation", string(op), "error", err}, db.ErrorFields(err)...)
	d.log.Errorw("dispatch failed", fields...)
	return &Error{Status: http.StatusInternalServerError, Message: failurePrefix[op] + ": " + err.Error(), Err: err}
}

var failurePrefix = map[queries.Operation]string{
	queries.List:   "Error al obtener datos",
	queries.Create: "Error al crear registro",
	queries.Update: "Error al actualizar registro",
	queries.Delete: "Error al eliminar registro",
}

func (d *Dispatcher) before(module string, op queries.Operation, data map[string]any) ([]any, error) {
	hooks := d.hooks[module]
	states := make([]any, len(hooks))
	for i, h := range hooks {
		s, err := h.Before(op, data)
		if err != nil {
			return nil, err
		}
		states[i] = s
	}
	return states, nil
}

func (d *Dispatcher) after(ctx context.Context, tx db.Store, module string, op queries.Operation, id int64, hasID bool, states []any) error {
	for i, h := range d.hooks[module] {
		if states[i] == nil {
			continue
		}
		if !hasID {
			d.log.Warnw("skipping write hook without id", "module", module, "operation", string(op))
			continue
		}
		if err := h.After(ctx, tx, op, id, states[i]); err != nil {
			var de *Error
			if errors.As(err, &de) {
				return err
			}
			return d.dbError(module, op, err)
		}
	}
	return nil
}

func (d *Dispatcher) done(module string, op queries.Operation, err error) error {
	if d.recorder != nil {
		d.recorder.Dispatched(module, string(op), outcome(err))
	}
	return err
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch StatusOf(err) {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	}
	return "error"
}

// Verb is the operation name used in client messages.
func Verb(op queries.Operation) string {
	switch op {
	case queries.List:
		return "listar"
	case queries.Create:
		return "crear"
	case queries.Update:
		return "actualizar"
	case queries.Delete:
		return "eliminar"
	}
	return string(op)
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
