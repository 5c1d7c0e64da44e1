package queries

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Operation string

const (
	List   Operation = "list"
	Create Operation = "create"
	Update Operation = "update"
	Delete Operation = "delete"
)

type Kind int

const (
	// KindQuery statements return rows (SELECT, WITH, procedure calls).
	KindQuery Kind = iota
	// KindExec statements report affected rows.
	KindExec
)

func (k Kind) String() string {
	if k == KindQuery {
		return "query"
	}
	return "exec"
}

// Modules is the dispatch allow-list.
var Modules = []string{
	"categorias",
	"productos",
	"usuarios",
	"bodegas",
	"cajas",
	"estados",
	"tipos_documento",
	"tipos_promocion",
	"metodos_pago",
	"proveedores",
	"ventas",
	"turnos_caja",
}

var (
	ErrUnknownModule           = errors.New("unknown module")
	ErrOperationNotImplemented = errors.New("operation not implemented")
)

type Statement struct {
	Module    string
	Operation Operation
	Template  string
	SQL       string
	Names     []string
	Kind      Kind
}

// NewStatement compiles a named-placeholder template.
func NewStatement(module string, op Operation, template string) Statement {
	sql, names := compileNamed(template)
	return Statement{
		Module:    module,
		Operation: op,
		Template:  template,
		SQL:       sql,
		Names:     names,
		Kind:      kindOf(template),
	}
}

func kindOf(template string) Kind {
	head := strings.ToUpper(strings.TrimSpace(template))
	if strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "WITH") {
		return KindQuery
	}
	return KindExec
}

// Registry maps module and operation to a compiled statement. It is
// immutable once built.
type Registry struct {
	name       string
	statements map[string]map[Operation]Statement
}

type templates map[Operation]string

func newRegistry(name string, set map[string]templates) *Registry {
	r := &Registry{name: name, statements: make(map[string]map[Operation]Statement, len(set))}
	for module, ops := range set {
		compiled := make(map[Operation]Statement, len(ops))
		for op, tpl := range ops {
			compiled[op] = NewStatement(module, op, tpl)
		}
		r.statements[module] = compiled
	}
	return r
}

func (r *Registry) Name() string {
	return r.name
}

// Lookup returns the statement for module and op. Unknown modules wrap
// ErrUnknownModule; known modules without op wrap ErrOperationNotImplemented.
func (r *Registry) Lookup(module string, op Operation) (Statement, error) {
	if !IsModule(module) {
		return Statement{}, fmt.Errorf("%w: %s", ErrUnknownModule, module)
	}
	ops, ok := r.statements[module]
	if !ok {
		return Statement{}, fmt.Errorf("%w: %s %s", ErrOperationNotImplemented, op, module)
	}
	st, ok := ops[op]
	if !ok {
		return Statement{}, fmt.Errorf("%w: %s %s", ErrOperationNotImplemented, op, module)
	}
	return st, nil
}

// Operations lists the operations registered for module, sorted.
func (r *Registry) Operations(module string) []Operation {
	var ops []Operation
	for op := range r.statements[module] {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

func IsModule(module string) bool {
	for _, m := range Modules {
		if m == module {
			return true
		}
	}
	return false
}

// NormalizeModule maps hyphenated tab aliases (tipos-documento) onto the
// module name used by the allow-list.
func NormalizeModule(module string) string {
	return strings.ReplaceAll(strings.TrimSpace(module), "-", "_")
}
