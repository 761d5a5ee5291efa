package schema

import (
	"errors"
	"fmt"
)

// Registry holds table declarations in dependency order.
// It is immutable after construction and safe for concurrent reads.
type Registry struct {
	tables []Table
	index  map[string]int
}

// NewRegistry builds a Registry from tables listed in dependency order and
// validates the declarations.
func NewRegistry(tables ...Table) (*Registry, error) {
	r := &Registry{
		tables: make([]Table, len(tables)),
		index:  make(map[string]int, len(tables)),
	}
	copy(r.tables, tables)
	for i, t := range r.tables {
		if _, dup := r.index[t.Name]; dup {
			return nil, fmt.Errorf("table %q declared twice", t.Name)
		}
		r.index[t.Name] = i
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRegistry is NewRegistry for compiled-in declarations.
func MustRegistry(tables ...Table) *Registry {
	r, err := NewRegistry(tables...)
	if err != nil {
		panic(err)
	}
	return r
}

// Order returns table names in dependency order (creation and load order).
func (r *Registry) Order() []string {
	names := make([]string, len(r.tables))
	for i, t := range r.tables {
		names[i] = t.Name
	}
	return names
}

// ReverseOrder returns table names dependents first (clear order).
func (r *Registry) ReverseOrder() []string {
	names := make([]string, len(r.tables))
	for i, t := range r.tables {
		names[len(r.tables)-1-i] = t.Name
	}
	return names
}

// Table looks up a declaration by name.
func (r *Registry) Table(name string) (Table, bool) {
	i, ok := r.index[name]
	if !ok {
		return Table{}, false
	}
	return r.tables[i], true
}

// CreateStatements renders every CREATE TABLE in dependency order.
func (r *Registry) CreateStatements(m TypeMapper) []string {
	stmts := make([]string, len(r.tables))
	for i, t := range r.tables {
		stmts[i] = t.CreateStatement(m)
	}
	return stmts
}

func (r *Registry) validate() error {
	var errs []error
	for pos, t := range r.tables {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("table at position %d has no name", pos))
			continue
		}
		if len(t.Columns) == 0 {
			errs = append(errs, fmt.Errorf("table %q has no columns", t.Name))
		}
		seen := make(map[string]bool, len(t.Columns))
		for _, c := range t.Columns {
			if seen[c.Name] {
				errs = append(errs, fmt.Errorf("table %q declares column %q twice", t.Name, c.Name))
			}
			seen[c.Name] = true
		}
		for _, pk := range t.PrimaryKey {
			if !seen[pk] {
				errs = append(errs, fmt.Errorf("table %q: primary key column %q is not declared", t.Name, pk))
			}
		}
		for _, fk := range t.ForeignKeys {
			errs = append(errs, r.validateForeignKey(pos, t, fk, seen)...)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) validateForeignKey(pos int, t Table, fk ForeignKey, own map[string]bool) []error {
	var errs []error
	if len(fk.Columns) == 0 || len(fk.Columns) != len(fk.RefColumns) {
		errs = append(errs, fmt.Errorf("table %q: foreign key to %q has mismatched columns", t.Name, fk.RefTable))
	}
	for _, c := range fk.Columns {
		if !own[c] {
			errs = append(errs, fmt.Errorf("table %q: foreign key column %q is not declared", t.Name, c))
		}
	}
	refPos, ok := r.index[fk.RefTable]
	if !ok {
		return append(errs, fmt.Errorf("table %q references undeclared table %q", t.Name, fk.RefTable))
	}
	if refPos >= pos {
		errs = append(errs, fmt.Errorf("table %q references %q which is not loaded before it", t.Name, fk.RefTable))
	}
	ref := r.tables[refPos]
	for _, c := range fk.RefColumns {
		if _, ok := ref.Column(c); !ok {
			errs = append(errs, fmt.Errorf("table %q references unknown column %s.%s", t.Name, fk.RefTable, c))
		}
	}
	return errs
}
