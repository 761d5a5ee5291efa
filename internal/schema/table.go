package schema

import (
	"fmt"
	"strings"
)

// FieldKind is the coercion applied to a column's source text.
type FieldKind int

const (
	Text FieldKind = iota
	Integer
	Decimal
)

// String returns a human-readable name of the FieldKind.
func (k FieldKind) String() string {
	switch k {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Column is one declared column.
type Column struct {
	Name    string
	Kind    FieldKind
	NotNull bool
}

// ForeignKey links Columns to RefColumns of RefTable.
type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}

// Table is the full declaration of one entity.
type Table struct {
	Name        string
	Source      string // file name inside the data directory
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
}

// Column looks up a column by name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// TypeMapper renders dialect specific pieces of DDL.
type TypeMapper interface {
	ColumnType(kind FieldKind) string
	QuoteIdent(name string) string
}

// CreateStatement renders an idempotent CREATE TABLE for t.
func (t Table) CreateStatement(m TypeMapper) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(m.QuoteIdent(t.Name))
	sb.WriteString(" (\n")

	parts := make([]string, 0, len(t.Columns)+1+len(t.ForeignKeys))
	for _, c := range t.Columns {
		def := "    " + m.QuoteIdent(c.Name) + " " + m.ColumnType(c.Kind)
		if c.NotNull {
			def += " NOT NULL"
		}
		parts = append(parts, def)
	}
	if len(t.PrimaryKey) > 0 {
		parts = append(parts, "    PRIMARY KEY ("+quoteList(m, t.PrimaryKey)+")")
	}
	for _, fk := range t.ForeignKeys {
		parts = append(parts, fmt.Sprintf("    FOREIGN KEY (%s) REFERENCES %s(%s)",
			quoteList(m, fk.Columns), m.QuoteIdent(fk.RefTable), quoteList(m, fk.RefColumns)))
	}

	sb.WriteString(strings.Join(parts, ",\n"))
	sb.WriteString("\n)")
	return sb.String()
}

func quoteList(m TypeMapper, names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = m.QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
