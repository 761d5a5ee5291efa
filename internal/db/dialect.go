package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/ecomload/internal/schema"
	"github.com/vvka-141/ecomload/pkg/ecomload"
)

// Dialect captures what differs between the supported backing stores:
// the database/sql driver, column types, identifier quoting, placeholders
// and the statements run once on the session connection.
type Dialect struct {
	driver    ecomload.Driver
	sqlDriver string
	types     map[schema.FieldKind]string
	session   []string
	numbered  bool
}

// SQLite is the default dialect, backed by modernc.org/sqlite.
var SQLite = Dialect{
	driver:    ecomload.DriverSQLite,
	sqlDriver: "sqlite",
	types: map[schema.FieldKind]string{
		schema.Text:    "TEXT",
		schema.Integer: "INTEGER",
		schema.Decimal: "REAL",
	},
	session: []string{"PRAGMA foreign_keys = ON"},
}

// Postgres is backed by the pgx database/sql driver.
var Postgres = Dialect{
	driver:    ecomload.DriverPostgres,
	sqlDriver: "pgx",
	types: map[schema.FieldKind]string{
		schema.Text:    "TEXT",
		schema.Integer: "BIGINT",
		schema.Decimal: "DOUBLE PRECISION",
	},
	numbered: true,
}

// DialectFor returns the dialect for driver.
func DialectFor(driver ecomload.Driver) (Dialect, error) {
	switch driver {
	case ecomload.DriverSQLite, "":
		return SQLite, nil
	case ecomload.DriverPostgres:
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported driver %q: %w", driver, ecomload.ErrInvalidConfig)
	}
}

// Driver returns the ecomload driver this dialect serves.
func (d Dialect) Driver() ecomload.Driver { return d.driver }

// SessionStatements returns the statements run once on a freshly pinned connection.
func (d Dialect) SessionStatements() []string {
	return append([]string(nil), d.session...)
}

// ColumnType implements schema.TypeMapper.
func (d Dialect) ColumnType(kind schema.FieldKind) string {
	if t, ok := d.types[kind]; ok {
		return t
	}
	return "TEXT"
}

// QuoteIdent implements schema.TypeMapper.
func (d Dialect) QuoteIdent(name string) string {
	if d.driver == ecomload.DriverPostgres {
		return pgx.Identifier{name}.Sanitize()
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Placeholder returns the bind parameter for the n-th argument, starting at 1.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// InsertStatement renders a single-row INSERT covering every declared column of t.
func (d Dialect) InsertStatement(t schema.Table) string {
	cols := make([]string, len(t.Columns))
	params := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = d.QuoteIdent(c.Name)
		params[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(t.Name), strings.Join(cols, ", "), strings.Join(params, ", "))
}

// DeleteStatement renders an unconditional delete of every row in table.
func (d Dialect) DeleteStatement(table string) string {
	return "DELETE FROM " + d.QuoteIdent(table)
}

// CountStatement renders a row count of table.
func (d Dialect) CountStatement(table string) string {
	return "SELECT COUNT(*) FROM " + d.QuoteIdent(table)
}
