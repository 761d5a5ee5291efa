package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMapper struct{}

func (fakeMapper) ColumnType(k FieldKind) string {
	switch k {
	case Integer:
		return "INTEGER"
	case Decimal:
		return "REAL"
	default:
		return "TEXT"
	}
}

func (fakeMapper) QuoteIdent(name string) string { return `"` + name + `"` }

func TestDefault_Order(t *testing.T) {
	reg := Default()

	assert.Equal(t, []string{Customers, Products, Orders, OrderItems, Reviews}, reg.Order())
	assert.Equal(t, []string{Reviews, OrderItems, Orders, Products, Customers}, reg.ReverseOrder())
}

func TestDefault_ForeignKeysPointBackwards(t *testing.T) {
	reg := Default()
	pos := map[string]int{}
	for i, name := range reg.Order() {
		pos[name] = i
	}

	for _, tbl := range reg.tables {
		for _, fk := range tbl.ForeignKeys {
			assert.Less(t, pos[fk.RefTable], pos[tbl.Name], "%s -> %s", tbl.Name, fk.RefTable)
		}
	}
}

func TestDefault_FieldKinds(t *testing.T) {
	reg := Default()

	tests := []struct {
		table  string
		column string
		want   FieldKind
	}{
		{Products, "price", Decimal},
		{Products, "cost", Decimal},
		{Orders, "order_total", Decimal},
		{OrderItems, "quantity", Integer},
		{OrderItems, "item_price", Decimal},
		{OrderItems, "item_discount", Decimal},
		{Reviews, "rating", Integer},
		{Customers, "customer_id", Text},
		{Reviews, "review_text", Text},
	}

	for _, tt := range tests {
		t.Run(tt.table+"."+tt.column, func(t *testing.T) {
			tbl, ok := reg.Table(tt.table)
			require.True(t, ok)
			col, ok := tbl.Column(tt.column)
			require.True(t, ok)
			assert.Equal(t, tt.want, col.Kind)
		})
	}
}

func TestDefault_OrderItemsCompositeKey(t *testing.T) {
	tbl, ok := Default().Table(OrderItems)
	require.True(t, ok)

	assert.Equal(t, []string{"order_id", "product_id"}, tbl.PrimaryKey)
	assert.Equal(t, "order_items.csv", tbl.Source)
}

func TestCreateStatement(t *testing.T) {
	tbl, _ := Default().Table(OrderItems)

	stmt := tbl.CreateStatement(fakeMapper{})

	assert.True(t, strings.HasPrefix(stmt, `CREATE TABLE IF NOT EXISTS "order_items" (`), stmt)
	assert.Contains(t, stmt, `"order_id" TEXT NOT NULL`)
	assert.Contains(t, stmt, `"quantity" INTEGER`)
	assert.Contains(t, stmt, `"item_price" REAL`)
	assert.Contains(t, stmt, `PRIMARY KEY ("order_id", "product_id")`)
	assert.Contains(t, stmt, `FOREIGN KEY ("order_id") REFERENCES "orders"("order_id")`)
	assert.Contains(t, stmt, `FOREIGN KEY ("product_id") REFERENCES "products"("product_id")`)
	assert.True(t, strings.HasSuffix(stmt, "\n)"))
}

func TestCreateStatements_DependencyOrder(t *testing.T) {
	stmts := Default().CreateStatements(fakeMapper{})

	require.Len(t, stmts, 5)
	assert.Contains(t, stmts[0], `"customers"`)
	assert.Contains(t, stmts[4], `"reviews"`)
}

func TestNewRegistry_Rejects(t *testing.T) {
	parent := Table{Name: "parent", Columns: []Column{{Name: "id"}}, PrimaryKey: []string{"id"}}
	child := Table{
		Name:        "child",
		Columns:     []Column{{Name: "id"}, {Name: "parent_id"}},
		ForeignKeys: []ForeignKey{{Columns: []string{"parent_id"}, RefTable: "parent", RefColumns: []string{"id"}}},
	}

	tests := []struct {
		name   string
		tables []Table
		want   string
	}{
		{"child before parent", []Table{child, parent}, "not loaded before"},
		{"unknown reference", []Table{child}, "undeclared table"},
		{"duplicate table", []Table{parent, parent}, "declared twice"},
		{"no columns", []Table{{Name: "empty"}}, "no columns"},
		{"bad primary key", []Table{{Name: "t", Columns: []Column{{Name: "a"}}, PrimaryKey: []string{"b"}}}, "primary key column"},
		{"duplicate column", []Table{{Name: "t", Columns: []Column{{Name: "a"}, {Name: "a"}}}}, "twice"},
		{
			"unknown referenced column",
			[]Table{parent, {
				Name:        "child",
				Columns:     []Column{{Name: "parent_id"}},
				ForeignKeys: []ForeignKey{{Columns: []string{"parent_id"}, RefTable: "parent", RefColumns: []string{"nope"}}},
			}},
			"unknown column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.tables...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewRegistry_Accepts(t *testing.T) {
	parent := Table{Name: "parent", Columns: []Column{{Name: "id"}}, PrimaryKey: []string{"id"}}
	child := Table{
		Name:        "child",
		Columns:     []Column{{Name: "parent_id"}},
		ForeignKeys: []ForeignKey{{Columns: []string{"parent_id"}, RefTable: "parent", RefColumns: []string{"id"}}},
	}

	reg, err := NewRegistry(parent, child)
	require.NoError(t, err)
	assert.Equal(t, []string{"parent", "child"}, reg.Order())

	_, ok := reg.Table("missing")
	assert.False(t, ok)
}

func TestFieldKind_String(t *testing.T) {
	assert.Equal(t, "text", Text.String())
	assert.Equal(t, "integer", Integer.String())
	assert.Equal(t, "decimal", Decimal.String())
	assert.Equal(t, "FieldKind(9)", FieldKind(9).String())
}
