package schema

import "github.com/vvka-141/ecomload/pkg/ecomload"

// Table names of the e-commerce dataset.
const (
	Customers  = "customers"
	Products   = "products"
	Orders     = "orders"
	OrderItems = "order_items"
	Reviews    = "reviews"
)

// Default returns the e-commerce registry:
// customers, products, orders, order_items, reviews.
func Default() *Registry {
	return MustRegistry(
		Table{
			Name:   Customers,
			Source: Customers + ecomload.SourceExtension,
			Columns: []Column{
				{Name: "customer_id", Kind: Text},
				{Name: "name", Kind: Text, NotNull: true},
				{Name: "email", Kind: Text, NotNull: true},
				{Name: "city", Kind: Text},
				{Name: "state", Kind: Text},
				{Name: "signup_date", Kind: Text},
				{Name: "loyalty_tier", Kind: Text},
			},
			PrimaryKey: []string{"customer_id"},
		},
		Table{
			Name:   Products,
			Source: Products + ecomload.SourceExtension,
			Columns: []Column{
				{Name: "product_id", Kind: Text},
				{Name: "product_name", Kind: Text, NotNull: true},
				{Name: "category", Kind: Text},
				{Name: "price", Kind: Decimal},
				{Name: "cost", Kind: Decimal},
				{Name: "currency", Kind: Text},
				{Name: "stock_status", Kind: Text},
			},
			PrimaryKey: []string{"product_id"},
		},
		Table{
			Name:   Orders,
			Source: Orders + ecomload.SourceExtension,
			Columns: []Column{
				{Name: "order_id", Kind: Text},
				{Name: "customer_id", Kind: Text, NotNull: true},
				{Name: "order_date", Kind: Text},
				{Name: "order_status", Kind: Text},
				{Name: "payment_method", Kind: Text},
				{Name: "order_total", Kind: Decimal},
				{Name: "ship_city", Kind: Text},
				{Name: "ship_state", Kind: Text},
			},
			PrimaryKey: []string{"order_id"},
			ForeignKeys: []ForeignKey{
				{Columns: []string{"customer_id"}, RefTable: Customers, RefColumns: []string{"customer_id"}},
			},
		},
		Table{
			Name:   OrderItems,
			Source: OrderItems + ecomload.SourceExtension,
			Columns: []Column{
				{Name: "order_id", Kind: Text, NotNull: true},
				{Name: "product_id", Kind: Text, NotNull: true},
				{Name: "quantity", Kind: Integer},
				{Name: "item_price", Kind: Decimal},
				{Name: "item_discount", Kind: Decimal},
			},
			PrimaryKey: []string{"order_id", "product_id"},
			ForeignKeys: []ForeignKey{
				{Columns: []string{"order_id"}, RefTable: Orders, RefColumns: []string{"order_id"}},
				{Columns: []string{"product_id"}, RefTable: Products, RefColumns: []string{"product_id"}},
			},
		},
		Table{
			Name:   Reviews,
			Source: Reviews + ecomload.SourceExtension,
			Columns: []Column{
				{Name: "review_id", Kind: Text},
				{Name: "order_id", Kind: Text, NotNull: true},
				{Name: "customer_id", Kind: Text, NotNull: true},
				{Name: "product_id", Kind: Text, NotNull: true},
				{Name: "rating", Kind: Integer},
				{Name: "review_text", Kind: Text},
				{Name: "review_date", Kind: Text},
			},
			PrimaryKey: []string{"review_id"},
			ForeignKeys: []ForeignKey{
				{Columns: []string{"order_id"}, RefTable: Orders, RefColumns: []string{"order_id"}},
				{Columns: []string{"customer_id"}, RefTable: Customers, RefColumns: []string{"customer_id"}},
				{Columns: []string{"product_id"}, RefTable: Products, RefColumns: []string{"product_id"}},
			},
		},
	)
}
