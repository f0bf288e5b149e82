package postgresql

import (
	"fmt"
	"slices"
	"strings"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
)

type table struct {
	name     string
	columns  []string
	writable []string
	// text columns matched with ILIKE by FetchFiltered
	search []string
	// has an updated_at column maintained on every patch
	touch bool
}

var tables = map[entity.Kind]table{
	entity.KindOrder: {
		name: "orders",
		columns: []string{
			"id", "display_id", "client_id", "store_id", "shipment_id", "status",
			"product_name", "product_url", "quantity", "declared_price", "commission",
			"shipping_cost", "delivery_cost", "amount_paid", "tracking_number",
			"order_date", "expected_arrival", "arrived_at", "stored_at", "withdrawn_at",
			"history", "notified", "printed", "created_at", "updated_at",
		},
		writable: []string{
			"client_id", "store_id", "shipment_id", "status",
			"product_name", "product_url", "quantity", "declared_price", "commission",
			"shipping_cost", "delivery_cost", "amount_paid", "tracking_number",
			"order_date", "expected_arrival", "arrived_at", "stored_at", "withdrawn_at",
			"history", "notified", "printed",
		},
		search: []string{"product_name", "tracking_number", "status"},
		touch:  true,
	},
	entity.KindClient: {
		name:     "clients",
		columns:  []string{"id", "display_id", "name", "phone", "city", "address", "notes", "created_at"},
		writable: []string{"name", "phone", "city", "address", "notes"},
		search:   []string{"name", "phone", "city"},
	},
	entity.KindStore: {
		name:     "stores",
		columns:  []string{"id", "display_id", "name", "url", "country"},
		writable: []string{"name", "url", "country"},
		search:   []string{"name", "url"},
	},
	entity.KindShipment: {
		name:     "shipments",
		columns:  []string{"id", "display_id", "carrier", "tracking_number", "weight_grams", "shipped_at"},
		writable: []string{"carrier", "tracking_number", "weight_grams", "shipped_at"},
		search:   []string{"carrier", "tracking_number"},
	},
}

func (t table) selectList() string {
	return strings.Join(t.columns, ", ")
}

// assignments picks the writable columns present in patch, in a stable order.
func (t table) assignments(patch mapper.Row) ([]string, []interface{}) {
	cols := make([]string, 0, len(patch))
	for col := range patch {
		if slices.Contains(t.writable, col) {
			cols = append(cols, col)
		}
	}
	slices.Sort(cols)

	vals := make([]interface{}, len(cols))
	for i, col := range cols {
		vals[i] = patch[col]
	}
	return cols, vals
}

// conditions picks the columns of expect in a stable order. Every one of them
// must be a column of the table.
func (t table) conditions(expect mapper.Row) ([]string, []interface{}, error) {
	cols := make([]string, 0, len(expect))
	for col := range expect {
		if !slices.Contains(t.columns, col) {
			return nil, nil, fmt.Errorf("unknown column %q of %s", col, t.name)
		}
		cols = append(cols, col)
	}
	slices.Sort(cols)

	vals := make([]interface{}, len(cols))
	for i, col := range cols {
		vals[i] = expect[col]
	}
	return cols, vals, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
