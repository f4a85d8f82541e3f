package models

import "github.com/shopspring/decimal"

func init() {
	// Money is sent to clients as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// All returns every model managed by migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserSettings{},
		&Category{},
		&Product{},
		&Order{},
		&OrderItem{},
		&OrderSequence{},
	}
}
