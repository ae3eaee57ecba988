package records_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crm-console/internal/app/records"
	"crm-console/internal/domain"
)

func TestOrderTotal(t *testing.T) {
	items := []domain.OrderItem{
		{Quantity: 2, UnitPrice: 10.5},
		{Quantity: 1, UnitPrice: 4},
	}
	assert.InDelta(t, 25.0, records.Total(items), 0.001)
	assert.Zero(t, records.Total(nil))
}

func TestLowStock(t *testing.T) {
	products := []domain.Product{
		{Name: "a", IsActive: true, StockQuantity: 3},
		{Name: "b", IsActive: true, StockQuantity: 50},
		{Name: "c", IsActive: false, StockQuantity: 0},
	}
	low := records.LowStock(products, 10)
	assert.Len(t, low, 1)
	assert.Equal(t, "a", low[0].Name)
}
