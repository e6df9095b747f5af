package entity_test

import (
	"testing"

	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateMovementDelta(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		delta string
		want  bool
	}{
		{"venta con delta negativo", entity.MovementKindSale, "-5", true},
		{"venta con delta positivo", entity.MovementKindSale, "5", false},
		{"compra con delta positivo", entity.MovementKindPurchase, "10", true},
		{"compra con delta negativo", entity.MovementKindPurchase, "-10", false},
		{"apertura con delta positivo", entity.MovementKindOpening, "100", true},
		{"apertura con delta negativo", entity.MovementKindOpening, "-100", false},
		{"ajuste positivo", entity.MovementKindAdjustment, "3", true},
		{"ajuste negativo", entity.MovementKindAdjustment, "-3", true},
		{"delta cero nunca es válido", entity.MovementKindAdjustment, "0", false},
		{"venta con delta cero", entity.MovementKindSale, "0", false},
		{"delta fraccionario válido", entity.MovementKindSale, "-0.25", true},
		{"tipo desconocido", "TRANSFER", "5", false},
		{"tipo vacío", "", "5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := decimal.RequireFromString(tt.delta)
			assert.Equal(t, tt.want, entity.ValidateMovementDelta(tt.kind, delta))
		})
	}
}

func TestMovementKindForDocument(t *testing.T) {
	assert.Equal(t, entity.MovementKindSale, entity.MovementKindForDocument(entity.DocumentKindSale))
	assert.Equal(t, entity.MovementKindPurchase, entity.MovementKindForDocument(entity.DocumentKindPurchase))
}
