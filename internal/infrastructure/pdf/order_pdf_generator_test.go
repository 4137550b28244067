package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	appsupplier "github.com/jhoicas/Proveedores-api/internal/application/supplier"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
)

func TestGenerateOrderPDF_DevuelvePDF(t *testing.T) {
	g := NewMarotoOrderPDFGenerator(language.Spanish)
	order := &entity.Order{
		ID:        "0b6f7d5e-1111-2222-3333-444455556666",
		DisplayID: "PO-0B6F7D5E",
		Type:      entity.OrderTypeSupplier,
		Status:    entity.OrderStatusConfirmed,
		Currency:  "COP",
		Subtotal:  decimal.NewFromInt(250000),
		Total:     decimal.NewFromInt(250000),
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Lines: []*entity.OrderLine{{
			Title:           "Café 500g",
			SKU:             "CAF-500",
			QuantityOrdered: decimal.NewFromInt(10),
			UnitPrice:       decimal.NewFromInt(25000),
			TotalPrice:      decimal.NewFromInt(250000),
		}},
	}
	out, err := g.GenerateOrderPDF(context.Background(), appsupplier.OrderDocument{
		Order:    order,
		Supplier: &entity.Supplier{Name: "Distribuidora Andina", Code: "DIST-AND"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestGenerateOrderPDF_DocumentoIncompleto(t *testing.T) {
	g := NewMarotoOrderPDFGenerator(language.Spanish)
	_, err := g.GenerateOrderPDF(context.Background(), appsupplier.OrderDocument{})
	assert.Error(t, err)
}

func TestMoney_FormatoLocal(t *testing.T) {
	g := NewMarotoOrderPDFGenerator(language.Spanish)
	got := g.money(decimal.RequireFromString("1234567.5"))
	assert.True(t, len(got) > 0 && got[0] == '$')
	assert.Contains(t, got, ",50", "separador decimal en español")
	assert.Equal(t, "12", g.quantity(decimal.NewFromInt(12)))
}
