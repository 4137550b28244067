package supplier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsupplier "github.com/jhoicas/Proveedores-api/internal/application/supplier"
	"github.com/jhoicas/Proveedores-api/internal/domain"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	dsupplier "github.com/jhoicas/Proveedores-api/internal/domain/supplier"
)

type fakeGenerator struct {
	doc appsupplier.OrderDocument
	err error
}

func (g *fakeGenerator) GenerateOrderPDF(_ context.Context, doc appsupplier.OrderDocument) ([]byte, error) {
	g.doc = doc
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4"), nil
}

type namesByID map[string]string

func (n namesByID) DisplayName(_ context.Context, id string) string {
	if name, ok := n[id]; ok {
		return name
	}
	return id
}

func TestDownloadOrderPDF_DraftRechazada(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 1, "10")
	gen := &fakeGenerator{}
	uc := appsupplier.NewPDFUseCase(e.repos, namesByID{}, gen)

	_, _, err := uc.DownloadOrderPDF(context.Background(), o.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Nil(t, gen.doc.Order, "no se invoca al generador")
}

func TestDownloadOrderPDF_ResuelveActores(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 1, "10")
	e.advance(t, o.ID, entity.OrderStatusReceived)
	gen := &fakeGenerator{}
	uc := appsupplier.NewPDFUseCase(e.repos, namesByID{actorID: "Laura Gómez"}, gen)

	data, filename, err := uc.DownloadOrderPDF(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Equal(t, "orden-"+o.DisplayID+".pdf", filename)
	assert.Equal(t, "Laura Gómez", gen.doc.CreatedByName)
	assert.Equal(t, "Laura Gómez", gen.doc.ReceivedName)
	assert.Equal(t, "Andina", gen.doc.Supplier.Name)
	assert.Len(t, gen.doc.Order.Lines, 1)
}

func TestDownloadOrderPDF_ErrorDelGenerador(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	o := e.order(t, e.supplier(t, "s1", "Andina").ID, 1, "10")
	e.advance(t, o.ID, entity.OrderStatusConfirmed)
	boom := errors.New("sin fuentes")
	uc := appsupplier.NewPDFUseCase(e.repos, namesByID{}, &fakeGenerator{err: boom})

	_, _, err := uc.DownloadOrderPDF(context.Background(), o.ID)
	assert.True(t, errors.Is(err, boom))
}

func TestDownloadOrderPDF_OrdenInexistente(t *testing.T) {
	e := newEnv(t, dsupplier.ReceivePolicyAnyReceipt)
	uc := appsupplier.NewPDFUseCase(e.repos, namesByID{}, &fakeGenerator{})

	_, _, err := uc.DownloadOrderPDF(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
