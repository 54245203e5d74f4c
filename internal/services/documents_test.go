package services

import (
	"bytes"
	"context"
	"testing"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseOrderPDF(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture()
	remark := "deliver before noon"
	po := &models.PurchaseOrder{
		ID:       uuid.New(),
		PONumber: "PO-20240601-AB12",
		Status:   models.PurchaseOrderStatusApproved,
		Supplier: &models.Partner{Name: "Globex"},
		Items: []models.PurchaseOrderItem{
			{ProductID: uuid.New(), Product: testProduct("t"), Quantity: 4, UnitPrice: 2.5},
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: 9},
		},
		TotalAmount: 19,
		Remark:      &remark,
	}
	f.repo.On("GetPurchaseOrder", ctx, "t", po.ID).Return(po, nil)

	docs := NewDocumentService(f.service, nil, nil, "Acme Ltd")
	data, filename, err := docs.PurchaseOrderPDF(ctx, "t", po.ID)
	require.NoError(t, err)
	assert.Equal(t, "PO-20240601-AB12.pdf", filename)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestDeliveryNotePDF_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	id := uuid.New()
	f.repo.On("GetOrder", ctx, "t", id).Return(nil, repository.ErrNotFound)

	docs := NewDocumentService(nil, f.service, nil, "Acme Ltd")
	_, _, err := docs.DeliveryNotePDF(ctx, "t", id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
