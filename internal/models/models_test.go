package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestMoveTypeDelta(t *testing.T) {
	tests := []struct {
		moveType MoveType
		want     int
		ok       bool
	}{
		{MoveTypeInbound, 5, true},
		{MoveTypeReturn, 5, true},
		{MoveTypeOutbound, -5, true},
		{MoveTypeCheck, -5, true},
		{MoveTypeMove, 0, false},
		{MoveType("gift"), 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.moveType), func(t *testing.T) {
			got, ok := tt.moveType.Delta(5)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductTotalStock(t *testing.T) {
	p := &Product{Stocks: []Stock{{Quantity: 3}, {Quantity: 7}}}
	assert.Equal(t, 10, p.TotalStock())

	require.NoError(t, p.AfterFind(nil))
	assert.Equal(t, 10, p.StockTotal)

	assert.Equal(t, 10, (&Product{}).EffectiveMinStock())
	assert.Equal(t, 4, (&Product{MinStock: 4}).EffectiveMinStock())
}

func TestStocktakeItemVariance(t *testing.T) {
	item := &StocktakeItem{SystemQty: 10, UnitCost: 2.5}
	assert.Equal(t, 0, item.Variance())
	assert.Equal(t, VarianceMatch, item.VarianceType())

	item.ActualQty = intPtr(13)
	assert.Equal(t, 3, item.Variance())
	assert.Equal(t, VarianceSurplus, item.VarianceType())
	assert.Equal(t, 7.5, item.VarianceValue())

	item.ActualQty = intPtr(8)
	assert.Equal(t, VarianceLoss, item.VarianceType())
	assert.Equal(t, -5.0, item.VarianceValue())
}

func TestStocktakeProgress(t *testing.T) {
	assert.Equal(t, 0.0, (&Stocktake{}).Progress())
	assert.Equal(t, 33.3, (&Stocktake{TotalItems: 3, CountedItems: 1}).Progress())

	body, err := json.Marshal(Stocktake{TotalItems: 4, CountedItems: 2})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"progress":50`)
}

func TestCustomerCredit(t *testing.T) {
	c := &CustomerCredit{CreditLimit: 1000, UsedCredit: 850, WarningThreshold: 80}
	assert.Equal(t, 150.0, c.AvailableCredit())
	assert.Equal(t, 85.0, c.UsageRate())
	assert.True(t, c.IsWarning())

	over := &CustomerCredit{CreditLimit: 100, UsedCredit: 150}
	assert.Equal(t, 0.0, over.AvailableCredit())

	zero := &CustomerCredit{}
	assert.Equal(t, 0.0, zero.UsageRate())
}

func TestReceivableAging(t *testing.T) {
	now := time.Date(2026, 3, 31, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		due    time.Time
		status ReceivableStatus
		days   int
		bucket AgeBucket
	}{
		{"not yet due", now.AddDate(0, 0, 5), ReceivableStatusPending, 0, AgeBucketCurrent},
		{"due today", now, ReceivableStatusPending, 0, AgeBucketCurrent},
		{"one day late", now.AddDate(0, 0, -1), ReceivableStatusPending, 1, AgeBucket0To30},
		{"thirty days", now.AddDate(0, 0, -30), ReceivableStatusOverdue, 30, AgeBucket0To30},
		{"forty five days", now.AddDate(0, 0, -45), ReceivableStatusOverdue, 45, AgeBucket31To60},
		{"ninety days", now.AddDate(0, 0, -90), ReceivableStatusOverdue, 90, AgeBucket61To90},
		{"long overdue", now.AddDate(0, 0, -120), ReceivableStatusOverdue, 120, AgeBucketOver90},
		{"paid", now.AddDate(0, 0, -120), ReceivableStatusPaid, 0, AgeBucketCurrent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Receivable{DueDate: tt.due, Status: tt.status}
			assert.Equal(t, tt.days, r.OverdueDays(now))
			assert.Equal(t, tt.bucket, r.AgeBucket(now))
		})
	}
}

func TestPurchaseOrderProgress(t *testing.T) {
	po := &PurchaseOrder{Items: []PurchaseOrderItem{
		{Quantity: 10, ReceivedQty: 10, UnitPrice: 2},
		{Quantity: 10, ReceivedQty: 5, UnitPrice: 4},
	}}

	assert.Equal(t, 40.0, po.ReceivedAmount())
	assert.Equal(t, 75.0, po.ReceiveProgress())
	assert.False(t, po.FullyReceived())
	assert.Equal(t, 5, po.Items[1].PendingQty())

	po.Items[1].ReceivedQty = 12
	assert.Equal(t, 0, po.Items[1].PendingQty())
	assert.True(t, po.FullyReceived())
}

func TestSupplierPerformanceRates(t *testing.T) {
	assert.Equal(t, 100.0, (&SupplierPerformance{}).OnTimeRate())

	p := &SupplierPerformance{TotalOrders: 3, OnTimeOrders: 2, QualityPassed: 3}
	assert.Equal(t, 66.7, p.OnTimeRate())
	assert.Equal(t, 100.0, p.QualityRate())
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusPaid))
	assert.True(t, OrderStatusPaid.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDone))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusDone.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusShipped))
}

func TestPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(2, 20, 41)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 20, ListParams{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 0, ListParams{Page: 0, Limit: 20}.Offset())
}
