// Package events provides NATS event publishing for erp-service
package events

import (
	"context"
	"fmt"
	"time"

	"erp-service/internal/models"
	"github.com/Tesseract-Nexus/go-shared/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Publisher publishes inventory, order and payment events to NATS.
// A nil *Publisher is valid and drops every event, which is how the
// service runs when NATS_URL is empty.
type Publisher struct {
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewPublisher connects to NATS and ensures the streams this service writes to
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	if natsURL == "" {
		return nil, fmt.Errorf("NATS URL is required")
	}

	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	config := events.DefaultPublisherConfig(natsURL)
	config.Name = "erp-service-publisher"

	publisher, err := events.NewPublisher(config, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	streams := map[string][]string{
		events.StreamInventory: {"inventory.>"},
		events.StreamOrders:    {"order.>"},
		events.StreamPayments:  {"payment.>"},
	}
	for stream, subjects := range streams {
		if err := publisher.EnsureStream(ctx, stream, subjects); err != nil {
			log.WithError(err).WithField("stream", stream).Warn("Failed to ensure stream exists")
		}
	}

	return &Publisher{
		publisher: publisher,
		logger:    log.WithField("component", "erp-events"),
	}, nil
}

func (p *Publisher) enabled() bool {
	return p != nil && p.publisher != nil
}

func inventoryItem(product *models.Product, warehouseID uuid.UUID, current int) events.InventoryItem {
	return events.InventoryItem{
		ProductID:    product.ID.String(),
		Name:         product.Name,
		SKU:          product.SKU,
		CurrentStock: current,
		ReorderPoint: product.EffectiveMinStock(),
		WarehouseID:  warehouseID.String(),
	}
}

// PublishStockAdjusted publishes an inventory.adjusted event
func (p *Publisher) PublishStockAdjusted(ctx context.Context, tenantID string, product *models.Product, warehouseID uuid.UUID, previousStock, currentStock int, reason, adjustedBy string) error {
	if !p.enabled() {
		return nil
	}

	event := events.NewInventoryEvent(events.InventoryAdjusted, tenantID)
	item := inventoryItem(product, warehouseID, currentStock)
	item.PreviousStock = previousStock
	event.Items = []events.InventoryItem{item}
	event.AdjustmentReason = reason
	event.AdjustedBy = adjustedBy
	switch {
	case currentStock > previousStock:
		event.AdjustmentType = "add"
	case currentStock < previousStock:
		event.AdjustmentType = "remove"
	default:
		event.AdjustmentType = "set"
	}
	event.AlertLevel = "info"
	event.AlertMessage = fmt.Sprintf("Stock adjusted: %s (SKU: %s) changed from %d to %d", product.Name, product.SKU, previousStock, currentStock)

	if err := p.publisher.PublishInventory(ctx, event); err != nil {
		p.logger.WithFields(logrus.Fields{
			"productId": product.ID,
			"sku":       product.SKU,
		}).WithError(err).Error("Failed to publish inventory.adjusted event")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"productId":      product.ID,
		"sku":            product.SKU,
		"previousStock":  previousStock,
		"currentStock":   currentStock,
		"adjustmentType": event.AdjustmentType,
	}).Debug("Published inventory.adjusted event")
	return nil
}

// PublishLowStock publishes an inventory.low_stock event
func (p *Publisher) PublishLowStock(ctx context.Context, tenantID string, product *models.Product, currentStock int) error {
	if !p.enabled() {
		return nil
	}

	event := events.NewInventoryEvent(events.InventoryLowStock, tenantID)
	event.Items = []events.InventoryItem{inventoryItem(product, uuid.Nil, currentStock)}
	event.AlertLevel = "warning"
	event.AlertMessage = fmt.Sprintf("Low stock alert: %s (SKU: %s) has %d units remaining (threshold: %d)",
		product.Name, product.SKU, currentStock, product.EffectiveMinStock())
	event.CalculateSummary()

	return p.publishInventory(ctx, event, events.InventoryLowStock, product)
}

// PublishOutOfStock publishes an inventory.out_of_stock event
func (p *Publisher) PublishOutOfStock(ctx context.Context, tenantID string, product *models.Product) error {
	if !p.enabled() {
		return nil
	}

	event := events.NewInventoryEvent(events.InventoryOutOfStock, tenantID)
	event.Items = []events.InventoryItem{inventoryItem(product, uuid.Nil, 0)}
	event.AlertLevel = "critical"
	event.AlertMessage = fmt.Sprintf("Out of stock: %s (SKU: %s) is now out of stock", product.Name, product.SKU)
	event.CalculateSummary()

	return p.publishInventory(ctx, event, events.InventoryOutOfStock, product)
}

func (p *Publisher) publishInventory(ctx context.Context, event *events.InventoryEvent, eventType string, product *models.Product) error {
	if err := p.publisher.PublishInventory(ctx, event); err != nil {
		p.logger.WithFields(logrus.Fields{
			"eventType": eventType,
			"productId": product.ID,
			"sku":       product.SKU,
		}).WithError(err).Error("Failed to publish inventory event")
		return err
	}
	p.logger.WithFields(logrus.Fields{
		"eventType": eventType,
		"productId": product.ID,
	}).Info("Published inventory event")
	return nil
}

// PublishOrderCreated publishes an order.created event
func (p *Publisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	if !p.enabled() {
		return nil
	}
	return p.publishOrder(p.buildOrderEvent(events.OrderCreated, order))
}

// PublishOrderShipped publishes an order.shipped event
func (p *Publisher) PublishOrderShipped(ctx context.Context, order *models.Order) error {
	if !p.enabled() {
		return nil
	}
	return p.publishOrder(p.buildOrderEvent(events.OrderShipped, order))
}

// PublishOrderCancelled publishes an order.cancelled event
func (p *Publisher) PublishOrderCancelled(ctx context.Context, order *models.Order, reason, cancelledBy string) error {
	if !p.enabled() {
		return nil
	}
	event := p.buildOrderEvent(events.OrderCancelled, order)
	event.CancellationReason = reason
	event.CancelledBy = cancelledBy
	return p.publishOrder(event)
}

func (p *Publisher) buildOrderEvent(eventType string, order *models.Order) *events.OrderEvent {
	event := events.NewOrderEvent(eventType, order.TenantID)
	event.SourceID = uuid.New().String()
	event.OrderID = order.ID.String()
	event.OrderNumber = order.OrderNo
	event.OrderDate = order.CreatedAt.Format(time.RFC3339)
	event.Status = string(order.Status)
	event.TotalAmount = order.TotalAmount
	event.Currency = "CNY"
	event.CustomerID = order.CustomerID.String()
	if order.Customer != nil {
		event.CustomerName = order.Customer.Name
	}

	event.Items = make([]events.OrderItem, len(order.Items))
	for i, item := range order.Items {
		orderItem := events.OrderItem{
			ProductID:  item.ProductID.String(),
			Quantity:   item.Quantity,
			UnitPrice:  item.Price,
			TotalPrice: item.Subtotal,
		}
		if item.Product != nil {
			orderItem.SKU = item.Product.SKU
			orderItem.Name = item.Product.Name
		}
		event.Items[i] = orderItem
	}
	event.ItemCount = len(order.Items)
	return event
}

// publishOrder publishes asynchronously so callers are not blocked on NATS
func (p *Publisher) publishOrder(event *events.OrderEvent) error {
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := p.publisher.PublishOrder(pubCtx, event); err != nil {
			p.logger.WithFields(logrus.Fields{
				"eventType":   event.EventType,
				"orderNumber": event.OrderNumber,
				"tenantID":    event.TenantID,
			}).WithError(err).Error("Failed to publish order event")
			return
		}
		p.logger.WithFields(logrus.Fields{
			"eventType":   event.EventType,
			"orderNumber": event.OrderNumber,
			"tenantID":    event.TenantID,
		}).Info("Order event published successfully")
	}()

	return nil
}

// PublishPaymentCaptured publishes a payment.captured event for a receivable payment
func (p *Publisher) PublishPaymentCaptured(ctx context.Context, payment *models.PaymentRecord, receivable *models.Receivable) error {
	if !p.enabled() {
		return nil
	}

	event := events.NewPaymentEvent(events.PaymentCaptured, payment.TenantID)
	event.PaymentID = payment.PaymentNo
	event.OrderID = receivable.OrderID.String()
	event.CustomerID = payment.CustomerID.String()
	if receivable.Customer != nil {
		event.CustomerName = receivable.Customer.Name
	}
	if receivable.Order != nil {
		event.OrderNumber = receivable.Order.OrderNo
	}
	event.Amount = payment.Amount
	event.Currency = "CNY"
	event.Method = string(payment.Method)
	event.Status = "captured"

	if err := p.publisher.PublishPayment(ctx, event); err != nil {
		p.logger.WithFields(logrus.Fields{
			"paymentNo": payment.PaymentNo,
			"tenantID":  payment.TenantID,
		}).WithError(err).Error("Failed to publish payment event")
		return err
	}
	return nil
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.enabled() && p.publisher.IsConnected()
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.enabled() {
		p.publisher.Close()
	}
}
