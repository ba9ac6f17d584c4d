package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patwikx/retail-inventory-service/internal/inventory"
	"github.com/patwikx/retail-inventory-service/internal/inventory/dto"
	"github.com/patwikx/retail-inventory-service/pkg/broker"
	"github.com/patwikx/retail-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// InventoryListener consumes order events and debits stock through the
// stock operation engine, so order-driven changes get the same movement audit
// as manual adjustments.
type InventoryListener struct {
	consumer *broker.KafkaConsumer
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer *broker.KafkaConsumer, uc inventory.UseCase, log logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting inventory Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping inventory Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID     string             `json:"id"`
	SiteID string             `json:"site_id"`
	Items  []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	for _, item := range event.Payload.Items {
		inv, err := l.uc.GetByProductSite(ctx, item.ProductID, event.Payload.SiteID)
		if err != nil {
			l.logger.Error("Failed to load inventory for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			continue
		}
		if inv == nil {
			l.logger.Warn("No inventory row for ordered product, skipping",
				zap.String("order_id", event.Payload.ID),
				zap.String("product_id", item.ProductID),
				zap.String("site_id", event.Payload.SiteID),
			)
			continue
		}

		_, err = l.uc.Adjust(ctx, &dto.AdjustStockInput{
			InventoryID: inv.ID,
			Type:        dto.AdjustTypeOut,
			Quantity:    item.Quantity,
			Reason:      "Order Sale",
			Reference:   event.Payload.ID,
			ActorID:     "system",
		})
		if err != nil {
			l.logger.Error("Failed to adjust inventory for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}
}
