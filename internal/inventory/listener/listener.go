package listener

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/guineapos/checkout-service/internal/inventory"
	"github.com/guineapos/checkout-service/internal/model"
	"github.com/guineapos/checkout-service/pkg/broker"
	"github.com/guineapos/checkout-service/pkg/logger"
	"go.uber.org/zap"
)

// OrderListener consumes order events and deducts stock. Deduction happens
// asynchronously so a slow inventory write never blocks the checkout path.
type OrderListener struct {
	consumer *broker.KafkaConsumer
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewOrderListener(consumer *broker.KafkaConsumer, uc inventory.UseCase, log logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

// Run blocks until ctx is cancelled. Call it in its own goroutine.
func (l *OrderListener) Run(ctx context.Context) {
	l.logger.Info("order event listener started")
	for {
		msg, err := l.consumer.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				l.logger.Info("order event listener stopped")
				return
			}
			l.logger.Error("failed to read order event", zap.Error(err))
			continue
		}

		var order model.Order
		if err := json.Unmarshal(msg.Value, &order); err != nil {
			l.logger.Error("failed to decode order event",
				zap.ByteString("key", msg.Key), zap.Error(err))
			continue
		}

		if err := l.uc.DeductForOrder(ctx, &order); err != nil {
			l.logger.Error("failed to deduct stock for order",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}
}
