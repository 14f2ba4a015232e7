package gateway

import (
	"context"

	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

// PaymentGateway opens orders with the external payment provider. Timeouts
// and retries against the provider live behind this interface, not in the
// booking engine.
type PaymentGateway interface {
	CreateExternalOrder(ctx context.Context, amountMinorUnits int64, currency string) (string, error)
}

// SimulatedGateway issues locally generated order ids. It stands in for
// the real provider adapter in development and tests.
type SimulatedGateway struct {
	prefix string
	log    *zap.Logger
}

func NewSimulatedGateway(prefix string, log *zap.Logger) *SimulatedGateway {
	return &SimulatedGateway{
		prefix: prefix,
		log:    log.With(zap.String("gateway", "simulated")),
	}
}

func (g *SimulatedGateway) CreateExternalOrder(ctx context.Context, amountMinorUnits int64, currency string) (string, error) {
	orderID := utils.GenerateOrderID(g.prefix)

	g.log.Info("External order created",
		zap.String("order_id", orderID),
		zap.Int64("amount_minor_units", amountMinorUnits),
		zap.String("currency", currency),
	)

	return orderID, nil
}
