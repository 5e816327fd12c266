// Package broker provides broker integration interfaces and implementations.
package broker

import (
	"context"
	"time"

	"tradepilot/internal/models"
)

// Broker defines the brokerage operations this application consumes.
type Broker interface {
	// Authentication
	IsAuthenticated() bool
	CompleteLogin(ctx context.Context, requestToken string) error
	Logout(ctx context.Context) error

	// Market data
	LTP(ctx context.Context, symbol string) (float64, error)
	GetHistoricalClose(ctx context.Context, symbol string, from, to time.Time) (models.Series, error)

	// Account
	GetHoldings(ctx context.Context) ([]models.Holding, error)
	GetPositions(ctx context.Context) ([]models.Position, error)

	// Orders
	PlaceOrder(ctx context.Context, order *models.Order) (*OrderResult, error)
}

// OrderResult represents the result of an order placement.
type OrderResult struct {
	OrderID string
	Status  string
	Message string
}
