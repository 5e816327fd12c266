// Package prices resolves instrument closing prices from cached
// historical series, tolerating non-trading days by bounded forward
// probing.
package prices

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tradepilot/internal/broker"
	"tradepilot/internal/logging"
	"tradepilot/internal/models"
	"tradepilot/internal/performance"
	"tradepilot/pkg/utils"
)

// Provider supplies a daily close-price series for an instrument over a
// date range. The series may be empty.
type Provider interface {
	Fetch(ctx context.Context, symbol string, from, to models.Date) (models.Series, error)
}

// Kite historical API allows 3 requests per second.
const historicalRequestsPerSecond = 3

// BrokerProvider fetches price history through the brokerage client,
// rate limited and retried.
type BrokerProvider struct {
	broker  broker.Broker
	limiter *performance.RateLimiter
	retry   utils.RetryConfig
	log     zerolog.Logger
}

// NewBrokerProvider creates a provider backed by the given broker.
func NewBrokerProvider(b broker.Broker, logger zerolog.Logger) *BrokerProvider {
	return &BrokerProvider{
		broker:  b,
		limiter: performance.NewRateLimiter(historicalRequestsPerSecond, historicalRequestsPerSecond),
		retry:   utils.DefaultRetryConfig(),
		log:     logger,
	}
}

// Fetch retrieves the close-price series for symbol over [from, to].
func (p *BrokerProvider) Fetch(ctx context.Context, symbol string, from, to models.Date) (models.Series, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	series, err := utils.RetryWithResult(ctx, p.retry, func() (models.Series, error) {
		return p.broker.GetHistoricalClose(ctx, symbol, from.Time, to.Time)
	})

	logging.LogFetch(p.log, symbol, len(series), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return series, nil
}
