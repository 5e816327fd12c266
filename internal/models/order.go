package models

import "time"

// Order represents a trading order.
type Order struct {
	ID       string
	Symbol   string
	Exchange Exchange
	Side     Side
	Type     OrderType
	Product  ProductType
	Quantity int
	Price    float64
	Validity string // DAY, IOC
	Tag      string
	Status   string
	PlacedAt time.Time
}

// Position represents an open trading position at the broker.
type Position struct {
	Symbol       string
	Exchange     Exchange
	Product      ProductType
	Quantity     int
	AveragePrice float64
	LTP          float64
	PnL          float64
}

// Holding represents a delivery holding.
type Holding struct {
	Symbol        string
	Quantity      int
	AveragePrice  float64
	LTP           float64
	PnL           float64
	InvestedValue float64
	CurrentValue  float64
}
