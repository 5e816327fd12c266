// Package webhook exposes the trade automation HTTP surface: a
// TradingView-style order webhook and an advisory scan endpoint.
package webhook

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tradepilot/internal/advisor"
	"tradepilot/internal/broker"
	"tradepilot/internal/logging"
	"tradepilot/internal/models"
)

// Recommender yields a per-symbol advisory verdict. *advisor.Advisor
// satisfies this.
type Recommender interface {
	Recommend(ctx context.Context, symbol string) advisor.Recommendation
}

// SignalRecorder journals webhook-received signals for later
// reconciliation. *signals.Recorder satisfies this.
type SignalRecorder interface {
	Record(symbol string, side models.Side, date models.Date) error
}

// Server wires the router over the broker and advisor.
type Server struct {
	R        *gin.Engine
	broker   broker.Broker
	advisor  Recommender
	recorder SignalRecorder
	budget   float64
	log      zerolog.Logger
}

// NewServer builds the router. budget is the rupee amount a scan-driven
// buy targets per instrument; recorder may be nil to disable journaling.
func NewServer(b broker.Broker, rec Recommender, recorder SignalRecorder, budget float64, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()

	g.Use(func(cn *gin.Context) {
		start := time.Now()
		cn.Next()
		logger.Info().
			Str("method", cn.Request.Method).
			Str("path", cn.Request.URL.Path).
			Int("status", cn.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http_request")
	})
	g.Use(gin.Recovery())

	s := &Server{
		R:        g,
		broker:   b,
		advisor:  rec,
		recorder: recorder,
		budget:   budget,
		log:      logger,
	}

	g.GET("/", func(cn *gin.Context) { cn.String(http.StatusOK, "Stock Agent Running!") })
	g.POST("/webhook", s.handleWebhook)
	g.POST("/scan", s.handleScan)

	return s
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.R.Run(addr)
}

type webhookRequest struct {
	Symbol string `json:"symbol"`
	Action string `json:"action"`
}

// handleWebhook places a single-share CNC market order for the given
// symbol and journals the signal.
func (s *Server) handleWebhook(cn *gin.Context) {
	var req webhookRequest
	if err := cn.ShouldBindJSON(&req); err != nil || req.Symbol == "" || req.Action == "" {
		cn.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	side := models.Side(strings.ToUpper(strings.TrimSpace(req.Action)))
	if !side.IsValid() {
		cn.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		return
	}

	result, err := s.broker.PlaceOrder(cn.Request.Context(), &models.Order{
		Symbol:   symbol,
		Exchange: models.NSE,
		Side:     side,
		Type:     models.OrderTypeMarket,
		Product:  models.ProductCNC,
		Quantity: 1,
		Validity: "DAY",
	})
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Webhook order failed")
		cn.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logging.LogOrder(s.log, result.OrderID, symbol, string(side), result.Status)
	s.journal(symbol, side)
	cn.JSON(http.StatusOK, gin.H{
		"status":   string(side) + " placed",
		"order_id": result.OrderID,
	})
}

type scanRequest struct {
	Stocks string `json:"stocks"`
}

type scanResult struct {
	Symbol   string `json:"symbol"`
	Status   string `json:"status,omitempty"`
	OrderID  string `json:"order_id,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleScan runs the advisory flow over a comma-separated symbol list.
// Holdings and positions are fetched once; per-symbol failures land in
// that symbol's result instead of failing the scan.
func (s *Server) handleScan(cn *gin.Context) {
	var req scanRequest
	if err := cn.ShouldBindJSON(&req); err != nil {
		cn.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	var symbols []string
	for _, raw := range strings.Split(req.Stocks, ",") {
		if sym := strings.ToUpper(strings.TrimSpace(raw)); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	if len(symbols) == 0 {
		cn.JSON(http.StatusBadRequest, gin.H{"error": "No stocks found in payload"})
		return
	}

	ctx := cn.Request.Context()

	holdings, err := s.broker.GetHoldings(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to fetch holdings")
		cn.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch holdings or positions"})
		return
	}
	positions, err := s.broker.GetPositions(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to fetch positions")
		cn.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch holdings or positions"})
		return
	}

	heldQty := make(map[string]int)
	for _, h := range holdings {
		heldQty[strings.ToUpper(h.Symbol)] += h.Quantity
	}
	for _, p := range positions {
		heldQty[strings.ToUpper(p.Symbol)] += p.Quantity
	}

	results := make([]scanResult, 0, len(symbols))
	for _, symbol := range symbols {
		results = append(results, s.scanSymbol(ctx, symbol, heldQty))
	}

	cn.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) scanSymbol(ctx context.Context, symbol string, heldQty map[string]int) scanResult {
	verdict := s.advisor.Recommend(ctx, "NSE:"+symbol)

	switch verdict {
	case advisor.RecommendBuy:
		if heldQty[symbol] != 0 {
			return scanResult{Symbol: symbol, Status: symbol + " already in holdings or positions, skipping buy"}
		}
		price, err := s.broker.LTP(ctx, symbol)
		if err != nil {
			return scanResult{Symbol: symbol, Error: err.Error()}
		}
		quantity := 1
		if price > 0 {
			if q := int(math.Floor(s.budget / price)); q > 1 {
				quantity = q
			}
		}
		result, err := s.broker.PlaceOrder(ctx, &models.Order{
			Symbol:   symbol,
			Exchange: models.NSE,
			Side:     models.SideBuy,
			Type:     models.OrderTypeMarket,
			Product:  models.ProductCNC,
			Quantity: quantity,
			Validity: "DAY",
		})
		if err != nil {
			return scanResult{Symbol: symbol, Error: err.Error()}
		}
		logging.LogOrder(s.log, result.OrderID, symbol, string(models.SideBuy), result.Status)
		s.journal(symbol, models.SideBuy)
		return scanResult{Symbol: symbol, Status: "BUY placed", OrderID: result.OrderID, Quantity: quantity}

	case advisor.RecommendSell:
		quantity := heldQty[symbol]
		if quantity <= 0 {
			return scanResult{Symbol: symbol, Status: symbol + " not in holdings or positions, skipping sell"}
		}
		result, err := s.broker.PlaceOrder(ctx, &models.Order{
			Symbol:   symbol,
			Exchange: models.NSE,
			Side:     models.SideSell,
			Type:     models.OrderTypeMarket,
			Product:  models.ProductCNC,
			Quantity: quantity,
			Validity: "DAY",
		})
		if err != nil {
			return scanResult{Symbol: symbol, Error: err.Error()}
		}
		logging.LogOrder(s.log, result.OrderID, symbol, string(models.SideSell), result.Status)
		s.journal(symbol, models.SideSell)
		return scanResult{Symbol: symbol, Status: "SELL placed", OrderID: result.OrderID, Quantity: quantity}

	default:
		s.log.Warn().Str("symbol", symbol).Msg("Advisory undetermined")
		return scanResult{Symbol: symbol, Status: "AI could not determine action for " + symbol}
	}
}

func (s *Server) journal(symbol string, side models.Side) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(symbol, side, models.DateOf(time.Now())); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Signal journaling failed")
	}
}
