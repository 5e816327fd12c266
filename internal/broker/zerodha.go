package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"tradepilot/internal/errors"
	"tradepilot/internal/models"
)

// Zerodha implements the Broker interface for Zerodha Kite Connect.
type Zerodha struct {
	client        *kiteconnect.Client
	apiKey        string
	apiSecret     string
	userID        string
	exchange      models.Exchange
	accessToken   string
	tokenPath     string
	authenticated bool
	instruments   map[string]uint32
	mu            sync.RWMutex
}

// ZerodhaConfig holds configuration for the Zerodha broker.
type ZerodhaConfig struct {
	APIKey      string
	APISecret   string
	AccessToken string // optional; skips the OAuth flow when set
	UserID      string
	Exchange    models.Exchange
	TokenPath   string
}

// NewZerodha creates a new Zerodha broker instance. An access token from
// the config is used directly; otherwise any persisted session is loaded.
func NewZerodha(cfg ZerodhaConfig) *Zerodha {
	client := kiteconnect.New(cfg.APIKey)

	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		homeDir, _ := os.UserHomeDir()
		tokenPath = filepath.Join(homeDir, ".config", "tradepilot", "session.json")
	}
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = models.NSE
	}

	z := &Zerodha{
		client:      client,
		apiKey:      cfg.APIKey,
		apiSecret:   cfg.APISecret,
		userID:      cfg.UserID,
		exchange:    exchange,
		tokenPath:   tokenPath,
		instruments: make(map[string]uint32),
	}

	if cfg.AccessToken != "" {
		z.accessToken = cfg.AccessToken
		z.authenticated = true
		client.SetAccessToken(cfg.AccessToken)
		return z
	}

	_ = z.loadSession()
	return z
}

// sessionData represents persisted session data.
type sessionData struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CompleteLogin completes the OAuth flow with the request token obtained
// from the Kite login page.
func (z *Zerodha) CompleteLogin(ctx context.Context, requestToken string) error {
	session, err := z.client.GenerateSession(requestToken, z.apiSecret)
	if err != nil {
		return fmt.Errorf("failed to generate session: %w", err)
	}

	z.mu.Lock()
	z.accessToken = session.AccessToken
	z.authenticated = true
	z.client.SetAccessToken(session.AccessToken)
	z.mu.Unlock()

	if err := z.saveSession(session.AccessToken); err != nil {
		// Session is valid even if persistence failed.
		fmt.Printf("warning: failed to persist session: %v\n", err)
	}

	return nil
}

// LoginURL returns the Kite login URL for the OAuth flow.
func (z *Zerodha) LoginURL() string {
	return z.client.GetLoginURL()
}

// Logout invalidates the session and removes the persisted token.
func (z *Zerodha) Logout(ctx context.Context) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.authenticated {
		if _, err := z.client.InvalidateAccessToken(); err != nil {
			fmt.Printf("warning: failed to invalidate token: %v\n", err)
		}
	}

	z.accessToken = ""
	z.authenticated = false

	if err := os.Remove(z.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}

// IsAuthenticated returns whether the broker is authenticated.
func (z *Zerodha) IsAuthenticated() bool {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.authenticated
}

func (z *Zerodha) loadSession() error {
	data, err := os.ReadFile(z.tokenPath)
	if err != nil {
		return err
	}

	var session sessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return err
	}

	// Zerodha tokens expire at 6 AM IST the next day.
	if time.Now().After(session.ExpiresAt) {
		return fmt.Errorf("session expired")
	}

	z.mu.Lock()
	z.accessToken = session.AccessToken
	z.authenticated = true
	z.client.SetAccessToken(session.AccessToken)
	z.mu.Unlock()

	return nil
}

func (z *Zerodha) saveSession(accessToken string) error {
	dir := filepath.Dir(z.tokenPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	loc, _ := time.LoadLocation("Asia/Kolkata")
	now := time.Now().In(loc)
	expiresAt := time.Date(now.Year(), now.Month(), now.Day()+1, 6, 0, 0, 0, loc)

	session := sessionData{
		AccessToken: accessToken,
		UserID:      z.userID,
		ExpiresAt:   expiresAt,
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return os.WriteFile(z.tokenPath, data, 0600)
}

// LTP fetches the last traded price for a symbol.
func (z *Zerodha) LTP(ctx context.Context, symbol string) (float64, error) {
	if !z.IsAuthenticated() {
		return 0, errors.ErrNotAuthenticated
	}

	instrument := fmt.Sprintf("%s:%s", z.exchange, symbol)
	quotes, err := z.client.GetLTP(instrument)
	if err != nil {
		return 0, errors.NewBrokerError("ltp", "failed to get LTP", err)
	}

	q, ok := quotes[instrument]
	if !ok {
		return 0, errors.Wrapf(errors.ErrSymbolNotFound, "no LTP for %s", instrument)
	}

	return q.LastPrice, nil
}

// GetHistoricalClose fetches the daily close-price series for a symbol.
// The series may omit weekends and holidays, and may be empty.
func (z *Zerodha) GetHistoricalClose(ctx context.Context, symbol string, from, to time.Time) (models.Series, error) {
	if !z.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}

	token, err := z.instrumentToken(symbol)
	if err != nil {
		return nil, err
	}

	data, err := z.client.GetHistoricalData(int(token), "day", from, to, false, false)
	if err != nil {
		return nil, errors.NewBrokerError("historical", "failed to get historical data", err)
	}

	series := make(models.Series, len(data))
	for i, d := range data {
		series[i] = models.PricePoint{
			Date:  models.DateOf(d.Date.Time),
			Close: decimal.NewFromFloat(d.Close),
		}
	}

	return series, nil
}

func (z *Zerodha) instrumentToken(symbol string) (uint32, error) {
	z.mu.RLock()
	token, ok := z.instruments[symbol]
	z.mu.RUnlock()
	if ok {
		return token, nil
	}

	instruments, err := z.client.GetInstruments()
	if err != nil {
		return 0, errors.NewBrokerError("instruments", "failed to get instruments", err)
	}

	z.mu.Lock()
	for _, inst := range instruments {
		if inst.Exchange == string(z.exchange) {
			z.instruments[inst.Tradingsymbol] = uint32(inst.InstrumentToken)
		}
	}
	token, ok = z.instruments[symbol]
	z.mu.Unlock()

	if !ok {
		return 0, errors.Wrapf(errors.ErrSymbolNotFound, "instrument %s:%s", z.exchange, symbol)
	}

	return token, nil
}

// GetHoldings fetches delivery holdings.
func (z *Zerodha) GetHoldings(ctx context.Context) ([]models.Holding, error) {
	if !z.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}

	holdings, err := z.client.GetHoldings()
	if err != nil {
		return nil, errors.NewBrokerError("holdings", "failed to get holdings", err)
	}

	result := make([]models.Holding, len(holdings))
	for i, h := range holdings {
		investedValue := h.AveragePrice * float64(h.Quantity)
		currentValue := h.LastPrice * float64(h.Quantity)

		result[i] = models.Holding{
			Symbol:        h.Tradingsymbol,
			Quantity:      int(h.Quantity),
			AveragePrice:  h.AveragePrice,
			LTP:           h.LastPrice,
			PnL:           currentValue - investedValue,
			InvestedValue: investedValue,
			CurrentValue:  currentValue,
		}
	}

	return result, nil
}

// GetPositions fetches current net positions with non-zero quantity.
func (z *Zerodha) GetPositions(ctx context.Context) ([]models.Position, error) {
	if !z.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}

	positions, err := z.client.GetPositions()
	if err != nil {
		return nil, errors.NewBrokerError("positions", "failed to get positions", err)
	}

	result := make([]models.Position, 0, len(positions.Net))
	for _, p := range positions.Net {
		if p.Quantity == 0 {
			continue
		}
		result = append(result, models.Position{
			Symbol:       p.Tradingsymbol,
			Exchange:     models.Exchange(p.Exchange),
			Product:      models.ProductType(p.Product),
			Quantity:     int(p.Quantity),
			AveragePrice: p.AveragePrice,
			LTP:          p.LastPrice,
			PnL:          (p.LastPrice - p.AveragePrice) * float64(p.Quantity),
		})
	}

	return result, nil
}

// PlaceOrder places a new order.
func (z *Zerodha) PlaceOrder(ctx context.Context, order *models.Order) (*OrderResult, error) {
	if !z.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	if order.Symbol == "" || order.Quantity <= 0 || !order.Side.IsValid() {
		return nil, errors.Wrapf(errors.ErrInvalidOrder, "%s %s qty %d", order.Side, order.Symbol, order.Quantity)
	}

	params := kiteconnect.OrderParams{
		Exchange:        string(order.Exchange),
		Tradingsymbol:   order.Symbol,
		TransactionType: string(order.Side),
		OrderType:       string(order.Type),
		Product:         string(order.Product),
		Quantity:        order.Quantity,
		Price:           order.Price,
		Validity:        order.Validity,
		Tag:             order.Tag,
	}

	if params.Validity == "" {
		params.Validity = "DAY"
	}

	resp, err := z.client.PlaceOrder(kiteconnect.VarietyRegular, params)
	if err != nil {
		return nil, errors.NewOrderError(order.Symbol, string(order.Side), "placement failed", err)
	}

	return &OrderResult{
		OrderID: resp.OrderID,
		Status:  "PLACED",
		Message: "Order placed successfully",
	}, nil
}
