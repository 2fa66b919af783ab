package broker

import (
	"fmt"
	"strings"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"

	"github.com/cohl/pennypicker/internal/config"
	"github.com/cohl/pennypicker/internal/logger"
)

const (
	alpacaLiveURL  = "https://api.alpaca.markets"
	alpacaPaperURL = "https://paper-api.alpaca.markets"
)

// AlpacaBroker submits orders through the Alpaca trading API.
type AlpacaBroker struct {
	client *alpaca.Client
	logger *logger.Logger
}

func NewAlpacaBroker(cfg *config.Config, log *logger.Logger) *AlpacaBroker {
	baseURL := alpacaLiveURL
	if cfg.Alpaca.Paper {
		baseURL = alpacaPaperURL
	}

	client := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    cfg.Alpaca.APIKey,
		APISecret: cfg.Alpaca.APISecret,
		BaseURL:   baseURL,
	})

	return &AlpacaBroker{client: client, logger: log}
}

func (b *AlpacaBroker) SubmitOrder(req OrderRequest) (*Order, error) {
	qty := decimal.NewFromInt(req.Quantity)

	placeReq := alpaca.PlaceOrderRequest{
		Symbol:      strings.ToUpper(req.Symbol),
		Qty:         &qty,
		Side:        alpacaSide(req.Side),
		Type:        alpacaOrderType(req.OrderType),
		TimeInForce: alpacaTIF(req.TimeInForce),
	}

	if req.LimitPrice > 0 {
		limit := decimal.NewFromFloat(req.LimitPrice)
		placeReq.LimitPrice = &limit
	}
	if req.StopPrice > 0 {
		stop := decimal.NewFromFloat(req.StopPrice)
		placeReq.StopPrice = &stop
	}

	order, err := b.client.PlaceOrder(placeReq)
	if err != nil {
		return nil, fmt.Errorf("place order %s %s: %w", req.Side, req.Symbol, err)
	}

	b.logger.Info("order submitted",
		"symbol", req.Symbol, "side", req.Side, "qty", req.Quantity,
		"broker_order_id", order.ID, "status", order.Status)

	result := &Order{
		ID:             order.ID,
		Status:         string(order.Status),
		FilledQuantity: order.FilledQty.IntPart(),
	}
	if order.FilledAvgPrice != nil {
		result.FilledAvgPrice, _ = order.FilledAvgPrice.Float64()
	}
	return result, nil
}

func (b *AlpacaBroker) CancelOrder(orderID string) error {
	if err := b.client.CancelOrder(orderID); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	return nil
}

func alpacaSide(side string) alpaca.Side {
	if side == "sell" {
		return alpaca.Sell
	}
	return alpaca.Buy
}

func alpacaOrderType(orderType string) alpaca.OrderType {
	switch orderType {
	case "market":
		return alpaca.Market
	case "stop":
		return alpaca.Stop
	case "stop_limit":
		return alpaca.StopLimit
	default:
		return alpaca.Limit
	}
}

func alpacaTIF(tif string) alpaca.TimeInForce {
	switch tif {
	case "gtc":
		return alpaca.GTC
	case "ioc":
		return alpaca.IOC
	case "fok":
		return alpaca.FOK
	default:
		return alpaca.Day
	}
}
