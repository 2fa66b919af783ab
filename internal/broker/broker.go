package broker

// OrderRequest describes an order to submit to the broker.
type OrderRequest struct {
	Symbol      string
	Side        string // buy, sell
	Quantity    int64
	OrderType   string // market, limit, stop, stop_limit
	LimitPrice  float64
	StopPrice   float64
	TimeInForce string // day, gtc, ioc, fok
}

// Order is the broker's view of a submitted order.
type Order struct {
	ID             string
	Status         string
	FilledQuantity int64
	FilledAvgPrice float64
}

// Broker submits and cancels orders. Handlers depend on this interface so
// tests can stub the exchange away.
type Broker interface {
	SubmitOrder(req OrderRequest) (*Order, error)
	CancelOrder(orderID string) error
}
