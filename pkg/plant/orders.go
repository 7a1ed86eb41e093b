package plant

// OrderAction is the buy/sell side of an order.
type OrderAction int

const (
	Buy OrderAction = iota + 1
	Sell
)

// OrderType selects the order's pricing behavior. StopOrder and
// StopLimitOrder are the two variants that carry a trigger_price on
// modify, per the encoder's normalization rules.
type OrderType int

const (
	Market OrderType = iota + 1
	Limit
	StopOrder
	StopLimitOrder
)

// Duration is the order's time-in-force. DurationDay is the default
// applied by the encoder when the caller omits one.
type Duration int

const (
	DurationDay Duration = iota + 1
	DurationGTC
	DurationIOC
	DurationFOK
)

// MarketDataField selects which update stream a market-data
// subscription should include. Values are designed to be OR-ed
// together into the wire's update_bits field.
type MarketDataField int

const (
	LastTrade   MarketDataField = 1 << 0
	BestBidOffer MarketDataField = 1 << 1
	OrderBook   MarketDataField = 1 << 2
	OpenInterest MarketDataField = 1 << 3
	HighLowSettlement MarketDataField = 1 << 4
)

// NewOrderParams describes a new order request. Duration is a pointer
// so the encoder can distinguish "omitted" (defaults to DurationDay)
// from an explicit caller choice.
type NewOrderParams struct {
	Exchange  string
	Symbol    string
	Qty       int
	Action    OrderAction
	OrderType OrderType
	Price     *float64
	Duration  *Duration
	LocalID   string
}

// ModifyOrderParams describes a modify-order request.
type ModifyOrderParams struct {
	BasketID  string
	Exchange  string
	Symbol    string
	Qty       int
	OrderType OrderType
	Price     float64
}

// BracketOrderParams describes a new bracket order: a parent order
// with attached profit-target and stop-loss children, sized in ticks
// from the entry price.
type BracketOrderParams struct {
	Exchange     string
	Symbol       string
	Qty          int
	Action       OrderAction
	OrderType    OrderType
	Price        *float64
	ProfitTicks  int
	StopTicks    int
	Duration     *Duration
	LocalID      string
}

// MarketDataParams describes a market-data subscription request.
type MarketDataParams struct {
	Exchange string
	Symbol   string
	Fields   []MarketDataField
}
