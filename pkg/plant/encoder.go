package plant

import (
	"strconv"

	"github.com/rithmic-go/rithmic/internal/schema"
)

// encoder is a stateful builder carrying the mutable correlation
// counter, an immutable copy of ConnectionInfo, and the SessionIdentity
// learned at login. It performs no I/O: every method is a pure
// function from (state, inputs) to framed bytes, plus the
// side-effecting counter bump.
//
// encoder is not safe for concurrent use; it is only ever touched by
// the actor goroutine that owns it.
type encoder struct {
	counter  uint64
	conn     ConnectionInfo
	identity SessionIdentity
}

func newEncoder(conn ConnectionInfo) *encoder {
	return &encoder{conn: conn}
}

func (e *encoder) nextTag() string {
	e.counter++
	return strconv.FormatUint(e.counter, 10)
}

// build stamps the correlation tag into user_msg, encodes the message,
// and frames it. It returns the framed bytes and the tag used.
func (e *encoder) build(templateID int, fields map[string]any) ([]byte, string, error) {
	tag := e.nextTag()
	b, err := schema.Encode(schema.Message{
		TemplateID: templateID,
		UserMsg:    []string{tag},
		Fields:     fields,
	})
	if err != nil {
		return nil, "", err
	}
	return EncodeFrame(b), tag, nil
}

// stampIdentity imprints the three session identifiers onto a request's
// fields, even when they are still empty (the server accepts the empty
// sentinel before login completes).
func (e *encoder) stampIdentity(f map[string]any) {
	f["fcm_id"] = e.identity.FCMID
	f["ib_id"] = e.identity.IBID
	f["account_id"] = e.identity.AccountID
}

// orderFields sets the normalization fields shared by every
// order-bearing request: manual_or_auto, trade_route, and identity.
func (e *encoder) orderFields(f map[string]any) {
	f["manual_or_auto"] = 2
	f["trade_route"] = e.conn.tradeRoute()
	e.stampIdentity(f)
}

// appName and appVersion identify this client family to the broker.
// They are fixed protocol constants, not caller-configurable: every
// login request carries exactly these two literals.
const (
	appName    = "pede:pts"
	appVersion = "1"
)

func (e *encoder) Login() ([]byte, string, error) {
	return e.build(templateLogin, map[string]any{
		"template_version": "5.27",
		"user":             e.conn.User,
		"password":         e.conn.Password,
		"app_name":         appName,
		"app_version":      appVersion,
		"system_name":      e.conn.SystemName,
		"infra_type":       int(e.conn.InfraType),
	})
}

func (e *encoder) Logout() ([]byte, string, error) {
	return e.build(templateLogout, map[string]any{})
}

func (e *encoder) Heartbeat() ([]byte, string, error) {
	return e.build(templateHeartbeat, map[string]any{})
}

func (e *encoder) SubscribeMarketData(p MarketDataParams) ([]byte, string, error) {
	var bits int
	for _, f := range p.Fields {
		bits |= int(f)
	}

	return e.build(templateMarketDataUpdate, map[string]any{
		"exchange":    p.Exchange,
		"symbol":      p.Symbol,
		"update_bits": bits,
	})
}

func (e *encoder) NewOrder(p NewOrderParams) ([]byte, string, error) {
	duration := DurationDay
	if p.Duration != nil {
		duration = *p.Duration
	}

	fields := map[string]any{
		"exchange":  p.Exchange,
		"symbol":    p.Symbol,
		"quantity":  p.Qty,
		"action":    int(p.Action),
		"ordertype": int(p.OrderType),
		"duration":  int(duration),
		"localid":   p.LocalID,
	}
	if p.Price != nil {
		fields["price"] = *p.Price
	}
	e.orderFields(fields)

	return e.build(templateNewOrder, fields)
}

func (e *encoder) ModifyOrder(p ModifyOrderParams) ([]byte, string, error) {
	fields := map[string]any{
		"basket_id": p.BasketID,
		"exchange":  p.Exchange,
		"symbol":    p.Symbol,
		"quantity":  p.Qty,
		"ordertype": int(p.OrderType),
		"price":     p.Price,
	}
	if p.OrderType == StopOrder || p.OrderType == StopLimitOrder {
		fields["trigger_price"] = p.Price
	}
	e.orderFields(fields)

	return e.build(templateModifyOrder, fields)
}

func (e *encoder) CancelOrder(basketID string) ([]byte, string, error) {
	fields := map[string]any{"basket_id": basketID}
	e.orderFields(fields)
	return e.build(templateCancelOrder, fields)
}

func (e *encoder) BracketOrder(p BracketOrderParams) ([]byte, string, error) {
	duration := DurationDay
	if p.Duration != nil {
		duration = *p.Duration
	}

	fields := map[string]any{
		"exchange":        p.Exchange,
		"symbol":          p.Symbol,
		"action":          int(p.Action),
		"ordertype":       int(p.OrderType),
		"duration":        int(duration),
		"localid":         p.LocalID,
		"user_type":       UserType,
		"bracket_type":    6,
		"target_quantity": p.Qty,
		"stop_quantity":   p.Qty,
		"target_ticks":    p.ProfitTicks,
		"stop_ticks":      p.StopTicks,
	}
	if p.OrderType != Market && p.Price != nil {
		fields["price"] = *p.Price
	}
	e.orderFields(fields)

	return e.build(templatePlaceBracketOrder, fields)
}

func (e *encoder) UpdateTargetBracketLevel(basketID string, ticks int) ([]byte, string, error) {
	fields := map[string]any{"basket_id": basketID, "target_ticks": ticks}
	e.orderFields(fields)
	return e.build(templateUpdateTargetBracketLevel, fields)
}

func (e *encoder) UpdateStopBracketLevel(basketID string, ticks int) ([]byte, string, error) {
	fields := map[string]any{"basket_id": basketID, "stop_ticks": ticks}
	e.orderFields(fields)
	return e.build(templateUpdateStopBracketLevel, fields)
}

func (e *encoder) ShowOrders() ([]byte, string, error) {
	fields := map[string]any{}
	e.stampIdentity(fields)
	return e.build(templateShowOrders, fields)
}

func (e *encoder) ShowBrackets() ([]byte, string, error) {
	fields := map[string]any{}
	e.stampIdentity(fields)
	return e.build(templateShowBrackets, fields)
}

func (e *encoder) ShowBracketStops() ([]byte, string, error) {
	fields := map[string]any{}
	e.stampIdentity(fields)
	return e.build(templateShowBracketStops, fields)
}

func (e *encoder) SubscribeOrderUpdates() ([]byte, string, error) {
	fields := map[string]any{}
	e.stampIdentity(fields)
	return e.build(templateSubscribeOrderUpdates, fields)
}

func (e *encoder) SubscribeBracketUpdates() ([]byte, string, error) {
	fields := map[string]any{}
	e.stampIdentity(fields)
	return e.build(templateSubscribeBracketUpdates, fields)
}

func (e *encoder) SubscribePnLUpdates() ([]byte, string, error) {
	fields := map[string]any{}
	e.stampIdentity(fields)
	return e.build(templateSubscribePnLUpdates, fields)
}

func (e *encoder) PnLPositionSnapshot() ([]byte, string, error) {
	fields := map[string]any{}
	e.stampIdentity(fields)
	return e.build(templatePnLPositionSnapshot, fields)
}

func (e *encoder) ExitPosition(exchange, symbol string) ([]byte, string, error) {
	fields := map[string]any{"exchange": exchange, "symbol": symbol}
	e.orderFields(fields)
	return e.build(templateExitPosition, fields)
}

func (e *encoder) ProductCodes(exchange string) ([]byte, string, error) {
	return e.build(templateProductCodes, map[string]any{"exchange": exchange})
}

func (e *encoder) ReferenceData(exchange, symbol string) ([]byte, string, error) {
	return e.build(templateReferenceData, map[string]any{"exchange": exchange, "symbol": symbol})
}

// SearchSymbols searches for instruments matching pattern. When
// exactMatch is true the server is asked for an Equals match instead
// of a Contains match.
func (e *encoder) SearchSymbols(pattern string, exactMatch bool) ([]byte, string, error) {
	patternType := "Contains"
	if exactMatch {
		patternType = "Equals"
	}

	return e.build(templateSearchSymbols, map[string]any{
		"search_text":  pattern,
		"pattern_type": patternType,
	})
}

func (e *encoder) TickBarUpdate(exchange, symbol string, barType string) ([]byte, string, error) {
	return e.build(templateTickBarUpdate, map[string]any{
		"exchange": exchange, "symbol": symbol, "bar_type": barType,
	})
}

func (e *encoder) TickBarReplay(exchange, symbol string, barType string, startSSBoe, endSSBoe int64) ([]byte, string, error) {
	return e.build(templateTickBarReplay, map[string]any{
		"exchange": exchange, "symbol": symbol, "bar_type": barType,
		"start_index": startSSBoe, "finish_index": endSSBoe,
	})
}

func (e *encoder) TimeBarUpdate(exchange, symbol string, barType string) ([]byte, string, error) {
	return e.build(templateTimeBarUpdate, map[string]any{
		"exchange": exchange, "symbol": symbol, "bar_type": barType,
	})
}

func (e *encoder) TimeBarReplay(exchange, symbol string, barType string, startSSBoe, endSSBoe int64) ([]byte, string, error) {
	return e.build(templateTimeBarReplay, map[string]any{
		"exchange": exchange, "symbol": symbol, "bar_type": barType,
		"start_index": startSSBoe, "finish_index": endSSBoe,
	})
}

func (e *encoder) RithmicSystemInfo() ([]byte, string, error) {
	return e.build(templateRithmicSystemInfo, map[string]any{})
}

func (e *encoder) RithmicSystemGatewayInfo(systemName string) ([]byte, string, error) {
	return e.build(templateRithmicSystemGatewayInfo, map[string]any{"system_name": systemName})
}

func (e *encoder) GetInstrumentByUnderlying(underlyingSymbol, exchange string) ([]byte, string, error) {
	return e.build(templateInstrumentByUnderlying, map[string]any{
		"underlying_symbol": underlyingSymbol, "exchange": exchange,
	})
}
