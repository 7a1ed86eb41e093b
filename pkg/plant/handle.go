package plant

import (
	"context"
	"errors"
	"fmt"
)

// Handle is a thin, cheaply-cloneable caller-side facade onto a
// running Actor. Every method submits a command with a fresh one-shot
// reply channel and awaits its completion (or ctx cancellation).
// Methods that expect a single reply return that one InboundResponse;
// methods that expect a multi-part reply return the full accumulated
// list.
type Handle struct {
	commands chan command
	bcast    *broadcaster
}

// Subscribe returns a subscription to the plant's unsolicited update
// stream (market data, order/bracket/pnl updates, bar streams).
func (h *Handle) Subscribe() Subscription {
	return h.bcast.subscribe()
}

func (h *Handle) do(ctx context.Context, name string, encode func(*encoder) ([]byte, string, error)) ([]InboundResponse, error) {
	cmd := newCommand(name, encode)

	select {
	case h.commands <- cmd:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case resp := <-cmd.reply:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// singleResult collapses a single-part accumulator to its one element,
// surfacing the registry's transport marker as ErrTransport and any
// other non-"0" rp_code as ErrProtocol.
func singleResult(resp []InboundResponse) (InboundResponse, error) {
	if len(resp) == 0 {
		return InboundResponse{}, errors.New("plant: empty reply")
	}
	r := resp[0]
	if r.HasRpCode && r.RpCode == "transport" {
		return r, fmt.Errorf("%w: %s", ErrTransport, r.ErrorText)
	}
	if r.HasRpCode && r.RpCode != "0" {
		return r, fmt.Errorf("%w: %s", ErrProtocol, r.ErrorText)
	}
	return r, nil
}

func (h *Handle) Login(ctx context.Context) error {
	resp, err := h.do(ctx, "login", func(e *encoder) ([]byte, string, error) { return e.Login() })
	if err != nil {
		return err
	}
	_, err = singleResult(resp)
	return err
}

func (h *Handle) Logout(ctx context.Context) error {
	resp, err := h.do(ctx, "logout", func(e *encoder) ([]byte, string, error) { return e.Logout() })
	if err != nil {
		return err
	}
	_, err = singleResult(resp)
	return err
}

// Close asks the actor to send a WebSocket close frame and stop its
// event loop. It does not wait for the closure to complete.
func (h *Handle) Close(ctx context.Context) {
	select {
	case h.commands <- closeCommand:
	case <-ctx.Done():
	}
}

// Disconnect logs out (if still reachable) and then closes the
// connection, mirroring the broker reference client's own
// logout-then-close teardown sequence.
func (h *Handle) Disconnect(ctx context.Context) error {
	err := h.Logout(ctx)
	h.Close(ctx)
	return err
}

func (h *Handle) SubscribeMarketData(ctx context.Context, p MarketDataParams) (InboundResponse, error) {
	resp, err := h.do(ctx, "subscribe_market_data", func(e *encoder) ([]byte, string, error) { return e.SubscribeMarketData(p) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) NewOrder(ctx context.Context, p NewOrderParams) (InboundResponse, error) {
	resp, err := h.do(ctx, "new_order", func(e *encoder) ([]byte, string, error) { return e.NewOrder(p) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) ModifyOrder(ctx context.Context, p ModifyOrderParams) (InboundResponse, error) {
	resp, err := h.do(ctx, "modify_order", func(e *encoder) ([]byte, string, error) { return e.ModifyOrder(p) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) CancelOrder(ctx context.Context, basketID string) (InboundResponse, error) {
	resp, err := h.do(ctx, "cancel_order", func(e *encoder) ([]byte, string, error) { return e.CancelOrder(basketID) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

// PlaceBracketOrder returns the accumulated response list as is, rather
// than collapsing it to a single element, and does not turn a non-"0"
// rp_code into an error. The bracket-order template is not multi-part,
// so the registry completes the request on its first reply and the list
// holds that one reply.
func (h *Handle) PlaceBracketOrder(ctx context.Context, p BracketOrderParams) ([]InboundResponse, error) {
	return h.do(ctx, "place_bracket_order", func(e *encoder) ([]byte, string, error) { return e.BracketOrder(p) })
}

func (h *Handle) UpdateTargetBracketLevel(ctx context.Context, basketID string, ticks int) (InboundResponse, error) {
	resp, err := h.do(ctx, "update_target_bracket_level",
		func(e *encoder) ([]byte, string, error) { return e.UpdateTargetBracketLevel(basketID, ticks) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) UpdateStopBracketLevel(ctx context.Context, basketID string, ticks int) (InboundResponse, error) {
	resp, err := h.do(ctx, "update_stop_bracket_level",
		func(e *encoder) ([]byte, string, error) { return e.UpdateStopBracketLevel(basketID, ticks) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

// ShowOrders returns the full multi-part accumulator: one element per
// order the server streamed back, terminated by its end-of-stream part.
func (h *Handle) ShowOrders(ctx context.Context) ([]InboundResponse, error) {
	return h.do(ctx, "show_orders", func(e *encoder) ([]byte, string, error) { return e.ShowOrders() })
}

func (h *Handle) ShowBrackets(ctx context.Context) ([]InboundResponse, error) {
	return h.do(ctx, "show_brackets", func(e *encoder) ([]byte, string, error) { return e.ShowBrackets() })
}

func (h *Handle) ShowBracketStops(ctx context.Context) ([]InboundResponse, error) {
	return h.do(ctx, "show_bracket_stops", func(e *encoder) ([]byte, string, error) { return e.ShowBracketStops() })
}

func (h *Handle) SubscribeOrderUpdates(ctx context.Context) (InboundResponse, error) {
	resp, err := h.do(ctx, "subscribe_order_updates", func(e *encoder) ([]byte, string, error) { return e.SubscribeOrderUpdates() })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) SubscribeBracketUpdates(ctx context.Context) (InboundResponse, error) {
	resp, err := h.do(ctx, "subscribe_bracket_updates", func(e *encoder) ([]byte, string, error) { return e.SubscribeBracketUpdates() })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) SubscribePnLUpdates(ctx context.Context) (InboundResponse, error) {
	resp, err := h.do(ctx, "subscribe_pnl_updates", func(e *encoder) ([]byte, string, error) { return e.SubscribePnLUpdates() })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) PnLPositionSnapshot(ctx context.Context) (InboundResponse, error) {
	resp, err := h.do(ctx, "pnl_position_snapshot", func(e *encoder) ([]byte, string, error) { return e.PnLPositionSnapshot() })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) ExitPosition(ctx context.Context, exchange, symbol string) (InboundResponse, error) {
	resp, err := h.do(ctx, "exit_position", func(e *encoder) ([]byte, string, error) { return e.ExitPosition(exchange, symbol) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) ProductCodes(ctx context.Context, exchange string) ([]InboundResponse, error) {
	return h.do(ctx, "product_codes", func(e *encoder) ([]byte, string, error) { return e.ProductCodes(exchange) })
}

func (h *Handle) ReferenceData(ctx context.Context, exchange, symbol string) (InboundResponse, error) {
	resp, err := h.do(ctx, "reference_data", func(e *encoder) ([]byte, string, error) { return e.ReferenceData(exchange, symbol) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) SearchSymbols(ctx context.Context, pattern string, exactMatch bool) ([]InboundResponse, error) {
	return h.do(ctx, "search_symbols", func(e *encoder) ([]byte, string, error) { return e.SearchSymbols(pattern, exactMatch) })
}

func (h *Handle) TickBarUpdate(ctx context.Context, exchange, symbol, barType string) (InboundResponse, error) {
	resp, err := h.do(ctx, "tick_bar_update", func(e *encoder) ([]byte, string, error) { return e.TickBarUpdate(exchange, symbol, barType) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) TickBarReplay(ctx context.Context, exchange, symbol, barType string, start, end int64) ([]InboundResponse, error) {
	return h.do(ctx, "tick_bar_replay", func(e *encoder) ([]byte, string, error) {
		return e.TickBarReplay(exchange, symbol, barType, start, end)
	})
}

func (h *Handle) TimeBarUpdate(ctx context.Context, exchange, symbol, barType string) (InboundResponse, error) {
	resp, err := h.do(ctx, "time_bar_update", func(e *encoder) ([]byte, string, error) { return e.TimeBarUpdate(exchange, symbol, barType) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) TimeBarReplay(ctx context.Context, exchange, symbol, barType string, start, end int64) ([]InboundResponse, error) {
	return h.do(ctx, "time_bar_replay", func(e *encoder) ([]byte, string, error) {
		return e.TimeBarReplay(exchange, symbol, barType, start, end)
	})
}

func (h *Handle) RithmicSystemInfo(ctx context.Context) (InboundResponse, error) {
	resp, err := h.do(ctx, "rithmic_system_info", func(e *encoder) ([]byte, string, error) { return e.RithmicSystemInfo() })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) RithmicSystemGatewayInfo(ctx context.Context, systemName string) (InboundResponse, error) {
	resp, err := h.do(ctx, "rithmic_system_gateway_info",
		func(e *encoder) ([]byte, string, error) { return e.RithmicSystemGatewayInfo(systemName) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}

func (h *Handle) GetInstrumentByUnderlying(ctx context.Context, underlyingSymbol, exchange string) (InboundResponse, error) {
	resp, err := h.do(ctx, "instrument_by_underlying",
		func(e *encoder) ([]byte, string, error) { return e.GetInstrumentByUnderlying(underlyingSymbol, exchange) })
	if err != nil {
		return InboundResponse{}, err
	}
	return singleResult(resp)
}
