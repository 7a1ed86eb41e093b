package plant

import (
	"strconv"
	"testing"

	"github.com/rithmic-go/rithmic/internal/schema"
)

func decodeBuilt(t *testing.T, frame []byte) schema.Message {
	t.Helper()
	payload, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	msg, err := schema.Decode(payload)
	if err != nil {
		t.Fatalf("schema.Decode() error = %v", err)
	}
	return msg
}

func TestTagUniquenessAndOrder(t *testing.T) {
	e := newEncoder(ConnectionInfo{})

	var tags []string
	for i := 0; i < 5; i++ {
		_, tag, err := e.Heartbeat()
		if err != nil {
			t.Fatalf("Heartbeat() error = %v", err)
		}
		tags = append(tags, tag)
	}

	seen := map[string]bool{}
	for i, tag := range tags {
		if seen[tag] {
			t.Fatalf("tag %q repeated", tag)
		}
		seen[tag] = true

		n, err := strconv.Atoi(tag)
		if err != nil {
			t.Fatalf("tag %q not numeric: %v", tag, err)
		}
		if n != i+1 {
			t.Errorf("tag[%d] = %d, want %d", i, n, i+1)
		}
	}
}

func TestFrameRoundtripViaEncoder(t *testing.T) {
	e := newEncoder(ConnectionInfo{})
	frame, tag, err := e.Heartbeat()
	if err != nil {
		t.Fatalf("Heartbeat() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	if msg.TemplateID != templateHeartbeat {
		t.Errorf("TemplateID = %d, want %d", msg.TemplateID, templateHeartbeat)
	}
	gotTag, ok := msg.CorrelationTag()
	if !ok || gotTag != tag {
		t.Errorf("CorrelationTag() = (%q, %v), want (%q, true)", gotTag, ok, tag)
	}
}

func TestBracketOrderMarketPriceOmitted(t *testing.T) {
	e := newEncoder(ConnectionInfo{})
	price := 5000.0
	profit := 8
	stop := 4

	frame, tag, err := e.BracketOrder(BracketOrderParams{
		Exchange: "CME", Symbol: "ESZ4", Qty: 1, Action: Buy,
		OrderType: Market, Price: &price, ProfitTicks: profit, StopTicks: stop,
		LocalID: "L1",
	})
	if err != nil {
		t.Fatalf("BracketOrder() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	if _, ok := msg.Get("price"); ok {
		t.Error("price field present, want absent for Market bracket order")
	}
	if got := msg.Fields["localid"]; got != "L1" {
		t.Errorf("localid = %v, want L1", got)
	}
	if gotTag, _ := msg.CorrelationTag(); gotTag != tag {
		t.Errorf("CorrelationTag() = %q, want %q", gotTag, tag)
	}
}

func TestBracketOrderLimitPricePresent(t *testing.T) {
	e := newEncoder(ConnectionInfo{})
	price := 4999.0

	frame, _, err := e.BracketOrder(BracketOrderParams{
		Exchange: "CME", Symbol: "ESZ4", Qty: 1, Action: Buy,
		OrderType: Limit, Price: &price, ProfitTicks: 8, StopTicks: 4,
	})
	if err != nil {
		t.Fatalf("BracketOrder() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	if got, ok := msg.Get("price"); !ok || got != price {
		t.Errorf("price = (%v, %v), want (%v, true)", got, ok, price)
	}
}

func TestModifyOrderStopLimitTriggerPrice(t *testing.T) {
	e := newEncoder(ConnectionInfo{})

	frame, _, err := e.ModifyOrder(ModifyOrderParams{
		BasketID: "B1", OrderType: StopLimitOrder, Price: 4999.25,
	})
	if err != nil {
		t.Fatalf("ModifyOrder() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	if got, ok := msg.Get("trigger_price"); !ok || got != 4999.25 {
		t.Errorf("trigger_price = (%v, %v), want (4999.25, true)", got, ok)
	}
}

func TestModifyOrderLimitNoTriggerPrice(t *testing.T) {
	e := newEncoder(ConnectionInfo{})

	frame, _, err := e.ModifyOrder(ModifyOrderParams{
		BasketID: "B1", OrderType: Limit, Price: 4999.25,
	})
	if err != nil {
		t.Fatalf("ModifyOrder() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	if _, ok := msg.Get("trigger_price"); ok {
		t.Error("trigger_price present, want absent for Limit order")
	}
}

func TestCancelOrderFields(t *testing.T) {
	e := newEncoder(ConnectionInfo{})

	frame, _, err := e.CancelOrder("B9")
	if err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	if got := msg.Fields["basket_id"]; got != "B9" {
		t.Errorf("basket_id = %v, want B9", got)
	}
	if got := msg.Fields["manual_or_auto"]; got != float64(2) {
		t.Errorf("manual_or_auto = %v, want 2", got)
	}
}

func TestNewOrderDurationDefault(t *testing.T) {
	e := newEncoder(ConnectionInfo{})

	frame, _, err := e.NewOrder(NewOrderParams{Exchange: "CME", Symbol: "ESZ4", Qty: 1, Action: Buy, OrderType: Market})
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	if got := msg.Fields["duration"]; got != float64(DurationDay) {
		t.Errorf("duration = %v, want %d", got, DurationDay)
	}
	if got := msg.Fields["manual_or_auto"]; got != float64(2) {
		t.Errorf("manual_or_auto = %v, want 2", got)
	}
}

func TestSubscribeMarketDataUpdateBits(t *testing.T) {
	e := newEncoder(ConnectionInfo{})

	frame, _, err := e.SubscribeMarketData(MarketDataParams{
		Exchange: "CME", Symbol: "ESZ4",
		Fields:   []MarketDataField{LastTrade, BestBidOffer},
	})
	if err != nil {
		t.Fatalf("SubscribeMarketData() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	want := float64(LastTrade | BestBidOffer)
	if got := msg.Fields["update_bits"]; got != want {
		t.Errorf("update_bits = %v, want %v", got, want)
	}
}

func TestTradeRouteDefaultsToDemo(t *testing.T) {
	e := newEncoder(ConnectionInfo{})

	frame, _, err := e.CancelOrder("B1")
	if err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	if got := msg.Fields["trade_route"]; got != TradeRouteDemo {
		t.Errorf("trade_route = %v, want %v", got, TradeRouteDemo)
	}
}

func TestTradeRouteConfiguredLive(t *testing.T) {
	e := newEncoder(ConnectionInfo{TradeRoute: TradeRouteLive})

	frame, _, err := e.CancelOrder("B1")
	if err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	if got := msg.Fields["trade_route"]; got != TradeRouteLive {
		t.Errorf("trade_route = %v, want %v", got, TradeRouteLive)
	}
}

func TestIdentityStampedEvenWhenEmpty(t *testing.T) {
	e := newEncoder(ConnectionInfo{})

	frame, _, err := e.ShowOrders()
	if err != nil {
		t.Fatalf("ShowOrders() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	for _, key := range []string{"fcm_id", "ib_id", "account_id"} {
		if got, ok := msg.Get(key); !ok || got != "" {
			t.Errorf("%s = (%v, %v), want (\"\", true)", key, got, ok)
		}
	}
}

func TestLoginFields(t *testing.T) {
	e := newEncoder(ConnectionInfo{
		User: "u", Password: "p", SystemName: "Rithmic Test",
		InfraType: OrderPlant,
	})

	frame, _, err := e.Login()
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	msg := decodeBuilt(t, frame)
	if msg.TemplateID != templateLogin {
		t.Errorf("TemplateID = %d, want %d", msg.TemplateID, templateLogin)
	}
	if got := msg.Fields["infra_type"]; got != float64(OrderPlant) {
		t.Errorf("infra_type = %v, want %d", got, OrderPlant)
	}
	if got := msg.Fields["template_version"]; got != "5.27" {
		t.Errorf("template_version = %v, want 5.27", got)
	}
	if got := msg.Fields["app_name"]; got != "pede:pts" {
		t.Errorf("app_name = %v, want pede:pts", got)
	}
	if got := msg.Fields["app_version"]; got != "1" {
		t.Errorf("app_version = %v, want 1", got)
	}
}
