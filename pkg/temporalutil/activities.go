package temporalutil

import (
	"context"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"

	"github.com/rithmic-go/rithmic/pkg/plant"
)

// Activity name constants, registered with the Temporal worker and
// referenced by workflows via workflow.ExecuteActivity.
const (
	LoginActivityName                     = "rithmic.Login"
	LogoutActivityName                    = "rithmic.Logout"
	NewOrderActivityName                  = "rithmic.NewOrder"
	ModifyOrderActivityName               = "rithmic.ModifyOrder"
	CancelOrderActivityName               = "rithmic.CancelOrder"
	PlaceBracketOrderActivityName         = "rithmic.PlaceBracketOrder"
	UpdateTargetBracketLevelActivityName  = "rithmic.UpdateTargetBracketLevel"
	UpdateStopBracketLevelActivityName    = "rithmic.UpdateStopBracketLevel"
	ShowOrdersActivityName                = "rithmic.ShowOrders"
	ShowBracketsActivityName              = "rithmic.ShowBrackets"
	ShowBracketStopsActivityName          = "rithmic.ShowBracketStops"
	SubscribeOrderUpdatesActivityName     = "rithmic.SubscribeOrderUpdates"
	SubscribeBracketUpdatesActivityName   = "rithmic.SubscribeBracketUpdates"
	SubscribePnLUpdatesActivityName       = "rithmic.SubscribePnLUpdates"
	PnLPositionSnapshotActivityName       = "rithmic.PnLPositionSnapshot"
	ExitPositionActivityName              = "rithmic.ExitPosition"
	ProductCodesActivityName              = "rithmic.ProductCodes"
	ReferenceDataActivityName             = "rithmic.ReferenceData"
	SearchSymbolsActivityName             = "rithmic.SearchSymbols"
	RithmicSystemInfoActivityName         = "rithmic.RithmicSystemInfo"
	RithmicSystemGatewayInfoActivityName  = "rithmic.RithmicSystemGatewayInfo"
	GetInstrumentByUnderlyingActivityName = "rithmic.GetInstrumentByUnderlying"
)

// Activities adapts a plant Handle's methods to Temporal's activity
// calling convention (a context.Context first parameter, typed
// arguments and return values, an error last), so a workflow can drive
// a broker connection it does not itself own.
type Activities struct {
	handle *plant.Handle
}

// NewActivities binds activities to handle, the facade of a running
// plant actor.
func NewActivities(handle *plant.Handle) *Activities {
	return &Activities{handle: handle}
}

// Register registers every activity with the Temporal worker.
func (a *Activities) Register(w worker.Worker) {
	registerActivity(w, a.LoginActivity, LoginActivityName)
	registerActivity(w, a.LogoutActivity, LogoutActivityName)
	registerActivity(w, a.NewOrderActivity, NewOrderActivityName)
	registerActivity(w, a.ModifyOrderActivity, ModifyOrderActivityName)
	registerActivity(w, a.CancelOrderActivity, CancelOrderActivityName)
	registerActivity(w, a.PlaceBracketOrderActivity, PlaceBracketOrderActivityName)
	registerActivity(w, a.UpdateTargetBracketLevelActivity, UpdateTargetBracketLevelActivityName)
	registerActivity(w, a.UpdateStopBracketLevelActivity, UpdateStopBracketLevelActivityName)
	registerActivity(w, a.ShowOrdersActivity, ShowOrdersActivityName)
	registerActivity(w, a.ShowBracketsActivity, ShowBracketsActivityName)
	registerActivity(w, a.ShowBracketStopsActivity, ShowBracketStopsActivityName)
	registerActivity(w, a.SubscribeOrderUpdatesActivity, SubscribeOrderUpdatesActivityName)
	registerActivity(w, a.SubscribeBracketUpdatesActivity, SubscribeBracketUpdatesActivityName)
	registerActivity(w, a.SubscribePnLUpdatesActivity, SubscribePnLUpdatesActivityName)
	registerActivity(w, a.PnLPositionSnapshotActivity, PnLPositionSnapshotActivityName)
	registerActivity(w, a.ExitPositionActivity, ExitPositionActivityName)
	registerActivity(w, a.ProductCodesActivity, ProductCodesActivityName)
	registerActivity(w, a.ReferenceDataActivity, ReferenceDataActivityName)
	registerActivity(w, a.SearchSymbolsActivity, SearchSymbolsActivityName)
	registerActivity(w, a.RithmicSystemInfoActivity, RithmicSystemInfoActivityName)
	registerActivity(w, a.RithmicSystemGatewayInfoActivity, RithmicSystemGatewayInfoActivityName)
	registerActivity(w, a.GetInstrumentByUnderlyingActivity, GetInstrumentByUnderlyingActivityName)
}

func registerActivity(w worker.Worker, f any, name string) {
	w.RegisterActivityWithOptions(f, activity.RegisterOptions{Name: name})
}

func (a *Activities) LoginActivity(ctx context.Context) error {
	return a.handle.Login(ctx)
}

func (a *Activities) LogoutActivity(ctx context.Context) error {
	return a.handle.Logout(ctx)
}

func (a *Activities) NewOrderActivity(ctx context.Context, p plant.NewOrderParams) (plant.InboundResponse, error) {
	return a.handle.NewOrder(ctx, p)
}

func (a *Activities) ModifyOrderActivity(ctx context.Context, p plant.ModifyOrderParams) (plant.InboundResponse, error) {
	return a.handle.ModifyOrder(ctx, p)
}

func (a *Activities) CancelOrderActivity(ctx context.Context, basketID string) (plant.InboundResponse, error) {
	return a.handle.CancelOrder(ctx, basketID)
}

func (a *Activities) PlaceBracketOrderActivity(ctx context.Context, p plant.BracketOrderParams) ([]plant.InboundResponse, error) {
	return a.handle.PlaceBracketOrder(ctx, p)
}

func (a *Activities) UpdateTargetBracketLevelActivity(ctx context.Context, basketID string, ticks int) (plant.InboundResponse, error) {
	return a.handle.UpdateTargetBracketLevel(ctx, basketID, ticks)
}

func (a *Activities) UpdateStopBracketLevelActivity(ctx context.Context, basketID string, ticks int) (plant.InboundResponse, error) {
	return a.handle.UpdateStopBracketLevel(ctx, basketID, ticks)
}

func (a *Activities) ShowOrdersActivity(ctx context.Context) ([]plant.InboundResponse, error) {
	return a.handle.ShowOrders(ctx)
}

func (a *Activities) ShowBracketsActivity(ctx context.Context) ([]plant.InboundResponse, error) {
	return a.handle.ShowBrackets(ctx)
}

func (a *Activities) ShowBracketStopsActivity(ctx context.Context) ([]plant.InboundResponse, error) {
	return a.handle.ShowBracketStops(ctx)
}

func (a *Activities) SubscribeOrderUpdatesActivity(ctx context.Context) (plant.InboundResponse, error) {
	return a.handle.SubscribeOrderUpdates(ctx)
}

func (a *Activities) SubscribeBracketUpdatesActivity(ctx context.Context) (plant.InboundResponse, error) {
	return a.handle.SubscribeBracketUpdates(ctx)
}

func (a *Activities) SubscribePnLUpdatesActivity(ctx context.Context) (plant.InboundResponse, error) {
	return a.handle.SubscribePnLUpdates(ctx)
}

func (a *Activities) PnLPositionSnapshotActivity(ctx context.Context) (plant.InboundResponse, error) {
	return a.handle.PnLPositionSnapshot(ctx)
}

func (a *Activities) ExitPositionActivity(ctx context.Context, exchange, symbol string) (plant.InboundResponse, error) {
	return a.handle.ExitPosition(ctx, exchange, symbol)
}

func (a *Activities) ProductCodesActivity(ctx context.Context, exchange string) ([]plant.InboundResponse, error) {
	return a.handle.ProductCodes(ctx, exchange)
}

func (a *Activities) ReferenceDataActivity(ctx context.Context, exchange, symbol string) (plant.InboundResponse, error) {
	return a.handle.ReferenceData(ctx, exchange, symbol)
}

func (a *Activities) SearchSymbolsActivity(ctx context.Context, pattern string, exactMatch bool) ([]plant.InboundResponse, error) {
	return a.handle.SearchSymbols(ctx, pattern, exactMatch)
}

func (a *Activities) RithmicSystemInfoActivity(ctx context.Context) (plant.InboundResponse, error) {
	return a.handle.RithmicSystemInfo(ctx)
}

func (a *Activities) RithmicSystemGatewayInfoActivity(ctx context.Context, systemName string) (plant.InboundResponse, error) {
	return a.handle.RithmicSystemGatewayInfo(ctx, systemName)
}

func (a *Activities) GetInstrumentByUnderlyingActivity(ctx context.Context, underlyingSymbol, exchange string) (plant.InboundResponse, error) {
	return a.handle.GetInstrumentByUnderlying(ctx, underlyingSymbol, exchange)
}
