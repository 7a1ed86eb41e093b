package config

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rithmic-go/rithmic/pkg/plant"
)

// plantKindByName maps the --plant-kind flag's accepted values to
// their PlantKind constant.
var plantKindByName = map[string]plant.PlantKind{
	"order":       plant.OrderPlant,
	"market_data": plant.MarketDataPlant,
	"pnl":         plant.PnLPlant,
	"history":     plant.HistoryPlant,
}

// ConnectionInfo builds a plant.ConnectionInfo from cmd's flags.
func ConnectionInfo(cmd *cli.Command) (plant.ConnectionInfo, error) {
	kind, ok := plantKindByName[cmd.String("plant-kind")]
	if !ok {
		return plant.ConnectionInfo{}, fmt.Errorf("unknown plant kind %q", cmd.String("plant-kind"))
	}

	return plant.ConnectionInfo{
		URL:        cmd.String("plant-url"),
		SystemName: cmd.String("system-name"),
		User:       cmd.String("user"),
		Password:   cmd.String("password"),
		InfraType:  kind,
		TradeRoute: cmd.String("trade-route"),
	}, nil
}

// HeartbeatInterval parses the --heartbeat-interval flag.
func HeartbeatInterval(cmd *cli.Command) (time.Duration, error) {
	return time.ParseDuration(cmd.String("heartbeat-interval"))
}
