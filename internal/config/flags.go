// Package config defines the CLI flags, environment variables, and
// configuration-file keys that configure a plant connection, layered
// with urfave/cli-altsrc the same way the rest of the ambient stack
// layers its configuration.
package config

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

// Defaults for an unconfigured connection.
const (
	DefaultWebSocketURL       = "wss://rprotocol.rithmic.com:443"
	DefaultSystemName         = "Rithmic Test"
	DefaultHeartbeatInterval  = "15s"
	DefaultCommandQueueSize   = 32
	DefaultBroadcastQueueSize = 1024
)

// Flags defines CLI flags to configure a plant connection. These flags
// can also be set using environment variables and the application's
// configuration file.
func Flags(configFilePath altsrc.StringSourcer) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "dev",
			Usage: "use insecure/relaxed defaults for local development",
		},
		&cli.StringFlag{
			Name:  "plant-url",
			Usage: "WebSocket URL of the plant to connect to",
			Value: DefaultWebSocketURL,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_PLANT_URL"),
				toml.TOML("plant.url", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "plant-kind",
			Usage: "plant to connect to: order, market_data, pnl, history",
			Value: "order",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_PLANT_KIND"),
				toml.TOML("plant.kind", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "system-name",
			Usage: "Rithmic system name to authenticate against",
			Value: DefaultSystemName,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_SYSTEM_NAME"),
				toml.TOML("plant.system_name", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "trade-route",
			Usage: "trade route: globex (live) or simulator (demo)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_TRADE_ROUTE"),
				toml.TOML("plant.trade_route", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "user",
			Usage: "Rithmic login username (overridden by the vault if configured)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_USER"),
				toml.TOML("plant.user", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "password",
			Usage: "Rithmic login password (overridden by the vault if configured)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_PASSWORD"),
				toml.TOML("plant.password", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "fcm-id",
			Usage: "FCM ID stamped on order-bearing requests",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_FCM_ID"),
				toml.TOML("plant.fcm_id", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "ib-id",
			Usage: "IB ID stamped on order-bearing requests",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_IB_ID"),
				toml.TOML("plant.ib_id", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "account-id",
			Usage: "account ID stamped on order-bearing requests",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_ACCOUNT_ID"),
				toml.TOML("plant.account_id", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "heartbeat-interval",
			Usage: "interval between heartbeat requests, once logged in",
			Value: DefaultHeartbeatInterval,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_HEARTBEAT_INTERVAL"),
				toml.TOML("plant.heartbeat_interval", configFilePath),
			),
		},
		&cli.IntFlag{
			Name:  "command-queue-size",
			Usage: "capacity of the actor's inbound command queue",
			Value: DefaultCommandQueueSize,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_COMMAND_QUEUE_SIZE"),
				toml.TOML("plant.command_queue_size", configFilePath),
			),
		},
		&cli.BoolFlag{
			Name:  "vault-enabled",
			Usage: "fetch connection secrets from the credential vault instead of --user/--password",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_VAULT_ENABLED"),
				toml.TOML("plant.vault_enabled", configFilePath),
			),
		},
		&cli.BoolFlag{
			Name:  "temporal-enabled",
			Usage: "expose this plant's operations as Temporal activities",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RITHMIC_TEMPORAL_ENABLED"),
				toml.TOML("plant.temporal_enabled", configFilePath),
			),
		},
	}
}
