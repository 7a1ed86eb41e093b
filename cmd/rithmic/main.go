package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli/v3"
	"github.com/tzrikka/xdg"

	"github.com/rithmic-go/rithmic/internal/config"
	"github.com/rithmic-go/rithmic/internal/logger"
	"github.com/rithmic-go/rithmic/pkg/metrics"
	"github.com/rithmic-go/rithmic/pkg/plant"
	"github.com/rithmic-go/rithmic/pkg/temporalutil"
	"github.com/rithmic-go/rithmic/pkg/vault"
	"github.com/rithmic-go/rithmic/pkg/websocket"
)

const (
	ConfigDirName  = "rithmic"
	ConfigFileName = "config.toml"
)

func main() {
	bi, _ := debug.ReadBuildInfo()

	cmd := &cli.Command{
		Name:    "rithmic",
		Usage:   "connects to a Rithmic plant and optionally exposes it as Temporal activities",
		Version: bi.Main.Version,
		Flags:   flags(),
		Action:  run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func flags() []cli.Flag {
	fs := []cli.Flag{
		&cli.BoolFlag{
			Name:  "pretty-log",
			Usage: "human-readable console logging, instead of JSON",
		},
	}

	path := configFile()
	fs = append(fs, config.Flags(path)...)
	fs = append(fs, vault.Flags(path)...)
	fs = append(fs, temporalutil.Flags(path)...)

	return fs
}

func run(ctx context.Context, cmd *cli.Command) error {
	initLog(cmd.Bool("dev") || cmd.Bool("pretty-log"))

	connInfo, err := config.ConnectionInfo(cmd)
	if err != nil {
		return err
	}

	var identity plant.SessionIdentity

	if cmd.Bool("vault-enabled") {
		creds := vault.TransportCreds(ctx, cmd)
		v, err := vault.New(ctx, cmd.String("vault-http-base-url"), cmd.String("vault-grpc-health-address"),
			cmd.String("vault-issuer"), cmd.String("vault-private-key"), creds)
		if err != nil {
			return fmt.Errorf("failed to initialize vault client: %w", err)
		}
		defer v.Close()

		linkID, ok := vault.LinkID(slog.Default(), cmd)
		if !ok {
			return fmt.Errorf("vault enabled but no valid link ID configured")
		}

		connInfo, identity, err = v.ConnectionSecrets(ctx, linkID, connInfo)
		if err != nil {
			return fmt.Errorf("failed to fetch connection secrets from vault: %w", err)
		}
	} else {
		identity = plant.SessionIdentity{
			FCMID:     cmd.String("fcm-id"),
			IBID:      cmd.String("ib-id"),
			AccountID: cmd.String("account-id"),
		}
	}

	conn, err := websocket.Dial(ctx, connInfo.URL)
	if err != nil {
		return fmt.Errorf("failed to dial plant: %w", err)
	}

	heartbeat, err := config.HeartbeatInterval(cmd)
	if err != nil {
		return fmt.Errorf("invalid heartbeat interval: %w", err)
	}

	a := plant.NewActor(conn, connInfo,
		plant.WithLogger(slog.Default()),
		plant.WithHeartbeatInterval(heartbeat),
		plant.WithCommandQueueCapacity(cmd.Int("command-queue-size")),
		plant.WithFrameObserver(metrics.NewFrameObserver(slog.Default())),
		plant.WithSessionIdentity(identity),
	)
	go a.Run(ctx)

	h := a.Handle()
	if err := h.Login(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if cmd.Bool("temporal-enabled") {
		return temporalutil.Run(ctx, cmd, h)
	}

	<-ctx.Done()
	return h.Disconnect(ctx)
}

// configFile returns the path to the app's configuration file. It also
// creates an empty file if it doesn't already exist.
func configFile() altsrc.StringSourcer {
	path, err := xdg.CreateFile(xdg.ConfigHome, ConfigDirName, ConfigFileName)
	if err != nil {
		logger.FatalError("failed to create config file", err)
	}
	return altsrc.StringSourcer(path)
}

// initLog initializes the default logger, based on whether the
// application is running in development mode or not.
func initLog(devMode bool) {
	var handler slog.Handler
	if devMode {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		})
	}

	slog.SetDefault(slog.New(handler))
}
