package temporalutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/rithmic-go/rithmic/pkg/plant"
)

// Run dials Temporal, registers handle's activities on the configured
// task queue, and blocks running the worker until interrupted.
func Run(ctx context.Context, cmd *cli.Command, handle *plant.Handle) error {
	addr := cmd.String("temporal-host-port")
	slog.Info("Temporal server address: " + addr)

	c, err := client.Dial(client.Options{
		HostPort:  addr,
		Namespace: cmd.String("temporal-namespace"),
		Logger:    NewLogAdapter(zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()),
	})
	if err != nil {
		return fmt.Errorf("failed to dial Temporal: %w", err)
	}
	defer c.Close()

	w := worker.New(c, cmd.String("temporal-task-queue"), worker.Options{})
	NewActivities(handle).Register(w)

	if err := w.Run(worker.InterruptCh()); err != nil {
		return fmt.Errorf("failed to start Temporal worker: %w", err)
	}

	return nil
}
