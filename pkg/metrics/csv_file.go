// Package metrics provides functions to record metrics data, by
// appending one CSV row per event to date-rotated local files.
package metrics

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/tzrikka/xdg"
)

const (
	DefaultFrameCounterFileIn  = "metrics/rithmic_in_%s.csv"
	DefaultFrameCounterFileOut = "metrics/rithmic_out_%s.csv"

	fileFlags = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	filePerms = xdg.NewFilePermissions
)

var (
	muIn  sync.Mutex
	muOut sync.Mutex
)

// NewFrameObserver returns a plant.FrameObserver-shaped function (it
// deliberately avoids importing pkg/plant to keep this package
// dependency-free) that appends one CSV row per frame sent or received
// to a date-rotated file, and logs append failures through l without
// ever returning an error itself — a metrics write must never fail the
// frame it's counting.
func NewFrameObserver(l *slog.Logger) func(direction string, templateID int, err error) {
	return func(direction string, templateID int, err error) {
		switch direction {
		case "out":
			IncrementOutboundFrameCounter(l, time.Now(), templateID, err)
		default:
			IncrementInboundFrameCounter(l, time.Now(), templateID, err)
		}
	}
}

// IncrementInboundFrameCounter records one inbound frame.
func IncrementInboundFrameCounter(l *slog.Logger, t time.Time, templateID int, err error) {
	muIn.Lock()
	defer muIn.Unlock()

	record := []string{t.Format(time.RFC3339), strconv.Itoa(templateID), errString(err)}
	if writeErr := appendToCSVFile(DefaultFrameCounterFileIn, t, record); writeErr != nil {
		l.Error("metrics error: failed to increment inbound frame counter", slog.Any("error", writeErr),
			slog.Int("template_id", templateID))
	}
}

// IncrementOutboundFrameCounter records one outbound frame.
func IncrementOutboundFrameCounter(l *slog.Logger, t time.Time, templateID int, err error) {
	muOut.Lock()
	defer muOut.Unlock()

	record := []string{t.Format(time.RFC3339), strconv.Itoa(templateID), errString(err)}
	if writeErr := appendToCSVFile(DefaultFrameCounterFileOut, t, record); writeErr != nil {
		l.Error("metrics error: failed to increment outbound frame counter", slog.Any("error", writeErr),
			slog.Int("template_id", templateID))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func appendToCSVFile(filename string, t time.Time, record []string) error {
	filename = fmt.Sprintf(filename, t.Format(time.DateOnly))
	f, err := os.OpenFile(filename, fileFlags, filePerms) //gosec:disable G304 // Hardcoded path.
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		return err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return nil
}
