package metrics_test

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rithmic-go/rithmic/pkg/metrics"
)

func TestIncrementInboundFrameCounter(t *testing.T) {
	t.Chdir(t.TempDir())
	now := time.Now().UTC()

	if err := os.Mkdir("metrics", 0o700); err != nil {
		t.Fatal(err)
	}

	metrics.IncrementInboundFrameCounter(slog.Default(), now, 11, nil)

	f, err := os.ReadFile(fmt.Sprintf(metrics.DefaultFrameCounterFileIn, now.Format(time.DateOnly)))
	if err != nil {
		t.Fatal(err)
	}

	got := string(f)
	want := now.Format(time.RFC3339) + ",11,\n"
	if got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}

func TestIncrementOutboundFrameCounter(t *testing.T) {
	t.Chdir(t.TempDir())
	now := time.Now().UTC()

	if err := os.Mkdir("metrics", 0o700); err != nil {
		t.Fatal(err)
	}

	metrics.IncrementOutboundFrameCounter(slog.Default(), now, 312, nil)
	metrics.IncrementOutboundFrameCounter(slog.Default(), now, 312, errors.New("some error"))

	f, err := os.ReadFile(fmt.Sprintf(metrics.DefaultFrameCounterFileOut, now.Format(time.DateOnly)))
	if err != nil {
		t.Fatal(err)
	}

	got := string(f)
	ts := now.Format(time.RFC3339)
	want := fmt.Sprintf("%s,312,\n%s,312,some error\n", ts, ts)
	if got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}
