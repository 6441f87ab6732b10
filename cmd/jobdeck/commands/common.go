// Package commands implements the CLI actions. Every action builds an
// AppContext, runs one service operation, and renders the result.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"jobdeck/internal/core"
	"jobdeck/internal/infra/archive"
)

// AppContext holds the wired service shared by all command actions.
type AppContext struct {
	Service *core.Service
	Metrics *core.PrometheusMetricsRecorder
}

// NewAppContext loads the env file, opens the configured store, and wires
// the service. A missing env file is not an error; the process environment
// still applies.
func NewAppContext(ctx context.Context, envFile string) (*AppContext, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	store, err := core.OpenPersistentStore(core.NewDefaultRulesEngine())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	metrics, err := core.NewPrometheusMetricsRecorder(nil)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	svc := core.NewService(store,
		core.WithLogger(slog.Default()),
		core.WithMetrics(metrics),
	)

	if warned, ok := store.(interface{ LoadWarning() error }); ok {
		if warn := warned.LoadWarning(); warn != nil {
			slog.Warn("stored document was unreadable, starting from a fresh state", "error", warn)
		}
	}

	return &AppContext{Service: svc, Metrics: metrics}, nil
}

// Close releases the store when the backend holds external resources.
func (ac *AppContext) Close() {
	if closer, ok := ac.Service.Store().(io.Closer); ok {
		closer.Close()
	}
}

// OpenArchive selects the archive backend from the environment.
func (ac *AppContext) OpenArchive(ctx context.Context) (archive.Store, error) {
	return core.OpenArchiveStore(ctx)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
