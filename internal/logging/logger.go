package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/filipsPL/aprs-is-wx/internal/config"
)

// New builds the process logger: structured JSON in prod, colorized
// human-readable output everywhere else.
func New(cfg config.Config, version string, appName string) *slog.Logger {
	if cfg.AppEnv == "prod" {
		h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		})
		return slog.New(h).With(
			"app", appName,
			"version", version,
			"env", cfg.AppEnv,
		)
	}

	h := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cfg.LogLevel,
		AddSource:  true,
		TimeFormat: time.Kitchen,
	})
	return slog.New(h).With("app", appName, "version", version)
}
