// Package source provides the external collaborators that produce adapter
// listings and throughput reports.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/tonhe/ifwatch/internal/config"
)

// ErrUnknownKind is returned by New for an unrecognized source kind.
var ErrUnknownKind = errors.New("unknown source kind")

// Source produces the two raw texts the engine consumes: a CSV adapter
// listing and a line-oriented throughput report.
type Source interface {
	AdapterListing(ctx context.Context) (string, error)
	ThroughputReport(ctx context.Context) (string, error)
}

// DefaultKind is the source used when none is configured.
func DefaultKind() string {
	if runtime.GOOS == "windows" {
		return config.SourcePowerShell
	}
	return config.SourceLocal
}

// New builds the source selected by cfg.Kind.
func New(cfg config.SourceConfig, logger *slog.Logger) (Source, error) {
	logger = orDiscard(logger)
	kind := cfg.Kind
	if kind == "" {
		kind = DefaultKind()
	}
	logger = logger.With("module", "source", "kind", kind)

	switch kind {
	case config.SourcePowerShell:
		return NewPowerShell(cfg.Shell, nil), nil
	case config.SourceLocal:
		return NewLocal(cfg.SampleInterval, logger), nil
	case config.SourceSNMP:
		return NewSNMP(cfg.SNMP, cfg.SampleInterval, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
