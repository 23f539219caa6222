package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tonhe/ifwatch/internal/adapter"
	"github.com/tonhe/ifwatch/internal/config"
	"github.com/tonhe/ifwatch/internal/engine"
	"github.com/tonhe/ifwatch/internal/netif"
	"github.com/tonhe/ifwatch/internal/source"
)

// newSource builds the configured source. Tests replace it with a fake.
var newSource = source.New

// newInventory builds the host interface inventory. Tests replace it too.
var newInventory = func(logger *slog.Logger) netif.Lister {
	return netif.NewInventory(logger)
}

// env bundles what every monitoring command needs.
type env struct {
	cfg     *config.Config
	kind    string
	log     *slog.Logger
	src     source.Source
	ctrl    *engine.Controller
	catalog *adapter.Catalog
	ifaces  netif.Lister
	logFile io.Closer
}

// newEnv loads config, applies flag overrides, opens the log file and
// builds the source, controller and catalog. Logs also go to mirror when it
// is not nil.
func newEnv(opts *options, mirror io.Writer) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := openLogger(cfg, mirror)
	if err != nil {
		return nil, err
	}

	kind := cfg.Source.Kind
	if kind == "" {
		kind = source.DefaultKind()
	}
	src, err := newSource(cfg.Source, logger)
	if err != nil {
		closeQuietly(logFile)
		return nil, fmt.Errorf("create %s source: %w", kind, err)
	}

	policy, err := engine.ParsePolicy(cfg.FailurePolicy)
	if err != nil {
		closeQuietly(logFile)
		return nil, err
	}

	ctrl := engine.NewController(src,
		engine.WithLogger(logger.With("module", "engine")),
		engine.WithPolicy(policy),
		engine.WithLabelLayout(cfg.LabelLayout),
		engine.WithFetchTimeout(cfg.FetchTimeout),
	)

	logger.Info("ifwatch starting", "version", Version, "source", kind,
		"interval", cfg.PollInterval, "capacity", cfg.Capacity)

	return &env{
		cfg:     cfg,
		kind:    kind,
		log:     logger,
		src:     src,
		ctrl:    ctrl,
		catalog: adapter.NewCatalog(logger.With("module", "adapter")),
		ifaces:  newInventory(logger),
		logFile: logFile,
	}, nil
}

// Close stops the controller and releases the source and log file.
func (r *env) Close() {
	r.ctrl.Close()
	if c, ok := r.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			r.log.Warn("closing source", "err", err)
		}
	}
	closeQuietly(r.logFile)
}

// loadConfig reads the config file and applies the command-line overrides.
func loadConfig(opts *options) (*config.Config, error) {
	path, err := configPath(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if opts.theme != "" {
		cfg.Theme = opts.theme
	}
	if opts.interval > 0 {
		cfg.PollInterval = opts.interval
	}
	if opts.capacity > 0 {
		cfg.Capacity = opts.capacity
	}
	if opts.source != "" {
		cfg.Source.Kind = opts.source
	}
	if opts.policy != "" {
		cfg.FailurePolicy = opts.policy
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configPath returns the --config value or the platform default.
func configPath(opts *options) (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	return config.GetConfigPath()
}

// openLogger creates a text logger writing to the log file in the data dir.
func openLogger(cfg *config.Config, mirror io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if err := config.EnsureDirs(); err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}
	path, err := config.GetLogPath()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	var w io.Writer = f
	if mirror != nil {
		w = io.MultiWriter(f, mirror)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), f, nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
