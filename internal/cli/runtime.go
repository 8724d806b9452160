package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/roach88/vestd/internal/auth"
	"github.com/roach88/vestd/internal/clock"
	"github.com/roach88/vestd/internal/config"
	"github.com/roach88/vestd/internal/ledger"
	"github.com/roach88/vestd/internal/store"
)

// runtime bundles the opened store and ledger a command operates on.
type runtime struct {
	cfg    config.Config
	store  *store.Store
	ledger *ledger.Ledger
}

// openRuntime loads configuration, configures logging, opens the
// database, and wires the ledger with its production collaborators.
func openRuntime(ctx context.Context, opts *RootOptions) (*runtime, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	configureLogging(cfg, opts)

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open ledger database", err)
	}

	l, err := ledger.New(ctx, st, clock.System{}, auth.Static{Admin: cfg.Admin},
		ledger.WithLogger(slog.Default()))
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open ledger", err)
	}

	return &runtime{cfg: cfg, store: st, ledger: l}, nil
}

func (r *runtime) Close() error {
	return r.store.Close()
}

func configureLogging(cfg config.Config, opts *RootOptions) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// adminCaller resolves the acting account for administrative
// commands: --as when given, else the configured administrator.
func (r *runtime) adminCaller(opts *RootOptions) string {
	if opts.As != "" {
		return opts.As
	}
	return r.cfg.Admin
}

// employeeCaller resolves the acting account for employee-facing
// commands; --as is mandatory since there is no sensible default.
func employeeCaller(opts *RootOptions) (string, error) {
	if opts.As == "" {
		return "", NewExitError(ExitCommandError, "missing --as: employee operations need an acting account")
	}
	return opts.As, nil
}
