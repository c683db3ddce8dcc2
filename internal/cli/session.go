package cli

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/love/internal/engine"
	"github.com/roach88/love/internal/metrics"
	"github.com/roach88/love/internal/store"
)

// metricsNamespace prefixes every metric the CLI exports.
const metricsNamespace = "love"

// session is an open database with an engine on top, shared by the
// commands that touch the store.
type session struct {
	store    *store.Store
	engine   *engine.Engine
	registry *prometheus.Registry
	logger   *slog.Logger
}

// newLogger builds the CLI logger. Logs go to w (stderr) so that JSON on
// stdout stays parseable.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newFormatter builds the output formatter for cmd.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// openSession opens the database (creating it if needed) and builds an
// engine configured from opts.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	logger := newLogger(opts.Verbose, cmd.ErrOrStderr())

	policy, err := engine.ParseConflictPolicy(opts.Policy)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid conflict policy", err)
	}

	retry := store.DefaultRetryPolicy()
	retry.MaxRetries = opts.BusyRetries

	logger.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database, store.WithRetryPolicy(retry))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry, metricsNamespace)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to register metrics", err)
	}

	eng := engine.New(st,
		engine.WithLogger(logger),
		engine.WithConflictPolicy(policy),
		engine.WithMetrics(recorder),
	)

	return &session{
		store:    st,
		engine:   eng,
		registry: registry,
		logger:   logger,
	}, nil
}

// Close closes the database, logging any error.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// writeMetrics exports the session's metrics to path. An empty path is a
// no-op.
func (s *session) writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := metrics.WriteTextfile(path, s.registry); err != nil {
		return err
	}
	s.logger.Debug("metrics written", "path", path)
	return nil
}
