// ABOUTME: Wiring of configuration, credential store, gateway and session
// ABOUTME: Every command builds one app and talks to the API through it

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/campus-admin/internal/api"
	"github.com/markalston/campus-admin/internal/config"
	"github.com/markalston/campus-admin/internal/credstore"
	"github.com/markalston/campus-admin/internal/logger"
	"github.com/markalston/campus-admin/internal/resources"
	"github.com/markalston/campus-admin/internal/session"
	"github.com/spf13/cobra"
)

// app holds the collaborators of one command invocation
type app struct {
	cfg     *config.Config
	store   *credstore.Store
	gateway *api.Gateway
	session *session.Orchestrator
	guard   *session.Guard
	catalog *resources.Catalog
	close   func() error

	// expiredTarget is set by the unauthorized handler
	expiredTarget string
}

// newApp loads configuration and connects every layer. Logs go to stderr.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	return buildApp(ctx, cfg)
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	cfg.APIURL = resolveAPIURL(cfg)

	store, closeFn, err := credstore.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return wire(cfg, store, closeFn), nil
}

// wire connects the layers over an existing store
func wire(cfg *config.Config, store *credstore.Store, closeFn func() error) *app {
	gw := api.New(cfg.APIURL, store, api.WithTimeout(cfg.Timeout))
	orch := session.New(store, gw)

	a := &app{
		cfg:     cfg,
		store:   store,
		gateway: gw,
		session: orch,
		guard:   session.NewGuard(orch),
		catalog: resources.NewCatalog(gw),
		close:   closeFn,
	}

	orch.Subscribe(func(s session.Session) {
		slog.Debug("session changed", "state", s.State, "loading", s.IsLoading)
	})

	// Single top-level reaction to a rejected session
	gw.OnUnauthorized(orch.Expire)
	gw.OnUnauthorized(func(target string) {
		a.expiredTarget = target
		slog.Debug("unauthorized response, session cleared", "redirect", target)
	})
	return a
}

// Close releases the credential store connection
func (a *app) Close() {
	if a.close != nil {
		if err := a.close(); err != nil {
			slog.Warn("close credential store", "error", err)
		}
	}
}

// runFunc is the body of a command once its app is wired
type runFunc func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int

// withApp adapts a runFunc to a cobra Run: it handles signals, builds the
// app and exits with the returned code.
func withApp(run runFunc) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitError)
		}

		exitCode := run(ctx, a, cmd, args)
		a.Close()
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}
}

// requireSession wraps run so it only executes for a logged-in user
func requireSession(run runFunc) runFunc {
	return func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
		if err := a.guard.Require(); err != nil {
			return reportError(cmd.ErrOrStderr(), err)
		}
		return run(ctx, a, cmd, args)
	}
}
