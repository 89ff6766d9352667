package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/aria/engine"
	"github.com/tailored-agentic-units/aria/observability"
	"github.com/tailored-agentic-units/aria/server"
	"github.com/tailored-agentic-units/aria/tools"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve chat sessions over Connect RPC",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		app.Server.Addr = serveAddr
	}

	store, err := openKnowledge(ctx, app.Engine)
	if err != nil {
		return err
	}
	defer store.Close()

	observer, err := observability.Resolve(app.Engine.Observer)
	if err != nil {
		return err
	}

	// Sessions share the provider, functions, and store; each gets its own
	// memory.
	providers := engine.Providers()
	sharedAgent, err := providers.New(ctx, &app.Engine.Agent)
	if err != nil {
		return err
	}
	functions := tools.Builtin(nil)

	factory := func() (*engine.Engine, error) {
		return engine.New(app.Engine,
			engine.WithAgent(sharedAgent),
			engine.WithFunctions(functions),
			engine.WithSearcher(store),
			engine.WithObserver(observer),
		)
	}

	manager := server.NewManager(factory, app.Server.MaxSessions, observer)
	service := server.NewService(manager, functions)

	slog.Info("serving", "addr", app.Server.Addr, "provider", sharedAgent.Provider(), "model", sharedAgent.Model())
	return server.ListenAndServe(ctx, app.Server, service.Handler())
}
