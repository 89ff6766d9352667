// Command aria runs the conversational assistant as an interactive chat, a
// one-shot query, or a Connect RPC server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/aria/core/config"
	"github.com/tailored-agentic-units/aria/engine"
	"github.com/tailored-agentic-units/aria/knowledge"
	"github.com/tailored-agentic-units/aria/observability"
	"github.com/tailored-agentic-units/aria/server"
)

var (
	configFile string
	provider   string
	model      string
	verbose    bool
	eventsPath string

	eventsFile *os.File
)

// eventsObserver names the JSON event log registered by --events.
const eventsObserver = "events"

var rootCmd = &cobra.Command{
	Use:           "aria",
	Short:         "Guarded conversational assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		setupLogging(verbose)
		return openEventLog(eventsPath)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if eventsFile != nil {
			eventsFile.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to JSONC config file")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "completion provider (anthropic, gemini, mock)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model name (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&eventsPath, "events", "", "append every event as JSON lines to this file")

	rootCmd.AddCommand(chatCmd, askCmd, serveCmd, functionsCmd, rulesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// appConfig is the on-disk configuration. Engine settings sit at the top
// level; the server section is read separately.
type appConfig struct {
	Engine *engine.Config
	Server server.Config
}

func loadConfig() (*appConfig, error) {
	app := &appConfig{Server: server.DefaultConfig()}

	if configFile == "" {
		cfg := engine.DefaultConfig()
		app.Engine = &cfg
	} else {
		cfg, err := engine.LoadConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		app.Engine = cfg

		var section struct {
			Server server.Config `json:"server"`
		}
		if err := config.ReadJSONC(configFile, &section); err != nil {
			return nil, fmt.Errorf("failed to load server config: %w", err)
		}
		app.Server.Merge(&section.Server)
	}

	if provider != "" {
		app.Engine.Agent.Provider = provider
	}
	if model != "" {
		app.Engine.Agent.Model = model
	}
	if eventsFile != nil {
		app.Engine.Observer += "," + eventsObserver
	}
	return app, nil
}

func setupLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))
}

// openEventLog registers a debug-level JSON observer writing to path.
func openEventLog(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	eventsFile = f

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	observability.RegisterObserver(eventsObserver, observability.NewSlogObserver(logger))
	return nil
}

// openKnowledge opens the shared knowledge store named by the config.
func openKnowledge(ctx context.Context, cfg *engine.Config) (*knowledge.Store, error) {
	store, err := knowledge.Open(ctx, cfg.KnowledgePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge store: %w", err)
	}
	return store, nil
}
