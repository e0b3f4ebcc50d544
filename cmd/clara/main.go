// Command clara hosts the Clara ethical-moderation chat demo, either as a
// local web UI or a terminal REPL.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/obrienkev/clara-go/internal/adapters/audit"
	"github.com/obrienkev/clara-go/internal/adapters/configwatch"
	"github.com/obrienkev/clara-go/internal/adapters/display"
	"github.com/obrienkev/clara-go/internal/adapters/language"
	"github.com/obrienkev/clara-go/internal/adapters/llm"
	"github.com/obrienkev/clara-go/internal/config"
	"github.com/obrienkev/clara-go/internal/domain/ports"
	"github.com/obrienkev/clara-go/internal/domain/usecases"
	claraweb "github.com/obrienkev/clara-go/internal/infrastructure/http"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Logger
	logger *zap.Logger

	// Current configuration, swapped atomically on hot reload.
	currentConfig atomic.Pointer[config.Config]
)

var rootCmd = &cobra.Command{
	Use:   "clara",
	Short: "Clara - an ethical AI moderation teaching demo",
	Long: `Clara is a teaching demonstration of AI behavior, bias, and ethical
moderation. Every user turn runs through heuristic pre/post filters, intent
and language classification, an adaptive mode state machine, and an
explainability trace, around a streamed Ollama completion.

Run "clara serve" for the web chat UI or "clara chat" for a terminal session.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		currentConfig.Store(&cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web chat UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with Clara in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "clara.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, chatCmd)
}

// buildAuditSink wires the JSONL log plus the optional SQLite store.
// The store is returned separately so the web UI can query recent records.
func buildAuditSink(cfg config.Config) (ports.AuditSink, *audit.SQLiteStore, error) {
	jsonl, err := audit.NewJSONLSink(cfg.Audit.LogPath)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Audit.EnableStore {
		return jsonl, nil, nil
	}

	store, err := audit.NewSQLiteStore(cfg.Audit.DataPath)
	if err != nil {
		return nil, nil, err
	}
	return audit.NewMultiSink(jsonl, store), store, nil
}

// newConversationFactory builds session conversations from the current
// (possibly hot-reloaded) configuration.
func newConversationFactory(detector ports.LanguageDetector, sink ports.AuditSink) func() *usecases.Conversation {
	return func() *usecases.Conversation {
		cfg := *currentConfig.Load()
		completions := llm.NewOllamaAdapter(cfg.Ollama.BaseURL, cfg.Ollama.Model)
		return usecases.NewConversation(completions, detector, sink, usecases.Config{
			SystemPrompt:   cfg.Chat.SystemPrompt,
			HistoryWindow:  cfg.Chat.HistoryWindow,
			ShowReflection: cfg.Chat.ShowReflection,
		})
	}
}

// watchConfig hot-reloads the YAML file so new sessions pick up changes
// without a restart.
func watchConfig(ctx context.Context) {
	watcher, err := configwatch.NewFSNotifyWatcher()
	if err != nil {
		logger.Warn("config watcher unavailable", zap.Error(err))
		return
	}

	events, err := watcher.Watch(ctx, configPath)
	if err != nil {
		logger.Warn("config watch failed", zap.String("path", configPath), zap.Error(err))
		watcher.Stop()
		return
	}

	go func() {
		defer watcher.Stop()
		for event := range events {
			if event.Operation == ports.FileDeleted {
				continue
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				logger.Warn("config reload failed", zap.Error(err))
				continue
			}
			currentConfig.Store(&cfg)
			logger.Info("config reloaded",
				zap.String("path", event.Path),
				zap.String("model", cfg.Ollama.Model))
		}
	}()
}

func runServe(ctx context.Context) error {
	cfg := *currentConfig.Load()

	sink, store, err := buildAuditSink(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	detector := language.NewLinguaDetector()
	watchConfig(ctx)

	var reader claraweb.AuditReader
	if store != nil {
		reader = store
	}

	server := claraweb.NewServer(newConversationFactory(detector, sink), reader, logger, cfg.HTTP.Addr)
	return server.Start(ctx)
}

func runChat(ctx context.Context) error {
	cfg := *currentConfig.Load()

	sink, store, err := buildAuditSink(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	detector := language.NewLinguaDetector()
	conv := newConversationFactory(detector, sink)()

	renderer := display.NewTerminal(os.Stdout, time.Duration(cfg.Chat.TypingDelayMS)*time.Millisecond)
	for _, m := range conv.History() {
		renderer.RenderMessage(m.Role, m.Content)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" {
			break
		}

		reply := conv.ProcessUserInput(ctx, input, renderer)
		renderer.RenderCleaned(reply)

		if ctx.Err() != nil {
			break
		}
	}
	return scanner.Err()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
