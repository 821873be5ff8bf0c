package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/WWPCA/ieltsprep/internal/api"
	"github.com/WWPCA/ieltsprep/internal/conversation"
	"github.com/WWPCA/ieltsprep/internal/lockfile"
	"github.com/WWPCA/ieltsprep/internal/provider"
	"github.com/WWPCA/ieltsprep/internal/questionbank"
	"github.com/WWPCA/ieltsprep/internal/store"
	"github.com/WWPCA/ieltsprep/internal/transcribe"
	"github.com/WWPCA/ieltsprep/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for service state data
	DefaultStateDir = "/var/lib/ieltsprep"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "ieltsprep.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	st, err := store.NewStore(*flags.dbDSN)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	providers := buildProviders(flags)
	if len(providers) == 0 {
		slog.Error("No AI provider configured; set at least one API key")
		os.Exit(1)
	}
	detector := provider.NewDetector(providers)

	orchOpts := buildOrchestratorOptions(flags)
	orch := conversation.NewOrchestrator(st, detector, questionbank.New(), orchOpts...)

	reaper := conversation.NewReaper(st, *flags.idleWindow)
	if err := reaper.Start(); err != nil {
		slog.Error("Failed to start idle-session reaper", "error", err)
		os.Exit(1)
	}
	defer reaper.Stop()
	reaper.Sweep()

	server := api.NewServer(orch, buildAPIOptions(flags)...)

	// Shut down cleanly on SIGINT/SIGTERM.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		slog.Info("Received shutdown signal", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Bootstrapping speaking-test service",
		"providers", len(providers), "addr", *flags.apiAddr, "dsn_set", *flags.dbDSN != "")
	if err := server.Run(); err != nil {
		slog.Error("Service exited with error", "error", err)
	}
	slog.Info("Service exited")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL  string
	StateDir     string
	OpenAIKey    string
	AnthropicKey string
	GeminiKey    string
	APIAddr      string
	IdleWindow   time.Duration
}

// Flags holds command line flag values
type Flags struct {
	stateDir     *string
	dbDSN        *string
	openaiKey    *string
	anthropicKey *string
	geminiKey    *string
	apiAddr      *string
	idleWindow   *time.Duration
	callTimeout  *time.Duration
}

// initializeLogger sets up structured logging. Debug level is the default;
// set IELTSPREP_DEBUG=false to quiet the service down to info level.
func initializeLogger() {
	level := slog.LevelDebug
	if !util.ParseBoolEnv("IELTSPREP_DEBUG", true) {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		StateDir:     os.Getenv("IELTSPREP_STATE_DIR"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		APIAddr:      os.Getenv("API_ADDR"),
		IdleWindow:   conversation.DefaultIdleWindow,
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No IELTSPREP_STATE_DIR set, using default", "state_dir", config.StateDir)
	}
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No DATABASE_URL provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}
	if v := os.Getenv("IDLE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.IdleWindow = d
		} else {
			slog.Warn("Invalid IDLE_WINDOW, using default", "value", v, "default", config.IdleWindow)
		}
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"IELTSPREP_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"ANTHROPIC_API_KEY_SET", config.AnthropicKey != "",
		"GEMINI_API_KEY_SET", config.GeminiKey != "",
		"API_ADDR", config.APIAddr,
		"IDLE_WINDOW", config.IdleWindow)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:     flag.String("state-dir", config.StateDir, "state directory for service data (overrides $IELTSPREP_STATE_DIR)"),
		dbDSN:        flag.String("db-dsn", config.DatabaseURL, "database DSN for the session store (overrides $DATABASE_URL)"),
		openaiKey:    flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		anthropicKey: flag.String("anthropic-api-key", config.AnthropicKey, "Anthropic API key (overrides $ANTHROPIC_API_KEY)"),
		geminiKey:    flag.String("gemini-api-key", config.GeminiKey, "Gemini API key (overrides $GEMINI_API_KEY)"),
		apiAddr:      flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		idleWindow:   flag.Duration("idle-window", config.IdleWindow, "idle time before an abandoned session is reclaimed (overrides $IDLE_WINDOW)"),
		callTimeout:  flag.Duration("call-timeout", provider.DefaultCallTimeout, "timeout for a single provider generation call"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"anthropicKeySet", *flags.anthropicKey != "",
		"geminiKeySet", *flags.geminiKey != "",
		"apiAddr", *flags.apiAddr,
		"idleWindow", *flags.idleWindow,
		"callTimeout", *flags.callTimeout)

	return flags
}

// buildProviders constructs the provider list in priority order: the
// speech-capable OpenAI backend first, then text-only backends.
func buildProviders(flags Flags) []provider.Provider {
	var providers []provider.Provider

	if *flags.openaiKey != "" {
		speech, err := provider.NewOpenAIProvider(provider.OpenAIConfig{APIKey: *flags.openaiKey, Speech: true})
		if err != nil {
			slog.Error("Failed to create OpenAI speech provider", "error", err)
		} else {
			providers = append(providers, speech)
		}
		text, err := provider.NewOpenAIProvider(provider.OpenAIConfig{APIKey: *flags.openaiKey})
		if err != nil {
			slog.Error("Failed to create OpenAI text provider", "error", err)
		} else {
			providers = append(providers, text)
		}
	}
	if *flags.anthropicKey != "" {
		p, err := provider.NewAnthropicProvider(provider.AnthropicConfig{APIKey: *flags.anthropicKey})
		if err != nil {
			slog.Error("Failed to create Anthropic provider", "error", err)
		} else {
			providers = append(providers, p)
		}
	}
	if *flags.geminiKey != "" {
		p, err := provider.NewGeminiProvider(context.Background(), provider.GeminiConfig{APIKey: *flags.geminiKey})
		if err != nil {
			slog.Error("Failed to create Gemini provider", "error", err)
		} else {
			providers = append(providers, p)
		}
	}

	return providers
}

// buildOrchestratorOptions constructs orchestrator configuration options
func buildOrchestratorOptions(flags Flags) []conversation.Option {
	var opts []conversation.Option
	if *flags.openaiKey != "" {
		t, err := transcribe.NewOpenAITranscriber(*flags.openaiKey)
		if err != nil {
			slog.Error("Failed to create transcriber, audio turns disabled", "error", err)
		} else {
			opts = append(opts, conversation.WithTranscriber(t))
		}
	}
	if *flags.callTimeout > 0 {
		opts = append(opts, conversation.WithCallTimeout(*flags.callTimeout))
	}
	return opts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	return apiOpts
}
