// Package main is the pagewise CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/hyperjump/pagewise/internal/ai"
	"github.com/hyperjump/pagewise/internal/cli"
	"github.com/hyperjump/pagewise/internal/config"
	"github.com/hyperjump/pagewise/internal/extract"
	"github.com/hyperjump/pagewise/internal/models"
	"github.com/hyperjump/pagewise/internal/reader"
	"github.com/hyperjump/pagewise/internal/server"
	"github.com/hyperjump/pagewise/internal/speech"
	"github.com/hyperjump/pagewise/internal/storage"
	"github.com/hyperjump/pagewise/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/pagewise/config.yaml"
	defaultServerURL  = "http://localhost:8080"
	// analysisCacheRetention is how long an unused cached analysis is kept.
	analysisCacheRetention = 30 * 24 * time.Hour
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// When path is the default and no file exists at all, built-in defaults are used so the
// server can run from the environment alone.
// Returns the config and the path that was actually loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "upload", "page", "summary", "navigate", "search", "delete", "status":
		if err := runClientCommand(command, os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", command, err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("pagewise version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	config.ApplyEnv(cfg, os.Getenv)

	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.Bool("ai_enabled", cfg.AI.Enabled()),
	)

	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(components.Reader, components.Speech, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// Components holds the services behind the HTTP API.
type Components struct {
	Reader   *reader.Service
	Speech   *speech.Service
	cache    storage.AnalysisCache
	aiClient *ai.Client
}

// Close releases the analysis cache and the model client.
func (c *Components) Close() {
	if c.cache != nil {
		_ = c.cache.Close()
	}
	if c.aiClient != nil {
		_ = c.aiClient.Close()
	}
}

// googleOptions returns client options for an optional service account key file.
func googleOptions(credentialsFile string) []option.ClientOption {
	if credentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	c := &Components{}

	var analyzer reader.Analyzer = ai.Offline{}
	var transcriber speech.Transcriber
	if cfg.AI.Enabled() {
		client, err := ai.NewClient(ctx, ai.Config{
			ProjectID:       cfg.AI.ProjectID,
			Region:          cfg.AI.Region,
			Model:           cfg.AI.Model,
			Temperature:     cfg.AI.Temperature,
			MaxRetries:      cfg.AI.MaxRetries,
			TranscribeModel: cfg.Speech.TranscribeModel,
		}, logger, googleOptions(cfg.AI.CredentialsFile)...)
		if err != nil {
			return nil, fmt.Errorf("failed to create ai client: %w", err)
		}
		c.aiClient = client
		analyzer = client
		transcriber = client
	} else {
		logger.Warn("no ai project configured; documents get fallback analyses and speech-to-text is disabled")
	}

	var synthesizer speech.Synthesizer
	synth, err := speech.NewGoogleSynthesizer(ctx, speech.GoogleConfig{
		VoiceArabic:   cfg.Speech.VoiceArabic,
		VoiceEnglish:  cfg.Speech.VoiceEnglish,
		AudioEncoding: cfg.Speech.AudioEncoding,
	}, googleOptions(cfg.Speech.CredentialsFile)...)
	if err != nil {
		logger.Warn("text-to-speech disabled", zap.Error(err))
	} else {
		synthesizer = synth
	}

	var cache storage.AnalysisCache = storage.NopCache{}
	if cfg.Cache.DatabasePath != "" {
		sqliteCache, err := storage.NewSQLiteAnalysisCache(cfg.Cache.DatabasePath)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to open analysis cache: %w", err)
		}
		if n, err := sqliteCache.Prune(ctx, time.Now().Add(-analysisCacheRetention)); err != nil {
			logger.Warn("analysis cache prune failed", zap.Error(err))
		} else if n > 0 {
			logger.Info("pruned stale analyses", zap.Int64("entries", n))
		}
		cache = sqliteCache
	}
	c.cache = cache

	extractor := extract.NewExtractor(extract.Options{
		RenderPages:   cfg.Extract.RenderPagesOrDefault(),
		RenderDPI:     cfg.Extract.RenderDPI,
		RenderWorkers: cfg.Extract.RenderWorkers,
	}, logger)

	c.Reader = reader.NewService(storage.NewMemoryStore(), extractor, analyzer, cache, reader.Config{
		ModelName:          cfg.AI.Model,
		SearchDefaultLimit: cfg.Search.DefaultLimit,
		SearchMaxLimit:     cfg.Search.MaxLimit,
	}, logger)
	c.Speech = speech.NewService(cfg.Speech.Provider, synthesizer, transcriber,
		speech.NewAudioCache(cfg.Speech.CacheSize), logger)
	return c, nil
}

// runClientCommand runs a subcommand that talks to a running server.
func runClientCommand(command string, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	language := fs.String("language", "", "document language for upload: arabic or english (default arabic)")
	current := fs.Int("current", 1, "current page for navigate")
	limit := fs.Int("limit", 0, "number of pages for search (0 = server default)")
	fs.Usage = func() { printCommandUsage(fs, command) }
	if err := fs.Parse(argsReorder(args)); err != nil {
		return err
	}

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		return err
	}
	client := cli.NewClient(*serverURL, &http.Client{Timeout: 5 * time.Minute})
	ctx := context.Background()
	positional := fs.Args()

	switch command {
	case "upload":
		if len(positional) != 1 {
			return usageError(fs, command)
		}
		res, err := client.Upload(ctx, positional[0], *language)
		if err != nil {
			return err
		}
		return cli.WriteUpload(stdout, res, format)
	case "page":
		if len(positional) != 2 {
			return usageError(fs, command)
		}
		page, err := strconv.Atoi(positional[1])
		if err != nil {
			return fmt.Errorf("page must be a number: %q", positional[1])
		}
		view, err := client.Page(ctx, positional[0], page)
		if err != nil {
			return err
		}
		return cli.WritePage(stdout, view, format)
	case "summary":
		if len(positional) != 1 {
			return usageError(fs, command)
		}
		summary, err := client.Summary(ctx, positional[0])
		if err != nil {
			return err
		}
		return cli.WriteSummary(stdout, summary, format)
	case "navigate":
		if len(positional) < 2 {
			return usageError(fs, command)
		}
		res, err := client.Navigate(ctx, positional[0], models.NavigationRequest{
			Command:     joinArgs(positional[1:]),
			CurrentPage: *current,
		})
		if err != nil {
			return err
		}
		return cli.WriteNavigation(stdout, res, format)
	case "search":
		if len(positional) < 2 {
			return usageError(fs, command)
		}
		res, err := client.Search(ctx, positional[0], joinArgs(positional[1:]), *limit)
		if err != nil {
			return err
		}
		return cli.WriteSearchResults(stdout, res, format)
	case "delete":
		if len(positional) != 1 {
			return usageError(fs, command)
		}
		res, err := client.Delete(ctx, positional[0])
		if err != nil {
			return err
		}
		return cli.WriteDelete(stdout, res, format)
	case "status":
		status, err := client.Status(ctx)
		if err != nil {
			return err
		}
		return cli.WriteStatus(stdout, status, format)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

var commandArgs = map[string]string{
	"upload":   "<file>",
	"page":     "<session-id> <page>",
	"summary":  "<session-id>",
	"navigate": "<session-id> <command...>",
	"search":   "<session-id> <query...>",
	"delete":   "<session-id>",
	"status":   "",
}

func printCommandUsage(fs *flag.FlagSet, command string) {
	fmt.Fprintf(fs.Output(), "Usage: pagewise %s [flags] %s\n\n", command, commandArgs[command])
	fs.PrintDefaults()
}

func usageError(fs *flag.FlagSet, command string) error {
	printCommandUsage(fs, command)
	return fmt.Errorf("usage: pagewise %s [flags] %s", command, commandArgs[command])
}

// joinArgs joins positional args with spaces so multi-word commands and queries work the
// same with or without shell quoting.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the positional
// arguments to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "pagewise search doc_1 wind -limit 3"
// would otherwise leave -limit unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printUsage() {
	fmt.Println(`pagewise - document reading assistant

Usage:
  pagewise <command> [flags]

Commands:
  server     Start the HTTP server
  upload     Upload a .pptx, .ppt or .pdf document and print its session
  page       Show one page of a session
  summary    Show the summary of a session
  navigate   Send a navigation command ("next", "page 4", "الصفحة التالية")
  search     Search the pages of a session
  delete     Delete a session
  status     Show server status
  version    Show version
  help       Show this help

Flags (server):
  --config string    Config file path (default: /usr/local/etc/pagewise/config.yaml)
  --debug            Enable debug logging

Flags (client commands):
  --server string    Server URL (default: http://localhost:8080)
  --output string    Output format: text or json (default: text)

Environment:
  GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_REGION, GOOGLE_APPLICATION_CREDENTIALS
  fill empty ai and speech settings. A .env file in the working directory is loaded first.`)
}
