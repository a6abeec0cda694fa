// cmd/main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"rainfeed/pkg/database"
	"rainfeed/pkg/models"
	"rainfeed/pkg/pipeline"
	"rainfeed/pkg/report"
	"rainfeed/pkg/saih"
	sentryutil "rainfeed/pkg/sentry"
	"rainfeed/pkg/telegram"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"gopkg.in/yaml.v2"
)

// version is stamped by the build; the default marks ad-hoc builds.
var version = "dev"

// findConfigFile looks for config.yml in various locations
func findConfigFile() (string, error) {
	// Possible config locations
	locations := []string{
		"config/config.yml",    // From current directory
		"../config/config.yml", // One level up
	}

	// Get executable directory
	ex, err := os.Executable()
	if err == nil {
		execDir := filepath.Dir(ex)
		locations = append(locations,
			filepath.Join(execDir, "config/config.yml"),
			filepath.Join(execDir, "../config/config.yml"),
		)
	}

	// Try each location
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return filepath.Abs(loc)
		}
	}

	return "", fmt.Errorf("config file not found in any of the expected locations")
}

// loadConfig reads and parses the config file
func loadConfig() (*models.Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config models.Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	applyDefaults(&config)

	if len(config.Stations) == 0 {
		return nil, fmt.Errorf("no stations configured in %s", configPath)
	}

	config.Database.Path, err = filepath.Abs(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	// The chat ID is config, but deployments may prefer to keep it next to
	// the bot token in the environment.
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		config.Telegram.ChatID = chatID
	}

	return &config, nil
}

// applyDefaults fills in the settings the agency endpoints rarely need
// changed, so a minimal config file only lists stations.
func applyDefaults(config *models.Config) {
	src := &config.Sources
	if src.BaseURL == "" {
		src.BaseURL = "https://www.chguadalquivir.es/saih/"
	}
	if src.DailyPDFPath == "" {
		src.DailyPDFPath = "tmp/LLuvia_diaria.pdf"
	}
	if src.InformesPath == "" {
		src.InformesPath = "Informes.aspx"
	}
	if src.WeeklyButton == "" {
		src.WeeklyButton = "ctl00$ContentPlaceHolder1$But_Llu7dpdf"
	}
	if src.UserAgent == "" {
		src.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) rainfeed/" + version
	}
	if src.TimeoutSeconds <= 0 {
		src.TimeoutSeconds = 30
	}
	if src.MaxPDFSizeMB <= 0 {
		src.MaxPDFSizeMB = 10
	}
	if src.RetryDelaySeconds <= 0 {
		src.RetryDelaySeconds = 5
	}
	if config.Database.Path == "" {
		config.Database.Path = "./data/rainfeed.db"
	}
	if config.Processing.ConcurrentFetches <= 0 {
		config.Processing.ConcurrentFetches = 2
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
}

// setupLogger configures the application logger
func setupLogger(config *models.Config) *slog.Logger {
	level := parseLevel(config.Logging.Level)

	var handler slog.Handler
	if strings.EqualFold(config.Logging.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}
	return slog.New(handler)
}

func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func environment() string {
	if env := os.Getenv("RAINFEED_ENV"); env != "" {
		return env
	}
	return "production"
}

func usage() {
	fmt.Fprint(os.Stderr, `rainfeed fetches SAIH Guadalquivir rainfall reports.

Usage:
  rainfeed <command> [flags]

Commands:
  hoy      print today's rainfall summary for one station
  semanal  print the 7-day rainfall summary for one station
  collect  fetch, archive and push reports for all configured stations
  last     print the most recent archived report
  stats    print archive statistics

Flags:
  hoy/semanal: -station <name> -send
  collect:     -force
  last:        -kind daily|weekly -station <name>
`)
}

func run(args []string) error {
	// A .env file is optional; real deployments set the environment directly
	_ = godotenv.Load()

	if len(args) == 0 {
		usage()
		return errors.New("missing command")
	}
	cmd, rest := args[0], args[1:]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		usage()
		return nil
	}

	config, err := loadConfig()
	if err != nil {
		return err
	}

	logger := setupLogger(config)

	sentryutil.Init(os.Getenv("SENTRY_DSN"), environment(), version, logger)
	defer sentryutil.Flush()

	db, err := database.InitDB(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Create context with cancellation for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := saih.NewClient(config, logger)
	sender := telegram.New(telegram.Config{
		Token:  os.Getenv("TELEGRAM_TOKEN"),
		ChatID: config.Telegram.ChatID,
		Logger: logger,
	})
	processor := pipeline.NewProcessor(config, db, client, sender, logger)

	switch cmd {
	case "hoy":
		return runReport(ctx, processor, sender, config, report.KindDaily, rest)
	case "semanal":
		return runReport(ctx, processor, sender, config, report.KindWeekly, rest)
	case "collect":
		return runCollect(ctx, processor, logger, rest)
	case "last":
		return runLast(db, config, rest)
	case "stats":
		return runStats(db)
	}

	usage()
	return fmt.Errorf("unknown command %q", cmd)
}

// runReport prints (and optionally pushes) the current report for one
// station. Extraction failures still produce a message: subscribers should
// hear that a station is missing from today's PDF, not silence.
func runReport(
	ctx context.Context,
	processor *pipeline.Processor,
	sender *telegram.Sender,
	config *models.Config,
	kind report.Kind,
	args []string,
) error {
	fs := flag.NewFlagSet(string(kind), flag.ContinueOnError)
	station := fs.String("station", config.DefaultStation(), "station to report on")
	send := fs.Bool("send", false, "push the report to Telegram")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg, err := processor.BuildReport(ctx, kind, *station)
	if err != nil {
		if !extractionError(err) {
			return err
		}
		msg = report.Diagnostic(err)
	}

	fmt.Println(msg)

	if *send {
		if !sender.Enabled() {
			return errors.New("telegram is not configured; set TELEGRAM_TOKEN and telegram.chat_id")
		}
		return sender.Send(ctx, msg)
	}
	return nil
}

func extractionError(err error) bool {
	var notFound *report.StationNotFoundError
	var insufficient *report.InsufficientValuesError
	return errors.As(err, &notFound) || errors.As(err, &insufficient)
}

func runCollect(ctx context.Context, processor *pipeline.Processor, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("collect", flag.ContinueOnError)
	force := fs.Bool("force", false, "collect even outside the configured windows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := processor.Collect(ctx, *force); err != nil {
		if errors.Is(err, pipeline.ErrOutsideWindow) {
			logger.Info("skipping collection", "reason", err)
			return nil
		}
		return err
	}
	return nil
}

func runLast(db *database.Database, config *models.Config, args []string) error {
	fs := flag.NewFlagSet("last", flag.ContinueOnError)
	kindName := fs.String("kind", "daily", "report kind: daily or weekly")
	station := fs.String("station", config.DefaultStation(), "station to look up")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind, err := report.ParseKind(*kindName)
	if err != nil {
		return err
	}

	snapshot, err := db.LatestSnapshot(*station, string(kind))
	if err != nil {
		return err
	}
	if snapshot == nil {
		fmt.Printf("no hay informes archivados para %s (%s)\n", *station, kind)
		return nil
	}

	fmt.Printf("archivado: %s\n", snapshot.FetchedAt.Local().Format("02/01/2006 15:04"))
	fmt.Println(snapshot.Message)
	return nil
}

func runStats(db *database.Database) error {
	stats, err := db.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("📊 Archivo: %d informes, %d errores de descarga\n", stats.TotalSnapshots, stats.TotalErrors)
	for _, c := range stats.Counts {
		fmt.Printf("• %s (%s): %d informes, último %s\n",
			c.Station, c.Kind, c.Count, c.Latest.Local().Format("02/01/2006 15:04"))
	}

	failures, err := db.RecentFetchErrors(5)
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		fmt.Println("\nÚltimos errores:")
		for _, f := range failures {
			fmt.Printf("• [%s] %s: %s\n", f.CreatedAt.Local().Format("02/01 15:04"), f.Source, f.Message)
		}
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "rainfeed: %v\n", err)
		os.Exit(1)
	}
}
