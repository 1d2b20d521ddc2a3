package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"huntrecap/categories"
	"huntrecap/config"
	"huntrecap/models"
	"huntrecap/report"
	"huntrecap/scraper"
)

func main() {
	defaultCfg := config.DefaultConfig()

	dateDefault := ""
	if value, ok := config.EnvString("RECAP_DATE"); ok {
		dateDefault = value
	}
	outputDefault := defaultCfg.OutputDir
	if value, ok := config.EnvString("RECAP_OUTPUT_DIR"); ok {
		outputDefault = value
	}
	retriesDefault := defaultCfg.MaxRetries
	if value, ok, err := config.EnvInt("RECAP_MAX_RETRIES"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid RECAP_MAX_RETRIES: %v\n", err)
		os.Exit(1)
	} else if ok {
		retriesDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("RECAP_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	date := flag.String("date", dateDefault, "Date to scrape (YYYY-MM-DD, default today)")
	baseURL := flag.String("base-url", defaultCfg.BaseURL, "Base URL of the listing site")
	delayMs := flag.Int("delay", int(defaultCfg.Delay/time.Millisecond), "Base delay for backoff and rate limiting (milliseconds)")
	maxRetries := flag.Int("max-retries", retriesDefault, "Maximum fetch attempts")
	outputDir := flag.String("output-dir", outputDefault, "Directory for report files")
	outputFormat := flag.String("format", defaultCfg.OutputFormat, "Output format: json, csv, or dual")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	refreshCategories := flag.Bool("refresh-categories", false, "Scrape the live categories page before building the report")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := config.DefaultConfig()
	cfg.BaseURL = *baseURL
	cfg.Delay = time.Duration(*delayMs) * time.Millisecond
	cfg.MaxRetries = *maxRetries
	cfg.OutputDir = *outputDir
	cfg.OutputFormat = strings.ToLower(*outputFormat)
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	targetDate := *date
	if targetDate == "" {
		targetDate = time.Now().Format("2006-01-02")
	}

	slog.Info("starting daily recap",
		slog.String("date", targetDate),
		slog.String("base_url", cfg.BaseURL),
		slog.String("format", cfg.OutputFormat),
	)

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && s.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	mapping := categories.NewMapping()
	if *refreshCategories {
		cs, err := categories.NewScraper(cfg)
		if err != nil {
			slog.Error("initialising category scraper", slog.Any("error", err))
			os.Exit(1)
		}
		scraped, err := cs.Scrape(ctx)
		if err != nil {
			slog.Warn("category refresh failed, continuing with known table", slog.Any("error", err))
		}
		mapping = scraped
		if err := cs.Save(mapping, filepath.Join(cfg.OutputDir, "producthunt_categories.json")); err != nil {
			slog.Warn("saving categories failed", slog.Any("error", err))
		}
	}

	result, err := s.ScrapeDaily(ctx, targetDate)
	if err != nil {
		slog.Error("scrape cancelled", slog.Any("error", err))
		os.Exit(1)
	}

	builder, err := report.NewBuilder(mapping, cfg.DedupeMaxSize)
	if err != nil {
		slog.Error("initialising report builder", slog.Any("error", err))
		os.Exit(1)
	}
	daily := builder.Build(targetDate, result.Products)

	writer, outputFile, err := createWriter(cfg.OutputFormat, cfg.OutputDir, targetDate)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		os.Exit(1)
	}
	if err := writer.Write(daily); err != nil {
		slog.Error("writing report", slog.Any("error", err))
		writer.Close()
		os.Exit(1)
	}
	if err := writer.Validate(); err != nil {
		slog.Error("output validation failed", slog.Any("error", err))
		writer.Close()
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		slog.Error("close writer", slog.Any("error", err))
		os.Exit(1)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, daily, outputFile)
}

func createWriter(format, outputDir, date string) (report.OutputWriter, string, error) {
	jsonFile := filepath.Join(outputDir, fmt.Sprintf("producthunt-recap-%s.json", date))
	csvFile := filepath.Join(outputDir, fmt.Sprintf("producthunt-recap-%s.csv", date))

	switch format {
	case "json":
		w, err := report.NewJSONWriter(jsonFile)
		return w, jsonFile, err
	case "csv":
		w, err := report.NewCSVWriter(csvFile)
		return w, csvFile, err
	case "dual":
		w, err := report.NewDualWriter(jsonFile, csvFile)
		return w, jsonFile, err
	default:
		return nil, "", fmt.Errorf("unsupported format: %s", format)
	}
}

func printSummary(result *models.ScrapeResult, daily *models.DailyReport, outputFile string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Daily recap complete")

	fmt.Printf("  Date:          %s\n", result.Date)
	fmt.Printf("  Products:      %d\n", len(daily.Products))
	fmt.Printf("  Source:        %s\n", result.Source)
	if daily.MarketSummary.TopProduct.Name != "" {
		fmt.Printf("  Top product:   %s (%d votes)\n",
			daily.MarketSummary.TopProduct.Name, daily.MarketSummary.TopProduct.Votes)
	}
	if len(daily.MarketSummary.TrendingCategories) > 0 {
		fmt.Printf("  Trending:      %s\n", strings.Join(daily.MarketSummary.TrendingCategories, ", "))
	}
	fmt.Printf("  Attempts:      %d\n", result.Stats.Attempts)
	fmt.Printf("  Retries:       %d\n", result.Stats.Retries)
	fmt.Printf("  Containers:    %d\n", result.Stats.ContainersFound)
	fmt.Printf("  Dropped:       %d\n", result.Stats.Dropped)
	if len(result.Stats.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.Stats.ErrorsByType)
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime))
	fmt.Printf("  Output file:   %s\n", outputFile)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
