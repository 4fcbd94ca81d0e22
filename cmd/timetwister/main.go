package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"timetwister/internal/classify"
	"timetwister/internal/config"
	"timetwister/internal/ics"
	appLog "timetwister/internal/log"
	"timetwister/internal/schedule"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	input      string
	url        string
	output     string
	refresh    string
	explain    bool
	verbose    bool
}

func main() {
	flags := parseFlags()

	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	appLog.Info("timetwister starting", "version", "0.1.0-dev")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --refresh overrides the config file schedule if provided.
	if flags.refresh != "" {
		conf.Refresh = flags.refresh
	}

	appLog.Info("effective config",
		"timezone", conf.Timezone,
		"energy_hours", fmt.Sprintf("%v", conf.Hours()),
		"custom_keywords", len(conf.Keywords.Heavy)+len(conf.Keywords.Light),
		"refresh", conf.Refresh,
		"input", flags.input,
		"url", redactedOrEmpty(flags.url),
		"output", flags.output,
	)

	if flags.input == "" && flags.url == "" {
		appLog.Error("no input", errors.New("either -input or -url is required"))
		os.Exit(2)
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if conf.Refresh == "" {
		// One-shot run.
		if err := runOnce(ctx, conf, flags); err != nil {
			appLog.Error("run failed", err)
			os.Exit(1)
		}
		return
	}

	// Daemon mode: re-fetch and re-optimize on the cron schedule.
	if err := runOnce(ctx, conf, flags); err != nil {
		appLog.Error("initial run failed", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.Refresh, func() {
		if err := runOnce(ctx, conf, flags); err != nil {
			appLog.Error("scheduled run failed", err)
		}
	}); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.Refresh)
		os.Exit(1)
	}
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	appLog.Info("timetwister exiting")
}

// runOnce executes one full pipeline pass:
// read/fetch -> parse -> classify -> optimize -> build -> write.
func runOnce(ctx context.Context, conf *config.Config, flags flagConfig) error {
	body, err := readInput(ctx, conf, flags)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	loc, err := conf.Location()
	if err != nil {
		return fmt.Errorf("resolve timezone %q: %w", conf.Timezone, err)
	}

	parsed, err := ics.Parse(body, loc)
	if err != nil {
		return fmt.Errorf("parse calendar: %w", err)
	}
	for _, skip := range parsed.Skipped {
		appLog.Debug("import skipped event", "uid", skip.UID, "summary", skip.Summary, "reason", string(skip.Reason))
	}

	classifier, err := newClassifier(conf)
	if err != nil {
		return err
	}
	classified := classifier.ClassifyAll(parsed.Events)

	if flags.explain {
		for _, ev := range classified {
			res := classifier.Explain(ev.Summary)
			appLog.Info("classification",
				"summary", ev.Summary,
				"load", res.Load.String(),
				"matched", fmt.Sprintf("%v", res.MatchedKeywords),
				"default", res.IsDefault,
			)
		}
	}

	result := schedule.Optimize(classified, conf.EnergyMap())
	appLog.Info("optimization completed",
		"total_events", result.Metrics.TotalEvents,
		"events_optimized", result.Metrics.EventsOptimized,
		"total_displacement_hours", result.Metrics.TotalDisplacement,
		"average_displacement_hours", result.Metrics.AverageDisplacement,
		"degraded_events", result.Metrics.DegradedEvents,
	)
	if result.Metrics.DegradedEvents > 0 {
		appLog.Warn("some events could not be placed without overlap",
			"degraded_events", result.Metrics.DegradedEvents)
	}

	out := ics.Build(result.Events)
	return writeOutput(flags.output, out)
}

func readInput(ctx context.Context, conf *config.Config, flags flagConfig) ([]byte, error) {
	if flags.url != "" {
		fetcher := ics.NewFetcher(conf.CacheDir)
		body, fromCache, err := fetcher.Fetch(ctx, flags.url)
		if err != nil {
			return nil, err
		}
		appLog.Debug("fetched subscription", "bytes", len(body), "from_cache", fromCache)
		return body, nil
	}
	return os.ReadFile(flags.input)
}

func newClassifier(conf *config.Config) (*classify.Classifier, error) {
	if len(conf.Keywords.Heavy) == 0 && len(conf.Keywords.Light) == 0 {
		return classify.Default(), nil
	}
	c, err := classify.New(conf.Keywords.Heavy, conf.Keywords.Light)
	if err != nil {
		return nil, fmt.Errorf("invalid keyword config: %w", err)
	}
	return c, nil
}

func writeOutput(path, content string) error {
	if path == "" || path == "-" {
		_, err := fmt.Print(content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	appLog.Info("wrote optimized calendar", "path", path, "bytes", len(content))
	return nil
}

func redactedOrEmpty(u string) string {
	if u == "" {
		return ""
	}
	return "(set)"
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "config.yaml", "Path to YAML energy profile config (created with defaults on first run)")
	flag.StringVar(&cfg.input, "input", "", "Path to an exported ICS file")
	flag.StringVar(&cfg.url, "url", "", "Calendar subscription URL to fetch instead of -input")
	flag.StringVar(&cfg.output, "output", "-", "Output ICS path; '-' writes to stdout")
	flag.StringVar(&cfg.refresh, "refresh", "", "Cron schedule for daemon mode (overrides config if set)")
	flag.BoolVar(&cfg.explain, "explain", false, "Log per-event classification reasoning")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
