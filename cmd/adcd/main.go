// cmd/adcd/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kestrel-avionics/adcd/internal/config"
	"github.com/kestrel-avionics/adcd/internal/diag"
	"github.com/kestrel-avionics/adcd/internal/metrics"
	"github.com/kestrel-avionics/adcd/internal/mqtt"
	"github.com/kestrel-avionics/adcd/internal/supervisor"
)

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "test":
		err = testCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "status":
		err = statusCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		zap.S().Fatalf("adcd %s: %v", cmd, err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "adcd.yaml", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	sup := supervisor.New(cfg, reg)

	if err := sup.Start(ctx); err != nil {
		return err
	}
	defer sup.Stop()

	go func() {
		if err := metrics.Serve(cfg.Metrics.Addr, reg); err != nil && err != http.ErrServerClosed {
			zap.S().Errorf("metrics endpoint: %v", err)
		}
	}()

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return err
		}
		defer pub.Close()
		go pub.Run(ctx, sup.Subscribe())
	}

	<-ctx.Done()
	return nil
}

// testCommand runs the diagnostics probe against a live daemon via
// the broker. A daemon that is not running publishes nothing, so the
// probe fails with its no-data outcome.
func testCommand(args []string) error {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	cfgPath := fs.String("config", "adcd.yaml", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if !cfg.MQTT.Enabled {
		return fmt.Errorf("test requires mqtt to be enabled in config")
	}

	sub, err := mqtt.NewSubscriber(cfg.MQTT)
	if err != nil {
		return err
	}
	defer sub.Close()

	return diag.Run(sub, os.Stdout, diag.Options{
		FirstWait:  msDuration(cfg.SelfTest.FirstWaitMs),
		Interval:   msDuration(cfg.SelfTest.IntervalMs),
		Iterations: cfg.SelfTest.Iterations,
	})
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "adcd.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := loadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s ok\n", *cfgPath)
	return nil
}

// statusCommand scrapes the daemon's metrics endpoint once and
// renders the sampling counters on a single line.
func statusCommand(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	cfgPath := fs.String("config", "adcd.yaml", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}

	addr := cfg.Metrics.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	resp, err := http.Get("http://" + addr + "/metrics")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"adcd_cycles_total":            0,
		"adcd_sample_timeouts_total":   0,
		"adcd_reports_published_total": 0,
		"adcd_channels_resolved":       0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %f", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("cycles=%.0f timeouts=%.0f published=%.0f channels=%.0f\n",
		targets["adcd_cycles_total"],
		targets["adcd_sample_timeouts_total"],
		targets["adcd_reports_published_total"],
		targets["adcd_channels_resolved"],
	)
	return nil
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func printUsage() {
	fmt.Printf(`adcd - periodic ADC sampling daemon

Usage:
  adcd <command> [flags]

Commands:
  run        Start periodic sampling with the provided config
  test       Probe the report stream of a running daemon
  validate   Load and validate a config file
  status     Scrape the daemon's counters once

Examples:
  adcd run -config adcd.yaml
  adcd test -config adcd.yaml
  adcd validate -config adcd.yaml
`)
}
