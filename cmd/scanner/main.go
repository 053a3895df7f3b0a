package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/L1nMay/cidrscan/internal/config"
	"github.com/L1nMay/cidrscan/internal/logger"
	"github.com/L1nMay/cidrscan/internal/scan"
	"github.com/L1nMay/cidrscan/internal/target"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type options struct {
	configPath   string
	timeoutMs    int
	workers      int
	deadlineMs   int
	excludeEdges bool
	all          bool
	jsonOut      bool
	noProgress   bool
	logLevel     string

	hosts string
	ports string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// parseArgs accepts flags before, between and after the positionals:
//
//	scanner <hosts> [<ports>] [--timeout-ms N]
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("scanner", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "path to YAML config")
	fs.IntVar(&o.timeoutMs, "timeout-ms", 0, "per-probe timeout in milliseconds (default 500)")
	fs.IntVar(&o.workers, "workers", 0, "max probes in flight (default 50)")
	fs.IntVar(&o.deadlineMs, "deadline-ms", 0, "deadline for the whole scan in milliseconds, 0 for none")
	fs.BoolVar(&o.excludeEdges, "exclude-edges", false, "skip network and broadcast addresses of IPv4 blocks")
	fs.BoolVar(&o.all, "all", false, "list every target, not only open ports")
	fs.BoolVar(&o.jsonOut, "json", false, "print the report as JSON")
	fs.BoolVar(&o.noProgress, "no-progress", false, "disable the progress bar")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: scanner <hosts> [<ports>] [flags]")
		fmt.Fprintln(fs.Output(), "  hosts: CIDR or address, e.g. 192.168.1.1/24")
		fmt.Fprintln(fs.Output(), "  ports: comma-separated ports or ranges, e.g. 22,80,8000-8100 (default: top ports)")
		fs.PrintDefaults()
	}

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	switch len(positional) {
	case 1:
		o.hosts = positional[0]
	case 2:
		o.hosts, o.ports = positional[0], positional[1]
	default:
		fs.Usage()
		return nil, fmt.Errorf("expected <hosts> [<ports>], got %d arguments", len(positional))
	}
	if o.timeoutMs < 0 || o.workers < 0 || o.deadlineMs < 0 {
		return nil, errors.New("numeric flags must not be negative")
	}
	return o, nil
}

func loadConfig(o *options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(o.configPath); err != nil {
			return nil, err
		}
	}

	if o.timeoutMs > 0 {
		cfg.TimeoutMs = o.timeoutMs
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	if o.deadlineMs > 0 {
		cfg.ScanDeadlineMs = o.deadlineMs
	}
	if o.excludeEdges {
		cfg.ExcludeNetworkBroadcast = true
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return exitUsage
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Errorf("invalid log level %q: %v", cfg.LogLevel, err)
		return exitUsage
	}

	runner := scan.NewRunner(cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			if runner.CancelRunning() {
				logger.Warnf("interrupted, stopping scan")
			}
		}
	}()

	stopProgress := func() {}
	if !opts.noProgress {
		stopProgress = startProgress(runner, stderr)
	}
	runInfo, rep, err := runner.RunOnce(context.Background(), opts.hosts, opts.ports)
	stopProgress()

	if err != nil {
		if errors.Is(err, target.ErrInvalidCidr) || errors.Is(err, target.ErrInvalidPort) {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
		logger.Errorf("scan failed: %v", err)
		return exitFailure
	}

	if opts.jsonOut {
		if err := writeJSON(stdout, runInfo, rep); err != nil {
			logger.Errorf("failed to write report: %v", err)
			return exitFailure
		}
		return exitOK
	}
	printReport(stdout, runInfo, rep, opts.all)
	return exitOK
}
