package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/chrissnell/transitsearch/internal/bls"
	"github.com/chrissnell/transitsearch/internal/ingest"
	"github.com/chrissnell/transitsearch/internal/log"
	"github.com/chrissnell/transitsearch/internal/managers"
	"github.com/chrissnell/transitsearch/internal/pipeline"
	"github.com/chrissnell/transitsearch/internal/storage"
	"github.com/chrissnell/transitsearch/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	var (
		cfgFile     = flag.String("config", "config.yaml", "Path to the YAML configuration file")
		input       = flag.String("input", "", "Comma-separated segment files (.csv, .msgpack) or directories; extra arguments are added too")
		storePath   = flag.String("store", "", "SQLite result database; overrides storage.sqlite.path")
		noStore     = flag.Bool("no-store", false, "Do not save the run even if a store is configured")
		target      = flag.String("target", "", "Target name for the saved run (default: star name)")
		pgCSV       = flag.String("periodogram", "", "Optional CSV output file for the periodogram")
		debug       = flag.Bool("debug", false, "Turn on debugging output")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("transitsearch %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger := log.GetSugaredLogger()

	filename, _ := filepath.Abs(*cfgFile)
	cfgData, err := config.NewYAMLProvider(filename).LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config file. Did you pass the -config flag? Run with -h for help: %v\n", err)
		os.Exit(1)
	}
	env, err := config.LoadEnvOverrides()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfgData.ApplyEnv(env)
	if *storePath != "" {
		cfgData.Storage.SQLite = &config.SQLiteData{Path: *storePath}
	}
	if err := cfgData.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	paths := inputPaths(*input, flag.Args())
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no input given. Use -input or pass files as arguments.\n")
		os.Exit(1)
	}

	segments, err := ingest.NewLoader(logger).Load(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading segments: %v\n", err)
		os.Exit(1)
	}

	analyzer, err := pipeline.NewAnalyzer(cfgData.PipelineConfig(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, analysisErr := analyzer.Analyze(ctx, segments)

	printReport(os.Stdout, cfgData, res, analysisErr)

	if *pgCSV != "" && res != nil && res.Search != nil {
		if err := exportPeriodogram(*pgCSV, res.Search.Periodogram); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing periodogram CSV: %v\n", err)
		} else {
			fmt.Printf("\nPeriodogram exported to: %s\n", *pgCSV)
		}
	}

	if !*noStore && cfgData.Storage.SQLite != nil {
		name := *target
		if name == "" {
			name = cfgData.Star.Name
		}
		if err := saveRun(ctx, cfgData.Storage, name, res, analysisErr); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving run: %v\n", err)
			os.Exit(1)
		}
	}

	if analysisErr != nil {
		os.Exit(2)
	}
}

func inputPaths(flagValue string, args []string) []string {
	var paths []string
	for _, p := range strings.Split(flagValue, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return append(paths, args...)
}

func saveRun(ctx context.Context, cfg config.StorageData, target string, res *pipeline.Result, analysisErr error) error {
	store, err := managers.OpenStore(cfg, log.GetSugaredLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	run := storage.RunFromResult(target, res, analysisErr)
	var pg []bls.PeriodPower
	if res != nil && res.Search != nil {
		pg = res.Search.Periodogram
	}
	if err := store.SaveRun(ctx, run, pg); err != nil {
		return err
	}
	fmt.Printf("\nSaved run %s to %s\n", run.ID, cfg.SQLite.Path)
	return nil
}
