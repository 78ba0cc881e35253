package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/chrissnell/transitsearch/internal/app"
	"github.com/chrissnell/transitsearch/internal/log"
	"github.com/chrissnell/transitsearch/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	logFile := flag.String("log-file", "", "Also write JSON logs to this file, rotated at -log-max-size MB")
	logMaxSize := flag.Int("log-max-size", 100, "Log file size in MB before rotation")
	logBackups := flag.Int("log-backups", 5, "Rotated log files to keep")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("transitsearch-server %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	var err error
	if *logFile != "" {
		err = log.InitFile(*debug, log.FileOptions{
			Path:       *logFile,
			MaxSizeMB:  *logMaxSize,
			MaxBackups: *logBackups,
			Compress:   true,
		})
	} else {
		err = log.Init(*debug)
	}
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	filename, _ := filepath.Abs(*cfgFile)
	provider := config.NewYAMLProvider(filename)
	cfgData, err := provider.LoadConfig()
	if err != nil {
		log.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %v", err)
		os.Exit(1)
	}

	// Environment variables override the file; the provider shares cfgData
	env, err := config.LoadEnvOverrides()
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	cfgData.ApplyEnv(env)

	if err := cfgData.Validate(); err != nil {
		log.Errorf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	// Create and run the application
	application := app.New(provider, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}
