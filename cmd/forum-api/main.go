package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Temutjin2k/forum-api/config"
	"github.com/Temutjin2k/forum-api/internal/app"
	"github.com/Temutjin2k/forum-api/pkg/logger"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "forum-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string

	flagSet := pflag.NewFlagSet("forum-api", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config-path", "config.yaml", "path to the config yaml file")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Usage = config.PrintHelp

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		config.PrintHelp()
		return nil
	}

	ctx := context.Background()
	log := logger.InitLogger("forum-api", logger.LevelInfo)

	cfg, err := config.NewConfig(configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		return err
	}

	// Printing configuration
	config.PrintConfig(cfg)

	log = logger.InitLogger(cfg.Service.Name, cfg.Service.LogLevel)

	// Creating application
	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		return err
	}

	// Running the application
	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		return err
	}
	return nil
}
