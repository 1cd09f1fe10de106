// Package main provides the CLI entrypoint for the product bot.
// It loads configuration, initializes logging and runs one find-then-post pass.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"productbot/internal/announcer"
	"productbot/internal/bot"
	"productbot/internal/config"
	"productbot/internal/finder"
	"productbot/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Keyword is the catalog search term used by every run.
const Keyword = "Python 書籍"

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	if err := logger.Setup(cfg.Environment); err != nil {
		log.Fatal("could not setup logger: ", err)
	}

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync(ctx)

			panic(p)
		}
	}()

	rootCmd := &cobra.Command{
		Use:   "productbot",
		Short: "Finds a top rated product and posts it",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			deps, closeDeps := getDependencies(ctx, cfg)
			defer closeDeps()

			bot.Run(ctx,
				finder.New(deps.catalog, deps.finderOptions),
				announcer.New(deps.poster, deps.announcerOptions),
				Keyword)
		},
	}
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	rootCmd.AddCommand(
		previewCommand(ctx, cfg),
	)

	err = rootCmd.Execute()
	logger.Sync(ctx)
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
