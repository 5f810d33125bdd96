// Package main provides the explorer CLI: an HTTP server for the browser
// front end and a terminal REPL over the same engine.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/config"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/engine"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/logging"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/topic"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/wiki"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath string
	envFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Explore Wikipedia one link at a time",
	Long: `explorer looks up a topic on Wikipedia, lists the articles it links to
and lets you follow them, building a graph of the path you took.

Run "explorer serve" for the browser front end or "explorer repl" to
explore from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config (defaults and EXPLORER_* env when empty)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.Version = Version
}

// runtime is what both front ends share.
type runtime struct {
	loader *config.Loader
	log    *logging.Logger
	store  *engine.Store
	eng    *engine.Engine
}

// setup loads config, builds the logger and starts the engine. Call close
// once the front end is done. A non-empty logLevel overrides the configured
// level.
func setup(ctx context.Context, logLevel string) (*runtime, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	loader, err := config.NewLoader(configPath, nil)
	if err != nil {
		return nil, err
	}
	cfg := loader.Config()

	logConf := cfg.Log
	if logLevel != "" {
		logConf.Level = logLevel
	}
	log, err := logging.New(logConf)
	if err != nil {
		return nil, err
	}
	loader.SetLogger(log.Logger)

	pref, ok := topic.ParsePreference(cfg.Explorer.DefaultPreference)
	if !ok {
		pref = topic.PreferenceDefault
	}
	store := engine.NewStore(ctx, topic.Initial(cfg.Explorer.DefaultLimit, pref), cfg.Explorer.ActionQueueDepth, log.Named("store"))
	eng := engine.New(ctx, store, wiki.NewFromConfig(cfg.Wiki), cfg.Explorer, log.Named("engine"))

	loader.OnChange(func(c *config.Config) {
		eng.SwapLookup(wiki.NewFromConfig(c.Wiki))
		if err := log.SetLevel(c.Log.Level); err != nil {
			log.Warn("log level not changed", zap.Error(err))
		}
		log.Info("config reloaded", zap.String("version", c.Version), zap.String("wiki", c.Wiki.BaseURL))
	})

	log.Info("explorer ready",
		zap.String("version", Version),
		zap.String("config", configPath),
		zap.Int("default_limit", cfg.Explorer.DefaultLimit),
		zap.String("default_preference", string(pref)),
	)
	return &runtime{loader: loader, log: log, store: store, eng: eng}, nil
}

func (rt *runtime) close() {
	rt.eng.Shutdown()
	rt.store.Close()
	_ = rt.log.Sync()
}
