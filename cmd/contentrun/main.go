package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/contentrun/internal/config"
	"github.com/sawpanic/contentrun/internal/logging"
)

const (
	appName = "ContentRun"
	version = "v0.4.0"
)

// appConfig is loaded once by the root command before any subcommand runs
var appConfig = config.Default()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "contentrun",
		Short:   "Content performance analytics and scoring",
		Version: version,
		Long: `ContentRun scores short-form video accounts from already-fetched post data.

It computes engagement, consistency and trend metrics, compares an account
against its competitors, ranks content suggestions and evaluates hashtag
strategies. Text-generated narratives are optional: when the generator is
unavailable a fixed fallback is used and the metrics are unaffected.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadAppConfig,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override (debug|info|warn|error)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a full account analysis",
		Long:  "Computes metrics, competitive position, narrative, ranked suggestions and hashtag evaluation for one dataset",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().Int("count", 0, "Number of ranked suggestions (0 uses config)")

	rankCmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the dataset's content suggestions",
		RunE:  runRank,
	}
	rankCmd.Flags().Int("count", 5, "Number of suggestions to keep")

	hashtagsCmd := &cobra.Command{
		Use:   "hashtags",
		Short: "Evaluate the dataset's hashtag strategy against competitor tags",
		RunE:  runHashtags,
	}

	competeCmd := &cobra.Command{
		Use:   "compete",
		Short: "Compare the account against its competitors",
		RunE:  runCompete,
	}

	for _, cmd := range []*cobra.Command{analyzeCmd, rankCmd, hashtagsCmd, competeCmd} {
		cmd.Flags().String("data", "", "Dataset file (.json, .yaml or .yml)")
		cmd.Flags().Bool("json", false, "Force JSON output")
		_ = cmd.MarkFlagRequired("data")
	}

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Start monitoring HTTP server",
		Long:  "Starts HTTP server with /health, /metrics and POST /analyze endpoints",
		RunE:  runMonitor,
	}
	monitorCmd.Flags().String("host", "", "HTTP server host (defaults to config)")
	monitorCmd.Flags().String("port", "", "HTTP server port (defaults to config)")

	rootCmd.AddCommand(analyzeCmd, rankCmd, hashtagsCmd, competeCmd, monitorCmd)
	return rootCmd
}

// loadAppConfig reads the config file and configures logging
func loadAppConfig(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	lvl := logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
	log.Debug().Str("app", appName).Str("version", version).Str("level", lvl.String()).Msg("Config loaded")

	appConfig = cfg
	return nil
}
