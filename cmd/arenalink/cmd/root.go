package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deckhaven/arenalink/internal/config"
	"github.com/deckhaven/arenalink/pkg/logging"
)

var (
	configFile string
	verbose    bool

	// settings is loaded once in initConfig and read by subcommands.
	settings config.Settings

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "arenalink",
	Short: "Deck tracker bridge CLI",
	Long: `Arenalink bridges a deck tracker frontend to its companion daemon.

It maintains the websocket connection to the daemon's event stream,
fans events out to subscribers, and exposes the daemon's REST API
through a named handler table.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.arenalink.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
	rootCmd.PersistentFlags().String("url", "", "daemon websocket URL")
	rootCmd.PersistentFlags().String("daemon-url", "", "daemon REST base URL")

	cobra.CheckErr(viper.BindPFlag("transport.url", rootCmd.PersistentFlags().Lookup("url")))
	cobra.CheckErr(viper.BindPFlag("daemon.base_url", rootCmd.PersistentFlags().Lookup("daemon-url")))
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	path := configFile
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + "/.arenalink.yaml"
		}
	}

	// .env files load before viper env binding so both sources are visible.
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}

	viper.SetEnvPrefix("ARENALINK")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	loaded, err := config.Load(path)
	cobra.CheckErr(err)
	settings = loaded

	// Flag and env overrides win over the file.
	if url := viper.GetString("transport.url"); url != "" {
		settings.Transport.URL = url
	}
	if base := viper.GetString("daemon.base_url"); base != "" {
		settings.Daemon.BaseURL = base
	}

	configureLogging()
}

// configureLogging sets up the global logger from settings and flags.
func configureLogging() {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(settings.Log.Level); err == nil {
		level = parsed
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	var logger zerolog.Logger
	if settings.Log.Format == "json" {
		logger = logging.NewJSON(os.Stderr)
	} else {
		logger = logging.NewConsole()
	}
	logging.SetDefault(logger.Level(level))
}
