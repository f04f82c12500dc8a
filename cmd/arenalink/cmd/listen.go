package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckhaven/arenalink"
	"github.com/deckhaven/arenalink/pkg/events"
	"github.com/deckhaven/arenalink/pkg/logging"
)

// listenCmd represents the listen command.
var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Stream daemon events to stdout",
	Long: `Connect to the daemon's websocket event stream and print every
event envelope as a JSON line until interrupted.`,
	RunE: runListen,
}

func init() {
	rootCmd.AddCommand(listenCmd)
}

func runListen(cmd *cobra.Command, _ []string) error {
	ctx := logging.WithComponent(cmd.Context(), "listen")
	logger := logging.Ctx(ctx)

	bridge := arenalink.New(
		arenalink.WithTransportConfig(settings.TransportConfig()),
		arenalink.WithDaemonConfig(settings.DaemonConfig()),
		arenalink.WithLogger(logger),
	)
	defer bridge.Disconnect()

	bridge.OnConnectionChange(func(connected bool) {
		logger.Info().Bool("connected", connected).Msg("Connection state changed")
	})

	bridge.Subscribe(events.Wildcard, func(data any) {
		env, ok := data.(events.Envelope)
		if !ok {
			return
		}
		line, err := json.Marshal(env)
		if err != nil {
			logger.Warn().Err(err).Str("event_type", env.Type).Msg("Failed to encode envelope")
			return
		}
		fmt.Println(string(line))
	})

	if err := bridge.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to daemon event stream: %w", err)
	}

	logger.Info().Str("url", settings.Transport.URL).Msg("Listening for daemon events")
	<-ctx.Done()
	return nil
}
