package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deckhaven/arenalink/pkg/daemon"
	"github.com/deckhaven/arenalink/pkg/logging"
)

var statusJSON bool

// statusCmd represents the status command.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long:  `Query the daemon's REST API and print its current status.`,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := logging.WithComponent(cmd.Context(), "status")
	client := daemon.New(settings.DaemonConfig(), daemon.WithLogger(logging.Ctx(ctx)))

	status, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("querying daemon at %s: %w", settings.Daemon.BaseURL, err)
	}

	if statusJSON {
		return json.NewEncoder(os.Stdout).Encode(status)
	}

	fmt.Printf("status: %s\n", status.Status)
	fmt.Printf("daemon connected to game: %v\n", status.GameConnected)
	if status.Version != "" {
		fmt.Printf("daemon version: %s\n", status.Version)
	}
	if status.PlayerID != "" {
		fmt.Printf("player: %s\n", status.PlayerID)
	}
	return nil
}
