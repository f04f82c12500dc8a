package daemon

import (
	"context"

	"github.com/deckhaven/arenalink/pkg/compat"
)

// Method names exposed to the compatibility shim. They match the daemon
// binding names the embedded frontend calls.
const (
	MethodGetStatus    = "GetDaemonStatus"
	MethodGetCards     = "GetCards"
	MethodGetInventory = "GetInventory"
	MethodGetPlayerID  = "GetPlayerID"
	MethodIsHealthy    = "IsDaemonHealthy"
)

// HandlerTable builds the remote method table for a daemon client. Every
// entry resolves a shim method name to a REST call; methods outside this
// table are rejected by the invoker rather than resolved dynamically.
func HandlerTable(client *Client) compat.Table {
	return compat.Table{
		MethodGetStatus: func(ctx context.Context, _ ...any) (any, error) {
			return client.Status(ctx)
		},
		MethodGetCards: func(ctx context.Context, _ ...any) (any, error) {
			return client.Cards(ctx)
		},
		MethodGetInventory: func(ctx context.Context, _ ...any) (any, error) {
			return client.Inventory(ctx)
		},
		MethodGetPlayerID: func(ctx context.Context, _ ...any) (any, error) {
			return client.PlayerID(ctx)
		},
		MethodIsHealthy: func(ctx context.Context, _ ...any) (any, error) {
			return client.Healthy(ctx), nil
		},
	}
}
