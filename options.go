package arenalink

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/deckhaven/arenalink/pkg/compat"
	"github.com/deckhaven/arenalink/pkg/daemon"
	"github.com/deckhaven/arenalink/pkg/logging"
	"github.com/deckhaven/arenalink/pkg/transport"
)

// options holds construction-time settings for the hub.
type options struct {
	transportConfig transport.Config
	daemonConfig    daemon.Config
	handlerTable    compat.Table
	dialer          *websocket.Dialer
	logger          *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		transportConfig: transport.DefaultConfig(),
		daemonConfig:    daemon.DefaultConfig(),
		logger:          logging.Default(),
	}
}

// Option configures the hub at construction time.
type Option func(*options)

// WithTransportConfig sets the initial websocket transport configuration.
func WithTransportConfig(cfg transport.Config) Option {
	return func(o *options) {
		o.transportConfig = cfg
	}
}

// WithDaemonConfig sets the daemon REST client configuration.
func WithDaemonConfig(cfg daemon.Config) Option {
	return func(o *options) {
		o.daemonConfig = cfg
	}
}

// WithHandlerTable replaces the default daemon-backed remote method table.
func WithHandlerTable(table compat.Table) Option {
	return func(o *options) {
		o.handlerTable = table
	}
}

// WithDialer sets a custom websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(o *options) {
		o.dialer = d
	}
}

// WithLogger sets the logger for the hub and everything it constructs.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
