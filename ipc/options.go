package ipc

import (
	"time"

	"github.com/anisan-cli/mpvipc/key"
	"github.com/anisan-cli/mpvipc/log"
	"github.com/spf13/viper"
)

// DefaultDialTimeout bounds the initial connection attempt.
const DefaultDialTimeout = 5 * time.Second

type options struct {
	timeout         time.Duration
	dialTimeout     time.Duration
	logLevel        string
	clock           Clock
	onProtocolError func(error)
}

func defaultOptions() options {
	return options{
		timeout:     DefaultTimeout,
		dialTimeout: DefaultDialTimeout,
		clock:       realClock{},
		onProtocolError: func(err error) {
			log.Warnf("%v", err)
		},
	}
}

// Option configures a Session.
type Option func(*options)

// WithTimeout sets how long each command waits for its response. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithDialTimeout sets how long Connect waits for the socket to accept.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) {
		o.dialTimeout = d
	}
}

// WithLogMessages subscribes to the player's log at level before the session becomes ready.
// Received lines are forwarded to the log package.
func WithLogMessages(level string) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

// WithClock replaces the clock used for request deadlines.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithProtocolErrorHandler receives lines that could not be decoded.
// The default handler logs them.
func WithProtocolErrorHandler(f func(error)) Option {
	return func(o *options) {
		o.onProtocolError = f
	}
}

// OptionsFromConfig derives session options from the loaded configuration.
func OptionsFromConfig() []Option {
	opts := []Option{
		WithTimeout(time.Duration(viper.GetInt(key.IPCTimeout)) * time.Second),
		WithDialTimeout(time.Duration(viper.GetInt(key.IPCDialTimeout)) * time.Second),
	}
	if level := viper.GetString(key.PlayerLogLevel); level != "" {
		opts = append(opts, WithLogMessages(level))
	}
	return opts
}
