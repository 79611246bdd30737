package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anisan-cli/mpvipc/ipc"
	"github.com/anisan-cli/mpvipc/key"
	"github.com/anisan-cli/mpvipc/player"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

var errNoSocket = errors.New("no player socket, pass --socket or set " + key.IPCSocket)

// configuredSocket returns the socket of the player to talk to, if one is set.
func configuredSocket() mo.Option[string] {
	if s := viper.GetString(key.IPCSocket); s != "" {
		return mo.Some(s)
	}
	return mo.None[string]()
}

// interruptible derives a context cancelled on SIGINT or SIGTERM.
func interruptible(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// connect opens a session to the configured socket.
func connect(ctx context.Context) (*ipc.Session, error) {
	socket, ok := configuredSocket().Get()
	if !ok {
		return nil, errNoSocket
	}
	return ipc.Connect(ctx, socket, ipc.OptionsFromConfig()...)
}

// withSession connects, runs fn and terminates the session afterwards.
func withSession(fn func(ctx context.Context, s *ipc.Session) error) error {
	ctx, cancel := interruptible(context.Background())
	defer cancel()

	s, err := connect(ctx)
	if err != nil {
		return err
	}
	defer s.Terminate()

	return fn(ctx, s)
}

// playerOptions builds supervisor options from the configuration.
func playerOptions(targets []string) player.Options {
	return player.Options{
		Executable:     viper.GetString(key.PlayerExecutable),
		Socket:         viper.GetString(key.IPCSocket),
		Args:           player.ParseArgs(viper.GetStringSlice(key.PlayerArgs)),
		Targets:        targets,
		StartupTimeout: time.Duration(viper.GetInt(key.PlayerStartupTimeout)) * time.Second,
	}
}

// parseArg turns a command-line word into a command argument.
// Words that are valid JSON keep their type, everything else is sent as a string.
func parseArg(word string) any {
	var v any
	if err := json.Unmarshal([]byte(word), &v); err != nil {
		return word
	}
	return v
}

func parseArgs(words []string) []any {
	args := make([]any, len(words))
	for i, w := range words {
		args[i] = parseArg(w)
	}
	return args
}
