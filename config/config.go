// Package config holds the client settings: how to reach a player's IPC socket, how long
// to wait on it, which player to launch and where logs go. Values come from mpvipc.toml in
// the config directory, MPVIPC_* environment variables and the registered defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anisan-cli/mpvipc/constant"
	"github.com/anisan-cli/mpvipc/filesystem"
	"github.com/anisan-cli/mpvipc/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// EnvKeyReplacer turns section dots of a key into underscores of its environment variable.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// EnvName returns the variable that overrides key, e.g. MPVIPC_IPC_SOCKET for ipc.socket.
func EnvName(key string) string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(key))
}

// Environment lists, sorted, every variable the client reads: one per exposed key plus
// the config directory override.
func Environment() []string {
	names := append(lo.Map(EnvExposed, func(key string, _ int) string {
		return EnvName(key)
	}), where.EnvConfigPath)
	slices.Sort(names)
	return names
}

// Setup points viper at the config file, binds the environment and registers defaults.
// A missing config file is not an error.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, key := range EnvExposed {
		if err := viper.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", EnvName(key), err)
		}
	}

	viper.SetTypeByDefaultValue(true)
	for key, field := range Default {
		viper.SetDefault(key, field.Value)
	}

	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("read %s.toml: %w", constant.App, err)
	}

	return nil
}
