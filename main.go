// Package main is the entry point for the mpvipc command-line client.
package main

import (
	"github.com/anisan-cli/mpvipc/cmd"
	"github.com/anisan-cli/mpvipc/config"
	"github.com/anisan-cli/mpvipc/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
