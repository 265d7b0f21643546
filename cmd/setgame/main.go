package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version        kong.VersionFlag  `short:"v" help:"Show version"`
	Play           PlayCmd           `cmd:"" default:"withargs" help:"Play a game of Set"`
	Bot            BotCmd            `cmd:"" help:"Play a human seat remotely with random presses"`
	ValidateConfig ValidateConfigCmd `cmd:"validate-config" help:"Check a configuration file and print the resolved settings"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("setgame"),
		kong.Description("Concurrent real-time Set: players race to claim sets while a dealer adjudicates"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
