package main

import (
	"fmt"
	"time"

	"github.com/lox/setgame/cmd/setgame/shared"
	"github.com/lox/setgame/internal/client"
	"github.com/lox/setgame/internal/randutil"
)

// BotCmd plays a human seat on a running server
type BotCmd struct {
	URL      string        `default:"ws://localhost:8080/ws" help:"Server WebSocket URL"`
	Player   int           `short:"p" required:"" help:"Seat to join"`
	Interval time.Duration `default:"200ms" help:"Delay between presses"`
	Seed     *int64        `help:"Deterministic RNG seed (optional)"`
	LogLevel string        `short:"l" default:"info" help:"Log level"`
}

func (c *BotCmd) Run() error {
	logger := shared.SetupLogger(c.LogLevel)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	wsClient := client.New(c.URL, logger)
	bot := client.NewBot(wsClient, c.Player, c.Interval, randutil.New(seed), logger)
	if err := wsClient.Connect(ctx); err != nil {
		return err
	}
	defer wsClient.Close()

	winners, err := bot.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Winners: %v\n", winners)
	return nil
}
