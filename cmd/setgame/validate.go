package main

import (
	"fmt"

	"github.com/lox/setgame/internal/config"
)

// ValidateConfigCmd checks a configuration file without starting a game
type ValidateConfigCmd struct {
	Config string `arg:"" optional:"" default:"setgame.hcl" help:"Path to HCL configuration file"`
}

func (c *ValidateConfigCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gc, err := cfg.GameConfig()
	if err != nil {
		return err
	}
	fmt.Printf("%s: ok\n", c.Config)
	fmt.Printf("  deck %d cards (%d features x %d values), table %d slots\n",
		gc.DeckSize, gc.FeatureCount, gc.FeatureSize, gc.TableSize)
	fmt.Printf("  turn timeout %s (warning at %s), freeze %s point / %s penalty\n",
		gc.TurnTimeout, gc.TurnTimeoutWarning, gc.PointFreeze, gc.PenaltyFreeze)
	for i, p := range cfg.Players {
		kind := "bot"
		if p.Human {
			kind = "human"
		}
		fmt.Printf("  player %d: %s (%s)\n", i, p.Name, kind)
	}
	return nil
}
