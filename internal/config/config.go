// Package config loads the HCL configuration for setgame.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/setgame/internal/card"
	"github.com/lox/setgame/internal/game"
)

// Config represents the complete configuration file
type Config struct {
	Server  *ServerSettings `hcl:"server,block"`
	Game    *GameSettings   `hcl:"game,block"`
	Players []PlayerConfig  `hcl:"player,block"`
}

// ServerSettings configures the websocket transport and logging
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings mirrors game.Config with durations written as strings ("1s", "999ms")
type GameSettings struct {
	FeatureCount        int    `hcl:"feature_count,optional"`
	FeatureSize         int    `hcl:"feature_size,optional"`
	DeckSize            int    `hcl:"deck_size,optional"`
	TableSize           int    `hcl:"table_size,optional"`
	TurnTimeout         string `hcl:"turn_timeout,optional"`
	TurnTimeoutWarning  string `hcl:"turn_timeout_warning,optional"`
	Grace               string `hcl:"grace,optional"`
	PointFreeze         string `hcl:"point_freeze,optional"`
	PenaltyFreeze       string `hcl:"penalty_freeze,optional"`
	PollInterval        string `hcl:"poll_interval,optional"`
	WarningPollInterval string `hcl:"warning_poll_interval,optional"`
	BotInterval         string `hcl:"bot_interval,optional"`
	EndGamePause        string `hcl:"end_game_pause,optional"`
	Hints               bool   `hcl:"hints,optional"`
	Seed                int64  `hcl:"seed,optional"`
}

// PlayerConfig defines one seat
type PlayerConfig struct {
	Name  string `hcl:"name,label"`
	Human bool   `hcl:"human,optional"`
}

const (
	defaultAddress      = "localhost"
	defaultPort         = 8080
	defaultLogLevel     = "info"
	defaultEndGamePause = "5s"
)

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{
		Server: &ServerSettings{},
		Game:   &GameSettings{},
		Players: []PlayerConfig{
			{Name: "bot-1"},
			{Name: "bot-2"},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if cfg.Server == nil {
		cfg.Server = &ServerSettings{}
	}
	if cfg.Game == nil {
		cfg.Game = &GameSettings{}
	}
	if len(cfg.Players) == 0 {
		cfg.Players = Default().Players
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaultLogLevel
	}

	def := game.DefaultConfig()
	g := c.Game
	if g.FeatureCount == 0 {
		g.FeatureCount = def.FeatureCount
	}
	if g.FeatureSize == 0 {
		g.FeatureSize = def.FeatureSize
	}
	if g.DeckSize == 0 {
		g.DeckSize = card.DeckSize(g.FeatureCount, g.FeatureSize)
	}
	if g.TableSize == 0 {
		g.TableSize = def.TableSize
	}
	defaultDuration(&g.TurnTimeout, def.TurnTimeout)
	defaultDuration(&g.TurnTimeoutWarning, def.TurnTimeoutWarning)
	defaultDuration(&g.Grace, def.Grace)
	defaultDuration(&g.PointFreeze, def.PointFreeze)
	defaultDuration(&g.PenaltyFreeze, def.PenaltyFreeze)
	defaultDuration(&g.PollInterval, def.PollInterval)
	defaultDuration(&g.WarningPollInterval, def.WarningPollInterval)
	defaultDuration(&g.BotInterval, def.BotInterval)
	if g.EndGamePause == "" {
		g.EndGamePause = defaultEndGamePause
	}
}

func defaultDuration(field *string, d time.Duration) {
	if *field == "" {
		*field = d.String()
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Server.LogLevel, err)
	}

	if len(c.Players) == 0 {
		return errors.New("at least one player must be configured")
	}
	seen := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		if seen[p.Name] {
			return fmt.Errorf("player %s: duplicate name", p.Name)
		}
		seen[p.Name] = true
	}

	gc, err := c.GameConfig()
	if err != nil {
		return err
	}
	if err := gc.Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if _, err := c.EndGamePause(); err != nil {
		return err
	}
	return nil
}

// GameConfig converts the game block into an engine configuration
func (c *Config) GameConfig() (game.Config, error) {
	g := c.Game
	cfg := game.Config{
		FeatureCount: g.FeatureCount,
		FeatureSize:  g.FeatureSize,
		DeckSize:     g.DeckSize,
		TableSize:    g.TableSize,
		Hints:        g.Hints,
		Seed:         g.Seed,
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"turn_timeout", g.TurnTimeout, &cfg.TurnTimeout},
		{"turn_timeout_warning", g.TurnTimeoutWarning, &cfg.TurnTimeoutWarning},
		{"grace", g.Grace, &cfg.Grace},
		{"point_freeze", g.PointFreeze, &cfg.PointFreeze},
		{"penalty_freeze", g.PenaltyFreeze, &cfg.PenaltyFreeze},
		{"poll_interval", g.PollInterval, &cfg.PollInterval},
		{"warning_poll_interval", g.WarningPollInterval, &cfg.WarningPollInterval},
		{"bot_interval", g.BotInterval, &cfg.BotInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return game.Config{}, fmt.Errorf("game: %s: %w", d.name, err)
		}
		*d.dst = v
	}

	return cfg, nil
}

// EndGamePause returns how long the final standings stay up before exit
func (c *Config) EndGamePause() (time.Duration, error) {
	d, err := time.ParseDuration(c.Game.EndGamePause)
	if err != nil {
		return 0, fmt.Errorf("game: end_game_pause: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("game: end_game_pause must not be negative")
	}
	return d, nil
}

// PlayerSpecs returns the seats in configuration order
func (c *Config) PlayerSpecs() []game.PlayerSpec {
	specs := make([]game.PlayerSpec, len(c.Players))
	for i, p := range c.Players {
		specs[i] = game.PlayerSpec{Name: p.Name, Human: p.Human}
	}
	return specs
}

// ServerAddress returns the full listen address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
