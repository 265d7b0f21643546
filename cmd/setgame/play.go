package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/setgame/cmd/setgame/shared"
	"github.com/lox/setgame/internal/config"
	"github.com/lox/setgame/internal/display"
	"github.com/lox/setgame/internal/fileutil"
	"github.com/lox/setgame/internal/game"
	"github.com/lox/setgame/internal/server"
	"github.com/lox/setgame/internal/statistics"
)

// PlayCmd runs a single game
type PlayCmd struct {
	Config     string `short:"c" default:"setgame.hcl" help:"Path to HCL configuration file"`
	LogLevel   string `short:"l" help:"Log level (overrides config)"`
	Serve      bool   `help:"Serve websocket players and spectators"`
	Addr       string `short:"a" help:"Server address to bind to (overrides config, implies --serve)"`
	Seed       *int64 `help:"Deterministic RNG seed (overrides config)"`
	Humans     int    `help:"Number of human seats (replaces configured players)"`
	Bots       int    `help:"Number of automated seats (replaces configured players)"`
	Hints      bool   `help:"Log every set on the table after each deal"`
	ResultFile string `help:"Write the final result as JSON to this file"`
}

func (c *PlayCmd) Run() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	logger := shared.SetupLogger(cfg.Server.LogLevel)

	gameCfg, err := cfg.GameConfig()
	if err != nil {
		return err
	}
	gameCfg.Hints = gameCfg.Hints || c.Hints
	switch {
	case c.Seed != nil:
		gameCfg.Seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", gameCfg.Seed)
	case gameCfg.Seed != 0:
		logger.Info("Using configured seed", "seed", gameCfg.Seed)
	default:
		gameCfg.Seed = time.Now().UnixNano()
		logger.Info("Using random seed", "seed", gameCfg.Seed)
	}
	pause, err := cfg.EndGamePause()
	if err != nil {
		return err
	}

	specs := cfg.PlayerSpecs()
	serve := c.Serve || c.Addr != ""
	if !serve && hasHumans(specs) {
		logger.Warn("Human seats can only press slots over websocket; pass --serve to accept players")
	}

	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	stats := statistics.NewCollector()
	displays := []display.Display{
		display.NewLogger(logger),
		display.NewScoreboard(os.Stdout, names),
	}

	var srv *server.Server
	if serve {
		srv = server.NewServer(cfg.ServerAddress(), logger)
		displays = append(displays, server.NewBroadcaster(srv, logger))
	}

	g, err := game.New(gameCfg, specs,
		game.WithDisplay(display.NewMulti(displays...)),
		game.WithMonitor(stats),
		game.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()
	eg, egCtx := errgroup.WithContext(serverCtx)

	if srv != nil {
		srv.SetGame(g, welcome(g, specs))
		srv.SetStats(func() any { return stats.Snapshot() })
		eg.Go(func() error {
			if err := srv.Start(egCtx); err != nil {
				g.Stop()
				return err
			}
			return nil
		})
	}

	result, err := g.Run(ctx)
	if err != nil {
		stopServer()
		_ = eg.Wait()
		return err
	}

	logger.Info("Statistics\n" + stats.Summary())
	if err := stats.Validate(); err != nil {
		logger.Warn("Statistics do not reconcile", "error", err)
	}

	if c.ResultFile != "" {
		if err := fileutil.WriteJSONAtomic(c.ResultFile, result, 0o644); err != nil {
			logger.Error("Failed to write result file", "error", err)
		} else {
			logger.Info("Wrote result", "file", c.ResultFile)
		}
	}

	if srv != nil && pause > 0 {
		waitForPause(ctx, logger, pause)
	}

	stopServer()
	return eg.Wait()
}

func (c *PlayCmd) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Addr != "" {
		host, port, err := splitAddr(c.Addr)
		if err != nil {
			return nil, err
		}
		cfg.Server.Address, cfg.Server.Port = host, port
	}
	if c.Humans > 0 || c.Bots > 0 {
		cfg.Players = seats(c.Humans, c.Bots)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// seats builds the player list for --humans and --bots.
func seats(humans, bots int) []config.PlayerConfig {
	players := make([]config.PlayerConfig, 0, humans+bots)
	for i := range humans {
		players = append(players, config.PlayerConfig{Name: fmt.Sprintf("human-%d", i+1), Human: true})
	}
	for i := range bots {
		players = append(players, config.PlayerConfig{Name: fmt.Sprintf("bot-%d", i+1)})
	}
	return players
}

func hasHumans(specs []game.PlayerSpec) bool {
	for _, spec := range specs {
		if spec.Human {
			return true
		}
	}
	return false
}

func welcome(g *game.Game, specs []game.PlayerSpec) server.WelcomeData {
	players := make([]server.PlayerInfo, len(specs))
	for i, spec := range specs {
		players[i] = server.PlayerInfo{ID: i, Name: spec.Name, Human: spec.Human}
	}
	return server.WelcomeData{
		GameID:    g.ID,
		TableSize: g.Config().TableSize,
		Players:   players,
	}
}

// waitForPause keeps the final table up for spectators before the server stops.
func waitForPause(ctx context.Context, logger *log.Logger, pause time.Duration) {
	logger.Info("Game over, closing server shortly", "pause", pause)
	timer := time.NewTimer(pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
