package config

import (
	"time"

	"tictactoe-local/engine"
	"tictactoe-local/types"
)

// GameConfig builds the engine configuration from the game defaults.
func (c *Config) GameConfig() (engine.GameConfig, error) {
	mode, err := engine.ParseMode(c.Game.Mode)
	if err != nil {
		return engine.GameConfig{}, &InvalidConfig{err.Error()}
	}
	mark, err := types.ParseMark(c.Game.HumanMark)
	if err != nil {
		return engine.GameConfig{}, &InvalidConfig{err.Error()}
	}
	return engine.GameConfig{
		Mode:          mode,
		HumanMark:     mark,
		ComputerDelay: time.Duration(c.Game.ComputerDelayMs) * time.Millisecond,
	}, nil
}
