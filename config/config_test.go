package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tictactoe-local/engine"
	"tictactoe-local/types"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig
	if err := c.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	gc, err := c.GameConfig()
	if err != nil {
		t.Fatalf("GameConfig failed: %v", err)
	}
	if gc.Mode != engine.HumanVsComputer || gc.HumanMark != types.PlayerX || gc.ComputerDelay != 300*time.Millisecond {
		t.Fatalf("unexpected game config %+v", gc)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"control character symbol", func(c *Config) { c.Theme.Symbols.X = '\t' }},
		{"C1 control symbol", func(c *Config) { c.Theme.Symbols.O = 130 }},
		{"same symbols", func(c *Config) { c.Theme.Symbols.O = c.Theme.Symbols.X }},
		{"unknown mode", func(c *Config) { c.Game.Mode = "online" }},
		{"unknown mark", func(c *Config) { c.Game.HumanMark = "z" }},
		{"negative delay", func(c *Config) { c.Game.ComputerDelayMs = -1 }},
		{"unknown log level", func(c *Config) { c.Log.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig
			tt.modify(&c)
			var invalid *InvalidConfig
			if err := c.Validate(); !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidConfig, got %v", err)
			}
		})
	}
}

func TestReadCfgFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"game": {"mode": "pvp", "human_mark": "o", "computer_delay_ms": 0}, "theme": {"symbols": {"x": 10005, "o": 9711}}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c := DefaultConfig
	if err := readCfgFile(path, &c); err != nil {
		t.Fatalf("readCfgFile failed: %v", err)
	}
	if c.Game.Mode != "pvp" || c.Game.HumanMark != "o" {
		t.Fatalf("game section not read: %+v", c.Game)
	}
	if c.Theme.Symbols.X != '✕' || c.Theme.Symbols.O != '◯' {
		t.Fatalf("symbols not read: %+v", c.Theme.Symbols)
	}
	if c.Theme.Colors.XColor != DefaultTheme.Colors.XColor {
		t.Fatal("unset fields should keep their defaults")
	}
	if c.Log.Level != "info" {
		t.Fatalf("log level should keep its default, got %q", c.Log.Level)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("merged config should validate: %v", err)
	}
}

func TestReadCfgFileRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	c := DefaultConfig
	var invalid *InvalidConfig
	if err := readCfgFile(path, &c); !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidConfig, got %v", err)
	}
}

func TestSaveCfgFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c := DefaultConfig
	c.Theme.Colors.XColor = 196
	if err := saveCfgFile(path, &c, 0644); err != nil {
		t.Fatalf("saveCfgFile failed: %v", err)
	}
	var loaded Config
	if err := readCfgFile(path, &loaded); err != nil {
		t.Fatalf("readCfgFile failed: %v", err)
	}
	if loaded != c {
		t.Fatalf("saved and loaded config differ:\n%+v\n%+v", loaded, c)
	}
}
