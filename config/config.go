package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/adrg/xdg"
)

var (
	cfgFile = "tictactoe-local/config.json"
	logFile = "tictactoe-local/debug.log"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor        int `json:"board"`
	GridColor         int `json:"grid"`
	XColor            int `json:"x"`
	OColor            int `json:"o"`
	HintColor         int `json:"hint"`
	CursorColorBG     int `json:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg"`
	WinColorBG        int `json:"win_bg"`
}

type ConfigSymbols struct {
	X rune `json:"x"`
	O rune `json:"o"`
}

type Theme struct {
	DrawCursorBackground     bool          `json:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg"`
	ShowCellNumbers          bool          `json:"show_cell_numbers"`
	Colors                   ConfigColors  `json:"colors"`
	Symbols                  ConfigSymbols `json:"symbols"`
}

// GameDefaults holds the settings used when a game starts without the setup screen.
type GameDefaults struct {
	Mode            string `json:"mode"`       // "pvp" or "pvc"
	HumanMark       string `json:"human_mark"` // "x" or "o"
	ComputerDelayMs int    `json:"computer_delay_ms"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	Level string `json:"level"` // debug, info, warn, error
	File  string `json:"file"`  // empty means the XDG state directory
}

// TelemetryConfig controls search tracing.
type TelemetryConfig struct {
	TraceFile string `json:"trace_file"` // empty disables tracing
}

type Config struct {
	Theme     Theme           `json:"theme"`
	Game      GameDefaults    `json:"game"`
	Log       LogConfig       `json:"log"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.X, c.Theme.Symbols.O} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if c.Theme.Symbols.X == c.Theme.Symbols.O {
		return &InvalidConfig{"X and O symbols must differ"}
	}
	switch strings.ToLower(c.Game.Mode) {
	case "pvp", "pvc":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown game mode %q, use pvp or pvc", c.Game.Mode)}
	}
	switch strings.ToLower(c.Game.HumanMark) {
	case "x", "o":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown mark %q, use x or o", c.Game.HumanMark)}
	}
	if c.Game.ComputerDelayMs < 0 {
		return &InvalidConfig{"computer delay cannot be negative"}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.Log.Level)}
	}
	return nil
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return fmt.Errorf("locate config file: %w", err)
	}
	return saveCfgFile(absPath, c, 0664)
}

// LogPath returns the debug log location, creating its directory if needed.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return xdg.StateFile(logFile)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filePath, jsonData, perm); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
