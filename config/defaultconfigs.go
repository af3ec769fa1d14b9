package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:     true,
		DrawLastPlayedBackground: true,
		ShowCellNumbers:          true,
		Colors: ConfigColors{
			BoardColor:        236,
			GridColor:         245,
			XColor:            37,
			OColor:            168,
			HintColor:         240,
			CursorColorBG:     24,
			LastPlayedColorBG: 238,
			WinColorBG:        22,
		},
		Symbols: ConfigSymbols{
			X: 'X',
			O: 'O',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Game: GameDefaults{
			Mode:            "pvc",
			HumanMark:       "x",
			ComputerDelayMs: 300,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
