package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type PreviewOptions struct {
	FileExtensions       []string `toml:"file-extensions"`
	SynchronizeScrolling bool     `toml:"synchronize-scrolling"`
	ShowOnStart          bool     `toml:"show-on-start"`
	CodeStyle            string   `toml:"code-style"`
}

type ServerOptions struct {
	Listen      string `toml:"listen"`
	OpenBrowser bool   `toml:"open-browser"`
}

type EditorOptions struct {
	TabWidth int  `toml:"tab-width"`
	Debug    bool `toml:"debug"`
}

type Theme struct {
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	StatuslineForeground string `toml:"statusline-foreground"`
	StatuslineBackground string `toml:"statusline-background"`
	SyntaxKeyword        string `toml:"syntax-keyword"`
	SyntaxString         string `toml:"syntax-string"`
	SyntaxComment        string `toml:"syntax-comment"`
	SyntaxType           string `toml:"syntax-type"`
	SyntaxFunction       string `toml:"syntax-function"`
	SyntaxConstant       string `toml:"syntax-constant"`
}

type Config struct {
	Preview PreviewOptions    `toml:"preview"`
	Server  ServerOptions     `toml:"server"`
	Editor  EditorOptions     `toml:"editor"`
	Theme   Theme             `toml:"theme"`
	Keymap  map[string]string `toml:"keymap"`
}

func Default() Config {
	return Config{
		Preview: PreviewOptions{
			FileExtensions:       []string{"md", "markdown", "mdown", "mkd", "txt"},
			SynchronizeScrolling: true,
			ShowOnStart:          true,
			CodeStyle:            "github",
		},
		Server: ServerOptions{
			Listen:      "127.0.0.1:7077",
			OpenBrowser: false,
		},
		Editor: EditorOptions{
			TabWidth: 4,
		},
		Theme: Theme{
			Foreground:           "#B3B1AD",
			Background:           "#0A0E14",
			StatuslineForeground: "#B3B1AD",
			StatuslineBackground: "#0F1419",
			SyntaxKeyword:        "#FFA759",
			SyntaxString:         "#BAE67E",
			SyntaxComment:        "#5C6773",
			SyntaxType:           "#5CCFE6",
			SyntaxFunction:       "#FFD173",
			SyntaxConstant:       "#FFDD8E",
		},
		Keymap: map[string]string{
			"left":      "move_left",
			"right":     "move_right",
			"up":        "move_up",
			"down":      "move_down",
			"home":      "line_start",
			"end":       "line_end",
			"ctrl+home": "file_start",
			"ctrl+end":  "file_end",
			"pgup":      "page_up",
			"pgdn":      "page_down",
			"ctrl+y":    "scroll_up",
			"ctrl+e":    "scroll_down",
			"enter":     "newline",
			"backspace": "backspace",
			"del":       "delete_char",
			"tab":       "insert_tab",
			"ctrl+s":    "save",
			"ctrl+q":    "quit",
			"ctrl+c":    "quit",
			"ctrl+n":    "next_buffer",
			"ctrl+b":    "prev_buffer",

			// Preview commands
			"ctrl+p": "toggle_preview",
			"ctrl+t": "toggle_sync_scroll",
			"ctrl+r": "reload_options",
			"ctrl+k": "copy_html",
			"ctrl+a": "about",
		},
	}
}

// NormalizeExtensions trims, lower-cases and drops one leading dot from each
// entry. Empty entries and duplicates are removed; order is kept.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	md, err := toml.Decode(string(data), &userCfg)
	if err != nil {
		return cfg, err
	}

	if md.IsDefined("preview", "file-extensions") {
		cfg.Preview.FileExtensions = NormalizeExtensions(userCfg.Preview.FileExtensions)
	}
	if md.IsDefined("preview", "synchronize-scrolling") {
		cfg.Preview.SynchronizeScrolling = userCfg.Preview.SynchronizeScrolling
	}
	if md.IsDefined("preview", "show-on-start") {
		cfg.Preview.ShowOnStart = userCfg.Preview.ShowOnStart
	}
	if userCfg.Preview.CodeStyle != "" {
		cfg.Preview.CodeStyle = userCfg.Preview.CodeStyle
	}
	if userCfg.Server.Listen != "" {
		cfg.Server.Listen = userCfg.Server.Listen
	}
	if userCfg.Server.OpenBrowser {
		cfg.Server.OpenBrowser = true
	}
	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.Debug {
		cfg.Editor.Debug = true
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.StatuslineForeground != "" {
		dst.StatuslineForeground = src.StatuslineForeground
	}
	if src.StatuslineBackground != "" {
		dst.StatuslineBackground = src.StatuslineBackground
	}
	if src.SyntaxKeyword != "" {
		dst.SyntaxKeyword = src.SyntaxKeyword
	}
	if src.SyntaxString != "" {
		dst.SyntaxString = src.SyntaxString
	}
	if src.SyntaxComment != "" {
		dst.SyntaxComment = src.SyntaxComment
	}
	if src.SyntaxType != "" {
		dst.SyntaxType = src.SyntaxType
	}
	if src.SyntaxFunction != "" {
		dst.SyntaxFunction = src.SyntaxFunction
	}
	if src.SyntaxConstant != "" {
		dst.SyntaxConstant = src.SyntaxConstant
	}
}

// Save writes cfg to path, creating the directory when needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func ConfigDir() (string, error) {
	if v := os.Getenv("MDVIEW_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "mdview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mdview"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
