package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Home     HomeConfig
	Battery  BatteryConfig
	Log      LogConfig
	Settings SettingsConfig
	Drawer   DrawerConfig
	Apps     []AppEntry
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Clock24h   bool   `mapstructure:"clock_24h"`
	DateFormat string `mapstructure:"date_format"`
	Timezone   string
}

// HomeConfig holds home screen behaviour.
type HomeConfig struct {
	LockLevel  int    `mapstructure:"lock_level"`
	HidePolicy string `mapstructure:"hide_policy"`
}

// BatteryConfig points at the power supply class directory.
type BatteryConfig struct {
	Root         string
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// LogConfig holds the log file location and level.
type LogConfig struct {
	Path  string
	Level string
}

// SettingsConfig controls how the settings action is opened.
type SettingsConfig struct {
	Editor string
}

// DrawerConfig controls the app drawer.
type DrawerConfig struct {
	// AutoSearch focuses the search box as soon as the drawer opens.
	AutoSearch bool `mapstructure:"auto_search"`
	// QuickLaunch starts the app as soon as a search leaves a single match.
	QuickLaunch bool `mapstructure:"quick_launch"`
	// Columns above 1 lay the drawer out as a grid.
	Columns int
	// Align is left, center or right.
	Align string
}

// AppEntry is one launchable program in the app drawer.
type AppEntry struct {
	Name    string
	Command string
}

// Path returns the config file location, honouring LUNARHOME_CONFIG.
func Path() string {
	if p := os.Getenv("LUNARHOME_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "lunarhome", "config.toml")
}

// NewViper returns a viper instance with defaults, env overrides and the
// config file location applied. The file itself is not read yet.
func NewViper() *viper.Viper {
	v := viper.New()

	// default values
	share := filepath.Join(os.Getenv("HOME"), ".local", "share", "lunarhome")
	v.SetDefault("database.path", filepath.Join(share, "lunarhome.db"))
	v.SetDefault("ui.clock_24h", false)
	v.SetDefault("ui.date_format", "Mon, 02 Jan")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("home.lock_level", 0)
	v.SetDefault("home.hide_policy", "keep")
	v.SetDefault("battery.root", "/sys/class/power_supply")
	v.SetDefault("battery.poll_interval", 5*time.Second)
	v.SetDefault("log.path", filepath.Join(share, "lunarhome.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("settings.editor", "")
	v.SetDefault("drawer.auto_search", false)
	v.SetDefault("drawer.quick_launch", true)
	v.SetDefault("drawer.columns", 1)
	v.SetDefault("drawer.align", "left")

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("LUNARHOME")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads configuration from file and env. Env var overrides use prefix LUNARHOME_.
func Load() (Config, error) {
	v := NewViper()

	// read config file if present
	_ = v.ReadInConfig()

	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Location resolves the configured timezone, falling back to local time.
func (c Config) Location() *time.Location {
	name := strings.TrimSpace(c.UI.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// Save writes the provided config to path, creating the directory if needed.
// `lunarhome init` uses it to lay down a starter file the user can edit.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.clock_24h", cfg.UI.Clock24h)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("home.lock_level", cfg.Home.LockLevel)
	v.Set("home.hide_policy", cfg.Home.HidePolicy)
	v.Set("battery.root", cfg.Battery.Root)
	v.Set("battery.poll_interval", cfg.Battery.PollInterval.String())
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("settings.editor", cfg.Settings.Editor)
	v.Set("drawer.auto_search", cfg.Drawer.AutoSearch)
	v.Set("drawer.quick_launch", cfg.Drawer.QuickLaunch)
	v.Set("drawer.columns", cfg.Drawer.Columns)
	v.Set("drawer.align", cfg.Drawer.Align)
	apps := make([]map[string]any, 0, len(cfg.Apps))
	for _, a := range cfg.Apps {
		apps = append(apps, map[string]any{"name": a.Name, "command": a.Command})
	}
	v.Set("apps", apps)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
