package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/sheetloom/internal/charts"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

// Global configuration structure.
type Global struct {
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	// Page defaults; theme and palette can be overridden per request.
	Theme       string `mapstructure:"theme" yaml:"theme"`
	Palette     string `mapstructure:"palette" yaml:"palette"`
	Schema      string `mapstructure:"schema" yaml:"schema"`
	PreviewRows int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	ChartWidth  int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" yaml:"chart_height"`

	// HTTP limits
	MaxUploadMB        int `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"listen_addr", "theme", "palette", "schema", "preview_rows",
	"chart_width", "chart_height", "max_upload_mb", "shutdown_timeout_sec",
}

const dirName = ".sheetloom"

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Path returns the file Load and Save use for cfgFile.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return defaultPath()
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sheetloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SHEETLOOM")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", "127.0.0.1:8501")
	v.SetDefault("theme", string(charts.ThemeDark))
	v.SetDefault("palette", charts.DefaultPalette)
	v.SetDefault("schema", workbook.English.ID)
	v.SetDefault("preview_rows", 20)
	v.SetDefault("chart_width", 640)
	v.SetDefault("chart_height", 360)
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("shutdown_timeout_sec", 5)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := defaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	if err := v.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks enumerated and numeric settings.
func (c *Global) Validate() error {
	if _, err := charts.ParseTheme(c.Theme); err != nil {
		return fmt.Errorf("config theme: %w", err)
	}
	if _, err := charts.ParsePalette(c.Palette); err != nil {
		return fmt.Errorf("config palette: %w", err)
	}
	if _, err := workbook.LookupSchema(c.Schema); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	for _, f := range []struct {
		key string
		val int
	}{
		{"preview_rows", c.PreviewRows},
		{"chart_width", c.ChartWidth},
		{"chart_height", c.ChartHeight},
		{"max_upload_mb", c.MaxUploadMB},
		{"shutdown_timeout_sec", c.ShutdownTimeoutSec},
	} {
		if f.val <= 0 {
			return fmt.Errorf("config %s must be positive, got %d", f.key, f.val)
		}
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("config listen_addr is empty")
	}
	return nil
}

// Get returns the display value of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "listen_addr":
		return c.ListenAddr, nil
	case "theme":
		return c.Theme, nil
	case "palette":
		return c.Palette, nil
	case "schema":
		return c.Schema, nil
	case "preview_rows":
		return strconv.Itoa(c.PreviewRows), nil
	case "chart_width":
		return strconv.Itoa(c.ChartWidth), nil
	case "chart_height":
		return strconv.Itoa(c.ChartHeight), nil
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), nil
	case "shutdown_timeout_sec":
		return strconv.Itoa(c.ShutdownTimeoutSec), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses and stores one value, normalizing enumerated names.
func (c *Global) Set(key, val string) error {
	switch key {
	case "listen_addr":
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("invalid listen_addr: empty")
		}
		c.ListenAddr = strings.TrimSpace(val)
	case "theme":
		t, err := charts.ParseTheme(val)
		if err != nil {
			return err
		}
		c.Theme = string(t)
	case "palette":
		p, err := charts.ParsePalette(val)
		if err != nil {
			return err
		}
		c.Palette = p.Name
	case "schema":
		s, err := workbook.LookupSchema(val)
		if err != nil {
			return err
		}
		c.Schema = s.ID
	case "preview_rows", "chart_width", "chart_height", "max_upload_mb", "shutdown_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		switch key {
		case "preview_rows":
			c.PreviewRows = i
		case "chart_width":
			c.ChartWidth = i
		case "chart_height":
			c.ChartHeight = i
		case "max_upload_mb":
			c.MaxUploadMB = i
		case "shutdown_timeout_sec":
			c.ShutdownTimeoutSec = i
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
