// internal/platform/config/file.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Duration acepta "90s", "1m30s" o segundos enteros en archivos de configuración.
type Duration struct {
	time.Duration
}

// UnmarshalText implementa encoding.TextUnmarshaler (usado por go-toml).
func (d *Duration) UnmarshalText(b []byte) error {
	v := strings.TrimSpace(string(b))
	parsed := parseDuration(v, -1)
	if parsed < 0 {
		return fmt.Errorf("invalid duration %q", v)
	}
	d.Duration = parsed
	return nil
}

// UnmarshalYAML implementa yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// fileConfig refleja el archivo de configuración; los punteros distinguen "ausente" de "cero".
type fileConfig struct {
	Core struct {
		Targets   *string `yaml:"targets" toml:"targets"`
		BaseURL   *string `yaml:"base_url" toml:"base_url"`
		PageSize  *int    `yaml:"page_size" toml:"page_size"`
		OutputDir *string `yaml:"output_dir" toml:"output_dir"`
		LogDir    *string `yaml:"log_dir" toml:"log_dir"`
	} `yaml:"core" toml:"core"`

	Transport struct {
		Kind           *string   `yaml:"kind" toml:"kind"`
		CurlPath       *string   `yaml:"curl_path" toml:"curl_path"`
		ProxyURL       *string   `yaml:"proxy_url" toml:"proxy_url"`
		ConnectTimeout *Duration `yaml:"connect_timeout" toml:"connect_timeout"`
		Timeout        *Duration `yaml:"timeout" toml:"timeout"`
	} `yaml:"transport" toml:"transport"`

	Retry struct {
		MaxRetries *int      `yaml:"max_retries" toml:"max_retries"`
		BackoffMin *Duration `yaml:"backoff_min" toml:"backoff_min"`
		BackoffMax *Duration `yaml:"backoff_max" toml:"backoff_max"`
	} `yaml:"retry" toml:"retry"`

	Pacing struct {
		ResourceDelay  *Duration `yaml:"resource_delay" toml:"resource_delay"`
		ResourceJitter *Duration `yaml:"resource_jitter" toml:"resource_jitter"`
		TargetDelay    *Duration `yaml:"target_delay" toml:"target_delay"`
		TargetJitter   *Duration `yaml:"target_jitter" toml:"target_jitter"`
	} `yaml:"pacing" toml:"pacing"`

	Downstream struct {
		Enabled *bool   `yaml:"enabled" toml:"enabled"`
		Script  *string `yaml:"script" toml:"script"`
	} `yaml:"downstream" toml:"downstream"`

	Metrics struct {
		Textfile    *string `yaml:"textfile" toml:"textfile"`
		SummaryJSON *string `yaml:"summary_json" toml:"summary_json"`
	} `yaml:"metrics" toml:"metrics"`

	UI struct {
		Mode     *string `yaml:"mode" toml:"mode"`
		Quiet    *bool   `yaml:"quiet" toml:"quiet"`
		LogLevel *string `yaml:"log_level" toml:"log_level"`
	} `yaml:"ui" toml:"ui"`
}

// loadFromFile decodifica path según su extensión y lo superpone sobre cfg.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", ext)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc fileConfig) apply(cfg *Config) {
	setString(&cfg.Core.TargetsFile, fc.Core.Targets)
	setString(&cfg.Core.BaseURL, fc.Core.BaseURL)
	setInt(&cfg.Core.PageSize, fc.Core.PageSize)
	setString(&cfg.Core.OutputDir, fc.Core.OutputDir)
	setString(&cfg.Core.LogDir, fc.Core.LogDir)

	setString(&cfg.Transport.Kind, fc.Transport.Kind)
	setString(&cfg.Transport.CurlPath, fc.Transport.CurlPath)
	setString(&cfg.Transport.ProxyURL, fc.Transport.ProxyURL)
	setDuration(&cfg.Transport.ConnectTimeout, fc.Transport.ConnectTimeout)
	setDuration(&cfg.Transport.Timeout, fc.Transport.Timeout)

	setInt(&cfg.Retry.MaxRetries, fc.Retry.MaxRetries)
	setDuration(&cfg.Retry.BackoffMin, fc.Retry.BackoffMin)
	setDuration(&cfg.Retry.BackoffMax, fc.Retry.BackoffMax)

	setDuration(&cfg.Pacing.ResourceBase, fc.Pacing.ResourceDelay)
	setDuration(&cfg.Pacing.ResourceRange, fc.Pacing.ResourceJitter)
	setDuration(&cfg.Pacing.TargetBase, fc.Pacing.TargetDelay)
	setDuration(&cfg.Pacing.TargetRange, fc.Pacing.TargetJitter)

	if fc.Downstream.Enabled != nil {
		cfg.Downstream.Enabled = *fc.Downstream.Enabled
	}
	setString(&cfg.Downstream.Script, fc.Downstream.Script)

	setString(&cfg.Metrics.Textfile, fc.Metrics.Textfile)
	setString(&cfg.Metrics.SummaryJSON, fc.Metrics.SummaryJSON)

	setString(&cfg.UI.Mode, fc.UI.Mode)

	if fc.UI.Quiet != nil {
		cfg.UI.Quiet = *fc.UI.Quiet
	}
	setString(&cfg.UI.LogLevel, fc.UI.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
