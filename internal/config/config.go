package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
	"github.com/KaramelBytes/cupscope-cli/internal/ingest"
	"github.com/KaramelBytes/cupscope-cli/internal/pipeline"
)

// Global configuration structure.
type Global struct {
	MinSampleThreshold int     `mapstructure:"min_sample_threshold" yaml:"min_sample_threshold"`
	TopMethods         int     `mapstructure:"top_methods" yaml:"top_methods"`
	SortBy             string  `mapstructure:"sort_by" yaml:"sort_by"`
	RadarMin           float64 `mapstructure:"radar_min" yaml:"radar_min"`
	RadarMax           float64 `mapstructure:"radar_max" yaml:"radar_max"`
	Workers            int     `mapstructure:"workers" yaml:"workers"`
	// Attributes is a comma-separated radar axis; empty means all nine.
	Attributes string `mapstructure:"attributes" yaml:"attributes,omitempty"`

	// Map join inputs
	CountryNamesFile string `mapstructure:"country_names_file" yaml:"country_names_file,omitempty"`
	BoundariesFile   string `mapstructure:"boundaries_file" yaml:"boundaries_file,omitempty"`

	ProjectsDir string `mapstructure:"projects_dir" yaml:"projects_dir"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat   string `mapstructure:"log_format" yaml:"log_format"`

	Columns ingest.Schema `mapstructure:"columns" yaml:"columns"`
}

// Dir returns ~/.cupscope.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".cupscope"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.cupscope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
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
// Precedence: env > config file > defaults. A .env file in the working
// directory is applied to the environment first.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("CUPSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := pipeline.DefaultOptions()
	v.SetDefault("min_sample_threshold", d.MinSampleThreshold)
	v.SetDefault("top_methods", d.TopMethods)
	v.SetDefault("sort_by", string(d.SortBy))
	v.SetDefault("radar_min", 0.0)
	v.SetDefault("radar_max", 10.0)
	v.SetDefault("workers", 0)
	v.SetDefault("attributes", "")
	v.SetDefault("country_names_file", "")
	v.SetDefault("boundaries_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	cols := ingest.DefaultSchema()
	v.SetDefault("columns.score", cols.Score)
	v.SetDefault("columns.country", cols.Country)
	v.SetDefault("columns.processing_method", cols.ProcessingMethod)
	v.SetDefault("columns.variety", cols.Variety)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.ProjectsDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.ProjectsDir = filepath.Join(dir, "projects")
	}
	return &c, nil
}

// PipelineOptions converts the config into validated pipeline options.
func (c *Global) PipelineOptions() (pipeline.Options, error) {
	o := pipeline.DefaultOptions()
	o.MinSampleThreshold = c.MinSampleThreshold
	o.TopMethods = c.TopMethods
	o.Workers = c.Workers
	sb, err := pipeline.ParseSortBy(c.SortBy)
	if err != nil {
		return o, err
	}
	o.SortBy = sb
	if strings.TrimSpace(c.Attributes) != "" {
		axis, err := parseAttributes(c.Attributes)
		if err != nil {
			return o, err
		}
		o.Attributes = axis
	}
	return o, o.Validate()
}

func parseAttributes(s string) ([]coffee.Attribute, error) {
	var axis []coffee.Attribute
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		a, err := coffee.ParseAttribute(part)
		if err != nil {
			return nil, err
		}
		axis = append(axis, a)
	}
	return axis, nil
}

// Keys lists the keys accepted by Set, in display order.
func Keys() []string {
	return []string{
		"min_sample_threshold", "top_methods", "sort_by", "radar_min", "radar_max", "workers", "attributes",
		"country_names_file", "boundaries_file", "projects_dir", "log_level", "log_format",
		"columns.score", "columns.country", "columns.processing_method", "columns.variety",
	}
}

// Get returns the display value of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "min_sample_threshold":
		return strconv.Itoa(c.MinSampleThreshold), nil
	case "top_methods":
		return strconv.Itoa(c.TopMethods), nil
	case "sort_by":
		return c.SortBy, nil
	case "radar_min":
		return strconv.FormatFloat(c.RadarMin, 'g', -1, 64), nil
	case "radar_max":
		return strconv.FormatFloat(c.RadarMax, 'g', -1, 64), nil
	case "workers":
		return strconv.Itoa(c.Workers), nil
	case "attributes":
		return c.Attributes, nil
	case "country_names_file":
		return c.CountryNamesFile, nil
	case "boundaries_file":
		return c.BoundariesFile, nil
	case "projects_dir":
		return c.ProjectsDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "columns.score":
		return c.Columns.Score, nil
	case "columns.country":
		return c.Columns.Country, nil
	case "columns.processing_method":
		return c.Columns.ProcessingMethod, nil
	case "columns.variety":
		return c.Columns.Variety, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set validates val and assigns it to key.
func (c *Global) Set(key, val string) error {
	switch key {
	case "min_sample_threshold", "top_methods", "workers":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid non-negative int for %s: %v", key, val)
		}
		switch key {
		case "min_sample_threshold":
			c.MinSampleThreshold = i
		case "top_methods":
			if i == 0 {
				return fmt.Errorf("top_methods must be > 0")
			}
			c.TopMethods = i
		default:
			c.Workers = i
		}
	case "sort_by":
		sb, err := pipeline.ParseSortBy(val)
		if err != nil {
			return err
		}
		c.SortBy = string(sb)
	case "radar_min", "radar_max":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %w", key, err)
		}
		if key == "radar_min" {
			c.RadarMin = f
		} else {
			c.RadarMax = f
		}
	case "attributes":
		if _, err := parseAttributes(val); err != nil {
			return err
		}
		c.Attributes = val
	case "country_names_file":
		c.CountryNamesFile = val
	case "boundaries_file":
		c.BoundariesFile = val
	case "projects_dir":
		c.ProjectsDir = val
	case "log_level":
		switch strings.ToLower(val) {
		case "trace", "debug", "info", "warn", "warning", "error", "off":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error|off)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "console", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use console or json)", val)
		}
	case "columns.score":
		c.Columns.Score = val
	case "columns.country":
		c.Columns.Country = val
	case "columns.processing_method":
		c.Columns.ProcessingMethod = val
	case "columns.variety":
		c.Columns.Variety = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
