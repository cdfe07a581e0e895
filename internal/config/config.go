package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const dirName = ".inflammation"

// Global configuration structure.
type Global struct {
	// Loading
	Delimiter          string   `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string   `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string   `mapstructure:"thousands_separator" yaml:"thousands_separator"`
	HasHeader          bool     `mapstructure:"has_header" yaml:"has_header"`
	MissingTokens      []string `mapstructure:"missing_tokens" yaml:"missing_tokens"`
	MaxRows            int      `mapstructure:"max_rows" yaml:"max_rows"`

	// Output
	Precision    int    `mapstructure:"precision" yaml:"precision"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	SampleRows   int    `mapstructure:"sample_rows" yaml:"sample_rows"`

	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	StudiesDir string `mapstructure:"studies_dir" yaml:"studies_dir"`
	BatchJobs  int    `mapstructure:"batch_jobs" yaml:"batch_jobs"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.inflammation/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, dirName)
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
// Precedence: flags (cfgFile) > env > config file > defaults.
// A .env file in the working directory is read into the environment first.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("INFLAMMATION")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("has_header", false)
	v.SetDefault("missing_tokens", []string{"", "nan", "na", "n/a"})
	v.SetDefault("max_rows", 100000)
	v.SetDefault("precision", 2)
	v.SetDefault("output_format", "markdown")
	v.SetDefault("sample_rows", 5)
	v.SetDefault("log_level", "warn")
	v.SetDefault("batch_jobs", 4)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, dirName)
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve studies_dir default: ~/.inflammation/studies
	if c.StudiesDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.StudiesDir = filepath.Join(home, dirName, "studies")
	}
	return &c, nil
}
