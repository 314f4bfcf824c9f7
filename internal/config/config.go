package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/maypok86/trafficgen/internal/trace"
)

// ErrConfiguration wraps every invalid configuration. It is fatal and is
// reported before any generation starts.
var ErrConfiguration = errors.New("configuration error")

const envPrefix = "TRAFFICGEN"

// Config is the configuration of a generation run.
type Config struct {
	Iterations          int     `toml:"iterations" validate:"gte=0"`
	TotalCustomers      int     `toml:"total_customers" validate:"gt=0"`
	PercentUnknownSites float64 `toml:"percent_unknown_sites" validate:"gte=0,lte=1"`
	BaselineMeanMs      float64 `toml:"baseline_mean_ms" validate:"gt=0"`
	OutputDirectory     string  `toml:"output_directory" validate:"required"`
	RankingPath         string  `toml:"ranking_path" validate:"required"`
	StartTime           string  `toml:"start_time"`
	Seed                string  `toml:"seed"`
	Codec               string  `toml:"codec" validate:"required"`
	ProgressEvery       int     `toml:"progress_every" validate:"gte=0"`
	LogLevel            string  `toml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat           string  `toml:"log_format" validate:"oneof=json console"`
	Chart               bool    `toml:"chart"`
	Metrics             bool    `toml:"metrics"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Iterations:          50_000_000,
		TotalCustomers:      100_000,
		PercentUnknownSites: 0.1,
		BaselineMeanMs:      20,
		OutputDirectory:     "output",
		Codec:               trace.ZstdCodec,
		ProgressEvery:       1_000_000,
		LogLevel:            "info",
		LogFormat:           "json",
		Chart:               true,
		Metrics:             true,
	}
}

// Validate reports the first invalid field wrapped in ErrConfiguration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %q", ErrConfiguration, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	// validator does not reject NaN
	if math.IsNaN(c.PercentUnknownSites) {
		return fmt.Errorf("%w: percent_unknown_sites is NaN", ErrConfiguration)
	}
	if math.IsNaN(c.BaselineMeanMs) || math.IsInf(c.BaselineMeanMs, 0) {
		return fmt.Errorf("%w: baseline_mean_ms must be finite", ErrConfiguration)
	}

	if !trace.IsAvailableCodec(c.Codec) {
		return fmt.Errorf("%w: unknown codec %q", ErrConfiguration, c.Codec)
	}

	if _, err := c.Start(time.Local); err != nil {
		return err
	}

	return nil
}

var startLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// Start returns the first event time. An empty StartTime means now,
// truncated to milliseconds. Times without a zone are read in loc.
func (c *Config) Start(loc *time.Location) (time.Time, error) {
	if c.StartTime == "" {
		return time.Now().In(loc).Truncate(time.Millisecond), nil
	}

	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, c.StartTime, loc); err == nil {
			return t.Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: start_time %q is not RFC 3339 or %s", ErrConfiguration, c.StartTime, startLayouts[2])
}

// Flags registers command-line flags for every option on fs.
func Flags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "Path to a TOML configuration file")
	fs.Int("iterations", d.Iterations, "Number of events to generate")
	fs.Int("total-customers", d.TotalCustomers, "Number of distinct client ids")
	fs.Float64("percent-unknown-sites", d.PercentUnknownSites, "Probability in [0, 1] of a domain outside the ranking")
	fs.Float64("baseline-mean-ms", d.BaselineMeanMs, "Inter-arrival scale")
	fs.String("output-directory", d.OutputDirectory, "Directory for generated artifacts")
	fs.String("ranking-path", d.RankingPath, "Ranking CSV (.csv, .csv.gz, .csv.zst or .zip)")
	fs.String("start-time", d.StartTime, "First event time (RFC 3339 or 2006-01-02T15:04:05), default now")
	fs.String("seed", d.Seed, "Seed for a reproducible run, empty for a random one")
	fs.String("codec", d.Codec, "Compression for artifacts: zstd, gzip, brotli or none")
	fs.Int("progress-every", d.ProgressEvery, "Log progress every n events, 0 disables")
	fs.String("log-level", d.LogLevel, "Log level: debug, info, warn or error")
	fs.String("log-format", d.LogFormat, "Log format: json or console")
	fs.Bool("chart", d.Chart, "Write the hourly density chart")
	fs.Bool("metrics", d.Metrics, "Write the Prometheus textfile")
}

// Load builds the configuration from defaults, the TOML file named by the
// config flag, TRAFFICGEN_* environment variables and explicitly set flags,
// in increasing precedence.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	c := Default()
	if path := v.GetString("config"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(content, &c); err != nil {
			return Config{}, fmt.Errorf("%w: unmarshal config: %w", ErrConfiguration, err)
		}
	}

	overlay(v, &c)

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func overlay(v *viper.Viper, c *Config) {
	setInt(v, "iterations", &c.Iterations)
	setInt(v, "total-customers", &c.TotalCustomers)
	setFloat(v, "percent-unknown-sites", &c.PercentUnknownSites)
	setFloat(v, "baseline-mean-ms", &c.BaselineMeanMs)
	setString(v, "output-directory", &c.OutputDirectory)
	setString(v, "ranking-path", &c.RankingPath)
	setString(v, "start-time", &c.StartTime)
	setString(v, "seed", &c.Seed)
	setString(v, "codec", &c.Codec)
	setInt(v, "progress-every", &c.ProgressEvery)
	setString(v, "log-level", &c.LogLevel)
	setString(v, "log-format", &c.LogFormat)
	setBool(v, "chart", &c.Chart)
	setBool(v, "metrics", &c.Metrics)
}

// isSet reports whether key was given as an environment variable or an
// explicitly changed flag. Flag defaults do not override the file.
func isSet(v *viper.Viper, key string) bool {
	return v.IsSet(key)
}

func setInt(v *viper.Viper, key string, dst *int) {
	if isSet(v, key) {
		*dst = v.GetInt(key)
	}
}

func setFloat(v *viper.Viper, key string, dst *float64) {
	if isSet(v, key) {
		*dst = v.GetFloat64(key)
	}
}

func setString(v *viper.Viper, key string, dst *string) {
	if isSet(v, key) {
		*dst = v.GetString(key)
	}
}

func setBool(v *viper.Viper, key string, dst *bool) {
	if isSet(v, key) {
		*dst = v.GetBool(key)
	}
}
