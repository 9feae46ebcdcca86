// Package cli implements the knn command line.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/knn"
)

// Config is the resolved configuration of a command invocation.
type Config struct {
	K              int    `mapstructure:"k"`
	Exponent       int    `mapstructure:"exponent"`
	BinWidth       int    `mapstructure:"bin_width"`
	Voter          string `mapstructure:"voter"`
	Workers        int    `mapstructure:"workers"`
	IntraQuery     int    `mapstructure:"intra_query"`
	SkipUnresolved bool   `mapstructure:"skip_unresolved"`
	Codec          string `mapstructure:"codec"`
	Publish        bool   `mapstructure:"publish"`

	Store  StoreConfig  `mapstructure:"store"`
	Limits LimitsConfig `mapstructure:"limits"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// StoreConfig selects and configures the blob store.
type StoreConfig struct {
	Kind      string `mapstructure:"kind"`
	Root      string `mapstructure:"root"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Secure    bool   `mapstructure:"secure"`
	DDBTable  string `mapstructure:"ddb_table"`
}

// LimitsConfig mirrors resource.Config.
type LimitsConfig struct {
	MemoryBytes   int64 `mapstructure:"memory_bytes"`
	MaxWorkers    int64 `mapstructure:"max_workers"`
	IOBytesPerSec int64 `mapstructure:"io_bytes_per_sec"`
}

// OutputConfig controls the prediction file layout.
type OutputConfig struct {
	SubmissionHeader bool   `mapstructure:"submission_header"`
	UnresolvedToken  string `mapstructure:"unresolved_token"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		K:        knn.DefaultK,
		Exponent: knn.DefaultExponent,
		BinWidth: knn.DefaultBinWidth,
		Voter:    "weighted",
		Codec:    "go-json",
		Publish:  true,
		Store: StoreConfig{
			Kind: "local",
			Root: ".",
		},
		Output: OutputConfig{
			UnresolvedToken: "-1",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"k":                 "k",
	"p":                 "exponent",
	"bin-width":         "bin_width",
	"voter":             "voter",
	"workers":           "workers",
	"intra-query":       "intra_query",
	"skip-unresolved":   "skip_unresolved",
	"codec":             "codec",
	"publish":           "publish",
	"store":             "store.kind",
	"root":              "store.root",
	"bucket":            "store.bucket",
	"prefix":            "store.prefix",
	"region":            "store.region",
	"endpoint":          "store.endpoint",
	"ddb-table":         "store.ddb_table",
	"memory-limit":      "limits.memory_bytes",
	"max-workers":       "limits.max_workers",
	"io-limit":          "limits.io_bytes_per_sec",
	"submission-header": "output.submission_header",
	"unresolved-token":  "output.unresolved_token",
	"log-level":         "log.level",
	"log-format":        "log.format",
}

// InitViper creates a viper instance with defaults, the optional TOML
// config file and KNN_ environment variables.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via bindFlags)
//  2. Environment variables (KNN_K, KNN_STORE_BUCKET, etc.)
//  3. Config file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	setViperDefaults(v)

	v.SetConfigType("toml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("knn")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Only an implicit config file may be missing.
		if configFile != "" || !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("KNN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("k", d.K)
	v.SetDefault("exponent", d.Exponent)
	v.SetDefault("bin_width", d.BinWidth)
	v.SetDefault("voter", d.Voter)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("intra_query", d.IntraQuery)
	v.SetDefault("skip_unresolved", d.SkipUnresolved)
	v.SetDefault("codec", d.Codec)
	v.SetDefault("publish", d.Publish)

	v.SetDefault("store.kind", d.Store.Kind)
	v.SetDefault("store.root", d.Store.Root)
	v.SetDefault("store.bucket", d.Store.Bucket)
	v.SetDefault("store.prefix", d.Store.Prefix)
	v.SetDefault("store.region", d.Store.Region)
	v.SetDefault("store.endpoint", d.Store.Endpoint)
	v.SetDefault("store.access_key", d.Store.AccessKey)
	v.SetDefault("store.secret_key", d.Store.SecretKey)
	v.SetDefault("store.secure", d.Store.Secure)
	v.SetDefault("store.ddb_table", d.Store.DDBTable)

	v.SetDefault("limits.memory_bytes", d.Limits.MemoryBytes)
	v.SetDefault("limits.max_workers", d.Limits.MaxWorkers)
	v.SetDefault("limits.io_bytes_per_sec", d.Limits.IOBytesPerSec)

	v.SetDefault("output.submission_header", d.Output.SubmissionHeader)
	v.SetDefault("output.unresolved_token", d.Output.UnresolvedToken)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// bindFlags binds every known flag of cmd to its configuration key.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding flag %s: %w", flag, err)
			}
		}
	}
	return nil
}

// loadConfig resolves the configuration for cmd.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	configFile, _ := cmd.Flags().GetString("config")

	v, err := InitViper(configFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func (c *Config) logger() (*knn.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	switch c.Log.Format {
	case "", "text":
		return knn.NewTextLogger(level), nil
	case "json":
		return knn.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Log.Format)
	}
}
