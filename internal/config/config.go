// Package config resolves fid settings from defaults, an optional TOML file
// and FID_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default file locations, relative to the working directory.
const (
	DefaultDataPath      = "data/raw/ethiopia_fi_unified_data.csv"
	DefaultReferencePath = "data/raw/reference_codes.csv"
	DefaultOutputPath    = "data/processed/ethiopia_fi_enriched.csv"
)

type Config struct {
	DataPath      string `toml:"data_path"`      // FID_DATA_PATH
	ReferencePath string `toml:"reference_path"` // FID_REFERENCE_PATH
	OutputPath    string `toml:"output_path"`    // FID_OUTPUT_PATH
	NATSURL       string `toml:"nats_url"`       // FID_NATS_URL (optional, empty = no events)
	MetricsFile   string `toml:"metrics_file"`   // FID_METRICS_FILE (optional)
	Strict        bool   `toml:"strict"`         // FID_STRICT
	LogLevel      string `toml:"log_level"`      // FID_LOG_LEVEL (default "warn")

	S3 S3Config `toml:"s3"`
}

// S3Config holds the optional snapshot upload target.
type S3Config struct {
	Bucket   string `toml:"bucket"`   // FID_S3_BUCKET (enables S3 when set)
	Key      string `toml:"key"`      // FID_S3_KEY (default "fid/enriched.csv")
	Region   string `toml:"region"`   // FID_S3_REGION (default "us-east-1")
	Endpoint string `toml:"endpoint"` // FID_S3_ENDPOINT (custom endpoint for MinIO)
}

// Enabled reports whether an S3 bucket is configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataPath:      DefaultDataPath,
		ReferencePath: DefaultReferencePath,
		OutputPath:    DefaultOutputPath,
		LogLevel:      "warn",
		S3: S3Config{
			Key:    "fid/enriched.csv",
			Region: "us-east-1",
		},
	}
}

// Load resolves the configuration. path names an optional TOML file; an
// empty path skips it. Unknown keys in the file are rejected.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, c)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}

	c.DataPath = envOrDefault("FID_DATA_PATH", c.DataPath)
	c.ReferencePath = envOrDefault("FID_REFERENCE_PATH", c.ReferencePath)
	c.OutputPath = envOrDefault("FID_OUTPUT_PATH", c.OutputPath)
	c.NATSURL = envOrDefault("FID_NATS_URL", c.NATSURL)
	c.MetricsFile = envOrDefault("FID_METRICS_FILE", c.MetricsFile)
	c.LogLevel = envOrDefault("FID_LOG_LEVEL", c.LogLevel)
	c.S3.Bucket = envOrDefault("FID_S3_BUCKET", c.S3.Bucket)
	c.S3.Key = envOrDefault("FID_S3_KEY", c.S3.Key)
	c.S3.Region = envOrDefault("FID_S3_REGION", c.S3.Region)
	c.S3.Endpoint = envOrDefault("FID_S3_ENDPOINT", c.S3.Endpoint)

	if v := os.Getenv("FID_STRICT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("FID_STRICT: %w", err)
		}
		c.Strict = b
	}

	if _, err := c.Level(); err != nil {
		return nil, err
	}
	return c, nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
