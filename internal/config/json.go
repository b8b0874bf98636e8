package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vaultrecovery/internal/flagx"
	"github.com/dmitrijs2005/vaultrecovery/internal/timex"
)

// JsonConfig is the file representation of Config. Durations accept "30s"
// as well as integer nanoseconds.
type JsonConfig struct {
	Driver         string          `json:"driver"`
	DatabaseDSN    string          `json:"database_dsn"`
	LogLevel       string          `json:"log_level"`
	OutputDir      string          `json:"output_dir"`
	ArchiveTimeout *timex.Duration `json:"archive_timeout"`
	S3Bucket       string          `json:"s3_bucket"`
	S3Region       string          `json:"s3_region"`
	S3BaseEndpoint string          `json:"s3_base_endpoint"`
	S3AccessKey    string          `json:"s3_access_key"`
	S3SecretKey    string          `json:"s3_secret_key"`
}

// parseJson overlays the JSON file named by -c or -config in args. Keys absent
// from the file keep their current value. An unreadable or invalid file
// panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&config.Driver, c.Driver)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.LogLevel, c.LogLevel)
	set(&config.OutputDir, c.OutputDir)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.S3AccessKey, c.S3AccessKey)
	set(&config.S3SecretKey, c.S3SecretKey)
	if c.ArchiveTimeout != nil {
		config.ArchiveTimeout = c.ArchiveTimeout.Duration
	}
}
