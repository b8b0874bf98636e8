package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "VAULTRECOVERY_"

// seams for tests
var (
	lookupEnv  = os.LookupEnv
	loadDotenv = func(path string) error { return godotenv.Load(path) }
)

// parseEnv loads the .env file named by VAULTRECOVERY_ENV_FILE (default
// ".env") when it exists, then overlays every VAULTRECOVERY_* variable that is
// set. godotenv never overrides variables already present in the process
// environment. Unparsable durations keep the previous value.
func parseEnv(config *Config) {
	envFile, ok := lookupEnv(EnvPrefix + "ENV_FILE")
	if !ok || envFile == "" {
		envFile = ".env"
	}
	_ = loadDotenv(envFile)

	str := func(key string, dst *string) {
		if v, ok := lookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	str("DRIVER", &config.Driver)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("LOG_LEVEL", &config.LogLevel)
	str("OUTPUT_DIR", &config.OutputDir)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("S3_ACCESS_KEY", &config.S3AccessKey)
	str("S3_SECRET_KEY", &config.S3SecretKey)

	if v, ok := lookupEnv(EnvPrefix + "ARCHIVE_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.ArchiveTimeout = d
		}
	}
}
