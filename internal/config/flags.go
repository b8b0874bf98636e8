package config

import "github.com/integrii/flaggy"

// BindFlags registers the global flags on p with the current values as
// defaults, so that flags given on the command line take precedence over
// every other source once p is parsed.
//
//	-c, --config       JSON config file (read by LoadConfig)
//	    --driver       postgres or sqlite
//	-d, --dsn          database DSN
//	    --log-level    debug, info, warn, error
//	-o, --out          recover output directory
//	    --s3-bucket, --s3-region, --s3-endpoint, --archive-timeout
func (c *Config) BindFlags(p *flaggy.Parser) {
	var configPath string
	p.String(&configPath, "c", "config", "JSON config file")
	p.String(&c.Driver, "", "driver", "database driver: postgres or sqlite")
	p.String(&c.DatabaseDSN, "d", "dsn", "database DSN")
	p.String(&c.LogLevel, "", "log-level", "log level: debug, info, warn, error")
	p.String(&c.OutputDir, "o", "out", "output directory for recover")
	p.String(&c.S3Bucket, "", "s3-bucket", "S3 bucket for --archive")
	p.String(&c.S3Region, "", "s3-region", "S3 region")
	p.String(&c.S3BaseEndpoint, "", "s3-endpoint", "S3 base endpoint for S3-compatible storage")
	p.Duration(&c.ArchiveTimeout, "", "archive-timeout", "upload timeout for --archive")
}
