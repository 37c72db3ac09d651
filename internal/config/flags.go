package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database DSN (SQLite file path or PostgreSQL connection string)
//	-driver database driver ("sqlite3" or "pgx")
//	-base-url remote changes-API base URL
//	-request-timeout changes request timeout (e.g., "30s", "1m")
//	-max-age cache age in days beyond which a full resync is requested
func ParseFlags() *StructuredConfig {
	var databaseDSN string
	var databaseDriver string
	var baseURL string
	var requestTimeout time.Duration
	var maxAgeDays float64

	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&databaseDriver, "driver", "", "Database driver (sqlite3 or pgx)")
	flag.StringVar(&baseURL, "base-url", "", "Changes API base URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.Float64Var(&maxAgeDays, "max-age", 0, "Cache age in days that triggers a full resync")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			DB: DB{
				Driver: databaseDriver,
				DSN:    databaseDSN,
			},
		},
		Adapter: Adapter{
			BaseURL:        baseURL,
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			MaxAgeDays: maxAgeDays,
		},
	}
}
