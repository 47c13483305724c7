package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"msuhthegreat/pricefinder/internal/product"
)

// Config represents the application configuration
type Config struct {
	// Search configuration
	SearchURL    string
	ProductsFile string
	MaxPages     int

	// Drop detection
	DropThreshold float64

	// Snapshot store configuration
	SnapshotBackend string // "file" or "redis"
	DataDir         string

	// Redis configuration (redis snapshot backend)
	RedisAddr string
	RedisDB   int

	// Memcache configuration (fetch rate limiting)
	MemcacheAddr   string
	FetchBlockTime time.Duration

	// Alertzy configuration
	AlertzyURL        string
	AlertzyAccountKey string
	AlertGroup        string

	// Export configuration
	ExportURL      string
	ExportToken    string
	ExportAttempts int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	maxPages, _ := strconv.Atoi(getEnv("SEARCH_MAX_PAGES", "3"))
	blockSeconds, _ := strconv.Atoi(getEnv("FETCH_BLOCK_SECONDS", "60"))
	exportAttempts, _ := strconv.Atoi(getEnv("EXPORT_ATTEMPTS", "3"))

	threshold, err := strconv.ParseFloat(getEnv("DROP_THRESHOLD", "0.10"), 64)
	if err != nil {
		threshold = 0.10
	}

	return Config{
		SearchURL:         getEnv("SEARCH_URL", "https://www.amazon.com/s"),
		ProductsFile:      getEnv("PRODUCTS_FILE", "products.yaml"),
		MaxPages:          maxPages,
		DropThreshold:     threshold,
		SnapshotBackend:   getEnv("SNAPSHOT_BACKEND", "file"),
		DataDir:           getEnv("DATA_DIR", "data"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           redisDB,
		MemcacheAddr:      getEnv("MEMCACHE_ADDR", ""),
		FetchBlockTime:    time.Duration(blockSeconds) * time.Second,
		AlertzyURL:        getEnv("ALERTZY_URL", "https://alertzy.app/send"),
		AlertzyAccountKey: getEnv("ALERTZY_ACCOUNT_KEY", ""),
		AlertGroup:        getEnv("ALERT_GROUP", "My Amazon Scraper"),
		ExportURL:         getEnv("EXPORT_URL", ""),
		ExportToken:       getEnv("EXPORT_TOKEN", ""),
		ExportAttempts:    exportAttempts,
		Environment:       getEnv("PRICEFINDER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the run cannot proceed without
func (c Config) Validate() error {
	if c.ProductsFile == "" {
		return fmt.Errorf("products file path is empty")
	}
	if c.DropThreshold <= 0 || c.DropThreshold >= 1 {
		return fmt.Errorf("drop threshold must be in (0, 1), got %v", c.DropThreshold)
	}
	if c.SnapshotBackend != "file" && c.SnapshotBackend != "redis" {
		return fmt.Errorf("unknown snapshot backend %q", c.SnapshotBackend)
	}
	if c.SnapshotBackend == "file" && c.DataDir == "" {
		return fmt.Errorf("data dir is empty")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("search max pages must be at least 1, got %d", c.MaxPages)
	}
	if c.ExportAttempts < 1 {
		return fmt.Errorf("export attempts must be at least 1, got %d", c.ExportAttempts)
	}
	return nil
}

// LoadQueries reads the ordered product query list from the configured YAML
// file. A query without an explicit identity uses its search term.
func (c Config) LoadQueries() ([]product.Query, error) {
	raw, err := os.ReadFile(c.ProductsFile)
	if err != nil {
		return nil, fmt.Errorf("read products file %s: %w", c.ProductsFile, err)
	}

	var doc struct {
		Products []product.Query `yaml:"products"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse products file %s: %w", c.ProductsFile, err)
	}

	queries := make([]product.Query, 0, len(doc.Products))
	for _, q := range doc.Products {
		if q.SearchTerm == "" && q.Identity == "" {
			continue
		}
		if q.SearchTerm == "" {
			q.SearchTerm = q.Identity
		}
		if q.Identity == "" {
			q.Identity = q.SearchTerm
		}
		queries = append(queries, q)
	}

	if len(queries) == 0 {
		return nil, fmt.Errorf("products file %s contains no queries", c.ProductsFile)
	}
	return queries, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
