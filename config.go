package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultMaxConnsPerIP = 5
	defaultMaxTotalConns = 1000
)

// Config holds the server settings. Values come from the environment
// (optionally a .env file) and can be overridden by flags.
type Config struct {
	Addr          string
	DBDriver      string // sqlite or postgres
	DBDSN         string
	JWTSecret     string
	AdminKeyHash  string
	PublicURL     string
	StaticDir     string
	MaxConnsPerIP int
	MaxTotalConns int

	// HashKey, when set, asks main to print its bcrypt hash and exit
	HashKey string
}

// LoadConfig reads envFile (if present) and the environment, then applies
// flag overrides from args.
func LoadConfig(envFile string, args []string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Addr:          getEnv("ADDR", ":8080"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBDSN:         getEnv("DB_DSN", "matchmaking.db"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AdminKeyHash:  getEnv("ADMIN_KEY_HASH", ""),
		PublicURL:     getEnv("PUBLIC_URL", "http://localhost:8080"),
		StaticDir:     getEnv("STATIC_DIR", ""),
		MaxConnsPerIP: getEnvInt("MAX_CONNS_PER_IP", defaultMaxConnsPerIP),
		MaxTotalConns: getEnvInt("MAX_TOTAL_CONNS", defaultMaxTotalConns),
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "Database driver: sqlite or postgres")
	fs.StringVar(&cfg.DBDSN, "db", cfg.DBDSN, "Database DSN (sqlite file path or postgres connection string)")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "Public base URL used in invite links")
	fs.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "Directory of static files to serve at / (disabled if empty)")
	fs.StringVar(&cfg.HashKey, "hash-admin-key", "", "Print the ADMIN_KEY_HASH value for this key and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.MaxConnsPerIP <= 0 || cfg.MaxTotalConns <= 0 {
		return nil, fmt.Errorf("connection limits must be positive")
	}
	return cfg, nil
}

// getEnv reads an environment variable and returns its value or a default value
func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
