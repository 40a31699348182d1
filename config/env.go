// Package config loads process-wide configuration once at startup.
//
// Values are resolved in order: built-in defaults, then config/app.json,
// then .env, then the process environment. The resulting Config is
// immutable; constructors receive it explicitly instead of reaching into
// package globals, so tests can build their own.
package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppPort      = "8080"
	defaultAppEnv       = "local"
	defaultMongoURI     = "mongodb://localhost:27017"
	defaultMongoDB      = "apothecary"
	defaultJWTSecret    = "change-me-in-production"
	defaultCookieName   = "potion_session"
	defaultRedisAddr    = "localhost:6379"
	defaultCacheTTL     = 30 * time.Second
	defaultMaxBodyBytes = 4 << 20
)

// Config holds every process-wide setting. Read-only after Load.
type Config struct {
	AppPort    string
	AppEnv     string
	MongoURI   string
	MongoDB    string
	JWTSecret  string
	CookieName string

	RedisAddr         string
	RedisPassword     string
	AnalyticsCacheTTL time.Duration

	LogMongo     bool
	MaxBodyBytes int64
}

// Production reports whether the app runs in a production environment.
// Controls the Secure attribute on the session cookie and log formatting.
func (c *Config) Production() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// Load reads config/app.json, .env and the environment, in that order.
// Missing files are fine; defaults cover everything.
func Load() (*Config, error) {
	return load("config/app.json", ".env")
}

func load(jsonPath, envPath string) (*Config, error) {
	values := map[string]string{}

	if err := mergeJSONConfig(jsonPath, values); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := mergeDotEnv(envPath, values); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	get := func(key, fallback string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		if v := strings.TrimSpace(values[key]); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		AppPort:       get("APP_PORT", defaultAppPort),
		AppEnv:        get("APP_ENV", defaultAppEnv),
		MongoURI:      get("MONGO_URI", defaultMongoURI),
		MongoDB:       get("MONGO_DB", defaultMongoDB),
		JWTSecret:     get("JWT_SECRET", defaultJWTSecret),
		CookieName:    get("COOKIE_NAME", defaultCookieName),
		RedisAddr:     get("REDIS_ADDR", defaultRedisAddr),
		RedisPassword: get("REDIS_PASSWORD", ""),

		AnalyticsCacheTTL: defaultCacheTTL,
		MaxBodyBytes:      defaultMaxBodyBytes,
	}

	if raw := get("ANALYTICS_CACHE_TTL", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: ANALYTICS_CACHE_TTL: %w", err)
		}
		cfg.AnalyticsCacheTTL = d
	}

	if raw := get("MAX_BODY_BYTES", ""); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("config: MAX_BODY_BYTES must be a positive integer, got %q", raw)
		}
		cfg.MaxBodyBytes = n
	}

	switch strings.ToLower(get("LOG_MONGO", "false")) {
	case "true", "1", "yes":
		cfg.LogMongo = true
	}

	return cfg, nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	return nil
}
