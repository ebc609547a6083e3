// Package config reads server settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type StoreBackend string

const (
	StoreMemory   StoreBackend = "memory"
	StorePostgres StoreBackend = "postgres"
	StoreRedis    StoreBackend = "redis"
)

type ContentSource string

const (
	ContentDefault  ContentSource = "default"
	ContentPostgres ContentSource = "postgres"
	ContentYAML     ContentSource = "yaml"
	ContentCSV      ContentSource = "csv"
)

type Config struct {
	Server struct {
		Port int
	}

	Log struct {
		Level  string
		Format string
	}

	Store struct {
		Backend StoreBackend
		Timeout time.Duration
	}

	Postgres struct {
		URL string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Content struct {
		Source ContentSource
		File   string
		Seed   bool
	}

	NATS struct {
		URL           string
		SubjectPrefix string
	}

	Game struct {
		GridSize      int
		DefaultRounds int
	}
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() (*Config, error) {
	var (
		c    Config
		errs []error
	)
	intVar := func(dst *int, key string, def int) {
		v, err := getInt(key, def)
		errs = append(errs, err)
		*dst = v
	}

	intVar(&c.Server.Port, "PORT", 8080)

	c.Log.Level = getEnv("LOG_LEVEL", "info")
	c.Log.Format = getEnv("LOG_FORMAT", "text")

	c.Store.Backend = StoreBackend(strings.ToLower(getEnv("STORE_BACKEND", string(StoreMemory))))
	timeout, err := getDuration("STORE_TIMEOUT", 3*time.Second)
	errs = append(errs, err)
	c.Store.Timeout = timeout

	c.Postgres.URL = os.Getenv("DATABASE_URL")

	c.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	c.Redis.Password = os.Getenv("REDIS_PASSWORD")
	intVar(&c.Redis.DB, "REDIS_DB", 0)

	c.Content.Source = ContentSource(strings.ToLower(getEnv("CONTENT_SOURCE", string(ContentDefault))))
	c.Content.File = os.Getenv("WORD_PACKS_FILE")
	seed, err := getBool("SEED_WORD_PACKS", false)
	errs = append(errs, err)
	c.Content.Seed = seed

	c.NATS.URL = os.Getenv("NATS_URL")
	c.NATS.SubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", "wordclash")

	intVar(&c.Game.GridSize, "GRID_SIZE", 10)
	intVar(&c.Game.DefaultRounds, "DEFAULT_ROUNDS", 5)

	errs = append(errs, c.validate())
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Server.Port))
	}
	switch c.Store.Backend {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("STORE_BACKEND=postgres requires DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend))
	}
	switch c.Content.Source {
	case ContentDefault:
	case ContentPostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("CONTENT_SOURCE=postgres requires DATABASE_URL"))
		}
	case ContentYAML, ContentCSV:
		if c.Content.File == "" {
			errs = append(errs, fmt.Errorf("CONTENT_SOURCE=%s requires WORD_PACKS_FILE", c.Content.Source))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CONTENT_SOURCE %q", c.Content.Source))
	}
	if c.Content.Seed && (c.Content.Source != ContentPostgres || c.Content.File == "") {
		errs = append(errs, errors.New("SEED_WORD_PACKS requires CONTENT_SOURCE=postgres and WORD_PACKS_FILE"))
	}
	if c.Game.GridSize < 2 {
		errs = append(errs, fmt.Errorf("GRID_SIZE too small: %d", c.Game.GridSize))
	}
	if c.Game.DefaultRounds <= 0 {
		errs = append(errs, fmt.Errorf("DEFAULT_ROUNDS must be positive: %d", c.Game.DefaultRounds))
	}
	if c.Store.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("STORE_TIMEOUT must be positive: %s", c.Store.Timeout))
	}
	return errors.Join(errs...)
}

// NeedsPostgres reports whether any component connects to Postgres.
func (c *Config) NeedsPostgres() bool {
	return c.Store.Backend == StorePostgres || c.Content.Source == ContentPostgres
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
