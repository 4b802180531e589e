package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/dma/internal/database"
	"github.com/pkg/errors"
)

const defaultPort = "3000"

// environment maps the supported environment variables to their configuration key.
var environment = map[string]string{
	"DMA_ADDRESS":   "address",
	"PORT":          "port",
	"DMA_BASE_PATH": "base_path",
	"FRONTEND_URL":  "frontend_url",
	"SSL_KEY_PATH":  "tls.key",
	"SSL_CERT_PATH": "tls.cert",
	"DB_DRIVER":     "database.driver",
	"DB_HOST":       "database.host",
	"DB_USER":       "database.user",
	"DB_PASSWORD":   "database.password",
	"DB_NAME":       "database.name",
	"DB_PATH":       "database.path",
	"LOG_LEVEL":     "log.level",
	"LOG_FILE":      "log.file",
}

type (
	// A Config holds the server configuration.
	Config struct {
		Address     string   `koanf:"address"`
		Port        string   `koanf:"port"`
		BasePath    string   `koanf:"base_path"`
		FrontendURL string   `koanf:"frontend_url"`
		TLS         TLS      `koanf:"tls"`
		Database    Database `koanf:"database"`
		Log         Log      `koanf:"log"`
	}

	// A TLS holds the certificate files. Both empty means plain HTTP.
	TLS struct {
		Key  string `koanf:"key"`
		Cert string `koanf:"cert"`
	}

	// A Database holds the database connection parameters.
	Database struct {
		Driver   string `koanf:"driver"`
		Host     string `koanf:"host"`
		User     string `koanf:"user"`
		Password string `koanf:"password"`
		Name     string `koanf:"name"`
		Path     string `koanf:"path"`
	}

	// A Log holds the logger parameters.
	Log struct {
		Level string `koanf:"level"`
		File  string `koanf:"file"`
	}
)

func defaults() map[string]any {
	return map[string]any{
		"base_path":       "/api",
		"frontend_url":    "http://localhost:3000",
		"database.driver": database.DriverMySQL,
		"database.host":   "localhost:3306",
		"database.name":   "dma",
		"database.path":   "dma.db",
		"log.level":       "info",
	}
}

// LoadEnvFiles loads the given dotenv files when they exist.
// Variables already defined in the environment are not overridden.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "could not load %s", path)
		}
	}
	return nil
}

// Load reads the configuration from defaults, the optional YAML file and then the environment.
func Load(filename string) (Config, error) {
	var cfg Config
	konf := koanf.New(".")

	if err := konf.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return cfg, errors.Wrap(err, "could not load defaults")
	}

	if filename != "" {
		if err := konf.Load(file.Provider(filename), yaml.Parser()); err != nil {
			return cfg, errors.Wrap(err, "could not load configuration file")
		}
	}

	err := konf.Load(env.Provider("", ".", func(key string) string {
		return environment[key] // Unknown variables are ignored.
	}), nil)
	if err != nil {
		return cfg, errors.Wrap(err, "could not load environment")
	}

	if err = konf.Unmarshal("", &cfg); err != nil {
		return cfg, errors.Wrap(err, "could not parse configuration")
	}

	cfg.normalize()
	return cfg, cfg.Validate()
}

func (cfg *Config) normalize() {
	if cfg.Address == "" {
		port := cfg.Port
		if port == "" {
			port = defaultPort
		}
		cfg.Address = ":" + port
	}

	cfg.BasePath = "/" + strings.Trim(cfg.BasePath, "/")
	if cfg.BasePath == "/" {
		cfg.BasePath = ""
	}
}

// Validate checks the configuration consistency.
func (cfg Config) Validate() error {
	if (cfg.TLS.Key == "") != (cfg.TLS.Cert == "") {
		return errors.New("both tls key and tls cert must be defined")
	}

	if cfg.FrontendURL == "" {
		return errors.New("frontend_url must be defined")
	}

	switch cfg.Database.Driver {
	case database.DriverMySQL, database.DriverSQLite3, database.DriverStorm:
	default:
		return errors.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	return nil
}

// TLSEnabled returns true if the server must listen using TLS.
func (cfg Config) TLSEnabled() bool {
	return cfg.TLS.Key != "" && cfg.TLS.Cert != ""
}

// DatabaseOptions returns the options used to open the database.
func (cfg Config) DatabaseOptions() database.Options {
	return database.Options{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		Path:     cfg.Database.Path,
	}
}
