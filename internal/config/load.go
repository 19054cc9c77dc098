package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Переменные окружения.
const (
	EnvConfigPath     = "PAYSWEEP_CONFIG"
	EnvAPIURL         = "PAYSWEEP_API_URL"
	EnvAuthority      = "PAYSWEEP_IDENTITY_AUTHORITY"
	EnvClientID       = "PAYSWEEP_CLIENT_ID"
	EnvClientSecret   = "PAYSWEEP_CLIENT_SECRET"
	EnvHTTPTimeout    = "PAYSWEEP_HTTP_TIMEOUT"
	EnvHTTPAddr       = "PAYSWEEP_HTTP_ADDR"
	EnvDatabaseURL    = "DB_URL"
	EnvRabbitMQURL    = "RABBITMQ_URL"
	EnvPushgatewayURL = "PUSHGATEWAY_URL"
)

// Path возвращает путь к файлу конфигурации.
//
// Явно заданный путь (флаг --config) важнее PAYSWEEP_CONFIG.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// LoadDotEnv подгружает .env из рабочей директории, если он есть.
// Уже выставленные переменные окружения не перезаписываются.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load читает конфигурацию: defaults → файл → окружение, затем валидирует.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse накладывает YAML на значения по умолчанию.
// Неизвестные поля считаются ошибкой.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	for i := range cfg.Operations {
		cfg.Operations[i].applyOperationDefaults()
	}

	return cfg, nil
}

// LookupFunc — источник переменных окружения (os.LookupEnv в проде).
type LookupFunc func(key string) (string, bool)

// ApplyEnv накладывает переменные окружения поверх файла.
// Пустые значения игнорируются.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvAPIURL); ok {
		c.API.BaseURL = v
	}
	if v, ok := get(EnvAuthority); ok {
		c.Identity.Authority = v
	}
	if v, ok := get(EnvClientID); ok {
		c.Identity.ClientID = v
	}
	if v, ok := get(EnvClientSecret); ok {
		c.Identity.ClientSecret = v
	}
	if v, ok := get(EnvHTTPTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvHTTPTimeout, err)
		}
		c.API.Timeout = d
	}
	if v, ok := get(EnvHTTPAddr); ok {
		c.HTTP.Addr = v
	}
	if v, ok := get(EnvDatabaseURL); ok {
		c.Database.URL = v
	}
	if v, ok := get(EnvRabbitMQURL); ok {
		c.RabbitMQ.URL = v
	}
	if v, ok := get(EnvPushgatewayURL); ok {
		c.Pushgateway.URL = v
	}

	return nil
}
