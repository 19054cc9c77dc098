package config

import (
	"time"

	"github.com/shaiso/Paysweep/internal/domain"
)

// Значения по умолчанию.
const (
	DefaultPath        = "configs/paysweep.yaml"
	DefaultHTTPTimeout = time.Hour
	DefaultScope       = "edo"
	DefaultLockKey     = int64(424243)
	DefaultPushJob     = "paysweep"

	// MaxChunkSize — верхняя граница размера чанка.
	MaxChunkSize = 10000
)

// Config — конфигурация воркера.
type Config struct {
	API         APIConfig         `yaml:"api"`
	Identity    IdentityConfig    `yaml:"identity"`
	Operations  []OperationConfig `yaml:"operations"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	RabbitMQ    RabbitMQConfig    `yaml:"rabbitmq"`
	Pushgateway PushgatewayConfig `yaml:"pushgateway"`
}

// APIConfig — EDO API.
type APIConfig struct {
	// BaseURL — относительные URL операций разрешаются относительно него.
	BaseURL string `yaml:"base_url"`

	// Timeout — таймаут одного запроса.
	Timeout time.Duration `yaml:"timeout"`
}

// IdentityConfig — параметры client credentials.
type IdentityConfig struct {
	Authority    string `yaml:"authority"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Scope        string `yaml:"scope"`
}

// OperationConfig — одна операция в файле конфигурации.
type OperationConfig struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	FetchURL    string `yaml:"fetch_url"`
	ProcessURL  string `yaml:"process_url"`
	ChunkSize   int    `yaml:"chunk_size"`
	Shape       string `yaml:"shape"`
	WrapField   string `yaml:"wrap_field"`
	PointInTime bool   `yaml:"point_in_time"`
	DaysAhead   int    `yaml:"days_ahead"`
	Disabled    bool   `yaml:"disabled"`
}

// ScheduleConfig — внешнее расписание запусков (опционально).
type ScheduleConfig struct {
	Cron     string `yaml:"cron"`
	Timezone string `yaml:"timezone"`
}

// HTTPConfig — /healthz и /metrics на время прохода (опционально).
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig — блокировка прохода через PostgreSQL (опционально).
type DatabaseConfig struct {
	URL     string `yaml:"url"`
	LockKey int64  `yaml:"lock_key"`
}

// RabbitMQConfig — публикация итога прохода (опционально).
type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

// PushgatewayConfig — отправка метрик в конце прохода (опционально).
type PushgatewayConfig struct {
	URL string `yaml:"url"`
	Job string `yaml:"job"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Timeout: DefaultHTTPTimeout,
		},
		Identity: IdentityConfig{
			Scope: DefaultScope,
		},
		Database: DatabaseConfig{
			LockKey: DefaultLockKey,
		},
		Pushgateway: PushgatewayConfig{
			Job: DefaultPushJob,
		},
	}
}

// applyOperationDefaults заполняет необязательные поля операции.
func (o *OperationConfig) applyOperationDefaults() {
	if o.Kind == "" {
		o.Kind = string(domain.OperationKindBatch)
	}
	if o.Shape == "" {
		o.Shape = string(domain.ShapeArray)
	}
	if o.Shape == string(domain.ShapeWrapped) && o.WrapField == "" {
		o.WrapField = domain.DefaultWrapField
	}
	if o.Kind == string(domain.OperationKindBatch) && o.FetchURL == "" {
		o.FetchURL = o.ProcessURL
	}
}
