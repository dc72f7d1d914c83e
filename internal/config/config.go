// config реализует конфигурацию threads: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Допустимые значения sink.kind.
const (
	SinkJSONL    = "jsonl"
	SinkMongo    = "mongo"
	SinkPostgres = "postgres"
)

// Config — корневая конфигурация.
// Приоритет источников:
//  1. явный путь (--config);
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
//
// Перед чтением подгружается .env из рабочей директории, если он есть.
type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	Reconstruct ReconstructConfig `yaml:"reconstruct"`
	Corpus      CorpusConfig      `yaml:"corpus"`
	Render      RenderConfig      `yaml:"render"`
	Sink        SinkConfig        `yaml:"sink"`
	Mongo       MongoConfig       `yaml:"mongo"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	S3          S3Config          `yaml:"s3"`
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Timeouts    TimeoutConfig     `yaml:"timeouts"`
}

// ReconstructConfig — параметры сборки веток.
type ReconstructConfig struct {
	// Фильтр по сабреддиту (без учёта регистра); пусто — без фильтра.
	Subreddit string `yaml:"subreddit" env:"SUBREDDIT"`
	// Минимальное число комментариев публикации (до отбора корней).
	MinComments int `yaml:"min_comments" env:"MIN_COMMENTS" env-default:"1"`
	// Максимум выпущенных веток; 0 — без ограничения.
	MaxThreads  int `yaml:"max_threads" env:"MAX_THREADS" env-default:"0"`
	ReportEvery int `yaml:"report_every" env:"REPORT_EVERY" env-default:"250000"`
	Workers     int `yaml:"workers" env:"WORKERS" env-default:"1"`
}

// CorpusConfig — параметры построения корпуса документов.
type CorpusConfig struct {
	MinComments int `yaml:"min_comments" env:"CORPUS_MIN_COMMENTS" env-default:"5"`
	MaxDocs     int `yaml:"max_docs" env:"CORPUS_MAX_DOCS" env-default:"0"`
	ReportEvery int `yaml:"report_every" env:"CORPUS_REPORT_EVERY" env-default:"5000"`
}

// RenderConfig — текстовое представление веток.
type RenderConfig struct {
	MaxBodyChars int `yaml:"max_body_chars" env:"MAX_BODY_CHARS" env-default:"140"`
}

// SinkConfig — куда пишутся собранные ветки.
type SinkConfig struct {
	Kind string `yaml:"kind" env:"SINK_KIND" env-default:"jsonl"`
	// Replace — перезаписывать уже сохранённые ветки вместо ошибки конфликта.
	Replace bool `yaml:"replace" env:"SINK_REPLACE" env-default:"false"`
}

// MongoConfig — подключение к MongoDB (sink.kind=mongo).
type MongoConfig struct {
	URL string `yaml:"url" env:"MONGO_URL"`
}

// PostgresConfig — подключение к PostgreSQL (sink.kind=postgres).
type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES_URL"`
}

// S3Config — выгрузка артефактов в S3-совместимое хранилище.
type S3Config struct {
	Enabled   bool   `yaml:"enabled" env:"S3_ENABLED" env-default:"false"`
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	Prefix    string `yaml:"prefix" env:"S3_PREFIX" env-default:"threads/"`
}

// HTTPConfig — HTTP API чтения веток (команда serve).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// CacheConfig — Redis-кэш веток для serve.
type CacheConfig struct {
	// RedisURL пуст — кэш выключен.
	RedisURL string        `yaml:"redis_url" env:"REDIS_URL"`
	Prefix   string        `yaml:"prefix" env:"CACHE_PREFIX" env-default:"threads:"`
	TTL      time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"10m"`
}

// MetricsConfig — отправка метрик пакетных запусков в Pushgateway.
type MetricsConfig struct {
	// PushURL пуст — метрики не отправляются.
	PushURL string `yaml:"push_url" env:"METRICS_PUSH_URL"`
	Job     string `yaml:"job" env:"METRICS_JOB" env-default:"threads"`
}

// TimeoutConfig — таймауты подключения к внешним системам и остановки.
type TimeoutConfig struct {
	Connect  time.Duration `yaml:"connect" env:"CONNECT_TIMEOUT" env-default:"10s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла ENV-переменные накладываются поверх значений из YAML.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	switch {
	case path != "":
		if err := readFile(path, &cfg); err != nil {
			return nil, err
		}
	case os.Getenv("CONFIG_PATH") != "":
		if err := readFile(os.Getenv("CONFIG_PATH"), &cfg); err != nil {
			return nil, err
		}
	case fileExists("local.yaml"):
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readFile читает YAML по пути p. cleanenv.ReadConfig сам накладывает ENV.
func readFile(p string, cfg *Config) error {
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("config file %q stat failed: %w", p, err)
	}

	if err := cleanenv.ReadConfig(p, cfg); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	return nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// Validate — базовая валидация значений. Вызывается повторно после переопределения флагами CLI.
func (c *Config) Validate() error {
	if !slices.Contains([]string{"local", "dev", "prod"}, c.Env) {
		return fmt.Errorf("env must be one of local, dev, prod")
	}

	r := c.Reconstruct
	if r.MinComments < 0 {
		return fmt.Errorf("reconstruct.min_comments must be >= 0")
	}

	if r.MaxThreads < 0 {
		return fmt.Errorf("reconstruct.max_threads must be >= 0")
	}

	if r.ReportEvery < 0 {
		return fmt.Errorf("reconstruct.report_every must be >= 0")
	}

	if r.Workers < 1 || r.Workers > 256 {
		return fmt.Errorf("reconstruct.workers must be in [1, 256]")
	}

	if c.Corpus.MinComments < 0 || c.Corpus.MaxDocs < 0 || c.Corpus.ReportEvery < 0 {
		return fmt.Errorf("corpus values must be >= 0")
	}

	if c.Render.MaxBodyChars < 4 {
		return fmt.Errorf("render.max_body_chars must be >= 4")
	}

	switch c.Sink.Kind {
	case SinkJSONL:
	case SinkMongo:
		if c.Mongo.URL == "" {
			return fmt.Errorf("mongo.url is required for sink.kind=mongo")
		}
	case SinkPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("postgres.url is required for sink.kind=postgres")
		}
	default:
		return fmt.Errorf("sink.kind must be one of jsonl, mongo, postgres")
	}

	if c.S3.Enabled && (c.S3.Endpoint == "" || c.S3.Bucket == "") {
		return fmt.Errorf("s3.endpoint and s3.bucket are required when s3.enabled")
	}

	if c.Cache.RedisURL != "" && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0")
	}

	if c.Timeouts.Connect <= 0 || c.Timeouts.Shutdown <= 0 {
		return fmt.Errorf("timeouts must be > 0")
	}

	return nil
}
