package config

import (
	"fmt"
	"strings"
	"time"

	"scan_report_srv/internal/database"
	"scan_report_srv/internal/domain/report"

	"github.com/spf13/viper"
)

// Server содержит настройки HTTP-сервера.
type Server struct {
	Address         string        `mapstructure:"address"`
	Debug           bool          `mapstructure:"debug"`
	StartTimeout    time.Duration `mapstructure:"start_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DB содержит строку подключения к БД: sqlite:///<path> или postgres://...
type DB struct {
	DSN   string `mapstructure:"dsn"`
	Debug bool   `mapstructure:"debug"`
}

// Storage описывает настройки хранилища вложений.
type Storage struct {
	Type     string `mapstructure:"type"`
	BasePath string `mapstructure:"basepath"`
	S3       S3     `mapstructure:"s3"`
}

// S3 содержит настройки для S3-совместимого хранилища.
type S3 struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Logging содержит настройки логирования.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config объединяет все разделы конфигурации.
type Config struct {
	Server  Server  `mapstructure:"server"`
	DB      DB      `mapstructure:"database"`
	Storage Storage `mapstructure:"storage"`
	Logging Logging `mapstructure:"logging"`
}

// Load читает конфигурацию из файла и окружения с помощью viper.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/scan-report-service")

	return load(v)
}

// LoadFile читает конфигурацию из указанного файла и окружения.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	// Настройка для environment variables
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvironmentVariables(v)

	// Чтение файла конфигурации (опционально)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, report.E("load config", report.KindConfiguration, fmt.Errorf("failed to read config file: %w", err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, report.E("load config", report.KindConfiguration, fmt.Errorf("failed to unmarshal config: %w", err))
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, report.E("load config", report.KindConfiguration, fmt.Errorf("config validation failed: %w", err))
	}

	return cfg, nil
}

// setDefaults устанавливает значения по умолчанию
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.start_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.dsn", "sqlite:///scan_reports.db")
	v.SetDefault("database.debug", false)

	// Storage defaults
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.basepath", "uploaded_scans")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// bindEnvironmentVariables привязывает переменные окружения к конфигурации
func bindEnvironmentVariables(v *viper.Viper) {
	// Server
	v.BindEnv("server.address", "APP_SERVER_ADDRESS")
	v.BindEnv("server.debug", "APP_SERVER_DEBUG")
	v.BindEnv("server.start_timeout", "APP_SERVER_START_TIMEOUT")
	v.BindEnv("server.shutdown_timeout", "APP_SERVER_SHUTDOWN_TIMEOUT")

	// Database
	v.BindEnv("database.dsn", "APP_DATABASE_DSN", "DATABASE_URL")
	v.BindEnv("database.debug", "APP_DATABASE_DEBUG")

	// Storage
	v.BindEnv("storage.type", "APP_STORAGE_TYPE", "STORAGE_MODE")
	v.BindEnv("storage.basepath", "APP_STORAGE_BASEPATH")
	v.BindEnv("storage.s3.region", "APP_STORAGE_S3_REGION")
	v.BindEnv("storage.s3.bucket", "APP_STORAGE_S3_BUCKET")
	v.BindEnv("storage.s3.endpoint", "APP_STORAGE_S3_ENDPOINT")
	v.BindEnv("storage.s3.access_key", "APP_STORAGE_S3_ACCESS_KEY")
	v.BindEnv("storage.s3.secret_key", "APP_STORAGE_S3_SECRET_KEY")

	// Logging
	v.BindEnv("logging.level", "APP_LOGGING_LEVEL")
	v.BindEnv("logging.format", "APP_LOGGING_FORMAT")
}

// validateConfig проверяет корректность конфигурации
func validateConfig(cfg Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if cfg.Server.StartTimeout <= 0 || cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server start and shutdown timeouts must be positive")
	}

	// Проверка строки подключения
	if _, _, err := database.ParseDSN(cfg.DB.DSN); err != nil {
		return fmt.Errorf("invalid database DSN: %w", err)
	}

	// Проверка настроек хранилища
	if cfg.Storage.Type != "local" && cfg.Storage.Type != "s3" {
		return fmt.Errorf("storage type must be 'local' or 's3', got: %s", cfg.Storage.Type)
	}

	if cfg.Storage.Type == "local" && cfg.Storage.BasePath == "" {
		return fmt.Errorf("storage basepath cannot be empty for local storage")
	}

	if cfg.Storage.Type == "s3" {
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("S3 region cannot be empty")
		}
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket cannot be empty")
		}
	}

	// Проверка уровня логирования
	validLogLevels := []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
	isValidLevel := false
	for _, level := range validLogLevels {
		if strings.ToLower(cfg.Logging.Level) == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("invalid logging level: %s. Valid levels: %v", cfg.Logging.Level, validLogLevels)
	}

	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging format must be 'text' or 'json', got: %s", cfg.Logging.Format)
	}

	return nil
}

// Database возвращает настройки для пакета database
func (c Config) Database() database.Config {
	return database.Config{
		DSN:   c.DB.DSN,
		Debug: c.DB.Debug,
	}
}

// IsDevelopment возвращает true, если приложение запущено в режиме разработки
func (c Config) IsDevelopment() bool {
	return c.Server.Debug
}

// String возвращает строковое представление конфигурации (без чувствительных данных)
func (c Config) String() string {
	s3 := c.Storage.S3
	s3.AccessKey, s3.SecretKey = hide(s3.AccessKey), hide(s3.SecretKey)
	return fmt.Sprintf("Config{Server: %+v, DB: {DSN: [HIDDEN], Debug: %t}, Storage: {Type: %s, BasePath: %s, S3: %+v}, Logging: %+v}",
		c.Server, c.DB.Debug, c.Storage.Type, c.Storage.BasePath, s3, c.Logging)
}

func hide(secret string) string {
	if secret == "" {
		return ""
	}
	return "[HIDDEN]"
}
