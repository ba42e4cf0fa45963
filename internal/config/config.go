package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Database struct {
		Driver   string `yaml:"driver"` // postgres | mysql
		DSN      string `yaml:"url"`
		ReadDSN  string `yaml:"read_url"` // пул только для чтения (sqlx), по умолчанию = url
		LogLevel string `yaml:"log_level"`
		MaxOpen  int    `yaml:"max_open_conns"`
		MaxIdle  int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Storage struct {
		Type            string `yaml:"type"` // local, s3, cloudflare_r2, gcs
		BasePath        string `yaml:"base_path"`
		BaseURL         string `yaml:"base_url"`
		Bucket          string `yaml:"bucket"`
		Region          string `yaml:"region"`
		AccessKey       string `yaml:"access_key"`
		SecretKey       string `yaml:"secret_key"`
		Endpoint        string `yaml:"endpoint"`
		UseSSL          bool   `yaml:"use_ssl"`
		PublicRead      bool   `yaml:"public_read"`
		CredentialsFile string `yaml:"credentials_file"` // gcs
	} `yaml:"storage"`

	Upload struct {
		MaxSize       int64    `yaml:"max_size"`
		AllowedTypes  []string `yaml:"allowed_types"`
		ImageQuality  int      `yaml:"image_quality"`
		MaxPostImages int      `yaml:"max_post_images"`
	} `yaml:"upload"`

	Redis struct {
		Addr     string `yaml:"addr"` // пусто - кэш отключен
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      int    `yaml:"ttl"` // секунды
	} `yaml:"redis"`

	LLM struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		Timeout int    `yaml:"timeout"` // секунды
	} `yaml:"llm"`

	Scheduler struct {
		Enabled             bool   `yaml:"enabled"`
		AppointmentsSpec    string `yaml:"appointments_spec"`
		NotificationsSpec   string `yaml:"notifications_spec"`
		NotificationMaxDays int    `yaml:"notification_max_age_days"`
	} `yaml:"scheduler"`

	Lessor struct {
		ResubmitCooldown int `yaml:"resubmit_cooldown"` // минуты
	} `yaml:"lessor"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// Load читает .env (если есть), yaml по пути path и применяет переменные окружения.
// Если файла нет, но задан DATABASE_URL - работаем только на окружении (режим тестов/контейнера).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case os.IsNotExist(err) && os.Getenv("DATABASE_URL") != "":
		log.Println("✅ config.yaml не найден, конфигурация из переменных окружения")
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig загружает глобальный конфиг, путь берется из CONFIG_PATH
func LoadConfig() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// Defaults - значения по умолчанию до чтения файла
func Defaults() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"

	cfg.Database.Driver = "postgres"
	cfg.Database.LogLevel = "warn"
	cfg.Database.MaxOpen = 25
	cfg.Database.MaxIdle = 5

	cfg.JWT.TTL = 60

	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}

	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Rental"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"

	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	cfg.Upload.ImageQuality = 85
	cfg.Upload.MaxPostImages = 10

	cfg.Redis.TTL = 300

	cfg.LLM.BaseURL = "https://api.openai.com/v1"
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.LLM.Timeout = 30

	cfg.Scheduler.AppointmentsSpec = "@every 15m"
	cfg.Scheduler.NotificationsSpec = "0 3 * * *"
	cfg.Scheduler.NotificationMaxDays = 30

	cfg.Lessor.ResubmitCooldown = 15
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("FIRST_ADMIN_EMAIL"); v != "" {
		cfg.FirstAdminEmail = v
	}
	if v := os.Getenv("FIRST_ADMIN_PASSWORD"); v != "" {
		cfg.FirstAdminPassword = v
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database url is required")
	}
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt ttl must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.TTL) * time.Second
}

func (c *Config) ResubmitCooldown() time.Duration {
	return time.Duration(c.Lessor.ResubmitCooldown) * time.Minute
}

func (c *Config) ReadDSN() string {
	if c.Database.ReadDSN != "" {
		return c.Database.ReadDSN
	}
	return c.Database.DSN
}
