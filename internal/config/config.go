package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	MCQ        MCQConfig
	Upload     UploadConfig
	Generation GenerationConfig
	Session    SessionConfig
	Redis      RedisConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

// MCQConfig points at the external service that stores uploads and synthesizes questions.
type MCQConfig struct {
	BaseURL string
	Timeout time.Duration
}

type UploadConfig struct {
	AllowedExtensions []string
	MaxBytes          int64
}

type GenerationConfig struct {
	MaxQuestions int
}

type SessionConfig struct {
	Backend    string // "memory" or "redis"
	TTL        time.Duration
	CookieName string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggerConfig struct {
	Env   string
	Level string
}

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.body_limit", 20*1024*1024)

	v.SetDefault("mcq.base_url", "http://localhost:5000")
	v.SetDefault("mcq.timeout", "120s")

	v.SetDefault("upload.allowed_extensions", []string{"pdf", "txt", "docx"})
	v.SetDefault("upload.max_bytes", 16*1024*1024)

	v.SetDefault("generation.max_questions", 20)

	v.SetDefault("session.backend", SessionBackendMemory)
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.cookie_name", "mcq_session")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")
}

// LoadConfig reads config.yaml from the working directory (or ./config) and
// applies environment overrides. A missing file is not an error.
func LoadConfig() (*Config, error) {
	paths := []string{".", "./config"}
	if os.Getenv("ENV") == "test" {
		paths = []string{"../../config", "../../"}
	}
	return Load(paths...)
}

// Load builds a Config from the first config.yaml found in paths, defaults and
// environment variables (MCQ_BASE_URL overrides mcq.base_url and so on).
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		MCQ: MCQConfig{
			BaseURL: strings.TrimRight(v.GetString("mcq.base_url"), "/"),
			Timeout: v.GetDuration("mcq.timeout"),
		},
		Upload: UploadConfig{
			AllowedExtensions: v.GetStringSlice("upload.allowed_extensions"),
			MaxBytes:          v.GetInt64("upload.max_bytes"),
		},
		Generation: GenerationConfig{
			MaxQuestions: v.GetInt("generation.max_questions"),
		},
		Session: SessionConfig{
			Backend:    strings.ToLower(v.GetString("session.backend")),
			TTL:        v.GetDuration("session.ttl"),
			CookieName: v.GetString("session.cookie_name"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
	}

	// ENV is the conventional switch for production logging
	if env := os.Getenv("ENV"); env != "" {
		cfg.Logger.Env = env
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.MCQ.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid mcq.base_url %q", c.MCQ.BaseURL)
	}
	if c.Generation.MaxQuestions <= 0 {
		return fmt.Errorf("generation.max_questions must be positive, got %d", c.Generation.MaxQuestions)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive, got %d", c.Upload.MaxBytes)
	}
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("unsupported session.backend %q", c.Session.Backend)
	}
	if c.Session.CookieName == "" {
		return errors.New("session.cookie_name must not be empty")
	}
	return nil
}
