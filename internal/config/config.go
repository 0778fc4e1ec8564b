package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 3500
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "faqbase"
	defaultDBCharset  = "utf8mb4"
	defaultRedisURL   = "redis://localhost:6379/0"

	// Bootstrap admin credentials, overridable via config/env. Meant for first
	// start only; change the password after logging in.
	defaultAdminUser     = "admin"
	defaultAdminPassword = "admin"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int             `yaml:"port"`
	Env            string          `yaml:"env"` // "development" | "production"
	DSN            string          `yaml:"dsn"` // MySQL DSN; assembled from Database when empty
	Database       DatabaseConfig  `yaml:"database"`
	RedisURL       string          `yaml:"redis_url"`
	JWTSecret      string          `yaml:"jwt_secret"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	Admin          BootstrapConfig `yaml:"admin"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

// BootstrapConfig carries the seeded admin account credentials.
type BootstrapConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load reads the YAML config file, applies env overrides and fills defaults.
// A missing file is not an error; env and defaults still apply.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Run on env/defaults alone.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_DSN")); v != "" {
		c.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		c.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		c.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("ADMIN_USER")); v != "" {
		c.Admin.Username = v
	}
	if v := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")); v != "" {
		c.Admin.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		c.Env = v
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Env == "" {
		c.Env = defaultEnv
	}
	if c.RedisURL == "" {
		c.RedisURL = defaultRedisURL
	}
	if c.Admin.Username == "" {
		c.Admin.Username = defaultAdminUser
	}
	if c.Admin.Password == "" {
		c.Admin.Password = defaultAdminPassword
	}
	if c.DSN == "" {
		c.DSN = c.Database.dsn()
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

func (d DatabaseConfig) dsn() string {
	host := d.Host
	if host == "" {
		host = defaultDBHost
	}
	port := d.Port
	if port == 0 {
		port = defaultDBPort
	}
	user := d.User
	if user == "" {
		user = defaultDBUser
	}
	password := d.Password
	if password == "" {
		password = defaultDBPassword
	}
	name := d.Name
	if name == "" {
		name = defaultDBName
	}
	charset := d.Charset
	if charset == "" {
		charset = defaultDBCharset
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		user, password, host, port, name, charset)
}
