// Package config provides configuration management for the metadata server
package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnvPrefix is prepended to every key when looking for an environment override
const EnvPrefix = "WEBVELLA_"

// SystemConfig represents a configuration entry stored in database
type SystemConfig struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key       string    `gorm:"uniqueIndex;not null;size:100"`
	Value     string    `gorm:"type:text"`
	Category  string    `gorm:"size:50;index"`
	IsSecret  bool      `gorm:"default:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for SystemConfig
func (SystemConfig) TableName() string {
	return "system_config"
}

// ConfigService resolves configuration keys from the environment, then the
// system_config table, then the caller's default. The database is optional.
type ConfigService struct {
	db     *gorm.DB
	getenv func(string) string
	cache  map[string]string
	mu     sync.RWMutex
}

// NewConfigService creates a new config service. db may be nil.
func NewConfigService(db *gorm.DB) *ConfigService {
	svc := &ConfigService{
		db:     db,
		getenv: os.Getenv,
		cache:  make(map[string]string),
	}
	svc.loadCache()
	return svc
}

// loadCache loads all config values into memory
func (s *ConfigService) loadCache() {
	if s.db == nil {
		return
	}
	var configs []SystemConfig
	if err := s.db.Find(&configs).Error; err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cfg := range configs {
		s.cache[cfg.Key] = cfg.Value
	}
}

// Get returns a config value by key
func (s *ConfigService) Get(key string) string {
	if v := s.getenv(EnvPrefix + key); v != "" {
		return v
	}

	s.mu.RLock()
	val, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return val
	}
	if s.db == nil {
		return ""
	}

	var cfg SystemConfig
	if err := s.db.Where(&SystemConfig{Key: key}).First(&cfg).Error; err == nil {
		s.mu.Lock()
		s.cache[key] = cfg.Value
		s.mu.Unlock()
		return cfg.Value
	}
	return ""
}

// GetWithDefault returns a config value or default if not found
func (s *ConfigService) GetWithDefault(key, defaultValue string) string {
	if val := s.Get(key); val != "" {
		return val
	}
	return defaultValue
}

// GetInt returns a config value as int
func (s *ConfigService) GetInt(key string, defaultValue int) int {
	if i, err := strconv.Atoi(s.Get(key)); err == nil {
		return i
	}
	return defaultValue
}

// GetBool returns a config value as bool
func (s *ConfigService) GetBool(key string, defaultValue bool) bool {
	switch strings.ToLower(s.Get(key)) {
	case "":
		return defaultValue
	case "true", "1", "yes":
		return true
	}
	return false
}

// Set upserts a config value
func (s *ConfigService) Set(key, value, category string, isSecret bool) error {
	if s.db == nil {
		s.mu.Lock()
		s.cache[key] = value
		s.mu.Unlock()
		return nil
	}

	cfg := SystemConfig{
		ID:        uuid.New(),
		Key:       key,
		Value:     value,
		Category:  category,
		IsSecret:  isSecret,
		UpdatedAt: time.Now(),
	}
	err := s.db.Where(&SystemConfig{Key: key}).
		Assign(map[string]any{"value": value, "category": category, "is_secret": isSecret}).
		FirstOrCreate(&cfg).Error
	if err != nil {
		return fmt.Errorf("failed to store config %s: %w", key, err)
	}

	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}

// GetAllConfig returns all non-secret configuration stored in the database
func (s *ConfigService) GetAllConfig() map[string]string {
	result := make(map[string]string)
	if s.db == nil {
		return result
	}
	var configs []SystemConfig
	if err := s.db.Where("is_secret = ?", false).Find(&configs).Error; err != nil {
		return result
	}
	for _, cfg := range configs {
		result[cfg.Key] = cfg.Value
	}
	return result
}

// GenerateJWTSecret generates a secure random JWT secret
func GenerateJWTSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "webvella-fallback-secret-" + uuid.New().String()
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// SetupDefaultConfig stores the defaults that are not configured yet
func (s *ConfigService) SetupDefaultConfig() error {
	defaults := map[string]struct {
		value    string
		category string
		secret   bool
	}{
		"SERVER_PORT":            {"8090", "server", false},
		"SERVER_MODE":            {"release", "server", false},
		"JWT_SECRET":             {GenerateJWTSecret(), "auth", true},
		"JWT_ACCESS_EXPIRY":      {"24", "auth", false},
		"CORS_ALLOWED_ORIGINS":   {"http://localhost:3000", "cors", false},
		"CORS_ALLOW_CREDENTIALS": {"true", "cors", false},
		"MAX_QUERY_DEPTH":        {"32", "engine", false},
	}

	for key, cfg := range defaults {
		if s.Get(key) == "" {
			if err := s.Set(key, cfg.value, cfg.category, cfg.secret); err != nil {
				return err
			}
		}
	}
	return nil
}

// Config holds the runtime configuration
type Config struct {
	Server   ServerConfig
	Engine   EngineConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

// EngineConfig holds entity manager settings
type EngineConfig struct {
	DevelopmentMode bool
	MaxQueryDepth   int
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	JWTSecret    string
	AccessExpiry int
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Drivers accepted in DB_DRIVER
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

// ErrUnknownDriver is returned by Validate for an unsupported DB_DRIVER
var ErrUnknownDriver = errors.New("unknown database driver")

// ErrEphemeralSecret is returned by CheckSharedSecret when JWT_SECRET would
// only exist in the current process
var ErrEphemeralSecret = errors.New("JWT_SECRET is not configured")

// LoadConfig resolves every key into a Config
func (s *ConfigService) LoadConfig() *Config {
	driver := strings.ToLower(s.GetWithDefault("DB_DRIVER", DriverPostgres))
	defaultPort := "5432"
	if driver == DriverMySQL {
		defaultPort = "3306"
	}
	return &Config{
		Server: ServerConfig{
			Port:         s.GetWithDefault("SERVER_PORT", "8090"),
			Mode:         s.GetWithDefault("SERVER_MODE", "release"),
			ReadTimeout:  s.GetInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: s.GetInt("SERVER_WRITE_TIMEOUT", 30),
		},
		Engine: EngineConfig{
			DevelopmentMode: s.GetBool("DEVELOPMENT_MODE", false),
			MaxQueryDepth:   s.GetInt("MAX_QUERY_DEPTH", 32),
		},
		Auth: AuthConfig{
			JWTSecret:    s.Get("JWT_SECRET"),
			AccessExpiry: s.GetInt("JWT_ACCESS_EXPIRY", 24),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitString(s.GetWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			AllowCredentials: s.GetBool("CORS_ALLOW_CREDENTIALS", true),
		},
		Database: DatabaseConfig{
			Driver:   driver,
			Host:     s.GetWithDefault("DB_HOST", "localhost"),
			Port:     s.GetWithDefault("DB_PORT", defaultPort),
			User:     s.GetWithDefault("DB_USER", "webvella"),
			Password: s.Get("DB_PASSWORD"),
			Name:     s.GetWithDefault("DB_NAME", "webvella_erp"),
			SSLMode:  s.GetWithDefault("DB_SSLMODE", "disable"),
		},
		Log: LogConfig{
			Level: s.GetWithDefault("LOG_LEVEL", "info"),
		},
	}
}

// Validate reports settings the server cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}
	if c.Engine.MaxQueryDepth <= 0 {
		return fmt.Errorf("MAX_QUERY_DEPTH must be positive, got %d", c.Engine.MaxQueryDepth)
	}
	return nil
}

// CheckSharedSecret reports a JWT secret that no other process can know.
// Without a database the generated secret is never stored, so tokens issued
// by one process are rejected by every other one.
func (c *Config) CheckSharedSecret() error {
	if c.Database.Driver == DriverMemory && c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: set %sJWT_SECRET when DB_DRIVER=%s", ErrEphemeralSecret, EnvPrefix, DriverMemory)
	}
	return nil
}

// splitString splits a comma-separated string into a slice
func splitString(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
