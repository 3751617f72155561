package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            string   `yaml:"port"`
	Environment     string   `yaml:"environment"`
	LogLevel        string   `yaml:"log_level"`
	LogFile         string   `yaml:"log_file"`
	MongoDBURI      string   `yaml:"mongodb_uri"`
	MongoDBPassword string   `yaml:"mongodb_password"`
	MongoDBDatabase string   `yaml:"mongodb_database"`
	JWTSecret       string   `yaml:"jwt_secret"`
	SessionTTLHours int      `yaml:"session_ttl_hours"`
	CORSOrigins     []string `yaml:"cors_origins"`

	ImageStore string           `yaml:"image_store"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Supabase   SupabaseConfig   `yaml:"supabase"`
	Redis      RedisConfig      `yaml:"redis"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

type SupabaseConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
	Bucket  string `yaml:"bucket"`
}

type RedisConfig struct {
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

const (
	ImageStoreCloudinary = "cloudinary"
	ImageStoreSupabase   = "supabase"
	ImageStoreNone       = "none"
)

// LoadConfig reads the optional YAML file named by CONFIG_FILE, then lets
// environment variables override it.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		Environment:     "development",
		LogLevel:        "info",
		MongoDBDatabase: "estate",
		SessionTTLHours: 24,
		CORSOrigins:     []string{"http://localhost:5173"},
		ImageStore:      ImageStoreCloudinary,
		Cloudinary:      CloudinaryConfig{Folder: "listings"},
		Supabase:        SupabaseConfig{Bucket: "listings"},
		Redis:           RedisConfig{CacheTTLSeconds: 300},
	}
}

func (c *Config) loadFromEnv() {
	setString(&c.Port, "PORT")
	setString(&c.Environment, "ENVIRONMENT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFile, "LOG_FILE")
	setString(&c.MongoDBURI, "MONGODB_URI")
	setString(&c.MongoDBPassword, "MONGODB_PASSWORD")
	setString(&c.MongoDBDatabase, "MONGODB_DATABASE")
	setString(&c.JWTSecret, "JWT_SECRET")
	setInt(&c.SessionTTLHours, "SESSION_TTL_HOURS")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	setString(&c.ImageStore, "IMAGE_STORE")
	setString(&c.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&c.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&c.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	setString(&c.Cloudinary.Folder, "CLOUDINARY_FOLDER")
	setString(&c.Supabase.URL, "SUPABASE_URL")
	setString(&c.Supabase.AnonKey, "SUPABASE_URL_ANON_KEY")
	setString(&c.Supabase.Bucket, "SUPABASE_BUCKET")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setInt(&c.Redis.DB, "REDIS_DB")
	setInt(&c.Redis.CacheTTLSeconds, "CACHE_TTL_SECONDS")
}

func (c *Config) Validate() error {
	if c.MongoDBURI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	// redis treats a zero expiry as "keep forever"
	if c.Redis.CacheTTLSeconds <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive")
	}

	c.ImageStore = strings.ToLower(strings.TrimSpace(c.ImageStore))
	switch c.ImageStore {
	case ImageStoreCloudinary:
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for the cloudinary image store")
		}
	case ImageStoreSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_URL_ANON_KEY are required for the supabase image store")
		}
	case ImageStoreNone:
	default:
		return fmt.Errorf("unsupported IMAGE_STORE %q (expected cloudinary, supabase or none)", c.ImageStore)
	}
	return nil
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
